package cmd

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/lunixbochs/argjoy"
	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"
)

// Command is a REPL command. Run (and each Overload) must be a func taking
// *Context first and then one argument per word; the one whose arity matches
// the input is called.
type Command struct {
	Name      string
	Desc      string
	Usage     string
	Run       interface{}
	Overloads []interface{}
}

var Commands = make(map[string]*Command)

func cmd(c *Command) *Command {
	for _, fn := range append([]interface{}{c.Run}, c.Overloads...) {
		v := reflect.ValueOf(fn)
		if !v.IsValid() || v.Kind() != reflect.Func || v.Type().NumIn() < 1 {
			panic(fmt.Sprintf("Command.Run must be a func(*Context, ...): got (%T) %#v\n", fn, fn))
		}
	}
	Commands[c.Name] = c
	return c
}

// Names returns the registered command names, sorted.
func Names() []string {
	names := make([]string, 0, len(Commands))
	for name := range Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// strToInt parses REPL words into integer arguments, accepting 0x and 0o prefixes.
func strToInt(arg interface{}, vals []interface{}) error {
	if len(vals) == 0 {
		return argjoy.NoMatch
	}
	s, ok := vals[0].(string)
	if !ok {
		return argjoy.NoMatch
	}
	switch v := arg.(type) {
	case *int:
		n, err := strconv.ParseInt(s, 0, 0)
		if err != nil {
			return errors.Errorf("bad number %q", s)
		}
		*v = int(n)
	case *int64:
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return errors.Errorf("bad number %q", s)
		}
		*v = n
	case *uint16:
		n, err := strconv.ParseUint(s, 0, 16)
		if err != nil {
			return errors.Errorf("bad 16-bit number %q", s)
		}
		*v = uint16(n)
	case *uint64:
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return errors.Errorf("bad number %q", s)
		}
		*v = n
	default:
		return argjoy.NoMatch
	}
	return nil
}

var aj = newArgjoy()

func newArgjoy() *argjoy.Argjoy {
	a := argjoy.NewArgjoy()
	a.Register(strToInt)
	return a
}

func pick(c *Command, nargs int) interface{} {
	for _, fn := range append([]interface{}{c.Run}, c.Overloads...) {
		if reflect.TypeOf(fn).NumIn()-1 == nargs {
			return fn
		}
	}
	return nil
}

// Run parses and executes one REPL line. Command failures are printed, not returned.
func Run(c *Context, line string) error {
	args, err := shellwords.Parse(line)
	if err != nil {
		c.Printf("parse error: %v\n", err)
		return nil
	}
	if len(args) == 0 {
		return nil
	}
	name, args := args[0], args[1:]
	cmd, ok := Commands[name]
	if !ok {
		c.Printf("command not found.\n")
		return nil
	}
	fn := pick(cmd, len(args))
	if fn == nil {
		c.Printf("usage: %s %s\n", cmd.Name, cmd.Usage)
		return nil
	}
	vals := []interface{}{c}
	for _, a := range args {
		vals = append(vals, a)
	}
	out, err := aj.Call(fn, vals...)
	if err != nil {
		c.Printf("error: %v\n", err)
	}
	if len(out) > 0 {
		if err, ok := out[0].(error); ok && err != nil {
			c.Printf("error: %v\n", err)
			if c.Config.Verbose {
				c.Printf("%+v\n", err)
			}
		}
	}
	return nil
}
