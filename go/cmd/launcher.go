package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
)

type command struct {
	name, desc string
	main       func(args []string) int
}

var commands map[string]*command
var order []string
var pad int

func init() { commands = make(map[string]*command) }

// Register adds a subcommand. main receives argv with the command name joined into argv[0].
func Register(name, desc string, main func(args []string) int) {
	if len(name) > pad {
		pad = len(name)
	}
	commands[name] = &command{name, desc, main}
	order = append(order, name)
}

func usage(w io.Writer, prog string) {
	fmt.Fprintln(w, "Commands:")
	fstr := fmt.Sprintf("  %%-%ds | %%s\n", pad)
	for _, name := range order {
		cmd := commands[name]
		fmt.Fprintf(w, fstr, cmd.name, cmd.desc)
	}
	fmt.Fprintf(w, "\nExample: %s strings -min 6 -filter .dll app.exe\n\n", prog)
}

// Dispatch runs the subcommand named by args[1] and returns its exit status.
func Dispatch(args []string, stderr io.Writer) int {
	if len(args) < 2 {
		usage(stderr, args[0])
		return 2
	}
	cmd, ok := commands[args[1]]
	if !ok {
		fmt.Fprintf(stderr, "Command '%s' not found.\n\n", args[1])
		usage(stderr, args[0])
		return 2
	}
	argv := append([]string{strings.Join(args[:2], " ")}, args[2:]...)
	return cmd.main(argv)
}

func Main() {
	os.Exit(Dispatch(os.Args, os.Stderr))
}
