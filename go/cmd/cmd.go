package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/pescope/pescope/go/loader"
	"github.com/pescope/pescope/go/models"
	"github.com/pescope/pescope/go/ui"
)

type PescopeCmd struct {
	Config *models.Config
	// Args is shown after [options] in the usage line.
	Args   string
	NoFile bool

	SetupFlags func() error
	// RunFile is called with the loaded image for file commands.
	RunFile func(l *loader.PeLoader, path string) error
	// RunArgs is called with the remaining arguments when NoFile is set.
	RunArgs func(args []string) error

	Flags  *flag.FlagSet
	Stdout io.Writer
	Stderr io.Writer
}

func NewPescopeCmd() *PescopeCmd {
	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	return &PescopeCmd{Flags: fs, Args: "<file>", Stderr: os.Stderr}
}

// commonFlags are defined by Run for every subcommand.
var commonFlags = map[string]bool{"v": true, "color": true, "o": true, "strsize": true, "cp": true}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// PrintError prints err, with a stack trace table when verbose is set and
// the error carries one.
func PrintError(w io.Writer, err error, verbose bool) {
	fmt.Fprintf(w, "Error: %s\n", err)
	if !verbose {
		return
	}
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 40))
	st, ok := err.(stackTracer)
	if !ok {
		return
	}
	// parse full path and method name for each stack frame
	var frames [][]string
	for _, f := range st.StackTrace() {
		fullpath := ""
		fileline := fmt.Sprintf("%s:%d", f, f)
		method := fmt.Sprintf("%n", f)

		frame := fmt.Sprintf("%+s", f)
		tmp := strings.SplitN(frame, "\n", 3)
		if len(tmp) == 2 {
			pathsplit := strings.Split(tmp[0], "/")
			method = pathsplit[len(pathsplit)-1]
			fullpath = strings.TrimSpace(tmp[1])
		}
		frames = append(frames, []string{fullpath, fileline, method})
		if method == "main.main" {
			break
		}
	}
	// calculate column widths
	widths := make([]int, 3)
	for _, f := range frames {
		for i, s := range f {
			if len(s) > widths[i] {
				widths[i] = len(s)
			}
		}
	}
	for _, f := range frames {
		method := f[2]
		for i := 0; i < 2; i++ {
			if widths[i] > 0 {
				pad := strings.Repeat(" ", widths[i]-len(f[i]))
				fmt.Fprintf(w, "%s%s | ", f[i], pad)
			}
		}
		fmt.Fprintf(w, "%s()\n", method)
	}
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) models.ExitStatus {
	if err == nil {
		return models.ExitOK
	}
	if e, ok := errors.Cause(err).(models.ExitStatus); ok {
		return e
	}
	if loader.IsInvalidFormat(err) || loader.IsTruncated(err) || errors.Is(err, loader.UnknownMagic) {
		return models.ExitInvalid
	}
	return models.ExitError
}

// Run parses argv (argv[0] is the command name) and returns the exit status.
func (c *PescopeCmd) Run(argv []string) int {
	fs := c.Flags
	fs.SetOutput(c.Stderr)

	out, tty := c.Stdout, false
	if out == nil {
		out, tty = ui.Output(os.Stdout)
	}
	verbose := fs.Bool("v", false, "verbose output (stack traces on error)")
	color := fs.Bool("color", tty, "colorize output")
	outfile := fs.String("o", "", "write output to file")
	strsize := fs.Int("strsize", 0, "truncate displayed strings to this many columns (0 disables)")
	codepage := fs.String("cp", "raw", "display codepage for strings: "+strings.Join(ui.Codepages(), ", "))

	fs.Usage = func() {
		usage := "Usage: %s [options]"
		if c.Args != "" {
			usage += " " + c.Args
		}
		usage += "\n\n"
		fmt.Fprintf(c.Stderr, usage, argv[0])
		own := models.FlagGroup{Title: "Options"}
		common := models.FlagGroup{Title: "Common options"}
		fs.VisitAll(func(f *flag.Flag) {
			if commonFlags[f.Name] {
				common.Flags = append(common.Flags, f)
			} else {
				own.Flags = append(own.Flags, f)
			}
		})
		models.PrintFlags(c.Stderr, own, common)
	}
	if c.SetupFlags != nil {
		if err := c.SetupFlags(); err != nil {
			PrintError(c.Stderr, err, true)
			return int(models.ExitError)
		}
	}
	if err := fs.Parse(argv[1:]); err != nil {
		return int(models.ExitUsage)
	}

	config := models.NewConfig()
	config.Verbose = *verbose
	config.Color = *color
	config.Strsize = *strsize
	config.Codepage = *codepage
	config.Output = out
	if _, err := ui.Decode("", *codepage); err != nil {
		PrintError(c.Stderr, err, false)
		return int(models.ExitUsage)
	}
	if *outfile != "" {
		f, err := os.Create(*outfile)
		if err != nil {
			PrintError(c.Stderr, errors.WithStack(err), *verbose)
			return int(models.ExitError)
		}
		defer f.Close()
		config.Output = f
		config.Color = false
	}
	c.Config = config

	var err error
	if c.NoFile {
		err = c.RunArgs(fs.Args())
	} else {
		args := fs.Args()
		if len(args) != 1 {
			fs.Usage()
			return int(models.ExitUsage)
		}
		err = c.runFile(args[0])
	}
	if err != nil {
		if e, ok := err.(models.ExitStatus); ok {
			return int(e)
		}
		PrintError(c.Stderr, err, config.Verbose)
	}
	return int(ExitCode(err))
}

func (c *PescopeCmd) runFile(path string) error {
	l, err := loader.LoadFile(path)
	if err != nil {
		return err
	}
	defer l.Close()
	return c.RunFile(l, path)
}
