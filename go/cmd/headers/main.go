package headers

import (
	"github.com/pescope/pescope/go/cmd"
	"github.com/pescope/pescope/go/loader"
	"github.com/pescope/pescope/go/ui"
)

func New() *cmd.PescopeCmd {
	c := cmd.NewPescopeCmd()
	var dos, nt, sections, all *bool
	c.SetupFlags = func() error {
		dos = c.Flags.Bool("dos", false, "show the DOS header")
		nt = c.Flags.Bool("nt", false, "show the NT, file and optional headers")
		sections = c.Flags.Bool("sections", false, "show the section table")
		all = c.Flags.Bool("all", false, "show every header and the .rdata strings")
		return nil
	}
	c.RunFile = func(l *loader.PeLoader, path string) error {
		config := c.Config
		switch {
		case *all:
			config.ShowAll(true)
		case *dos || *nt || *sections:
			config.ShowDos, config.ShowNt, config.ShowSections = *dos, *nt, *sections
		}
		v := ui.NewView(l, config)
		if err := v.Print(config.Output); err != nil {
			return err
		}
		// failures are already rendered inline
		if err := v.Err(); err != nil {
			return cmd.ExitCode(err)
		}
		return nil
	}
	return c
}

func Main(args []string) int {
	return New().Run(args)
}

func init() { cmd.Register("headers", "print the DOS header, NT header and section table", Main) }
