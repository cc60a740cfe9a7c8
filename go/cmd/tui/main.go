package tui

import (
	"path/filepath"

	"github.com/pescope/pescope/go/cmd"
	"github.com/pescope/pescope/go/loader"
	"github.com/pescope/pescope/go/ui"
)

func Main(args []string) int {
	c := cmd.NewPescopeCmd()
	var min *int
	c.SetupFlags = func() error {
		min = c.Flags.Int("min", loader.DefaultMinStringLen, "minimum string length")
		return nil
	}
	c.RunFile = func(l *loader.PeLoader, path string) error {
		c.Config.MinStrLen = *min
		// gocui owns the terminal
		c.Config.Color = false
		t, err := ui.NewTui(l, c.Config, filepath.Base(path))
		if err != nil {
			return err
		}
		return t.Run()
	}
	return c.Run(args)
}

func init() { cmd.Register("tui", "browse headers and strings full-screen", Main) }
