package repl

import (
	"path/filepath"

	"github.com/pescope/pescope/go/cmd"
	"github.com/pescope/pescope/go/loader"
	uicmd "github.com/pescope/pescope/go/ui/cmd"
)

func Main(args []string) int {
	c := cmd.NewPescopeCmd()
	c.RunFile = func(l *loader.PeLoader, path string) error {
		r, err := uicmd.NewRepl(l, c.Config, filepath.Base(path))
		if err != nil {
			return err
		}
		return r.Run()
	}
	return c.Run(args)
}

func init() { cmd.Register("repl", "explore an image interactively", Main) }
