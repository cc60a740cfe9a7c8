package strings

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/pescope/pescope/go/cmd"
	"github.com/pescope/pescope/go/loader"
	"github.com/pescope/pescope/go/ui"
)

func New() *cmd.PescopeCmd {
	c := cmd.NewPescopeCmd()
	var min *int
	var section, filter *string
	var title *bool
	c.SetupFlags = func() error {
		min = c.Flags.Int("min", loader.DefaultMinStringLen, "minimum string length")
		section = c.Flags.String("section", loader.RdataSection, "section to extract strings from")
		filter = c.Flags.String("filter", "", "only print strings containing this text")
		title = c.Flags.Bool("title", false, "print a header line before the strings")
		return nil
	}
	c.RunFile = func(l *loader.PeLoader, path string) error {
		config := c.Config
		config.MinStrLen = *min
		config.Section = *section
		config.Filter = *filter
		v := ui.NewView(l, config)
		if *title {
			config.ShowAll(false)
			config.ShowStrings = true
			return v.Print(config.Output)
		}
		strs, err := v.Strings()
		if err != nil {
			return err
		}
		for _, s := range strs {
			if _, err := fmt.Fprintln(config.Output, s); err != nil {
				return errors.Wrap(err, "write failed")
			}
		}
		return nil
	}
	return c
}

func Main(args []string) int {
	return New().Run(args)
}

func init() {
	cmd.Register("strings", "print NUL-terminated strings from a section (.rdata by default)", Main)
}
