package arch

import (
	"fmt"
	"strconv"

	"github.com/pescope/pescope/go/cmd"
	"github.com/pescope/pescope/go/models"
)

func New() *cmd.PescopeCmd {
	c := cmd.NewPescopeCmd()
	c.NoFile = true
	c.Args = "[code...]"
	var byName *bool
	c.SetupFlags = func() error {
		byName = c.Flags.Bool("sort", false, "sort the table by name instead of code")
		return nil
	}
	c.RunArgs = func(args []string) error {
		out := c.Config.Output
		if len(args) == 0 {
			for _, m := range models.KnownMachines(*byName) {
				fmt.Fprintf(out, "0x%04x  %s\n", uint16(m.Code), m.Name)
			}
			return nil
		}
		for _, arg := range args {
			code, err := strconv.ParseUint(arg, 0, 16)
			if err != nil {
				fmt.Fprintf(c.Stderr, "bad machine code %q\n", arg)
				return models.ExitUsage
			}
			fmt.Fprintf(out, "0x%04x  %s\n", code, models.ArchitectureName(uint16(code)))
		}
		return nil
	}
	return c
}

func Main(args []string) int {
	return New().Run(args)
}

func init() { cmd.Register("arch", "name IMAGE_FILE_MACHINE codes", Main) }
