package cmd

import (
	"github.com/pescope/pescope/go/models"
)

var ArchCmd = cmd(&Command{
	Name:  "arch",
	Desc:  "Name a machine code, or show the image's machine with no argument.",
	Usage: "[code]",
	Run: func(c *Context) error {
		nt, err := c.Src.NtHeader()
		if err != nil {
			return err
		}
		c.Printf("0x%04x %s\n", nt.FileHeader.Machine, nt.FileHeader.Arch())
		return nil
	},
	Overloads: []interface{}{
		func(c *Context, code uint16) {
			c.Printf("0x%04x %s\n", code, models.ArchitectureName(code))
		},
	},
})
