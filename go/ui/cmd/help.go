package cmd

import (
	"fmt"
)

var HelpCmd = cmd(&Command{
	Name: "help",
	Desc: "List commands.",
	Run: func(c *Context) {
		pad := 0
		for _, name := range Names() {
			if len(name) > pad {
				pad = len(name)
			}
		}
		fstr := fmt.Sprintf("  %%-%ds %%-10s | %%s\n", pad)
		for _, name := range Names() {
			cmd := Commands[name]
			c.Printf(fstr, cmd.Name, cmd.Usage, cmd.Desc)
		}
	},
})
