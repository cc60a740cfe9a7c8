package cmd

import (
	"github.com/pescope/pescope/go/ui"
)

var StringsCmd = cmd(&Command{
	Name:  "strings",
	Desc:  "List strings of the current section, optionally changing the minimum length.",
	Usage: "[min]",
	Run: func(c *Context) {
		c.printLines(c.View().StringLines())
	},
	Overloads: []interface{}{
		func(c *Context, min int) {
			if min < 1 {
				min = 1
			}
			c.Config.MinStrLen = min
			c.printLines(c.View().StringLines())
		},
	},
})

var FilterCmd = cmd(&Command{
	Name:  "filter",
	Desc:  "Set the string filter, or clear it with no argument.",
	Usage: "[text]",
	Run: func(c *Context) {
		c.Config.Filter = ""
	},
	Overloads: []interface{}{
		func(c *Context, text string) {
			c.Config.Filter = text
		},
	},
})

var SectionCmd = cmd(&Command{
	Name:  "section",
	Desc:  "Show or set the section strings are extracted from.",
	Usage: "[name]",
	Run: func(c *Context) {
		c.Printf("%s\n", c.Config.Section)
	},
	Overloads: []interface{}{
		func(c *Context, name string) {
			c.Config.Section = name
		},
	},
})

var CodepageCmd = cmd(&Command{
	Name:  "cp",
	Desc:  "Show or set the display codepage.",
	Usage: "[codepage]",
	Run: func(c *Context) {
		c.Printf("%s (available: %v)\n", c.Config.Codepage, ui.Codepages())
	},
	Overloads: []interface{}{
		func(c *Context, cp string) error {
			if _, err := ui.Decode("", cp); err != nil {
				return err
			}
			c.Config.Codepage = cp
			return nil
		},
	},
})
