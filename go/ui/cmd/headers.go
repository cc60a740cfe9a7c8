package cmd

var DosCmd = cmd(&Command{
	Name: "dos",
	Desc: "Display the DOS header.",
	Run: func(c *Context) {
		c.printLines(c.View().DosLines())
	},
})

var NtCmd = cmd(&Command{
	Name: "nt",
	Desc: "Display the NT header, file header and optional header.",
	Run: func(c *Context) {
		c.printLines(c.View().NtLines())
	},
})

var SectionsCmd = cmd(&Command{
	Name: "sections",
	Desc: "Display the section table.",
	Run: func(c *Context) {
		c.printLines(c.View().SectionLines())
	},
})

var ViewCmd = cmd(&Command{
	Name: "view",
	Desc: "Display every enabled structure.",
	Run: func(c *Context) {
		c.printLines(c.View().Lines())
	},
})

var ShowCmd = cmd(&Command{
	Name:  "show",
	Desc:  "Enable a structure in view (dos, nt, sections, strings).",
	Usage: "<name>",
	Run: func(c *Context, name string) error {
		return c.Config.SetShown(name, true)
	},
})

var HideCmd = cmd(&Command{
	Name:  "hide",
	Desc:  "Disable a structure in view.",
	Usage: "<name>",
	Run: func(c *Context, name string) error {
		return c.Config.SetShown(name, false)
	},
})
