package cmd

import (
	"fmt"
	"io"

	"github.com/pescope/pescope/go/models"
	"github.com/pescope/pescope/go/ui"
)

type Context struct {
	io.Writer
	Src    ui.Source
	Config *models.Config
}

func (c *Context) Printf(format string, a ...interface{}) (n int, err error) {
	return fmt.Fprintf(c, format, a...)
}

func (c *Context) View() *ui.View {
	return ui.NewView(c.Src, c.Config)
}

func (c *Context) printLines(lines []string) {
	for _, line := range lines {
		c.Printf("%s\n", line)
	}
}
