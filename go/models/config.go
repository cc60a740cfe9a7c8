package models

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// Views are the structures a front end can toggle, in display order.
var Views = []string{"dos", "nt", "sections", "strings"}

type Config struct {
	Color     bool
	Verbose   bool
	Codepage  string
	Filter    string
	MinStrLen int
	Section   string
	// Strsize truncates displayed strings to this many columns; 0 disables.
	Strsize   int

	ShowDos      bool
	ShowNt       bool
	ShowSections bool
	ShowStrings  bool

	Output io.Writer
}

func NewConfig() *Config {
	return &Config{
		MinStrLen:    4,
		Section:      ".rdata",
		Codepage:     "raw",
		ShowDos:      true,
		ShowNt:       true,
		ShowSections: true,
		Output:       os.Stdout,
	}
}

func (c *Config) view(name string) (*bool, error) {
	switch name {
	case "dos":
		return &c.ShowDos, nil
	case "nt":
		return &c.ShowNt, nil
	case "sections":
		return &c.ShowSections, nil
	case "strings":
		return &c.ShowStrings, nil
	}
	return nil, errors.Errorf("unknown view %q (want one of %v)", name, Views)
}

func (c *Config) Shown(name string) bool {
	v, err := c.view(name)
	return err == nil && *v
}

func (c *Config) SetShown(name string, on bool) error {
	v, err := c.view(name)
	if err != nil {
		return err
	}
	*v = on
	return nil
}

// Toggle flips a view and returns its new state.
func (c *Config) Toggle(name string) (bool, error) {
	v, err := c.view(name)
	if err != nil {
		return false, err
	}
	*v = !*v
	return *v, nil
}

func (c *Config) ShowAll(on bool) {
	c.ShowDos, c.ShowNt, c.ShowSections, c.ShowStrings = on, on, on, on
}
