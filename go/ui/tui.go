package ui

import (
	"fmt"
	"strings"

	"github.com/jroimartin/gocui"
	"github.com/lunixbochs/vtclean"
	"github.com/pkg/errors"

	"github.com/pescope/pescope/go/models"
)

const (
	structView  = "structures"
	stringsView = "strings"
	filterView  = "filter"
)

// Tui is a full-screen browser: structures on the left, strings on the
// right and a filter line at the bottom.
type Tui struct {
	view *View
	g    *gocui.Gui
	name string
	// focus is the pane that scrolls; the filter line takes it while editing
	focus string
}

func newTui(src Source, c *models.Config, name string) *Tui {
	v := NewView(src, c)
	v.color = false
	return &Tui{view: v, name: name, focus: structView}
}

func NewTui(src Source, c *models.Config, name string) (*Tui, error) {
	t := newTui(src, c, name)
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, errors.Wrap(err, "gocui failed")
	}
	t.g = g
	g.InputEsc = true
	g.SetManagerFunc(t.layout)
	if err := t.bindKeys(); err != nil {
		g.Close()
		return nil, err
	}
	return t, nil
}

// structureLines renders the enabled header views. Strings have their own pane.
func (t *Tui) structureLines() []string {
	c := *t.view.Config
	c.ShowStrings = false
	v := *t.view
	v.Config = &c
	lines := v.Lines()
	if len(lines) == 0 {
		lines = []string{"(all structures hidden: press d, n or s)"}
	}
	return lines
}

func (t *Tui) stringLines() []string {
	return t.view.StringLines()
}

func (t *Tui) toggle(name string) func(*gocui.Gui, *gocui.View) error {
	return func(g *gocui.Gui, v *gocui.View) error {
		if _, err := t.view.Config.Toggle(name); err != nil {
			return err
		}
		return t.render(g)
	}
}

func fill(v *gocui.View, lines []string) {
	v.Clear()
	for _, line := range lines {
		fmt.Fprintln(v, vtclean.Clean(line, false))
	}
}

func (t *Tui) render(g *gocui.Gui) error {
	if g == nil {
		return nil
	}
	if v, err := g.View(structView); err == nil {
		fill(v, t.structureLines())
	}
	if v, err := g.View(stringsView); err == nil {
		fill(v, t.stringLines())
	}
	return nil
}

func (t *Tui) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	split := maxX / 2
	if v, err := g.SetView(structView, 0, 0, split-1, maxY-3); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = t.name
		v.Wrap = false
		fill(v, t.structureLines())
		if _, err := g.SetCurrentView(structView); err != nil {
			return err
		}
	}
	if v, err := g.SetView(stringsView, split, 0, maxX-1, maxY-3); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "strings"
		v.Wrap = false
		fill(v, t.stringLines())
	}
	if v, err := g.SetView(filterView, 0, maxY-3, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "filter (/ to edit, enter to apply)"
		v.Editable = true
		v.Wrap = false
		fmt.Fprint(v, t.view.Config.Filter)
	}
	return nil
}

func (t *Tui) quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

func (t *Tui) editFilter(g *gocui.Gui, v *gocui.View) error {
	fv, err := g.SetCurrentView(filterView)
	if err != nil {
		return err
	}
	g.Cursor = true
	fv.SetCursor(len(strings.TrimRight(fv.Buffer(), "\n")), 0)
	return nil
}

func (t *Tui) applyFilter(g *gocui.Gui, v *gocui.View) error {
	t.view.Config.Filter = strings.TrimSpace(v.Buffer())
	return t.leaveFilter(g, v)
}

func (t *Tui) leaveFilter(g *gocui.Gui, v *gocui.View) error {
	g.Cursor = false
	v.Clear()
	v.SetCursor(0, 0)
	fmt.Fprint(v, t.view.Config.Filter)
	if _, err := g.SetCurrentView(t.focus); err != nil {
		return err
	}
	return t.render(g)
}

func (t *Tui) switchPane(g *gocui.Gui, v *gocui.View) error {
	if v != nil && v.Name() == filterView {
		return nil
	}
	if t.focus == structView {
		t.focus = stringsView
	} else {
		t.focus = structView
	}
	_, err := g.SetCurrentView(t.focus)
	return err
}

func scroll(dy int) func(*gocui.Gui, *gocui.View) error {
	return func(g *gocui.Gui, v *gocui.View) error {
		if v == nil {
			return nil
		}
		ox, oy := v.Origin()
		if oy+dy < 0 {
			dy = -oy
		}
		return v.SetOrigin(ox, oy+dy)
	}
}

func (t *Tui) bindKeys() error {
	g := t.g
	type binding struct {
		view    string
		key     interface{}
		handler func(*gocui.Gui, *gocui.View) error
	}
	bindings := []binding{
		{"", gocui.KeyCtrlC, t.quit},
		{"", gocui.KeyTab, t.switchPane},
		{filterView, gocui.KeyEnter, t.applyFilter},
		{filterView, gocui.KeyEsc, t.leaveFilter},
	}
	// rune keys stay off the filter line so typing there is not swallowed
	for _, pane := range []string{structView, stringsView} {
		bindings = append(bindings,
			binding{pane, 'q', t.quit},
			binding{pane, 'd', t.toggle("dos")},
			binding{pane, 'n', t.toggle("nt")},
			binding{pane, 's', t.toggle("sections")},
			binding{pane, '/', t.editFilter},
			binding{pane, gocui.KeyArrowDown, scroll(1)},
			binding{pane, gocui.KeyArrowUp, scroll(-1)},
			binding{pane, gocui.KeyPgdn, scroll(10)},
			binding{pane, gocui.KeyPgup, scroll(-10)},
		)
	}
	for _, b := range bindings {
		if err := g.SetKeybinding(b.view, b.key, gocui.ModNone, b.handler); err != nil {
			return errors.Wrapf(err, "binding %v", b.key)
		}
	}
	return nil
}

// Run blocks until the user quits.
func (t *Tui) Run() error {
	defer t.Close()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return errors.Wrap(err, "gocui main loop")
	}
	return nil
}

func (t *Tui) Close() {
	if t.g != nil {
		t.g.Close()
		t.g = nil
	}
}
