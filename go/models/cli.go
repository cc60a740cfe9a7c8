package models

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

const usageWidth = 80

// FlagGroup is a titled block of options in usage output.
type FlagGroup struct {
	Title string
	Flags []*flag.Flag
}

type boolFlag interface {
	IsBoolFlag() bool
}

// flagDefault is the "(default)" column. Off switches and empty values show nothing.
func flagDefault(f *flag.Flag) string {
	if f.DefValue == "" || f.DefValue == "[]" {
		return ""
	}
	if b, ok := f.Value.(boolFlag); ok && b.IsBoolFlag() && f.DefValue == "false" {
		return ""
	}
	return "(" + f.DefValue + ")"
}

// wrapText breaks s into lines of at most width columns at spaces and newlines.
// A word longer than width gets a line to itself.
func wrapText(s string, width int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			if line != "" && len(line)+1+len(word) > width {
				lines = append(lines, line)
				line = ""
			}
			if line != "" {
				line += " "
			}
			line += word
		}
		lines = append(lines, line)
	}
	return lines
}

// PrintFlags writes each non-empty group under its title. Columns line up
// across groups and descriptions wrap at 80 columns.
func PrintFlags(w io.Writer, groups ...FlagGroup) {
	wname, wdef := 0, 0
	for _, g := range groups {
		for _, f := range g.Flags {
			if len(f.Name) > wname {
				wname = len(f.Name)
			}
			if d := flagDefault(f); len(d) > wdef {
				wdef = len(d)
			}
		}
	}
	// "  -name default desc"
	indent := wname + wdef + 5
	wdesc := usageWidth - indent
	if wdesc < 20 {
		wdesc = 20
	}
	lpad := strings.Repeat(" ", indent)

	first := true
	for _, g := range groups {
		if len(g.Flags) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		fmt.Fprintf(w, "%s:\n", g.Title)
		for _, f := range g.Flags {
			desc := wrapText(f.Usage, wdesc)
			fmt.Fprintf(w, "  -%-*s %-*s %s\n", wname, f.Name, wdef, flagDefault(f), desc[0])
			for _, line := range desc[1:] {
				fmt.Fprintf(w, "%s%s\n", lpad, line)
			}
		}
	}
}
