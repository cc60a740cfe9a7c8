package models

import (
	"bytes"
	"flag"
	"strings"
	"testing"
)

func visit(fs *flag.FlagSet) []*flag.Flag {
	var flags []*flag.Flag
	fs.VisitAll(func(f *flag.Flag) { flags = append(flags, f) })
	return flags
}

func TestPrintFlags(t *testing.T) {
	own := flag.NewFlagSet("own", flag.ContinueOnError)
	own.Int("min", 4, "minimum string length")
	own.String("filter", "", strings.Repeat("long usage text ", 8))
	common := flag.NewFlagSet("common", flag.ContinueOnError)
	common.Bool("v", false, "verbose")
	common.Bool("color", true, "colorize output")

	var buf bytes.Buffer
	PrintFlags(&buf,
		FlagGroup{Title: "Options", Flags: visit(own)},
		FlagGroup{Title: "Empty"},
		FlagGroup{Title: "Common options", Flags: visit(common)},
	)
	out := buf.String()
	if strings.Contains(out, "Empty") {
		t.Fatalf("empty group printed:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "Options:" {
		t.Fatalf("bad first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  -filter ") {
		t.Fatalf("bad flag line %q", lines[1])
	}
	var min, color, verbose string
	for _, line := range lines {
		if len(line) > 80 {
			t.Fatalf("line over 80 columns: %q", line)
		}
		switch {
		case strings.HasPrefix(line, "  -min "):
			min = line
		case strings.HasPrefix(line, "  -color "):
			color = line
		case strings.HasPrefix(line, "  -v "):
			verbose = line
		}
	}
	if !strings.Contains(min, "(4)") || !strings.Contains(color, "(true)") {
		t.Fatalf("missing defaults: %q %q", min, color)
	}
	if strings.Contains(verbose, "(false)") {
		t.Fatalf("off switch shows a default: %q", verbose)
	}
	// descriptions share a column across groups
	if strings.Index(min, "minimum") != strings.Index(verbose, "verbose") {
		t.Fatalf("columns differ:\n%s\n%s", min, verbose)
	}
	if !strings.Contains(out, "\n\nCommon options:\n") {
		t.Fatalf("groups not separated:\n%s", out)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three\nfour averyveryverylongword", 9)
	want := []string{"one two", "three", "four", "averyveryverylongword"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := wrapText("", 10); len(got) != 1 || got[0] != "" {
		t.Fatalf("empty usage: %q", got)
	}
}

func TestConfigViews(t *testing.T) {
	c := NewConfig()
	if !c.Shown("dos") || c.Shown("strings") {
		t.Fatal("bad defaults")
	}
	if on, err := c.Toggle("strings"); err != nil || !on {
		t.Fatalf("toggle: %v %v", on, err)
	}
	if err := c.SetShown("imports", true); err == nil {
		t.Fatal("unknown view accepted")
	}
	if c.Shown("imports") {
		t.Fatal("unknown view shown")
	}
	c.ShowAll(false)
	for _, v := range Views {
		if c.Shown(v) {
			t.Fatalf("%s still shown", v)
		}
	}
}
