package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pescope/pescope/go/loader"
	"github.com/pescope/pescope/go/loader/petest"
	"github.com/pescope/pescope/go/models"
)

func newContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	l, err := loader.NewPeLoader(bytes.NewReader(petest.Default().Build()))
	require.NoError(t, err)
	var out bytes.Buffer
	return &Context{Writer: &out, Src: l, Config: models.NewConfig()}, &out
}

func run(t *testing.T, c *Context, out *bytes.Buffer, line string) string {
	t.Helper()
	out.Reset()
	require.NoError(t, Run(c, line))
	return out.String()
}

func TestRunParse(t *testing.T) {
	c, out := newContext(t)
	assert.Equal(t, "", run(t, c, out, ""))
	assert.Equal(t, "command not found.\n", run(t, c, out, "bogus"))
	assert.Contains(t, run(t, c, out, `filter "unterminated`), "parse error")
	assert.Equal(t, "usage: show <name>\n", run(t, c, out, "show"))
}

func TestStringsCommand(t *testing.T) {
	c, out := newContext(t)
	assert.Equal(t, "[Strings .rdata (min 4)]\n  CDEF\n", run(t, c, out, "strings"))
	assert.Equal(t, "[Strings .rdata (min 2)]\n  AB\n  CDEF\n", run(t, c, out, "strings 2"))
	assert.Equal(t, 2, c.Config.MinStrLen)

	run(t, c, out, `filter "B"`)
	assert.Equal(t, "B", c.Config.Filter)
	assert.Equal(t, "[Strings .rdata (min 2) matching \"B\"]\n  AB\n", run(t, c, out, "strings"))
	run(t, c, out, "filter")
	assert.Equal(t, "", c.Config.Filter)

	assert.Contains(t, run(t, c, out, "strings zero"), "error:")
	assert.Equal(t, 2, c.Config.MinStrLen)

	run(t, c, out, "section .data")
	assert.Equal(t, ".data\n", run(t, c, out, "section"))
	assert.Contains(t, run(t, c, out, "strings"), "DATA_SECTION")
}

func TestShowHide(t *testing.T) {
	c, out := newContext(t)
	run(t, c, out, "hide dos")
	assert.False(t, c.Config.ShowDos)
	run(t, c, out, "show strings")
	assert.True(t, c.Config.ShowStrings)
	assert.Contains(t, run(t, c, out, "show imports"), "unknown view")

	view := run(t, c, out, "view")
	assert.False(t, strings.HasPrefix(view, "[DOS header]"))
	assert.True(t, strings.HasPrefix(view, "[NT header]"), view)
	assert.Contains(t, view, "  CDEF\n")
}

func TestArchCommand(t *testing.T) {
	c, out := newContext(t)
	assert.Equal(t, "0x8664 x64\n", run(t, c, out, "arch"))
	assert.Equal(t, "0xaa64 ARM64 little endian\n", run(t, c, out, "arch 0xaa64"))
	assert.Equal(t, "0x1234 Unknown Architecture\n", run(t, c, out, "arch 4660"))
	assert.Equal(t, "0x014c x86\n", run(t, c, out, "arch 0x14c"))
	assert.Contains(t, run(t, c, out, "arch 0x10000"), "error:")
}

func TestHeaderCommands(t *testing.T) {
	c, out := newContext(t)
	assert.True(t, strings.HasPrefix(run(t, c, out, "dos"), "[DOS header]\n"))
	assert.Contains(t, run(t, c, out, "nt"), "x64")
	assert.Contains(t, run(t, c, out, "sections"), ".rdata")
}

func TestCodepageCommand(t *testing.T) {
	c, out := newContext(t)
	run(t, c, out, "cp cp1252")
	assert.Equal(t, "cp1252", c.Config.Codepage)
	assert.Contains(t, run(t, c, out, "cp nope"), "unknown codepage")
	assert.Equal(t, "cp1252", c.Config.Codepage)
	assert.True(t, strings.HasPrefix(run(t, c, out, "cp"), "cp1252 "))
}

func TestDumpCommands(t *testing.T) {
	c, out := newContext(t)
	dump := run(t, c, out, "dump .rdata")
	lines := strings.Split(strings.TrimSpace(dump), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[.rdata @ 0x400]", lines[0])
	assert.Contains(t, lines[1], "0x00000400: 41420043")

	assert.Contains(t, run(t, c, out, "dump .reloc"), `no section named ".reloc"`)

	xxd := run(t, c, out, "xxd 0 4")
	assert.Equal(t, "  0x00000000: 4d5a9000", xxd[:len("  0x00000000: 4d5a9000")])
	assert.Contains(t, run(t, c, out, "xxd 0xffffff 4"), "out of bounds")
}

func TestHelp(t *testing.T) {
	c, out := newContext(t)
	help := run(t, c, out, "help")
	for _, name := range Names() {
		assert.Contains(t, help, "  "+name+" ")
	}
}
