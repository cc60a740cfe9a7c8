package ui

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

func newTestView(t *testing.T, img petest.Image) *View {
	t.Helper()
	l, err := loader.NewPeLoader(bytes.NewReader(img.Build()))
	require.NoError(t, err)
	c := models.NewConfig()
	c.ShowAll(false)
	return NewView(l, c)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		in, cp, want string
	}{
		{"hello", "raw", "hello"},
		{"hello", "", "hello"},
		{"a\x01b", "raw", `a\x01b`},
		{`say "hi"`, "raw", `say \x22hi\x22`},
		{`C:\dir`, "raw", `C:\x5cdir`},
		{"\"\x01", "raw", `\x22\x01`},
		{"", "raw", ""},
		{"caf\xe9", "cp1252", "café"},
		{"caf\xe9", "latin1", "café"},
		{"\x80", "cp437", "Ç"},
		{"\xc0\xc1", "CP1251", "АБ"},
	}
	for _, tt := range tests {
		got, err := Decode(tt.in, tt.cp)
		require.NoError(t, err, tt.cp)
		assert.Equal(t, tt.want, got, "%q as %s", tt.in, tt.cp)
	}
	_, err := Decode("x", "ebcdic")
	assert.Error(t, err)
	assert.Equal(t, "raw", Codepages()[0])
}

func TestFilter(t *testing.T) {
	assert.True(t, Filter("anything", ""))
	assert.True(t, Filter("kernel32.dll", "32.d"))
	assert.False(t, Filter("kernel32.dll", "KERNEL"))
}

func TestSectionLines(t *testing.T) {
	v := newTestView(t, petest.Default())
	v.Config.ShowSections = true
	lines := v.Lines()
	require.Len(t, lines, 5)
	assert.Equal(t, "[Sections @ 0x188]", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "  .text "), lines[2])
	assert.Contains(t, lines[3], " r ")
	assert.Contains(t, lines[3], "INITIALIZED_DATA|READ")
	assert.Contains(t, lines[4], "WRITE")
}

func TestHeaderLines(t *testing.T) {
	v := newTestView(t, petest.Default())
	dos := v.DosLines()
	assert.Equal(t, "[DOS header]", dos[0])
	assert.Equal(t, "  e_magic:    0x5a4d", dos[1])
	assert.Equal(t, "  e_lfanew:   0x80", dos[len(dos)-1])

	nt := strings.Join(v.NtLines(), "\n")
	assert.Contains(t, nt, "0x8664 (x64)")
	assert.Contains(t, nt, "2020-09-13 12:26:40 UTC")
	assert.Contains(t, nt, "(PE32+)")
	assert.Contains(t, nt, "ImageBase:")
	assert.Contains(t, nt, "rva 0x2000 size 0x28")
}

func TestStringLines(t *testing.T) {
	v := newTestView(t, petest.Default())
	v.Config.ShowStrings = true
	assert.Equal(t, []string{"[Strings .rdata (min 4)]", "  CDEF"}, v.Lines())

	v.Config.MinStrLen = 1
	strs, err := v.Strings()
	require.NoError(t, err)
	assert.Equal(t, []string{"AB", "CDEF", "G"}, strs)

	v.Config.Filter = "D"
	assert.Equal(t, []string{`[Strings .rdata (min 1) matching "D"]`, "  CDEF"}, v.StringLines())

	v.Config.Filter = ""
	v.Config.Section = ".data"
	v.Config.Strsize = 8
	assert.Equal(t, "  DAT...", v.StringLines()[1])
}

func TestViewOrder(t *testing.T) {
	v := newTestView(t, petest.Default())
	v.Config.ShowAll(true)
	var titles []string
	for _, line := range v.Lines() {
		if strings.HasPrefix(line, "[") {
			titles = append(titles, line)
		}
	}
	require.Len(t, titles, 7)
	assert.Equal(t, "[DOS header]", titles[0])
	assert.Equal(t, "[NT header]", titles[1])
	assert.Equal(t, "[Strings .rdata (min 4)]", titles[6])
	assert.NoError(t, v.Err())
}

func TestErrorLines(t *testing.T) {
	l, err := loader.NewPeLoader(bytes.NewReader([]byte("not a pe file")))
	require.NoError(t, err)
	c := models.NewConfig()
	v := NewView(l, c)
	lines := v.Lines()
	assert.Equal(t, "[DOS header]", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "  error: "), lines[1])
	assert.NotContains(t, strings.Join(lines, "\n"), "e_magic")
	assert.True(t, loader.IsInvalidFormat(v.Err()))
}

func TestColor(t *testing.T) {
	v := newTestView(t, petest.Default())
	v.color = true
	v.Config.ShowStrings = true
	v.Config.Filter = "DE"
	lines := v.Lines()
	assert.NotEqual(t, lines[0], Plain(lines[0]))
	assert.Equal(t, `[Strings .rdata (min 4) matching "DE"]`, Plain(lines[0]))
	assert.Equal(t, "  CDEF", Plain(lines[1]))
}
