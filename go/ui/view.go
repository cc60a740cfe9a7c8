package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/lunixbochs/vtclean"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/mgutz/ansi"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"

	"github.com/pescope/pescope/go/models"
)

// Source is the read side of a parsed image. *loader.PeLoader implements it.
type Source interface {
	io.ReaderAt
	Size() int64
	DosHeader() (models.DosHeader, error)
	NtHeader() (models.NtHeader, error)
	Sections() ([]models.SectionHeader, error)
	SectionTableOffset() (int64, error)
	SectionStrings(name string, minLen int) ([]string, error)
}

var (
	chTitle = ansi.ColorCode("cyan+b")
	chField = ansi.ColorCode("default+b")
	chError = ansi.ColorCode("red+b")
	chMatch = ansi.ColorCode("yellow+b")
)

var codepages = map[string]*charmap.Charmap{
	"cp437":  charmap.CodePage437,
	"cp850":  charmap.CodePage850,
	"cp866":  charmap.CodePage866,
	"cp1250": charmap.Windows1250,
	"cp1251": charmap.Windows1251,
	"cp1252": charmap.Windows1252,
	"latin1": charmap.ISO8859_1,
	"koi8r":  charmap.KOI8R,
}

// Codepages lists the accepted -cp values.
func Codepages() []string {
	names := []string{"raw"}
	for name := range codepages {
		names = append(names, name)
	}
	sort.Strings(names[1:])
	return names
}

// Decode converts a byte string from the named codepage for display.
// "raw" and "" escape quotes, backslashes and anything that is not printable ASCII.
func Decode(s, codepage string) (string, error) {
	if codepage == "" || codepage == "raw" {
		r := models.Repr([]byte(s), 0)
		return r[1 : len(r)-1], nil
	}
	cm, ok := codepages[strings.ToLower(codepage)]
	if !ok {
		return "", errors.Errorf("unknown codepage %q (want one of %v)", codepage, Codepages())
	}
	out, err := cm.NewDecoder().String(s)
	if err != nil {
		return "", errors.Wrapf(err, "decoding %s", codepage)
	}
	// decoded control bytes would still drive the terminal
	return vtclean.Clean(out, false), nil
}

// Filter reports whether s contains the filter text. An empty filter matches everything.
func Filter(s, text string) bool {
	return text == "" || strings.Contains(s, text)
}

// View renders the parsed structures as text lines.
type View struct {
	Src    Source
	Config *models.Config
	color  bool
}

func NewView(src Source, c *models.Config) *View {
	return &View{Src: src, Config: c, color: c.Color}
}

// Output wraps w for colour on Windows consoles and reports whether it is a terminal.
func Output(f *os.File) (io.Writer, bool) {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return colorable.NewColorable(f), true
	}
	return colorable.NewNonColorable(f), false
}

func (v *View) paint(s, color string) string {
	if !v.color {
		return s
	}
	return color + s + ansi.Reset
}

func (v *View) title(s string) string {
	return v.paint("["+s+"]", chTitle)
}

func (v *View) field(name string, pad int, format string, a ...interface{}) string {
	label := name + ":" + strings.Repeat(" ", max(pad-len(name), 0))
	return "  " + v.paint(label, chField) + " " + fmt.Sprintf(format, a...)
}

func (v *View) errLine(what string, err error) []string {
	return []string{v.title(what), "  " + v.paint("error: "+err.Error(), chError)}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (v *View) DosLines() []string {
	d, err := v.Src.DosHeader()
	if err != nil {
		return v.errLine("DOS header", err)
	}
	type kv struct {
		name string
		val  interface{}
	}
	rows := []kv{
		{"e_magic", d.Magic}, {"e_cblp", d.Cblp}, {"e_cp", d.Cp}, {"e_crlc", d.Crlc},
		{"e_cparhdr", d.Cparhdr}, {"e_minalloc", d.Minalloc}, {"e_maxalloc", d.Maxalloc},
		{"e_ss", d.Ss}, {"e_sp", d.Sp}, {"e_csum", d.Csum}, {"e_ip", d.Ip}, {"e_cs", d.Cs},
		{"e_lfarlc", d.Lfarlc}, {"e_ovno", d.Ovno}, {"e_res", d.Res}, {"e_oemid", d.Oemid},
		{"e_oeminfo", d.Oeminfo}, {"e_res2", d.Res2}, {"e_lfanew", d.Lfanew},
	}
	out := []string{v.title("DOS header")}
	for _, r := range rows {
		out = append(out, v.field(r.name, 10, "%#x", r.val))
	}
	return out
}

func (v *View) NtLines() []string {
	nt, err := v.Src.NtHeader()
	if err != nil {
		return v.errLine("NT header", err)
	}
	fh, oh := &nt.FileHeader, &nt.OptionalHeader
	out := []string{
		v.title("NT header"),
		v.field("Signature", 27, "%#08x", nt.Signature),
		v.title("File header"),
		v.field("Machine", 27, "%#04x (%s)", fh.Machine, fh.Arch()),
		v.field("NumberOfSections", 27, "%d", fh.NumberOfSections),
		v.field("TimeDateStamp", 27, "%#x (%s)", fh.TimeDateStamp, fh.Timestamp().UTC().Format("2006-01-02 15:04:05 UTC")),
		v.field("PointerToSymbolTable", 27, "%#x", fh.PointerToSymbolTable),
		v.field("NumberOfSymbols", 27, "%d", fh.NumberOfSymbols),
		v.field("SizeOfOptionalHeader", 27, "%#x", fh.SizeOfOptionalHeader),
		v.field("Characteristics", 27, "%#04x %s", fh.Characteristics, strings.Join(fh.FlagNames(), "|")),
		v.title("Optional header"),
		v.field("Magic", 27, "%#x (%s)", oh.Magic, oh.Flavor()),
		v.field("LinkerVersion", 27, "%d.%d", oh.MajorLinkerVersion, oh.MinorLinkerVersion),
		v.field("SizeOfCode", 27, "%#x", oh.SizeOfCode),
		v.field("SizeOfInitializedData", 27, "%#x", oh.SizeOfInitializedData),
		v.field("SizeOfUninitializedData", 27, "%#x", oh.SizeOfUninitializedData),
		v.field("AddressOfEntryPoint", 27, "%#x", oh.AddressOfEntryPoint),
		v.field("BaseOfCode", 27, "%#x", oh.BaseOfCode),
		v.field("ImageBase", 27, "%#x", oh.ImageBase),
		v.field("SectionAlignment", 27, "%#x", oh.SectionAlignment),
		v.field("FileAlignment", 27, "%#x", oh.FileAlignment),
		v.field("OperatingSystemVersion", 27, "%d.%d", oh.MajorOperatingSystemVersion, oh.MinorOperatingSystemVersion),
		v.field("ImageVersion", 27, "%d.%d", oh.MajorImageVersion, oh.MinorImageVersion),
		v.field("SubsystemVersion", 27, "%d.%d", oh.MajorSubsystemVersion, oh.MinorSubsystemVersion),
		v.field("SizeOfImage", 27, "%#x", oh.SizeOfImage),
		v.field("SizeOfHeaders", 27, "%#x", oh.SizeOfHeaders),
		v.field("CheckSum", 27, "%#x", oh.CheckSum),
		v.field("Subsystem", 27, "%d", oh.Subsystem),
		v.field("DllCharacteristics", 27, "%#04x", oh.DllCharacteristics),
		v.field("SizeOfStackReserve", 27, "%#x", oh.SizeOfStackReserve),
		v.field("SizeOfStackCommit", 27, "%#x", oh.SizeOfStackCommit),
		v.field("SizeOfHeapReserve", 27, "%#x", oh.SizeOfHeapReserve),
		v.field("SizeOfHeapCommit", 27, "%#x", oh.SizeOfHeapCommit),
		v.field("NumberOfRvaAndSizes", 27, "%d", oh.NumberOfRvaAndSizes),
		v.title("Data directories"),
	}
	for i, dir := range nt.DataDirectory {
		if dir.VirtualAddress == 0 && dir.Size == 0 {
			continue
		}
		out = append(out, v.field(models.DataDirectoryName(i), 27, "rva %#x size %#x", dir.VirtualAddress, dir.Size))
	}
	return out
}

func (v *View) SectionLines() []string {
	sections, err := v.Src.Sections()
	if err != nil {
		return v.errLine("Sections", err)
	}
	title := "Sections"
	if off, err := v.Src.SectionTableOffset(); err == nil {
		title = fmt.Sprintf("Sections @ %#x", off)
	}
	out := []string{
		v.title(title),
		v.paint(fmt.Sprintf("  %-8s %-10s %-10s %-10s %-10s %-3s %s", "name", "vaddr", "vsize", "rawptr", "rawsize", "ro", "flags"), chField),
	}
	for _, s := range sections {
		ro := "-"
		if s.IsReadonly() {
			ro = "r"
		}
		name := s.NameString()
		if name == "" {
			name = "(none)"
		}
		out = append(out, fmt.Sprintf("  %-8s %#-10x %#-10x %#-10x %#-10x %-3s %#08x %s",
			name, s.VirtualAddress, s.PhysicalAddress(), s.PointerToRawData, s.SizeOfRawData,
			ro, s.Characteristics, strings.Join(s.FlagNames(), "|")))
	}
	if len(sections) == 0 {
		out = append(out, "  (no sections)")
	}
	return out
}

// Strings returns the decoded strings of the configured section that pass the filter.
func (v *View) Strings() ([]string, error) {
	c := v.Config
	raw, err := v.Src.SectionStrings(c.Section, c.MinStrLen)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, s := range raw {
		d, err := Decode(s, c.Codepage)
		if err != nil {
			return nil, err
		}
		if Filter(d, c.Filter) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (v *View) StringLines() []string {
	c := v.Config
	strs, err := v.Strings()
	if err != nil {
		return v.errLine("Strings "+c.Section, err)
	}
	title := fmt.Sprintf("Strings %s (min %d)", c.Section, c.MinStrLen)
	if c.Filter != "" {
		title += fmt.Sprintf(" matching %q", c.Filter)
	}
	out := []string{v.title(title)}
	for _, s := range strs {
		out = append(out, "  "+v.highlight(v.fit(s, c.Strsize-2)))
	}
	return out
}

// fit truncates s to width display cells. width <= 0 leaves s alone.
func (v *View) fit(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

func (v *View) highlight(s string) string {
	text := v.Config.Filter
	if !v.color || text == "" {
		return s
	}
	return strings.Replace(s, text, chMatch+text+ansi.Reset, -1)
}

// Lines renders every view the config has enabled, in display order.
func (v *View) Lines() []string {
	var out []string
	for _, name := range models.Views {
		if !v.Config.Shown(name) {
			continue
		}
		var lines []string
		switch name {
		case "dos":
			lines = v.DosLines()
		case "nt":
			lines = v.NtLines()
		case "sections":
			lines = v.SectionLines()
		case "strings":
			lines = v.StringLines()
		}
		if len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, lines...)
	}
	return out
}

func (v *View) Print(w io.Writer) error {
	for _, line := range v.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return errors.Wrap(err, "write failed")
		}
	}
	return nil
}

// Err returns the first error hit while parsing the enabled views.
func (v *View) Err() error {
	c := v.Config
	if c.ShowDos {
		if _, err := v.Src.DosHeader(); err != nil {
			return err
		}
	}
	if c.ShowNt {
		if _, err := v.Src.NtHeader(); err != nil {
			return err
		}
	}
	if c.ShowSections {
		if _, err := v.Src.Sections(); err != nil {
			return err
		}
	}
	if c.ShowStrings {
		if _, err := v.Src.SectionStrings(c.Section, c.MinStrLen); err != nil {
			return err
		}
	}
	return nil
}

// Plain strips colour codes from a rendered line.
func Plain(line string) string {
	return vtclean.Clean(line, false)
}
