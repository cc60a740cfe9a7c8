package cmd

import (
	"github.com/pkg/errors"

	"github.com/pescope/pescope/go/loader"
	"github.com/pescope/pescope/go/models"
)

// hexdump output is capped so a stray size does not flood the terminal.
const maxDump = 0x10000

var XxdCmd = cmd(&Command{
	Name:  "xxd",
	Desc:  "Hex dump bytes at a file offset.",
	Usage: "<offset> <size>",
	Run: func(c *Context, off, size uint64) error {
		if size > maxDump {
			size = maxDump
		}
		if off > uint64(c.Src.Size()) {
			return errors.Wrapf(loader.ErrOutOfBounds, "offset %#x past end of file (%#x)", off, c.Src.Size())
		}
		if rest := uint64(c.Src.Size()) - off; size > rest {
			size = rest
		}
		buf := make([]byte, size)
		if _, err := c.Src.ReadAt(buf, int64(off)); err != nil {
			return errors.Wrap(err, "read failed")
		}
		for _, line := range models.HexDump(off, buf) {
			c.Printf("  %s\n", line)
		}
		return nil
	},
})

var DumpCmd = cmd(&Command{
	Name:  "dump",
	Desc:  "Hex dump the raw data of a section.",
	Usage: "<section>",
	Run: func(c *Context, name string) error {
		sections, err := c.Src.Sections()
		if err != nil {
			return err
		}
		for i := range sections {
			s := &sections[i]
			if !s.NameIs(name) {
				continue
			}
			data, err := loader.SectionData(c.Src, c.Src.Size(), s)
			if err != nil {
				return err
			}
			if len(data) > maxDump {
				data = data[:maxDump]
			}
			c.Printf("[%s @ %#x]\n", s.NameString(), s.PointerToRawData)
			for _, line := range models.HexDump(uint64(s.PointerToRawData), data) {
				c.Printf("  %s\n", line)
			}
			return nil
		}
		return errors.Errorf("no section named %q", name)
	},
})
