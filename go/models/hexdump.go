package models

import (
	"encoding/hex"
	"fmt"
	"strings"
)

func printable(c byte) bool {
	return c >= 0x20 && c <= 0x7e
}

// Repr quotes p, escaping non-printable bytes. strsize > 0 limits the output.
func Repr(p []byte, strsize int) string {
	tmp := make([]string, len(p))
	for i, b := range p {
		if printable(b) && b != '"' && b != '\\' {
			tmp[i] = string(b)
		} else {
			tmp[i] = fmt.Sprintf("\\x%02x", b)
		}
	}
	out := strings.Join(tmp, "")
	if strsize > 0 && len(out) > strsize {
		for i := len(tmp) - 1; i > 0 && len(out) > strsize-3; i-- {
			out = strings.Join(tmp[:i], "")
		}
		return "\"" + out + "\"..."
	}
	return "\"" + out + "\""
}

// HexDump renders mem 16 bytes per line, addressed from base (a file offset).
func HexDump(base uint64, mem []byte) []string {
	const lineSize = 16
	var out []string
	for i := 0; i < len(mem); i += lineSize {
		end := i + lineSize
		if end > len(mem) {
			end = len(mem)
		}
		chunk := mem[i:end]
		blocks := make([]string, 0, lineSize/4)
		for j := 0; j < lineSize; j += 4 {
			switch {
			case j >= len(chunk):
				blocks = append(blocks, strings.Repeat(" ", 8))
			case j+4 > len(chunk):
				blocks = append(blocks, hex.EncodeToString(chunk[j:])+strings.Repeat("  ", j+4-len(chunk)))
			default:
				blocks = append(blocks, hex.EncodeToString(chunk[j:j+4]))
			}
		}
		tail := make([]byte, len(chunk))
		for j, c := range chunk {
			if printable(c) {
				tail[j] = c
			} else {
				tail[j] = '.'
			}
		}
		out = append(out, fmt.Sprintf("0x%08x: %s [%-16s]", base+uint64(i), strings.Join(blocks, " "), tail))
	}
	return out
}
