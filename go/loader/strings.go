package loader

import (
	"io"

	"github.com/pkg/errors"

	"github.com/pescope/pescope/go/models"
)

// ScanStrings splits data on NUL bytes and keeps runs of at least minLen
// bytes, in order. A run cut off by the end of data is kept under the same
// rule. Bytes are not checked for printability: UTF-16 and other encodings
// come through as-is.
func ScanStrings(data []byte, minLen int) []string {
	if minLen < 1 {
		minLen = 1
	}
	var out []string
	start := 0
	for i, b := range data {
		if b == 0 {
			if i-start >= minLen {
				out = append(out, string(data[start:i]))
			}
			start = i + 1
		}
	}
	if len(data)-start >= minLen {
		out = append(out, string(data[start:]))
	}
	return out
}

// SectionData reads a section's raw bytes after checking them against the
// source size and MaxSectionData.
func SectionData(r io.ReaderAt, size int64, s *models.SectionHeader) ([]byte, error) {
	n := int64(s.SizeOfRawData)
	if n > MaxSectionData {
		return nil, errors.Wrapf(ErrOutOfBounds, "section %q: %d bytes of raw data exceeds limit of %d", s.NameString(), n, MaxSectionData)
	}
	off := int64(s.PointerToRawData)
	if !inBounds(off, n, size) {
		return nil, errors.Wrapf(ErrTruncatedRead, "section %q: %d bytes at %#x overrun %d byte file", s.NameString(), n, off, size)
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	read, err := r.ReadAt(buf, off)
	if read < len(buf) {
		if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Wrapf(ErrTruncatedRead, "section %q: got %d of %d bytes", s.NameString(), read, n)
		}
		return nil, errors.Wrapf(err, "section %q: read failed", s.NameString())
	}
	return buf, nil
}

// ExtractStrings scans each section named name, in table order.
func ExtractStrings(r io.ReaderAt, size int64, sections []models.SectionHeader, name string, minLen int) ([]string, error) {
	var out []string
	for i := range sections {
		if !sections[i].NameIs(name) {
			continue
		}
		data, err := SectionData(r, size, &sections[i])
		if err != nil {
			return nil, err
		}
		out = append(out, ScanStrings(data, minLen)...)
	}
	return out, nil
}
