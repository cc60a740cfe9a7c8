package models

import (
	"encoding/binary"
	"io"

	"github.com/lunixbochs/struc"
)

// StrucReader unpacks tagged structures from absolute offsets of a source.
// Every field carries its width in the struc tag, so Go struct layout and
// padding never leak into the wire format.
type StrucReader struct {
	R     io.ReaderAt
	Order binary.ByteOrder
}

func NewStrucReader(r io.ReaderAt) *StrucReader {
	return &StrucReader{R: r, Order: binary.LittleEndian}
}

func (s *StrucReader) Sizeof(i interface{}) (int, error) {
	return struc.Sizeof(i)
}

func (s *StrucReader) UnpackAt(i interface{}, off int64) error {
	size, err := struc.Sizeof(i)
	if err != nil {
		return err
	}
	return struc.UnpackWithOrder(io.NewSectionReader(s.R, off, int64(size)), i, s.Order)
}
