// Package petest builds small PE32+ images in memory for tests.
package petest

import (
	"encoding/binary"

	"github.com/pescope/pescope/go/models"
)

type Section struct {
	Name  string
	Data  []byte
	Chars uint32
	// RawSize and RawPtr override SizeOfRawData / PointerToRawData when non-zero
	RawSize uint32
	RawPtr  uint32
}

type Image struct {
	Lfanew      uint32
	OptSize     uint16
	NumSections int // -1 uses len(Sections)
	Sections    []Section
}

const (
	Lfanew    = 0x80
	Timestamp = 0x5f5e1000
	Entry     = 0x1000
	ImageBase = 0x140000000
	FileAlign = 0x200
)

// Default has .text, .rdata and .data sections; .rdata holds the strings "AB", "CDEF" and "G".
func Default() Image {
	return Image{
		Lfanew:      Lfanew,
		OptSize:     models.OptionalHeader64Size,
		NumSections: -1,
		Sections: []Section{
			{Name: ".text", Data: []byte("\x55\x48\x89\xe5TEXTONLY\x00\xc3"), Chars: models.IMAGE_SCN_CNT_CODE | models.IMAGE_SCN_MEM_EXECUTE | models.IMAGE_SCN_MEM_READ},
			{Name: ".rdata", Data: []byte("AB\x00CDEF\x00G\x00"), Chars: models.IMAGE_SCN_CNT_INITIALIZED_DATA | models.IMAGE_SCN_MEM_READ},
			{Name: ".data", Data: []byte("DATA_SECTION\x00"), Chars: models.IMAGE_SCN_CNT_INITIALIZED_DATA | models.IMAGE_SCN_MEM_READ | models.IMAGE_SCN_MEM_WRITE},
		},
	}
}

func align(v, a int) int {
	return (v + a - 1) / a * a
}

// Build lays out a PE32+ image by hand: DOS header, NT header at lfanew,
// section table right after the optional header, raw data on 0x200 boundaries.
func (f Image) Build() []byte {
	le := binary.LittleEndian
	count := f.NumSections
	if count < 0 {
		count = len(f.Sections)
	}
	nt := int(f.Lfanew)
	table := nt + models.NtOptionalHeaderOffset + int(f.OptSize)
	headerEnd := table + len(f.Sections)*models.SectionHeaderSize
	// the optional header is always written in full
	if end := nt + models.NtOptionalHeaderOffset + models.OptionalHeader64Size; end > headerEnd {
		headerEnd = end
	}
	size := align(headerEnd, FileAlign)
	ptrs := make([]int, len(f.Sections))
	for i, s := range f.Sections {
		ptrs[i] = size
		size = align(size+len(s.Data), FileAlign)
	}
	// trim trailing alignment so the last section ends the file
	if n := len(f.Sections); n > 0 {
		size = ptrs[n-1] + len(f.Sections[n-1].Data)
	}
	buf := make([]byte, size)

	copy(buf, "MZ")
	le.PutUint16(buf[2:], 0x90)
	le.PutUint16(buf[4:], 3)
	le.PutUint16(buf[8:], 4)
	le.PutUint16(buf[0xc:], 0xffff)
	le.PutUint16(buf[0x10:], 0xb8)
	le.PutUint16(buf[0x18:], 0x40)
	le.PutUint32(buf[0x3c:], f.Lfanew)

	copy(buf[nt:], "PE\x00\x00")
	fh := buf[nt+4:]
	le.PutUint16(fh[0:], uint16(models.IMAGE_FILE_MACHINE_AMD64))
	le.PutUint16(fh[2:], uint16(count))
	le.PutUint32(fh[4:], Timestamp)
	le.PutUint16(fh[16:], f.OptSize)
	le.PutUint16(fh[18:], models.IMAGE_FILE_EXECUTABLE_IMAGE|models.IMAGE_FILE_LARGE_ADDRESS_AWARE)

	oh := buf[nt+models.NtOptionalHeaderOffset:]
	le.PutUint16(oh[0:], models.IMAGE_NT_OPTIONAL_HDR64_MAGIC)
	oh[2], oh[3] = 14, 29
	le.PutUint32(oh[4:], 0x200)
	le.PutUint32(oh[16:], Entry)
	le.PutUint32(oh[20:], 0x1000)
	le.PutUint64(oh[24:], ImageBase)
	le.PutUint32(oh[32:], 0x1000)
	le.PutUint32(oh[36:], FileAlign)
	le.PutUint16(oh[40:], 6)
	le.PutUint16(oh[48:], 6)
	le.PutUint32(oh[56:], 0x4000)
	le.PutUint32(oh[60:], FileAlign)
	le.PutUint16(oh[68:], 3)
	le.PutUint16(oh[70:], 0x8160)
	le.PutUint64(oh[72:], 0x100000)
	le.PutUint64(oh[80:], 0x1000)
	le.PutUint64(oh[88:], 0x100000)
	le.PutUint64(oh[96:], 0x1000)
	le.PutUint32(oh[108:], models.IMAGE_NUMBEROF_DIRECTORY_ENTRIES)
	// import directory
	le.PutUint32(oh[112+8:], 0x2000)
	le.PutUint32(oh[112+12:], 0x28)

	for i, s := range f.Sections {
		sh := buf[table+i*models.SectionHeaderSize:]
		copy(sh[:8], s.Name)
		rawSize := uint32(len(s.Data))
		if s.RawSize != 0 {
			rawSize = s.RawSize
		}
		rawPtr := uint32(ptrs[i])
		if s.RawPtr != 0 {
			rawPtr = s.RawPtr
		}
		le.PutUint32(sh[8:], uint32(len(s.Data)))
		le.PutUint32(sh[12:], uint32(0x1000*(i+1)))
		le.PutUint32(sh[16:], rawSize)
		le.PutUint32(sh[20:], rawPtr)
		le.PutUint32(sh[36:], s.Chars)
		copy(buf[ptrs[i]:], s.Data)
	}
	return buf
}
