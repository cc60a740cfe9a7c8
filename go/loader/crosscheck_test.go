package loader

import (
	"bytes"
	"testing"

	bpe "github.com/Binject/debug/pe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pescope/pescope/go/loader/petest"
)

// Decodes the same image with Binject's debug/pe fork and compares fields.
func TestCrossCheckDebugPe(t *testing.T) {
	img := petest.Default()
	img.Sections = append(img.Sections, petest.Section{Name: ".reloc", Data: []byte("\x00\x10\x00\x00\x0c\x00\x00\x00")})
	p := img.Build()

	ref, err := bpe.NewFile(bytes.NewReader(p))
	require.NoError(t, err)
	defer ref.Close()

	l, err := NewPeLoader(bytes.NewReader(p))
	require.NoError(t, err)
	nt, err := l.NtHeader()
	require.NoError(t, err)

	fh := nt.FileHeader
	assert.Equal(t, ref.FileHeader.Machine, fh.Machine)
	assert.Equal(t, ref.FileHeader.NumberOfSections, fh.NumberOfSections)
	assert.Equal(t, ref.FileHeader.TimeDateStamp, fh.TimeDateStamp)
	assert.Equal(t, ref.FileHeader.SizeOfOptionalHeader, fh.SizeOfOptionalHeader)
	assert.Equal(t, ref.FileHeader.Characteristics, fh.Characteristics)

	oh, ok := ref.OptionalHeader.(*bpe.OptionalHeader64)
	require.True(t, ok, "reference decoded %T", ref.OptionalHeader)
	assert.Equal(t, oh.Magic, nt.OptionalHeader.Magic)
	assert.Equal(t, oh.AddressOfEntryPoint, nt.OptionalHeader.AddressOfEntryPoint)
	assert.Equal(t, oh.ImageBase, nt.OptionalHeader.ImageBase)
	assert.Equal(t, oh.SizeOfImage, nt.OptionalHeader.SizeOfImage)
	assert.Equal(t, oh.SizeOfStackReserve, nt.OptionalHeader.SizeOfStackReserve)
	assert.Equal(t, oh.NumberOfRvaAndSizes, nt.OptionalHeader.NumberOfRvaAndSizes)
	for i := range oh.DataDirectory {
		assert.Equal(t, oh.DataDirectory[i].VirtualAddress, nt.DataDirectory[i].VirtualAddress, "dir %d", i)
		assert.Equal(t, oh.DataDirectory[i].Size, nt.DataDirectory[i].Size, "dir %d", i)
	}

	sections, err := l.Sections()
	require.NoError(t, err)
	require.Len(t, sections, len(ref.Sections))
	for i, s := range ref.Sections {
		ours := sections[i]
		assert.Equal(t, s.Name, ours.NameString())
		assert.Equal(t, s.VirtualSize, ours.VirtualSize)
		assert.Equal(t, s.VirtualAddress, ours.VirtualAddress)
		assert.Equal(t, s.Size, ours.SizeOfRawData)
		assert.Equal(t, s.Offset, ours.PointerToRawData)
		assert.Equal(t, s.Characteristics, ours.Characteristics)

		data, err := s.Data()
		require.NoError(t, err)
		raw, err := SectionData(l, l.Size(), &ours)
		require.NoError(t, err)
		assert.Equal(t, data, raw, s.Name)
	}
}
