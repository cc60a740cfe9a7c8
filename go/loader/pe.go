package loader

import (
	"bytes"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/pescope/pescope/go/models"
)

const (
	// MaxSections bounds NumberOfSections before the table is allocated.
	MaxSections = 4096
	// MaxSectionData bounds SizeOfRawData before section data is allocated.
	MaxSectionData = 256 << 20

	DefaultMinStringLen = 4
	RdataSection        = ".rdata"

	optionalHeaderFixedSize = models.OptionalHeader64Size - models.IMAGE_NUMBEROF_DIRECTORY_ENTRIES*8
)

var dosMagic = []byte{'M', 'Z'}

func MatchPe(r io.ReaderAt) bool {
	return bytes.Equal(getMagic(r), dosMagic)
}

type ntSignature struct {
	Signature uint32 `struc:"uint32,little"`
}

// PeLoader decodes a PE image top-down: DOS header, NT header, section
// table, then .rdata strings. Each step is parsed once and cached.
type PeLoader struct {
	r      io.ReaderAt
	size   int64
	st     *models.StrucReader
	closer io.Closer

	// mu serializes source reads against Close.
	mu     sync.Mutex
	closed bool

	dos      lazy[models.DosHeader]
	nt       lazy[models.NtHeader]
	sections lazy[[]models.SectionHeader]
	rdata    lazy[[]string]
}

func NewPeLoader(r io.ReaderAt) (*PeLoader, error) {
	size, err := sourceSize(r)
	if err != nil {
		return nil, err
	}
	return NewPeLoaderSize(r, size), nil
}

// NewPeLoaderSize wraps a source whose length is already known.
func NewPeLoaderSize(r io.ReaderAt, size int64) *PeLoader {
	return newPeLoader(r, size, nil)
}

func newPeLoader(r io.ReaderAt, size int64, closer io.Closer) *PeLoader {
	return &PeLoader{
		r:      r,
		size:   size,
		st:     models.NewStrucReader(r),
		closer: closer,
	}
}

func (p *PeLoader) Size() int64 {
	return p.size
}

// Close releases a source opened by LoadFile. The loader fails with
// ErrClosed afterwards, even for artifacts parsed before.
func (p *PeLoader) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if p.closer != nil {
		return errors.Wrap(p.closer.Close(), "close failed")
	}
	return nil
}

func (p *PeLoader) open() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.WithStack(ErrClosed)
	}
	return nil
}

// ReadAt reads from the underlying source, serialized with Close.
func (p *PeLoader) ReadAt(b []byte, off int64) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, errors.WithStack(ErrClosed)
	}
	return p.r.ReadAt(b, off)
}

func (p *PeLoader) unpackAt(i interface{}, off int64, what string) error {
	size, err := p.st.Sizeof(i)
	if err != nil {
		return errors.Wrapf(err, "%s: struc.Sizeof() failed", what)
	}
	if !inBounds(off, int64(size), p.size) {
		return errors.Wrapf(ErrTruncatedRead, "%s: %d bytes at %#x overrun %d byte file", what, size, off, p.size)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.WithStack(ErrClosed)
	}
	if err := p.st.UnpackAt(i, off); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return errors.Wrapf(ErrTruncatedRead, "%s at %#x", what, off)
		}
		return errors.Wrapf(err, "%s: struc.Unpack() failed", what)
	}
	return nil
}

func (p *PeLoader) DosHeader() (models.DosHeader, error) {
	if err := p.open(); err != nil {
		return models.DosHeader{}, err
	}
	return p.dos.get(p.parseDos)
}

func (p *PeLoader) parseDos() (models.DosHeader, error) {
	var dos models.DosHeader
	// the signature decides before the length does
	magic := make([]byte, 2)
	if n, _ := p.ReadAt(magic, 0); n < 2 || !bytes.Equal(magic, dosMagic) {
		if err := p.open(); err != nil {
			return dos, err
		}
		return dos, errors.Wrap(ErrInvalidFormat, "not a DOS executable")
	}
	if err := p.unpackAt(&dos, 0, "DOS header"); err != nil {
		return models.DosHeader{}, err
	}
	return dos, nil
}

func (p *PeLoader) NtHeader() (models.NtHeader, error) {
	if err := p.open(); err != nil {
		return models.NtHeader{}, err
	}
	return p.nt.get(p.parseNt)
}

func (p *PeLoader) parseNt() (models.NtHeader, error) {
	var nt models.NtHeader
	dos, err := p.dos.get(p.parseDos)
	if err != nil {
		return nt, err
	}
	off := int64(dos.Lfanew)
	if int32(dos.Lfanew) <= 0 || !inBounds(off, 4, p.size) {
		return nt, errors.Wrapf(ErrOutOfBounds, "e_lfanew %#x outside %d byte file", dos.Lfanew, p.size)
	}
	var sig ntSignature
	if err := p.unpackAt(&sig, off, "NT signature"); err != nil {
		return nt, err
	}
	if sig.Signature != models.IMAGE_NT_SIGNATURE {
		return nt, errors.Wrapf(ErrInvalidFormat, "not a PE executable (signature %#08x)", sig.Signature)
	}
	nt.Signature = sig.Signature
	off += 4
	if err := p.unpackAt(&nt.FileHeader, off, "file header"); err != nil {
		return models.NtHeader{}, err
	}
	off += models.FileHeaderSize
	if err := p.unpackAt(&nt.OptionalHeader, off, "optional header"); err != nil {
		return models.NtHeader{}, err
	}
	off += optionalHeaderFixedSize
	dirs := make([]models.DataDirectory, models.IMAGE_NUMBEROF_DIRECTORY_ENTRIES)
	if err := p.unpackAt(&dirs, off, "data directories"); err != nil {
		return models.NtHeader{}, err
	}
	copy(nt.DataDirectory[:], dirs)
	return nt, nil
}

// SectionTableOffset is e_lfanew + signature + file header + SizeOfOptionalHeader.
func (p *PeLoader) SectionTableOffset() (int64, error) {
	dos, err := p.DosHeader()
	if err != nil {
		return 0, err
	}
	nt, err := p.NtHeader()
	if err != nil {
		return 0, err
	}
	return sectionTableOffset(&dos, &nt), nil
}

func sectionTableOffset(dos *models.DosHeader, nt *models.NtHeader) int64 {
	return int64(dos.Lfanew) + models.NtOptionalHeaderOffset + int64(nt.FileHeader.SizeOfOptionalHeader)
}

// Sections returns the section table in file order. The slice is a copy.
func (p *PeLoader) Sections() ([]models.SectionHeader, error) {
	if err := p.open(); err != nil {
		return nil, err
	}
	sections, err := p.sections.get(p.parseSections)
	if err != nil {
		return nil, err
	}
	return append([]models.SectionHeader(nil), sections...), nil
}

func (p *PeLoader) parseSections() ([]models.SectionHeader, error) {
	dos, err := p.dos.get(p.parseDos)
	if err != nil {
		return nil, err
	}
	nt, err := p.nt.get(p.parseNt)
	if err != nil {
		return nil, err
	}
	count := int(nt.FileHeader.NumberOfSections)
	if count > MaxSections {
		return nil, errors.Wrapf(ErrOutOfBounds, "%d sections exceeds limit of %d", count, MaxSections)
	}
	off := sectionTableOffset(&dos, &nt)
	need := int64(count) * models.SectionHeaderSize
	if !inBounds(off, need, p.size) {
		return nil, errors.Wrapf(ErrTruncatedRead, "section table: %d sections need %d bytes at %#x, file is %d bytes",
			count, need, off, p.size)
	}
	sections := make([]models.SectionHeader, count)
	if count == 0 {
		return sections, nil
	}
	if err := p.unpackAt(&sections, off, "section table"); err != nil {
		return nil, err
	}
	return sections, nil
}

// Section finds the first section with the given name.
func (p *PeLoader) Section(name string) (models.SectionHeader, bool, error) {
	sections, err := p.Sections()
	if err != nil {
		return models.SectionHeader{}, false, err
	}
	for _, s := range sections {
		if s.NameIs(name) {
			return s, true, nil
		}
	}
	return models.SectionHeader{}, false, nil
}

// RdataStrings extracts strings of DefaultMinStringLen or more from .rdata.
func (p *PeLoader) RdataStrings() ([]string, error) {
	if err := p.open(); err != nil {
		return nil, err
	}
	strs, err := p.rdata.get(func() ([]string, error) {
		return p.SectionStrings(RdataSection, DefaultMinStringLen)
	})
	if err != nil {
		return nil, err
	}
	return append([]string(nil), strs...), nil
}

// SectionStrings scans every section called name. It is not cached.
func (p *PeLoader) SectionStrings(name string, minLen int) ([]string, error) {
	sections, err := p.Sections()
	if err != nil {
		return nil, err
	}
	return ExtractStrings(p, p.size, sections, name, minLen)
}
