package loader

import (
	"bytes"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

type mappedFile struct {
	m mmap.MMap
	f *os.File
}

func (m *mappedFile) Close() error {
	var err error
	if m.m != nil {
		err = m.m.Unmap()
	}
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// LoadFile maps path read-only. The file is not checked for a PE signature
// here; DosHeader reports that, so callers get the precise failure.
func LoadFile(path string) (*PeLoader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "stat failed")
	}
	if fi.IsDir() {
		f.Close()
		return nil, errors.Errorf("%s: is a directory", path)
	}
	// empty files cannot be mapped
	if fi.Size() == 0 {
		return newPeLoader(bytes.NewReader(nil), 0, &mappedFile{f: f}), nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "mmap failed")
	}
	return newPeLoader(bytes.NewReader(m), int64(len(m)), &mappedFile{m: m, f: f}), nil
}

// Load sniffs r for the MZ signature before wrapping it.
func Load(r io.ReaderAt) (*PeLoader, error) {
	if !MatchPe(r) {
		return nil, errors.WithStack(UnknownMagic)
	}
	return NewPeLoader(r)
}
