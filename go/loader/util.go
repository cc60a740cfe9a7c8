package loader

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

func getMagic(r io.ReaderAt) []byte {
	ret := make([]byte, 2)
	if _, err := r.ReadAt(ret, 0); err != nil {
		return nil
	}
	return ret
}

type sizer interface {
	Size() int64
}

type stater interface {
	Stat() (os.FileInfo, error)
}

// sourceSize finds the length of r without reading it.
func sourceSize(r io.ReaderAt) (int64, error) {
	switch v := r.(type) {
	case sizer:
		return v.Size(), nil
	case stater:
		fi, err := v.Stat()
		if err != nil {
			return 0, errors.Wrap(err, "stat failed")
		}
		return fi.Size(), nil
	case io.Seeker:
		cur, err := v.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, errors.Wrap(err, "seek failed")
		}
		end, err := v.Seek(0, io.SeekEnd)
		if err != nil {
			return 0, errors.Wrap(err, "seek failed")
		}
		if _, err := v.Seek(cur, io.SeekStart); err != nil {
			return 0, errors.Wrap(err, "seek failed")
		}
		return end, nil
	}
	return 0, errors.Errorf("cannot determine size of %T", r)
}

// inBounds checks [off, off+n) against a source of the given size without overflowing.
func inBounds(off, n, size int64) bool {
	return off >= 0 && n >= 0 && off <= size && n <= size-off
}
