package loader

import (
	"bytes"
	"io"
	"testing"

	"github.com/pescope/pescope/go/loader/petest"
)

type countingReader struct {
	r     io.ReaderAt
	reads int
}

func (c *countingReader) ReadAt(p []byte, off int64) (int, error) {
	c.reads++
	return c.r.ReadAt(p, off)
}

func newFixtureLoader(t *testing.T, f petest.Image) (*PeLoader, []byte) {
	t.Helper()
	p := f.Build()
	l, err := NewPeLoader(bytes.NewReader(p))
	if err != nil {
		t.Fatal(err)
	}
	return l, p
}
