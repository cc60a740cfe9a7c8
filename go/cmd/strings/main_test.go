package strings

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pescope/pescope/go/loader/petest"
	"github.com/pescope/pescope/go/models"
)

func run(t *testing.T, img petest.Image, args ...string) (int, string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.exe")
	require.NoError(t, os.WriteFile(path, img.Build(), 0644))
	var stdout, stderr bytes.Buffer
	c := New()
	c.Stdout, c.Stderr = &stdout, &stderr
	code := c.Run(append(append([]string{"strings"}, args...), path))
	return code, stdout.String(), stderr.String()
}

func TestStrings(t *testing.T) {
	code, out, _ := run(t, petest.Default())
	assert.Equal(t, 0, code)
	assert.Equal(t, "CDEF\n", out)

	_, out, _ = run(t, petest.Default(), "-min", "1")
	assert.Equal(t, "AB\nCDEF\nG\n", out)

	_, out, _ = run(t, petest.Default(), "-min", "1", "-filter", "G")
	assert.Equal(t, "G\n", out)

	_, out, _ = run(t, petest.Default(), "-section", ".text")
	assert.Equal(t, "UH\\x89\\xe5TEXTONLY\n", out)

	_, out, _ = run(t, petest.Default(), "-title")
	assert.Equal(t, "[Strings .rdata (min 4)]\n  CDEF\n", out)
}

func TestStringsCodepage(t *testing.T) {
	img := petest.Default()
	img.Sections[1].Data = []byte("caf\xe9 cr\xe8me\x00")
	_, out, _ := run(t, img, "-cp", "cp1252")
	assert.Equal(t, "café crème\n", out)
}

func TestStringsTruncated(t *testing.T) {
	img := petest.Default()
	img.Sections[1].RawSize = 0x10000
	code, out, stderr := run(t, img)
	assert.Equal(t, int(models.ExitInvalid), code)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "Error: ")
}
