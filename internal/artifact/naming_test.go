package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFFilename(t *testing.T) {
	start := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	got := PDFFilename("Spring Gala", start)
	assert.Equal(t, "Spring Gala$2025-03-14.pdf", got)

	// Same inputs must always derive the same name.
	assert.Equal(t, got, PDFFilename("Spring Gala", start))

	// Time-of-day is irrelevant, only the calendar day matters.
	later := time.Date(2025, 3, 14, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, got, PDFFilename("Spring Gala", later))
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"slash", "a/b", "a_b"},
		{"backslash", `a\b`, "a_b"},
		{"separator", "cost$center", "cost_center"},
		{"nul", "a\x00b", "a_b"},
		{"clean", "Quarterly Review", "Quarterly Review"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in))
		})
	}
}

func TestPDFPathStaysInsideDir(t *testing.T) {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	path := PDFPath("/srv/media/pdf", "../../etc/passwd", start)
	assert.Equal(t, "/srv/media/pdf", filepath.Dir(path))
}

func TestDownloadName(t *testing.T) {
	assert.Equal(t, "Spring Gala_Report.pdf", DownloadName("Spring Gala"))
	assert.Equal(t, "a_b_Report.pdf", DownloadName("a/b"))
}

func TestOpenMissingIsErrNotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestOpenExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	f, err := Open(path)
	require.NoError(t, err)
	f.Close()
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "doc.pdf")

	require.NoError(t, WriteAtomic(path, []byte("first")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	// Overwrite replaces the content in one step.
	require.NoError(t, WriteAtomic(path, []byte("second")))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
