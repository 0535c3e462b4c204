package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeOnePagePDF writes a minimal valid single-page PDF, computing xref
// offsets from the assembled bytes.
func writeOnePagePDF(t *testing.T, path string) {
	t.Helper()

	var buf []byte
	offsets := make([]int, 0, 3)
	add := func(s string) {
		buf = append(buf, s...)
	}
	addObj := func(s string) {
		offsets = append(offsets, len(buf))
		add(s)
	}

	add("%PDF-1.4\n")
	addObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	addObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	addObj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << >> >>\nendobj\n")

	xrefOffset := len(buf)
	add("xref\n0 4\n0000000000 65535 f \n")
	for _, off := range offsets {
		add(fmt.Sprintf("%010d 00000 n \n", off))
	}
	add(fmt.Sprintf("trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefOffset))

	require.NoError(t, os.WriteFile(path, buf, 0o644))
}

func TestMergePages(t *testing.T) {
	dir := t.TempDir()
	page1 := filepath.Join(dir, "folha1.pdf")
	page2 := filepath.Join(dir, "folha2.pdf")
	out := filepath.Join(dir, "merged.pdf")

	writeOnePagePDF(t, page1)
	writeOnePagePDF(t, page2)

	require.NoError(t, MergePages(page1, page2, out))

	// Order-preserving and length-additive: 1 page + 1 page = 2 pages.
	n, err := PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Inputs are never mutated.
	for _, p := range []string{page1, page2} {
		count, err := PageCount(p)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	}
}

func TestMergePagesInvalidInput(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.pdf")
	good := filepath.Join(dir, "good.pdf")
	out := filepath.Join(dir, "merged.pdf")

	require.NoError(t, os.WriteFile(bad, []byte("not a pdf"), 0o644))
	writeOnePagePDF(t, good)

	err := MergePages(bad, good, out)
	require.Error(t, err)
	// The originating file list rides on the error.
	assert.ErrorContains(t, err, bad)
	assert.ErrorContains(t, err, good)
}

func TestPageCountMissingFile(t *testing.T) {
	_, err := PageCount(filepath.Join(t.TempDir(), "absent.pdf"))
	assert.Error(t, err)
}
