package pdf

import (
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// MergePages concatenates two single-page documents into one, folha 1
// pages always preceding folha 2 pages, and writes the result to out.
// Input files are never mutated. The originating file list rides on the
// error when either input cannot be parsed or the write fails.
func MergePages(page1, page2, out string) error {
	inFiles := []string{page1, page2}
	if err := api.MergeCreateFile(inFiles, out, false, nil); err != nil {
		return fmt.Errorf("merge %s: %w", strings.Join(inFiles, ", "), err)
	}
	return nil
}

// PageCount reports the number of pages of a PDF on disk.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("page count %s: %w", path, err)
	}
	return n, nil
}
