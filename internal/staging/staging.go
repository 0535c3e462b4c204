// Package staging manages the local temporary working area where
// rendered pages and the merged document live during one pipeline run.
// The directory is shared by all runs; filenames embed the unique case
// number so runs never collide.
package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tratativas/internal/model"
	"tratativas/internal/pdf"
)

// Suffixes of the staged artifacts of one run.
const (
	SuffixFolha1 = "_FOLHA1.pdf"
	SuffixFolha2 = "_FOLHA2.pdf"
	SuffixMerged = ".pdf"
)

// FileInfo describes a staged file for the cleanup sweep.
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Stage is the local temporary working area.
type Stage struct {
	dir string
}

// New creates a Stage rooted at dir. The directory itself is created
// lazily on first write.
func New(dir string) *Stage {
	return &Stage{dir: dir}
}

// Dir returns the staging directory path.
func (s *Stage) Dir() string {
	return s.dir
}

// Write persists data under name inside the staging area and returns the
// absolute path of the written file. The directory is created on demand;
// an already existing directory is fine.
func (s *Stage) Write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	path, err := filepath.Abs(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("resolve staging path: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write staged file: %w", err)
	}
	return path, nil
}

// Read returns the full content of a staged file.
func (s *Stage) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read staged file: %w", err)
	}
	return data, nil
}

// Remove deletes a staged file. A file that is already gone is not an
// error.
func (s *Stage) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove staged file: %w", err)
	}
	return nil
}

// List enumerates the files currently in the staging area. A missing
// directory yields an empty list, since nothing has been staged yet.
func (s *Stage) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list staging dir: %w", err)
	}
	infos := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, FileInfo{
			Path:    filepath.Join(s.dir, e.Name()),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}
	return infos, nil
}

// BaseName builds the document filename stem for a tratativa:
// "<numero> - <NOME> - <SETOR> <DD-MM-YYYY>", everything uppercased
// except the case number, with date separators flattened to dashes.
// The page suffixes and the merged .pdf extension are appended by the
// caller.
func BaseName(t *model.Tratativa) string {
	date := strings.ReplaceAll(pdf.DisplayDate(t.DataInfracao), "/", "-")
	return fmt.Sprintf("%s - %s - %s %s",
		t.Numero,
		strings.ToUpper(t.Funcionario),
		strings.ToUpper(t.Setor),
		date,
	)
}
