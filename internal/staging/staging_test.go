package staging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tratativas/internal/model"
)

func TestStageWriteReadRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "tmp")
	s := New(dir)

	// Directory is created lazily on first write.
	path, err := s.Write("doc.pdf", []byte("content"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))

	data, err := s.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)

	// Second write tolerates the existing directory.
	_, err = s.Write("other.pdf", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Removing an already-gone file is not an error.
	assert.NoError(t, s.Remove(path))
}

func TestStageList(t *testing.T) {
	t.Run("missing dir yields empty list", func(t *testing.T) {
		s := New(filepath.Join(t.TempDir(), "never-created"))
		infos, err := s.List()
		require.NoError(t, err)
		assert.Empty(t, infos)
	})

	t.Run("lists staged files", func(t *testing.T) {
		s := New(t.TempDir())
		_, err := s.Write("a.pdf", []byte("a"))
		require.NoError(t, err)
		_, err = s.Write("b.pdf", []byte("bb"))
		require.NoError(t, err)

		infos, err := s.List()
		require.NoError(t, err)
		assert.Len(t, infos, 2)
		for _, fi := range infos {
			assert.False(t, fi.ModTime.IsZero())
			assert.Positive(t, fi.Size)
		}
	})
}

func TestBaseName(t *testing.T) {
	tr := &model.Tratativa{
		Numero:       "15508",
		Funcionario:  "Fulano de Tal",
		Setor:        "Transporte",
		DataInfracao: "2025-04-04",
	}

	got := BaseName(tr)
	assert.Equal(t, "15508 - FULANO DE TAL - TRANSPORTE 04-04-2025", got)

	// Case number keeps its original form; only name and sector are
	// uppercased, and date separators become dashes.
	tr.Numero = "Abc-9"
	assert.Equal(t, "Abc-9 - FULANO DE TAL - TRANSPORTE 04-04-2025", BaseName(tr))
}
