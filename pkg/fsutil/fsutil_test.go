package fsutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devantler-tech/apidelta/pkg/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorVariables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{"ErrEmptyOutputPath", fsutil.ErrEmptyOutputPath, "output path cannot be empty"},
		{"ErrEmptyInputPath", fsutil.ErrEmptyInputPath, "input path cannot be empty"},
		{"ErrInputTooLarge", fsutil.ErrInputTooLarge, "input exceeds size limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.EqualError(t, tt.err, tt.expectedMsg)
		})
	}
}

func TestExpandHomePath(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := fsutil.ExpandHomePath("~/records/a.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "records", "a.json"), got)

	got, err = fsutil.ExpandHomePath("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)

	got, err = fsutil.ExpandHomePath("/abs/path.json")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path.json", got)

	got, err = fsutil.ExpandHomePath("relative.json")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "relative.json", filepath.Base(got))
}

func TestReadInput(t *testing.T) {
	t.Parallel()

	t.Run("reads a file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "record.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"a":1}`), 0o600))

		data, err := fsutil.ReadInput(path, nil)

		require.NoError(t, err)
		assert.JSONEq(t, `{"a":1}`, string(data))
	})

	t.Run("dash reads stdin", func(t *testing.T) {
		t.Parallel()

		data, err := fsutil.ReadInput(fsutil.StdinPath, strings.NewReader("from stdin"))

		require.NoError(t, err)
		assert.Equal(t, "from stdin", string(data))
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.ReadInput("", nil)

		require.ErrorIs(t, err, fsutil.ErrEmptyInputPath)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.ReadInput(filepath.Join(t.TempDir(), "missing.json"), nil)

		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "dir", "out.json")

		require.NoError(t, fsutil.WriteFile([]byte("first"), path))
		require.NoError(t, fsutil.WriteFile([]byte("second"), path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))

		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temporary files must not remain")

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("empty output", func(t *testing.T) {
		t.Parallel()

		require.ErrorIs(t, fsutil.WriteFile([]byte("x"), ""), fsutil.ErrEmptyOutputPath)
	})
}
