package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirPermUserOnly = 0o700
	filePermUserRW  = 0o600
)

// Writer operations.

// WriteFile writes content to output, creating parent directories as
// needed. The content lands in a temporary sibling first and is renamed
// into place, so readers never observe a partial file.
func WriteFile(content []byte, output string) error {
	if output == "" {
		return ErrEmptyOutputPath
	}

	output = filepath.Clean(output)
	dir := filepath.Dir(output)

	err := os.MkdirAll(dir, dirPermUserOnly)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(output)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}

	tmpName := tmp.Name()

	defer func() { _ = os.Remove(tmpName) }()

	_, err = tmp.Write(content)
	if err == nil {
		err = tmp.Chmod(filePermUserRW)
	}

	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", output, err)
	}

	err = os.Rename(tmpName, output)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", output, err)
	}

	return nil
}
