package fsutil

import (
	"fmt"
	"io"
	"os"
)

// StdinPath is the input path that selects standard input.
const StdinPath = "-"

// MaxInputSize bounds how much ReadInput reads from a single source.
const MaxInputSize = 32 << 20

// ReadInput reads path, or stdin when path is StdinPath.
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return nil, ErrEmptyInputPath
	}

	if path == StdinPath {
		return readLimited(stdin, "stdin")
	}

	expanded, err := ExpandHomePath(path)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // reading user-named input files is the purpose of this function
	file, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	defer func() { _ = file.Close() }()

	return readLimited(file, path)
}

func readLimited(reader io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(reader, MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: %s", ErrInputTooLarge, name)
	}

	return data, nil
}
