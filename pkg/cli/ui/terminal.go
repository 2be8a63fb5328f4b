// Package ui holds terminal helpers shared by CLI commands.
package ui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether stream is an *os.File attached to a terminal.
// Buffers, pipes and redirected files are not terminals.
func IsTerminal(stream any) bool {
	file, ok := stream.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(file.Fd()))
}

// Width returns the column count of the terminal behind writer, or zero when
// writer is not a terminal.
func Width(writer io.Writer) uint {
	file, ok := writer.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return 0
	}

	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return 0
	}

	return uint(width)
}
