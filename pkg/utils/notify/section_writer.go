package notify

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"unicode"
	"unicode/utf8"
)

// SectionWriter inserts a blank line before every title line that follows
// earlier output, so consecutive sections of a command stay visually apart.
// A title line starts with a pictographic emoji; the message symbols
// (✔ ✗ ⚠ ℹ ► ⏲) never start a section.
type SectionWriter struct {
	mu         sync.Mutex
	underlying io.Writer
	started    bool
}

// NewSectionWriter wraps underlying.
func NewSectionWriter(underlying io.Writer) *SectionWriter {
	return &SectionWriter{underlying: underlying}
}

// Write implements io.Writer.
func (w *SectionWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(data) == 0 {
		return 0, nil
	}

	if w.started && isTitle(data) {
		_, err := w.underlying.Write([]byte{'\n'})
		if err != nil {
			return 0, fmt.Errorf("write section separator: %w", err)
		}
	}

	written, err := w.underlying.Write(data)
	if written > 0 {
		w.started = true
	}

	if err != nil {
		return written, fmt.Errorf("write section content: %w", err)
	}

	return written, nil
}

func isTitle(data []byte) bool {
	data = skipEscapes(data)
	first, _ := utf8.DecodeRune(data)

	switch first {
	case utf8.RuneError, '►', '✔', '✗', '⚠', 'ℹ', '⏲':
		return false
	default:
		return unicode.Is(unicode.So, first)
	}
}

// skipEscapes drops leading ANSI SGR sequences written by colored output.
func skipEscapes(data []byte) []byte {
	for bytes.HasPrefix(data, []byte("\x1b[")) {
		end := bytes.IndexByte(data, 'm')
		if end < 0 {
			return data
		}

		data = data[end+1:]
	}

	return data
}
