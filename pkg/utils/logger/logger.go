// Package logger builds the logrus loggers used across apidelta.
//
// Logging is off unless explicitly enabled; a disabled logger discards
// everything so library code can log unconditionally. Entries carry a "tag"
// field naming the subsystem that produced them.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Subsystem tags.
const (
	TagAPI  = "api_http_client"
	TagJSON = "json"
	TagCLI  = "cli"
)

// TagField is the logrus field holding the subsystem tag.
const TagField = "tag"

// Options controls logger construction.
type Options struct {
	// Enabled turns logging on. A disabled logger discards all output.
	Enabled bool
	// Level is a logrus level name. Empty and unknown names fall back to "error".
	Level string
	// Output receives formatted entries. Defaults to os.Stderr.
	Output io.Writer
	// JSON switches to the logrus JSON formatter.
	JSON bool
}

// New returns a logger configured from opts.
func New(opts Options) *logrus.Logger {
	log := logrus.New()

	if !opts.Enabled {
		log.SetOutput(io.Discard)
		log.SetLevel(logrus.PanicLevel)

		return log
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	log.SetOutput(out)
	log.SetLevel(ParseLevel(opts.Level))

	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			DisableColors:    true,
			DisableTimestamp: false,
			FullTimestamp:    true,
		})
	}

	return log
}

// Discard returns a disabled logger.
func Discard() *logrus.Logger {
	return New(Options{})
}

// ParseLevel maps a level name to a logrus level. Anything unrecognised
// becomes ErrorLevel so a typo never makes logging noisier.
func ParseLevel(name string) logrus.Level {
	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return logrus.ErrorLevel
	}

	return level
}

// Tagged returns an entry carrying the subsystem tag. A nil logger yields a
// discarding entry.
func Tagged(log *logrus.Logger, tag string) *logrus.Entry {
	if log == nil {
		log = Discard()
	}

	return log.WithField(TagField, tag)
}

// DisplayHook forwards every entry at or above its minimum level to a callback
// as a single "[level][time][tag]: message" line. It lets a caller mirror log
// output into its own display without touching the logger's writer.
type DisplayHook struct {
	levels   []logrus.Level
	callback func(line string)
}

// NewDisplayHook creates a hook for entries at min severity or above.
func NewDisplayHook(minLevel logrus.Level, callback func(line string)) *DisplayHook {
	levels := make([]logrus.Level, 0, len(logrus.AllLevels))

	for _, level := range logrus.AllLevels {
		if level <= minLevel {
			levels = append(levels, level)
		}
	}

	return &DisplayHook{levels: levels, callback: callback}
}

// Levels implements logrus.Hook.
func (h *DisplayHook) Levels() []logrus.Level {
	return h.levels
}

// Fire implements logrus.Hook.
func (h *DisplayHook) Fire(entry *logrus.Entry) error {
	if h.callback == nil {
		return nil
	}

	tag, _ := entry.Data[TagField].(string)

	h.callback(fmt.Sprintf(
		"[%s][%s][%s]: %s",
		entry.Level.String(),
		entry.Time.UTC().Format("2006-01-02T15:04:05Z"),
		tag,
		entry.Message,
	))

	return nil
}
