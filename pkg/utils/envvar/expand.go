// Package envvar expands ${VAR} and ${VAR:-default} placeholders in
// configuration values.
package envvar

import (
	"os"
	"regexp"
	"strings"

	"github.com/devantler-tech/apidelta/pkg/utils/logger"
	"github.com/sirupsen/logrus"
)

// pattern matches ${VAR_NAME} and ${VAR_NAME:-default} placeholders.
// Groups: 1 = variable name, 2 = optional default value (after :-).
var pattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::-([^}]*))?\}`)

const defaultSyntaxMarker = ":-"

// LookupFunc resolves a variable name, reporting whether it is set.
type LookupFunc func(name string) (string, bool)

// Expander replaces placeholders using a lookup function.
type Expander struct {
	lookup LookupFunc
	log    *logrus.Entry
}

// Option configures an Expander.
type Option func(*Expander)

// WithLookup replaces os.LookupEnv as the variable source.
func WithLookup(lookup LookupFunc) Option {
	return func(e *Expander) {
		e.lookup = lookup
	}
}

// WithLogger sets where warnings about unset variables go.
func WithLogger(log *logrus.Entry) Option {
	return func(e *Expander) {
		e.log = log
	}
}

// New creates an Expander reading the process environment.
func New(opts ...Option) *Expander {
	expander := &Expander{
		lookup: os.LookupEnv,
		log:    logger.Tagged(nil, logger.TagCLI),
	}

	for _, opt := range opts {
		opt(expander)
	}

	return expander
}

// Expand replaces placeholders in value using the process environment.
func Expand(value string) string {
	return New().Expand(value)
}

// Expand replaces placeholders in value. An unset variable takes its
// default when one is given (${VAR:-} means empty); otherwise it becomes
// the empty string and a warning is logged.
func (e *Expander) Expand(value string) string {
	if value == "" {
		return value
	}

	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		groups := pattern.FindStringSubmatch(match)
		name := groups[1]

		if envValue, ok := e.lookup(name); ok {
			return envValue
		}

		if strings.Contains(match, defaultSyntaxMarker) {
			return groups[2]
		}

		e.log.WithField("variable", name).Warn("environment variable not set")

		return ""
	})
}

// ExpandMap returns a copy of values with every value expanded. Keys are
// left untouched.
func (e *Expander) ExpandMap(values map[string]string) map[string]string {
	if values == nil {
		return nil
	}

	expanded := make(map[string]string, len(values))
	for key, value := range values {
		expanded[key] = e.Expand(value)
	}

	return expanded
}
