package configmanager

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/devantler-tech/apidelta/pkg/client/api"
	"github.com/jinzhu/copier"
	"github.com/sirupsen/logrus"
)

// Validation errors returned (joined) by Config.Validate.
var (
	ErrInvalidBaseURL     = errors.New("baseURL must be an absolute http or https URL")
	ErrNegativeDuration   = errors.New("duration must not be negative")
	ErrInvalidConcurrency = errors.New("concurrency must not be negative")
	ErrInvalidHistory     = errors.New("historyLimit must not be negative")
	ErrInvalidLogLevel    = errors.New("unknown log level")
)

// Default values.
const (
	DefaultRetryInterval = 200 * time.Millisecond
	DefaultHistoryLimit  = 20
	DefaultLogLevel      = "info"
)

// Config is the complete apidelta configuration.
type Config struct {
	// BaseURL is prepended to relative request URLs.
	BaseURL string `json:"baseURL,omitempty" jsonschema:"description=Base URL that relative request URLs resolve against" mapstructure:"baseURL"`
	// Headers are sent with every request. Values may use ${VAR} and ${VAR:-default}.
	Headers map[string]string `json:"headers,omitempty" jsonschema:"description=Headers sent with every request" mapstructure:"headers"`
	// Timeouts bound each request.
	Timeouts Timeouts `json:"timeouts" mapstructure:"timeouts"`
	// Log controls diagnostic logging.
	Log Log `json:"log" mapstructure:"log"`
	// Retry controls caller-side retries of transient failures.
	Retry Retry `json:"retry" mapstructure:"retry"`
	// Concurrency bounds in-flight requests in a batch. Zero picks a default.
	Concurrency int64 `json:"concurrency,omitempty" jsonschema:"minimum=0" mapstructure:"concurrency"`
	// RequestID stamps every request with a fresh X-Request-Id header.
	RequestID bool `json:"requestID,omitempty" mapstructure:"requestID"`
	// StatusMessages reports common HTTP error statuses by their short name
	// without reading the response body.
	StatusMessages bool `json:"statusMessages,omitempty" mapstructure:"statusMessages"`
	// HistoryLimit caps how many sent requests are remembered.
	HistoryLimit int `json:"historyLimit,omitempty" jsonschema:"minimum=0" mapstructure:"historyLimit"`
	// HistoryFile overrides where sent requests are remembered. Empty means ~/.apidelta/history.json.
	HistoryFile string `json:"historyFile,omitempty" mapstructure:"historyFile"`
}

// Timeouts holds the request and connect timeouts.
type Timeouts struct {
	Request time.Duration `json:"request,omitempty" jsonschema:"description=Whole-request timeout such as 15s" mapstructure:"request"`
	Connect time.Duration `json:"connect,omitempty" jsonschema:"description=Connect timeout such as 10s"       mapstructure:"connect"`
}

// Log holds logging settings.
type Log struct {
	Enabled bool   `json:"enabled,omitempty" mapstructure:"enabled"`
	Level   string `json:"level,omitempty"   jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error" mapstructure:"level"`
	JSON    bool   `json:"json,omitempty"    mapstructure:"json"`
}

// Retry holds the retry budget. A zero budget disables retries.
type Retry struct {
	Budget   time.Duration `json:"budget,omitempty"   mapstructure:"budget"`
	Interval time.Duration `json:"interval,omitempty" mapstructure:"interval"`
}

// NewConfig returns a Config holding the defaults.
func NewConfig() *Config {
	return &Config{
		Timeouts: Timeouts{
			Request: api.DefaultRequestTimeout,
			Connect: api.DefaultConnectTimeout,
		},
		Log:          Log{Level: DefaultLogLevel},
		Retry:        Retry{Interval: DefaultRetryInterval},
		HistoryLimit: DefaultHistoryLimit,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() (*Config, error) {
	clone := &Config{}

	err := copier.CopyWithOption(clone, c, copier.Option{DeepCopy: true})
	if err != nil {
		return nil, fmt.Errorf("clone config: %w", err)
	}

	return clone, nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.BaseURL != "" {
		parsed, err := url.Parse(c.BaseURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL))
		}
	}

	durations := []struct {
		key   string
		value time.Duration
	}{
		{"timeouts.request", c.Timeouts.Request},
		{"timeouts.connect", c.Timeouts.Connect},
		{"retry.budget", c.Retry.Budget},
		{"retry.interval", c.Retry.Interval},
	}

	for _, duration := range durations {
		if duration.value < 0 {
			errs = append(errs, fmt.Errorf("%s: %w", duration.key, ErrNegativeDuration))
		}
	}

	if c.Concurrency < 0 {
		errs = append(errs, ErrInvalidConcurrency)
	}

	if c.HistoryLimit < 0 {
		errs = append(errs, ErrInvalidHistory)
	}

	if c.Log.Level != "" {
		_, err := logrus.ParseLevel(strings.ToLower(c.Log.Level))
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level))
		}
	}

	return errors.Join(errs...)
}
