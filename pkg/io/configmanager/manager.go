package configmanager

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/devantler-tech/apidelta/pkg/utils/envvar"
	"github.com/devantler-tech/apidelta/pkg/utils/notify"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// ConfigName is the base name of the configuration file.
	ConfigName = ".apidelta"
	// EnvPrefix prefixes every environment variable override.
	EnvPrefix = "APIDELTA"
)

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// Silent suppresses all loading notifications when true.
	Silent bool
	// IgnoreConfigFile skips reading on-disk config files when true.
	IgnoreConfigFile bool
}

// flagKeys maps command-line flag names to configuration keys.
//
//nolint:gochecknoglobals // static lookup table
var flagKeys = map[string]string{
	"base-url":        "baseURL",
	"timeout":         "timeouts.request",
	"connect-timeout": "timeouts.connect",
	"log-level":       "log.level",
	"verbose":         "log.enabled",
	"concurrency":     "concurrency",
	"retry-budget":    "retry.budget",
	"retry-interval":  "retry.interval",
	"request-id":      "requestID",
	"status-messages": "statusMessages",
	"history-file":    "historyFile",
}

// ConfigManager loads and caches a Config.
type ConfigManager struct {
	Viper *viper.Viper
	// Config holds the last loaded configuration.
	Config *Config
	// Writer receives loading notifications.
	Writer io.Writer

	expander     *envvar.Expander
	explicitFile string
	configLoaded bool
}

// NewConfigManager creates a manager whose viper instance searches the
// working directory, then $HOME, for .apidelta.yaml. A non-empty
// configFile replaces the search with that exact path.
func NewConfigManager(writer io.Writer, configFile string, expander *envvar.Expander) *ConfigManager {
	if expander == nil {
		expander = envvar.New()
	}

	return &ConfigManager{
		Viper:        InitializeViper(configFile),
		Config:       NewConfig(),
		Writer:       writer,
		expander:     expander,
		explicitFile: configFile,
	}
}

// InitializeViper returns a viper instance with defaults, search paths and
// environment handling set up.
func InitializeViper(configFile string) *viper.Viper {
	viperInstance := viper.New()

	if configFile != "" {
		viperInstance.SetConfigFile(configFile)
	} else {
		viperInstance.SetConfigName(ConfigName)
		viperInstance.SetConfigType("yaml")
		viperInstance.AddConfigPath(".")
		viperInstance.AddConfigPath("$HOME")
	}

	viperInstance.SetEnvPrefix(EnvPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	defaults := NewConfig()
	viperInstance.SetDefault("baseURL", defaults.BaseURL)
	viperInstance.SetDefault("timeouts.request", defaults.Timeouts.Request)
	viperInstance.SetDefault("timeouts.connect", defaults.Timeouts.Connect)
	viperInstance.SetDefault("log.enabled", defaults.Log.Enabled)
	viperInstance.SetDefault("log.level", defaults.Log.Level)
	viperInstance.SetDefault("log.json", defaults.Log.JSON)
	viperInstance.SetDefault("retry.budget", defaults.Retry.Budget)
	viperInstance.SetDefault("retry.interval", defaults.Retry.Interval)
	viperInstance.SetDefault("concurrency", defaults.Concurrency)
	viperInstance.SetDefault("requestID", defaults.RequestID)
	viperInstance.SetDefault("statusMessages", defaults.StatusMessages)
	viperInstance.SetDefault("historyLimit", defaults.HistoryLimit)
	viperInstance.SetDefault("historyFile", defaults.HistoryFile)

	return viperInstance
}

// BindFlags binds every known flag present in flags to its configuration
// key. Bound flags override file and environment values only when set.
func (m *ConfigManager) BindFlags(flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}

		err := m.Viper.BindPFlag(key, flag)
		if err != nil {
			return fmt.Errorf("bind flag %q: %w", name, err)
		}
	}

	return nil
}

// Load reads, decodes, expands and validates the configuration. The result
// is cached; later calls return it without reading again.
// Configuration priority: defaults < config file < environment variables < flags.
func (m *ConfigManager) Load(opts LoadOptions) (*Config, error) {
	if m.configLoaded {
		return m.Config, nil
	}

	if !opts.IgnoreConfigFile {
		err := m.readConfig(opts.Silent)
		if err != nil {
			return nil, err
		}
	}

	config := NewConfig()

	err := m.Viper.Unmarshal(config, func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	config.BaseURL = m.expander.Expand(config.BaseURL)
	config.Headers = m.expander.ExpandMap(config.Headers)
	config.HistoryFile = m.expander.Expand(config.HistoryFile)

	err = config.Validate()
	if err != nil {
		if !opts.Silent {
			notify.Errorf(m.Writer, "%v", err)
		}

		return nil, fmt.Errorf("invalid config: %w", err)
	}

	m.Config = config
	m.configLoaded = true

	return config, nil
}

// ConfigFileUsed returns the path of the file that was read, if any.
func (m *ConfigManager) ConfigFileUsed() string {
	return m.Viper.ConfigFileUsed()
}

func (m *ConfigManager) readConfig(silent bool) error {
	err := m.Viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) || m.explicitFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		if !silent {
			notify.Activityf(m.Writer, "using default config")
		}

		return nil
	}

	if !silent {
		notify.Activityf(m.Writer, "'%s' found", m.Viper.ConfigFileUsed())
	}

	return nil
}
