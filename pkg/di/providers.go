package di

import (
	"fmt"

	"github.com/devantler-tech/apidelta/pkg/cli/flags"
	"github.com/devantler-tech/apidelta/pkg/client/api"
	"github.com/devantler-tech/apidelta/pkg/io/configmanager"
	"github.com/devantler-tech/apidelta/pkg/svc/diff"
	"github.com/devantler-tech/apidelta/pkg/utils/envvar"
	"github.com/devantler-tech/apidelta/pkg/utils/logger"
	"github.com/google/uuid"
	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
)

// Dependency providers.

// NewRuntime constructs the shared runtime container used by the root command and tests.
// It registers the config manager, the loaded config, the logger, the API client
// and the diff engine. Everything except the engine needs the invoking
// *cobra.Command, which RunEWithRuntime provides.
func NewRuntime() *Runtime {
	return New(
		provideConfigManager,
		provideConfig,
		provideLogger,
		provideAPIClient,
		provideDiffEngine,
	)
}

// provideConfigManager registers a config manager bound to the command's flags.
func provideConfigManager(i Injector) error {
	do.Provide(i, func(i Injector) (*configmanager.ConfigManager, error) {
		cmd, err := ResolveCommand(i)
		if err != nil {
			return nil, err
		}

		configFile, _ := cmd.Flags().GetString(flags.ConfigFlagName)

		// Expansion runs before the configured logger exists, so unset
		// variables are reported on stderr at warn level.
		bootstrap := logger.New(logger.Options{
			Enabled: true,
			Level:   "warn",
			Output:  cmd.ErrOrStderr(),
		})
		expander := envvar.New(envvar.WithLogger(logger.Tagged(bootstrap, logger.TagCLI)))

		manager := configmanager.NewConfigManager(cmd.ErrOrStderr(), configFile, expander)

		err = manager.BindFlags(cmd.Flags())
		if err != nil {
			return nil, fmt.Errorf("bind config flags: %w", err)
		}

		return manager, nil
	})

	return nil
}

// provideConfig registers the loaded and validated configuration.
func provideConfig(i Injector) error {
	do.Provide(i, func(i Injector) (*configmanager.Config, error) {
		manager, err := ResolveConfigManager(i)
		if err != nil {
			return nil, err
		}

		config, err := manager.Load(configmanager.LoadOptions{Silent: true})
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}

		return config, nil
	})

	return nil
}

// provideLogger registers the diagnostic logger described by the config.
func provideLogger(i Injector) error {
	do.Provide(i, func(i Injector) (*logrus.Logger, error) {
		cmd, err := ResolveCommand(i)
		if err != nil {
			return nil, err
		}

		config, err := ResolveConfig(i)
		if err != nil {
			return nil, err
		}

		return logger.New(logger.Options{
			Enabled: config.Log.Enabled,
			Level:   config.Log.Level,
			Output:  cmd.ErrOrStderr(),
			JSON:    config.Log.JSON,
		}), nil
	})

	return nil
}

// provideAPIClient registers the HTTP pipeline client.
func provideAPIClient(i Injector) error {
	do.Provide(i, func(i Injector) (*api.Client, error) {
		config, err := ResolveConfig(i)
		if err != nil {
			return nil, err
		}

		log, err := ResolveLogger(i)
		if err != nil {
			return nil, err
		}

		opts := []api.Option{
			api.WithBaseURL(config.BaseURL),
			api.WithHeaders(config.Headers),
			api.WithTimeouts(config.Timeouts.Request, config.Timeouts.Connect),
			api.WithLogger(logger.Tagged(log, logger.TagAPI)),
		}

		if config.RequestID {
			opts = append(opts, api.WithRequestID(uuid.NewString))
		}

		if config.StatusMessages {
			opts = append(opts, api.WithResponseObserver(api.DefaultStatusObserver))
		}

		return api.NewClient(opts...), nil
	})

	return nil
}

// provideDiffEngine registers a diff engine. Exclusions are per call, so
// commands extend the engine with their own field list.
func provideDiffEngine(i Injector) error {
	do.Provide(i, func(i Injector) (*diff.Engine, error) {
		log, err := ResolveLogger(i)
		if err != nil {
			return nil, err
		}

		return diff.NewEngine(diff.WithLogger(logger.Tagged(log, logger.TagJSON))), nil
	})

	return nil
}
