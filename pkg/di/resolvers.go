package di

import (
	"fmt"

	"github.com/devantler-tech/apidelta/pkg/client/api"
	"github.com/devantler-tech/apidelta/pkg/io/configmanager"
	"github.com/devantler-tech/apidelta/pkg/svc/diff"
	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Dependency resolvers.

// ResolveCommand retrieves the invoking command from the injector.
func ResolveCommand(injector Injector) (*cobra.Command, error) {
	cmd, err := do.Invoke[*cobra.Command](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve command dependency: %w", err)
	}

	return cmd, nil
}

// ResolveArgs retrieves the invoking command's positional arguments.
func ResolveArgs(injector Injector) ([]string, error) {
	args, err := do.Invoke[Args](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve args dependency: %w", err)
	}

	return args, nil
}

// ResolveConfigManager retrieves the config manager with consistent error handling.
func ResolveConfigManager(injector Injector) (*configmanager.ConfigManager, error) {
	manager, err := do.Invoke[*configmanager.ConfigManager](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve config manager dependency: %w", err)
	}

	return manager, nil
}

// ResolveConfig retrieves the loaded configuration.
func ResolveConfig(injector Injector) (*configmanager.Config, error) {
	config, err := do.Invoke[*configmanager.Config](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve config dependency: %w", err)
	}

	return config, nil
}

// ResolveLogger retrieves the diagnostic logger.
func ResolveLogger(injector Injector) (*logrus.Logger, error) {
	log, err := do.Invoke[*logrus.Logger](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve logger dependency: %w", err)
	}

	return log, nil
}

// ResolveAPIClient retrieves the HTTP pipeline client.
func ResolveAPIClient(injector Injector) (*api.Client, error) {
	client, err := do.Invoke[*api.Client](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve api client dependency: %w", err)
	}

	return client, nil
}

// ResolveDiffEngine retrieves the diff engine.
func ResolveDiffEngine(injector Injector) (*diff.Engine, error) {
	engine, err := do.Invoke[*diff.Engine](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve diff engine dependency: %w", err)
	}

	return engine, nil
}

// Handler decorators.

// WithConfig decorates a handler to resolve the loaded configuration first.
func WithConfig(
	handler func(cmd *cobra.Command, injector Injector, config *configmanager.Config) error,
) func(cmd *cobra.Command, injector Injector) error {
	return func(cmd *cobra.Command, injector Injector) error {
		config, err := ResolveConfig(injector)
		if err != nil {
			return err
		}

		return handler(cmd, injector, config)
	}
}

// WithAPIClient decorates a handler to resolve the API client first. Idle
// connections are closed once the handler returns.
func WithAPIClient(
	handler func(cmd *cobra.Command, injector Injector, client *api.Client) error,
) func(cmd *cobra.Command, injector Injector) error {
	return func(cmd *cobra.Command, injector Injector) error {
		client, err := ResolveAPIClient(injector)
		if err != nil {
			return err
		}

		defer client.CloseIdleConnections()

		return handler(cmd, injector, client)
	}
}

// WithDiffEngine decorates a handler to resolve the diff engine first.
func WithDiffEngine(
	handler func(cmd *cobra.Command, injector Injector, engine *diff.Engine) error,
) func(cmd *cobra.Command, injector Injector) error {
	return func(cmd *cobra.Command, injector Injector) error {
		engine, err := ResolveDiffEngine(injector)
		if err != nil {
			return err
		}

		return handler(cmd, injector, engine)
	}
}
