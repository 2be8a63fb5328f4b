package cmd

import (
	"fmt"

	"github.com/devantler-tech/apidelta/pkg/di"
	"github.com/devantler-tech/apidelta/pkg/io/configmanager"
	"github.com/devantler-tech/apidelta/pkg/io/records"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect apidelta configuration",
		Long: `Configuration is read from .apidelta.yaml in the working directory or
$HOME, or from the file named by --config. APIDELTA_* environment variables
override the file and flags override both.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewConfigSchemaCmd())
	cmd.AddCommand(NewConfigViewCmd(runtimeContainer))

	return cmd
}

// NewConfigSchemaCmd creates the config schema command.
func NewConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "schema",
		Short:        "Print the JSON schema of the configuration file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := configmanager.Schema()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
			if err != nil {
				return fmt.Errorf("write schema: %w", err)
			}

			return nil
		},
	}
}

// configView is the printable form of a Config, with durations as text.
type configView struct {
	ConfigFile     string            `json:"configFile,omitempty"`
	BaseURL        string            `json:"baseURL,omitempty"`
	Headers        map[string]string `json:"headers,omitempty"`
	Timeouts       map[string]string `json:"timeouts"`
	Log            configmanager.Log `json:"log"`
	Retry          map[string]string `json:"retry"`
	Concurrency    int64             `json:"concurrency"`
	RequestID      bool              `json:"requestID"`
	StatusMessages bool              `json:"statusMessages"`
	HistoryLimit   int               `json:"historyLimit"`
	HistoryFile    string            `json:"historyFile,omitempty"`
}

// NewConfigViewCmd creates the config view command.
func NewConfigViewCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "view",
		Short:        "Print the effective configuration",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	addOutputFlag(cmd, records.FormatYAML)

	cmd.RunE = di.RunEWithRuntime(runtimeContainer, di.WithConfig(handleConfigViewRunE))

	return cmd
}

func handleConfigViewRunE(cmd *cobra.Command, injector di.Injector, config *configmanager.Config) error {
	manager, err := di.ResolveConfigManager(injector)
	if err != nil {
		return err
	}

	return writeAny(cmd, configView{
		ConfigFile: manager.ConfigFileUsed(),
		BaseURL:    config.BaseURL,
		Headers:    config.Headers,
		Timeouts: map[string]string{
			"request": config.Timeouts.Request.String(),
			"connect": config.Timeouts.Connect.String(),
		},
		Log: config.Log,
		Retry: map[string]string{
			"budget":   config.Retry.Budget.String(),
			"interval": config.Retry.Interval.String(),
		},
		Concurrency:    config.Concurrency,
		RequestID:      config.RequestID,
		StatusMessages: config.StatusMessages,
		HistoryLimit:   config.HistoryLimit,
		HistoryFile:    config.HistoryFile,
	})
}
