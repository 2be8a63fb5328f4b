package cmd

import (
	"fmt"
	"time"

	"github.com/devantler-tech/apidelta/pkg/di"
	"github.com/devantler-tech/apidelta/pkg/io/configmanager"
	"github.com/devantler-tech/apidelta/pkg/io/history"
	"github.com/devantler-tech/apidelta/pkg/utils/notify"
	"github.com/spf13/cobra"
)

const clearFlagName = "clear"

// historyStore opens the request history named by config.
func historyStore(config *configmanager.Config) (*history.Store, error) {
	path := config.HistoryFile
	if path == "" {
		defaultPath, err := history.DefaultPath()
		if err != nil {
			return nil, err
		}

		path = defaultPath
	}

	return history.NewStore(path, config.HistoryLimit), nil
}

// NewHistoryCmd creates the history command.
func NewHistoryCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently sent requests",
		Long: `History lists the requests sent with "apidelta send", newest first.
Sending the same method and URL again moves it to the top. The list keeps at
most historyLimit entries.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cmd.Flags().Bool(clearFlagName, false, "Forget every remembered request")

	cmd.RunE = di.RunEWithRuntime(runtimeContainer, di.WithConfig(handleHistoryRunE))

	return cmd
}

func handleHistoryRunE(cmd *cobra.Command, _ di.Injector, config *configmanager.Config) error {
	store, err := historyStore(config)
	if err != nil {
		return err
	}

	clearAll, err := cmd.Flags().GetBool(clearFlagName)
	if err != nil {
		return fmt.Errorf("get %s flag: %w", clearFlagName, err)
	}

	if clearAll {
		err = store.Clear()
		if err != nil {
			return err
		}

		notify.Successf(cmd.ErrOrStderr(), "request history cleared")

		return nil
	}

	entries, err := store.Load()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		notify.Infof(cmd.ErrOrStderr(), "no requests sent yet")

		return nil
	}

	for _, entry := range entries {
		_, _ = fmt.Fprintf(
			cmd.OutOrStdout(),
			"%-6s %s  %s\n",
			entry.Method,
			entry.URL,
			entry.SentAt.Format(time.RFC3339),
		)
	}

	return nil
}
