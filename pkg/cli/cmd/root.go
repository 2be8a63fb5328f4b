package cmd

import (
	"context"
	"fmt"

	"github.com/devantler-tech/apidelta/pkg/cli/flags"
	"github.com/devantler-tech/apidelta/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/apidelta/pkg/di"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	runtimeContainer := di.NewRuntime()

	cmd := &cobra.Command{
		Use:   "apidelta",
		Short: "apidelta computes record deltas and sends typed API requests",
		Long: `apidelta computes the minimal field-level delta between two JSON or YAML
records, merges deltas back into records, and sends requests to services that
wrap every response in a {"code", "message", "data"} envelope.`,
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	flags.AddPersistentFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewDiffCmd(runtimeContainer))
	cmd.AddCommand(NewMergeCmd(runtimeContainer))
	cmd.AddCommand(NewSendCmd(runtimeContainer))
	cmd.AddCommand(NewBatchCmd(runtimeContainer))
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewConfigCmd(runtimeContainer))
	cmd.AddCommand(NewHistoryCmd(runtimeContainer))

	return cmd
}

// Execute runs the provided root command under ctx and handles errors.
func Execute(ctx context.Context, cmd *cobra.Command) error {
	executor := errorhandler.NewExecutor()

	err := executor.ExecuteContext(ctx, cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// --- internals ---

// handleRootRunE handles the root command.
func handleRootRunE(
	cmd *cobra.Command,
	_ []string,
) error {
	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}
