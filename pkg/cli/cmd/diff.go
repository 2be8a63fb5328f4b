package cmd

import (
	"fmt"

	"github.com/devantler-tech/apidelta/pkg/cli/flags"
	"github.com/devantler-tech/apidelta/pkg/di"
	"github.com/devantler-tech/apidelta/pkg/io/records"
	"github.com/devantler-tech/apidelta/pkg/structural"
	"github.com/devantler-tech/apidelta/pkg/svc/diff"
	"github.com/devantler-tech/apidelta/pkg/utils/notify"
	"github.com/spf13/cobra"
)

const summaryFlagName = "summary"

// NewDiffCmd creates the diff command.
func NewDiffCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Print the fields of NEW that differ from OLD",
		Long: `Diff compares two JSON or YAML records and prints the minimal delta:
every field of NEW whose value differs from OLD. Nested objects are compared
field by field; arrays and scalars are compared as a whole. Fields only OLD
has are not reported.

Excluded fields always carry OLD's value, so server-assigned identifiers
survive into an update payload. Use "-" to read one of the records from stdin.`,
		Example: `  apidelta diff before.json after.json
  apidelta diff --exclude id,createdAt before.yaml after.yaml -o yaml
  apidelta diff --summary before.json after.json`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
	}

	cmd.Flags().StringSlice(flags.ExcludeFlagName, nil, "Fields whose old value is always kept")
	cmd.Flags().Bool(summaryFlagName, false, "List changed fields instead of printing the delta")
	addOutputFlag(cmd, records.FormatJSON)

	cmd.RunE = di.RunEWithRuntime(runtimeContainer, di.WithDiffEngine(handleDiffRunE))

	return cmd
}

func handleDiffRunE(cmd *cobra.Command, injector di.Injector, engine *diff.Engine) error {
	args, err := di.ResolveArgs(injector)
	if err != nil {
		return err
	}

	exclude, err := cmd.Flags().GetStringSlice(flags.ExcludeFlagName)
	if err != nil {
		return fmt.Errorf("get %s flag: %w", flags.ExcludeFlagName, err)
	}

	objects, err := readRecords(cmd, args...)
	if err != nil {
		return err
	}

	engine = engine.Extend(diff.WithExclude(exclude...))

	summary, err := cmd.Flags().GetBool(summaryFlagName)
	if err != nil {
		return fmt.Errorf("get %s flag: %w", summaryFlagName, err)
	}

	if summary {
		return writeSummary(cmd, engine.Changes(objects[0], objects[1]))
	}

	return writeValue(cmd, engine.ComputeDiff(objects[0], objects[1]))
}

func writeSummary(cmd *cobra.Command, changes []diff.Change) error {
	if len(changes) == 0 {
		notify.Infof(cmd.OutOrStdout(), "no changes")

		return nil
	}

	for _, change := range changes {
		newText, err := structural.Marshal(change.NewValue)
		if err != nil {
			return fmt.Errorf("render change %s: %w", change.Field, err)
		}

		if change.Kind == diff.ChangeAdded {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "+ %s: %s\n", change.Field, newText)

			continue
		}

		oldText, err := structural.Marshal(change.OldValue)
		if err != nil {
			return fmt.Errorf("render change %s: %w", change.Field, err)
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "~ %s: %s -> %s\n", change.Field, oldText, newText)
	}

	return nil
}
