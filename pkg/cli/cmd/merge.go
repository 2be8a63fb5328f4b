package cmd

import (
	"github.com/devantler-tech/apidelta/pkg/di"
	"github.com/devantler-tech/apidelta/pkg/io/records"
	"github.com/devantler-tech/apidelta/pkg/svc/diff"
	"github.com/spf13/cobra"
)

// NewMergeCmd creates the merge command.
func NewMergeCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge BASE DELTA",
		Short: "Apply a delta to a base record",
		Long: `Merge overlays DELTA onto BASE. Where both hold an object at the same
field the two are merged recursively; anything else in DELTA replaces or
inserts. Fields only BASE has are kept. Use "-" to read one record from stdin.`,
		Example: `  apidelta merge user.json patch.json
  apidelta diff old.json new.json | apidelta merge old.json -`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
	}

	addOutputFlag(cmd, records.FormatJSON)

	cmd.RunE = di.RunEWithRuntime(runtimeContainer, di.WithDiffEngine(handleMergeRunE))

	return cmd
}

func handleMergeRunE(cmd *cobra.Command, injector di.Injector, engine *diff.Engine) error {
	args, err := di.ResolveArgs(injector)
	if err != nil {
		return err
	}

	objects, err := readRecords(cmd, args...)
	if err != nil {
		return err
	}

	return writeValue(cmd, engine.Merge(objects[0], objects[1]))
}
