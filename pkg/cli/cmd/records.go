package cmd

import (
	"errors"
	"fmt"

	"github.com/devantler-tech/apidelta/pkg/cli/flags"
	"github.com/devantler-tech/apidelta/pkg/cli/ui"
	"github.com/devantler-tech/apidelta/pkg/fsutil"
	"github.com/devantler-tech/apidelta/pkg/io/records"
	"github.com/devantler-tech/apidelta/pkg/structural"
	"github.com/spf13/cobra"
)

// ErrStdinTwice is returned when more than one input names stdin.
var ErrStdinTwice = errors.New("only one input can be read from stdin")

// addOutputFlag registers -o/--output on cmd.
func addOutputFlag(cmd *cobra.Command, defaultFormat records.Format) {
	cmd.Flags().StringP(
		flags.OutputFlagName,
		"o",
		string(defaultFormat),
		"Output format (json or yaml)",
	)
}

// outputFormat returns the format selected with --output.
func outputFormat(cmd *cobra.Command) (records.Format, error) {
	name, err := cmd.Flags().GetString(flags.OutputFlagName)
	if err != nil {
		return "", fmt.Errorf("get %s flag: %w", flags.OutputFlagName, err)
	}

	format, err := records.ParseFormat(name)
	if err != nil {
		return "", fmt.Errorf("invalid --%s: %w", flags.OutputFlagName, err)
	}

	return format, nil
}

// readRecords reads each path as a JSON or YAML object. "-" reads stdin,
// at most once.
func readRecords(cmd *cobra.Command, paths ...string) ([]structural.Object, error) {
	stdinUsed := false
	objects := make([]structural.Object, 0, len(paths))

	for _, path := range paths {
		if path == fsutil.StdinPath {
			if stdinUsed {
				return nil, ErrStdinTwice
			}

			stdinUsed = true
		}

		data, err := fsutil.ReadInput(path, cmd.InOrStdin())
		if err != nil {
			return nil, err
		}

		obj, err := records.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		objects = append(objects, obj)
	}

	return objects, nil
}

// writeValue prints value to stdout in the --output format. JSON is
// indented when stdout is a terminal.
func writeValue(cmd *cobra.Command, value structural.Value) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	out, err := records.Encode(value, format, ui.IsTerminal(cmd.OutOrStdout()))
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(out)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

// writeAny prints an arbitrary JSON-serialisable value like writeValue.
func writeAny(cmd *cobra.Command, value any) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	out, err := records.EncodeAny(value, format, ui.IsTerminal(cmd.OutOrStdout()))
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(out)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
