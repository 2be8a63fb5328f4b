package cmd

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/devantler-tech/apidelta/pkg/utils/notify"
	"github.com/devantler-tech/apidelta/pkg/utils/validation"
	"github.com/spf13/cobra"
)

const (
	minFlagName    = "min"
	maxFlagName    = "max"
	digitsFlagName = "digits"
)

var (
	// ErrInvalidValue is returned when a value fails its check.
	ErrInvalidValue = errors.New("invalid value")
	// ErrUnknownKind is returned for an unknown validation kind.
	ErrUnknownKind = errors.New("unknown validation kind")
)

// validators maps kind names to checks. Bounds only apply to "decimal".
//
//nolint:gochecknoglobals // static lookup table
var validators = map[string]func(input string, bounds *validation.Range) validation.Result{
	"email":    func(input string, _ *validation.Range) validation.Result { return validation.Email(input) },
	"password": func(input string, _ *validation.Range) validation.Result { return validation.Password(input) },
	"required": func(input string, _ *validation.Range) validation.Result { return validation.NonEmpty(input) },
	"json":     func(input string, _ *validation.Range) validation.Result { return validation.JSON(input) },
	"decimal":  validation.DecimalPlaces2,
	"number":   func(input string, _ *validation.Range) validation.Result { return validation.OnlyNumber(input) },
}

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	kinds := slices.Sorted(maps.Keys(validators))

	cmd := &cobra.Command{
		Use:   "validate KIND VALUE",
		Short: "Check a form value",
		Long: fmt.Sprintf(`Validate checks VALUE with the same rules request forms use.

Kinds: %s.

"decimal" accepts at most two decimal places and honours --min/--max.
"number" accepts 0 or a positive integer without leading zeros; with
--digits, every non-digit is stripped first and the cleaned value printed.`,
			strings.Join(kinds, ", ")),
		Example: `  apidelta validate email ann@example.com
  apidelta validate decimal 12.50 --min 0 --max 100
  apidelta validate number --digits "1 234"`,
		Args:         cobra.ExactArgs(2),
		ValidArgs:    kinds,
		SilenceUsage: true,
		RunE:         handleValidateRunE,
	}

	cmd.Flags().Float64(minFlagName, 0, "Lower bound for decimal values")
	cmd.Flags().Float64(maxFlagName, 0, "Upper bound for decimal values")
	cmd.Flags().Bool(digitsFlagName, false, "Strip non-digits before checking a number")

	return cmd
}

func handleValidateRunE(cmd *cobra.Command, args []string) error {
	kind, input := strings.ToLower(args[0]), args[1]

	check, ok := validators[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, args[0])
	}

	digits, err := cmd.Flags().GetBool(digitsFlagName)
	if err != nil {
		return fmt.Errorf("get %s flag: %w", digitsFlagName, err)
	}

	if digits && kind == "number" {
		input = validation.DigitsOrZero(input)
	}

	bounds, err := validationBounds(cmd)
	if err != nil {
		return err
	}

	if failure, failed := check(input, bounds).(validation.Failure); failed {
		return fmt.Errorf("%w %s: %s", ErrInvalidValue, kind, failure.Error())
	}

	notify.Successf(cmd.ErrOrStderr(), "valid %s", kind)

	if digits && kind == "number" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), input)
	}

	return nil
}

// validationBounds returns a range when --min or --max was given. A missing
// side is unbounded.
func validationBounds(cmd *cobra.Command) (*validation.Range, error) {
	minChanged := cmd.Flags().Changed(minFlagName)
	maxChanged := cmd.Flags().Changed(maxFlagName)

	if !minChanged && !maxChanged {
		return nil, nil
	}

	bounds := &validation.Range{Min: 0, Max: math.MaxFloat64}

	if minChanged {
		value, err := cmd.Flags().GetFloat64(minFlagName)
		if err != nil {
			return nil, fmt.Errorf("get %s flag: %w", minFlagName, err)
		}

		bounds.Min = value
	}

	if maxChanged {
		value, err := cmd.Flags().GetFloat64(maxFlagName)
		if err != nil {
			return nil, fmt.Errorf("get %s flag: %w", maxFlagName, err)
		}

		bounds.Max = value
	}

	return bounds, nil
}
