// Package errorhandler runs the root command and turns its failure into a
// message and a process exit code.
package errorhandler

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/devantler-tech/apidelta/pkg/client/api"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitClientError    = 4
	ExitServerError    = 5
	ExitNetworkFailure = 6
	ExitParseFailure   = 7
	ExitBusinessError  = 8
	ExitCanceled       = 130
)

// Executor type.

// Executor coordinates Cobra execution, capturing stderr output and surfacing aggregated errors.
type Executor struct {
	normalizer DefaultNormalizer
}

// NewExecutor constructs an Executor.
func NewExecutor() *Executor {
	return &Executor{normalizer: DefaultNormalizer{}}
}

// Execute runs cmd without a caller context. See ExecuteContext.
func (e *Executor) Execute(cmd *cobra.Command) error {
	return e.ExecuteContext(context.Background(), cmd)
}

// ExecuteContext runs the provided command under ctx while intercepting Cobra's error stream.
// It returns nil on success, or a *CommandError containing both the normalized message
// and the original error to preserve error-chain semantics.
func (e *Executor) ExecuteContext(ctx context.Context, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	var errBuf bytes.Buffer

	originalErrWriter := cmd.ErrOrStderr()

	cmd.SetErr(&errBuf)
	defer cmd.SetErr(originalErrWriter)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	message := e.normalizer.Normalize(errBuf.String())

	return &CommandError{
		message: message,
		cause:   err,
	}
}

// CommandError type.

// CommandError represents a Cobra execution failure augmented with normalized stderr output.
type CommandError struct {
	message string
	cause   error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause == nil:
		return e.message
	case e.message != "":
		if strings.Contains(e.message, e.cause.Error()) {
			return e.message
		}

		return e.message + ": " + e.cause.Error()
	default:
		return e.cause.Error()
	}
}

// Unwrap exposes the underlying cause for errors.Is/errors.As consumers.
func (e *CommandError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// ExitCode maps err to a process exit code. Request failures get one code
// per error kind so scripts can tell them apart; anything else is a plain
// failure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var requestErr *api.Error
	if !errors.As(err, &requestErr) {
		if errors.Is(err, context.Canceled) {
			return ExitCanceled
		}

		return ExitFailure
	}

	switch requestErr.Kind {
	case api.ClientError:
		return ExitClientError
	case api.ServerError:
		return ExitServerError
	case api.NetworkFailure:
		return ExitNetworkFailure
	case api.ParseFailure:
		return ExitParseFailure
	case api.BusinessError:
		return ExitBusinessError
	case api.Canceled:
		return ExitCanceled
	case api.UnknownFailure:
		return ExitFailure
	default:
		return ExitFailure
	}
}

// DefaultNormalizer implementation.

// DefaultNormalizer trims Cobra's stderr output into a single error message.
type DefaultNormalizer struct{}

// Normalize trims whitespace, removes redundant "Error:" prefixes, and preserves multi-line usage hints.
func (DefaultNormalizer) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	lines := strings.Split(trimmed, "\n")

	first := strings.TrimSpace(lines[0])
	first = strings.TrimPrefix(first, "Error: ")
	lines[0] = first

	return strings.Join(lines, "\n")
}
