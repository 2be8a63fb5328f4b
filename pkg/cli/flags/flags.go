package flags

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flag names shared across commands.
const (
	ConfigFlagName         = "config"
	BaseURLFlagName        = "base-url"
	TimeoutFlagName        = "timeout"
	ConnectTimeoutFlagName = "connect-timeout"
	LogLevelFlagName       = "log-level"
	VerboseFlagName        = "verbose"
	ConcurrencyFlagName    = "concurrency"
	RetryBudgetFlagName    = "retry-budget"
	RetryIntervalFlagName  = "retry-interval"
	RequestIDFlagName      = "request-id"
	StatusMessagesFlagName = "status-messages"
	HistoryFileFlagName    = "history-file"
	BenchmarkFlagName      = "benchmark"
	OutputFlagName         = "output"
	ExcludeFlagName        = "exclude"
)

var (
	// ErrNilCommand is returned when a nil command is inspected.
	ErrNilCommand = errors.New("command is nil")
	// ErrFlagNotDefined is returned when a command lacks an expected flag.
	ErrFlagNotDefined = errors.New("flag not defined")
)

// AddPersistentFlags registers the flags every command understands. Their
// zero values never override configuration; only flags the user sets do.
func AddPersistentFlags(flagSet *pflag.FlagSet) {
	flagSet.String(ConfigFlagName, "", "Path to a config file (default .apidelta.yaml in . or $HOME)")
	flagSet.String(BaseURLFlagName, "", "Base URL that relative request URLs resolve against")
	flagSet.Duration(TimeoutFlagName, 0, "Whole-request timeout")
	flagSet.Duration(ConnectTimeoutFlagName, 0, "Connect timeout")
	flagSet.String(LogLevelFlagName, "", "Diagnostic log level (trace, debug, info, warn, error)")
	flagSet.BoolP(VerboseFlagName, "v", false, "Enable diagnostic logging on stderr")
	flagSet.Int64(ConcurrencyFlagName, 0, "Maximum requests in flight during a batch")
	flagSet.Duration(RetryBudgetFlagName, 0, "Time budget for retrying transient failures")
	flagSet.Duration(RetryIntervalFlagName, 0, "Initial wait between retries")
	flagSet.Bool(RequestIDFlagName, false, "Stamp every request with a fresh X-Request-Id header")
	flagSet.Bool(StatusMessagesFlagName, false, "Report common HTTP error statuses by name without reading the body")
	flagSet.String(HistoryFileFlagName, "", "Where sent requests are remembered")
	flagSet.Bool(BenchmarkFlagName, false, "Show elapsed time for each request")
}

// IsBenchmarkEnabled reports whether --benchmark is set on cmd or inherited
// from a parent.
func IsBenchmarkEnabled(cmd *cobra.Command) (bool, error) {
	if cmd == nil {
		return false, ErrNilCommand
	}

	flag := cmd.Flags().Lookup(BenchmarkFlagName)
	if flag == nil {
		flag = cmd.InheritedFlags().Lookup(BenchmarkFlagName)
	}

	if flag == nil {
		return false, fmt.Errorf("get %s flag: %w", BenchmarkFlagName, ErrFlagNotDefined)
	}

	enabled, err := strconv.ParseBool(flag.Value.String())
	if err != nil {
		return false, fmt.Errorf("get %s flag: %w", BenchmarkFlagName, err)
	}

	return enabled, nil
}

// Elapsed returns the time since start when benchmarking is enabled on cmd,
// and zero otherwise.
func Elapsed(cmd *cobra.Command, start time.Time) time.Duration {
	enabled, err := IsBenchmarkEnabled(cmd)
	if err != nil || !enabled {
		return 0
	}

	return time.Since(start)
}
