package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/devantler-tech/apidelta/pkg/client/api"
	"github.com/devantler-tech/apidelta/pkg/di"
	"github.com/devantler-tech/apidelta/pkg/fsutil"
	"github.com/devantler-tech/apidelta/pkg/io/records"
	"github.com/devantler-tech/apidelta/pkg/utils/notify"
	"github.com/devantler-tech/apidelta/pkg/utils/parallel"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var (
	// ErrBatchFailed is returned when at least one batch request failed.
	ErrBatchFailed = errors.New("batch requests failed")
	// ErrEmptyBatch is returned for a batch file without calls.
	ErrEmptyBatch = errors.New("batch file has no calls")
)

// batchFile is the on-disk batch format.
type batchFile struct {
	Calls []batchCall `json:"calls"`
}

type batchCall struct {
	Name    string          `json:"name,omitempty"`
	Request api.RequestSpec `json:"request"`
	Payload any             `json:"payload,omitempty"`
}

func (c batchCall) label() string {
	if c.Name != "" {
		return c.Name
	}

	return fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL)
}

// batchReport is one line of the machine-readable batch output.
type batchReport struct {
	Name       string          `json:"name"`
	OK         bool            `json:"ok"`
	Kind       string          `json:"kind,omitempty"`
	StatusCode *int            `json:"statusCode,omitempty"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// NewBatchCmd creates the batch command.
func NewBatchCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Send a file of independent requests concurrently",
		Long: `Batch reads a JSON or YAML file of calls and sends them with at most
--concurrency requests in flight. Every call gets its own result; one failure
does not stop the others. A summary line per call goes to stderr as each
call finishes, and a report of all results, in file order, to stdout.

  calls:
    - name: create
      request: {method: POST, url: /users}
      payload: {name: Ann}
    - request: {method: GET, url: /users}`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
	}

	addOutputFlag(cmd, records.FormatJSON)

	cmd.RunE = di.RunEWithRuntime(runtimeContainer, di.WithAPIClient(handleBatchRunE))

	return cmd
}

func handleBatchRunE(cmd *cobra.Command, injector di.Injector, client *api.Client) error {
	args, err := di.ResolveArgs(injector)
	if err != nil {
		return err
	}

	config, err := di.ResolveConfig(injector)
	if err != nil {
		return err
	}

	calls, err := readBatch(cmd, args[0])
	if err != nil {
		return err
	}

	apiCalls := make([]api.Call, len(calls))
	for index, call := range calls {
		apiCalls[index] = api.Call{Spec: call.Request, Payload: call.Payload}
	}

	progress := parallel.NewSyncWriter(notify.NewSectionWriter(cmd.ErrOrStderr()))
	notify.Titlef(progress, "📦", "batch: %d requests", len(calls))

	results := api.SendEach[json.RawMessage](
		cmd.Context(), client, apiCalls, config.Concurrency,
		func(index int, result api.Result[json.RawMessage]) {
			var line bytes.Buffer

			notify.WriteResult[json.RawMessage](&line, calls[index].label(), result)

			_, _ = progress.Write(line.Bytes())
		},
	)

	reports := make([]batchReport, len(calls))
	failed := 0

	for index, result := range results {
		reports[index] = newBatchReport(calls[index].label(), result)
		if !reports[index].OK {
			failed++
		}
	}

	notify.Titlef(progress, "📊", "batch: %d succeeded, %d failed", len(calls)-failed, failed)

	err = writeAny(cmd, reports)
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrBatchFailed, failed, len(calls))
	}

	return nil
}

func readBatch(cmd *cobra.Command, path string) ([]batchCall, error) {
	data, err := fsutil.ReadInput(path, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}

	var file batchFile

	err = yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse batch file: %w", path, err)
	}

	if len(file.Calls) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyBatch, path)
	}

	for index := range file.Calls {
		method, err := api.ParseMethod(string(file.Calls[index].Request.Method))
		if err != nil {
			return nil, fmt.Errorf("%s: call %d: %w", path, index+1, err)
		}

		file.Calls[index].Request.Method = method
	}

	return file.Calls, nil
}

func newBatchReport(name string, result api.Result[json.RawMessage]) batchReport {
	switch outcome := result.(type) {
	case api.Success[json.RawMessage]:
		report := batchReport{Name: name, OK: true, Message: outcome.Message}
		if outcome.Data != nil {
			report.Data = *outcome.Data
		}

		return report
	case *api.Error:
		return batchReport{
			Name:       name,
			Kind:       outcome.Kind.String(),
			StatusCode: outcome.StatusCode,
			Message:    outcome.Message,
		}
	default:
		return batchReport{Name: name, Kind: api.UnknownFailure.String(), Message: "no result"}
	}
}
