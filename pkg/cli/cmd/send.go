package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devantler-tech/apidelta/pkg/cli/flags"
	"github.com/devantler-tech/apidelta/pkg/cli/ui"
	"github.com/devantler-tech/apidelta/pkg/cli/ui/confirm"
	"github.com/devantler-tech/apidelta/pkg/client/api"
	"github.com/devantler-tech/apidelta/pkg/client/netretry"
	"github.com/devantler-tech/apidelta/pkg/di"
	"github.com/devantler-tech/apidelta/pkg/io/configmanager"
	"github.com/devantler-tech/apidelta/pkg/io/history"
	"github.com/devantler-tech/apidelta/pkg/io/records"
	"github.com/devantler-tech/apidelta/pkg/structural"
	"github.com/devantler-tech/apidelta/pkg/utils/logger"
	"github.com/devantler-tech/apidelta/pkg/utils/notify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	dataFlagName     = "data"
	headerFlagName   = "header"
	yesFlagName      = "yes"
	traceFlagName    = "trace"
	envelopeFlagName = "envelope"
)

// ErrInvalidHeader is returned for a --header value without a name.
var ErrInvalidHeader = errors.New("header must look like Name=value or Name: value")

// NewSendCmd creates the send command.
func NewSendCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send METHOD URL",
		Short: "Send one request and print the response data",
		Long: `Send performs a single request through the typed pipeline.

For GET and DELETE the --data record becomes query parameters; for POST, PUT
and PATCH it becomes the JSON body. The response must use the envelope
{"code", "message", "data"}: code 0 is success and its data is printed,
anything else is reported as a business error. With --envelope the whole
envelope is printed instead of its data, for failures too; failures other
than business errors carry code -1.

Failures exit with a code per kind: 4 client error, 5 server error,
6 network failure, 7 parse failure, 8 business error, 130 canceled.
Transient failures are retried while --retry-budget lasts.`,
		Example: `  apidelta send GET /users --data filter.yaml
  apidelta send POST https://api.example.com/users -d user.json -H "Authorization=Bearer $TOKEN"
  apidelta diff old.json new.json | apidelta send PATCH /users/7 -d -`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
	}

	cmd.Flags().StringP(dataFlagName, "d", "", `Record to send, as a JSON or YAML file ("-" for stdin)`)
	cmd.Flags().StringArrayP(headerFlagName, "H", nil, "Extra header as Name=value or Name: value (repeatable)")
	cmd.Flags().BoolP(yesFlagName, "y", false, "Send DELETE requests without asking")
	cmd.Flags().Bool(traceFlagName, false, "Mirror debug logs of the exchange on stderr")
	cmd.Flags().Bool(envelopeFlagName, false, "Print the whole response envelope instead of its data")
	addOutputFlag(cmd, records.FormatJSON)

	cmd.RunE = di.RunEWithRuntime(runtimeContainer, di.WithConfig(handleSendRunE))

	return cmd
}

func handleSendRunE(cmd *cobra.Command, injector di.Injector, config *configmanager.Config) error {
	args, err := di.ResolveArgs(injector)
	if err != nil {
		return err
	}

	spec, payload, payloadText, err := buildSendRequest(cmd, args)
	if err != nil {
		return err
	}

	proceed, err := confirmSend(cmd, spec, payloadText)
	if err != nil || !proceed {
		return err
	}

	err = enableTrace(cmd, injector)
	if err != nil {
		return err
	}

	client, err := di.ResolveAPIClient(injector)
	if err != nil {
		return err
	}

	defer client.CloseIdleConnections()

	rememberRequest(cmd, config, spec)

	start := time.Now()

	var result api.Result[json.RawMessage]

	err = netretry.Retry(cmd.Context(), config.Retry.Budget, config.Retry.Interval, func(ctx context.Context) error {
		result = api.Send[json.RawMessage](ctx, client, spec, payload)

		if failure, failed := api.AsError[json.RawMessage](result); failed {
			return failure
		}

		return nil
	})
	if err != nil {
		if printEnvelope(cmd) && result != nil {
			writeErr := writeAny(cmd, api.NewEnvelope[json.RawMessage](result))
			if writeErr != nil {
				return writeErr
			}
		}

		return fmt.Errorf("%s %s: %w", spec.Method, spec.URL, err)
	}

	return writeSendResult(cmd, spec, result, flags.Elapsed(cmd, start))
}

func printEnvelope(cmd *cobra.Command) bool {
	enabled, err := cmd.Flags().GetBool(envelopeFlagName)

	return err == nil && enabled
}

func buildSendRequest(cmd *cobra.Command, args []string) (api.RequestSpec, any, []byte, error) {
	method, err := api.ParseMethod(args[0])
	if err != nil {
		return api.RequestSpec{}, nil, nil, err
	}

	rawHeaders, err := cmd.Flags().GetStringArray(headerFlagName)
	if err != nil {
		return api.RequestSpec{}, nil, nil, fmt.Errorf("get %s flag: %w", headerFlagName, err)
	}

	headers, err := parseHeaders(rawHeaders)
	if err != nil {
		return api.RequestSpec{}, nil, nil, err
	}

	spec := api.RequestSpec{Method: method, URL: args[1], Headers: headers}

	dataPath, err := cmd.Flags().GetString(dataFlagName)
	if err != nil {
		return api.RequestSpec{}, nil, nil, fmt.Errorf("get %s flag: %w", dataFlagName, err)
	}

	if dataPath == "" {
		return spec, nil, nil, nil
	}

	objects, err := readRecords(cmd, dataPath)
	if err != nil {
		return api.RequestSpec{}, nil, nil, err
	}

	text, err := structural.Marshal(objects[0])
	if err != nil {
		return api.RequestSpec{}, nil, nil, fmt.Errorf("encode payload: %w", err)
	}

	return spec, objects[0], text, nil
}

// parseHeaders accepts Name=value and Name: value. Later entries win.
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	headers := make(map[string]string, len(raw))

	for _, entry := range raw {
		separator := strings.IndexAny(entry, ":=")
		if separator <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHeader, entry)
		}

		name := strings.TrimSpace(entry[:separator])
		if name == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHeader, entry)
		}

		headers[name] = strings.TrimSpace(entry[separator+1:])
	}

	return headers, nil
}

func confirmSend(cmd *cobra.Command, spec api.RequestSpec, payload []byte) (bool, error) {
	if !confirm.RequiresConfirmation(spec.Method) {
		return true, nil
	}

	force, err := cmd.Flags().GetBool(yesFlagName)
	if err != nil {
		return false, fmt.Errorf("get %s flag: %w", yesFlagName, err)
	}

	if confirm.ShouldSkipPrompt(force, ui.IsTerminal(cmd.InOrStdin())) {
		return true, nil
	}

	confirm.ShowRequestPreview(cmd.ErrOrStderr(), spec, payload)

	if !confirm.PromptForConfirmation(cmd.InOrStdin()) {
		return false, confirm.ErrSendCancelled
	}

	return true, nil
}

// enableTrace forwards debug entries of the exchange to stderr as info
// lines when --trace is set, whatever the configured log output.
func enableTrace(cmd *cobra.Command, injector di.Injector) error {
	trace, err := cmd.Flags().GetBool(traceFlagName)
	if err != nil {
		return fmt.Errorf("get %s flag: %w", traceFlagName, err)
	}

	if !trace {
		return nil
	}

	log, err := di.ResolveLogger(injector)
	if err != nil {
		return err
	}

	if log.GetLevel() < logrus.DebugLevel {
		log.SetLevel(logrus.DebugLevel)
	}

	log.AddHook(logger.NewDisplayHook(logrus.DebugLevel, func(line string) {
		notify.Infof(cmd.ErrOrStderr(), "%s", line)
	}))

	return nil
}

// rememberRequest adds spec to the request history. History problems are
// reported but never fail the send.
func rememberRequest(cmd *cobra.Command, config *configmanager.Config, spec api.RequestSpec) {
	store, err := historyStore(config)
	if err == nil {
		_, err = store.Add(history.Entry{Method: string(spec.Method), URL: spec.URL, SentAt: time.Now().UTC()})
	}

	if err != nil {
		notify.Warningf(cmd.ErrOrStderr(), "request history not updated: %v", err)
	}
}

func writeSendResult(
	cmd *cobra.Command,
	spec api.RequestSpec,
	result api.Result[json.RawMessage],
	elapsed time.Duration,
) error {
	success, ok := result.(api.Success[json.RawMessage])
	if !ok {
		return nil
	}

	label := fmt.Sprintf("%s %s", spec.Method, spec.URL)

	if elapsed > 0 {
		notify.SuccessWithElapsedf(cmd.ErrOrStderr(), elapsed, "%s: %s", label, success.Message)
	} else {
		notify.WriteResult[json.RawMessage](cmd.ErrOrStderr(), label, result)
	}

	if printEnvelope(cmd) {
		return writeAny(cmd, api.NewEnvelope[json.RawMessage](result))
	}

	if success.Data == nil {
		return nil
	}

	data, err := structural.Parse(*success.Data)
	if err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}

	return writeValue(cmd, data)
}
