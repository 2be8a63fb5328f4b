// Package confirm asks before a command sends a destructive request.
package confirm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/devantler-tech/apidelta/pkg/client/api"
	"github.com/devantler-tech/apidelta/pkg/utils/notify"
)

// ErrSendCancelled is returned when the user declines to send a request.
var ErrSendCancelled = errors.New("send cancelled")

// RequiresConfirmation reports whether sending with method changes or
// removes data on the server in a way worth asking about first.
func RequiresConfirmation(method api.Method) bool {
	return method == api.MethodDelete
}

// ShouldSkipPrompt returns true if the confirmation prompt should be skipped.
// This happens when:
//   - force flag is set, OR
//   - input is not a terminal (non-interactive environment)
func ShouldSkipPrompt(force, interactive bool) bool {
	return force || !interactive
}

// ShowRequestPreview displays the request that is about to be sent.
func ShowRequestPreview(writer io.Writer, spec api.RequestSpec, payload []byte) {
	notify.WriteMessage(notify.Message{
		Type:    notify.WarningType,
		Content: "The following request will be sent:",
		Writer:  writer,
	})

	var preview strings.Builder

	fmt.Fprintf(&preview, "  Method: %s\n", spec.Method)
	fmt.Fprintf(&preview, "  URL:    %s", spec.URL)

	if len(payload) > 0 {
		fmt.Fprintf(&preview, "\n  Payload: %s", strings.TrimSpace(string(payload)))
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.InfoType,
		Content: preview.String(),
		Writer:  writer,
	})

	notify.WriteMessage(notify.Message{
		Type:    notify.WarningType,
		Content: `Type "yes" to confirm: `,
		Writer:  writer,
	})
}

// PromptForConfirmation reads one line from reader.
// Returns true only if the user types exactly "yes" (case-insensitive).
func PromptForConfirmation(reader io.Reader) bool {
	input, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}

	return strings.EqualFold(strings.TrimSpace(input), "yes")
}
