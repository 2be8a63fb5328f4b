package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devantler-tech/apidelta/pkg/client/api"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type user struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func ptr[T any](value T) *T {
	return &value
}

// writeEnvelope answers with the given envelope as JSON. It runs on the
// server goroutine, so it reports through assert rather than require.
func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, envelope any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	assert.NoError(t, json.NewEncoder(w).Encode(envelope))
}

// newServer starts a test server and a client whose idle connections are
// released when the test ends.
func newServer(t *testing.T, handler http.HandlerFunc, opts ...api.Option) (*httptest.Server, *api.Client) {
	t.Helper()

	server := httptest.NewServer(handler)
	client := api.NewClient(append([]api.Option{api.WithBaseURL(server.URL)}, opts...)...)

	t.Cleanup(func() {
		client.CloseIdleConnections()
		server.Close()
	})

	return server, client
}

func readBody(t *testing.T, r *http.Request) string {
	t.Helper()

	body, err := io.ReadAll(r.Body)
	assert.NoError(t, err)

	return string(body)
}
