package cmd_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/devantler-tech/apidelta/pkg/cli/cmd"
	"github.com/devantler-tech/apidelta/pkg/cli/flags"
	"github.com/devantler-tech/apidelta/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/apidelta/pkg/client/api"
	"github.com/devantler-tech/apidelta/pkg/io/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedRequest is what the fake service saw.
type recordedRequest struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   string
}

// fakeService answers every request with a fixed status and body and
// records what it received.
type fakeService struct {
	mu       sync.Mutex
	requests []recordedRequest
	server   *httptest.Server
}

func newFakeService(t *testing.T, handler func(r *http.Request) (int, string)) *fakeService {
	t.Helper()

	service := &fakeService{}
	service.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		service.mu.Lock()
		service.requests = append(service.requests, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.Query(),
			header: r.Header.Clone(),
			body:   string(body),
		})
		service.mu.Unlock()

		status, payload := handler(r)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(service.server.Close)

	return service
}

func respond(status int, payload string) func(*http.Request) (int, string) {
	return func(*http.Request) (int, string) {
		return status, payload
	}
}

func (s *fakeService) received(t *testing.T) []recordedRequest {
	t.Helper()

	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]recordedRequest(nil), s.requests...)
}

func (s *fakeService) baseURLArgs() []string {
	return []string{"--" + flags.BaseURLFlagName, s.server.URL}
}

func TestSendCmd_GetWithQuery(t *testing.T) {
	t.Parallel()

	service := newFakeService(t, respond(http.StatusOK, `{"code":0,"message":"ok","data":[{"id":1,"name":"Ann"}]}`))
	env := newTestEnv(t, "")
	filter := env.file(t, "filter.yaml", "name: Ann\nactive: true\n")

	args := append(service.baseURLArgs(), "send", "get", "/users", "-d", filter)
	result := env.run(t, "", args...)

	require.NoError(t, result.err)
	assert.Equal(t, "[{\"id\":1,\"name\":\"Ann\"}]\n", result.stdout)
	assert.Contains(t, result.stderr, "GET /users: ok")

	requests := service.received(t)
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodGet, requests[0].method)
	assert.Equal(t, "/users", requests[0].path)
	assert.Equal(t, "Ann", requests[0].query.Get("name"))
	assert.Equal(t, "true", requests[0].query.Get("active"))
	assert.Empty(t, requests[0].body)
}

func TestSendCmd_PostBodyAndHeaders(t *testing.T) {
	t.Parallel()

	service := newFakeService(t, respond(http.StatusOK, `{"code":0,"message":"created","data":{"id":7}}`))
	env := newTestEnv(t, "headers:\n  X-Tenant: acme\n")

	args := append(service.baseURLArgs(),
		"send", "POST", "/users",
		"-d", "-",
		"-H", "Authorization: Bearer abc",
		"-H", "X-Trace=on",
		"-o", "yaml",
	)
	result := env.run(t, `{"name":"Ann"}`, args...)

	require.NoError(t, result.err)
	assert.Equal(t, "id: 7\n", result.stdout)

	requests := service.received(t)
	require.Len(t, requests, 1)
	assert.JSONEq(t, `{"name":"Ann"}`, requests[0].body)
	assert.Equal(t, "Bearer abc", requests[0].header.Get("Authorization"))
	assert.Equal(t, "on", requests[0].header.Get("X-Trace"))
	assert.Equal(t, "acme", requests[0].header.Get("X-Tenant"))
}

func TestSendCmd_NoData(t *testing.T) {
	t.Parallel()

	service := newFakeService(t, respond(http.StatusOK, `{"code":0,"message":"deleted"}`))
	env := newTestEnv(t, "")

	args := append(service.baseURLArgs(), "send", "DELETE", "/users/7")
	result := env.run(t, "", args...)

	require.NoError(t, result.err)
	assert.Empty(t, result.stdout)
	assert.Contains(t, result.stderr, "DELETE /users/7: deleted")
}

func TestSendCmd_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		payload  string
		wantErr  error
		wantCode int
	}{
		{
			name:     "business error",
			status:   http.StatusOK,
			payload:  `{"code":1001,"message":"name taken"}`,
			wantErr:  api.ErrBusinessError,
			wantCode: errorhandler.ExitBusinessError,
		},
		{
			name:     "client error",
			status:   http.StatusNotFound,
			payload:  `{"error":"missing"}`,
			wantErr:  api.ErrClientError,
			wantCode: errorhandler.ExitClientError,
		},
		{
			name:     "server error",
			status:   http.StatusBadGateway,
			payload:  "",
			wantErr:  api.ErrServerError,
			wantCode: errorhandler.ExitServerError,
		},
		{
			name:     "parse failure",
			status:   http.StatusOK,
			payload:  `{"message":"no code"}`,
			wantErr:  api.ErrParseFailure,
			wantCode: errorhandler.ExitParseFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			service := newFakeService(t, respond(tt.status, tt.payload))
			env := newTestEnv(t, "")

			args := append(service.baseURLArgs(), "send", "GET", "/users")
			result := env.run(t, "", args...)

			require.ErrorIs(t, result.err, tt.wantErr)
			assert.Contains(t, result.err.Error(), "GET /users")
			assert.Equal(t, tt.wantCode, errorhandler.ExitCode(result.err))
			assert.Empty(t, result.stdout)
		})
	}
}

func TestSendCmd_Envelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		payload  string
		want     string
		wantCode int
	}{
		{
			name:    "success keeps data",
			status:  http.StatusOK,
			payload: `{"code":0,"message":"created","data":{"id":7}}`,
			want:    "{\"code\":0,\"data\":{\"id\":7},\"message\":\"created\"}\n",
		},
		{
			name:    "success without data",
			status:  http.StatusOK,
			payload: `{"code":0,"message":"ok","data":null}`,
			want:    "{\"code\":0,\"message\":\"ok\"}\n",
		},
		{
			name:     "business error keeps code",
			status:   http.StatusOK,
			payload:  `{"code":1001,"message":"name taken"}`,
			want:     "{\"code\":1001,\"message\":\"name taken\"}\n",
			wantCode: errorhandler.ExitBusinessError,
		},
		{
			name:     "client error",
			status:   http.StatusNotFound,
			payload:  `{"code":404,"message":"missing"}`,
			want:     "{\"code\":-1,\"message\":\"client error: status 404 Not Found, missing\"}\n",
			wantCode: errorhandler.ExitClientError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			service := newFakeService(t, respond(tt.status, tt.payload))
			env := newTestEnv(t, "")

			args := append(service.baseURLArgs(), "send", "GET", "/users", "--envelope")
			result := env.run(t, "", args...)

			assert.Equal(t, tt.wantCode, errorhandler.ExitCode(result.err))
			assert.Equal(t, tt.want, result.stdout)
		})
	}
}

func TestSendCmd_StatusMessagesFlag(t *testing.T) {
	t.Parallel()

	service := newFakeService(t, respond(http.StatusServiceUnavailable, `{"code":503,"message":"maintenance"}`))
	env := newTestEnv(t, "")

	args := append(service.baseURLArgs(), "--status-messages", "send", "GET", "/users")
	result := env.run(t, "", args...)

	require.ErrorIs(t, result.err, api.ErrServerError)
	assert.Contains(t, result.err.Error(), "GET /users: Service Unavailable")
	assert.NotContains(t, result.err.Error(), "maintenance")
	assert.Equal(t, errorhandler.ExitServerError, errorhandler.ExitCode(result.err))
}

func TestSendCmd_InvalidInput(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "unknown method", args: []string{"send", "TRACE", "/x"}, wantErr: api.ErrUnsupportedMethod},
		{name: "header without name", args: []string{"send", "GET", "/x", "-H", "=value"}, wantErr: cmd.ErrInvalidHeader},
		{name: "header without separator", args: []string{"send", "GET", "/x", "-H", "Accept"}, wantErr: cmd.ErrInvalidHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := env.run(t, "", tt.args...)

			require.ErrorIs(t, result.err, tt.wantErr)
		})
	}
}

func TestSendCmd_RecordsHistory(t *testing.T) {
	t.Parallel()

	service := newFakeService(t, respond(http.StatusOK, `{"code":0,"message":"ok"}`))
	env := newTestEnv(t, "")

	for _, path := range []string{"/a", "/b", "/a"} {
		args := append(service.baseURLArgs(), "send", "GET", path)
		require.NoError(t, env.run(t, "", args...).err)
	}

	entries, err := history.NewStore(env.historyPath, 0).Load()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/a", entries[0].URL)
	assert.Equal(t, "/b", entries[1].URL)
	assert.Equal(t, "GET", entries[0].Method)
}

func TestSendCmd_RequestID(t *testing.T) {
	t.Parallel()

	service := newFakeService(t, respond(http.StatusOK, `{"code":0,"message":"ok"}`))
	env := newTestEnv(t, "requestID: true\n")

	args := append(service.baseURLArgs(), "send", "GET", "/x")
	require.NoError(t, env.run(t, "", args...).err)

	requests := service.received(t)
	require.Len(t, requests, 1)
	assert.NotEmpty(t, requests[0].header.Get("X-Request-Id"))
}

func TestSendCmd_DataMustBeObject(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")

	result := env.run(t, `[1,2]`, "send", "POST", "/x", "-d", "-")

	require.Error(t, result.err)

	assert.Equal(t, errorhandler.ExitFailure, errorhandler.ExitCode(result.err))
	assert.Contains(t, result.err.Error(), "value is not an object")
}

func TestSendCmd_JSONBodyRoundTrip(t *testing.T) {
	t.Parallel()

	service := newFakeService(t, func(r *http.Request) (int, string) {
		body, _ := io.ReadAll(r.Body)

		return http.StatusOK, `{"code":0,"message":"echo","data":` + string(body) + `}`
	})
	env := newTestEnv(t, "")
	payload := env.file(t, "user.json", `{"name":"Ann","tags":["a","b"]}`)

	args := append(service.baseURLArgs(), "send", "PUT", "/users/1", "-d", payload)
	result := env.run(t, "", args...)

	require.NoError(t, result.err)

	var echoed map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.stdout), &echoed))
	assert.Equal(t, "Ann", echoed["name"])
}

func TestSendCmd_RelativeURLWithoutBaseFailsFast(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "")

	start := time.Now()
	result := env.run(t, "", "--retry-budget", "30s", "send", "GET", "/users")

	require.ErrorIs(t, result.err, api.ErrInvalidURL)
	assert.Equal(t, errorhandler.ExitFailure, errorhandler.ExitCode(result.err))
	assert.Less(t, time.Since(start), 10*time.Second)
}
