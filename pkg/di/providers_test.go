package di_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/devantler-tech/apidelta/pkg/cli/flags"
	"github.com/devantler-tech/apidelta/pkg/client/api"
	"github.com/devantler-tech/apidelta/pkg/di"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand(t *testing.T, configYAML string) *cobra.Command {
	t.Helper()

	path := filepath.Join(t.TempDir(), "apidelta.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o600))

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String(flags.ConfigFlagName, path, "")
	cmd.Flags().String(flags.BaseURLFlagName, "", "")
	cmd.SetErr(&bytes.Buffer{})

	return cmd
}

func TestNewRuntime(t *testing.T) {
	t.Parallel()

	rt := di.NewRuntime()

	require.NotNil(t, rt, "expected runtime to be created")
}

func TestNewRuntime_ProvidesServices(t *testing.T) {
	t.Parallel()

	cmd := newTestCommand(t, "baseURL: https://api.example.com\ntimeouts:\n  request: 3s\nlog:\n  enabled: true\n  level: debug\n")

	err := di.NewRuntime().Invoke(func(injector di.Injector) error {
		config, err := di.ResolveConfig(injector)
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com", config.BaseURL)
		assert.Equal(t, 3*time.Second, config.Timeouts.Request)

		log, err := di.ResolveLogger(injector)
		require.NoError(t, err)
		assert.Equal(t, "debug", log.GetLevel().String())

		client, err := di.ResolveAPIClient(injector)
		require.NoError(t, err)
		require.NotNil(t, client)
		client.CloseIdleConnections()

		engine, err := di.ResolveDiffEngine(injector)
		require.NoError(t, err)
		assert.Empty(t, engine.Exclude())

		return nil
	}, di.ProvideCommand(cmd, nil))

	require.NoError(t, err, "expected invoke to succeed")
}

func TestNewRuntime_FlagOverridesFile(t *testing.T) {
	t.Parallel()

	cmd := newTestCommand(t, "baseURL: https://file.example.com\n")
	require.NoError(t, cmd.Flags().Set(flags.BaseURLFlagName, "https://flag.example.com"))

	err := di.NewRuntime().Invoke(func(injector di.Injector) error {
		config, err := di.ResolveConfig(injector)
		require.NoError(t, err)
		assert.Equal(t, "https://flag.example.com", config.BaseURL)

		return nil
	}, di.ProvideCommand(cmd, nil))

	require.NoError(t, err)
}

func TestNewRuntime_InvalidConfig(t *testing.T) {
	t.Parallel()

	cmd := newTestCommand(t, "concurrency: -1\n")

	err := di.NewRuntime().Invoke(func(injector di.Injector) error {
		_, err := di.ResolveAPIClient(injector)

		return err
	}, di.ProvideCommand(cmd, nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestNewRuntime_RequiresCommand(t *testing.T) {
	t.Parallel()

	err := di.NewRuntime().Invoke(func(injector di.Injector) error {
		_, err := di.ResolveConfig(injector)

		return err
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve command dependency")
}

func TestNewRuntime_StatusMessages(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":404,"message":"no such user"}`)
	}))
	t.Cleanup(server.Close)

	tests := []struct {
		name   string
		config string
		want   string
	}{
		{name: "enabled", config: "statusMessages: true
", want: "Not Found"},
		{name: "disabled", config: "", want: "client error: status 404 Not Found, no such user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := newTestCommand(t, "baseURL: "+server.URL+"\n"+tt.config)

			err := di.NewRuntime().Invoke(func(injector di.Injector) error {
				client, err := di.ResolveAPIClient(injector)
				if err != nil {
					return err
				}

				result := api.Send[struct{}](
					context.Background(),
					client,
					api.RequestSpec{Method: api.MethodGet, URL: "/users/9"},
					nil,
				)

				failure, ok := api.AsError[struct{}](result)
				require.True(t, ok)
				assert.Equal(t, api.ClientError, failure.Kind)
				assert.Equal(t, tt.want, failure.Message)

				return nil
			}, di.ProvideCommand(cmd, nil))

			require.NoError(t, err)
		})
	}
}
