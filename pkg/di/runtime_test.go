package di_test

import (
	"errors"
	"testing"

	"github.com/devantler-tech/apidelta/pkg/client/api"
	"github.com/devantler-tech/apidelta/pkg/di"
	"github.com/devantler-tech/apidelta/pkg/io/configmanager"
	"github.com/devantler-tech/apidelta/pkg/structural"
	"github.com/devantler-tech/apidelta/pkg/svc/diff"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errConfigUnavailable = errors.New("config unavailable")

// shutdownRecorder notes whether the injector released it.
type shutdownRecorder struct {
	closed bool
}

func (r *shutdownRecorder) Shutdown() {
	r.closed = true
}

func TestRuntime_Invoke_FreshServicesPerInvocation(t *testing.T) {
	t.Parallel()

	cmd := newTestCommand(t, "baseURL: https://api.example.com\n")
	runtime := di.NewRuntime()

	resolve := func() (*configmanager.Config, *diff.Engine) {
		var (
			config *configmanager.Config
			engine *diff.Engine
		)

		err := runtime.Invoke(func(injector di.Injector) error {
			var err error

			config, err = di.ResolveConfig(injector)
			if err != nil {
				return err
			}

			engine, err = di.ResolveDiffEngine(injector)

			return err
		}, di.ProvideCommand(cmd, nil))
		require.NoError(t, err)

		return config, engine
	}

	firstConfig, firstEngine := resolve()
	secondConfig, secondEngine := resolve()

	assert.NotSame(t, firstConfig, secondConfig)
	assert.NotSame(t, firstEngine, secondEngine)
	assert.Equal(t, firstConfig.BaseURL, secondConfig.BaseURL)
}

func TestRuntime_Invoke_ModuleErrorSkipsHandler(t *testing.T) {
	t.Parallel()

	runtime := di.New(func(di.Injector) error {
		return errConfigUnavailable
	})

	err := runtime.Invoke(func(di.Injector) error {
		t.Fatal("handler should not run when a module fails")

		return nil
	})

	require.ErrorIs(t, err, errConfigUnavailable)
}

func TestRuntime_Invoke_ModulesRunBeforeExtraModules(t *testing.T) {
	t.Parallel()

	var order []string

	runtime := di.New(
		func(injector di.Injector) error {
			order = append(order, "engine")
			do.ProvideValue(injector, diff.NewEngine(diff.WithExclude("id")))

			return nil
		},
		nil,
	)

	cmd := &cobra.Command{Use: "diff"}

	err := runtime.Invoke(func(injector di.Injector) error {
		order = append(order, "handler")

		engine, err := di.ResolveDiffEngine(injector)
		require.NoError(t, err)
		assert.True(t, engine.Exclude().Contains("id"))

		resolved, err := di.ResolveCommand(injector)
		require.NoError(t, err)
		assert.Same(t, cmd, resolved)

		return nil
	}, nil, func(injector di.Injector) error {
		order = append(order, "command")

		return di.ProvideCommand(cmd, nil)(injector)
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"engine", "command", "handler"}, order)
}

func TestRuntime_Invoke_ShutsDownServices(t *testing.T) {
	t.Parallel()

	recorder := &shutdownRecorder{}

	runtime := di.New(func(injector di.Injector) error {
		do.Provide(injector, func(di.Injector) (*shutdownRecorder, error) {
			return recorder, nil
		})

		return nil
	})

	err := runtime.Invoke(func(injector di.Injector) error {
		_, err := do.Invoke[*shutdownRecorder](injector)

		return err
	})

	require.NoError(t, err)
	assert.True(t, recorder.closed, "built services are shut down after the handler")
}

func TestRuntime_APIClientReleasedOnShutdown(t *testing.T) {
	t.Parallel()

	cmd := newTestCommand(t, "")

	var client *api.Client

	err := di.NewRuntime().Invoke(func(injector di.Injector) error {
		var err error

		client, err = di.ResolveAPIClient(injector)

		return err
	}, di.ProvideCommand(cmd, nil))

	require.NoError(t, err)
	assert.Implements(t, (*do.Shutdowner)(nil), client)
}

func TestRunEWithRuntime_DiffEngineSeesArgs(t *testing.T) {
	t.Parallel()

	cmd := newTestCommand(t, "")

	var delta structural.Object

	runE := di.RunEWithRuntime(di.NewRuntime(), di.WithDiffEngine(
		func(_ *cobra.Command, injector di.Injector, engine *diff.Engine) error {
			args, err := di.ResolveArgs(injector)
			if err != nil {
				return err
			}

			oldObj := structural.Object{"file": structural.String(args[0])}
			newObj := structural.Object{"file": structural.String(args[1])}
			delta = engine.ComputeDiff(oldObj, newObj)

			return nil
		},
	))

	require.NoError(t, runE(cmd, []string{"old.json", "new.json"}))
	assert.Equal(t, structural.Object{"file": structural.String("new.json")}, delta)
}

func TestRunEWithRuntime_HandlerErrorPassesThrough(t *testing.T) {
	t.Parallel()

	cmd := newTestCommand(t, "")

	runE := di.RunEWithRuntime(di.NewRuntime(), di.WithConfig(
		func(*cobra.Command, di.Injector, *configmanager.Config) error {
			return errConfigUnavailable
		},
	))

	require.ErrorIs(t, runE(cmd, nil), errConfigUnavailable)
}

func TestRunEWithRuntime_ConfigErrorSkipsHandler(t *testing.T) {
	t.Parallel()

	cmd := newTestCommand(t, "retry:\n  budget: -1s\n")

	runE := di.RunEWithRuntime(di.NewRuntime(), di.WithConfig(
		func(*cobra.Command, di.Injector, *configmanager.Config) error {
			t.Fatal("handler should not run with an invalid config")

			return nil
		},
	))

	err := runE(cmd, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry.budget")
}

func TestRunEWithRuntime_ProvidesCommandAndArgs(t *testing.T) {
	t.Parallel()

	var (
		resolvedCmd  *cobra.Command
		resolvedArgs []string
	)

	runE := di.RunEWithRuntime(di.New(), func(_ *cobra.Command, injector di.Injector) error {
		var err error

		resolvedCmd, err = di.ResolveCommand(injector)
		if err != nil {
			return err
		}

		resolvedArgs, err = di.ResolveArgs(injector)

		return err
	})

	cmd := &cobra.Command{Use: "test"}
	err := runE(cmd, []string{"old.json", "new.json"})

	require.NoError(t, err)
	assert.Same(t, cmd, resolvedCmd)
	assert.Equal(t, []string{"old.json", "new.json"}, resolvedArgs)
}
