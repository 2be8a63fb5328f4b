// Package di wires apidelta's services together with samber/do.
//
// A Runtime holds an ordered list of modules. Every invocation builds a
// fresh injector from those modules, runs one handler against it and shuts
// the injector down again, so commands never share service instances.
package di

import (
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Injector is the dependency container handed to modules and handlers.
type Injector = do.Injector

// Runtime builds injectors from a fixed set of modules.
type Runtime struct {
	modules []func(Injector) error
}

// New creates a Runtime from modules. Nil modules are skipped at invocation.
func New(modules ...func(Injector) error) *Runtime {
	return &Runtime{modules: modules}
}

// Invoke runs handler against a fresh injector populated by the runtime's
// modules followed by extraModules. The first module error aborts the
// invocation and is returned as is.
func (r *Runtime) Invoke(
	handler func(Injector) error,
	extraModules ...func(Injector) error,
) error {
	injector := do.New()

	defer func() {
		_ = injector.Shutdown()
	}()

	for _, module := range append(append([]func(Injector) error{}, r.modules...), extraModules...) {
		if module == nil {
			continue
		}

		err := module(injector)
		if err != nil {
			return err
		}
	}

	return handler(injector)
}

// RunEWithRuntime adapts an injector-aware handler to a cobra RunE. The
// invoking command and its arguments are registered with the injector, so
// providers can read flags and output streams from them.
func RunEWithRuntime(
	runtimeContainer *Runtime,
	handler func(cmd *cobra.Command, injector Injector) error,
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return runtimeContainer.Invoke(
			func(injector Injector) error {
				return handler(cmd, injector)
			},
			ProvideCommand(cmd, args),
		)
	}
}

// Args is the positional argument list of the invoking command.
type Args []string

// ProvideCommand registers cmd and its arguments with an injector.
func ProvideCommand(cmd *cobra.Command, args []string) func(Injector) error {
	return func(i Injector) error {
		do.ProvideValue(i, cmd)
		do.ProvideValue(i, Args(args))

		return nil
	}
}
