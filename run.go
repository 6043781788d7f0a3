package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/boegel/hdist-jail/jail"
	"github.com/stealthrocket/wasi-go"
	"github.com/stealthrocket/wasi-go/imports"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/sys"
)

// runJail executes a WASI module with the jail installed around its
// host system. The module itself is completely unmodified; every path
// entry point it can reach goes through the jail's interception shim.
func runJail(profile *Profile) error {
	ctx := context.Background()

	whitelistPath, cleanup, err := profile.ensureWhitelist()
	if err != nil {
		return err
	}
	defer cleanup()

	// Publish the jail's external interface in the launcher's own
	// environment, then read the configuration back through it. The
	// jail core only ever sees the documented environment contract.
	if profile.Hide {
		if err := os.Setenv(jail.EnvHide, "1"); err != nil {
			return err
		}
	}
	if whitelistPath != "" {
		if err := os.Setenv(jail.EnvWhitelist, whitelistPath); err != nil {
			return err
		}
	}
	config, err := jail.FromEnv()
	if err != nil {
		return err
	}

	wasmPath := profile.Command
	wasmName := filepath.Base(wasmPath)
	wasmCode, err := os.ReadFile(wasmPath)
	if err != nil {
		return fmt.Errorf("could not read wasm file '%s': %w", wasmPath, err)
	}

	runtime := wazero.NewRuntime(ctx)
	defer runtime.Close(ctx)

	wasmModule, err := runtime.CompileModule(ctx, wasmCode)
	if err != nil {
		return err
	}
	defer wasmModule.Close(ctx)

	stdin := int(os.Stdin.Fd())
	stdout := int(os.Stdout.Fd())
	stderr := int(os.Stderr.Fd())

	dirs := profile.Dirs
	if len(dirs) == 0 {
		dirs = []string{"/"}
	}

	builder := imports.NewBuilder().
		WithName(wasmName).
		WithArgs(profile.Args...).
		WithEnv(append(os.Environ(), profile.Env...)...).
		WithDirs(dirs...).
		WithStdio(stdin, stdout, stderr)

	// The jail wraps the genuine system first; the trace wrapper goes
	// outside it so traces show what the guest observes, including
	// synthesized denials.
	wrappers := []func(wasi.System) wasi.System{
		func(system wasi.System) wasi.System {
			return jail.Wrap(system, config)
		},
	}
	if profile.Trace {
		wrappers = append(wrappers, func(system wasi.System) wasi.System {
			return wasi.Trace(os.Stderr, system)
		})
	}

	ctx, system, err := builder.WithWrappers(wrappers...).Instantiate(ctx, runtime)
	if err != nil {
		return err
	}
	defer system.Close(ctx)

	return runModule(ctx, runtime, wasmModule)
}

func runModule(ctx context.Context, runtime wazero.Runtime, compiledModule wazero.CompiledModule) error {
	module, err := runtime.InstantiateModule(ctx, compiledModule, wazero.NewModuleConfig().
		WithStartFunctions())
	if err != nil {
		return err
	}
	defer module.Close(ctx)

	_, err = module.ExportedFunction("_start").Call(ctx)
	switch e := err.(type) {
	case *sys.ExitError:
		switch exitCode := e.ExitCode(); exitCode {
		case 0:
			return nil
		default:
			return ExitError(exitCode)
		}
	}
	return err
}

// ExitError indicates the jailed command exited with a non-zero exit
// code.
type ExitError uint32

func (e ExitError) Error() string {
	return fmt.Sprintf("command exited with code %d", uint32(e))
}
