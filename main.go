package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
)

type flags struct {
	hide       bool
	whitelist  string
	configPath string
	dryRun     bool
	native     bool
	trace      bool
	allowPaths []string
	presets    []string
	dirs       []string
	envs       []string
}

func parseFlags() (*flags, []string) {
	f := &flags{}

	flag.BoolVar(
		&f.hide,
		"hide",
		false,
		"Report non-whitelisted paths as nonexistent (otherwise the jail is inert)",
	)

	flag.StringVar(
		&f.whitelist,
		"whitelist",
		"",
		"Absolute path to a whitelist file, one absolute path per line",
	)

	flag.StringVar(
		&f.configPath,
		"config",
		"",
		"Path to the preset configuration file",
	)

	flag.BoolVar(
		&f.dryRun,
		"dry-run",
		false,
		"Show the jail profile that would be applied without running anything",
	)

	flag.BoolVar(
		&f.native,
		"native",
		false,
		"Run a native command under a kernel allowlist instead of a WASI module (enforcement only, no hiding)",
	)

	flag.BoolVar(
		&f.trace,
		"trace",
		false,
		"Log guest system calls to stderr",
	)

	// Custom flag parsing to handle repeatable flags
	var allowFlags, presetFlags, dirFlags, envFlags arrayFlags
	flag.Var(
		&allowFlags,
		"allow",
		"Whitelist a path (can be used multiple times)",
	)
	flag.Var(
		&presetFlags,
		"preset",
		"Apply a named whitelist preset (can be used multiple times)",
	)
	flag.Var(
		&dirFlags,
		"dir",
		"Expose a directory to the guest module (can be used multiple times, default /)",
	)
	flag.Var(
		&envFlags,
		"env",
		"Pass an environment variable to the guest module (can be used multiple times)",
	)

	flag.Parse()

	f.allowPaths = []string(allowFlags)
	f.presets = []string(presetFlags)
	f.dirs = []string(dirFlags)
	f.envs = []string(envFlags)

	return f, flag.Args()
}

// arrayFlags is a custom flag type that accumulates values
type arrayFlags []string

func (a *arrayFlags) String() string {
	return strings.Join(*a, ", ")
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

func main() {
	flags, args := parseFlags()

	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: hdist-jail [flags] <module.wasm> [args...]\n")
		fmt.Fprintf(
			os.Stderr,
			"       hdist-jail -native [flags] <command> [args...]\n",
		)
		flag.PrintDefaults()
		os.Exit(1)
	}

	config, err := loadConfig(flags.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hdist-jail: %v\n", err)
		os.Exit(1)
	}

	profile, err := buildProfile(flags, config, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hdist-jail: %v\n", err)
		os.Exit(1)
	}

	if flags.dryRun {
		printDryRunAndExit(profile)
	}

	if flags.native {
		err = runNative(profile)
	} else {
		err = runJail(profile)
	}
	if err != nil {
		var exit ExitError
		if errors.As(err, &exit) {
			os.Exit(int(exit))
		}
		fmt.Fprintf(os.Stderr, "hdist-jail: %v\n", err)
		os.Exit(1)
	}
}
