package main

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
)

// Profile describes one jailed invocation: the command to run and the
// jail configuration the launcher arranges for it.
type Profile struct {
	// Hide enables hide mode. When false the jail runs inert and the
	// invocation behaves exactly as it would without the jail.
	Hide bool

	// WhitelistFile is a caller-provided whitelist file. When empty and
	// AllowedPaths is non-empty, the launcher writes a whitelist file
	// itself before starting the command.
	WhitelistFile string

	// AllowedPaths are the whitelist entries collected from flags and
	// presets, made absolute and deduplicated.
	AllowedPaths []string

	// Dirs are the directories exposed to the guest module.
	Dirs []string

	// Env are extra environment variables for the guest module.
	Env []string

	// Trace enables system call logging to stderr.
	Trace bool

	// Native selects the kernel-allowlist fallback instead of the WASI
	// interception shim.
	Native bool

	// Command is the WASI module path, or the native command with
	// -native.
	Command string

	// Args are the arguments to pass to the command.
	Args []string
}

// buildProfile assembles a Profile from flags, presets, and the command
// line. Auto-presets matching the command are applied first, then
// explicit presets, then -allow flags.
func buildProfile(flags *flags, config *Config, args []string) (*Profile, error) {
	profile := &Profile{
		Hide:          flags.hide,
		WhitelistFile: flags.whitelist,
		Dirs:          flags.dirs,
		Env:           flags.envs,
		Trace:         flags.trace,
		Native:        flags.native,
		Command:       args[0],
		Args:          args[1:],
	}

	if flags.whitelist != "" && !filepath.IsAbs(flags.whitelist) {
		return nil, fmt.Errorf("whitelist file must be an absolute path: %s", flags.whitelist)
	}

	presetNames := config.Defaults.Presets
	autoPresets, err := config.GetAutoPresets(profile.Command)
	if err != nil {
		return nil, err
	}
	presetNames = append(presetNames, autoPresets...)
	presetNames = append(presetNames, flags.presets...)

	var paths []string
	for _, name := range presetNames {
		preset, err := config.ResolvePreset(name, nil)
		if err != nil {
			return nil, err
		}
		processed, err := preset.ProcessPreset()
		if err != nil {
			return nil, err
		}
		paths = append(paths, processed.Paths...)
		profile.Hide = profile.Hide || processed.Hide
	}
	paths = append(paths, flags.allowPaths...)

	pathSet := make(map[string]struct{})
	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			absPath = path
		}
		pathSet[absPath] = struct{}{}
	}
	profile.AllowedPaths = slices.Sorted(maps.Keys(pathSet))

	return profile, nil
}

// ensureWhitelist returns the whitelist file the jail should read. If
// the caller did not provide one, the collected allow paths are written
// to a generated file, one absolute path per line with a trailing
// newline. The cleanup function removes the generated file.
func (p *Profile) ensureWhitelist() (string, func(), error) {
	if p.WhitelistFile != "" {
		return p.WhitelistFile, func() {}, nil
	}
	if len(p.AllowedPaths) == 0 {
		return "", func() {}, nil
	}

	f, err := os.CreateTemp("", "hdist-jail-whitelist-*.txt")
	if err != nil {
		return "", nil, fmt.Errorf("create whitelist file: %w", err)
	}
	for _, path := range p.AllowedPaths {
		if _, err := fmt.Fprintln(f, path); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", nil, fmt.Errorf("write whitelist file: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("write whitelist file: %w", err)
	}
	name := f.Name()
	return name, func() { os.Remove(name) }, nil
}
