//go:build darwin

package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// runNativeJail implements native mode for macOS using sandbox-exec.
func runNativeJail(profile *Profile) error {
	path, err := exec.LookPath(profile.Command)
	if err != nil {
		return fmt.Errorf("command not found: %w", err)
	}

	if !profile.Hide {
		args := append([]string{profile.Command}, profile.Args...)
		return syscall.Exec(path, args, append(os.Environ(), profile.Env...))
	}

	sandboxProfile := generateSandboxProfile(profile.AllowedPaths)

	sandboxPath, err := exec.LookPath("sandbox-exec")
	if err != nil {
		return fmt.Errorf("sandbox-exec not found: %w", err)
	}

	args := []string{"sandbox-exec", "-p", sandboxProfile, profile.Command}
	args = append(args, profile.Args...)

	return syscall.Exec(sandboxPath, args, append(os.Environ(), profile.Env...))
}

// generateSandboxProfile creates a sandbox-exec profile restricting
// reads to the system directories and the whitelisted paths.
func generateSandboxProfile(allowedPaths []string) string {
	var profile bytes.Buffer

	profile.WriteString("(version 1)\n")
	profile.WriteString("(allow default)\n")
	profile.WriteString("(deny file-read*)\n")

	profile.WriteString("(allow file-read*\n")
	for _, dir := range []string{"/usr", "/bin", "/sbin", "/System", "/Library", "/private", "/dev", "/opt", "/etc", "/var"} {
		fmt.Fprintf(&profile, "    (subpath \"%s\")\n", dir)
	}
	for _, path := range allowedPaths {
		fmt.Fprintf(&profile, "    (literal \"%s\")\n", escapeSandboxPath(path))
	}
	profile.WriteString(")\n")

	return profile.String()
}

func escapeSandboxPath(path string) string {
	return strings.ReplaceAll(path, `"`, `\"`)
}
