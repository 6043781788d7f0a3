//go:build linux

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/landlock-lsm/go-landlock/landlock"
	"golang.org/x/sys/unix"
)

// systemReadDirs stay readable in native mode so the command itself,
// its interpreter, and its shared libraries can be loaded.
var systemReadDirs = []string{
	"/usr", "/bin", "/sbin", "/lib", "/lib64", "/etc", "/opt", "/dev", "/proc", "/sys",
}

// runNativeJail restricts the current process with Landlock and then
// replaces it with the command, so the restrictions apply to the
// command and everything it spawns.
func runNativeJail(profile *Profile) error {
	path, err := exec.LookPath(profile.Command)
	if err != nil {
		return fmt.Errorf("command not found: %w", err)
	}

	if profile.Hide {
		var rules []landlock.Rule
		for _, dir := range systemReadDirs {
			if _, err := os.Stat(dir); err == nil {
				rules = append(rules, landlock.RODirs(dir))
			}
		}
		for _, allowed := range profile.AllowedPaths {
			rules = append(rules, landlock.RWFiles(allowed))
		}

		// BestEffort ensures graceful degradation on older kernels.
		if err := landlock.V5.BestEffort().RestrictPaths(rules...); err != nil {
			return fmt.Errorf("failed to apply Landlock restrictions: %w", err)
		}
	}

	args := append([]string{profile.Command}, profile.Args...)
	return unix.Exec(path, args, append(os.Environ(), profile.Env...))
}
