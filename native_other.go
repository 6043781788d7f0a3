//go:build !linux && !darwin

package main

import (
	"fmt"
	"runtime"
)

// runNativeJail is not implemented for platforms other than Linux and
// macOS; the WASI mode works everywhere.
func runNativeJail(profile *Profile) error {
	return fmt.Errorf("native mode is not supported on %s", runtime.GOOS)
}
