package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/boegel/hdist-jail/jail"
)

// printDryRunAndExit displays the jail profile that would be applied
// and exits without running anything.
func printDryRunAndExit(profile *Profile) {
	if err := showDryRun(profile); err != nil {
		fmt.Fprintf(os.Stderr, "hdist-jail: error showing dry-run: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

func showDryRun(profile *Profile) error {
	fmt.Println("Jail Profile (dry-run):")
	fmt.Println("========================================")

	if profile.Hide {
		fmt.Println("Mode: hide (non-whitelisted paths appear nonexistent)")
	} else {
		fmt.Println("Mode: inert (every call forwarded unchanged)")
	}
	fmt.Println()

	if profile.WhitelistFile != "" {
		fmt.Printf("Whitelist file: %s\n", profile.WhitelistFile)
	} else if len(profile.AllowedPaths) > 0 {
		fmt.Println("Whitelist file: generated at launch")
	} else {
		fmt.Println("Whitelist: empty (everything denied while hiding)")
	}
	for _, path := range profile.AllowedPaths {
		fmt.Printf("  * %s\n", path)
	}
	fmt.Println()

	if profile.Native {
		fmt.Println("Technology: kernel allowlist (enforcement only, denied paths report a permission error)")
	} else {
		fmt.Println("Technology: WASI host call interception")
		fmt.Println("Hooked entry points:")
		for _, name := range jail.HookedEntryPoints() {
			fmt.Printf("  * %s\n", name)
		}
	}
	fmt.Println()

	fmt.Printf("Command: %s", profile.Command)
	if len(profile.Args) > 0 {
		fmt.Printf(" %s", strings.Join(profile.Args, " "))
	}
	fmt.Println()

	return nil
}
