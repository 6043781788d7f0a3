package main

// Native mode runs a regular executable under a kernel-level allowlist
// instead of the WASI interception shim. It is a best-effort fallback
// for commands that cannot be built for WASI: access outside the
// whitelist fails with a permission error rather than appearing
// nonexistent, so it enforces the jail but does not hide paths.
//
// This is implemented differently for each platform.
func runNative(profile *Profile) error {
	return runNativeJail(profile)
}
