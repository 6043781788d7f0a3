// Package jail implements a file-access jail for unmodified WASI
// executables: a wasi.System wrapper that intercepts every path-opening
// host call, checks the target against a whitelist of absolute paths,
// and reports non-whitelisted paths as nonexistent.
//
// The jail is configured through the process environment and is inert
// unless HDIST_JAIL_HIDE is set to a non-empty value. In hide mode a
// denied path is indistinguishable from one that genuinely does not
// exist: the call returns ENOENT and the underlying system is never
// touched, so denial can have no side effect.
package jail

// Environment variables read by the jail. They are read once, on first
// use, and the resulting configuration is immutable for the lifetime of
// the process.
const (
	// EnvHide enables hide mode when set to any non-empty value.
	EnvHide = "HDIST_JAIL_HIDE"

	// EnvWhitelist names the whitelist file: UTF-8 text, one absolute
	// path per line. Unset means an empty whitelist.
	EnvWhitelist = "HDIST_JAIL_WHITELIST"
)
