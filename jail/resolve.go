package jail

import "path"

// resolvePath normalizes a raw path argument to the absolute form the
// whitelist is compared against. An already-absolute path is returned
// unchanged, matching how whitelists are authored as literal paths.
// A relative path is joined with the directory the call resolves
// against, the same directory the real implementation would use.
//
// Resolution is purely lexical: no symlink following and no existence
// checks, so resolving a path can never itself touch the filesystem.
func resolvePath(dir, raw string) string {
	if path.IsAbs(raw) {
		return raw
	}
	return path.Join(dir, raw)
}
