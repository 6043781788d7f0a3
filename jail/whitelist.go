package jail

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Whitelist is the set of absolute paths the jail permits while hide
// mode is active. Membership is exact string equality against the
// resolved path: no prefix matching, no globs, no symlink resolution.
type Whitelist map[string]struct{}

// LoadWhitelist reads a whitelist file: UTF-8 text, one absolute path
// per line, a trailing blank line is ignored. Any other non-absolute
// line is a parse error.
func LoadWhitelist(path string) (Whitelist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("jail: open whitelist: %w", err)
	}
	defer f.Close()

	whitelist := Whitelist{}
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		entry := strings.TrimRight(scanner.Text(), "\r")
		if entry == "" {
			continue
		}
		if !filepath.IsAbs(entry) {
			return nil, fmt.Errorf("jail: %s:%d: whitelist entry %q is not an absolute path", path, line, entry)
		}
		whitelist[entry] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("jail: read whitelist: %w", err)
	}
	return whitelist, nil
}

// Contains reports whether abs is exactly present in the whitelist.
func (w Whitelist) Contains(abs string) bool {
	_, ok := w[abs]
	return ok
}

// Paths returns the whitelist entries in unspecified order.
func (w Whitelist) Paths() []string {
	paths := make([]string, 0, len(w))
	for p := range w {
		paths = append(paths, p)
	}
	return paths
}
