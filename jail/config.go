package jail

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Config is the process-wide jail configuration. It is immutable once
// constructed.
type Config struct {
	// Hide enables hide mode. When false the jail is inert and every
	// call is forwarded unchanged.
	Hide bool

	// WhitelistPath is the file the whitelist was loaded from, empty
	// when no whitelist file was configured.
	WhitelistPath string

	// Whitelist is the set of permitted absolute paths. Empty means
	// everything is denied while hide mode is active.
	Whitelist Whitelist
}

// FromEnv constructs a Config from the process environment. The
// whitelist file, when configured, is loaded eagerly so that a broken
// configuration surfaces here instead of on some later interception.
//
// Hide mode with an unreadable or malformed whitelist file is a fatal
// configuration error: the jail must not silently degrade to allowing
// everything.
func FromEnv() (*Config, error) {
	config := &Config{
		Hide:          os.Getenv(EnvHide) != "",
		WhitelistPath: os.Getenv(EnvWhitelist),
	}

	if config.WhitelistPath == "" {
		config.Whitelist = Whitelist{}
		return config, nil
	}
	if !filepath.IsAbs(config.WhitelistPath) {
		return nil, fmt.Errorf("jail: %s must be an absolute path, got %q", EnvWhitelist, config.WhitelistPath)
	}

	whitelist, err := LoadWhitelist(config.WhitelistPath)
	if err != nil {
		if !config.Hide {
			// Inert jails never consult the whitelist; a broken file
			// only matters once hide mode is requested.
			config.Whitelist = Whitelist{}
			return config, nil
		}
		return nil, err
	}
	config.Whitelist = whitelist
	return config, nil
}

var bootstrap = sync.OnceValues(FromEnv)

// Bootstrap returns the process-wide Config, reading the environment on
// the first call only. Concurrent first calls observe the same single
// initialization; the environment is never re-read afterwards.
func Bootstrap() (*Config, error) {
	return bootstrap()
}
