package jail

import (
	"context"
	"fmt"
	"sync"

	"github.com/stealthrocket/wasi-go"
)

// hookedEntryPoints lists the WASI entry points the jail authorizes.
// Each one is an independent way for a guest to reach a file by path,
// so each must be hooked on its own: wasi-libc does not funnel stat or
// readlink through path_open.
var hookedEntryPoints = []string{
	"path_open",
	"path_filestat_get",
	"path_readlink",
}

// HookedEntryPoints returns the names of the intercepted entry points.
func HookedEntryPoints() []string {
	return append([]string(nil), hookedEntryPoints...)
}

// System is the interception shim: a wasi.System wrapper that applies
// the jail's authorization to every hooked path entry point. All other
// entry points forward to the wrapped system untouched.
//
// The wrapped system is the genuine implementation, captured once at
// construction; hooks forward through the embedded interface and can
// never recurse back into the shim.
type System struct {
	wasi.System

	config func() (*Config, error)

	// dirs maps open directory fds to the absolute path they refer to,
	// so relative path arguments can be resolved the way the wrapped
	// system would resolve them. Preopens enter the table when the
	// guest discovers them through fd_prestat_dir_name.
	mu   sync.Mutex
	dirs map[wasi.FD]string
}

var _ wasi.System = (*System)(nil)

// Wrap installs the jail around system using an explicit configuration.
func Wrap(system wasi.System, config *Config) *System {
	if system == nil {
		panic("jail: cannot wrap a nil system")
	}
	return &System{
		System: system,
		config: func() (*Config, error) { return config, nil },
		dirs:   make(map[wasi.FD]string),
	}
}

// Default installs the jail around system with the configuration read
// from the process environment on the first intercepted call. A fatal
// configuration error (hide mode with an unusable whitelist) panics:
// the jail must abort rather than run unprotected.
func Default(system wasi.System) *System {
	if system == nil {
		panic("jail: cannot wrap a nil system")
	}
	return &System{
		System: system,
		config: Bootstrap,
		dirs:   make(map[wasi.FD]string),
	}
}

func (s *System) mustConfig() *Config {
	config, err := s.config()
	if err != nil {
		panic(fmt.Sprintf("jail: %v", err))
	}
	return config
}

// decide resolves one path argument against the directory of fd and
// authorizes it. The returned string is the resolved absolute path.
func (s *System) decide(config *Config, fd wasi.FD, path string) (string, Decision) {
	resolved := resolvePath(s.dirPath(fd), path)
	return resolved, Decide(config.Hide, config.Whitelist, resolved)
}

func (s *System) dirPath(fd wasi.FD) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirs[fd]
}

func (s *System) setDirPath(fd wasi.FD, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirs[fd] = path
}

// PathOpen authorizes opening a file for read or write by path. Denied
// paths report ENOENT and the wrapped system is never invoked, so a
// denied open cannot create the file nor touch its metadata. Allowed
// calls forward every argument verbatim and propagate the result
// unchanged.
func (s *System) PathOpen(ctx context.Context, fd wasi.FD, dirFlags wasi.LookupFlags, path string, openFlags wasi.OpenFlags, rightsBase, rightsInheriting wasi.Rights, fdFlags wasi.FDFlags) (wasi.FD, wasi.Errno) {
	config := s.mustConfig()
	resolved := resolvePath(s.dirPath(fd), path)
	if config.Hide {
		if Decide(config.Hide, config.Whitelist, resolved) == Deny {
			return -1, wasi.ENOENT
		}
	}
	newfd, errno := s.System.PathOpen(ctx, fd, dirFlags, path, openFlags, rightsBase, rightsInheriting, fdFlags)
	if errno == wasi.ESUCCESS && (openFlags&wasi.OpenDirectory) != 0 {
		s.setDirPath(newfd, resolved)
	}
	return newfd, errno
}

// PathFileStatGet authorizes an existence probe. A denied path reports
// ENOENT whether or not it exists, so hidden files cannot be detected
// through stat.
func (s *System) PathFileStatGet(ctx context.Context, fd wasi.FD, lookupFlags wasi.LookupFlags, path string) (wasi.FileStat, wasi.Errno) {
	config := s.mustConfig()
	if config.Hide {
		if _, decision := s.decide(config, fd, path); decision == Deny {
			return wasi.FileStat{}, wasi.ENOENT
		}
	}
	return s.System.PathFileStatGet(ctx, fd, lookupFlags, path)
}

// PathReadLink authorizes reading a symlink target by path.
func (s *System) PathReadLink(ctx context.Context, fd wasi.FD, path string, buffer []byte) (int, wasi.Errno) {
	config := s.mustConfig()
	if config.Hide {
		if _, decision := s.decide(config, fd, path); decision == Deny {
			return 0, wasi.ENOENT
		}
	}
	return s.System.PathReadLink(ctx, fd, path, buffer)
}

// FDPreStatDirName forwards unchanged and records the preopen's
// directory path. wasi-libc scans every preopen this way before it
// issues its first path operation, which is what lets relative paths
// resolve against the right directory later.
func (s *System) FDPreStatDirName(ctx context.Context, fd wasi.FD) (string, wasi.Errno) {
	name, errno := s.System.FDPreStatDirName(ctx, fd)
	if errno == wasi.ESUCCESS {
		s.setDirPath(fd, name)
	}
	return name, errno
}

// FDClose forwards unchanged and drops the fd's directory mapping.
func (s *System) FDClose(ctx context.Context, fd wasi.FD) wasi.Errno {
	errno := s.System.FDClose(ctx, fd)
	if errno == wasi.ESUCCESS {
		s.mu.Lock()
		delete(s.dirs, fd)
		s.mu.Unlock()
	}
	return errno
}

// FDRenumber forwards unchanged and moves the directory mapping along
// with the fd.
func (s *System) FDRenumber(ctx context.Context, from, to wasi.FD) wasi.Errno {
	errno := s.System.FDRenumber(ctx, from, to)
	if errno == wasi.ESUCCESS {
		s.mu.Lock()
		if path, ok := s.dirs[from]; ok {
			s.dirs[to] = path
			delete(s.dirs, from)
		} else {
			delete(s.dirs, to)
		}
		s.mu.Unlock()
	}
	return errno
}
