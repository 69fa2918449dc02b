// Package paths provides centralized path handling for forge.
// It locates the project configuration, derives the project root, and
// chooses the plugin cache root (project-local or the XDG shared cache).
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/solitary-project/forge/pkg/errors"
)

// Environment variable names
const (
	// EnvCacheDir overrides the plugin cache root
	EnvCacheDir = "FORGE_CACHE_DIR"

	// EnvConfig points at the project configuration file
	EnvConfig = "FORGE_CONFIG"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name used under XDG base directories
	AppDirName = "forge"

	// DefaultConfigFile is the configuration file name written by init
	DefaultConfigFile = ".forge.yml"

	// CacheDirName is the project-local cache directory
	CacheDirName = ".forge_cache"

	// PluginsDirName is the subdirectory of the cache holding plugin checkouts
	PluginsDirName = "plugins"
)

// ConfigFileNames are the configuration files looked for, in order.
var ConfigFileNames = []string{".forge.yml", ".forge.yaml", ".forge.toml"}

// Paths provides centralized path management for forge
type Paths interface {
	ProjectRoot() string
	ConfigPath() string
	ConfigFound() bool
	CacheRoot() string
	SharedCacheRoot() string
	NormalizePath(path string) (string, error)
	IsInProject(path string) (bool, error)
	ResolveOutput(rel string) (string, error)
}

// Options control how New resolves paths.
type Options struct {
	// ConfigPath is an explicit configuration file. When empty, FORGE_CONFIG
	// is consulted and then the working directory and its parents are searched.
	ConfigPath string

	// StartDir is where the search starts. Defaults to the working directory.
	StartDir string

	// CacheDir overrides the cache root. Relative values are taken from the
	// project root. FORGE_CACHE_DIR wins over it.
	CacheDir string

	// SharedCache places the cache under the XDG cache home so checkouts are
	// shared between projects.
	SharedCache bool
}

type paths struct {
	projectRoot string
	configPath  string
	configFound bool
	cacheRoot   string
}

// New resolves project and cache paths.
func New(opts Options) (Paths, error) {
	p := &paths{}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = os.Getenv(EnvConfig)
	}

	if configPath != "" {
		abs, err := filepath.Abs(expandHome(configPath))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for config %s", configPath)
		}
		p.configPath = abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			p.configFound = true
		}
	} else {
		start := opts.StartDir
		if start == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrInternal, "failed to get current directory")
			}
			start = cwd
		}
		start, err := filepath.Abs(start)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for %s", opts.StartDir)
		}
		found, ok := FindConfig(start)
		if ok {
			p.configPath = found
			p.configFound = true
		} else {
			p.configPath = filepath.Join(start, DefaultConfigFile)
		}
	}
	p.projectRoot = filepath.Dir(p.configPath)

	p.cacheRoot = p.resolveCacheRoot(opts)
	return p, nil
}

func (p *paths) resolveCacheRoot(opts Options) string {
	dir := os.Getenv(EnvCacheDir)
	if dir == "" {
		dir = opts.CacheDir
	}
	if dir != "" {
		dir = expandHome(dir)
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(p.projectRoot, dir)
		}
		return filepath.Clean(dir)
	}
	if opts.SharedCache {
		return p.SharedCacheRoot()
	}
	return filepath.Join(p.projectRoot, CacheDirName, PluginsDirName)
}

// FindConfig walks from dir up to the filesystem root and returns the first
// configuration file found.
func FindConfig(dir string) (string, bool) {
	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// ProjectRoot returns the directory holding the configuration file
func (p *paths) ProjectRoot() string { return p.projectRoot }

// ConfigPath returns the absolute configuration file path. It may not exist.
func (p *paths) ConfigPath() string { return p.configPath }

// ConfigFound reports whether the configuration file exists.
func (p *paths) ConfigFound() bool { return p.configFound }

// CacheRoot returns the plugin cache root
func (p *paths) CacheRoot() string { return p.cacheRoot }

// SharedCacheRoot returns the XDG cache location used for shared caches
func (p *paths) SharedCacheRoot() string {
	return filepath.Join(xdg.CacheHome, AppDirName, PluginsDirName)
}

// NormalizePath normalizes a path by expanding home, making it absolute
// against the project root, and cleaning it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	expanded := expandHome(path)
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(p.projectRoot, expanded)
	}
	return filepath.Clean(expanded), nil
}

// IsInProject checks if a path is within the project root
func (p *paths) IsInProject(path string) (bool, error) {
	normalized, err := p.NormalizePath(path)
	if err != nil {
		return false, err
	}
	return within(p.projectRoot, normalized), nil
}

// ResolveOutput maps a render output path to an absolute path inside the
// project root. Paths that leave the project are rejected.
func (p *paths) ResolveOutput(rel string) (string, error) {
	if rel == "" {
		return "", errors.New(errors.ErrOutputEscape, "empty output path")
	}
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "~") {
		return "", errors.Newf(errors.ErrOutputEscape, "output path %s must be relative to the project root", rel).
			WithDetail("output", rel)
	}
	target := filepath.Clean(filepath.Join(p.projectRoot, rel))
	if !within(p.projectRoot, target) || target == p.projectRoot {
		return "", errors.Newf(errors.ErrOutputEscape, "output path %s escapes the project root", rel).
			WithDetail("output", rel)
	}
	return target, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}

// ExpandHome expands a leading ~ in path
func ExpandHome(path string) string {
	return expandHome(path)
}
