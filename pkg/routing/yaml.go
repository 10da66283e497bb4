package routing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gatehouse/gatehouse/pkg/cache"
)

// ErrBadModuleName is returned when a module segment cannot name a route
// declaration file.
var ErrBadModuleName = errors.New("routing: invalid module name")

// moduleNamePattern restricts module names used to locate declaration files.
// Anything else would allow path traversal through the URL.
var moduleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// LoadTable reads an ordered route table from a YAML declaration:
//
//	- path: /blog/:slug
//	  action: show
//	  module: blog
//	- path: /feed
//	  action: rss
//	  module: blog
//	  raw: true
func LoadTable(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("routing: read routes: %w", err)
	}
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("routing: parse routes: %w", err)
	}
	return t, nil
}

// LoadTableFile reads a route table from a YAML file. A missing file yields
// an empty table: declaring no custom routes is not an error.
func LoadTableFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("routing: open routes: %w", err)
	}
	defer f.Close()
	return LoadTable(f)
}

// FileModuleRoutes returns a ModuleRoutes loader reading
// "<dir>/<module>.yaml" per request. Module names are validated before
// touching the filesystem.
func FileModuleRoutes(dir string) ModuleRoutes {
	return func(module string) (Table, error) {
		if !moduleNamePattern.MatchString(module) {
			return nil, fmt.Errorf("%w: %q", ErrBadModuleName, module)
		}
		return LoadTableFile(filepath.Join(dir, module+".yaml"))
	}
}

// StaticModuleRoutes returns a ModuleRoutes loader over a fixed, statically
// declared map of module tables.
func StaticModuleRoutes(tables map[string]Table) ModuleRoutes {
	return func(module string) (Table, error) {
		return tables[module], nil
	}
}

// CachedModuleRoutes wraps a ModuleRoutes loader with a TTL cache, so
// file-backed tables are not re-read on every request. Declaration
// changes become visible once the entry expires.
func CachedModuleRoutes(inner ModuleRoutes, ttl time.Duration) ModuleRoutes {
	c := cache.NewMemory[Table](ttl)
	return func(module string) (Table, error) {
		return cache.GetOrLoad(context.Background(), c, module,
			func(context.Context) (Table, time.Duration, error) {
				t, err := inner(module)
				return t, 0, err
			})
	}
}
