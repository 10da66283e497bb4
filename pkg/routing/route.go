package routing

import (
	"fmt"
	"regexp"
	"strings"
)

// Route declares a mapping from a URL pattern to a module/action pair.
//
// The path always begins with "/" (an empty path normalizes to "/") and may
// contain ":name" placeholders matching a single segment, or ":name(expr)"
// placeholders matching a custom regular expression. Module-local routes are
// automatically prefixed with "/<module>" when loaded.
type Route struct {
	Path   string `yaml:"path"`
	Action string `yaml:"action"`
	Module string `yaml:"module,omitempty"`
	Raw    bool   `yaml:"raw,omitempty"`
}

// Table is an ordered list of routes. Declaration order is authoritative:
// the first route whose pattern matches wins, with no specificity scoring.
type Table []Route

// NormalizePath forces a leading slash and maps the empty path to "/".
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// placeholderPattern recognizes ":name" and ":name(expr)" path segments.
var placeholderPattern = regexp.MustCompile(`^:([A-Za-z_][A-Za-z0-9_]*)(?:\((.+)\))?$`)

// compiledRoute is a route with its anchored pattern and per-segment
// placeholder names ("" for literal segments).
type compiledRoute struct {
	route Route
	re    *regexp.Regexp
	names []string
}

// compileRoute translates the route DSL into an anchored regular expression:
// ":name(expr)" becomes "(expr)", bare ":name" becomes "([^/]+)", literal
// segments are quoted, and the whole pattern is wrapped in "^...$".
func compileRoute(rt Route) (*compiledRoute, error) {
	path := NormalizePath(rt.Path)

	var (
		pattern strings.Builder
		names   []string
	)
	pattern.WriteString("^")

	if path != "/" {
		for _, seg := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
			pattern.WriteString("/")
			if m := placeholderPattern.FindStringSubmatch(seg); m != nil {
				expr := m[2]
				if expr == "" {
					expr = "[^/]+"
				}
				pattern.WriteString("(" + expr + ")")
				names = append(names, m[1])
				continue
			}
			pattern.WriteString(regexp.QuoteMeta(seg))
			names = append(names, "")
		}
	} else {
		pattern.WriteString("/")
	}
	pattern.WriteString("$")

	re, err := regexp.Compile(pattern.String())
	if err != nil {
		return nil, fmt.Errorf("routing: compile route %q: %w", rt.Path, err)
	}
	return &compiledRoute{route: rt, re: re, names: names}, nil
}

// compileTable compiles every route in declaration order. When module is
// non-empty, route paths are prefixed with "/<module>" unless already so
// prefixed.
func compileTable(t Table, module string) ([]*compiledRoute, error) {
	compiled := make([]*compiledRoute, 0, len(t))
	for _, rt := range t {
		if module != "" {
			rt.Path = prefixModule(rt.Path, module)
		}
		cr, err := compileRoute(rt)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, cr)
	}
	return compiled, nil
}

func prefixModule(path, module string) string {
	path = NormalizePath(path)
	prefix := "/" + module
	if path == prefix || strings.HasPrefix(path, prefix+"/") {
		return path
	}
	if path == "/" {
		return prefix
	}
	return prefix + path
}
