package routing

import (
	"strconv"
	"strings"

	"github.com/gatehouse/gatehouse/pkg/params"
)

// ModuleRoutes loads the module-local route table for the given module.
// It is invoked once per request, after the module segment is known; there
// is no cross-request caching, so declaration changes apply on the next
// request. A nil table means the module declares no custom routes.
type ModuleRoutes func(module string) (Table, error)

// Matcher resolves parsed requests against the application-global route
// table first, then the module-local table, then the positional fallback.
type Matcher struct {
	app     []*compiledRoute
	modules ModuleRoutes
}

// NewMatcher compiles the application-global table. modules may be nil.
func NewMatcher(app Table, modules ModuleRoutes) (*Matcher, error) {
	compiled, err := compileTable(app, "")
	if err != nil {
		return nil, err
	}
	return &Matcher{app: compiled, modules: modules}, nil
}

// Resolve maps a parsed request to its module/action/parameters. Custom
// routes always take precedence over the standard fallback; among custom
// routes the first declared match wins.
func (m *Matcher) Resolve(req *Request) (*Resolved, error) {
	res := newResolved(req)
	url := "/" + strings.Join(req.Segments, "/")

	if cr := firstMatch(m.app, url); cr != nil {
		applyRoute(cr, req.Segments, res)
		return res, nil
	}

	if len(req.Segments) > 0 && m.modules != nil {
		module := req.Segments[0]
		table, err := m.modules(module)
		if err != nil {
			return nil, err
		}
		compiled, err := compileTable(table, module)
		if err != nil {
			return nil, err
		}
		if cr := firstMatch(compiled, url); cr != nil {
			res.Module = module
			applyRoute(cr, req.Segments, res)
			return res, nil
		}
	}

	// Standard fallback: segment 0 is the module, segment 1 the action,
	// the rest are reserved tokens or positional parameters.
	if len(req.Segments) > 0 {
		res.Module = req.Segments[0]
	}
	if len(req.Segments) > 1 {
		res.Action = req.Segments[1]
	}
	if len(req.Segments) > 2 {
		for _, seg := range req.Segments[2:] {
			if !applyReserved(seg, res) {
				res.Vars.Append(seg)
			}
		}
	}
	return res, nil
}

// Canonical resolves a module/action pair through the custom route tables,
// returning the canonical pair a URL of the form /<module>/<action> would
// dispatch to. Used by authorization so that rules are evaluated against
// the handler that actually runs, not the raw path.
func (m *Matcher) Canonical(module, action string) (string, string) {
	segments := []string{module}
	if action != "" {
		segments = append(segments, action)
	}
	res, err := m.Resolve(&Request{Segments: segments, Query: params.New()})
	if err != nil {
		return module, action
	}
	return res.Module, res.Action
}

func firstMatch(compiled []*compiledRoute, url string) *compiledRoute {
	for _, cr := range compiled {
		if cr.re.MatchString(url) {
			return cr
		}
	}
	return nil
}

// applyRoute copies the handler address from the route and extracts
// parameters: URL segments at placeholder positions become named variables,
// segments beyond the pattern become positional. Reserved tokens are
// special-cased irrespective of placeholder names.
func applyRoute(cr *compiledRoute, segments []string, res *Resolved) {
	res.Action = cr.route.Action
	if cr.route.Module != "" {
		res.Module = cr.route.Module
	} else if res.Module == "" && len(segments) > 0 {
		res.Module = segments[0]
	}
	if cr.route.Raw {
		res.Raw = true
	}

	for i, seg := range segments {
		name := ""
		if i < len(cr.names) {
			name = cr.names[i]
			if name == "" {
				// Literal route text, not a parameter.
				continue
			}
		}
		if applyReserved(seg, res) {
			continue
		}
		if name != "" {
			res.Vars.Set(name, seg)
		} else {
			res.Vars.Append(seg)
		}
	}
}

// applyReserved consumes the three reserved tokens: "noLog" disables log
// echo-back, "order-<N>" sets the order when N is non-zero, "page-<N>" sets
// the current page. Returns false when the segment is an ordinary parameter.
func applyReserved(seg string, res *Resolved) bool {
	if seg == "noLog" {
		res.SendLog = false
		return true
	}
	if rest, ok := strings.CutPrefix(seg, "order-"); ok {
		if n, err := strconv.Atoi(rest); err == nil {
			if n != 0 {
				res.Order = &n
			}
			return true
		}
	}
	if rest, ok := strings.CutPrefix(seg, "page-"); ok {
		if n, err := strconv.Atoi(rest); err == nil {
			if n < 1 {
				n = 1
			}
			res.Page = n
			res.PageSet = true
			return true
		}
	}
	return false
}
