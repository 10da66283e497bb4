package routing

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gatehouse/gatehouse/pkg/params"
)

// Resolved is the outcome of route matching: the handler address plus every
// parameter carried by the URL. Page is always >= 1.
type Resolved struct {
	Module  string
	Action  string
	Vars    *params.Store
	Order   *int
	Page    int
	PageSet bool // the URL carried an explicit page-N segment
	Ajax    bool
	Raw     bool
	SendLog bool
}

// newResolved returns a Resolved with the documented defaults: page 1,
// log echo-back enabled.
func newResolved(req *Request) *Resolved {
	res := &Resolved{
		Vars:    params.New(),
		Page:    1,
		SendLog: true,
		Ajax:    req.Ajax,
		Raw:     req.Raw,
	}
	for _, name := range req.Query.Names() {
		if v, ok := req.Query.Get(name); ok {
			res.Vars.Set(name, v)
		}
	}
	return res
}

// URL reconstructs the canonical relative URL for this request state:
// /<module>/<action>/<positional...>[/order-N][/page-N]?<named>.
// Parsing the result yields an equal state for any state produced by the
// matcher.
func (r *Resolved) URL() string {
	var b strings.Builder
	b.WriteString("/")

	if r.Module != "" {
		b.WriteString(r.Module)
		if r.Action != "" {
			b.WriteString("/")
			b.WriteString(r.Action)
		}
		for _, v := range r.Vars.Positional() {
			b.WriteString("/")
			b.WriteString(v)
		}
		if r.Order != nil && *r.Order != 0 {
			fmt.Fprintf(&b, "/order-%d", *r.Order)
		}
		if r.Page > 1 {
			fmt.Fprintf(&b, "/page-%d", r.Page)
		}
	}

	if names := r.Vars.Names(); len(names) > 0 {
		sep := "?"
		for _, name := range names {
			v, ok := r.Vars.Get(name)
			if !ok {
				continue
			}
			b.WriteString(sep)
			b.WriteString(url.QueryEscape(name))
			b.WriteString("=")
			b.WriteString(url.QueryEscape(v))
			sep = "&"
		}
	}
	return b.String()
}

// Equal compares the round-trippable request state: module, action,
// parameters, order and page. Presentation flags are excluded.
func (r *Resolved) Equal(other *Resolved) bool {
	if r.Module != other.Module || r.Action != other.Action || r.Page != other.Page {
		return false
	}
	if (r.Order == nil) != (other.Order == nil) {
		return false
	}
	if r.Order != nil && *r.Order != *other.Order {
		return false
	}
	return r.Vars.Equal(other.Vars)
}
