package routing

import (
	"net/url"
	"strings"

	"github.com/gatehouse/gatehouse/pkg/params"
)

// Request is the output of the parser: the remaining path segments plus the
// query parameters and the ajax/raw presentation flags.
type Request struct {
	Segments []string
	Query    *params.Store
	Ajax     bool
	Raw      bool
}

// Parser splits a raw request target into path segments and named query
// parameters, stripping a configured base path prefix and the optional
// leading "ajax"/"raw" segments.
type Parser struct {
	basePath string
}

// NewParser creates a parser. basePath is the deployment prefix stripped
// from every incoming path ("" or "/" for none).
func NewParser(basePath string) *Parser {
	basePath = NormalizePath(basePath)
	if basePath == "/" {
		basePath = ""
	}
	return &Parser{basePath: basePath}
}

// Parse splits path and rawQuery. A "?" embedded in path takes precedence
// over rawQuery, so both `Parse(r.URL.Path, r.URL.RawQuery)` and
// `Parse(target, "")` work.
func (p *Parser) Parse(path, rawQuery string) *Request {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		rawQuery = path[i+1:]
		path = path[:i]
	}

	if p.basePath != "" {
		path = strings.TrimPrefix(path, p.basePath)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req := &Request{Query: parseQuery(rawQuery)}

	segments := splitSegments(path)

	// "ajax" and "raw" are presentation flags, not path segments.
	// "ajax" implies "raw".
	for len(segments) > 0 {
		switch segments[0] {
		case "ajax":
			req.Ajax = true
			req.Raw = true
		case "raw":
			req.Raw = true
		default:
			req.Segments = segments
			return req
		}
		segments = segments[1:]
	}
	req.Segments = segments
	return req
}

func splitSegments(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// parseQuery extracts key=value pairs preserving their order. Unescaping
// failures keep the raw text rather than dropping the pair.
func parseQuery(rawQuery string) *params.Store {
	q := params.New()
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		if key == "" {
			continue
		}
		q.Set(key, value)
	}
	return q
}
