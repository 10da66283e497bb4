// Package params implements the parameter store shared by the request
// parser and route matcher: an ordered bag of positional and named string
// parameters with a reversible opaque encoding for passing structured
// values through URLs.
package params
