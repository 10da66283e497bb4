// Package routing turns raw request paths into a (module, action,
// parameters) triple. It implements the custom route declaration DSL
// (":name" and ":name(regex)" placeholders), ordered first-match-wins
// route tables at application and module level, the positional fallback
// grammar, and canonical URL reconstruction that round-trips with parsing.
package routing
