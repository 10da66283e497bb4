// Package internal implements the request pipeline behind the root
// gatehouse package: route resolution, session lifecycle, authentication,
// remember-me auto-login, impersonation and per-group ACL enforcement.
// Everything here is re-exported through the root package; import that
// instead.
package internal
