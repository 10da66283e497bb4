// Package audit records security-relevant events (logins, lockouts,
// impersonation, access denials) to the structured log.
package audit
