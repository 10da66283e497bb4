// Package cookie provides a cookie manager with shared attribute defaults,
// HMAC-SHA256 signed values, AES-GCM encrypted values, and a typed
// persistent-notification queue carried across redirects.
package cookie
