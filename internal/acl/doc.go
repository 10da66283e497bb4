// Package acl resolves per-group access rules for module/action pairs.
package acl
