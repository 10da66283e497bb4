// Package config loads application settings from the environment,
// optionally seeded from a .env file.
package config
