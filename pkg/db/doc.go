// Package db manages the PostgreSQL connection pool: environment-driven
// configuration, retrying connect, goose migrations, and a transaction
// helper.
package db
