// Package janitor schedules periodic cleanup tasks on cron specs.
package janitor
