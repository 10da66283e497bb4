package redis

import "errors"

var (
	ErrParseURL          = errors.New("redis: failed to parse connection URL")
	ErrConnect           = errors.New("redis: failed to establish connection")
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
