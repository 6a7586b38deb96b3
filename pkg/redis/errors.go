package redis

import "errors"

var (
	ErrEmptyConnectionURL   = errors.New("redis: connection url is empty")
	ErrInvalidConnectionURL = errors.New("redis: invalid connection url")
	ErrNotReady             = errors.New("redis: server did not answer ping")
	ErrHealthcheckFailed    = errors.New("redis: healthcheck failed")
)
