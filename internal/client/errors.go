package client

import "errors"

var (
	ErrUsage           = errors.New("usage: client <register|login|list|get|create|update|delete|pick> [resource] [args]")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrUnknownResource = errors.New("unknown resource")
	ErrNoCredentials   = errors.New("no login or password configured")
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidAssign   = errors.New("expected col=value")
)
