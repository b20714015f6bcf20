package service

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownGroup  = errors.New("unknown group")
	ErrUnknownColumn = errors.New("unknown column")
	ErrUnknownChart  = errors.New("unknown chart kind")
	ErrStart         = errors.New("start service failed")
)
