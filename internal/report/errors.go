package report

import "errors"

// Sentinel errors for the report command.
var (
	ErrUsage     = errors.New("invalid usage")
	ErrBadFilter = errors.New("invalid filter")
)
