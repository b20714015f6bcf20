package source

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrRead              = errors.New("read dataset failed")
	ErrEmpty             = errors.New("dataset has no header")
)
