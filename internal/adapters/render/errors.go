package render

import "errors"

// Sentinel error kinds for this package.
var (
	ErrRender = errors.New("render chart failed")
	ErrWrite  = errors.New("write chart failed")
)
