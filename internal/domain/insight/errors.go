package insight

import "errors"

// ErrTemplate marks a commentary template that cannot be parsed or executed.
var ErrTemplate = errors.New("commentary template")
