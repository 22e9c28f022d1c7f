package aggregator

import "errors"

// ErrUnknownDimension is returned by ParseDimensions for an unsupported dimension.
var ErrUnknownDimension = errors.New("unknown group-by dimension: must be date, name, status, or preset")
