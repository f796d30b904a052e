package matrix

import "errors"

var ErrInvalidSort = errors.New("invalid sort parameters")
