package render

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrInvalidStyle      = errors.New("invalid render style")
)
