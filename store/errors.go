package store

import "errors"

// ErrNotFound is returned when no product exists for the given productId.
var ErrNotFound = errors.New("shelf: product not found")
