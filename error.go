package twothree

import "github.com/cockroachdb/errors"

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrInvariant   = errors.New("tree invariant violated")
)
