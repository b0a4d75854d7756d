package leads

import "errors"

var (
	// ErrIDExhausted is returned when every generated identifier collided
	// with an existing record. With 32 random bits per attempt this means
	// the store is misbehaving, not that we are unlucky.
	ErrIDExhausted = errors.New("could not allocate a unique lead id")
)
