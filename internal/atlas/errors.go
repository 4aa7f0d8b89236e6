package atlas

import "errors"

// MinPageSize is the smallest page width or height accepted by New.
const MinPageSize = 8

var (
	// ErrPageTooSmall is returned by New when either page dimension is below MinPageSize.
	ErrPageTooSmall = errors.New("atlas: page size below minimum")

	// ErrNilFactory is returned by New when no page factory is supplied.
	ErrNilFactory = errors.New("atlas: nil page factory")

	// ErrPageFactory wraps any error returned by the page factory.
	ErrPageFactory = errors.New("atlas: page factory failed")
)
