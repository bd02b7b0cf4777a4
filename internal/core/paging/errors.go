package paging

import "errors"

// Sentinel errors. All of them abort a LoadPage call and leave the page as
// it was before the call.
var (
	ErrNilPage           = errors.New("page is nil")
	ErrInvalidConfig     = errors.New("invalid paging config")
	ErrFilterChanged     = errors.New("category filter changed since the page was started; use a new page")
	ErrOffsetsBeyondFile = errors.New("page offsets lie beyond the end of the file")
	ErrRecoveryExhausted = errors.New("decode fault recovery exhausted")
)
