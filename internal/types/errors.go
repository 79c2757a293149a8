package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrMalformedDocument = errors.New("malformed document")
	ErrMissingDifficulty = errors.New("record has no difficulty")
	ErrUnknownTier       = errors.New("unknown difficulty tier")
	ErrUnknownFilter     = errors.New("unknown filter token")
	ErrEmptyResponse     = errors.New("empty response body")
	ErrBodyTooLarge      = errors.New("response body exceeds size limit")
	ErrInvalidURL        = errors.New("invalid URL")
)

// FetchError wraps errors that occur during fetching. Transport failures and
// non-2xx responses both surface as a FetchError.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError wraps errors that occur during extraction.
type ParseError struct {
	URL      string
	Selector string
	Index    int // position of the offending container or row, -1 if not applicable
	Err      error
}

func (e *ParseError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("parse error for %s (selector=%q, index=%d): %v", e.URL, e.Selector, e.Index, e.Err)
	}
	return fmt.Sprintf("parse error for %s (selector=%q): %v", e.URL, e.Selector, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
