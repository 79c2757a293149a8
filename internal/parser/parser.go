// Package parser turns fetched pages into achievement and difficulty records.
//
// Both extractors fail fast: a container or row that breaks the expected page
// structure aborts extraction with a *types.ParseError wrapping
// types.ErrMalformedDocument. A page with no containers at all is not an error.
package parser

import (
	"fmt"

	"github.com/IshaanNene/eu4achievements/internal/types"
)

// malformed builds the error returned for a container or row that breaks the
// expected page structure.
func malformed(resp *types.Response, selector string, index int, format string, args ...any) error {
	return &types.ParseError{
		URL:      resp.URL(),
		Selector: selector,
		Index:    index,
		Err:      fmt.Errorf("%w: %s", types.ErrMalformedDocument, fmt.Sprintf(format, args...)),
	}
}
