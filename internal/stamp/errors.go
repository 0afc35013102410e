package stamp

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidImage means the signature payload did not decode as a PNG
	// with an alpha channel.
	ErrInvalidImage = errors.New("invalid signature image")
	// ErrInvalidDocument means the source bytes did not parse as a PDF.
	ErrInvalidDocument = errors.New("invalid document")
)

// PageNotFoundError reports a page index outside the document.
type PageNotFoundError struct {
	Page      int // requested zero-based index
	PageCount int
}

func (e *PageNotFoundError) Error() string {
	return fmt.Sprintf("page %d not found: document has %d page(s)", e.Page, e.PageCount)
}
