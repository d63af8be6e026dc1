package printing

import (
	"context"
	"fmt"
	"time"
)

// Error codes for rendering failures
const (
	ErrCodeInvalidHTML   = "INVALID_HTML"
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeRenderFailed  = "RENDER_FAILED"
)

// RenderError describes a PDF rendering failure
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

// RenderRequest contains the HTML document to turn into a PDF
type RenderRequest struct {
	// HTML is the document body. A bare fragment is wrapped into a
	// complete document before printing.
	HTML string
	// Title for the document head
	Title string
	// Timeout overrides the renderer default when non-zero
	Timeout time.Duration
}

// RenderResult contains the generated PDF
type RenderResult struct {
	PDFData        []byte
	RenderDuration time.Duration
}

// PDFRenderer converts HTML documents to PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}
