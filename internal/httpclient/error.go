package httpclient

import (
	"fmt"

	"github.com/cockroachdb/errors"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
)

// Error is a non-2xx answer from a remote service. Body keeps the raw payload so
// callers can decode their own problem format.
type Error struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
}

// Is lets errors.Is(err, ierr.ErrHTTPClient) match without a Mark
func (e *Error) Is(target error) bool {
	return target == ierr.ErrHTTPClient
}

func NewError(req *Request, statusCode int, body []byte) *Error {
	return &Error{
		Method:     req.Method,
		URL:        req.URL,
		StatusCode: statusCode,
		Body:       body,
	}
}

func IsHTTPError(err error) (*Error, bool) {
	var httpErr *Error
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
