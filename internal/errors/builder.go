package errors

import (
	"encoding/json"
	"maps"

	"github.com/cockroachdb/errors"
)

// ErrorBuilder collects the hint and api-safe details of an error. It is not an
// error itself; finish every chain with Mark (or Error for unmarked errors).
type ErrorBuilder struct {
	err     error
	details map[string]any
}

func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.NewWithDepth(1, msg)}
}

func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// WithHint sets the message shown to api callers
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.err = errors.WithHintf(b.err, format, args...)
	return b
}

// WithReportableDetails adds fields that are safe to return to callers and to
// report to sentry. Repeated calls merge; later keys win.
func (b *ErrorBuilder) WithReportableDetails(details map[string]any) *ErrorBuilder {
	if b.details == nil {
		b.details = make(map[string]any, len(details))
	}
	maps.Copy(b.details, details)
	return b
}

// WithOrderID is WithReportableDetails for the storefront order an error belongs to
func (b *ErrorBuilder) WithOrderID(orderID int) *ErrorBuilder {
	return b.WithReportableDetails(map[string]any{"order_id": orderID})
}

// Mark tags the error with a sentinel such as ErrNotFound and returns it
func (b *ErrorBuilder) Mark(reference error) error {
	return errors.Mark(b.Error(), reference)
}

func (b *ErrorBuilder) Error() error {
	if len(b.details) == 0 {
		return b.err
	}
	payload, err := json.Marshal(b.details)
	if err != nil {
		return b.err
	}
	return errors.WithSafeDetails(b.err, "__json__:%s", errors.Safe(string(payload)))
}
