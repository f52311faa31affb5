package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

const (
	ErrCodeNotFound         = "not_found"
	ErrCodeAlreadyExists    = "already_exists"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodeHTTPClient       = "gateway_error"
	ErrCodeDatabase         = "database_error"
	ErrCodeSystemError      = "system_error"
	ErrCodeInternal         = "internal_error"
)

// Sentinels used with Mark. ErrHTTPClient covers every failed call to Mollie
// or the mail provider.
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrHTTPClient       = new(ErrCodeHTTPClient, "payment gateway error")
	ErrDatabase         = new(ErrCodeDatabase, "database error")
	ErrSystem           = new(ErrCodeSystemError, "system error")
	ErrInternal         = new(ErrCodeInternal, "internal error")
)

// checked in order; the first sentinel an error carries decides the status
var statusCodes = []struct {
	sentinel error
	status   int
}{
	{ErrValidation, http.StatusBadRequest},
	{ErrInvalidOperation, http.StatusUnprocessableEntity},
	{ErrNotFound, http.StatusNotFound},
	{ErrAlreadyExists, http.StatusConflict},
	{ErrHTTPClient, http.StatusBadGateway},
	{ErrDatabase, http.StatusInternalServerError},
	{ErrSystem, http.StatusInternalServerError},
	{ErrInternal, http.StatusInternalServerError},
}

type InternalError struct {
	Code    string
	Message string
	Err     error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is matches on Code so sentinels survive wrapping and Mark
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func New(code string, message string) *InternalError {
	return new(code, message)
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}

// IsHTTPClient reports a failed outbound call (Mollie, mail)
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

// CodeOf returns the code of the first sentinel carried by err
func CodeOf(err error) string {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.sentinel) {
			return sc.sentinel.(*InternalError).Code
		}
	}
	return ErrCodeInternal
}

func HTTPStatusFromErr(err error) int {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.sentinel) {
			return sc.status
		}
	}
	return http.StatusInternalServerError
}
