// Package serrors provides structured errors with stable codes and
// locale keys, so transport layers can translate and log them uniformly.
package serrors

import "fmt"

// BaseError is the structured error carried across service boundaries.
// Code is a stable machine-readable identifier, LocaleKey points at the
// translation entry used by presentation layers.
type BaseError struct {
	Code         string
	Message      string
	LocaleKey    string
	TemplateData map[string]string

	cause error
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithTemplateData attaches values interpolated into the localized message.
func (e *BaseError) WithTemplateData(data map[string]string) *BaseError {
	cloned := *e
	cloned.TemplateData = data
	return &cloned
}

// WithCause attaches the underlying error, preserved for errors.Is/As chains.
func (e *BaseError) WithCause(err error) *BaseError {
	cloned := *e
	cloned.cause = err
	return &cloned
}

func (e *BaseError) Unwrap() error {
	return e.cause
}

// Is matches errors sharing the same code, so sentinel instances survive
// WithTemplateData / WithCause cloning.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return other.Code == e.Code
}
