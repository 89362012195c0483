package service

import "fmt"

const CodeValidation = "VALIDATION_ERROR"
const CodeInvalidCredentials = "INVALID_CREDENTIALS"
const CodeAccountDisabled = "ACCOUNT_DISABLED"
const CodeNotFound = "NOT_FOUND"
const CodeInternal = "INTERNAL"

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

type Detail struct {
	Key     string
	Payload any
}

func ToDetail(key string, payload any) Detail {
	return Detail{Key: key, Payload: payload}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}
	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}
	return busErr
}

func NewNotFound(resource string, id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewValidationError(message string, details ...Detail) *BusinessError {
	return NewBusinessError(CodeValidation, message, details...)
}

// NewInvalidCredentials is deliberately the same message for a missing user
// and a wrong password, so callers cannot enumerate usernames.
func NewInvalidCredentials() *BusinessError {
	return NewBusinessError(CodeInvalidCredentials, "Invalid authentication request")
}

func NewInternal(message string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeInternal,
		Message: message,
		Details: make(map[string]any),
		Err:     err,
	}
}
