// Package errors holds the error types shared by the input adapters and the
// HTTP/CLI front ends.
package errors

import (
	"errors"
	"fmt"
)

// New is errors.New, re-exported so callers need a single import.
var New = errors.New

var (
	// ErrInvalidInput — входной файл не подходит для сводки.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFile — расширение файла не поддерживается.
	ErrUnsupportedFile = fmt.Errorf("%w: unsupported file", ErrInvalidInput)

	// ErrNoSuppliers — в книге нет ни одного листа поставщика.
	ErrNoSuppliers = fmt.Errorf("%w: no supplier sheets", ErrInvalidInput)
)

// ValidationError — ошибка разбора входа, которую нужно показать пользователю.
type ValidationError struct {
	Source  string // файл или лист
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Source != "" {
		return fmt.Sprintf("%s: %s", e.Source, msg)
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is — любая ValidationError считается ErrInvalidInput.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError creates a new ValidationError.
func NewValidationError(source, message string, err error) *ValidationError {
	return &ValidationError{Source: source, Message: message, Err: err}
}

// IsInvalidInput — ошибка вызвана плохим входом, а не сбоем сервиса.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

// Is, As и Unwrap из стандартной библиотеки.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)
