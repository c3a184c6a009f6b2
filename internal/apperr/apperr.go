// Package apperr — типизированные ошибки предметной области и их отображение в HTTP-статусы.
package apperr

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Kind классифицирует ошибку
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindTooManyRequests
)

// Error — ошибка с видом, сообщением для клиента и дополнительными полями ответа
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// WithDetails добавляет поля, которые попадут в тело ответа
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

func TooManyRequests(msg string) *Error { return &Error{Kind: KindTooManyRequests, Message: msg} }

// Wrap сохраняет причину, не раскрывая ее клиенту
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf возвращает вид ошибки; неизвестные ошибки считаются внутренними
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is проверяет вид ошибки
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Status переводит ошибку в HTTP-статус
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// FromDB переводит ошибки gorm (открытого с TranslateError) в ошибки предметной области.
// notFound — сообщение для отсутствующей записи.
func FromDB(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(KindNotFound, notFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Wrap(KindConflict, "Record with this key already exists", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Wrap(KindNotFound, "Referenced record not found", err)
	default:
		return err
	}
}
