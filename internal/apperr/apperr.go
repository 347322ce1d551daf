package apperr

import (
	"errors"
	"net/http"
)

// Kind вид бизнес-ошибки. Любая ошибка без вида считается Unexpected.
type Kind int

const (
	Unexpected Kind = iota
	Validation
	Conflict
	NotFound
	Expired
	Auth
)

// Error бизнес-ошибка с видом и человекочитаемым сообщением.
// Сообщение уходит клиенту как есть, кроме Unexpected.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf возвращает вид ошибки, Unexpected для любой неразмеченной.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unexpected
}

// Таблица маппинга видов ошибок в HTTP статусы.
var statusByKind = map[Kind]int{
	Validation: http.StatusBadRequest,
	Conflict:   http.StatusBadRequest,
	Expired:    http.StatusBadRequest,
	Auth:       http.StatusBadRequest,
	NotFound:   http.StatusNotFound,
	Unexpected: http.StatusInternalServerError,
}

// HTTPStatus статус ответа для ошибки по таблице маппинга.
func HTTPStatus(err error) int {
	if status, ok := statusByKind[KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}
