// Package errs provides the error type returned by HTTP handlers.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrCode is an application error category with a fixed HTTP status.
type ErrCode struct {
	value  int
	name   string
	status int
}

var (
	InvalidArgument = ErrCode{value: 1, name: "invalid_argument", status: http.StatusBadRequest}
	NotFound        = ErrCode{value: 2, name: "not_found", status: http.StatusNotFound}
	Internal        = ErrCode{value: 3, name: "internal", status: http.StatusInternalServerError}
	Unavailable     = ErrCode{value: 4, name: "unavailable", status: http.StatusServiceUnavailable}

	// InternalOnlyLog is logged in full but sent to clients as Internal.
	InternalOnlyLog = ErrCode{value: 5, name: "internal_only_log", status: http.StatusInternalServerError}
)

// String returns the code name.
func (ec ErrCode) String() string {
	return ec.name
}

// MarshalText implements encoding.TextMarshaler.
func (ec ErrCode) MarshalText() ([]byte, error) {
	return []byte(ec.name), nil
}

// Error is the error value handlers return.
type Error struct {
	Code     ErrCode `json:"code"`
	Message  string  `json:"message"`
	FuncName string  `json:"-"`
	FileName string  `json:"-"`
}

// New wraps err with code, recording the caller.
func New(code ErrCode, err error) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  err.Error(),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Newf builds an error from a format string, recording the caller.
func Newf(code ErrCode, format string, v ...any) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  fmt.Sprintf(format, v...),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Encode implements web.Encoder.
func (e *Error) Encode() ([]byte, string, error) {
	data, err := json.Marshal(e)
	return data, "application/json; charset=utf-8", err
}

// HTTPStatus reports the status for the error's code.
func (e *Error) HTTPStatus() int {
	return e.Code.status
}

// IsError reports whether err is, or wraps, an *Error.
func IsError(err error) bool {
	var er *Error
	return errors.As(err, &er)
}

// GetError returns the *Error inside err, or nil.
func GetError(err error) *Error {
	var er *Error
	if !errors.As(err, &er) {
		return nil
	}
	return er
}
