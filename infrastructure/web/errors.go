package web

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is a bare 500 used when nothing better is available.
type ErrorResponse struct {
	Error string `json:"error"`
}

func NewError(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

func (e ErrorResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(e)
	return data, "application/json; charset=utf-8", err
}

func (e ErrorResponse) HTTPStatus() int {
	return http.StatusInternalServerError
}
