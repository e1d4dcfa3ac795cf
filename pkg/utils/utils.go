// Package utils holds the JSON envelope shared by handlers and middleware.
package utils

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

// SuccessBody and ErrorBody are the two shapes of every API reply.
// Success is true exactly when the status code is 2xx.
type SuccessBody struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// ReadJSON decodes the request body into dst. An empty body leaves dst
// untouched so that required-field validation reports what is missing.
func ReadJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func ErrorResponse(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{
		Success: false,
		Error:   message,
	})
}

func SuccessResponse(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, SuccessBody{
		Success: true,
		Data:    data,
	})
}
