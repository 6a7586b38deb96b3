package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/socialdash/dashboard/pkg/validator"
)

// JSONResponse is the envelope of every JSON response.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

type JSONOption func(*jsonResponse)

func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) {
		r.body.Meta = meta
	}
}

// JSON responds 200 with v as data.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: JSONResponse{Data: v}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError maps err to an error envelope. Validation errors become 422
// with per-field messages, HTTPErrors keep their status, anything else is a
// generic 500 that does not leak err's text.
func JSONError(err error, opts ...JSONOption) Response {
	r := &jsonResponse{}
	r.status, r.body.Error = ErrorToDetail(err)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ErrorToDetail classifies err into a status code and client-safe detail.
func ErrorToDetail(err error) (int, *ErrorDetail) {
	if errs := validator.ExtractValidationErrors(err); errs != nil {
		return http.StatusUnprocessableEntity, &ErrorDetail{
			Code:    "validation_error",
			Message: "Validation failed",
			Details: errs.Map(),
		}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, &ErrorDetail{Code: httpErr.Key, Message: http.StatusText(httpErr.Code)}
	}

	return http.StatusInternalServerError, &ErrorDetail{
		Code:    ErrInternalServerError.Key,
		Message: "Something went wrong. Please try again.",
	}
}
