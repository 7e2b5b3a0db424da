package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/plexo/gateway/internal/model"
)

// FailureKind is the gateway-visible class of a failed request.
type FailureKind string

const (
	// FailureUnauthorized means no identity could be resolved.
	FailureUnauthorized FailureKind = "UNAUTHORIZED"
	// FailureEngine covers every error reported by the engine, not-found included.
	FailureEngine FailureKind = "ENGINE_FAILURE"
)

// Failure is the single failure shape of every endpoint.
type Failure struct {
	Kind      FailureKind
	Resource  model.Kind
	Operation Operation
	Err       error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: %s", OperationID(f.Resource, f.Operation), strings.ToLower(string(f.Kind)))
	}
	return fmt.Sprintf("%s: %v", OperationID(f.Resource, f.Operation), f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Status is the HTTP status the transport uses for this failure.
func (f *Failure) Status() int {
	if f.Kind == FailureUnauthorized {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// Message is the client-facing text. It never includes the engine's error.
func (f *Failure) Message() string {
	if f.Kind == FailureUnauthorized {
		return "Invalid or missing API key"
	}
	switch f.Operation {
	case OpGetOne:
		return fmt.Sprintf("get %s failed", f.Resource)
	case OpGetMany:
		return fmt.Sprintf("get %s failed", f.Resource.Plural())
	default:
		return fmt.Sprintf("%s %s failed", f.Operation, f.Resource)
	}
}

// Response is the outcome of one dispatched operation: either Body with the
// success status, or Failure.
type Response[T any] struct {
	Status  int
	Body    T
	Failure *Failure
}

// OK reports whether the response is the success variant.
func (r Response[T]) OK() bool {
	return r.Failure == nil
}

// Shape turns an engine result into a Response.
func Shape[T any](kind model.Kind, op Operation, value T, err error) Response[T] {
	if err != nil {
		var f *Failure
		if !errors.As(err, &f) {
			f = &Failure{Kind: FailureEngine, Resource: kind, Operation: op, Err: err}
		}
		return Response[T]{Failure: f}
	}
	return Response[T]{Status: http.StatusOK, Body: value}
}

// ShapeList is Shape for GetMany; a nil sequence becomes an empty one.
func ShapeList[E any](kind model.Kind, op Operation, values []E, err error) Response[[]E] {
	if err == nil && values == nil {
		values = []E{}
	}
	return Shape(kind, op, values, err)
}

func unauthorized[T any](kind model.Kind, op Operation) Response[T] {
	return Response[T]{Failure: &Failure{Kind: FailureUnauthorized, Resource: kind, Operation: op}}
}

// Write encodes the response as JSON.
func (r Response[T]) Write(w http.ResponseWriter) {
	if r.Failure != nil {
		writeError(w, r.Failure.Status(), string(r.Failure.Kind), r.Failure.Message())
		return
	}
	writeJSON(w, r.Status, r.Body)
}

// ErrorBody is the error envelope shared by every non-2xx response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
