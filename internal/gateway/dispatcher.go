package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/plexo/gateway/internal/auth"
	"github.com/plexo/gateway/internal/metrics"
	"github.com/plexo/gateway/internal/middleware"
	"github.com/plexo/gateway/internal/model"
)

// Transport rejection codes. The engine is not called for either.
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

// requestError is a transport-level rejection.
type requestError struct {
	status  int
	code    string
	message string
	err     error
}

func invalidRequest(message string, err error) *requestError {
	return &requestError{status: http.StatusBadRequest, code: CodeInvalidRequest, message: message, err: err}
}

func (e *requestError) Error() string {
	if e.err == nil {
		return e.message
	}
	return e.message + ": " + e.err.Error()
}

func (e *requestError) Unwrap() error { return e.err }

// Dispatcher turns registry rows into HTTP handlers.
type Dispatcher struct {
	logger   *slog.Logger
	metrics  metrics.Recorder
	validate *validator.Validate
}

// NewDispatcher creates a Dispatcher. A nil recorder disables metrics.
func NewDispatcher(logger *slog.Logger, recorder metrics.Recorder) *Dispatcher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Dispatcher{
		logger:   logger,
		metrics:  recorder,
		validate: v,
	}
}

// Router returns a chi router serving every row of reg.
func (d *Dispatcher) Router(reg *Registry) chi.Router {
	r := chi.NewRouter()
	reg.Mount(r, d)
	return r
}

type operationFunc[T any] func(r *http.Request, caller model.Identity) (Response[T], error)

// serve wraps one operation of one kind. The caller must already be on the
// request context; without it the request fails before input is read.
func serve[T any](d *Dispatcher, kind model.Kind, op Operation, fn operationFunc[T]) http.HandlerFunc {
	operationID := OperationID(kind, op)

	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		middleware.AddLogAttrs(r.Context(), slog.String("operation", operationID))

		caller, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			d.observe(kind, operationID, metrics.OutcomeUnauthorized, start)
			unauthorized[T](kind, op).Write(w)
			return
		}

		resp, err := fn(r, caller)
		if err != nil {
			d.observe(kind, operationID, metrics.OutcomeRejected, start)
			d.logger.Warn("request rejected",
				"kind", kind,
				"operation", operationID,
				"request_id", middleware.GetRequestID(r.Context()),
				"error", err,
			)
			status, code := rejection(err)
			writeError(w, status, code, requestMessage(err))
			return
		}

		switch {
		case resp.OK():
			d.observe(kind, operationID, metrics.OutcomeSuccess, start)
			d.logger.Debug("operation completed",
				"kind", kind,
				"operation", operationID,
				"member_id", caller.MemberID,
			)
		case resp.Failure.Kind == FailureUnauthorized:
			d.observe(kind, operationID, metrics.OutcomeUnauthorized, start)
		default:
			d.observe(kind, operationID, metrics.OutcomeEngineFailure, start)
			d.logger.Error("engine failure",
				"kind", kind,
				"operation", operationID,
				"request_id", middleware.GetRequestID(r.Context()),
				"member_id", caller.MemberID,
				"error", resp.Failure.Err,
			)
		}

		resp.Write(w)
	}
}

func (d *Dispatcher) observe(kind model.Kind, operationID, outcome string, start time.Time) {
	d.metrics.ObserveOperation(string(kind), operationID, outcome, time.Since(start))
}

// mount registers the five routes of res.
func (res *Resource[E, C, U, Q]) mount(r chi.Router, d *Dispatcher) {
	kind := res.kind

	r.Route("/"+kind.Plural(), func(r chi.Router) {
		r.Post("/", serve(d, kind, OpCreate, func(req *http.Request, caller model.Identity) (Response[E], error) {
			var input C
			if err := d.decodeBody(req, &input, false); err != nil {
				return Response[E]{}, err
			}
			return res.Create(req.Context(), caller, input), nil
		}))

		r.Get("/", serve(d, kind, OpGetMany, func(req *http.Request, caller model.Identity) (Response[[]E], error) {
			var query Q
			if err := d.decodeBody(req, &query, true); err != nil {
				return Response[[]E]{}, err
			}
			return res.List(req.Context(), caller, query), nil
		}))

		r.Get("/{id}", serve(d, kind, OpGetOne, func(req *http.Request, caller model.Identity) (Response[E], error) {
			id, err := pathID(req)
			if err != nil {
				return Response[E]{}, err
			}
			return res.Get(req.Context(), caller, id), nil
		}))

		r.Put("/{id}", serve(d, kind, OpUpdate, func(req *http.Request, caller model.Identity) (Response[E], error) {
			id, err := pathID(req)
			if err != nil {
				return Response[E]{}, err
			}
			var input U
			if err := d.decodeBody(req, &input, false); err != nil {
				return Response[E]{}, err
			}
			return res.Update(req.Context(), caller, id, input), nil
		}))

		r.Delete("/{id}", serve(d, kind, OpDelete, func(req *http.Request, caller model.Identity) (Response[E], error) {
			id, err := pathID(req)
			if err != nil {
				return Response[E]{}, err
			}
			return res.Delete(req.Context(), caller, id), nil
		}))
	})
}

// decodeBody reads exactly one JSON value into v and validates it. When
// optional is set an empty body leaves v at its zero value.
func (d *Dispatcher) decodeBody(r *http.Request, v any, optional bool) error {
	if r.Body == nil {
		if optional {
			return d.validateInput(v)
		}
		return invalidRequest("Invalid request body", io.EOF)
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return d.validateInput(v)
		}
		return bodyError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("trailing data after JSON value")
		}
		return bodyError(err)
	}

	return d.validateInput(v)
}

func (d *Dispatcher) validateInput(v any) error {
	if err := d.validate.Struct(v); err != nil {
		return invalidRequest("Validation failed", err)
	}
	return nil
}

// bodyError classifies a read or decode failure. Hitting the body limit set
// by middleware.MaxBodySize is a 413, everything else a 400.
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &requestError{
			status:  http.StatusRequestEntityTooLarge,
			code:    CodePayloadTooLarge,
			message: "Request body too large",
			err:     err,
		}
	}
	return invalidRequest("Invalid request body", err)
}

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalidRequest("Invalid id", err)
	}
	return id, nil
}

func rejection(err error) (int, string) {
	var re *requestError
	if errors.As(err, &re) {
		return re.status, re.code
	}
	return http.StatusBadRequest, CodeInvalidRequest
}

// requestMessage is the client text for a transport rejection. Validation
// failures name the offending fields.
func requestMessage(err error) string {
	var re *requestError
	if !errors.As(err, &re) {
		return "Invalid request"
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return re.message + ": " + strings.Join(fields, ", ")
	}
	return re.message
}
