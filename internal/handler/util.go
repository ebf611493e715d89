package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cofounderbay/networking-core/internal/collection"
	"github.com/cofounderbay/networking-core/internal/middleware"
	"github.com/cofounderbay/networking-core/internal/model"
	"github.com/cofounderbay/networking-core/internal/service"
	"github.com/cofounderbay/networking-core/internal/workflow"
	"github.com/cofounderbay/networking-core/pkg/logger"
)

const (
	defaultLimit = 20
	maxLimit     = 100
	maxBodyBytes = 64 * 1024
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// statusFor maps core errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrRequestNotFound),
		errors.Is(err, model.ErrConversationNotFound),
		errors.Is(err, model.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrInvalidStatusRegression),
		errors.Is(err, model.ErrDuplicateRequest):
		return http.StatusConflict
	case errors.Is(err, model.ErrEmptyMessage),
		errors.Is(err, model.ErrEmptyReaction),
		errors.Is(err, model.ErrUnknownField),
		errors.Is(err, model.ErrNotEditing),
		errors.Is(err, model.ErrInvalidStatus):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes the response for an error returned by a service.
// Core errors are recoverable and reported to the client; anything else is
// logged and hidden.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("correlation_id", middleware.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		writeError(w, status, "internal error")
		return
	}
	writeJSON(w, status, map[string]string{
		"error":  err.Error(),
		"reason": service.Reason(err),
	})
}

// decode reads a JSON request body into v.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// pathID reads and validates a URL parameter.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if err := middleware.ValidateID(id); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s: %s", name, err))
		return "", false
	}
	return id, true
}

// Query parameters with a fixed meaning; every other parameter is a
// categorical filter.
var reserved = map[string]bool{"q": true, "sort": true, "order": true, "offset": true, "limit": true}

type fieldSet interface {
	HasField(name string) bool
	HasSort(name string) bool
}

// listOptions builds list options from the query string. Filters and sort
// keys the collection does not declare are rejected.
func listOptions(r *http.Request, fields fieldSet) (service.ListOptions, error) {
	values := r.URL.Query()
	opts := service.ListOptions{Limit: defaultLimit}

	q := collection.Query{}.Search(values.Get("q"))
	for key, vs := range values {
		if reserved[key] || len(vs) == 0 {
			continue
		}
		if !fields.HasField(key) {
			return opts, fmt.Errorf("filter %q: %w", key, model.ErrUnknownField)
		}
		q = q.With(key, vs[0])
	}

	if sort := values.Get("sort"); sort != "" {
		if !fields.HasSort(sort) {
			return opts, fmt.Errorf("sort %q: %w", sort, model.ErrUnknownField)
		}
		q = q.Sorted(sort, strings.EqualFold(values.Get("order"), "desc"))
	}
	opts.Query = q

	if l := values.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= maxLimit {
			opts.Limit = parsed
		}
	}
	if o := values.Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			opts.Offset = parsed
		}
	}
	return opts, nil
}

// workflowFilter reads direction and status filters.
func workflowFilter(r *http.Request) (workflow.Filter, error) {
	values := r.URL.Query()
	f := workflow.Filter{
		Direction: model.Direction(values.Get("direction")),
		Status:    model.RequestStatus(values.Get("status")),
	}
	if f.Direction != "" && f.Direction != model.DirectionIncoming && f.Direction != model.DirectionOutgoing {
		return f, fmt.Errorf("direction %q: %w", f.Direction, model.ErrUnknownField)
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, fmt.Errorf("status %q: %w", f.Status, model.ErrUnknownField)
	}
	return f, nil
}

// decision is an accept or decline operation of a service.
type decision[T any] func(ctx context.Context, actor model.ActorID, id string) (workflow.Record[T], error)

// runDecision handles POST .../{id}/accept and .../{id}/decline.
func runDecision[T any](w http.ResponseWriter, r *http.Request, log *logger.Logger, op decision[T]) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rec, err := op(r.Context(), middleware.GetActor(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, log, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
