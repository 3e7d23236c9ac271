// Package handlers implements the REST façade over the entity store. Each
// write request runs inside a single store transaction; each read uses the
// plain reader. Engine errors map onto HTTP statuses through one table.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ratepoint/internal/cache"
	"ratepoint/internal/entity"
	"ratepoint/internal/store"
)

// API groups the REST handlers and their collaborators.
type API struct {
	store    *store.Store
	rankings *cache.RankingCache
}

// New creates the handler group. rankings may be backed by a nil client
// when Valkey is not configured.
func New(st *store.Store, rankings *cache.RankingCache) *API {
	return &API{store: st, rankings: rankings}
}

// decodeFields decodes a request body of the form {"<kind>": {...}} into
// the field set for that kind. A body without the envelope key is taken as
// the bare field set.
func decodeFields(r *http.Request, kind string) (entity.Fields, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	if inner, ok := body[kind].(map[string]any); ok {
		return entity.Fields(inner), nil
	}
	return entity.Fields(body), nil
}

// urlID parses the {id} route parameter.
func urlID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// respond writes a JSON response with the given status.
func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("encode response", "error", err)
		}
	}
}

// statusFor maps an engine error onto an HTTP status: malformed input is
// 400, a missing target 404, a constraint conflict 409, everything else
// (including invariant violations) 500.
func statusFor(err error) int {
	var fieldErr *entity.FieldError
	switch {
	case errors.As(err, &fieldErr),
		errors.Is(err, entity.ErrInvalidRelationShape),
		errors.Is(err, entity.ErrInvalidSearchInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrReferenced),
		errors.Is(err, entity.ErrUniqueViolation):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError logs the error and writes its JSON form with the mapped
// status. Internal errors are not echoed to the client.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		msg = "internal server error"
	} else {
		slog.Info("request rejected", "status", status, "error", err)
	}
	respond(w, status, map[string]string{"error": msg})
}

// create runs one validated creation inside a transaction and writes the
// stored record under the kind's envelope key.
func (a *API) create(w http.ResponseWriter, r *http.Request, kind string,
	fn func(q store.Querier, f entity.Fields) (any, error)) {

	f, err := decodeFields(r, kind)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	var created any
	err = a.store.InTx(func(q store.Querier) error {
		created, err = fn(q, f)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]any{kind: created})
}

// get writes one fetched record, 404 when the fetch reports nil.
func (a *API) get(w http.ResponseWriter, r *http.Request, kind string,
	fn func(q store.Querier, id uuid.UUID) (any, bool, error)) {

	id, ok := urlID(r)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "malformed id"})
		return
	}
	v, found, err := fn(a.store.Reader(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		respond(w, http.StatusNotFound, map[string]string{"error": kind + " not found"})
		return
	}
	respond(w, http.StatusOK, map[string]any{kind: v})
}

// deleteByKind dispatches a deletion through the kind registry inside a
// transaction.
func (a *API) deleteByKind(w http.ResponseWriter, r *http.Request, kind string) {
	id, ok := urlID(r)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "malformed id"})
		return
	}
	err := a.store.InTx(func(q store.Querier) error {
		return a.store.Delete(q, kind, id)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

// Health reports liveness.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Kinds lists the entity kinds the engine manages.
func (a *API) Kinds(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{"kinds": a.store.Registry().Kinds()})
}
