package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"ratepoint/internal/entity"
	"ratepoint/internal/models"
	"ratepoint/internal/store"
)

func (a *API) CreateUser(w http.ResponseWriter, r *http.Request) {
	a.create(w, r, "user", func(q store.Querier, f entity.Fields) (any, error) {
		return a.store.CreateUser(q, f)
	})
}

func (a *API) GetUser(w http.ResponseWriter, r *http.Request) {
	a.get(w, r, "user", func(q store.Querier, id uuid.UUID) (any, bool, error) {
		u, err := a.store.GetUser(q, id)
		return u, u != nil, err
	})
}

func (a *API) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.store.AllUsers(a.store.Reader())
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"users": users})
}

func (a *API) DeleteUser(w http.ResponseWriter, r *http.Request) {
	a.deleteByKind(w, r, "user")
}

// Friends returns the ids of everyone in a friends relationship with the
// user, from either side of the edge.
func (a *API) Friends(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "malformed id"})
		return
	}
	friends, err := a.store.Friends(a.store.Reader(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if friends == nil {
		friends = []uuid.UUID{}
	}
	respond(w, http.StatusOK, map[string]any{"friends": friends})
}

// CreateRelationship records an edge between the user in the path and the
// user in the body.
func (a *API) CreateRelationship(w http.ResponseWriter, r *http.Request) {
	firstID, ok := urlID(r)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "malformed id"})
		return
	}
	var body struct {
		SecondUserID uuid.UUID               `json:"second_user_id"`
		Type         models.RelationshipType `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	rel := models.Relationship{
		FirstUserID:  firstID,
		SecondUserID: body.SecondUserID,
		Type:         body.Type,
	}
	err := a.store.InTx(func(q store.Querier) error {
		return a.store.CreateRelationship(q, rel)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]any{"relationship": rel})
}
