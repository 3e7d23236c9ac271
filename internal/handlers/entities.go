package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"ratepoint/internal/entity"
	"ratepoint/internal/store"
)

// Locations.

func (a *API) CreateLocation(w http.ResponseWriter, r *http.Request) {
	a.create(w, r, "location", func(q store.Querier, f entity.Fields) (any, error) {
		return a.store.CreateLocation(q, f)
	})
}

func (a *API) GetLocation(w http.ResponseWriter, r *http.Request) {
	a.get(w, r, "location", func(q store.Querier, id uuid.UUID) (any, bool, error) {
		l, err := a.store.GetLocation(q, id)
		return l, l != nil, err
	})
}

func (a *API) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := a.store.AllLocations(a.store.Reader())
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"locations": locations})
}

func (a *API) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	a.deleteByKind(w, r, "location")
}

// Categories.

func (a *API) CreateCategory(w http.ResponseWriter, r *http.Request) {
	a.create(w, r, "category", func(q store.Querier, f entity.Fields) (any, error) {
		return a.store.CreateCategory(q, f)
	})
}

func (a *API) GetCategory(w http.ResponseWriter, r *http.Request) {
	a.get(w, r, "category", func(q store.Querier, id uuid.UUID) (any, bool, error) {
		c, err := a.store.GetCategory(q, id)
		return c, c != nil, err
	})
}

func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.store.AllCategories(a.store.Reader())
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"categories": categories})
}

func (a *API) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	a.deleteByKind(w, r, "category")
}

// Items.

func (a *API) CreateItem(w http.ResponseWriter, r *http.Request) {
	a.create(w, r, "item", func(q store.Querier, f entity.Fields) (any, error) {
		return a.store.CreateItem(q, f)
	})
}

func (a *API) GetItem(w http.ResponseWriter, r *http.Request) {
	a.get(w, r, "item", func(q store.Querier, id uuid.UUID) (any, bool, error) {
		it, err := a.store.GetItem(q, id)
		return it, it != nil, err
	})
}

func (a *API) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.AllItems(a.store.Reader())
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) DeleteItem(w http.ResponseWriter, r *http.Request) {
	a.deleteByKind(w, r, "item")
}

// Photos.

func (a *API) CreatePhoto(w http.ResponseWriter, r *http.Request) {
	a.create(w, r, "photo", func(q store.Querier, f entity.Fields) (any, error) {
		return a.store.CreatePhoto(q, f)
	})
}

func (a *API) GetPhoto(w http.ResponseWriter, r *http.Request) {
	a.get(w, r, "photo", func(q store.Querier, id uuid.UUID) (any, bool, error) {
		p, err := a.store.GetPhoto(q, id)
		return p, p != nil, err
	})
}

func (a *API) ListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := a.store.AllPhotos(a.store.Reader())
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"photos": photos})
}

func (a *API) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	a.deleteByKind(w, r, "photo")
}
