package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"ratepoint/internal/entity"
	"ratepoint/internal/models"
	"ratepoint/internal/store"
)

const (
	// defaultTrendingWindow is the post window for the trending ranking.
	defaultTrendingWindow = 7 * 24 * time.Hour

	// defaultTrendingLimit caps the trending ranking size.
	defaultTrendingLimit = 10
)

func (a *API) CreateTag(w http.ResponseWriter, r *http.Request) {
	a.create(w, r, "tag", func(q store.Querier, f entity.Fields) (any, error) {
		return a.store.CreateTag(q, f)
	})
}

func (a *API) GetTag(w http.ResponseWriter, r *http.Request) {
	a.get(w, r, "tag", func(q store.Querier, id uuid.UUID) (any, bool, error) {
		t, err := a.store.GetTag(q, id)
		return t, t != nil, err
	})
}

func (a *API) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := a.store.AllTags(a.store.Reader())
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"tags": tags})
}

func (a *API) DeleteTag(w http.ResponseWriter, r *http.Request) {
	a.deleteByKind(w, r, "tag")
}

// PopularTags ranks all tags by post count. The encoded ranking is cached
// briefly; the underlying query is never cached.
func (a *API) PopularTags(w http.ResponseWriter, r *http.Request) {
	a.cachedRanking(w, r, "popular", func() ([]models.TagCount, error) {
		return a.store.PopularTags(a.store.Reader())
	})
}

// TrendingTags ranks the tags of recent posts. The hours and limit query
// parameters adjust the window and ranking size.
func (a *API) TrendingTags(w http.ResponseWriter, r *http.Request) {
	window := defaultTrendingWindow
	limit := defaultTrendingLimit
	if raw := r.URL.Query().Get("hours"); raw != "" {
		h, err := strconv.Atoi(raw)
		if err != nil || h < 1 {
			respond(w, http.StatusBadRequest, map[string]string{"error": "malformed hours"})
			return
		}
		window = time.Duration(h) * time.Hour
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond(w, http.StatusBadRequest, map[string]string{"error": "malformed limit"})
			return
		}
		limit = n
	}

	key := "trending:" + window.String() + ":" + strconv.Itoa(limit)
	a.cachedRanking(w, r, key, func() ([]models.TagCount, error) {
		return a.store.TrendingTags(a.store.Reader(), window, limit)
	})
}

// cachedRanking serves an encoded tag ranking from the cache, computing and
// storing it on miss.
func (a *API) cachedRanking(w http.ResponseWriter, r *http.Request, key string,
	compute func() ([]models.TagCount, error)) {

	ctx := r.Context()
	if cached, ok := a.rankings.Get(ctx, key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(cached)
		return
	}

	ranking, err := compute()
	if err != nil {
		writeError(w, err)
		return
	}
	if ranking == nil {
		ranking = []models.TagCount{}
	}
	body, err := json.Marshal(map[string]any{"tags": ranking})
	if err != nil {
		writeError(w, err)
		return
	}
	a.rankings.Set(ctx, key, body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
