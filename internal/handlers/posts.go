package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"ratepoint/internal/entity"
	"ratepoint/internal/store"
)

const defaultRecentLimit = 20

// Posts.

func (a *API) CreatePost(w http.ResponseWriter, r *http.Request) {
	a.create(w, r, "post", func(q store.Querier, f entity.Fields) (any, error) {
		return a.store.CreatePost(q, f)
	})
}

func (a *API) GetPost(w http.ResponseWriter, r *http.Request) {
	a.get(w, r, "post", func(q store.Querier, id uuid.UUID) (any, bool, error) {
		p, err := a.store.GetPost(q, id)
		return p, p != nil, err
	})
}

func (a *API) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := a.store.AllPosts(a.store.Reader())
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"posts": posts})
}

func (a *API) DeletePost(w http.ResponseWriter, r *http.Request) {
	a.deleteByKind(w, r, "post")
}

// RecentPosts returns the most recent posts, newest first. The limit query
// parameter caps the count.
func (a *API) RecentPosts(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond(w, http.StatusBadRequest, map[string]string{"error": "malformed limit"})
			return
		}
		limit = n
	}
	posts, err := a.store.RecentPosts(a.store.Reader(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"posts": posts})
}

// SearchPosts returns the posts carrying every tag named in the q query
// parameter. Input outside the search allow-list is rejected with 400.
func (a *API) SearchPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := a.store.SearchPosts(a.store.Reader(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"posts": posts})
}

// Comments.

func (a *API) CreateComment(w http.ResponseWriter, r *http.Request) {
	a.create(w, r, "comment", func(q store.Querier, f entity.Fields) (any, error) {
		return a.store.CreateComment(q, f)
	})
}

func (a *API) GetComment(w http.ResponseWriter, r *http.Request) {
	a.get(w, r, "comment", func(q store.Querier, id uuid.UUID) (any, bool, error) {
		c, err := a.store.GetComment(q, id)
		return c, c != nil, err
	})
}

func (a *API) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := a.store.AllComments(a.store.Reader())
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"comments": comments})
}

func (a *API) DeleteComment(w http.ResponseWriter, r *http.Request) {
	a.deleteByKind(w, r, "comment")
}

// Likes. The (user, post) pair is the identity, carried in query
// parameters for reads and deletes.

func (a *API) CreateLike(w http.ResponseWriter, r *http.Request) {
	a.create(w, r, "like", func(q store.Querier, f entity.Fields) (any, error) {
		return a.store.CreateLike(q, f)
	})
}

func likePair(r *http.Request) (userID, postID uuid.UUID, ok bool) {
	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	postID, err = uuid.Parse(r.URL.Query().Get("post_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	return userID, postID, true
}

func (a *API) GetLike(w http.ResponseWriter, r *http.Request) {
	userID, postID, ok := likePair(r)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "malformed user_id or post_id"})
		return
	}
	like, err := a.store.GetLike(a.store.Reader(), userID, postID)
	if err != nil {
		writeError(w, err)
		return
	}
	if like == nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "like not found"})
		return
	}
	respond(w, http.StatusOK, map[string]any{"like": like})
}

func (a *API) DeleteLike(w http.ResponseWriter, r *http.Request) {
	userID, postID, ok := likePair(r)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "malformed user_id or post_id"})
		return
	}
	err := a.store.InTx(func(q store.Querier) error {
		return a.store.DeleteLike(q, userID, postID)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}
