// Package router sets up all HTTP routes and middleware chains for the
// ratepoint API server.
package router

import (
	"time"

	"github.com/go-chi/chi/v5"

	"ratepoint/internal/handlers"
	"ratepoint/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	r.Get("/health", api.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/kinds", api.Kinds)

		r.Route("/locations", func(r chi.Router) {
			r.Post("/", api.CreateLocation)
			r.Get("/", api.ListLocations)
			r.Get("/{id}", api.GetLocation)
			r.Delete("/{id}", api.DeleteLocation)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", api.CreateCategory)
			r.Get("/", api.ListCategories)
			r.Get("/{id}", api.GetCategory)
			r.Delete("/{id}", api.DeleteCategory)
		})

		r.Route("/items", func(r chi.Router) {
			r.Post("/", api.CreateItem)
			r.Get("/", api.ListItems)
			r.Get("/{id}", api.GetItem)
			r.Delete("/{id}", api.DeleteItem)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Post("/", api.CreateTag)
			r.Get("/", api.ListTags)
			r.Get("/popular", api.PopularTags)
			r.Get("/trending", api.TrendingTags)
			r.Get("/{id}", api.GetTag)
			r.Delete("/{id}", api.DeleteTag)
		})

		r.Route("/photos", func(r chi.Router) {
			r.Post("/", api.CreatePhoto)
			r.Get("/", api.ListPhotos)
			r.Get("/{id}", api.GetPhoto)
			r.Delete("/{id}", api.DeletePhoto)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", api.CreatePost)
			r.Get("/", api.ListPosts)
			r.Get("/recent", api.RecentPosts)
			r.Get("/search", api.SearchPosts)
			r.Get("/{id}", api.GetPost)
			r.Delete("/{id}", api.DeletePost)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Post("/", api.CreateComment)
			r.Get("/", api.ListComments)
			r.Get("/{id}", api.GetComment)
			r.Delete("/{id}", api.DeleteComment)
		})

		// Likes carry a composite identity, addressed by query parameters.
		r.Route("/likes", func(r chi.Router) {
			r.Post("/", api.CreateLike)
			r.Get("/", api.GetLike)
			r.Delete("/", api.DeleteLike)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", api.CreateUser)
			r.Get("/", api.ListUsers)
			r.Get("/{id}", api.GetUser)
			r.Delete("/{id}", api.DeleteUser)
			r.Get("/{id}/friends", api.Friends)
			r.Post("/{id}/relationships", api.CreateRelationship)
		})
	})

	return r
}

// DefaultRateLimiter returns the limiter applied to the public API.
func DefaultRateLimiter() *middleware.RateLimiter {
	return middleware.NewRateLimiter(300, time.Minute)
}
