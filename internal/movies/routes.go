package movies

import (
	"github.com/go-chi/chi/v5"

	"github.com/casting-agency/casting-agency/internal/rbac"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(rbac.PermGetMovies))
		r.Get("/movies", h.List)
		r.Get("/movies/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(rbac.PermPostMovies))
		r.Post("/movies", h.Create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(rbac.PermPatchMovies))
		r.Patch("/movies/{id}", h.Update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(rbac.PermDeleteMovies))
		r.Delete("/movies/{id}", h.Delete)
	})
}
