package actors

import (
	"github.com/go-chi/chi/v5"

	"github.com/casting-agency/casting-agency/internal/rbac"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(rbac.PermGetActors))
		r.Get("/actors", h.List)
		r.Get("/actors/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(rbac.PermPostActors))
		r.Post("/actors", h.Create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(rbac.PermPatchActors))
		r.Patch("/actors/{id}", h.Update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(rbac.PermDeleteActors))
		r.Delete("/actors/{id}", h.Delete)
	})
}
