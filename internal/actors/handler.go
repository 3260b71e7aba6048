package actors

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/casting-agency/casting-agency/internal/platform/httpx"
	"github.com/casting-agency/casting-agency/internal/rbac"
	"github.com/casting-agency/casting-agency/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, rbac: rbac}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := shared.ParseListFilters(r.URL.Query())
	res, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.fail(w, r, "list actors failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Success: true, Actors: res.Actors, Total: res.Total})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.fail(w, r, "get actor failed", err)
		return
	}
	actor, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get actor failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, actorResponse{Success: true, Actor: actor})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateActorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "create actor failed", err)
		return
	}
	actor, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.fail(w, r, "create actor failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, actorResponse{Success: true, Actor: actor})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.fail(w, r, "update actor failed", err)
		return
	}
	var req UpdateActorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "update actor failed", err)
		return
	}
	actor, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, "update actor failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, actorResponse{Success: true, Actor: actor})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.fail(w, r, "delete actor failed", err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "delete actor failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, deleteResponse{Success: true, Delete: id})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if httpx.StatusOf(err) >= http.StatusInternalServerError {
		h.logger.Error(msg, slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("actor %q: %w", raw, httpx.ErrNotFound)
	}
	return id, nil
}
