package movies

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
		h.fail(w, r, "list movies failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Success: true, Movies: res.Movies, Total: res.Total})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.fail(w, r, "get movie failed", err)
		return
	}
	movie, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get movie failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, movieResponse{Success: true, Movie: movie})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMovieRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "create movie failed", err)
		return
	}
	movie, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.fail(w, r, "create movie failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, movieResponse{Success: true, Movie: movie})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.fail(w, r, "update movie failed", err)
		return
	}
	var req UpdateMovieRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "update movie failed", err)
		return
	}
	movie, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, "update movie failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, movieResponse{Success: true, Movie: movie})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.fail(w, r, "delete movie failed", err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "delete movie failed", err)
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
		return 0, fmt.Errorf("movie %q: %w", raw, httpx.ErrNotFound)
	}
	return id, nil
}
