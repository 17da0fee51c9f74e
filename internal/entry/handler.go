// AngelaMos | 2026
// handler.go

package entry

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/rolodex/internal/core"
	"github.com/carterperez-dev/rolodex/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the entry endpoints. Create and List are open
// to any authenticated caller; Update, Delete and Export require the
// admin role regardless of who owns the target entry.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/user-entries", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Create)
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Get("/export", h.Export)
			r.Put("/{entryID}", h.Update)
			r.Delete("/{entryID}", h.Delete)
		})
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())

	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	e, err := h.service.Create(r.Context(), callerID, req)
	if err != nil {
		handleEntryError(w, err)
		return
	}

	core.Created(w, e)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	entries, err := h.service.List(
		r.Context(),
		middleware.GetUserID(r.Context()),
		middleware.IsAdmin(r.Context()),
		f,
	)
	if err != nil {
		handleEntryError(w, err)
		return
	}

	core.OK(w, entries)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")

	var req UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	e, err := h.service.Update(r.Context(), entryID, req)
	if err != nil {
		handleEntryError(w, err)
		return
	}

	core.OK(w, e)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")

	if err := h.service.Delete(r.Context(), entryID); err != nil {
		handleEntryError(w, err)
		return
	}

	core.OK(w, nil)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	data, err := h.service.Export(r.Context(), f)
	if err != nil {
		handleEntryError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set(
		"Content-Disposition",
		"attachment; filename="+ExportFilename(time.Now()),
	)
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // best-effort response write
	_, _ = w.Write(data)
}

func filterFromQuery(r *http.Request) (Filter, error) {
	q := r.URL.Query()

	f := Filter{Term: q.Get("search")}

	if raw := q.Get("from"); raw != "" {
		t, ok := parseEntryDate(raw)
		if !ok {
			return Filter{}, fmt.Errorf("invalid from date %q", raw)
		}
		f.From = t
	}

	if raw := q.Get("to"); raw != "" {
		t, ok := parseEntryDate(raw)
		if !ok {
			return Filter{}, fmt.Errorf("invalid to date %q", raw)
		}
		f.To = t
	}

	return f, nil
}

func handleEntryError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "entry")
	case errors.Is(err, core.ErrDuplicateKey):
		core.JSONError(w, core.DuplicateError("entry id"))
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	default:
		core.InternalServerError(w, err)
	}
}
