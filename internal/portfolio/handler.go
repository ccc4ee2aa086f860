// marciomma | 2026
// handler.go

package portfolio

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/marciomma/latam-portifolio-status-sub001/internal/core"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/middleware"
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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/portfolio", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/view", h.GetStatusView)
		r.Get("/view/country/{countryID}", h.GetStatusViewByCountry)

		r.Get("/countries", h.GetCountries)
		r.Get("/procedures", h.GetProcedures)
		r.Get("/procedures/{procedureID}/products", h.GetProductsByProcedure)
		r.Get("/product-types", h.GetProductTypes)
		r.Get("/products", h.GetProducts)
		r.Get("/statuses", h.GetStatuses)
		r.Get("/status-assignments", h.GetStatusPortfolios)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Put("/countries", h.PutCountries)
			r.Put("/procedures", h.PutProcedures)
			r.Put("/product-types", h.PutProductTypes)
			r.Put("/products", h.PutProducts)
			r.Put("/statuses", h.PutStatuses)

			r.Post("/status", h.UpdateStatus)
			r.Post("/rebuild-view", h.RebuildView)
			r.Post("/refresh-cache", h.RefreshCache)
			r.Get("/summary", h.GetSummary)
		})
	})
}

func (h *Handler) GetStatusView(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.StatusView(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	core.OK(w, entries)
}

func (h *Handler) GetStatusViewByCountry(
	w http.ResponseWriter,
	r *http.Request,
) {
	countryID := chi.URLParam(r, "countryID")
	if countryID == "" {
		core.BadRequest(w, "country ID required")
		return
	}

	entries, err := h.service.StatusViewByCountry(r.Context(), countryID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	core.OK(w, entries)
}

func (h *Handler) GetCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.service.Countries(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	core.OK(w, countries)
}

func (h *Handler) GetProcedures(w http.ResponseWriter, r *http.Request) {
	procedures, err := h.service.Procedures(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	core.OK(w, procedures)
}

func (h *Handler) GetProductsByProcedure(
	w http.ResponseWriter,
	r *http.Request,
) {
	procedureID := chi.URLParam(r, "procedureID")
	if procedureID == "" {
		core.BadRequest(w, "procedure ID required")
		return
	}

	products, err := h.service.ProductsByProcedure(r.Context(), procedureID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	core.OK(w, products)
}

func (h *Handler) GetProductTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ProductTypes(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	core.OK(w, types)
}

func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Products(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	core.OK(w, products)
}

func (h *Handler) GetStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.service.Statuses(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	core.OK(w, statuses)
}

func (h *Handler) GetStatusPortfolios(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.StatusPortfolios(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	core.OK(w, rows)
}

func (h *Handler) PutCountries(w http.ResponseWriter, r *http.Request) {
	var countries []Country
	if err := json.NewDecoder(r.Body).Decode(&countries); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.service.ReplaceCountries(r.Context(), countries); err != nil {
		writeServiceError(w, err)
		return
	}

	h.rebuildAfterEdit(w, r)
}

func (h *Handler) PutProcedures(w http.ResponseWriter, r *http.Request) {
	var procedures []Procedure
	if err := json.NewDecoder(r.Body).Decode(&procedures); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.service.ReplaceProcedures(r.Context(), procedures); err != nil {
		writeServiceError(w, err)
		return
	}

	h.rebuildAfterEdit(w, r)
}

func (h *Handler) PutProductTypes(w http.ResponseWriter, r *http.Request) {
	var types []ProductType
	if err := json.NewDecoder(r.Body).Decode(&types); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.service.ReplaceProductTypes(r.Context(), types); err != nil {
		writeServiceError(w, err)
		return
	}

	h.rebuildAfterEdit(w, r)
}

func (h *Handler) PutProducts(w http.ResponseWriter, r *http.Request) {
	var products []Product
	if err := json.NewDecoder(r.Body).Decode(&products); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.service.ReplaceProducts(r.Context(), products); err != nil {
		writeServiceError(w, err)
		return
	}

	h.rebuildAfterEdit(w, r)
}

func (h *Handler) PutStatuses(w http.ResponseWriter, r *http.Request) {
	var statuses []Status
	if err := json.NewDecoder(r.Body).Decode(&statuses); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.service.ReplaceStatuses(r.Context(), statuses); err != nil {
		writeServiceError(w, err)
		return
	}

	h.rebuildAfterEdit(w, r)
}

// rebuildAfterEdit is the explicit invalidation step every base-collection
// mutation path owes the view.
func (h *Handler) rebuildAfterEdit(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.RebuildView(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	core.OK(w, OperationResponse{
		Success: true,
		Message: "collection replaced and view rebuilt",
		Stats:   &stats,
	})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	updatedBy := middleware.GetUserEmail(r.Context())

	resp, err := h.service.UpdateStatus(r.Context(), req, updatedBy)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) RebuildView(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.RebuildView(r.Context())
	if err != nil {
		if errors.Is(err, core.ErrStoreUnavailable) {
			core.WriteJSON(w, http.StatusServiceUnavailable, OperationResponse{
				Success: false,
				Message: "storage backend unavailable",
			})
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.WriteJSON(w, http.StatusOK, OperationResponse{
		Success: true,
		Message: "portfolio status view rebuilt",
		Stats:   &stats,
	})
}

func (h *Handler) RefreshCache(w http.ResponseWriter, r *http.Request) {
	flushed := h.service.RefreshCache()

	core.WriteJSON(w, http.StatusOK, OperationResponse{
		Success: flushed,
		Message: "cache cleared; next read refetches from the store",
	})
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	core.OK(w, summary)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrStoreUnavailable):
		core.ServiceUnavailable(w)
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "resource")
	default:
		core.InternalServerError(w, err)
	}
}
