package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"finreport/internal/app"
	"finreport/internal/core"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB, public routes included

	// ── Health (public) ───────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Auth (public) ─────────────────────────────────────────────────────────
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/api/auth/me", h.me)

		r.Get("/api/periods", h.apiListPeriods)
		r.Get("/api/reports/{year}", h.apiReport)

		r.Get("/api/analysis/vertical/{year}", h.apiVertical)
		r.Get("/api/analysis/horizontal/{base}/{analysis}", h.apiHorizontal)
		r.Get("/api/analysis/ratios/{year}", h.apiRatios)
		r.Get("/api/analysis/sources-uses/{year}", h.apiSourcesUses)
		r.Get("/api/analysis/cashflow/{year}", h.apiCashFlow)
		r.Get("/api/analysis/dupont/{year}", h.apiDuPont)
		r.Get("/api/analysis/proforma/{year}", h.apiProForma)

		// CSV exports are an admin surface.
		r.Group(func(r chi.Router) {
			r.Use(RequireRole(core.RoleAdmin))
			r.Get("/api/export/report/{year}", h.exportReportCSV)
			r.Get("/api/export/horizontal/{base}/{analysis}", h.exportHorizontalCSV)
		})
	})

	h.router = r
	return r
}

// health returns service status and the known fiscal years.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	years, err := h.svc.ListPeriods(r.Context())
	status := "ok"
	if err != nil {
		status = "degraded"
		years = nil
	}

	type response struct {
		Status  string `json:"status"`
		Periods []int  `json:"periods"`
	}
	writeJSON(w, response{Status: status, Periods: years})
}

// yearParam extracts and parses a year URL parameter. Writes a 400 and
// returns false when the value is not a plausible fiscal year.
func yearParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 3000 {
		writeError(w, r, "invalid year: "+raw, "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return year, true
}

// writeServiceError maps application errors onto HTTP statuses: the two
// data-completeness sentinels become 404s with distinct codes, validation
// errors 400, everything else 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrPeriodNotFound):
		writeError(w, r, err.Error(), "PERIOD_NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrNoBalanceData):
		writeError(w, r, err.Error(), "NO_BALANCE_DATA", http.StatusNotFound)
	case errors.Is(err, app.ErrBadPeriodOrder):
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
	default:
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
