package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"finreport/internal/core"
)

// ── Period and report handlers ────────────────────────────────────────────────

// apiListPeriods handles GET /api/periods.
func (h *Handler) apiListPeriods(w http.ResponseWriter, r *http.Request) {
	years, err := h.svc.ListPeriods(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Periods []int `json:"periods"`
	}
	writeJSON(w, response{Periods: years})
}

// apiReport handles GET /api/reports/{year}.
func (h *Handler) apiReport(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r, "year")
	if !ok {
		return
	}
	result, err := h.svc.GetReport(r.Context(), year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// ── Analysis handlers ─────────────────────────────────────────────────────────

// apiVertical handles GET /api/analysis/vertical/{year}?summary=1.
func (h *Handler) apiVertical(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r, "year")
	if !ok {
		return
	}
	withSummary := r.URL.Query().Get("summary") == "1"

	result, err := h.svc.GetVerticalAnalysis(r.Context(), year, withSummary)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiHorizontal handles GET /api/analysis/horizontal/{base}/{analysis}.
func (h *Handler) apiHorizontal(w http.ResponseWriter, r *http.Request) {
	baseYear, ok := yearParam(w, r, "base")
	if !ok {
		return
	}
	analysisYear, ok := yearParam(w, r, "analysis")
	if !ok {
		return
	}

	result, err := h.svc.GetHorizontalAnalysis(r.Context(), baseYear, analysisYear)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiRatios handles GET /api/analysis/ratios/{year}.
func (h *Handler) apiRatios(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r, "year")
	if !ok {
		return
	}
	result, err := h.svc.GetRatios(r.Context(), year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiSourcesUses handles GET /api/analysis/sources-uses/{year}.
func (h *Handler) apiSourcesUses(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r, "year")
	if !ok {
		return
	}
	result, err := h.svc.GetSourcesAndUses(r.Context(), year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiCashFlow handles GET /api/analysis/cashflow/{year}.
func (h *Handler) apiCashFlow(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r, "year")
	if !ok {
		return
	}
	result, err := h.svc.GetCashFlow(r.Context(), year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiDuPont handles GET /api/analysis/dupont/{year}.
func (h *Handler) apiDuPont(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r, "year")
	if !ok {
		return
	}
	result, err := h.svc.GetDuPont(r.Context(), year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiProForma handles GET /api/analysis/proforma/{year}?growth=0.10.
func (h *Handler) apiProForma(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r, "year")
	if !ok {
		return
	}

	growth := 0.0
	if g := r.URL.Query().Get("growth"); g != "" {
		parsed, err := strconv.ParseFloat(g, 64)
		if err != nil || parsed < -1 {
			writeError(w, r, "invalid growth rate: "+g, "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		growth = parsed
	}

	result, err := h.svc.GetProForma(r.Context(), year, growth)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// ── CSV exports ───────────────────────────────────────────────────────────────

// exportReportCSV handles GET /api/export/report/{year}. Streams the
// classified report as CSV, one row per account plus the derived totals.
func (h *Handler) exportReportCSV(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r, "year")
	if !ok {
		return
	}
	result, err := h.svc.GetReport(r.Context(), year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	report := result.Report

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%d.csv"`, year))
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Category", "Subtype", "Account", "Amount"})
	for _, cat := range core.Categories {
		for _, subtype := range report.Subtypes(cat) {
			for _, acct := range report.Sections[cat][subtype] {
				_ = cw.Write([]string{
					string(cat),
					csvSafe(subtype),
					csvSafe(acct.Name),
					strconv.FormatFloat(acct.Amount, 'f', 2, 64),
				})
			}
		}
	}
	for _, key := range []string{
		core.TotalAssetKey, core.TotalLiabilityKey, core.TotalEquityKey,
		core.TotalLiabilityEquityKey, core.GrossProfitKey,
		core.OperatingProfitKey, core.NetProfitKey,
	} {
		_ = cw.Write([]string{"Total", "", key, strconv.FormatFloat(report.Total(key), 'f', 2, 64)})
	}
	cw.Flush()
}

// exportHorizontalCSV handles GET /api/export/horizontal/{base}/{analysis}.
func (h *Handler) exportHorizontalCSV(w http.ResponseWriter, r *http.Request) {
	baseYear, ok := yearParam(w, r, "base")
	if !ok {
		return
	}
	analysisYear, ok := yearParam(w, r, "analysis")
	if !ok {
		return
	}

	result, err := h.svc.GetHorizontalAnalysis(r.Context(), baseYear, analysisYear)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	ca := result.Analysis

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="horizontal-%d-%d.csv"`, baseYear, analysisYear))
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Category", "Subtype", "Account", "Base", "Analysis", "Absolute", "Relative %"})
	for _, cat := range core.Categories {
		for _, subtype := range sortedKeys(ca.Sections[cat]) {
			for _, entry := range ca.Sections[cat][subtype] {
				_ = cw.Write([]string{
					string(cat),
					csvSafe(subtype),
					csvSafe(entry.Name),
					strconv.FormatFloat(entry.Base, 'f', 2, 64),
					strconv.FormatFloat(entry.Analysis, 'f', 2, 64),
					strconv.FormatFloat(entry.Absolute, 'f', 2, 64),
					relativeCell(entry.Relative),
				})
			}
		}
	}
	cw.Flush()
}

func sortedKeys(m map[string][]core.ComparativeEntry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// relativeCell renders a relative change for CSV, keeping the infinite
// sentinel readable.
func relativeCell(rel core.Relative) string {
	if rel.IsInf() {
		if rel > 0 {
			return "Infinity"
		}
		return "-Infinity"
	}
	return strconv.FormatFloat(float64(rel), 'f', 2, 64)
}

// csvSafe prevents CSV formula injection by prefixing cells that begin with a
// formula-triggering character with a single quote.
func csvSafe(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
