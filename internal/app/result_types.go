package app

import (
	"finreport/internal/ai"
	"finreport/internal/core"
)

// ReportResult is returned by GetReport.
type ReportResult struct {
	Report      *core.Report           `json:"report"`
	Diagnostics *core.BuildDiagnostics `json:"diagnostics"`
}

// VerticalResult is returned by GetVerticalAnalysis. Summary is nil unless it
// was requested and the summarizer produced one.
type VerticalResult struct {
	Report   *core.Report           `json:"report"`
	Analysis *core.VerticalAnalysis `json:"analysis"`
	Summary  *ai.ReportSummary      `json:"summary,omitempty"`
}

// HorizontalResult is returned by GetHorizontalAnalysis.
type HorizontalResult struct {
	Base     *core.Report              `json:"base"`
	Analysis *core.ComparativeAnalysis `json:"analysis"`
}

// RatiosResult is returned by GetRatios. PriorYear is zero when no preceding
// period exists.
type RatiosResult struct {
	Analysis  *core.RatioAnalysis `json:"analysis"`
	PriorYear int                 `json:"prior_year,omitempty"`
}

// SourcesUsesResult is returned by GetSourcesAndUses.
type SourcesUsesResult struct {
	Statement *core.SourcesAndUses `json:"statement"`
}

// CashFlowResult is returned by GetCashFlow.
type CashFlowResult struct {
	Statement *core.CashFlowStatement `json:"statement"`
}

// DuPontResult is returned by GetDuPont.
type DuPontResult struct {
	Analysis *core.DuPontAnalysis `json:"analysis"`
}

// ProFormaResult is returned by GetProForma.
type ProFormaResult struct {
	Projection *core.ProFormaProjection `json:"projection"`
}

// UserSession is the authenticated identity handed to adapters.
type UserSession struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
