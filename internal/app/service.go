package app

import (
	"context"

	"finreport/internal/core"
)

// ApplicationService is the single interface all UI adapters (Web, CLI) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// ListPeriods returns all fiscal years with data, newest first.
	ListPeriods(ctx context.Context) ([]int, error)

	// GetReport returns the classified report for a year together with its
	// build diagnostics (skipped rows, balance residual).
	GetReport(ctx context.Context, year int) (*ReportResult, error)

	// GetVerticalAnalysis returns the vertical (percent-of-base) analysis for
	// a year. When withSummary is set and the summarizer is configured, the
	// result carries an AI-written executive summary; summarizer failures
	// degrade to a nil summary and never fail the analysis.
	GetVerticalAnalysis(ctx context.Context, year int, withSummary bool) (*VerticalResult, error)

	// GetHorizontalAnalysis compares two periods. baseYear must precede
	// analysisYear.
	GetHorizontalAnalysis(ctx context.Context, baseYear, analysisYear int) (*HorizontalResult, error)

	// GetRatios returns the ratio analysis for a year. The immediately
	// preceding year, when present, contributes prior values for trend
	// display; its absence is not an error.
	GetRatios(ctx context.Context, year int) (*RatiosResult, error)

	// GetSourcesAndUses returns the funds statement between year-1 and year.
	GetSourcesAndUses(ctx context.Context, year int) (*SourcesUsesResult, error)

	// GetCashFlow returns the indirect-method cash flow statement between
	// year-1 and year.
	GetCashFlow(ctx context.Context, year int) (*CashFlowResult, error)

	// GetDuPont returns the DuPont decomposition comparing year-1 and year.
	GetDuPont(ctx context.Context, year int) (*DuPontResult, error)

	// GetProForma projects year's income statement at the given growth rate
	// using the default flat tax rate.
	GetProForma(ctx context.Context, year int, growthRate float64) (*ProFormaResult, error)

	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error)

	// GetUser returns user profile by ID.
	GetUser(ctx context.Context, userID int) (*core.User, error)
}
