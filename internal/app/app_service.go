package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"finreport/internal/ai"
	"finreport/internal/core"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown users and wrong passwords so the
// login surface cannot be used to enumerate usernames.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrBadPeriodOrder is returned when a comparison is requested with the base
// year at or after the analysis year.
var ErrBadPeriodOrder = errors.New("base year must precede analysis year")

type appService struct {
	reports    core.ReportService
	users      core.UserService
	summarizer *ai.Summarizer
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(reports core.ReportService, users core.UserService, summarizer *ai.Summarizer) ApplicationService {
	return &appService{
		reports:    reports,
		users:      users,
		summarizer: summarizer,
	}
}

// ListPeriods returns all fiscal years with data, newest first.
func (s *appService) ListPeriods(ctx context.Context) ([]int, error) {
	return s.reports.ListPeriods(ctx)
}

// GetReport returns the classified report plus build diagnostics for a year.
func (s *appService) GetReport(ctx context.Context, year int) (*ReportResult, error) {
	report, diags, err := s.reports.BuildReport(ctx, year)
	if err != nil {
		return nil, err
	}
	return &ReportResult{Report: report, Diagnostics: diags}, nil
}

// GetVerticalAnalysis returns the percent-of-base analysis for a year,
// optionally with an AI summary.
func (s *appService) GetVerticalAnalysis(ctx context.Context, year int, withSummary bool) (*VerticalResult, error) {
	report, _, err := s.reports.BuildReport(ctx, year)
	if err != nil {
		return nil, err
	}
	analysis := core.ComputeVertical(report)

	result := &VerticalResult{Report: report, Analysis: analysis}
	if withSummary && s.summarizer.Enabled() {
		summary, err := s.summarizer.SummarizeVertical(ctx, report, analysis)
		if err != nil {
			// The summary is narrative garnish; its failure never blocks
			// the computed figures.
			log.Printf("vertical summary for %d failed: %v", year, err)
		} else {
			result.Summary = summary
		}
	}
	return result, nil
}

// GetHorizontalAnalysis compares two periods, base first.
func (s *appService) GetHorizontalAnalysis(ctx context.Context, baseYear, analysisYear int) (*HorizontalResult, error) {
	if baseYear >= analysisYear {
		return nil, fmt.Errorf("%w: got %d vs %d", ErrBadPeriodOrder, baseYear, analysisYear)
	}

	base, _, err := s.reports.BuildReport(ctx, baseYear)
	if err != nil {
		return nil, err
	}
	analysis, _, err := s.reports.BuildReport(ctx, analysisYear)
	if err != nil {
		return nil, err
	}

	return &HorizontalResult{
		Base:     base,
		Analysis: core.ComputeHorizontal(base, analysis),
	}, nil
}

// GetRatios returns the ratio analysis for a year, with prior-year values
// when the preceding period has data.
func (s *appService) GetRatios(ctx context.Context, year int) (*RatiosResult, error) {
	current, _, err := s.reports.BuildReport(ctx, year)
	if err != nil {
		return nil, err
	}

	result := &RatiosResult{}
	prior, _, err := s.reports.BuildReport(ctx, year-1)
	switch {
	case err == nil:
		result.PriorYear = year - 1
	case errors.Is(err, core.ErrPeriodNotFound), errors.Is(err, core.ErrNoBalanceData):
		prior = nil // trend column simply absent
	default:
		return nil, err
	}

	result.Analysis = core.ComputeRatios(current, prior)
	return result, nil
}

// GetSourcesAndUses returns the funds statement between year-1 and year.
func (s *appService) GetSourcesAndUses(ctx context.Context, year int) (*SourcesUsesResult, error) {
	prior, current, err := s.consecutivePair(ctx, year)
	if err != nil {
		return nil, err
	}
	return &SourcesUsesResult{Statement: core.ComputeSourcesAndUses(prior, current)}, nil
}

// GetCashFlow returns the indirect-method statement between year-1 and year.
func (s *appService) GetCashFlow(ctx context.Context, year int) (*CashFlowResult, error) {
	prior, current, err := s.consecutivePair(ctx, year)
	if err != nil {
		return nil, err
	}
	return &CashFlowResult{Statement: core.ComputeCashFlow(prior, current)}, nil
}

// GetDuPont returns the DuPont decomposition comparing year-1 and year.
func (s *appService) GetDuPont(ctx context.Context, year int) (*DuPontResult, error) {
	prior, current, err := s.consecutivePair(ctx, year)
	if err != nil {
		return nil, err
	}
	return &DuPontResult{Analysis: core.ComputeDuPont(prior, current)}, nil
}

// GetProForma projects year's income statement at the given growth rate.
func (s *appService) GetProForma(ctx context.Context, year int, growthRate float64) (*ProFormaResult, error) {
	base, _, err := s.reports.BuildReport(ctx, year)
	if err != nil {
		return nil, err
	}
	return &ProFormaResult{Projection: core.ComputeProForma(base, growthRate)}, nil
}

// AuthenticateUser verifies credentials against the stored bcrypt hash.
func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &UserSession{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

// GetUser returns user profile by ID.
func (s *appService) GetUser(ctx context.Context, userID int) (*core.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ── private helpers ───────────────────────────────────────────────────────────

// consecutivePair loads year-1 and year. Both periods must exist; two-period
// analyses have no degraded single-period form.
func (s *appService) consecutivePair(ctx context.Context, year int) (prior, current *core.Report, err error) {
	prior, _, err = s.reports.BuildReport(ctx, year-1)
	if err != nil {
		return nil, nil, fmt.Errorf("prior period: %w", err)
	}
	current, _, err = s.reports.BuildReport(ctx, year)
	if err != nil {
		return nil, nil, fmt.Errorf("analysis period: %w", err)
	}
	return prior, current, nil
}
