package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ── Outcomes ──────────────────────────────────────────────────────────────────

// ErrPeriodNotFound means the requested year has no catalog entry.
// ErrNoBalanceData means the period exists but carries zero balance rows.
// Both are normal data-completeness facts, distinct from infrastructure
// failures, which are returned wrapped and unmatched by either sentinel.
var (
	ErrPeriodNotFound = errors.New("period not found")
	ErrNoBalanceData  = errors.New("no balance data for period")
)

// ── Interfaces ────────────────────────────────────────────────────────────────

// PeriodSource is the read path into the ledger. The engine needs nothing
// else from persistence: period resolution, period enumeration, and one
// joined balance fetch per period.
type PeriodSource interface {
	// ListPeriods returns all known fiscal years, newest first.
	ListPeriods(ctx context.Context) ([]int, error)

	// ResolvePeriod returns the period id for a year, or ErrPeriodNotFound.
	ResolvePeriod(ctx context.Context, year int) (int, error)

	// FetchPeriodBalances returns the joined (account, label, subtype, amount)
	// rows for a period, ordered by category label, subtype, account id.
	FetchPeriodBalances(ctx context.Context, periodID int) ([]BalanceRow, error)
}

// ReportService builds classified period Reports from the ledger.
type ReportService interface {
	// ListPeriods returns all known fiscal years, newest first.
	ListPeriods(ctx context.Context) ([]int, error)

	// BuildReport builds the Report for a year. It returns ErrPeriodNotFound
	// or ErrNoBalanceData (with a nil Report) for the two empty outcomes, and
	// a wrapped infrastructure error when the ledger is unreachable.
	BuildReport(ctx context.Context, year int) (*Report, *BuildDiagnostics, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type reportService struct {
	src PeriodSource
}

// NewReportService constructs a ReportService over the given period source.
func NewReportService(src PeriodSource) ReportService {
	return &reportService{src: src}
}

func (s *reportService) ListPeriods(ctx context.Context) ([]int, error) {
	return s.src.ListPeriods(ctx)
}

func (s *reportService) BuildReport(ctx context.Context, year int) (*Report, *BuildDiagnostics, error) {
	periodID, err := s.src.ResolvePeriod(ctx, year)
	if err != nil {
		if errors.Is(err, ErrPeriodNotFound) {
			return nil, nil, fmt.Errorf("year %d: %w", year, ErrPeriodNotFound)
		}
		return nil, nil, fmt.Errorf("failed to resolve period %d: %w", year, err)
	}

	rows, err := s.src.FetchPeriodBalances(ctx, periodID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch balances for year %d: %w", year, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("year %d: %w", year, ErrNoBalanceData)
	}

	report, diags := BuildReport(year, rows)
	return report, diags, nil
}

// ── PostgreSQL period source ──────────────────────────────────────────────────

type pgPeriodSource struct {
	pool *pgxpool.Pool
}

// NewPGPeriodSource constructs a PeriodSource backed by the given pool.
func NewPGPeriodSource(pool *pgxpool.Pool) PeriodSource {
	return &pgPeriodSource{pool: pool}
}

func (s *pgPeriodSource) ListPeriods(ctx context.Context) ([]int, error) {
	rows, err := s.pool.Query(ctx, "SELECT year FROM periods ORDER BY year DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query periods: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("failed to scan period year: %w", err)
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("period iteration error: %w", err)
	}
	return years, nil
}

func (s *pgPeriodSource) ResolvePeriod(ctx context.Context, year int) (int, error) {
	var id int
	if err := s.pool.QueryRow(ctx,
		"SELECT id FROM periods WHERE year = $1", year,
	).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrPeriodNotFound
		}
		return 0, fmt.Errorf("failed to resolve period: %w", err)
	}
	return id, nil
}

func (s *pgPeriodSource) FetchPeriodBalances(ctx context.Context, periodID int) ([]BalanceRow, error) {
	const q = `
		SELECT a.id, a.name, a.type_label, a.subtype, b.amount
		FROM account_balances b
		JOIN accounts a ON a.id = b.account_id
		WHERE b.period_id = $1
		ORDER BY a.type_label, a.subtype, a.id`

	rows, err := s.pool.Query(ctx, q, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query period balances: %w", err)
	}
	defer rows.Close()

	var out []BalanceRow
	for rows.Next() {
		var br BalanceRow
		if err := rows.Scan(&br.AccountID, &br.Name, &br.CategoryLabel, &br.Subtype, &br.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan balance row: %w", err)
		}
		out = append(out, br)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("balance row iteration error: %w", err)
	}
	return out, nil
}
