package core_test

import (
	"context"
	"errors"
	"testing"

	"finreport/internal/core"
)

// fakePeriodSource serves canned balance rows keyed by year.
type fakePeriodSource struct {
	years    []int
	balances map[int][]core.BalanceRow // keyed by period id == year
	failWith error
}

func (f *fakePeriodSource) ListPeriods(ctx context.Context) ([]int, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.years, nil
}

func (f *fakePeriodSource) ResolvePeriod(ctx context.Context, year int) (int, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	for _, y := range f.years {
		if y == year {
			return year, nil
		}
	}
	return 0, core.ErrPeriodNotFound
}

func (f *fakePeriodSource) FetchPeriodBalances(ctx context.Context, periodID int) ([]core.BalanceRow, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.balances[periodID], nil
}

func TestReportService_BuildReport(t *testing.T) {
	src := &fakePeriodSource{
		years: []int{2024, 2023},
		balances: map[int][]core.BalanceRow{
			2024: {
				row(1, "Caja", "Activo", "Corriente", 1000),
				row(2, "Capital Social", "Patrimonio", "Capital", 1000),
			},
		},
	}
	svc := core.NewReportService(src)

	report, diags, err := svc.BuildReport(context.Background(), 2024)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if report.Year != 2024 {
		t.Errorf("Year = %d, want 2024", report.Year)
	}
	if got := report.Total(core.TotalAssetKey); got != 1000 {
		t.Errorf("Total Asset = %f, want 1000", got)
	}
	if diags == nil || len(diags.SkippedRows) != 0 {
		t.Errorf("diagnostics = %+v, want empty skip list", diags)
	}
}

func TestReportService_PeriodNotFound(t *testing.T) {
	svc := core.NewReportService(&fakePeriodSource{years: []int{2023}})

	report, _, err := svc.BuildReport(context.Background(), 1999)
	if !errors.Is(err, core.ErrPeriodNotFound) {
		t.Fatalf("err = %v, want ErrPeriodNotFound", err)
	}
	if report != nil {
		t.Error("report must be nil for an unknown period")
	}
}

func TestReportService_NoBalanceData(t *testing.T) {
	// The period exists in the catalog but carries no rows. This is a
	// distinct outcome from an unknown period.
	svc := core.NewReportService(&fakePeriodSource{years: []int{2024}})

	report, _, err := svc.BuildReport(context.Background(), 2024)
	if !errors.Is(err, core.ErrNoBalanceData) {
		t.Fatalf("err = %v, want ErrNoBalanceData", err)
	}
	if errors.Is(err, core.ErrPeriodNotFound) {
		t.Error("empty period must not match ErrPeriodNotFound")
	}
	if report != nil {
		t.Error("report must be nil for an empty period")
	}
}

func TestReportService_InfrastructureErrorIsWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	svc := core.NewReportService(&fakePeriodSource{failWith: boom})

	_, _, err := svc.BuildReport(context.Background(), 2024)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the underlying failure preserved", err)
	}
	if errors.Is(err, core.ErrPeriodNotFound) || errors.Is(err, core.ErrNoBalanceData) {
		t.Error("infrastructure failures must not match the data-completeness sentinels")
	}
}

func TestReportService_ListPeriods(t *testing.T) {
	svc := core.NewReportService(&fakePeriodSource{years: []int{2025, 2024, 2023}})

	years, err := svc.ListPeriods(context.Background())
	if err != nil {
		t.Fatalf("ListPeriods: %v", err)
	}
	if len(years) != 3 || years[0] != 2025 {
		t.Errorf("years = %v, want newest first", years)
	}
}
