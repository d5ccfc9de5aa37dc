package core_test

import (
	"math"
	"testing"

	"finreport/internal/core"
)

func TestComputeVertical_PercentageLaw(t *testing.T) {
	report, _ := core.BuildReport(2024, statementRows())
	va := core.ComputeVertical(report)

	balanceBase := report.Total(core.TotalAssetKey)
	incomeBase := report.Total(string(core.Revenue))
	if va.BalanceBase != balanceBase || va.IncomeBase != incomeBase {
		t.Fatalf("bases = (%f, %f), want (%f, %f)", va.BalanceBase, va.IncomeBase, balanceBase, incomeBase)
	}

	for _, cat := range core.BalanceSheetCategories {
		for _, acct := range report.AccountsIn(cat) {
			want := acct.Amount / balanceBase * 100
			if got := va.Percentage(acct.ID); got != want {
				t.Errorf("%s %q percentage = %f, want %f", cat, acct.Name, got, want)
			}
		}
	}
	for _, cat := range core.IncomeCategories {
		for _, acct := range report.AccountsIn(cat) {
			want := acct.Amount / incomeBase * 100
			if got := va.Percentage(acct.ID); got != want {
				t.Errorf("%s %q percentage = %f, want %f", cat, acct.Name, got, want)
			}
		}
	}
}

// The worked end-to-end example: an Expense account of 12,721,291.66 against
// Revenue 30,812,479.51 sizes at 41.287...%.
func TestComputeVertical_ExpenseShareOfRevenue(t *testing.T) {
	report, _ := core.BuildReport(2024, statementRows())
	va := core.ComputeVertical(report)

	got := va.Percentage(9)
	want := 12721291.66 / 30812479.51 * 100
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expense percentage = %.6f, want %.6f", got, want)
	}
	if got < 41.28 || got > 41.29 {
		t.Errorf("expense percentage = %.4f, want ~41.287", got)
	}
}

func TestComputeVertical_ZeroBase(t *testing.T) {
	rows := []core.BalanceRow{
		row(1, "Caja", "Activo", "Corriente", 0),
		row(2, "Ventas", "Ingreso", "Ventas", 1000),
		row(3, "Costo", "Costo", "Ventas", 400),
	}
	report, _ := core.BuildReport(2024, rows)
	va := core.ComputeVertical(report)

	if !va.BalanceBaseZero {
		t.Error("BalanceBaseZero should be set when Total Asset is zero")
	}
	if va.IncomeBaseZero {
		t.Error("IncomeBaseZero should not be set")
	}
	// Every balance-sheet account gets the documented 0.0 fallback, never
	// NaN or Inf.
	if got := va.Percentage(1); got != 0.0 {
		t.Errorf("zero-base percentage = %f, want 0.0", got)
	}
	if got := va.Percentage(3); got != 40.0 {
		t.Errorf("cost percentage = %f, want 40.0", got)
	}
}

func TestComputeVertical_DoesNotMutateReport(t *testing.T) {
	report, _ := core.BuildReport(2024, statementRows())
	before := report.AccountsIn(core.Asset)[0].Amount
	_ = core.ComputeVertical(report)
	after := report.AccountsIn(core.Asset)[0].Amount
	if before != after {
		t.Error("vertical analysis mutated the report")
	}
}
