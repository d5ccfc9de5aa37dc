package core_test

import (
	"math"
	"testing"

	"finreport/internal/core"
)

// dupontReport builds a report with a fixed balance-sheet shape (assets
// 10000, liabilities 5000, equity 5000) and the given income statement.
func dupontReport(t *testing.T, year int, revenue, expense float64) *core.Report {
	t.Helper()
	r, _ := core.BuildReport(year, []core.BalanceRow{
		row(1, "Caja y Bancos", "Activo", "Corriente", 10000),
		row(2, "Préstamo Bancario", "Pasivo", "No Corriente", 5000),
		row(3, "Capital Social", "Patrimonio", "Capital", 5000),
		row(4, "Ventas", "Ingreso", "Ventas", revenue),
		row(5, "Gastos de Operación", "Gasto", "Gastos", expense),
	})
	return r
}

func TestComputeDuPont_Decomposition(t *testing.T) {
	r := dupontReport(t, 2024, 10000, 9000) // net profit 1000
	f := core.ComputeDuPont(r, r).Current

	if got, want := f.NetMargin, 0.1; math.Abs(got-want) > 1e-9 {
		t.Errorf("NetMargin = %f, want %f", got, want)
	}
	if got, want := f.AssetTurnover, 1.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("AssetTurnover = %f, want %f", got, want)
	}
	if got, want := f.EquityMultiplier, 2.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("EquityMultiplier = %f, want %f", got, want)
	}
	if got, want := f.ROE, 0.2; math.Abs(got-want) > 1e-9 {
		t.Errorf("ROE = %f, want %f (product of the three factors)", got, want)
	}
}

func TestComputeDuPont_MarginDrivesDecline(t *testing.T) {
	prior := dupontReport(t, 2023, 10000, 9000)  // ROE 0.20
	current := dupontReport(t, 2024, 10000, 9500) // ROE 0.10, only margin moved

	da := core.ComputeDuPont(prior, current)
	if got, want := da.ROEChange, -0.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("ROEChange = %f, want %f", got, want)
	}
	if da.DeterminingFactor != core.FactorNetMargin {
		t.Errorf("DeterminingFactor = %q, want %q", da.DeterminingFactor, core.FactorNetMargin)
	}
}

func TestComputeDuPont_TurnoverDrivesImprovement(t *testing.T) {
	prior := dupontReport(t, 2023, 10000, 9000)
	// Same margin and leverage, but half the asset base: turnover doubles.
	current, _ := core.BuildReport(2024, []core.BalanceRow{
		row(1, "Caja y Bancos", "Activo", "Corriente", 5000),
		row(2, "Préstamo Bancario", "Pasivo", "No Corriente", 2500),
		row(3, "Capital Social", "Patrimonio", "Capital", 2500),
		row(4, "Ventas", "Ingreso", "Ventas", 10000),
		row(5, "Gastos de Operación", "Gasto", "Gastos", 9000),
	})

	da := core.ComputeDuPont(prior, current)
	if da.ROEChange <= 0 {
		t.Fatalf("ROEChange = %f, want an improvement", da.ROEChange)
	}
	if da.DeterminingFactor != core.FactorAssetTurnover {
		t.Errorf("DeterminingFactor = %q, want %q", da.DeterminingFactor, core.FactorAssetTurnover)
	}
}

func TestComputeDuPont_StableROE(t *testing.T) {
	prior := dupontReport(t, 2023, 10000, 9000)
	current := dupontReport(t, 2024, 10000, 9000)

	da := core.ComputeDuPont(prior, current)
	if da.DeterminingFactor != core.FactorStable {
		t.Errorf("DeterminingFactor = %q, want %q", da.DeterminingFactor, core.FactorStable)
	}
	if da.ROEChange != 0 {
		t.Errorf("ROEChange = %f, want 0", da.ROEChange)
	}
}

func TestComputeDuPont_ZeroDenominators(t *testing.T) {
	prior := dupontReport(t, 2023, 10000, 9000)
	// No revenue, no equity: every factor degrades to 0.0, never NaN.
	current, _ := core.BuildReport(2024, []core.BalanceRow{
		row(1, "Caja y Bancos", "Activo", "Corriente", 10000),
		row(2, "Préstamo Bancario", "Pasivo", "No Corriente", 10000),
	})

	da := core.ComputeDuPont(prior, current)
	f := da.Current
	for name, v := range map[string]float64{
		"NetMargin":        f.NetMargin,
		"AssetTurnover":    f.AssetTurnover,
		"EquityMultiplier": f.EquityMultiplier,
		"ROE":              f.ROE,
	} {
		if v != 0 {
			t.Errorf("%s = %f, want 0", name, v)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s = %f, want a finite value", name, v)
		}
	}
}
