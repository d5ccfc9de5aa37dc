package core_test

import (
	"testing"

	"finreport/internal/core"
)

func TestComputeSourcesAndUses_SignConvention(t *testing.T) {
	base, _ := core.BuildReport(2023, []core.BalanceRow{
		row(1, "Inventario", "Activo", "Corriente", 1000),
		row(2, "Préstamo Bancario", "Pasivo", "No Corriente", 500),
		row(3, "Maquinaria", "Activo", "Fijo", 2000),
		row(4, "Capital Social", "Patrimonio", "Capital", 3000),
	})
	analysis, _ := core.BuildReport(2024, []core.BalanceRow{
		row(1, "Inventario", "Activo", "Corriente", 600),    // asset down → source
		row(2, "Préstamo Bancario", "Pasivo", "No Corriente", 900), // liability up → source
		row(3, "Maquinaria", "Activo", "Fijo", 2500),        // asset up → use
		row(4, "Capital Social", "Patrimonio", "Capital", 2800), // equity down → use
	})

	su := core.ComputeSourcesAndUses(base, analysis)

	if su.Origin.Total < 800 {
		t.Errorf("Origin total = %f, want >= 800", su.Origin.Total)
	}
	if got, want := su.Origin.Total, 400.0+400.0; got != want {
		t.Errorf("Origin total = %f, want %f", got, want)
	}
	if got, want := su.Application.Total, 500.0+200.0; got != want {
		t.Errorf("Application total = %f, want %f", got, want)
	}
	if got, want := su.Residual, 100.0; got != want {
		t.Errorf("Residual = %f, want %f", got, want)
	}

	origins := su.Origin.Entries["Corriente"]
	if len(origins) != 1 || origins[0].AccountID != 1 || origins[0].Variation != 400 {
		t.Errorf("Corriente origin entries = %+v, want inventario variation 400", origins)
	}
	if got := su.Origin.Subtotals["No Corriente"]; got != 400 {
		t.Errorf("No Corriente origin subtotal = %f, want 400", got)
	}
	if got := su.Application.Subtotals["Fijo"]; got != 500 {
		t.Errorf("Fijo application subtotal = %f, want 500", got)
	}
}

func TestComputeSourcesAndUses_SkipsNegligible(t *testing.T) {
	base, _ := core.BuildReport(2023, []core.BalanceRow{
		row(1, "Caja", "Activo", "Corriente", 100),
		row(2, "Terreno", "Activo", "Fijo", 0),
		row(3, "Inventario", "Activo", "Corriente", 500.004),
	})
	analysis, _ := core.BuildReport(2024, []core.BalanceRow{
		row(1, "Caja", "Activo", "Corriente", 100),
		row(2, "Terreno", "Activo", "Fijo", 0),
		row(3, "Inventario", "Activo", "Corriente", 500.009),
	})

	su := core.ComputeSourcesAndUses(base, analysis)
	if su.Origin.Total != 0 || su.Application.Total != 0 {
		t.Errorf("negligible variations should be skipped, got origin=%f application=%f",
			su.Origin.Total, su.Application.Total)
	}
}

func TestComputeSourcesAndUses_IgnoresIncomeStatement(t *testing.T) {
	base, _ := core.BuildReport(2023, []core.BalanceRow{
		row(1, "Ventas", "Ingreso", "Ventas", 1000),
	})
	analysis, _ := core.BuildReport(2024, []core.BalanceRow{
		row(1, "Ventas", "Ingreso", "Ventas", 5000),
	})
	su := core.ComputeSourcesAndUses(base, analysis)
	if su.Origin.Total != 0 || su.Application.Total != 0 {
		t.Error("income-statement accounts must not enter sources and uses")
	}
}
