package core

import "strings"

// depreciationTokens identify accumulated depreciation / amortization
// accounts. "amortiza" covers both the Spanish and English spellings up to
// the divergence point; "depreciat" likewise for English.
var depreciationTokens = []string{"depreciac", "depreciat", "amortiza"}

// IsDepreciationAccount reports whether an account name carries a
// depreciation or amortization token.
func IsDepreciationAccount(name string) bool {
	return containsAny(name, depreciationTokens)
}

// totalsAccumulator wraps the Totals map with explicit default-zero add
// semantics so no caller depends on map auto-initialization quirks.
type totalsAccumulator struct {
	m map[string]float64
}

func newTotalsAccumulator() *totalsAccumulator {
	return &totalsAccumulator{m: make(map[string]float64)}
}

// add accumulates v into key, treating a missing key as 0.0.
func (a *totalsAccumulator) add(key string, v float64) {
	a.m[key] = a.m[key] + v
}

func (a *totalsAccumulator) set(key string, v float64) { a.m[key] = v }
func (a *totalsAccumulator) get(key string) float64    { return a.m[key] }
func (a *totalsAccumulator) has(key string) bool       { _, ok := a.m[key]; return ok }

// operatingExpenseTokens mark Expense subtypes that form the operating
// expense subtotal used for Operating Profit.
var operatingExpenseTokens = []string{"operat", "operac"}

// BuildReport folds raw balance rows into a classified Report for one period.
// Row order is preserved within each subtype (the ledger query orders by
// category, subtype, account id).
//
// Row-level faults never abort the build: a row whose category label cannot
// be normalized is skipped and recorded in the diagnostics. A null amount
// reads as 0.0, matching the source data convention. Accounts whose name
// carries a depreciation/amortization token are forced negative before
// aggregation — contra-accounts must reduce their section total even when
// the balance was keyed in positive.
//
// BuildReport never returns nil; "period with no rows" is decided by the
// caller before rows are folded (see ReportService).
func BuildReport(year int, rows []BalanceRow) (*Report, *BuildDiagnostics) {
	report := &Report{
		Year:     year,
		Sections: make(map[Category]map[string][]AccountEntry, len(Categories)),
		Totals:   make(map[string]float64),
	}
	for _, cat := range Categories {
		report.Sections[cat] = make(map[string][]AccountEntry)
	}

	diags := &BuildDiagnostics{}
	totals := newTotalsAccumulator()

	for _, row := range rows {
		cat, ok := NormalizeCategory(row.CategoryLabel)
		if !ok {
			diags.SkippedRows = append(diags.SkippedRows, SkippedRow{
				AccountID: row.AccountID,
				Name:      row.Name,
				Label:     row.CategoryLabel,
				Reason:    "unclassifiable category label",
			})
			continue
		}

		amount := 0.0
		if row.Amount.Valid {
			amount = row.Amount.Decimal.InexactFloat64()
		}
		if IsDepreciationAccount(row.Name) && amount > 0 {
			amount = -amount
		}

		subtype := strings.TrimSpace(row.Subtype)
		report.Sections[cat][subtype] = append(report.Sections[cat][subtype], AccountEntry{
			ID:     row.AccountID,
			Name:   row.Name,
			Amount: amount,
		})
		totals.add(string(cat), amount)
		if subtype != "" {
			totals.add(subtype, amount)
		}
	}

	totals.set(TotalAssetKey, totals.get(string(Asset)))
	totals.set(TotalLiabilityKey, totals.get(string(Liability)))
	totals.set(TotalEquityKey, totals.get(string(Equity)))
	totals.set(TotalLiabilityEquityKey, totals.get(string(Liability))+totals.get(string(Equity)))

	grossProfit := totals.get(string(Revenue)) - totals.get(string(Cost))
	totals.set(GrossProfitKey, grossProfit)
	totals.set(OperatingProfitKey, grossProfit-operatingExpenseSubtotal(report, totals))
	totals.set(NetProfitKey, grossProfit-totals.get(string(Expense)))

	report.Totals = totals.m
	diags.BalanceResidual = totals.get(TotalAssetKey) - totals.get(TotalLiabilityEquityKey)
	return report, diags
}

// operatingExpenseSubtotal sums the Expense subtypes flagged as operating,
// in sorted subtype order so the float additions give the same result on
// every build of the same rows. Absent any operating subtype the subtotal is
// zero, which makes Operating Profit fall back to Gross Profit.
func operatingExpenseSubtotal(r *Report, totals *totalsAccumulator) float64 {
	var sum float64
	for _, subtype := range r.Subtypes(Expense) {
		if containsAny(subtype, operatingExpenseTokens) {
			sum += totals.get(subtype)
		}
	}
	return sum
}
