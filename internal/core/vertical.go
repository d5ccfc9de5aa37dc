package core

// VerticalAnalysis is the common-size view of one Report. The Report itself
// is never mutated: percentages live in a parallel map keyed by account id,
// so the same Report can feed several analyses safely.
//
// Balance-sheet accounts are sized against Total Asset, income-statement
// accounts against total Revenue. A zero or negative base yields 0.0 for
// every account in that scope; the corresponding BaseZero flag tells the
// caller the percentages are a documented fallback, not real figures.
type VerticalAnalysis struct {
	Year            int                `json:"year"`
	BalanceBase     float64            `json:"balance_base"`
	IncomeBase      float64            `json:"income_base"`
	BalanceBaseZero bool               `json:"balance_base_zero"`
	IncomeBaseZero  bool               `json:"income_base_zero"`
	Percentages     map[int]float64    `json:"percentages"`
	TotalPercents   map[string]float64 `json:"total_percents"`
}

// Percentage returns the common-size percentage for an account id, or 0.0
// when the account was out of scope.
func (v *VerticalAnalysis) Percentage(accountID int) float64 {
	return v.Percentages[accountID]
}

// ComputeVertical computes the vertical (common-size) analysis of a Report.
// Every account in the six categories receives exactly one percentage entry.
// TotalPercents additionally sizes each subtype subtotal and the Gross/Net
// Profit totals against the applicable base, for display and summarization.
func ComputeVertical(r *Report) *VerticalAnalysis {
	va := &VerticalAnalysis{
		Year:          r.Year,
		BalanceBase:   r.Total(TotalAssetKey),
		IncomeBase:    r.Total(string(Revenue)),
		Percentages:   make(map[int]float64),
		TotalPercents: make(map[string]float64),
	}
	va.BalanceBaseZero = va.BalanceBase <= 0
	va.IncomeBaseZero = va.IncomeBase <= 0

	fill := func(cats []Category, base float64, baseZero bool) {
		for _, cat := range cats {
			for _, subtype := range r.Subtypes(cat) {
				for _, acct := range r.Sections[cat][subtype] {
					if baseZero {
						va.Percentages[acct.ID] = 0.0
						continue
					}
					va.Percentages[acct.ID] = acct.Amount / base * 100
				}
				if subtype != "" && !baseZero {
					va.TotalPercents[subtype] = r.Total(subtype) / base * 100
				}
			}
		}
	}
	fill(BalanceSheetCategories, va.BalanceBase, va.BalanceBaseZero)
	fill(IncomeCategories, va.IncomeBase, va.IncomeBaseZero)

	if !va.IncomeBaseZero {
		va.TotalPercents[GrossProfitKey] = r.Total(GrossProfitKey) / va.IncomeBase * 100
		va.TotalPercents[NetProfitKey] = r.Total(NetProfitKey) / va.IncomeBase * 100
	}
	return va
}
