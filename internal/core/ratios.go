package core

import "fmt"

// ── Ratio types ───────────────────────────────────────────────────────────────

// RatioState is the qualitative position of a ratio against its band.
type RatioState string

const (
	RatioOptimal RatioState = "optimal"
	RatioHigh    RatioState = "high"
	RatioLow     RatioState = "low"
	// RatioNormal is used only by return-style ratios with a two-step band.
	RatioNormal RatioState = "normal"
)

// Ratio is one named financial ratio: its value, the formula it came from,
// the fixed optimality band, the qualitative state, and a deterministic
// templated interpretation (plain string formatting, never generated text).
type Ratio struct {
	Name           string     `json:"name"`
	Value          float64    `json:"value"`
	Formula        string     `json:"formula"`
	OptimalRange   string     `json:"optimal_range"`
	State          RatioState `json:"state"`
	Interpretation string     `json:"interpretation"`
}

// RatioAnalysis groups the four ratio families for one period. PriorValues
// carries the same ratios computed over the optional prior Report, for trend
// display only; point-in-time states never depend on it.
type RatioAnalysis struct {
	Year          int                `json:"year"`
	PriorYear     int                `json:"prior_year,omitempty"`
	Liquidity     []Ratio            `json:"liquidity"`
	Activity      []Ratio            `json:"activity"`
	Leverage      []Ratio            `json:"leverage"`
	Profitability []Ratio            `json:"profitability"`
	PriorValues   map[string]float64 `json:"prior_values,omitempty"`
}

// All ratios of the analysis flattened, family order preserved.
func (ra *RatioAnalysis) All() []Ratio {
	out := make([]Ratio, 0, len(ra.Liquidity)+len(ra.Activity)+len(ra.Leverage)+len(ra.Profitability))
	out = append(out, ra.Liquidity...)
	out = append(out, ra.Activity...)
	out = append(out, ra.Leverage...)
	out = append(out, ra.Profitability...)
	return out
}

// ── Figure extraction ─────────────────────────────────────────────────────────

// Token tables for pulling raw figures out of a Report by subtype and
// account-name matching. Bilingual: the catalogs this engine was built for
// are Spanish, but English names must classify the same way.
var (
	currentSubtypeTokens = []string{"current", "corriente", "circulante"}
	// Checked before the current tokens: "Pasivo No Corriente" contains
	// "corriente" and must not count as current.
	nonCurrentSubtypeTokens = []string{"no corriente", "non-current", "noncurrent", "non current", "no circulante"}
	inventoryTokens        = []string{"inventor", "inventar", "existenc", "mercader"}
	receivableTokens       = []string{"receivable", "cobrar", "client", "deudor"}
	fixedAssetTokens       = []string{"fixed", "fijo", "property", "propiedad", "equip", "maquinar", "machin", "edificio", "building", "terreno", "land", "vehic", "mobiliario", "furniture", "plant"}
	financialExpenseTokens = []string{"financ", "interes", "interest"}
)

// ratioFigures are the raw inputs to the four ratio families, extracted once
// per Report.
type ratioFigures struct {
	currentAssets      float64
	currentLiabilities float64
	inventory          float64
	receivables        float64
	fixedAssets        float64
	financialExpense   float64
	totalAssets        float64
	totalLiabilities   float64
	totalEquity        float64
	revenue            float64
	cost               float64
	grossProfit        float64
	operatingProfit    float64
	netProfit          float64
}

func extractRatioFigures(r *Report) ratioFigures {
	f := ratioFigures{
		totalAssets:      r.Total(TotalAssetKey),
		totalLiabilities: r.Total(TotalLiabilityKey),
		totalEquity:      r.Total(TotalEquityKey),
		revenue:          r.Total(string(Revenue)),
		cost:             r.Total(string(Cost)),
		grossProfit:      r.Total(GrossProfitKey),
		operatingProfit:  r.Total(OperatingProfitKey),
		netProfit:        r.Total(NetProfitKey),
	}
	// Subtype-level sums are computed from the section's own accounts, not
	// the global subtype totals: subtype names like "Corriente" repeat across
	// categories and their global totals mix sections.
	for _, subtype := range r.Subtypes(Asset) {
		if isCurrentSubtype(subtype) {
			for _, acct := range r.Sections[Asset][subtype] {
				f.currentAssets += acct.Amount
			}
		}
	}
	for _, subtype := range r.Subtypes(Liability) {
		if isCurrentSubtype(subtype) {
			for _, acct := range r.Sections[Liability][subtype] {
				f.currentLiabilities += acct.Amount
			}
		}
	}
	for _, acct := range r.AccountsIn(Asset) {
		switch {
		case containsAny(acct.Name, inventoryTokens):
			f.inventory += acct.Amount
		case containsAny(acct.Name, receivableTokens):
			f.receivables += acct.Amount
		case containsAny(acct.Name, fixedAssetTokens) && !IsDepreciationAccount(acct.Name):
			f.fixedAssets += acct.Amount
		}
	}
	for _, acct := range r.AccountsIn(Expense) {
		if containsAny(acct.Name, financialExpenseTokens) {
			f.financialExpense += acct.Amount
		}
	}
	return f
}

func isCurrentSubtype(subtype string) bool {
	return containsAny(subtype, currentSubtypeTokens) &&
		!containsAny(subtype, nonCurrentSubtypeTokens)
}

// ── Computation ───────────────────────────────────────────────────────────────

// ComputeRatios derives the four ratio families from the current Report.
// prior may be nil; when given it only populates PriorValues for trend
// display. Every ratio with a zero denominator is omitted entirely rather
// than emitted as Inf/NaN.
func ComputeRatios(current, prior *Report) *RatioAnalysis {
	ra := &RatioAnalysis{Year: current.Year}
	f := extractRatioFigures(current)
	ra.Liquidity = liquidityRatios(f)
	ra.Activity = activityRatios(f)
	ra.Leverage = leverageRatios(f)
	ra.Profitability = profitabilityRatios(f)

	if prior != nil {
		ra.PriorYear = prior.Year
		pf := extractRatioFigures(prior)
		pa := &RatioAnalysis{
			Liquidity:     liquidityRatios(pf),
			Activity:      activityRatios(pf),
			Leverage:      leverageRatios(pf),
			Profitability: profitabilityRatios(pf),
		}
		ra.PriorValues = make(map[string]float64)
		for _, ratio := range pa.All() {
			ra.PriorValues[ratio.Name] = ratio.Value
		}
	}
	return ra
}

func liquidityRatios(f ratioFigures) []Ratio {
	var out []Ratio
	if f.currentLiabilities != 0 {
		v := f.currentAssets / f.currentLiabilities
		out = append(out, bandRatio("Current Ratio", v,
			"Current Assets / Current Liabilities", 1.5, 2.0))
		quick := (f.currentAssets - f.inventory) / f.currentLiabilities
		out = append(out, floorRatio("Quick Ratio", quick,
			"(Current Assets - Inventory) / Current Liabilities", 1.0))
	}
	wc := f.currentAssets - f.currentLiabilities
	state := RatioOptimal
	if wc <= 0 {
		state = RatioLow
	}
	out = append(out, Ratio{
		Name:           "Working Capital",
		Value:          wc,
		Formula:        "Current Assets - Current Liabilities",
		OptimalRange:   "> 0",
		State:          state,
		Interpretation: interpret("Working Capital", wc, state, "> 0"),
	})
	return out
}

func activityRatios(f ratioFigures) []Ratio {
	var out []Ratio
	if f.inventory != 0 {
		out = append(out, bandRatio("Inventory Turnover", f.cost/f.inventory,
			"Cost of Sales / Inventory", 5, 10))
	}
	if f.receivables != 0 {
		turnover := f.revenue / f.receivables
		out = append(out, bandRatio("Receivables Turnover", turnover,
			"Revenue / Receivables", 6, 12))
		if turnover != 0 {
			out = append(out, bandRatio("Days Sales Outstanding", 360/turnover,
				"360 / Receivables Turnover", 30, 45))
		}
	}
	if f.fixedAssets != 0 {
		out = append(out, bandRatio("Fixed-Asset Turnover", f.revenue/f.fixedAssets,
			"Revenue / Fixed Assets", 5, 8))
	}
	if f.totalAssets != 0 {
		out = append(out, bandRatio("Total-Asset Turnover", f.revenue/f.totalAssets,
			"Revenue / Total Assets", 1.0, 2.5))
	}
	return out
}

func leverageRatios(f ratioFigures) []Ratio {
	var out []Ratio
	if f.totalAssets != 0 {
		out = append(out, bandRatio("Debt Ratio", f.totalLiabilities/f.totalAssets,
			"Total Liabilities / Total Assets", 0.3, 0.5))
	}
	if f.totalEquity != 0 {
		out = append(out, bandRatio("Debt-to-Equity", f.totalLiabilities/f.totalEquity,
			"Total Liabilities / Total Equity", 0.5, 1.0))
	}
	if f.financialExpense != 0 {
		out = append(out, bandRatio("Interest Coverage", f.operatingProfit/f.financialExpense,
			"Operating Profit / Financial Expense", 3, 5))
	}
	return out
}

func profitabilityRatios(f ratioFigures) []Ratio {
	var out []Ratio
	if f.revenue != 0 {
		out = append(out, bandRatio("Gross Margin", f.grossProfit/f.revenue*100,
			"Gross Profit / Revenue x 100", 20, 40))
		out = append(out, bandRatio("Operating Margin", f.operatingProfit/f.revenue*100,
			"Operating Profit / Revenue x 100", 10, 20))
		out = append(out, bandRatio("Net Margin", f.netProfit/f.revenue*100,
			"Net Profit / Revenue x 100", 5, 10))
	}
	if f.totalAssets != 0 {
		out = append(out, bandRatio("Return on Assets", f.netProfit/f.totalAssets*100,
			"Net Profit / Total Assets x 100", 5, 10))
	}
	if f.totalEquity != 0 {
		roe := f.netProfit / f.totalEquity * 100
		state := RatioLow
		switch {
		case roe >= 15:
			state = RatioOptimal
		case roe >= 10:
			state = RatioNormal
		}
		out = append(out, Ratio{
			Name:           "Return on Equity",
			Value:          roe,
			Formula:        "Net Profit / Total Equity x 100",
			OptimalRange:   ">= 15 (normal >= 10)",
			State:          state,
			Interpretation: interpret("Return on Equity", roe, state, ">= 15"),
		})
	}
	return out
}

// ── Band helpers ──────────────────────────────────────────────────────────────

// bandRatio builds a ratio with a closed [lo, hi] optimal band: below is
// "low", above is "high".
func bandRatio(name string, value float64, formula string, lo, hi float64) Ratio {
	var state RatioState
	switch {
	case value < lo:
		state = RatioLow
	case value > hi:
		state = RatioHigh
	default:
		state = RatioOptimal
	}
	rangeDesc := fmt.Sprintf("%g - %g", lo, hi)
	return Ratio{
		Name:           name,
		Value:          value,
		Formula:        formula,
		OptimalRange:   rangeDesc,
		State:          state,
		Interpretation: interpret(name, value, state, rangeDesc),
	}
}

// floorRatio builds a ratio whose band is a single lower bound.
func floorRatio(name string, value float64, formula string, lo float64) Ratio {
	state := RatioOptimal
	if value < lo {
		state = RatioLow
	}
	rangeDesc := fmt.Sprintf(">= %g", lo)
	return Ratio{
		Name:           name,
		Value:          value,
		Formula:        formula,
		OptimalRange:   rangeDesc,
		State:          state,
		Interpretation: interpret(name, value, state, rangeDesc),
	}
}

// interpret renders the deterministic one-sentence reading of a ratio.
func interpret(name string, value float64, state RatioState, rangeDesc string) string {
	switch state {
	case RatioOptimal:
		return fmt.Sprintf("%s of %.2f is within the optimal range (%s).", name, value, rangeDesc)
	case RatioNormal:
		return fmt.Sprintf("%s of %.2f is acceptable but below the optimal range (%s).", name, value, rangeDesc)
	case RatioHigh:
		return fmt.Sprintf("%s of %.2f is above the optimal range (%s).", name, value, rangeDesc)
	default:
		return fmt.Sprintf("%s of %.2f is below the optimal range (%s).", name, value, rangeDesc)
	}
}
