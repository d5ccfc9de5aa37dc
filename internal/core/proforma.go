package core

// DefaultProFormaTaxRate is the flat tax rate applied to positive projected
// pre-tax profit. It is a regulatory constant in the source system, not a
// rate derived from the base period, and can be overridden per call.
const DefaultProFormaTaxRate = 0.30

// ProFormaLine pairs a base figure with its projection.
type ProFormaLine struct {
	Base      float64 `json:"base"`
	Projected float64 `json:"projected"`
	Delta     float64 `json:"delta"`
}

func projectLine(base, projected float64) ProFormaLine {
	return ProFormaLine{Base: base, Projected: projected, Delta: projected - base}
}

// ProFormaProjection is a percent-of-sales income statement projection.
type ProFormaProjection struct {
	Year             int          `json:"year"`
	GrowthRate       float64      `json:"growth_rate"`
	TaxRate          float64      `json:"tax_rate"`
	Revenue          ProFormaLine `json:"revenue"`
	Cost             ProFormaLine `json:"cost"`
	GrossProfit      ProFormaLine `json:"gross_profit"`
	OperatingExpense ProFormaLine `json:"operating_expense"`
	PreTaxProfit     ProFormaLine `json:"pre_tax_profit"`
	Tax              ProFormaLine `json:"tax"`
	NetProfit        ProFormaLine `json:"net_profit"`
}

// ComputeProForma projects the income statement with the default tax rate.
func ComputeProForma(base *Report, growthRate float64) *ProFormaProjection {
	return ComputeProFormaWithTax(base, growthRate, DefaultProFormaTaxRate)
}

// ComputeProFormaWithTax projects Revenue by (1+growthRate) and carries Cost
// and Expense forward as constant fractions of Revenue (classic
// percent-of-sales). Tax is never scaled from the base period: it is
// recomputed as taxRate times projected pre-tax profit, and only when that
// profit is positive.
func ComputeProFormaWithTax(base *Report, growthRate, taxRate float64) *ProFormaProjection {
	baseRevenue := base.Total(string(Revenue))
	baseCost := base.Total(string(Cost))
	baseExpense := base.Total(string(Expense))

	projRevenue := baseRevenue * (1 + growthRate)
	var projCost, projExpense float64
	if baseRevenue != 0 {
		projCost = projRevenue * (baseCost / baseRevenue)
		projExpense = projRevenue * (baseExpense / baseRevenue)
	}

	baseGross := baseRevenue - baseCost
	projGross := projRevenue - projCost
	basePreTax := baseGross - baseExpense
	projPreTax := projGross - projExpense

	baseTax := flatTax(basePreTax, taxRate)
	projTax := flatTax(projPreTax, taxRate)

	return &ProFormaProjection{
		Year:             base.Year,
		GrowthRate:       growthRate,
		TaxRate:          taxRate,
		Revenue:          projectLine(baseRevenue, projRevenue),
		Cost:             projectLine(baseCost, projCost),
		GrossProfit:      projectLine(baseGross, projGross),
		OperatingExpense: projectLine(baseExpense, projExpense),
		PreTaxProfit:     projectLine(basePreTax, projPreTax),
		Tax:              projectLine(baseTax, projTax),
		NetProfit:        projectLine(basePreTax-baseTax, projPreTax-projTax),
	}
}

// flatTax applies the flat rate to positive profit only.
func flatTax(preTax, rate float64) float64 {
	if preTax <= 0 {
		return 0
	}
	return preTax * rate
}
