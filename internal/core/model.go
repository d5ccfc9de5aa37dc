package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Category is one of the six fixed financial-statement classifications.
// Every account carries exactly one Category; upstream labels that cannot be
// normalized to one of these six are rejected, never guessed.
type Category string

const (
	Asset     Category = "Asset"
	Liability Category = "Liability"
	Equity    Category = "Equity"
	Revenue   Category = "Revenue"
	Cost      Category = "Cost"
	Expense   Category = "Expense"
)

// Categories lists all six categories in statement order.
var Categories = []Category{Asset, Liability, Equity, Revenue, Cost, Expense}

// BalanceSheetCategories and IncomeCategories partition the six categories by
// the statement they belong to. Vertical analysis uses a different base for each.
var (
	BalanceSheetCategories = []Category{Asset, Liability, Equity}
	IncomeCategories       = []Category{Revenue, Cost, Expense}
)

// IsBalanceSheet reports whether c belongs to the balance sheet.
func (c Category) IsBalanceSheet() bool {
	return c == Asset || c == Liability || c == Equity
}

// BalanceRow is one raw (account, amount) fact for a period as it comes out of
// the ledger. CategoryLabel is free text from the catalog and still needs
// normalization; Amount is nullable in the source data.
type BalanceRow struct {
	AccountID     int
	Name          string
	CategoryLabel string
	Subtype       string
	Amount        decimal.NullDecimal
}

// AccountEntry is one classified account line inside a Report.
type AccountEntry struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Derived total keys. Per-category and per-subtype sums are keyed by the
// category name / subtype string directly.
const (
	TotalAssetKey           = "Total Asset"
	TotalLiabilityKey       = "Total Liability"
	TotalEquityKey          = "Total Equity"
	TotalLiabilityEquityKey = "Total Liability+Equity"
	GrossProfitKey          = "Gross Profit"
	OperatingProfitKey      = "Operating Profit"
	NetProfitKey            = "Net Profit"
)

// Report is the classified, totaled snapshot of one fiscal period.
//
// Sections maps Category → subtype → accounts in catalog order. Totals holds
// per-category sums (keyed by category name), per-subtype sums (keyed by the
// subtype string) and the derived keys above. A missing Totals key reads as
// 0.0 via Total; the builder sets every derived key explicitly.
//
// Nothing enforces Total Asset == Total Liability+Equity: manually entered
// balances need not balance. The residual is surfaced in BuildDiagnostics.
type Report struct {
	Year     int                                    `json:"year"`
	Sections map[Category]map[string][]AccountEntry `json:"sections"`
	Totals   map[string]float64                     `json:"totals"`
}

// Total returns the named total, or 0.0 if the key was never accumulated.
func (r *Report) Total(key string) float64 {
	return r.Totals[key]
}

// Subtypes returns the subtype keys of a category in sorted order.
func (r *Report) Subtypes(cat Category) []string {
	section := r.Sections[cat]
	keys := make([]string, 0, len(section))
	for k := range section {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AccountsIn returns every account of a category, flattened across subtypes
// in sorted subtype order.
func (r *Report) AccountsIn(cat Category) []AccountEntry {
	var out []AccountEntry
	for _, subtype := range r.Subtypes(cat) {
		out = append(out, r.Sections[cat][subtype]...)
	}
	return out
}

// SkippedRow records why one balance row was excluded from a Report.
type SkippedRow struct {
	AccountID int    `json:"account_id"`
	Name      string `json:"name"`
	Label     string `json:"label"`
	Reason    string `json:"reason"`
}

// BuildDiagnostics carries the non-fatal findings of one Report build:
// rejected rows and the balance-sheet residual (Total Asset minus
// Total Liability+Equity), which is expected to be nonzero for
// manually maintained balances.
type BuildDiagnostics struct {
	SkippedRows     []SkippedRow `json:"skipped_rows,omitempty"`
	BalanceResidual float64      `json:"balance_residual"`
}
