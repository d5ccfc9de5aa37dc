package core

import (
	"fmt"
	"math"
	"sort"
)

// Relative is a relative-change percentage that can be mathematically
// infinite (an account appearing out of nowhere). JSON has no literal for
// Infinity, so it marshals as the string "Infinity"/"-Infinity" instead of
// producing an encoder error.
type Relative float64

// IsInf reports whether the relative change is infinite.
func (r Relative) IsInf() bool {
	return math.IsInf(float64(r), 0)
}

// MarshalJSON encodes infinite values as distinguishable string sentinels.
func (r Relative) MarshalJSON() ([]byte, error) {
	switch {
	case math.IsInf(float64(r), 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(float64(r), -1):
		return []byte(`"-Infinity"`), nil
	default:
		return []byte(fmt.Sprintf("%g", float64(r))), nil
	}
}

// SignClass is the qualitative direction of a change.
type SignClass string

const (
	SignPositive SignClass = "positive"
	SignNegative SignClass = "negative"
	SignZero     SignClass = "zero"
)

func signOf(rel Relative) SignClass {
	switch {
	case rel > 0:
		return SignPositive
	case rel < 0:
		return SignNegative
	default:
		return SignZero
	}
}

// ComparativeEntry is one account compared across the base and analysis
// periods. Absent accounts read as 0.0 on the side they are missing from.
type ComparativeEntry struct {
	AccountID int       `json:"account_id"`
	Name      string    `json:"name"`
	Base      float64   `json:"base"`
	Analysis  float64   `json:"analysis"`
	Absolute  float64   `json:"absolute"`
	Relative  Relative  `json:"relative"`
	Sign      SignClass `json:"sign"`
}

// ComparativeTotal is the same 4-tuple for a named total.
type ComparativeTotal struct {
	Base     float64   `json:"base"`
	Analysis float64   `json:"analysis"`
	Absolute float64   `json:"absolute"`
	Relative Relative  `json:"relative"`
	Sign     SignClass `json:"sign"`
}

// ComparativeAnalysis is the horizontal (period-over-period) comparison of
// two Reports. The caller guarantees base.Year < analysis.Year; the engine
// treats ordering as a precondition and does not re-validate it.
type ComparativeAnalysis struct {
	BaseYear     int                                        `json:"base_year"`
	AnalysisYear int                                        `json:"analysis_year"`
	Sections     map[Category]map[string][]ComparativeEntry `json:"sections"`
	Totals       map[string]ComparativeTotal                `json:"totals"`
}

// horizontalTotalKeys are the fixed totals compared between periods, plus
// the standalone Liability and Equity category totals appended below.
var horizontalTotalKeys = []string{
	TotalAssetKey, TotalLiabilityKey, TotalEquityKey, TotalLiabilityEquityKey,
	string(Revenue), string(Cost), string(Expense), GrossProfitKey, NetProfitKey,
}

// ComputeHorizontal compares every account present in either Report,
// account-by-account within each Category × subtype, and the fixed total
// keys. Relative change follows the documented edge cases: zero base with a
// positive analysis amount is reported as +Inf, zero base with zero analysis
// as 0. A total present in only one period yields a synthetic full-swing
// entry (−100% disappearing, +Inf appearing) rather than being omitted.
func ComputeHorizontal(base, analysis *Report) *ComparativeAnalysis {
	ca := &ComparativeAnalysis{
		BaseYear:     base.Year,
		AnalysisYear: analysis.Year,
		Sections:     make(map[Category]map[string][]ComparativeEntry, len(Categories)),
		Totals:       make(map[string]ComparativeTotal),
	}

	for _, cat := range Categories {
		ca.Sections[cat] = make(map[string][]ComparativeEntry)
		for _, subtype := range unionSubtypes(base, analysis, cat) {
			baseAccts := indexByID(base.Sections[cat][subtype])
			analysisAccts := indexByID(analysis.Sections[cat][subtype])
			for _, id := range unionIDs(baseAccts, analysisAccts) {
				ca.Sections[cat][subtype] = append(ca.Sections[cat][subtype],
					compareAccount(id, baseAccts[id], analysisAccts[id]))
			}
		}
	}

	for _, key := range horizontalTotalKeys {
		ca.Totals[key] = compareTotal(base, analysis, key)
	}
	// Standalone category totals for the liability/equity split view.
	ca.Totals[string(Liability)] = compareTotal(base, analysis, string(Liability))
	ca.Totals[string(Equity)] = compareTotal(base, analysis, string(Equity))

	return ca
}

func compareAccount(id int, baseAcct, analysisAcct *AccountEntry) ComparativeEntry {
	var baseAmt, analysisAmt float64
	var baseName, analysisName string
	if baseAcct != nil {
		baseAmt, baseName = baseAcct.Amount, baseAcct.Name
	}
	if analysisAcct != nil {
		analysisAmt, analysisName = analysisAcct.Amount, analysisAcct.Name
	}

	name := analysisName
	if name == "" {
		name = baseName
	}
	if name == "" {
		name = fmt.Sprintf("Account %d", id)
	}

	var rel Relative
	switch {
	case baseAmt != 0:
		rel = Relative((analysisAmt/baseAmt - 1) * 100)
	case analysisAmt > 0:
		rel = Relative(math.Inf(1))
	default:
		rel = 0
	}

	return ComparativeEntry{
		AccountID: id,
		Name:      name,
		Base:      baseAmt,
		Analysis:  analysisAmt,
		Absolute:  analysisAmt - baseAmt,
		Relative:  rel,
		Sign:      signOf(rel),
	}
}

func compareTotal(base, analysis *Report, key string) ComparativeTotal {
	_, inBase := base.Totals[key]
	_, inAnalysis := analysis.Totals[key]

	switch {
	case inBase && inAnalysis:
		b, a := base.Totals[key], analysis.Totals[key]
		var rel Relative
		if b != 0 {
			rel = Relative((a/b - 1) * 100)
		}
		return ComparativeTotal{Base: b, Analysis: a, Absolute: a - b, Relative: rel, Sign: signOf(rel)}
	case inBase:
		b := base.Totals[key]
		return ComparativeTotal{Base: b, Absolute: -b, Relative: -100, Sign: SignNegative}
	case inAnalysis:
		a := analysis.Totals[key]
		return ComparativeTotal{Analysis: a, Absolute: a, Relative: Relative(math.Inf(1)), Sign: SignPositive}
	default:
		return ComparativeTotal{Sign: SignZero}
	}
}

func unionSubtypes(base, analysis *Report, cat Category) []string {
	seen := make(map[string]bool)
	for subtype := range base.Sections[cat] {
		seen[subtype] = true
	}
	for subtype := range analysis.Sections[cat] {
		seen[subtype] = true
	}
	out := make([]string, 0, len(seen))
	for subtype := range seen {
		out = append(out, subtype)
	}
	sort.Strings(out)
	return out
}

func indexByID(accounts []AccountEntry) map[int]*AccountEntry {
	idx := make(map[int]*AccountEntry, len(accounts))
	for i := range accounts {
		idx[accounts[i].ID] = &accounts[i]
	}
	return idx
}

func unionIDs(a, b map[int]*AccountEntry) []int {
	seen := make(map[int]bool, len(a)+len(b))
	for id := range a {
		seen[id] = true
	}
	for id := range b {
		seen[id] = true
	}
	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
