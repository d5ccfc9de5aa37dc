package core

import "math"

// fundsThreshold is the negligibility cutoff for a balance variation.
const fundsThreshold = 0.01

// FundsEntry is one account-level variation classified as a source or a use
// of funds.
type FundsEntry struct {
	AccountID int     `json:"account_id"`
	Name      string  `json:"name"`
	Base      float64 `json:"base"`
	Analysis  float64 `json:"analysis"`
	Variation float64 `json:"variation"`
}

// FundsBucket is one side of the statement (Origin or Application), keyed by
// subtype with per-subtype subtotals and a running grand total.
type FundsBucket struct {
	Entries   map[string][]FundsEntry `json:"entries"`
	Subtotals map[string]float64      `json:"subtotals"`
	Total     float64                 `json:"total"`
}

func newFundsBucket() FundsBucket {
	return FundsBucket{
		Entries:   make(map[string][]FundsEntry),
		Subtotals: make(map[string]float64),
	}
}

func (b *FundsBucket) add(subtype string, e FundsEntry) {
	b.Entries[subtype] = append(b.Entries[subtype], e)
	b.Subtotals[subtype] += e.Variation
	b.Total += e.Variation
}

// SourcesAndUses classifies balance-sheet variation between two periods into
// sources (Origin) and uses (Application) of funds. Origin and Application
// need not balance for real data; Residual exposes the difference for the
// caller to display.
type SourcesAndUses struct {
	BaseYear     int         `json:"base_year"`
	AnalysisYear int         `json:"analysis_year"`
	Origin       FundsBucket `json:"origin"`
	Application  FundsBucket `json:"application"`
	Residual     float64     `json:"residual"`
}

// ComputeSourcesAndUses applies the accounting sign convention per category:
// an Asset increase uses funds and a decrease sources them; Liability and
// Equity work the other way around. Accounts with both balances zero or a
// sub-threshold variation are skipped.
func ComputeSourcesAndUses(base, analysis *Report) *SourcesAndUses {
	su := &SourcesAndUses{
		BaseYear:     base.Year,
		AnalysisYear: analysis.Year,
		Origin:       newFundsBucket(),
		Application:  newFundsBucket(),
	}

	for _, cat := range BalanceSheetCategories {
		for _, subtype := range unionSubtypes(base, analysis, cat) {
			baseAccts := indexByID(base.Sections[cat][subtype])
			analysisAccts := indexByID(analysis.Sections[cat][subtype])
			for _, id := range unionIDs(baseAccts, analysisAccts) {
				var baseAmt, analysisAmt float64
				var name string
				if a := baseAccts[id]; a != nil {
					baseAmt, name = a.Amount, a.Name
				}
				if a := analysisAccts[id]; a != nil {
					analysisAmt, name = a.Amount, a.Name
				}

				delta := analysisAmt - baseAmt
				if baseAmt == 0 && analysisAmt == 0 {
					continue
				}
				if math.Abs(delta) < fundsThreshold {
					continue
				}

				entry := FundsEntry{
					AccountID: id,
					Name:      name,
					Base:      baseAmt,
					Analysis:  analysisAmt,
					Variation: math.Abs(delta),
				}
				if isSource(cat, delta) {
					su.Origin.add(subtype, entry)
				} else {
					su.Application.add(subtype, entry)
				}
			}
		}
	}

	su.Residual = su.Origin.Total - su.Application.Total
	return su
}

// isSource applies the per-category sign convention: shrinking assets and
// growing liabilities/equity both free up funds.
func isSource(cat Category, delta float64) bool {
	if cat == Asset {
		return delta < 0
	}
	return delta > 0
}
