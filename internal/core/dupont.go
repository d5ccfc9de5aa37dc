package core

import "math"

// dupontStableThreshold: relative ROE changes under 1% report no
// determining factor.
const dupontStableThreshold = 0.01

// Factor names reported by the attribution.
const (
	FactorNetMargin        = "Net Margin"
	FactorAssetTurnover    = "Asset Turnover"
	FactorEquityMultiplier = "Equity Multiplier"
	FactorStable           = "stable"
)

// DuPontFactors is the three-factor decomposition of ROE for one period.
// Any zero denominator yields a 0.0 factor, never an error.
type DuPontFactors struct {
	NetMargin        float64 `json:"net_margin"`
	AssetTurnover    float64 `json:"asset_turnover"`
	EquityMultiplier float64 `json:"equity_multiplier"`
	ROE              float64 `json:"roe"`
}

// DuPontAnalysis is the year-over-year DuPont comparison. DeterminingFactor
// names the factor whose relative change drove the ROE movement, or "stable"
// when ROE barely moved.
type DuPontAnalysis struct {
	Year              int           `json:"year"`
	PriorYear         int           `json:"prior_year"`
	Current           DuPontFactors `json:"current"`
	Prior             DuPontFactors `json:"prior"`
	ROEChange         float64       `json:"roe_change"`
	DeterminingFactor string        `json:"determining_factor"`
}

// dupontFactors decomposes one Report.
func dupontFactors(r *Report) DuPontFactors {
	f := DuPontFactors{}
	revenue := r.Total(string(Revenue))
	totalAssets := r.Total(TotalAssetKey)
	totalEquity := r.Total(TotalEquityKey)
	netProfit := r.Total(NetProfitKey)

	if revenue != 0 {
		f.NetMargin = netProfit / revenue
	}
	if totalAssets != 0 {
		f.AssetTurnover = revenue / totalAssets
	}
	if totalEquity != 0 {
		f.EquityMultiplier = totalAssets / totalEquity
	}
	f.ROE = f.NetMargin * f.AssetTurnover * f.EquityMultiplier
	return f
}

// relChange is the signed relative change from prior to current, 0 when the
// prior value is zero.
func relChange(current, prior float64) float64 {
	if prior == 0 {
		return 0
	}
	return (current - prior) / math.Abs(prior)
}

// ComputeDuPont decomposes ROE for the current and prior periods and
// attributes the year-over-year ROE movement to the factor that moved the
// most in the same direction.
func ComputeDuPont(prior, current *Report) *DuPontAnalysis {
	da := &DuPontAnalysis{
		Year:      current.Year,
		PriorYear: prior.Year,
		Current:   dupontFactors(current),
		Prior:     dupontFactors(prior),
	}
	da.ROEChange = relChange(da.Current.ROE, da.Prior.ROE)

	if math.Abs(da.ROEChange) < dupontStableThreshold {
		da.DeterminingFactor = FactorStable
		return da
	}

	changes := []struct {
		name   string
		change float64
	}{
		{FactorNetMargin, relChange(da.Current.NetMargin, da.Prior.NetMargin)},
		{FactorAssetTurnover, relChange(da.Current.AssetTurnover, da.Prior.AssetTurnover)},
		{FactorEquityMultiplier, relChange(da.Current.EquityMultiplier, da.Prior.EquityMultiplier)},
	}

	best := changes[0]
	for _, c := range changes[1:] {
		if da.ROEChange < 0 && c.change < best.change {
			best = c
		}
		if da.ROEChange > 0 && c.change > best.change {
			best = c
		}
	}
	da.DeterminingFactor = best.name
	return da
}
