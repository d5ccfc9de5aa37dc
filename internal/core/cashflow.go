package core

import (
	"fmt"
	"math"
	"sort"
)

const (
	// flowThreshold drops noise lines whose variation is negligible.
	flowThreshold = 0.01
	// reconcileTolerance is the allowed gap between the actual and computed
	// closing cash balance.
	reconcileTolerance = 1.0
)

// FlowLine is one labeled line of a cash flow section. Positive amounts are
// cash inflows.
type FlowLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// FlowSection is one of the three indirect-method sections.
type FlowSection struct {
	Lines []FlowLine `json:"lines"`
	Total float64    `json:"total"`
}

func (s *FlowSection) add(label string, amount float64) {
	s.Lines = append(s.Lines, FlowLine{Label: label, Amount: amount})
	s.Total += amount
}

// CashFlowStatement is the indirect-method cash flow for two consecutive
// periods plus its reconciliation against the cash balance delta. The
// reconciliation is diagnostic: the computed sections are always returned
// even when it fails.
type CashFlowStatement struct {
	PriorYear           int         `json:"prior_year"`
	CurrentYear         int         `json:"current_year"`
	Operating           FlowSection `json:"operating"`
	Investing           FlowSection `json:"investing"`
	Financing           FlowSection `json:"financing"`
	DepreciationAddback float64     `json:"depreciation_addback"`
	NetFlow             float64     `json:"net_flow"`
	CashStart           float64     `json:"cash_start"`
	CashEndActual       float64     `json:"cash_end_actual"`
	CashEndComputed     float64     `json:"cash_end_computed"`
	Discrepancy         float64     `json:"discrepancy"`
	Reconciles          bool        `json:"reconciles"`
}

// flowAccount pairs an account's balances across the two periods.
type flowAccount struct {
	id      int
	name    string
	prior   float64
	current float64
}

// ComputeCashFlow derives the indirect-method cash flow statement from two
// consecutive periods' Reports.
//
// Operating starts from the current period's Net Profit, adds the
// depreciation add-back when positive, then working-capital variations:
// operating assets contribute prior − current (an asset increase consumes
// cash), operating liabilities current − prior. Investing carries tangible
// fixed asset variations as −(current − prior). Financing carries financing
// liabilities, capital variations, and a single synthetic dividend /
// retained-earnings adjustment line derived from the retained-earnings delta
// against Net Profit.
func ComputeCashFlow(prior, current *Report) *CashFlowStatement {
	cf := &CashFlowStatement{
		PriorYear:   prior.Year,
		CurrentYear: current.Year,
	}

	assets := mergeFlowAccounts(prior, current, Asset)
	liabilities := mergeFlowAccounts(prior, current, Liability)
	equity := mergeFlowAccounts(prior, current, Equity)

	// 1. Depreciation add-back: growth in accumulated depreciation across
	// the period, measured on absolute balances (the accounts arrive signed
	// negative).
	var depPrior, depCurrent float64
	for _, a := range assets {
		if ClassifyFlowAccount(Asset, a.name) == FlowDepreciation {
			depPrior += math.Abs(a.prior)
			depCurrent += math.Abs(a.current)
		}
	}
	cf.DepreciationAddback = depCurrent - depPrior

	// 2. Operating section.
	netProfit := current.Total(NetProfitKey)
	cf.Operating.add("Net Profit", netProfit)
	if cf.DepreciationAddback > 0 {
		cf.Operating.add("Depreciation and Amortization Add-back", cf.DepreciationAddback)
	}
	for _, a := range assets {
		if ClassifyFlowAccount(Asset, a.name) != FlowOperating {
			continue
		}
		variation := a.prior - a.current
		if math.Abs(variation) > flowThreshold {
			cf.Operating.add(a.name, variation)
		}
	}
	for _, l := range liabilities {
		if ClassifyFlowAccount(Liability, l.name) != FlowOperating {
			continue
		}
		variation := l.current - l.prior
		if math.Abs(variation) > flowThreshold {
			cf.Operating.add(l.name, variation)
		}
	}

	// 3. Investing section: growth in a tangible fixed asset is an outflow.
	for _, a := range assets {
		if ClassifyFlowAccount(Asset, a.name) != FlowInvesting {
			continue
		}
		flow := -(a.current - a.prior)
		if math.Abs(flow) > flowThreshold {
			cf.Investing.add(a.name, flow)
		}
	}

	// 4. Financing section.
	for _, l := range liabilities {
		if ClassifyFlowAccount(Liability, l.name) != FlowFinancing {
			continue
		}
		variation := l.current - l.prior
		if math.Abs(variation) > flowThreshold {
			cf.Financing.add(l.name, variation)
		}
	}
	var retainedPrior, retainedCurrent float64
	for _, e := range equity {
		switch ClassifyFlowAccount(Equity, e.name) {
		case FlowRetainedEarnings:
			retainedPrior += e.prior
			retainedCurrent += e.current
		default:
			variation := e.current - e.prior
			if math.Abs(variation) > flowThreshold {
				cf.Financing.add(fmt.Sprintf("Capital Variation: %s", e.name), variation)
			}
		}
	}
	dividendAdj := (retainedCurrent - retainedPrior) - netProfit
	if math.Abs(dividendAdj) > flowThreshold {
		cf.Financing.add("Dividends / Retained-Earnings Adjustment", dividendAdj)
	}

	// 5. Reconciliation against cash-like balances.
	cf.NetFlow = cf.Operating.Total + cf.Investing.Total + cf.Financing.Total
	for _, a := range assets {
		if ClassifyFlowAccount(Asset, a.name) == FlowCash {
			cf.CashStart += a.prior
			cf.CashEndActual += a.current
		}
	}
	cf.CashEndComputed = cf.CashStart + cf.NetFlow
	cf.Discrepancy = cf.CashEndActual - cf.CashEndComputed
	cf.Reconciles = math.Abs(cf.Discrepancy) < reconcileTolerance

	return cf
}

// mergeFlowAccounts joins one category's accounts across both periods by
// account id, in deterministic id order. An account absent from one period
// reads as 0.0 there; the current-period name wins when both exist.
func mergeFlowAccounts(prior, current *Report, cat Category) []flowAccount {
	merged := make(map[int]*flowAccount)
	for _, acct := range prior.AccountsIn(cat) {
		merged[acct.ID] = &flowAccount{id: acct.ID, name: acct.Name, prior: acct.Amount}
	}
	for _, acct := range current.AccountsIn(cat) {
		if fa, ok := merged[acct.ID]; ok {
			fa.current = acct.Amount
			fa.name = acct.Name
			continue
		}
		merged[acct.ID] = &flowAccount{id: acct.ID, name: acct.Name, current: acct.Amount}
	}

	ids := make([]int, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]flowAccount, 0, len(ids))
	for _, id := range ids {
		out = append(out, *merged[id])
	}
	return out
}
