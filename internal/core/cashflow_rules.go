package core

// The cash flow engine classifies accounts by name-pattern rules. The rules
// form an ordered table evaluated top-to-bottom with first match winning, so
// every exclusion sits above the inclusion it overrides:
//
//   - depreciation/amortization tokens remove an account from Investing
//     eligibility (they feed the add-back instead),
//   - work-in-process tokens remove an account from both Operating-asset and
//     Investing eligibility,
//   - cash-like tokens remove an account from everything: cash is the
//     reconciliation target, never a flow line.
//
// Token lists are bilingual (Spanish catalogs, English names classify the
// same way) and lowercase; matching is case-insensitive substring.

// FlowClass is the cash-flow classification of one account.
type FlowClass string

const (
	// FlowCash marks cash-like accounts, excluded from classification and
	// used as the reconciliation target.
	FlowCash FlowClass = "cash"
	// FlowDepreciation marks accumulated depreciation/amortization accounts
	// feeding the operating add-back.
	FlowDepreciation FlowClass = "depreciation"
	// FlowWorkInProcess marks WIP/construction-in-progress accounts,
	// excluded from both operating and investing flows.
	FlowWorkInProcess FlowClass = "work_in_process"
	// FlowOperating marks working-capital accounts (operating assets and
	// liabilities).
	FlowOperating FlowClass = "operating"
	// FlowInvesting marks tangible fixed assets.
	FlowInvesting FlowClass = "investing"
	// FlowFinancing marks financing liabilities.
	FlowFinancing FlowClass = "financing"
	// FlowRetainedEarnings marks retained-earnings-like equity accounts
	// feeding the dividend adjustment.
	FlowRetainedEarnings FlowClass = "retained_earnings"
	// FlowCapital marks all other equity accounts (capital variation lines
	// in Financing).
	FlowCapital FlowClass = "capital"
	// FlowUnclassified marks accounts no rule claimed; they produce no line.
	FlowUnclassified FlowClass = "unclassified"
)

type flowRule struct {
	class  FlowClass
	tokens []string
}

var (
	cashTokens = []string{"caja", "banco", "efectivo", "tesorer", "cash", "bank", "treasur"}

	wipTokens = []string{
		"en proceso", "en curso", "obra en construccion", "obras en construccion",
		"work in process", "work-in-process", "construction in progress", "wip",
	}

	operatingAssetTokens = []string{
		"cliente", "cobrar", "deudor", "client", "receivable",
		"inventar", "inventor", "existenc", "mercader",
		"anticipo", "deposito", "garantia", "advance", "deposit", "guarantee",
		"iva", "impuesto", "credito fiscal", "tax", "vat",
	}

	tangibleAssetTokens = []string{
		"maquinar", "machin", "equip", "edificio", "building",
		"terreno", "land", "vehic", "mobiliario", "muebles", "furniture",
		"construc", "propiedad", "property", "planta", "plant",
	}

	financingLiabilityTokens = []string{
		"prestamo", "loan", "credito", "credit", "bancario", "banco", "bank",
		"hipotec", "mortgage", "financ",
	}

	operatingLiabilityTokens = []string{
		"proveedor", "supplier", "acreedor", "creditor", "pagar", "payable",
		"impuesto", "tax", "retencion", "withhold", "acumulad", "accrued",
		"nomina", "planilla", "payroll",
	}

	retainedEarningsTokens = []string{
		"utilidad", "resultado", "perdida", "acumulad", "retenid",
		"retained", "result", "profit", "loss", "accumulated", "earnings",
	}
)

// assetFlowRules: exclusions first (cash, depreciation, WIP), then operating
// working-capital, then tangible fixed assets.
var assetFlowRules = []flowRule{
	{FlowCash, cashTokens},
	{FlowDepreciation, depreciationTokens},
	{FlowWorkInProcess, wipTokens},
	{FlowOperating, operatingAssetTokens},
	{FlowInvesting, tangibleAssetTokens},
}

// liabilityFlowRules: financing outranks operating so "Préstamo bancario por
// pagar" never lands in working capital.
var liabilityFlowRules = []flowRule{
	{FlowFinancing, financingLiabilityTokens},
	{FlowOperating, operatingLiabilityTokens},
}

// equityFlowRules: anything not retained-earnings-like is a capital account.
var equityFlowRules = []flowRule{
	{FlowRetainedEarnings, retainedEarningsTokens},
}

// ClassifyFlowAccount assigns one cash-flow class to an account given its
// category and name. Revenue/Cost/Expense accounts are never classified:
// the operating section starts from Net Profit, which already contains them.
func ClassifyFlowAccount(cat Category, name string) FlowClass {
	switch cat {
	case Asset:
		return matchFlowRules(assetFlowRules, name, FlowUnclassified)
	case Liability:
		return matchFlowRules(liabilityFlowRules, name, FlowUnclassified)
	case Equity:
		return matchFlowRules(equityFlowRules, name, FlowCapital)
	default:
		return FlowUnclassified
	}
}

func matchFlowRules(rules []flowRule, name string, fallback FlowClass) FlowClass {
	for _, rule := range rules {
		if containsAny(name, rule.tokens) {
			return rule.class
		}
	}
	return fallback
}
