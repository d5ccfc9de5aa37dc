package core

import "strings"

// Catalog data arrives with free-text category labels, historically in
// Spanish (Activo, Pasivo, ...). Normalization is two-phase: an exact
// case-insensitive match against the known labels, then a substring fallback
// evaluated in a fixed priority order. The order matters: "Pasivo Corriente"
// must resolve to Liability before the Asset check ever sees it.

var categoryAliases = map[string]Category{
	"asset":      Asset,
	"activo":     Asset,
	"liability":  Liability,
	"pasivo":     Liability,
	"equity":     Equity,
	"patrimonio": Equity,
	"revenue":    Revenue,
	"ingreso":    Revenue,
	"cost":       Cost,
	"costo":      Cost,
	"expense":    Expense,
	"gasto":      Expense,
}

// categoryFallbacks is the substring-match priority order. Liability and
// Equity come first so composite labels ("Pasivo No Corriente",
// "Capital y Patrimonio") never land in Asset by accident.
var categoryFallbacks = []struct {
	category Category
	tokens   []string
}{
	{Liability, []string{"liabilit", "pasivo"}},
	{Equity, []string{"equity", "patrimonio", "capital"}},
	{Asset, []string{"asset", "activo"}},
	{Revenue, []string{"revenue", "ingreso"}},
	{Cost, []string{"cost"}},
	{Expense, []string{"expense", "gasto"}},
}

// NormalizeCategory resolves a free-text category label to one of the six
// categories. The second return value is false when the label cannot be
// resolved; callers must skip such rows and record a diagnostic.
func NormalizeCategory(label string) (Category, bool) {
	normalized := foldName(strings.TrimSpace(label))
	if normalized == "" {
		return "", false
	}
	if cat, ok := categoryAliases[normalized]; ok {
		return cat, true
	}
	for _, fb := range categoryFallbacks {
		for _, token := range fb.tokens {
			if strings.Contains(normalized, token) {
				return fb.category, true
			}
		}
	}
	return "", false
}

// accentFolder maps accented Spanish vowels (and ñ/ü) to their bare forms so
// token tables can stay unaccented while still matching catalog names like
// "Depósitos en garantía".
var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n", "ü", "u",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ñ", "n", "Ü", "u",
)

// foldName lowercases a name and strips Spanish accents for matching.
func foldName(name string) string {
	return strings.ToLower(accentFolder.Replace(name))
}

// containsAny reports whether the folded name contains any of the tokens.
// Token tables throughout the engine are lowercase and unaccented; name
// casing and accenting from the catalog are unreliable.
func containsAny(name string, tokens []string) bool {
	folded := foldName(name)
	for _, token := range tokens {
		if strings.Contains(folded, token) {
			return true
		}
	}
	return false
}
