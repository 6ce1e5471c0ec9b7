package reconciliation

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"boleto-backoffice/internal/models"
	"boleto-backoffice/internal/services/statement"
)

const maxSuggestions = 10

// Suggestion is one ranked candidate for a pending entry. Advisory only; it
// never mutates state.
type Suggestion struct {
	Invoice     models.Invoice  `json:"invoice"`
	AmountDelta decimal.Decimal `json:"amount_delta"`
	AmountExact bool            `json:"amount_exact"`
	Similarity  float64         `json:"similarity"`
}

// similarity is a normalized [0,1] ratio between the entry's description key
// and the customer name. Levenshtein-based rather than the matching-blocks
// ratio some diff tools use; ranking order is a policy choice, settlement
// never depends on it.
func similarity(descriptionKey, customerName string) float64 {
	name := statement.NormalizeKey(customerName)
	if descriptionKey == "" || name == "" {
		return 0
	}
	return levenshtein.RatioForStrings([]rune(descriptionKey), []rune(name), levenshtein.DefaultOptions)
}

// Rank orders candidate invoices for an entry: smallest amount difference
// first, then highest name similarity, then lowest invoice id. Top 10 only.
func Rank(entry models.StatementEntry, candidates []models.Invoice) []Suggestion {
	suggestions := make([]Suggestion, 0, len(candidates))
	for _, invoice := range candidates {
		delta := invoice.Amount.Sub(entry.Amount).Abs().Round(2)
		suggestions = append(suggestions, Suggestion{
			Invoice:     invoice,
			AmountDelta: delta,
			AmountExact: delta.IsZero(),
			Similarity:  similarity(entry.DescriptionKey, invoice.Customer.Name),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if cmp := suggestions[i].AmountDelta.Cmp(suggestions[j].AmountDelta); cmp != 0 {
			return cmp < 0
		}
		if suggestions[i].Similarity != suggestions[j].Similarity {
			return suggestions[i].Similarity > suggestions[j].Similarity
		}
		return suggestions[i].Invoice.ID < suggestions[j].Invoice.ID
	})

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}
