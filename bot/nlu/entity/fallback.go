package entity

import (
	"regexp"
	"strings"

	contractx "bankbot/bot/contract"
)

var (
	fallbackAmount  = regexp.MustCompile(`(?i)(?:₹|\$|\bRs\.?)\s*\d[\d,.]*`)
	fallbackAccount = regexp.MustCompile(`\b\d{4,16}\b`)
)

// Fallback is the degraded extractor used when the primary engine is
// unavailable: context-free heuristics, first hit per kind only. It skips
// overlap management, so the same digits can surface under two kinds.
type Fallback struct{}

func (Fallback) Extract(text string) []contractx.Entity {
	return FallbackExtract(text)
}

func FallbackExtract(text string) []contractx.Entity {
	if text == "" {
		return nil
	}

	var results []contractx.Entity

	if idx := fallbackAmount.FindStringIndex(text); idx != nil {
		results = append(results, contractx.Entity{
			Kind:  contractx.EntityAmount,
			Value: normalizeAmount(text[idx[0]:idx[1]]),
			Span:  contractx.Span{Start: idx[0], End: idx[1]},
		})
	}

	if idx := fallbackAccount.FindStringIndex(text); idx != nil {
		results = append(results, contractx.Entity{
			Kind:  contractx.EntityAccountNumber,
			Value: text[idx[0]:idx[1]],
			Span:  contractx.Span{Start: idx[0], End: idx[1]},
		})
	}

	lower := strings.ToLower(text)
	if i := strings.Index(lower, "savings"); i >= 0 {
		results = append(results, contractx.Entity{
			Kind:  contractx.EntityAccountType,
			Value: "savings",
			Span:  contractx.Span{Start: i, End: i + len("savings")},
		})
	}
	for _, kw := range []string{"checking", "current"} {
		if i := strings.Index(lower, kw); i >= 0 {
			results = append(results, contractx.Entity{
				Kind:  contractx.EntityAccountType,
				Value: "checking",
				Span:  contractx.Span{Start: i, End: i + len(kw)},
			})
			break
		}
	}

	return results
}
