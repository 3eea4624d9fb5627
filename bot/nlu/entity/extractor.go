// Package entity implements the rule-based extractor for banking
// utterances: transaction ids, context-anchored account numbers,
// currency-marked amounts and card/account type keywords. Matches claim
// their spans in priority order so no two entities ever overlap.
package entity

import (
	"regexp"
	"strings"

	contractx "bankbot/bot/contract"
)

var txnPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:txn(?:id| _id| id)?|transaction(?:\s*id)?|txnid|utr|ref(?:erence)?\s*no\.?|ref)\b[:\s\-]*([A-Za-z0-9\-_/]{4,40})`),
	regexp.MustCompile(`(?i)\b(UTR|REF|TXN)\b[:\s\-]*([A-Za-z0-9\-_/]{4,40})`),
}

var accountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:account|acct|a/c|account\s*no|account\s*number|acct\.?)\b[:\s\-]*([0-9]{4,24})`),
	regexp.MustCompile(`(?i)\bto\s+(?:account|acct|a/c)\b[:\s\-]*([0-9]{4,24})`),
	regexp.MustCompile(`(?i)\baccount(?:\s+ending)?\s*(?:no\.?|number)?\s*([0-9]{4,24})\b`),
}

// Amounts require an explicit currency marker; bare numbers never qualify.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:₹|\$|\bRs\.?|\bINR|\bUSD)\s*[0-9][0-9,]*(?:\.\d+)?\b`),
	regexp.MustCompile(`(?i)\b[0-9][0-9,]*(?:\.\d+)?\s*(?:rupees|rs|inr|usd|dollars)\b`),
}

var (
	cardTypePattern    = regexp.MustCompile(`(?i)\b(debit|credit)\b`)
	accountTypePattern = regexp.MustCompile(`(?i)\b(savings|checking|current)\b`)
)

var (
	currencySymbols = regexp.MustCompile(`[₹$]`)
	currencyWords   = regexp.MustCompile(`(?i)\b(?:Rs\.?|INR|USD|dollars|rupees)\b`)
	nonDigits       = regexp.MustCompile(`\D`)
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

var defaultExtractor = NewExtractor()

// Extract runs the default extractor.
func Extract(text string) []contractx.Entity {
	return defaultExtractor.Extract(text)
}

// Extract scans text and returns typed, non-overlapping entities in
// priority order (TXN_ID, ACCOUNT_NUMBER, AMOUNT, then keyword types),
// left to right within each type. Pure and deterministic.
func (e *Extractor) Extract(text string) []contractx.Entity {
	if text == "" {
		return nil
	}

	var (
		reserved spanLedger
		results  []contractx.Entity
	)

	for _, pat := range txnPatterns {
		for _, idx := range pat.FindAllStringSubmatchIndex(text, -1) {
			code, ok := lastGroup(text, idx)
			if !ok {
				continue
			}
			if !reserved.claim(idx[0], idx[1]) {
				continue
			}
			results = append(results, contractx.Entity{
				Kind:  contractx.EntityTxnID,
				Value: strings.TrimSpace(code),
				Span:  contractx.Span{Start: idx[0], End: idx[1]},
			})
		}
	}

	for _, pat := range accountPatterns {
		for _, idx := range pat.FindAllStringSubmatchIndex(text, -1) {
			if idx[2] < 0 {
				continue
			}
			num := nonDigits.ReplaceAllString(text[idx[2]:idx[3]], "")
			if num == "" {
				continue
			}
			if !reserved.claim(idx[0], idx[1]) {
				continue
			}
			results = append(results, contractx.Entity{
				Kind:  contractx.EntityAccountNumber,
				Value: num,
				Span:  contractx.Span{Start: idx[0], End: idx[1]},
			})
		}
	}

	for _, pat := range amountPatterns {
		for _, idx := range pat.FindAllStringIndex(text, -1) {
			if !reserved.claim(idx[0], idx[1]) {
				continue
			}
			normalized := normalizeAmount(text[idx[0]:idx[1]])
			if normalized == "" {
				continue
			}
			results = append(results, contractx.Entity{
				Kind:  contractx.EntityAmount,
				Value: normalized,
				Span:  contractx.Span{Start: idx[0], End: idx[1]},
			})
		}
	}

	results = appendKeyword(results, &reserved, text, cardTypePattern, contractx.EntityCardType)
	results = appendKeyword(results, &reserved, text, accountTypePattern, contractx.EntityAccountType)

	return results
}

func appendKeyword(results []contractx.Entity, reserved *spanLedger, text string, pat *regexp.Regexp, kind contractx.EntityKind) []contractx.Entity {
	for _, idx := range pat.FindAllStringIndex(text, -1) {
		if !reserved.claim(idx[0], idx[1]) {
			continue
		}
		results = append(results, contractx.Entity{
			Kind:  kind,
			Value: strings.ToLower(text[idx[0]:idx[1]]),
			Span:  contractx.Span{Start: idx[0], End: idx[1]},
		})
	}
	return results
}

// spanLedger tracks claimed [start,end) byte ranges.
type spanLedger []contractx.Span

// claim reserves the range unless it overlaps an already-claimed one.
func (l *spanLedger) claim(start, end int) bool {
	for _, r := range *l {
		if !(end <= r.Start || start >= r.End) {
			return false
		}
	}
	*l = append(*l, contractx.Span{Start: start, End: end})
	return true
}

// lastGroup returns the rightmost non-empty capture of a submatch index set.
func lastGroup(text string, idx []int) (string, bool) {
	for i := len(idx)/2 - 1; i >= 1; i-- {
		s, e := idx[2*i], idx[2*i+1]
		if s >= 0 && e > s {
			return text[s:e], true
		}
	}
	return "", false
}

func normalizeAmount(raw string) string {
	s := strings.TrimSpace(raw)
	s = currencySymbols.ReplaceAllString(s, "")
	s = currencyWords.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ",", "")
	// "Rs. 2000" leaves the marker's dot behind; trim stray edges.
	return strings.Trim(s, " .")
}
