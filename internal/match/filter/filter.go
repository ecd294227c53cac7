package filter

import (
	"strings"

	"github.com/lostfoundhq/lostfound-be/internal/match/domain"
)

const (
	// MinScore is the calibrated precision/recall cutoff for raw engine
	// scores. Embedding similarity is noisy below this band.
	MinScore = 0.6

	// minTokenLen is the shortest item-label token considered meaningful
	// for the lexical gate.
	minTokenLen = 3
)

// Apply narrows a raw candidate list to the ones that corroborate the
// caller's query. Candidates pass through three gates in order: score,
// category, lexical relevance. The input order is preserved and the input
// slice is never mutated.
func Apply(candidates []domain.MatchCandidate, item, category string) []domain.MatchCandidate {
	tokens := tokenize(item)

	filtered := make([]domain.MatchCandidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Score < MinScore {
			continue
		}
		counterpart := cand.Counterpart()
		if counterpart == nil {
			counterpart = &domain.CandidateItem{}
		}
		if !categoryMatches(category, counterpart.Category) {
			continue
		}
		if !lexicalMatch(tokens, counterpart) {
			continue
		}
		filtered = append(filtered, cand)
	}

	return filtered
}

// categoryMatches applies the category gate. The gate only restricts when
// both sides carry a category; absence of category information never
// disqualifies a candidate on its own.
func categoryMatches(queryCategory, candidateCategory string) bool {
	qc := strings.TrimSpace(queryCategory)
	cc := strings.TrimSpace(candidateCategory)
	if qc == "" || cc == "" {
		return true
	}
	return strings.EqualFold(qc, cc)
}

// tokenize lower-cases the item label, replaces every non-alphanumeric rune
// with whitespace, splits on whitespace, and drops tokens shorter than
// minTokenLen.
func tokenize(item string) []string {
	normalized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return ' '
		}
	}, item)

	var tokens []string
	for _, tok := range strings.Fields(normalized) {
		if len(tok) >= minTokenLen {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// lexicalMatch requires at least one query token to appear as a substring of
// the candidate's item label or description. With zero tokens the gate is
// vacuously satisfied so degenerate labels do not zero out all results.
func lexicalMatch(tokens []string, counterpart *domain.CandidateItem) bool {
	if len(tokens) == 0 {
		return true
	}

	label := strings.ToLower(counterpart.Item)
	description := strings.ToLower(counterpart.Description)

	for _, tok := range tokens {
		if strings.Contains(label, tok) || strings.Contains(description, tok) {
			return true
		}
	}
	return false
}
