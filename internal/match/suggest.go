package match

import (
	"sort"
	"strings"
)

// DefaultMinScore is the similarity a known name needs to be suggested.
const DefaultMinScore = 0.6

// Candidate is a known name scored against a declared one.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is sorted by descending score, then by name.
type CandidateList []Candidate

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns at most n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// AboveThreshold returns the candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var out CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			out = append(out, cand)
		}
	}

	return out
}

// Names returns the candidate names in order.
func (c CandidateList) Names() []string {
	out := make([]string, len(c))
	for i, cand := range c {
		out[i] = cand.Name
	}

	return out
}

// Rank scores every known name against name. A known name whose tokens
// contain the declared name as a whole token scores at least DefaultMinScore,
// so "extract" finds "css-extract".
func Rank(name string, known []string) CandidateList {
	norm := Normalize(name)
	out := make(CandidateList, 0, len(known))

	for _, k := range known {
		score := Similarity(norm, Normalize(k))

		if score < DefaultMinScore && norm != "" {
			for _, tok := range Tokens(k) {
				if tok == norm {
					score = DefaultMinScore
					break
				}
			}
		}

		out = append(out, Candidate{Name: k, Score: score})
	}

	sort.Sort(out)

	return out
}

// Suggest returns up to three known names close enough to name.
func Suggest(name string, known []string) []string {
	return Rank(name, known).AboveThreshold(DefaultMinScore).Top(3).Names()
}

// DidYouMean formats suggestions for an error message, or returns "".
func DidYouMean(name string, known []string) string {
	s := Suggest(name, known)
	if len(s) == 0 {
		return ""
	}

	return " (did you mean " + strings.Join(quoteAll(s), " or ") + "?)"
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = `"` + s + `"`
	}

	return out
}
