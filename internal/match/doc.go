// Package match ranks declared names against the names a component knows,
// so that a misspelled plugin, condition or phase can be reported with a
// "did you mean" suggestion.
//
// Names are compared after normalization (case folding, separator and
// camelCase removal) using a normalized Levenshtein similarity.
package match
