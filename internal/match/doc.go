// Package match ranks record names against a misspelled base reference so an
// unresolved predecessor can be reported with "did you mean" suggestions.
//
// Key functions:
//   - Levenshtein: edit distance between two strings
//   - Similarity: case- and separator-insensitive score in [0, 1]
//   - Suggest: best candidates above a threshold
package match
