// Package classify turns raw inbound messages into opportunity records using
// fixed keyword and pattern heuristics. Every function is pure; nothing here
// performs I/O or keeps state between calls.
package classify

import "golang.org/x/text/cases"

// fold returns the case-folded form used for keyword matching.
// A Caser is not safe for concurrent use, so one is built per call.
func fold(value string) string {
	return cases.Fold().String(value)
}
