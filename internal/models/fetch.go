package models

// FetchParams bounds what a source hands to the classifier.
type FetchParams struct {
	// MaxResults caps how many message identifiers are listed.
	MaxResults int
	// Limit caps how many listed messages are fetched in full.
	Limit         int
	NewerThanDays int
}
