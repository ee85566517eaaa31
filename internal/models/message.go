package models

// RawMessage is one inbound message as handed over by a transport source.
// Sender and SubjectLine may be empty; the classifier supplies defaults.
type RawMessage struct {
	ID                    string `json:"id"`
	Sender                string `json:"sender,omitempty"`
	SubjectLine           string `json:"subjectLine,omitempty"`
	ReceivedAtEpochMillis int64  `json:"receivedAtEpochMillis"`
	SnippetText           string `json:"snippetText"`
}
