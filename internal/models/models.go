package models

import "time"

// Match is the word and algorithm that reproduced a target hash.
type Match struct {
	Word      string `json:"word"`
	Algorithm string `json:"algorithm"`
}

// CrackResult maps every cracked hash to its first match. Hashes that were
// not cracked are absent.
type CrackResult map[string]Match

// Outcome is the per-hash status emitted once the engine is done with a hash.
type Outcome struct {
	Hash      string
	Found     bool
	Word      string
	Algorithm string
	Attempts  int
}

type CrackHashRequest struct {
	Hashes     []string `json:"hashes"`
	Algorithms []string `json:"algorithms"`
	Words      []string `json:"words,omitempty"`
}

type CrackHashResponse struct {
	RequestID string `json:"requestId"`
}

type StatusResponse struct {
	Status            string           `json:"status"`
	Data              map[string]Match `json:"data"`
	NotFound          []string         `json:"notFound,omitempty"`
	InvalidHashes     []string         `json:"invalidHashes,omitempty"`
	InvalidAlgorithms []string         `json:"invalidAlgorithms,omitempty"`
	Error             string           `json:"error,omitempty"`
}

// OutcomeEvent is the message published to the broker for every hash.
type OutcomeEvent struct {
	RunID     string    `json:"runId"`
	Hash      string    `json:"hash"`
	Found     bool      `json:"found"`
	Word      string    `json:"word,omitempty"`
	Algorithm string    `json:"algorithm,omitempty"`
	Attempts  int       `json:"attempts"`
	At        time.Time `json:"at"`
}
