package models

// RowStatus classifies an assignment row. The set is closed; handlers and
// services switch exhaustively over it instead of comparing free strings.
type RowStatus string

// Row status constants.
const (
	StatusAssigned  RowStatus = "assigned"
	StatusToUpdate  RowStatus = "to_update"
	StatusNotFound  RowStatus = "not_found"
	StatusAmbiguous RowStatus = "ambiguous"
	StatusManual    RowStatus = "manual"
)

// Valid reports whether the status is one of the closed set.
func (s RowStatus) Valid() bool {
	switch s {
	case StatusAssigned, StatusToUpdate, StatusNotFound, StatusAmbiguous, StatusManual:
		return true
	}
	return false
}

// Label returns the fixed UI label for the status.
func (s RowStatus) Label() string {
	switch s {
	case StatusAssigned:
		return "Assigned"
	case StatusToUpdate:
		return "To Update"
	case StatusNotFound:
		return "Not Found"
	case StatusAmbiguous:
		return "Ambiguous"
	case StatusManual:
		return "Manual"
	}
	return string(s)
}

// MatchOutcome tags the result of matching one entry against the pool.
type MatchOutcome string

// Match outcome constants.
const (
	OutcomeNoMatch   MatchOutcome = "no_match"
	OutcomeConfident MatchOutcome = "confident"
	OutcomeAmbiguous MatchOutcome = "ambiguous"
)

// ScoredCandidate pairs a meeting candidate with its similarity score for
// one schedule entry.
type ScoredCandidate struct {
	Candidate MeetingCandidate `json:"candidate"`
	Score     float64          `json:"score"`
}

// MatchResult is the outcome of matching one schedule entry.
//
// Invariants: Best is non-nil iff Outcome == OutcomeConfident; Ranked is
// non-empty iff Outcome == OutcomeAmbiguous. Reason is advisory diagnostic
// text, never consumed by downstream logic.
type MatchResult struct {
	Outcome MatchOutcome      `json:"outcome"`
	Best    *ScoredCandidate  `json:"best,omitempty"`
	Ranked  []ScoredCandidate `json:"ranked,omitempty"`
	Reason  string            `json:"reason,omitempty"`
}

// AssignmentRow wraps one schedule entry with its matching state. Exactly one
// row exists per entry; the id equals the entry key and never changes across
// re-matching passes.
type AssignmentRow struct {
	ID                  string            `json:"id"`
	Entry               ScheduleEntry     `json:"entry"`
	Status              RowStatus         `json:"status"`
	StatusLabel         string            `json:"status_label"`
	MatchedCandidate    *ScoredCandidate  `json:"matched_candidate,omitempty"`
	AmbiguousCandidates []ScoredCandidate `json:"ambiguous_candidates,omitempty"`
	Reason              string            `json:"reason,omitempty"`
	DetailedReason      string            `json:"detailed_reason,omitempty"`
	ManualMode          bool              `json:"manual_mode"`
	Instructor          string            `json:"instructor"`
	HostName            string            `json:"host_name,omitempty"`
}
