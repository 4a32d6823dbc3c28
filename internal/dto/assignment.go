package dto

import "github.com/byhelaman/minerva-api/internal/models"

// CreateSessionResponse summarises a freshly built assignment session.
type CreateSessionResponse struct {
	SessionID string               `json:"sessionId"`
	RowCount  int                  `json:"rowCount"`
	Totals    map[string]int       `json:"totals"`
	Overlaps  models.OverlapReport `json:"overlaps"`
}

// SessionRowsResponse returns rows plus the session's derived state.
type SessionRowsResponse struct {
	Rows     []models.AssignmentRow `json:"rows"`
	Filters  []models.RowStatus     `json:"activeStatusFilters"`
	Overlaps models.OverlapReport   `json:"overlaps"`
}

// SelectCandidateRequest picks one candidate from a row's ambiguous set.
type SelectCandidateRequest struct {
	MeetingID string `json:"meetingId" validate:"required"`
}

// SetInstructorRequest overrides a row's effective instructor.
type SetInstructorRequest struct {
	Instructor string `json:"instructor" validate:"required"`
}

// AddStatusFilterRequest surfaces an additional status in the table filter.
type AddStatusFilterRequest struct {
	Status models.RowStatus `json:"status" validate:"required"`
}

// RowMutationResponse wraps the affected row; Row is nil when the operation
// was a no-op against a missing row.
type RowMutationResponse struct {
	Row  *models.AssignmentRow `json:"row,omitempty"`
	Noop bool                  `json:"noop,omitempty"`
}
