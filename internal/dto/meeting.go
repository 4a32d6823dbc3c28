package dto

import (
	"time"

	"github.com/byhelaman/minerva-api/internal/models"
)

// SyncCandidate is one meeting in a sync payload.
type SyncCandidate struct {
	MeetingID string `json:"meetingId" validate:"required"`
	Topic     string `json:"topic" validate:"required"`
	HostID    string `json:"hostId"`
	StartTime string `json:"startTime"`
}

// SyncHost is one host record in a sync payload.
type SyncHost struct {
	HostID      string `json:"hostId" validate:"required"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email" validate:"omitempty,email"`
}

// SyncRequest replaces the candidate pool wholesale.
type SyncRequest struct {
	Candidates []SyncCandidate `json:"candidates" validate:"required,dive"`
	Hosts      []SyncHost      `json:"hosts" validate:"dive"`
}

// SyncResponse reports the accepted pool size.
type SyncResponse struct {
	Candidates int       `json:"candidates"`
	Hosts      int       `json:"hosts"`
	SyncedAt   time.Time `json:"syncedAt"`
}

// MeetingsResponse returns the current candidate pool.
type MeetingsResponse struct {
	Candidates []models.MeetingCandidate `json:"candidates"`
	Hosts      map[string]string         `json:"hosts"`
	SyncedAt   time.Time                 `json:"syncedAt"`
}
