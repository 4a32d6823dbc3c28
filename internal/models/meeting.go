package models

import "time"

// MeetingCandidate is one recurring virtual-meeting resource available for
// matching against schedule entries. The pool is supplied wholesale by an
// external sync process and treated as a read-only snapshot per matching pass.
type MeetingCandidate struct {
	MeetingID string    `db:"meeting_id" json:"meeting_id"`
	Topic     string    `db:"topic" json:"topic"`
	HostID    string    `db:"host_id" json:"host_id"`
	StartTime string    `db:"start_time" json:"start_time"`
	SyncedAt  time.Time `db:"synced_at" json:"synced_at"`
}

// Host is the owner of one or more meeting resources.
type Host struct {
	HostID      string `db:"host_id" json:"host_id"`
	DisplayName string `db:"display_name" json:"display_name"`
	Email       string `db:"email" json:"email"`
}

// CandidatePool is the snapshot handed to a matching pass: the candidate
// roster plus a host-id to display-name lookup.
type CandidatePool struct {
	Candidates []MeetingCandidate `json:"candidates"`
	Hosts      map[string]string  `json:"hosts"`
	SyncedAt   time.Time          `json:"synced_at"`
}

// HostName resolves a host id to its display name, falling back to the id.
func (p CandidatePool) HostName(hostID string) string {
	if name, ok := p.Hosts[hostID]; ok && name != "" {
		return name
	}
	return hostID
}
