package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/byhelaman/minerva-api/internal/models"
)

// MeetingRepository handles persistence for the synced meeting candidate
// pool and its hosts.
type MeetingRepository struct {
	db *sqlx.DB
}

// NewMeetingRepository creates a new repository instance.
func NewMeetingRepository(db *sqlx.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// ReplaceAll swaps the candidate pool atomically. Sync is full-replace:
// partial pools from a failed upstream fetch never reach the matcher.
func (r *MeetingRepository) ReplaceAll(ctx context.Context, candidates []models.MeetingCandidate, hosts []models.Host) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin pool replace: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM meeting_candidates`); err != nil {
		return fmt.Errorf("clear candidates: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM meeting_hosts`); err != nil {
		return fmt.Errorf("clear hosts: %w", err)
	}

	now := time.Now().UTC()
	const candidateQuery = `INSERT INTO meeting_candidates (meeting_id, topic, host_id, start_time, synced_at) VALUES (:meeting_id, :topic, :host_id, :start_time, :synced_at)`
	for i := range candidates {
		if candidates[i].SyncedAt.IsZero() {
			candidates[i].SyncedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, candidateQuery, candidates[i]); err != nil {
			return fmt.Errorf("insert candidate %s: %w", candidates[i].MeetingID, err)
		}
	}

	const hostQuery = `INSERT INTO meeting_hosts (host_id, display_name, email) VALUES (:host_id, :display_name, :email)`
	for i := range hosts {
		if _, err := tx.NamedExecContext(ctx, hostQuery, hosts[i]); err != nil {
			return fmt.Errorf("insert host %s: %w", hosts[i].HostID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit pool replace: %w", err)
	}
	return nil
}

// Snapshot loads the current candidate pool with its host directory.
func (r *MeetingRepository) Snapshot(ctx context.Context) (models.CandidatePool, error) {
	var pool models.CandidatePool

	const candidateQuery = `SELECT meeting_id, topic, host_id, start_time, synced_at FROM meeting_candidates ORDER BY meeting_id`
	if err := r.db.SelectContext(ctx, &pool.Candidates, candidateQuery); err != nil {
		return models.CandidatePool{}, fmt.Errorf("load candidates: %w", err)
	}

	var hosts []models.Host
	const hostQuery = `SELECT host_id, display_name, email FROM meeting_hosts ORDER BY host_id`
	if err := r.db.SelectContext(ctx, &hosts, hostQuery); err != nil {
		return models.CandidatePool{}, fmt.Errorf("load hosts: %w", err)
	}

	pool.Hosts = make(map[string]string, len(hosts))
	for _, host := range hosts {
		pool.Hosts[host.HostID] = host.DisplayName
	}
	for _, candidate := range pool.Candidates {
		if candidate.SyncedAt.After(pool.SyncedAt) {
			pool.SyncedAt = candidate.SyncedAt
		}
	}

	return pool, nil
}

// Count returns the number of candidates currently in the pool.
func (r *MeetingRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM meeting_candidates`); err != nil {
		return 0, fmt.Errorf("count candidates: %w", err)
	}
	return count, nil
}
