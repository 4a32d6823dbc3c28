package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/byhelaman/minerva-api/internal/models"
)

// ScheduleEntryRepository handles persistence for imported schedule entries.
type ScheduleEntryRepository struct {
	db *sqlx.DB
}

// NewScheduleEntryRepository creates a new repository instance.
func NewScheduleEntryRepository(db *sqlx.DB) *ScheduleEntryRepository {
	return &ScheduleEntryRepository{db: db}
}

// BulkUpsert writes a batch of entries inside one transaction. Conflicts on
// the entry key overwrite the derived columns, which is what makes
// re-importing the same workbook idempotent.
func (r *ScheduleEntryRepository) BulkUpsert(ctx context.Context, entries []models.ScheduleEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin entry upsert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO schedule_entries (entry_key, entry_date, start_time, end_time, branch, instructor, program, shift, minutes, units, created_at)
VALUES (:entry_key, :entry_date, :start_time, :end_time, :branch, :instructor, :program, :shift, :minutes, :units, :created_at)
ON CONFLICT (entry_key) DO UPDATE SET shift = EXCLUDED.shift, minutes = EXCLUDED.minutes, units = EXCLUDED.units`

	now := time.Now().UTC()
	for i := range entries {
		if entries[i].Key == "" {
			entries[i].ComputeKey()
		}
		if entries[i].CreatedAt.IsZero() {
			entries[i].CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, query, entries[i]); err != nil {
			return 0, fmt.Errorf("upsert entry %s: %w", entries[i].Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit entry upsert: %w", err)
	}
	return len(entries), nil
}

// ListAll returns every stored entry ordered by date, start time and key.
// The assignment session builder consumes this as its working snapshot.
func (r *ScheduleEntryRepository) ListAll(ctx context.Context) ([]models.ScheduleEntry, error) {
	const query = `SELECT entry_key, entry_date, start_time, end_time, branch, instructor, program, shift, minutes, units, created_at FROM schedule_entries ORDER BY entry_date, start_time, entry_key`
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list all entries: %w", err)
	}
	return entries, nil
}

// List returns entries matching filters with pagination metadata.
func (r *ScheduleEntryRepository) List(ctx context.Context, filter models.EntryFilter) ([]models.ScheduleEntry, int, error) {
	base := "FROM schedule_entries WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Date != "" {
		conditions = append(conditions, fmt.Sprintf("entry_date = $%d", len(args)+1))
		args = append(args, filter.Date)
	}
	if filter.Branch != "" {
		conditions = append(conditions, fmt.Sprintf("branch = $%d", len(args)+1))
		args = append(args, filter.Branch)
	}
	if filter.Instructor != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(instructor) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Instructor)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT entry_key, entry_date, start_time, end_time, branch, instructor, program, shift, minutes, units, created_at %s ORDER BY entry_date, start_time, entry_key LIMIT %d OFFSET %d", base, size, offset)
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	return entries, total, nil
}

// DeleteAll clears the working schedule and returns the number of removed
// entries.
func (r *ScheduleEntryRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries`)
	if err != nil {
		return 0, fmt.Errorf("clear entries: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear entries rows affected: %w", err)
	}
	return removed, nil
}
