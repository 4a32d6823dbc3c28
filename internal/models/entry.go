package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ScheduleEntry is one imported row of the working schedule: a dated, timed
// activity assigned to an instructor at a branch. Entries are immutable once
// parsed; all downstream state (assignment rows) references them by key.
type ScheduleEntry struct {
	Key        string    `db:"entry_key" json:"key"`
	Date       string    `db:"entry_date" json:"date"`
	StartTime  string    `db:"start_time" json:"start_time"`
	EndTime    string    `db:"end_time" json:"end_time"`
	Branch     string    `db:"branch" json:"branch"`
	Instructor string    `db:"instructor" json:"instructor"`
	Program    string    `db:"program" json:"program"`
	Shift      string    `db:"shift" json:"shift"`
	Minutes    int       `db:"minutes" json:"minutes"`
	Units      float64   `db:"units" json:"units"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// EntryKey derives the stable identity of a schedule entry. The same entry
// always hashes to the same key, which is what de-duplicates re-imports and
// keeps assignment row ids stable across matching passes.
func EntryKey(date, startTime, endTime, branch, instructor, program string) string {
	payload := fmt.Sprintf("%s|%s|%s|%s|%s|%s", date, startTime, endTime, branch, instructor, program)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:16])
}

// ComputeKey fills the Key field from the entry's identity columns.
func (e *ScheduleEntry) ComputeKey() {
	e.Key = EntryKey(e.Date, e.StartTime, e.EndTime, e.Branch, e.Instructor, e.Program)
}

// StartMinutes returns the start time as minutes since midnight, or -1 when
// the value does not parse as HH:MM.
func (e ScheduleEntry) StartMinutes() int {
	return clockMinutes(e.StartTime)
}

// EndMinutes returns the end time as minutes since midnight, or -1 when the
// value does not parse as HH:MM.
func (e ScheduleEntry) EndMinutes() int {
	return clockMinutes(e.EndTime)
}

func clockMinutes(raw string) int {
	var h, m int
	if _, err := fmt.Sscanf(raw, "%d:%d", &h, &m); err != nil {
		return -1
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return -1
	}
	return h*60 + m
}

// OverlapReport lists schedule entries whose time ranges collide with at
// least one other entry for the same instructor on the same date.
//
// Count is the number of distinct conflicting entries, not pairs: the UI
// badge for [A 09:00-10:00, A 09:30-10:30] reads 2.
type OverlapReport struct {
	ConflictingKeys []string `json:"conflicting_keys"`
	Count           int      `json:"count"`
}

// HasConflict reports whether the given entry key appears in the report.
func (r OverlapReport) HasConflict(key string) bool {
	for _, k := range r.ConflictingKeys {
		if k == key {
			return true
		}
	}
	return false
}

// EntryFilter describes query params for listing schedule entries.
type EntryFilter struct {
	Date       string
	Branch     string
	Instructor string
	Page       int
	PageSize   int
}
