package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byhelaman/minerva-api/internal/models"
)

func overlapEntry(date, start, end, instructor string) models.ScheduleEntry {
	entry := models.ScheduleEntry{
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Branch:     "central",
		Instructor: instructor,
		Program:    "English 101",
	}
	entry.ComputeKey()
	return entry
}

func TestDetectOverlapsFlagsBothEntries(t *testing.T) {
	a := overlapEntry("2026-03-02", "09:00", "10:00", "Garcia")
	b := overlapEntry("2026-03-02", "09:30", "10:30", "Garcia")

	report := DetectOverlaps([]models.ScheduleEntry{a, b})
	assert.Equal(t, 2, report.Count)
	assert.True(t, report.HasConflict(a.Key))
	assert.True(t, report.HasConflict(b.Key))
}

func TestDetectOverlapsTouchingBoundaries(t *testing.T) {
	a := overlapEntry("2026-03-02", "09:00", "10:00", "Garcia")
	b := overlapEntry("2026-03-02", "10:00", "11:00", "Garcia")

	report := DetectOverlaps([]models.ScheduleEntry{a, b})
	assert.Equal(t, 0, report.Count)
	assert.Empty(t, report.ConflictingKeys)
}

func TestDetectOverlapsIgnoresOtherInstructorsAndDates(t *testing.T) {
	entries := []models.ScheduleEntry{
		overlapEntry("2026-03-02", "09:00", "10:00", "Garcia"),
		overlapEntry("2026-03-02", "09:00", "10:00", "Moreno"),
		overlapEntry("2026-03-03", "09:00", "10:00", "Garcia"),
	}

	report := DetectOverlaps(entries)
	assert.Equal(t, 0, report.Count)
}

func TestDetectOverlapsContainment(t *testing.T) {
	outer := overlapEntry("2026-03-02", "08:00", "12:00", "Garcia")
	inner := overlapEntry("2026-03-02", "09:00", "10:00", "Garcia")
	later := overlapEntry("2026-03-02", "10:30", "11:30", "Garcia")

	report := DetectOverlaps([]models.ScheduleEntry{inner, outer, later})
	assert.Equal(t, 3, report.Count)
	assert.True(t, report.HasConflict(outer.Key))
	assert.True(t, report.HasConflict(inner.Key))
	assert.True(t, report.HasConflict(later.Key))
}

func TestDetectOverlapsZeroDuration(t *testing.T) {
	point := overlapEntry("2026-03-02", "09:30", "09:30", "Garcia")
	spanning := overlapEntry("2026-03-02", "09:00", "10:00", "Garcia")

	report := DetectOverlaps([]models.ScheduleEntry{point, spanning})
	assert.Equal(t, 0, report.Count)
}

func TestDetectOverlapsSkipsUnparseableTimes(t *testing.T) {
	broken := overlapEntry("2026-03-02", "morning", "10:00", "Garcia")
	ok := overlapEntry("2026-03-02", "09:00", "10:00", "Garcia")

	report := DetectOverlaps([]models.ScheduleEntry{broken, ok})
	assert.Equal(t, 0, report.Count)
}

func TestDetectOverlapsCountsDistinctEntriesNotPairs(t *testing.T) {
	entries := []models.ScheduleEntry{
		overlapEntry("2026-03-02", "09:00", "12:00", "Garcia"),
		overlapEntry("2026-03-02", "09:30", "10:30", "Garcia"),
		overlapEntry("2026-03-02", "10:00", "11:00", "Garcia"),
		overlapEntry("2026-03-02", "11:00", "11:45", "Garcia"),
	}

	// Three overlapping pairs exist among the first three entries and the
	// fourth sits inside the long one; the count is per entry, not per pair.
	report := DetectOverlaps(entries)
	assert.Equal(t, 4, report.Count)
}

func TestDetectOverlapsPreservesInputOrder(t *testing.T) {
	first := overlapEntry("2026-03-02", "11:00", "12:00", "Garcia")
	second := overlapEntry("2026-03-02", "09:00", "10:00", "Garcia")
	third := overlapEntry("2026-03-02", "11:30", "12:30", "Garcia")
	fourth := overlapEntry("2026-03-02", "09:15", "09:45", "Garcia")

	report := DetectOverlaps([]models.ScheduleEntry{first, second, third, fourth})
	require.Equal(t, 4, report.Count)
	assert.Equal(t, []string{first.Key, second.Key, third.Key, fourth.Key}, report.ConflictingKeys)
}

func TestDetectOverlapsDeterministic(t *testing.T) {
	entries := []models.ScheduleEntry{
		overlapEntry("2026-03-02", "09:00", "10:00", "Garcia"),
		overlapEntry("2026-03-02", "09:30", "10:30", "Garcia"),
		overlapEntry("2026-03-02", "11:00", "12:00", "Moreno"),
	}

	first := DetectOverlaps(entries)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DetectOverlaps(entries))
	}
}

func TestDetectOverlapsEmptyInput(t *testing.T) {
	report := DetectOverlaps(nil)
	assert.Equal(t, 0, report.Count)
	assert.NotNil(t, report.ConflictingKeys)
}
