package service

import (
	"sort"

	"github.com/byhelaman/minerva-api/internal/models"
)

// DetectOverlaps flags schedule entries whose time ranges collide with
// another entry for the same instructor on the same date. Intervals are
// half-open: an entry ending 10:00 does not conflict with one starting
// 10:00, and a zero-duration entry never conflicts with anything.
//
// The report's Count is the number of distinct conflicting entries. The
// function is pure and deterministic; keys in the report preserve input
// order.
func DetectOverlaps(entries []models.ScheduleEntry) models.OverlapReport {
	type slot struct {
		key   string
		start int
		end   int
	}

	groups := make(map[string][]slot)
	for _, entry := range entries {
		start := entry.StartMinutes()
		end := entry.EndMinutes()
		if start < 0 || end < 0 {
			continue
		}
		// Degenerate intervals never conflict under the half-open rule.
		if start == end {
			continue
		}
		groupKey := entry.Date + "|" + entry.Instructor
		groups[groupKey] = append(groups[groupKey], slot{key: entry.Key, start: start, end: end})
	}

	conflicting := make(map[string]struct{})
	for _, slots := range groups {
		if len(slots) < 2 {
			continue
		}
		sort.Slice(slots, func(i, j int) bool {
			if slots[i].start != slots[j].start {
				return slots[i].start < slots[j].start
			}
			return slots[i].end < slots[j].end
		})
		// Sweep: track the furthest end seen so far; any entry starting
		// before it overlaps the entry that produced it.
		maxEnd := slots[0].end
		maxKey := slots[0].key
		for i := 1; i < len(slots); i++ {
			if slots[i].start < maxEnd {
				conflicting[slots[i].key] = struct{}{}
				conflicting[maxKey] = struct{}{}
			}
			if slots[i].end > maxEnd {
				maxEnd = slots[i].end
				maxKey = slots[i].key
			}
		}
	}

	report := models.OverlapReport{ConflictingKeys: make([]string, 0, len(conflicting))}
	for _, entry := range entries {
		if _, ok := conflicting[entry.Key]; ok {
			report.ConflictingKeys = append(report.ConflictingKeys, entry.Key)
			delete(conflicting, entry.Key)
		}
	}
	report.Count = len(report.ConflictingKeys)
	return report
}
