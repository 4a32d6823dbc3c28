package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf := &bytes.Buffer{}
	require.NoError(t, f.Write(buf))
	return buf
}

var header = []interface{}{"Date", "Start Time", "End Time", "Branch", "Instructor", "Program"}

func TestParseWorkbook(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		header,
		{"2026-03-02", "09:00", "10:30", "central", "Garcia", "English 101"},
		{"2026-03-02", "18:30", "20:00", "north", "Moreno", "Portuguese Basics"},
	})

	result, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)
	assert.Empty(t, result.Skipped)

	first := result.Entries[0]
	assert.Equal(t, "2026-03-02", first.Date)
	assert.Equal(t, "09:00", first.StartTime)
	assert.Equal(t, "10:30", first.EndTime)
	assert.Equal(t, 90, first.Minutes)
	assert.InDelta(t, 1.5, first.Units, 0.001)
	assert.Equal(t, "morning", first.Shift)
	assert.NotEmpty(t, first.Key)

	assert.Equal(t, "evening", result.Entries[1].Shift)
}

func TestParseSkipsMalformedRows(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		header,
		{"2026-03-02", "09:00", "10:30", "central", "Garcia", "English 101"},
		{"not-a-date", "09:00", "10:30", "central", "Garcia", "English 101"},
		{"2026-03-02", "25:99", "10:30", "central", "Garcia", "English 101"},
		{"2026-03-02", "09:00", "10:30", "central", "", "English 101"},
		{"2026-03-02", "09:00", "10:30", "central", "Garcia", ""},
		{"2026-03-02", "10:30", "09:00", "central", "Garcia", "English 101"},
	})

	result, err := Parse(buf)
	require.NoError(t, err)
	assert.Len(t, result.Entries, 1)
	require.Len(t, result.Skipped, 5)

	assert.Equal(t, 3, result.Skipped[0].RowNumber)
	assert.Contains(t, result.Skipped[0].Reason, "unrecognised date")
	assert.Contains(t, result.Skipped[1].Reason, "start time")
	assert.Contains(t, result.Skipped[2].Reason, "instructor is empty")
	assert.Contains(t, result.Skipped[3].Reason, "program is empty")
	assert.Contains(t, result.Skipped[4].Reason, "precedes start time")
}

func TestParseRejectsMissingColumns(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Date", "Start Time", "Instructor"},
		{"2026-03-02", "09:00", "Garcia"},
	})

	_, err := Parse(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
	assert.Contains(t, err.Error(), "end time")
}

func TestParseHeaderIsCaseInsensitive(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"  DATE ", "start time", "END TIME", "Branch", "INSTRUCTOR", "program"},
		{"02/03/2026", "9:00 AM", "10:30", "central", "Garcia", "English 101"},
	})

	result, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "2026-03-02", result.Entries[0].Date)
	assert.Equal(t, "09:00", result.Entries[0].StartTime)
}

func TestParseRejectsNonWorkbook(t *testing.T) {
	_, err := Parse(strings.NewReader("definitely not a zip archive"))
	require.Error(t, err)
}
