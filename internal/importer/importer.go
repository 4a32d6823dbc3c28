package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/byhelaman/minerva-api/internal/models"
)

// Required workbook columns. Header matching is case-insensitive and
// tolerates surrounding whitespace.
const (
	colDate       = "date"
	colStartTime  = "start time"
	colEndTime    = "end time"
	colBranch     = "branch"
	colInstructor = "instructor"
	colProgram    = "program"
)

var requiredColumns = []string{colDate, colStartTime, colEndTime, colBranch, colInstructor, colProgram}

// SkippedRow records one workbook row that could not be turned into a
// schedule entry, with its 1-based row number and the reason.
type SkippedRow struct {
	RowNumber int    `json:"row_number"`
	Reason    string `json:"reason"`
}

// Result summarises one workbook parse.
type Result struct {
	Entries []models.ScheduleEntry `json:"-"`
	Skipped []SkippedRow           `json:"skipped"`
}

// Parse reads the first sheet of an .xlsx workbook into schedule entries.
// The first row must be a header naming the required columns; rows that do
// not parse are skipped with a reason rather than failing the import.
func Parse(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	columns, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for i, row := range rows[1:] {
		rowNumber := i + 2
		entry, reason := parseRow(row, columns)
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedRow{RowNumber: rowNumber, Reason: reason})
			continue
		}
		result.Entries = append(result.Entries, entry)
	}
	return result, nil
}

func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, cell := range header {
		columns[strings.ToLower(strings.TrimSpace(cell))] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("workbook header is missing columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func parseRow(row []string, columns map[string]int) (models.ScheduleEntry, string) {
	cell := func(name string) string {
		idx := columns[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	date, err := normalizeDate(cell(colDate))
	if err != nil {
		return models.ScheduleEntry{}, err.Error()
	}
	start, err := normalizeTime(cell(colStartTime))
	if err != nil {
		return models.ScheduleEntry{}, "start time: " + err.Error()
	}
	end, err := normalizeTime(cell(colEndTime))
	if err != nil {
		return models.ScheduleEntry{}, "end time: " + err.Error()
	}

	instructor := cell(colInstructor)
	if instructor == "" {
		return models.ScheduleEntry{}, "instructor is empty"
	}
	program := cell(colProgram)
	if program == "" {
		return models.ScheduleEntry{}, "program is empty"
	}

	entry := models.ScheduleEntry{
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Branch:     cell(colBranch),
		Instructor: instructor,
		Program:    program,
	}
	entry.ComputeKey()

	startMin := entry.StartMinutes()
	endMin := entry.EndMinutes()
	if endMin < startMin {
		return models.ScheduleEntry{}, fmt.Sprintf("end time %s precedes start time %s", end, start)
	}
	entry.Minutes = endMin - startMin
	entry.Units = float64(entry.Minutes) / 60
	entry.Shift = shiftFor(startMin)

	return entry, ""
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "01-02-06", "2/1/2006"}

func normalizeDate(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("date is empty")
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognised date %q", raw)
}

var timeLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"}

func normalizeTime(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("value is empty")
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("unrecognised time %q", raw)
}

func shiftFor(startMinutes int) string {
	switch {
	case startMinutes < 12*60:
		return "morning"
	case startMinutes < 18*60:
		return "afternoon"
	default:
		return "evening"
	}
}
