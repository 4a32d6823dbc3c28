package dto

import "github.com/byhelaman/minerva-api/internal/models"

// ImportResponse summarises one workbook import.
type ImportResponse struct {
	Imported int                  `json:"imported"`
	Skipped  []SkippedRowResponse `json:"skipped,omitempty"`
}

// SkippedRowResponse reports one rejected workbook row.
type SkippedRowResponse struct {
	RowNumber int    `json:"rowNumber"`
	Reason    string `json:"reason"`
}

// EntriesResponse returns a page of schedule entries.
type EntriesResponse struct {
	Entries    []models.ScheduleEntry `json:"entries"`
	Pagination models.Pagination      `json:"pagination"`
}

// ClearEntriesResponse reports the number of removed entries.
type ClearEntriesResponse struct {
	Removed int64 `json:"removed"`
}
