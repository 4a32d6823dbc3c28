package service

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/byhelaman/minerva-api/internal/dto"
	"github.com/byhelaman/minerva-api/internal/importer"
	"github.com/byhelaman/minerva-api/internal/models"
	appErrors "github.com/byhelaman/minerva-api/pkg/errors"
)

const entriesCachePattern = "minerva:entries:*"

type entryStore interface {
	BulkUpsert(ctx context.Context, entries []models.ScheduleEntry) (int, error)
	ListAll(ctx context.Context) ([]models.ScheduleEntry, error)
	List(ctx context.Context, filter models.EntryFilter) ([]models.ScheduleEntry, int, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// ScheduleService owns the imported working schedule: workbook ingestion,
// listing, clearing and overlap reporting.
type ScheduleService struct {
	repo   entryStore
	cache  *CacheService
	logger *zap.Logger
}

// NewScheduleService wires the schedule service.
func NewScheduleService(repo entryStore, cache *CacheService, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, cache: cache, logger: logger}
}

// Import parses an uploaded workbook and upserts the resulting entries.
// Malformed rows are reported, not fatal; a workbook where nothing parses
// is rejected.
func (s *ScheduleService) Import(ctx context.Context, r io.Reader) (*dto.ImportResponse, error) {
	result, err := importer.Parse(r)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "workbook could not be parsed")
	}
	if len(result.Entries) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "workbook contains no importable rows")
	}

	imported, err := s.repo.BulkUpsert(ctx, result.Entries)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store schedule entries")
	}

	if err := s.cache.Invalidate(ctx, entriesCachePattern); err != nil {
		s.logger.Warn("entry cache invalidation failed", zap.Error(err))
	}

	resp := &dto.ImportResponse{Imported: imported}
	for _, skipped := range result.Skipped {
		resp.Skipped = append(resp.Skipped, dto.SkippedRowResponse{RowNumber: skipped.RowNumber, Reason: skipped.Reason})
	}
	s.logger.Info("schedule imported", zap.Int("imported", imported), zap.Int("skipped", len(result.Skipped)))
	return resp, nil
}

// List returns a filtered page of entries.
func (s *ScheduleService) List(ctx context.Context, filter models.EntryFilter) (*dto.EntriesResponse, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule entries")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return &dto.EntriesResponse{
		Entries:    entries,
		Pagination: models.Pagination{Page: page, PageSize: size, TotalCount: total},
	}, nil
}

// Clear drops the working schedule.
func (s *ScheduleService) Clear(ctx context.Context) (*dto.ClearEntriesResponse, error) {
	removed, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear schedule entries")
	}
	if err := s.cache.Invalidate(ctx, entriesCachePattern); err != nil {
		s.logger.Warn("entry cache invalidation failed", zap.Error(err))
	}
	s.logger.Info("schedule cleared", zap.Int64("removed", removed))
	return &dto.ClearEntriesResponse{Removed: removed}, nil
}

// Overlaps runs conflict detection over the full working schedule.
func (s *ScheduleService) Overlaps(ctx context.Context) (models.OverlapReport, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return models.OverlapReport{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}
	return DetectOverlaps(entries), nil
}
