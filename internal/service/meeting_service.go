package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/byhelaman/minerva-api/internal/dto"
	"github.com/byhelaman/minerva-api/internal/models"
	appErrors "github.com/byhelaman/minerva-api/pkg/errors"
)

const poolCacheKey = "minerva:pool:snapshot"

type meetingStore interface {
	ReplaceAll(ctx context.Context, candidates []models.MeetingCandidate, hosts []models.Host) error
	Snapshot(ctx context.Context) (models.CandidatePool, error)
}

// MeetingService manages the synced meeting candidate pool. The external
// sync process replaces the pool wholesale; readers get a cached snapshot.
type MeetingService struct {
	repo       meetingStore
	cache      *CacheService
	validate   *validator.Validate
	logger     *zap.Logger
	apiKeyHash string
	cacheTTL   time.Duration
}

// NewMeetingService wires the meeting service. apiKeyHash is the bcrypt
// hash the sync key is verified against.
func NewMeetingService(repo meetingStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger, apiKeyHash string, cacheTTL time.Duration) *MeetingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &MeetingService{
		repo:       repo,
		cache:      cache,
		validate:   validate,
		logger:     logger,
		apiKeyHash: apiKeyHash,
		cacheTTL:   cacheTTL,
	}
}

// VerifySyncKey checks a presented sync key against the configured bcrypt
// hash. An unset hash disables the sync endpoint entirely.
func (s *MeetingService) VerifySyncKey(key string) error {
	if s.apiKeyHash == "" {
		return appErrors.Clone(appErrors.ErrForbidden, "sync is not configured")
	}
	if key == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "missing sync key")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.apiKeyHash), []byte(key)); err != nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "invalid sync key")
	}
	return nil
}

// Sync replaces the candidate pool and host directory wholesale and drops
// the cached snapshot.
func (s *MeetingService) Sync(ctx context.Context, req dto.SyncRequest) (*dto.SyncResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sync payload")
	}
	if len(req.Candidates) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sync payload has no candidates")
	}

	now := time.Now().UTC()
	candidates := make([]models.MeetingCandidate, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		candidates = append(candidates, models.MeetingCandidate{
			MeetingID: c.MeetingID,
			Topic:     c.Topic,
			HostID:    c.HostID,
			StartTime: c.StartTime,
			SyncedAt:  now,
		})
	}
	hosts := make([]models.Host, 0, len(req.Hosts))
	for _, h := range req.Hosts {
		hosts = append(hosts, models.Host{HostID: h.HostID, DisplayName: h.DisplayName, Email: h.Email})
	}

	if err := s.repo.ReplaceAll(ctx, candidates, hosts); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace candidate pool")
	}

	if err := s.cache.Invalidate(ctx, poolCacheKey); err != nil {
		s.logger.Warn("pool cache invalidation failed", zap.Error(err))
	}

	s.logger.Info("candidate pool synced",
		zap.Int("candidates", len(candidates)),
		zap.Int("hosts", len(hosts)),
	)
	return &dto.SyncResponse{Candidates: len(candidates), Hosts: len(hosts), SyncedAt: now}, nil
}

// Snapshot returns the current candidate pool, served from cache when warm.
func (s *MeetingService) Snapshot(ctx context.Context) (models.CandidatePool, error) {
	var pool models.CandidatePool
	if hit, err := s.cache.Get(ctx, poolCacheKey, &pool); err == nil && hit {
		return pool, nil
	}

	pool, err := s.repo.Snapshot(ctx)
	if err != nil {
		return models.CandidatePool{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidate pool")
	}

	if err := s.cache.Set(ctx, poolCacheKey, pool, s.cacheTTL); err != nil {
		s.logger.Warn("pool cache write failed", zap.Error(err))
	}
	return pool, nil
}

// Pool exposes the snapshot as an API response.
func (s *MeetingService) Pool(ctx context.Context) (*dto.MeetingsResponse, error) {
	pool, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.MeetingsResponse{Candidates: pool.Candidates, Hosts: pool.Hosts, SyncedAt: pool.SyncedAt}, nil
}
