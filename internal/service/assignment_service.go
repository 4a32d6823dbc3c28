package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/byhelaman/minerva-api/internal/dto"
	"github.com/byhelaman/minerva-api/internal/models"
	"github.com/byhelaman/minerva-api/pkg/config"
	appErrors "github.com/byhelaman/minerva-api/pkg/errors"
)

type entryLister interface {
	ListAll(ctx context.Context) ([]models.ScheduleEntry, error)
}

type candidatePoolProvider interface {
	Snapshot(ctx context.Context) (models.CandidatePool, error)
}

// AssignmentService builds and mutates assignment sessions: the working set
// of schedule entries matched against the meeting candidate pool. All row
// mutations are serialized per session; the matcher itself is pure.
type AssignmentService struct {
	entries entryLister
	pool    candidatePoolProvider
	matcher *Matcher
	metrics *MetricsService
	logger  *zap.Logger
	store   *sessionStore
}

// NewAssignmentService wires the session orchestrator.
func NewAssignmentService(entries entryLister, pool candidatePoolProvider, matcher *Matcher, metrics *MetricsService, logger *zap.Logger, ttl time.Duration) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if matcher == nil {
		matcher = NewMatcher(config.MatchingConfig{})
	}
	return &AssignmentService{
		entries: entries,
		pool:    pool,
		matcher: matcher,
		metrics: metrics,
		logger:  logger,
		store:   newSessionStore(ttl),
	}
}

// CreateSession snapshots the current entries and candidate pool, runs the
// matcher over every entry and stores the resulting row set. The pool is
// fetched once up front and never refreshed mid-session.
func (s *AssignmentService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	entries, err := s.entries.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}
	pool, err := s.pool.Snapshot(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidate pool")
	}

	start := time.Now()
	session := &assignmentSession{
		id:        uuid.NewString(),
		createdAt: time.Now().UTC(),
		pool:      pool,
		rows:      make(map[string]*models.AssignmentRow, len(entries)),
		auto:      make(map[string]models.MatchResult, len(entries)),
		filters:   make(map[models.RowStatus]struct{}),
		overlaps:  DetectOverlaps(entries),
	}

	totals := make(map[string]int)
	for _, entry := range entries {
		if _, exists := session.rows[entry.Key]; exists {
			continue
		}
		row, result := s.buildRow(entry, pool)
		session.rows[row.ID] = row
		session.auto[row.ID] = result
		session.order = append(session.order, row.ID)
		totals[string(row.Status)]++
	}

	s.store.Save(session)
	s.metrics.RecordMatchPass(totals, session.overlaps.Count, time.Since(start))
	s.logger.Info("assignment session built",
		zap.String("session_id", session.id),
		zap.Int("rows", len(session.order)),
		zap.Int("conflicts", session.overlaps.Count),
	)

	return &dto.CreateSessionResponse{
		SessionID: session.id,
		RowCount:  len(session.order),
		Totals:    totals,
		Overlaps:  session.overlaps,
	}, nil
}

// Rows returns the session's rows in build order, optionally filtered by
// status.
func (s *AssignmentService) Rows(ctx context.Context, sessionID string, statuses []models.RowStatus) (*dto.SessionRowsResponse, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	wanted := make(map[models.RowStatus]struct{}, len(statuses))
	for _, status := range statuses {
		wanted[status] = struct{}{}
	}

	rows := make([]models.AssignmentRow, 0, len(session.order))
	for _, id := range session.order {
		row := session.rows[id]
		if len(wanted) > 0 {
			if _, ok := wanted[row.Status]; !ok {
				continue
			}
		}
		rows = append(rows, *row)
	}

	return &dto.SessionRowsResponse{
		Rows:     rows,
		Filters:  session.activeFilters(),
		Overlaps: session.overlaps,
	}, nil
}

// SelectCandidate resolves an ambiguous row by picking one of its ranked
// candidates. The pick is recorded as a manual decision and the ambiguous
// set is retained so the choice stays revisable. As a side effect the
// session's active status filter set gains the manual status so the row
// remains visible in filtered views.
func (s *AssignmentService) SelectCandidate(ctx context.Context, sessionID, rowID, meetingID string) (*dto.RowMutationResponse, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	row, ok := session.rows[rowID]
	if !ok {
		s.logNoop(sessionID, rowID, "select_candidate", "row not found")
		return &dto.RowMutationResponse{Noop: true}, nil
	}
	if row.Status != models.StatusAmbiguous && row.Status != models.StatusManual {
		s.logNoop(sessionID, rowID, "select_candidate", fmt.Sprintf("invalid status %s", row.Status))
		return &dto.RowMutationResponse{Row: copyRow(row), Noop: true}, nil
	}

	var picked *models.ScoredCandidate
	for i := range row.AmbiguousCandidates {
		if row.AmbiguousCandidates[i].Candidate.MeetingID == meetingID {
			picked = &row.AmbiguousCandidates[i]
			break
		}
	}
	if picked == nil {
		s.logNoop(sessionID, rowID, "select_candidate", "candidate not in ambiguous set")
		return &dto.RowMutationResponse{Row: copyRow(row), Noop: true}, nil
	}

	selected := *picked
	row.MatchedCandidate = &selected
	row.Status = models.StatusManual
	row.StatusLabel = row.Status.Label()
	row.HostName = session.pool.HostName(selected.Candidate.HostID)
	session.filters[models.StatusManual] = struct{}{}

	return &dto.RowMutationResponse{Row: copyRow(row)}, nil
}

// DeselectCandidate reverts a manual pick made from the row's own ambiguous
// set, restoring the ambiguous status with the ranked candidates untouched.
func (s *AssignmentService) DeselectCandidate(ctx context.Context, sessionID, rowID string) (*dto.RowMutationResponse, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	row, ok := session.rows[rowID]
	if !ok {
		s.logNoop(sessionID, rowID, "deselect_candidate", "row not found")
		return &dto.RowMutationResponse{Noop: true}, nil
	}
	if row.Status != models.StatusManual || row.MatchedCandidate == nil || !inAmbiguousSet(row, row.MatchedCandidate.Candidate.MeetingID) {
		s.logNoop(sessionID, rowID, "deselect_candidate", "no revisable selection")
		return &dto.RowMutationResponse{Row: copyRow(row), Noop: true}, nil
	}

	row.MatchedCandidate = nil
	row.Status = models.StatusAmbiguous
	row.StatusLabel = row.Status.Label()
	row.HostName = ""
	row.ManualMode = false

	return &dto.RowMutationResponse{Row: copyRow(row)}, nil
}

// ToggleManualMode flips the per-row manual editing flag. Rows without a
// usable match (not_found, unresolved ambiguous) reject the toggle: there
// is nothing to edit until a candidate exists or is picked.
func (s *AssignmentService) ToggleManualMode(ctx context.Context, sessionID, rowID string) (*dto.RowMutationResponse, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	row, ok := session.rows[rowID]
	if !ok {
		s.logNoop(sessionID, rowID, "toggle_manual_mode", "row not found")
		return &dto.RowMutationResponse{Noop: true}, nil
	}
	if row.Status == models.StatusNotFound || row.Status == models.StatusAmbiguous {
		s.logNoop(sessionID, rowID, "toggle_manual_mode", fmt.Sprintf("invalid status %s", row.Status))
		return &dto.RowMutationResponse{Row: copyRow(row), Noop: true}, nil
	}

	row.ManualMode = !row.ManualMode
	if row.ManualMode {
		row.Status = models.StatusManual
	} else if row.MatchedCandidate == nil || !inAmbiguousSet(row, row.MatchedCandidate.Candidate.MeetingID) {
		// Leaving manual mode restores the automatic classification unless
		// the row carries a revisable pick (which stays manual).
		restoreAutomatic(row, session.auto[rowID], session.pool)
	}
	row.StatusLabel = row.Status.Label()

	return &dto.RowMutationResponse{Row: copyRow(row)}, nil
}

// SetInstructor overrides the row's effective instructor. Only allowed in
// manual mode; status and the matched candidate are untouched.
func (s *AssignmentService) SetInstructor(ctx context.Context, sessionID, rowID, instructor string) (*dto.RowMutationResponse, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	row, ok := session.rows[rowID]
	if !ok {
		s.logNoop(sessionID, rowID, "set_instructor", "row not found")
		return &dto.RowMutationResponse{Noop: true}, nil
	}
	if !row.ManualMode {
		s.logNoop(sessionID, rowID, "set_instructor", "manual mode disabled")
		return &dto.RowMutationResponse{Row: copyRow(row), Noop: true}, nil
	}
	instructor = strings.TrimSpace(instructor)
	if instructor == "" {
		s.logNoop(sessionID, rowID, "set_instructor", "empty instructor")
		return &dto.RowMutationResponse{Row: copyRow(row), Noop: true}, nil
	}

	row.Instructor = instructor
	return &dto.RowMutationResponse{Row: copyRow(row)}, nil
}

// ResetRow re-runs the matcher for the row's underlying entry against the
// session's candidate pool, discarding every manual override as if the row
// had just been built.
func (s *AssignmentService) ResetRow(ctx context.Context, sessionID, rowID string) (*dto.RowMutationResponse, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	row, ok := session.rows[rowID]
	if !ok {
		s.logNoop(sessionID, rowID, "reset_row", "row not found")
		return &dto.RowMutationResponse{Noop: true}, nil
	}

	fresh, result := s.buildRow(row.Entry, session.pool)
	session.rows[rowID] = fresh
	session.auto[rowID] = result

	return &dto.RowMutationResponse{Row: copyRow(fresh)}, nil
}

// AddStatusFilter records an additional status in the session's active
// filter set. This is the side channel the table UI reads back so resolved
// rows stay visible.
func (s *AssignmentService) AddStatusFilter(ctx context.Context, sessionID string, status models.RowStatus) ([]models.RowStatus, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", status))
	}
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	session.filters[status] = struct{}{}
	return session.activeFilters(), nil
}

// DeleteSession drops the session and its working set.
func (s *AssignmentService) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.session(sessionID); err != nil {
		return err
	}
	s.store.Delete(sessionID)
	return nil
}

func (s *AssignmentService) session(sessionID string) (*assignmentSession, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found or expired")
	}
	return session, nil
}

// buildRow classifies one entry against the pool. A confident match whose
// meeting anchor differs from the entry's start time lands in to_update:
// the meeting exists but its recurring schedule no longer agrees with the
// imported entry.
func (s *AssignmentService) buildRow(entry models.ScheduleEntry, pool models.CandidatePool) (*models.AssignmentRow, models.MatchResult) {
	result := s.matcher.Match(entry, pool.Candidates)

	row := &models.AssignmentRow{
		ID:         entry.Key,
		Entry:      entry,
		Instructor: entry.Instructor,
	}
	applyResult(row, result, pool)
	return row, result
}

func applyResult(row *models.AssignmentRow, result models.MatchResult, pool models.CandidatePool) {
	row.ManualMode = false
	row.MatchedCandidate = nil
	row.AmbiguousCandidates = nil
	row.HostName = ""

	switch result.Outcome {
	case models.OutcomeConfident:
		best := *result.Best
		row.MatchedCandidate = &best
		row.HostName = pool.HostName(best.Candidate.HostID)
		if best.Candidate.StartTime != "" && best.Candidate.StartTime != row.Entry.StartTime {
			row.Status = models.StatusToUpdate
			row.Reason = "meeting schedule differs from entry"
			row.DetailedReason = fmt.Sprintf("matched %q (score=%.2f) but meeting starts at %s, entry at %s",
				best.Candidate.Topic, best.Score, best.Candidate.StartTime, row.Entry.StartTime)
		} else {
			row.Status = models.StatusAssigned
			row.Reason = ""
			row.DetailedReason = fmt.Sprintf("matched %q (score=%.2f)", best.Candidate.Topic, best.Score)
		}
	case models.OutcomeAmbiguous:
		row.Status = models.StatusAmbiguous
		row.AmbiguousCandidates = append([]models.ScoredCandidate(nil), result.Ranked...)
		row.Reason = "multiple candidates tied"
		topics := make([]string, 0, len(result.Ranked))
		for _, sc := range result.Ranked {
			topics = append(topics, fmt.Sprintf("%q (%.2f)", sc.Candidate.Topic, sc.Score))
		}
		row.DetailedReason = "candidates within tie margin: " + strings.Join(topics, ", ")
	default:
		row.Status = models.StatusNotFound
		row.Reason = "no matching meeting"
		row.DetailedReason = result.Reason
	}
	row.StatusLabel = row.Status.Label()
}

func restoreAutomatic(row *models.AssignmentRow, result models.MatchResult, pool models.CandidatePool) {
	instructor := row.Instructor
	applyResult(row, result, pool)
	row.Instructor = instructor
}

func inAmbiguousSet(row *models.AssignmentRow, meetingID string) bool {
	for _, sc := range row.AmbiguousCandidates {
		if sc.Candidate.MeetingID == meetingID {
			return true
		}
	}
	return false
}

func copyRow(row *models.AssignmentRow) *models.AssignmentRow {
	copied := *row
	if row.MatchedCandidate != nil {
		matched := *row.MatchedCandidate
		copied.MatchedCandidate = &matched
	}
	copied.AmbiguousCandidates = append([]models.ScoredCandidate(nil), row.AmbiguousCandidates...)
	return &copied
}

func (s *AssignmentService) logNoop(sessionID, rowID, op, reason string) {
	s.logger.Warn("assignment operation ignored",
		zap.String("session_id", sessionID),
		zap.String("row_id", rowID),
		zap.String("op", op),
		zap.String("reason", reason),
	)
}

// assignmentSession holds one working set of rows. Mutations lock mu; the
// map is never exposed directly.
type assignmentSession struct {
	id        string
	createdAt time.Time
	pool      models.CandidatePool
	rows      map[string]*models.AssignmentRow
	auto      map[string]models.MatchResult
	order     []string
	filters   map[models.RowStatus]struct{}
	overlaps  models.OverlapReport
	mu        sync.Mutex
}

func (s *assignmentSession) activeFilters() []models.RowStatus {
	filters := make([]models.RowStatus, 0, len(s.filters))
	for status := range s.filters {
		filters = append(filters, status)
	}
	sort.Slice(filters, func(i, j int) bool { return filters[i] < filters[j] })
	return filters
}

type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*assignmentSession
}

func newSessionStore(ttl time.Duration) *sessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &sessionStore{ttl: ttl, sessions: make(map[string]*assignmentSession)}
}

func (s *sessionStore) Save(session *assignmentSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.id] = session
}

func (s *sessionStore) Get(id string) (*assignmentSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Since(session.createdAt) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	return session, true
}

func (s *sessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
