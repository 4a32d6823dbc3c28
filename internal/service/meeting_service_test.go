package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/byhelaman/minerva-api/internal/dto"
	"github.com/byhelaman/minerva-api/internal/models"
	appErrors "github.com/byhelaman/minerva-api/pkg/errors"
)

type meetingStoreStub struct {
	pool       models.CandidatePool
	candidates []models.MeetingCandidate
	hosts      []models.Host
	err        error
}

func (s *meetingStoreStub) ReplaceAll(ctx context.Context, candidates []models.MeetingCandidate, hosts []models.Host) error {
	if s.err != nil {
		return s.err
	}
	s.candidates = candidates
	s.hosts = hosts
	return nil
}

func (s *meetingStoreStub) Snapshot(ctx context.Context) (models.CandidatePool, error) {
	if s.err != nil {
		return models.CandidatePool{}, s.err
	}
	return s.pool, nil
}

func syncKeyHash(t *testing.T, key string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestMeetingServiceVerifySyncKey(t *testing.T) {
	svc := NewMeetingService(&meetingStoreStub{}, nil, nil, nil, syncKeyHash(t, "s3cret"), 0)

	require.NoError(t, svc.VerifySyncKey("s3cret"))

	err := svc.VerifySyncKey("wrong")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	err = svc.VerifySyncKey("")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestMeetingServiceVerifySyncKeyUnconfigured(t *testing.T) {
	svc := NewMeetingService(&meetingStoreStub{}, nil, nil, nil, "", 0)

	err := svc.VerifySyncKey("anything")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestMeetingServiceSync(t *testing.T) {
	store := &meetingStoreStub{}
	svc := NewMeetingService(store, nil, nil, nil, "", 0)

	resp, err := svc.Sync(context.Background(), dto.SyncRequest{
		Candidates: []dto.SyncCandidate{
			{MeetingID: "m-001", Topic: "English 101", HostID: "h-1", StartTime: "09:00"},
		},
		Hosts: []dto.SyncHost{
			{HostID: "h-1", DisplayName: "Laura Pratt", Email: "laura@example.com"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Candidates)
	assert.Equal(t, 1, resp.Hosts)
	require.Len(t, store.candidates, 1)
	assert.Equal(t, "m-001", store.candidates[0].MeetingID)
	assert.False(t, store.candidates[0].SyncedAt.IsZero())
}

func TestMeetingServiceSyncValidation(t *testing.T) {
	svc := NewMeetingService(&meetingStoreStub{}, nil, nil, nil, "", 0)

	_, err := svc.Sync(context.Background(), dto.SyncRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Sync(context.Background(), dto.SyncRequest{
		Candidates: []dto.SyncCandidate{{MeetingID: "", Topic: "English"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMeetingServicePool(t *testing.T) {
	store := &meetingStoreStub{pool: models.CandidatePool{
		Candidates: []models.MeetingCandidate{{MeetingID: "m-001", Topic: "English 101"}},
		Hosts:      map[string]string{"h-1": "Laura Pratt"},
		SyncedAt:   time.Now().UTC(),
	}}
	svc := NewMeetingService(store, nil, nil, nil, "", 0)

	resp, err := svc.Pool(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "Laura Pratt", resp.Hosts["h-1"])
}
