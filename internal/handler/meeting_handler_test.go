package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/byhelaman/minerva-api/internal/dto"
	appErrors "github.com/byhelaman/minerva-api/pkg/errors"
)

type meetingServiceMock struct {
	verifyErr error
	lastKey   string
	syncResp  *dto.SyncResponse
	syncErr   error
	poolResp  *dto.MeetingsResponse
	poolErr   error
}

func (m *meetingServiceMock) VerifySyncKey(key string) error {
	m.lastKey = key
	return m.verifyErr
}

func (m *meetingServiceMock) Sync(ctx context.Context, req dto.SyncRequest) (*dto.SyncResponse, error) {
	return m.syncResp, m.syncErr
}

func (m *meetingServiceMock) Pool(ctx context.Context) (*dto.MeetingsResponse, error) {
	return m.poolResp, m.poolErr
}

func TestMeetingHandlerSync(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &meetingServiceMock{
		syncResp: &dto.SyncResponse{Candidates: 2, Hosts: 1, SyncedAt: time.Now().UTC()},
	}
	handler := NewMeetingHandler(mockSvc)

	payload, _ := json.Marshal(dto.SyncRequest{
		Candidates: []dto.SyncCandidate{
			{MeetingID: "m-001", Topic: "English 101", HostID: "h-1", StartTime: "09:00"},
			{MeetingID: "m-002", Topic: "Portuguese Basics", HostID: "h-2", StartTime: "14:00"},
		},
		Hosts: []dto.SyncHost{{HostID: "h-1", DisplayName: "Ana Garcia"}},
	})
	c, w := newGinContext(http.MethodPost, "/meetings/sync", payload)
	c.Request.Header.Set(SyncKeyHeader, "shared-key")

	handler.Sync(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "shared-key", mockSvc.lastKey)
}

func TestMeetingHandlerSyncRejectsBadKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &meetingServiceMock{
		verifyErr: appErrors.Clone(appErrors.ErrUnauthorized, "invalid sync key"),
	}
	handler := NewMeetingHandler(mockSvc)

	c, w := newGinContext(http.MethodPost, "/meetings/sync", []byte(`{"candidates":[]}`))
	handler.Sync(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeetingHandlerSyncRejectsBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMeetingHandler(&meetingServiceMock{})

	c, w := newGinContext(http.MethodPost, "/meetings/sync", []byte(`{not-json`))
	handler.Sync(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeetingHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &meetingServiceMock{
		poolResp: &dto.MeetingsResponse{Hosts: map[string]string{"h-1": "Ana Garcia"}},
	}
	handler := NewMeetingHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/meetings", nil)
	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
}
