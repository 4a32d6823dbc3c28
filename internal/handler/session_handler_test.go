package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/byhelaman/minerva-api/internal/dto"
	"github.com/byhelaman/minerva-api/internal/models"
)

type assignmentServiceMock struct {
	createResp   *dto.CreateSessionResponse
	createErr    error
	rowsResp     *dto.SessionRowsResponse
	rowsErr      error
	lastStatuses []models.RowStatus
	mutResp      *dto.RowMutationResponse
	mutErr       error
	lastMeeting  string
	filters      []models.RowStatus
	filterErr    error
	deleteErr    error
}

func (m *assignmentServiceMock) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	return m.createResp, m.createErr
}

func (m *assignmentServiceMock) Rows(ctx context.Context, sessionID string, statuses []models.RowStatus) (*dto.SessionRowsResponse, error) {
	m.lastStatuses = statuses
	return m.rowsResp, m.rowsErr
}

func (m *assignmentServiceMock) SelectCandidate(ctx context.Context, sessionID, rowID, meetingID string) (*dto.RowMutationResponse, error) {
	m.lastMeeting = meetingID
	return m.mutResp, m.mutErr
}

func (m *assignmentServiceMock) DeselectCandidate(ctx context.Context, sessionID, rowID string) (*dto.RowMutationResponse, error) {
	return m.mutResp, m.mutErr
}

func (m *assignmentServiceMock) ToggleManualMode(ctx context.Context, sessionID, rowID string) (*dto.RowMutationResponse, error) {
	return m.mutResp, m.mutErr
}

func (m *assignmentServiceMock) SetInstructor(ctx context.Context, sessionID, rowID, instructor string) (*dto.RowMutationResponse, error) {
	return m.mutResp, m.mutErr
}

func (m *assignmentServiceMock) ResetRow(ctx context.Context, sessionID, rowID string) (*dto.RowMutationResponse, error) {
	return m.mutResp, m.mutErr
}

func (m *assignmentServiceMock) AddStatusFilter(ctx context.Context, sessionID string, status models.RowStatus) ([]models.RowStatus, error) {
	return m.filters, m.filterErr
}

func (m *assignmentServiceMock) DeleteSession(ctx context.Context, sessionID string) error {
	return m.deleteErr
}

func TestSessionHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assignmentServiceMock{
		createResp: &dto.CreateSessionResponse{SessionID: "sess-1", RowCount: 4},
	}
	handler := NewSessionHandler(mockSvc)

	c, w := newGinContext(http.MethodPost, "/sessions", nil)
	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestSessionHandlerRowsParsesStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assignmentServiceMock{rowsResp: &dto.SessionRowsResponse{}}
	handler := NewSessionHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/sessions/sess-1/rows?status=assigned&status=manual", nil)
	c.Params = gin.Params{{Key: "id", Value: "sess-1"}}
	handler.Rows(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []models.RowStatus{models.StatusAssigned, models.StatusManual}, mockSvc.lastStatuses)
}

func TestSessionHandlerRowsRejectsUnknownStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSessionHandler(&assignmentServiceMock{})

	c, w := newGinContext(http.MethodGet, "/sessions/sess-1/rows?status=bogus", nil)
	c.Params = gin.Params{{Key: "id", Value: "sess-1"}}
	handler.Rows(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandlerSelectCandidate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assignmentServiceMock{
		mutResp: &dto.RowMutationResponse{Row: &models.AssignmentRow{ID: "row-1", Status: models.StatusManual}},
	}
	handler := NewSessionHandler(mockSvc)

	payload, _ := json.Marshal(dto.SelectCandidateRequest{MeetingID: "m-101"})
	c, w := newGinContext(http.MethodPost, "/sessions/sess-1/rows/row-1/select", payload)
	c.Params = gin.Params{{Key: "id", Value: "sess-1"}, {Key: "rowId", Value: "row-1"}}
	handler.SelectCandidate(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "m-101", mockSvc.lastMeeting)
}

func TestSessionHandlerSelectCandidateRequiresMeetingID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSessionHandler(&assignmentServiceMock{})

	c, w := newGinContext(http.MethodPost, "/sessions/sess-1/rows/row-1/select", []byte(`{}`))
	c.Params = gin.Params{{Key: "id", Value: "sess-1"}, {Key: "rowId", Value: "row-1"}}
	handler.SelectCandidate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandlerSetInstructorRequiresBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSessionHandler(&assignmentServiceMock{})

	c, w := newGinContext(http.MethodPost, "/sessions/sess-1/rows/row-1/instructor", []byte(`{"instructor":""}`))
	c.Params = gin.Params{{Key: "id", Value: "sess-1"}, {Key: "rowId", Value: "row-1"}}
	handler.SetInstructor(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandlerAddStatusFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assignmentServiceMock{
		filters: []models.RowStatus{models.StatusAmbiguous, models.StatusManual},
	}
	handler := NewSessionHandler(mockSvc)

	payload, _ := json.Marshal(dto.AddStatusFilterRequest{Status: models.StatusManual})
	c, w := newGinContext(http.MethodPost, "/sessions/sess-1/filters", payload)
	c.Params = gin.Params{{Key: "id", Value: "sess-1"}}
	handler.AddStatusFilter(c)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data struct {
			Filters []models.RowStatus `json:"activeStatusFilters"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, mockSvc.filters, envelope.Data.Filters)
}

func TestSessionHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSessionHandler(&assignmentServiceMock{})

	c, w := newGinContext(http.MethodDelete, "/sessions/sess-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "sess-1"}}
	handler.Delete(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusNoContent, w.Code)
}
