package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/byhelaman/minerva-api/internal/dto"
	"github.com/byhelaman/minerva-api/internal/models"
	appErrors "github.com/byhelaman/minerva-api/pkg/errors"
	"github.com/byhelaman/minerva-api/pkg/response"
)

type assignmentService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	Rows(ctx context.Context, sessionID string, statuses []models.RowStatus) (*dto.SessionRowsResponse, error)
	SelectCandidate(ctx context.Context, sessionID, rowID, meetingID string) (*dto.RowMutationResponse, error)
	DeselectCandidate(ctx context.Context, sessionID, rowID string) (*dto.RowMutationResponse, error)
	ToggleManualMode(ctx context.Context, sessionID, rowID string) (*dto.RowMutationResponse, error)
	SetInstructor(ctx context.Context, sessionID, rowID, instructor string) (*dto.RowMutationResponse, error)
	ResetRow(ctx context.Context, sessionID, rowID string) (*dto.RowMutationResponse, error)
	AddStatusFilter(ctx context.Context, sessionID string, status models.RowStatus) ([]models.RowStatus, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// SessionHandler exposes assignment session endpoints.
type SessionHandler struct {
	svc assignmentService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(svc assignmentService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// Create godoc
// @Summary Build an assignment session from the current schedule and pool
// @Tags Sessions
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	resp, err := h.svc.CreateSession(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// Rows godoc
// @Summary List session rows
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param status query []string false "Status filter (repeatable)"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/rows [get]
func (h *SessionHandler) Rows(c *gin.Context) {
	var statuses []models.RowStatus
	for _, raw := range c.QueryArray("status") {
		status := models.RowStatus(raw)
		if !status.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown status "+raw))
			return
		}
		statuses = append(statuses, status)
	}
	resp, err := h.svc.Rows(c.Request.Context(), c.Param("id"), statuses)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// SelectCandidate godoc
// @Summary Pick a candidate for an ambiguous row
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param rowId path string true "Row ID"
// @Param payload body dto.SelectCandidateRequest true "Candidate pick"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/rows/{rowId}/select [post]
func (h *SessionHandler) SelectCandidate(c *gin.Context) {
	var req dto.SelectCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MeetingID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "meetingId is required"))
		return
	}
	resp, err := h.svc.SelectCandidate(c.Request.Context(), c.Param("id"), c.Param("rowId"), req.MeetingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// DeselectCandidate godoc
// @Summary Revert a manual candidate pick
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param rowId path string true "Row ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/rows/{rowId}/deselect [post]
func (h *SessionHandler) DeselectCandidate(c *gin.Context) {
	resp, err := h.svc.DeselectCandidate(c.Request.Context(), c.Param("id"), c.Param("rowId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// ToggleManualMode godoc
// @Summary Toggle a row's manual editing mode
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param rowId path string true "Row ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/rows/{rowId}/manual-mode [post]
func (h *SessionHandler) ToggleManualMode(c *gin.Context) {
	resp, err := h.svc.ToggleManualMode(c.Request.Context(), c.Param("id"), c.Param("rowId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// SetInstructor godoc
// @Summary Override a row's effective instructor
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param rowId path string true "Row ID"
// @Param payload body dto.SetInstructorRequest true "Instructor override"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/rows/{rowId}/instructor [post]
func (h *SessionHandler) SetInstructor(c *gin.Context) {
	var req dto.SetInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Instructor == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "instructor is required"))
		return
	}
	resp, err := h.svc.SetInstructor(c.Request.Context(), c.Param("id"), c.Param("rowId"), req.Instructor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// ResetRow godoc
// @Summary Re-run matching for one row
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param rowId path string true "Row ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/rows/{rowId}/reset [post]
func (h *SessionHandler) ResetRow(c *gin.Context) {
	resp, err := h.svc.ResetRow(c.Request.Context(), c.Param("id"), c.Param("rowId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// AddStatusFilter godoc
// @Summary Add a status to the session's active filter set
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.AddStatusFilterRequest true "Status filter"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/filters [post]
func (h *SessionHandler) AddStatusFilter(c *gin.Context) {
	var req dto.AddStatusFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "status is required"))
		return
	}
	filters, err := h.svc.AddStatusFilter(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"activeStatusFilters": filters}, nil)
}

// Delete godoc
// @Summary Discard an assignment session
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
