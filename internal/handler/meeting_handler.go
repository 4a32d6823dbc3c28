package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/byhelaman/minerva-api/internal/dto"
	appErrors "github.com/byhelaman/minerva-api/pkg/errors"
	"github.com/byhelaman/minerva-api/pkg/response"
)

// SyncKeyHeader carries the pre-shared key for the sync endpoint.
const SyncKeyHeader = "X-Sync-Key"

type meetingService interface {
	VerifySyncKey(key string) error
	Sync(ctx context.Context, req dto.SyncRequest) (*dto.SyncResponse, error)
	Pool(ctx context.Context) (*dto.MeetingsResponse, error)
}

// MeetingHandler exposes candidate pool endpoints.
type MeetingHandler struct {
	svc meetingService
}

// NewMeetingHandler constructs handler.
func NewMeetingHandler(svc meetingService) *MeetingHandler {
	return &MeetingHandler{svc: svc}
}

// Sync godoc
// @Summary Replace the meeting candidate pool
// @Tags Meetings
// @Accept json
// @Produce json
// @Param X-Sync-Key header string true "Pre-shared sync key"
// @Param payload body dto.SyncRequest true "Candidate pool"
// @Success 200 {object} response.Envelope
// @Router /meetings/sync [post]
func (h *MeetingHandler) Sync(c *gin.Context) {
	if err := h.svc.VerifySyncKey(c.GetHeader(SyncKeyHeader)); err != nil {
		response.Error(c, err)
		return
	}
	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid sync payload"))
		return
	}
	resp, err := h.svc.Sync(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// List godoc
// @Summary Get the current candidate pool
// @Tags Meetings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /meetings [get]
func (h *MeetingHandler) List(c *gin.Context) {
	resp, err := h.svc.Pool(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
