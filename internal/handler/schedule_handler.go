package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/byhelaman/minerva-api/internal/dto"
	"github.com/byhelaman/minerva-api/internal/models"
	appErrors "github.com/byhelaman/minerva-api/pkg/errors"
	"github.com/byhelaman/minerva-api/pkg/response"
)

type scheduleService interface {
	Import(ctx context.Context, r io.Reader) (*dto.ImportResponse, error)
	List(ctx context.Context, filter models.EntryFilter) (*dto.EntriesResponse, error)
	Clear(ctx context.Context) (*dto.ClearEntriesResponse, error)
	Overlaps(ctx context.Context) (models.OverlapReport, error)
}

// ScheduleHandler exposes working-schedule endpoints.
type ScheduleHandler struct {
	svc scheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc scheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

// Import godoc
// @Summary Import a schedule workbook
// @Tags Schedule
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XLSX workbook"
// @Success 200 {object} response.Envelope
// @Router /schedule/import [post]
func (h *ScheduleHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read uploaded file"))
		return
	}
	defer file.Close() //nolint:errcheck

	resp, err := h.svc.Import(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// ListEntries godoc
// @Summary List schedule entries
// @Tags Schedule
// @Produce json
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param branch query string false "Filter by branch"
// @Param instructor query string false "Filter by instructor substring"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /schedule/entries [get]
func (h *ScheduleHandler) ListEntries(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	filter := models.EntryFilter{
		Date:       c.Query("date"),
		Branch:     c.Query("branch"),
		Instructor: c.Query("instructor"),
		Page:       page,
		PageSize:   pageSize,
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp.Entries, &resp.Pagination)
}

// ClearEntries godoc
// @Summary Clear the working schedule
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/entries [delete]
func (h *ScheduleHandler) ClearEntries(c *gin.Context) {
	resp, err := h.svc.Clear(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Overlaps godoc
// @Summary Detect schedule conflicts
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/overlaps [get]
func (h *ScheduleHandler) Overlaps(c *gin.Context) {
	report, err := h.svc.Overlaps(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
