package handler

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pacificreef/hotel-analytics-api/internal/dto"
	"github.com/pacificreef/hotel-analytics-api/internal/models"
	appErrors "github.com/pacificreef/hotel-analytics-api/pkg/errors"
	"github.com/pacificreef/hotel-analytics-api/pkg/response"
)

type exportService interface {
	Generate(ctx context.Context, req dto.ExportRequest, rng models.DateRange) (*dto.ExportResponse, error)
	ParseToken(token string) (reportID, relPath string, expiresAt time.Time, err error)
	Open(relPath string) (*os.File, error)
}

// ExportHandler manages report export and signed downloads.
type ExportHandler struct {
	service          exportService
	defaultRangeDays int
	now              func() time.Time
}

// NewExportHandler constructs the handler. now may be nil to use the wall
// clock.
func NewExportHandler(service exportService, defaultRangeDays int, now func() time.Time) *ExportHandler {
	if defaultRangeDays <= 0 {
		defaultRangeDays = 30
	}
	if now == nil {
		now = time.Now
	}
	return &ExportHandler{service: service, defaultRangeDays: defaultRangeDays, now: now}
}

// Export godoc
// @Summary Generate an analytics report artifact
// @Tags Analytics
// @Accept json
// @Produce json
// @Param request body dto.ExportRequest true "Report parameters"
// @Success 200 {object} response.Envelope
// @Router /analytics/export [post]
func (h *ExportHandler) Export(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid export payload"))
		return
	}
	rng, err := h.resolveRange(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req, rng)
	if err != nil {
		var appErr *appErrors.Error
		if !errors.As(err, &appErr) {
			err = appErrors.Wrap(err, appErrors.ErrExportFailed.Code, appErrors.ErrExportFailed.Status, appErrors.ErrExportFailed.Message)
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Download godoc
// @Summary Download a generated report via signed token
// @Tags Analytics
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Router /analytics/export/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	_, relPath, _, err := h.service.ParseToken(token)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "report link is invalid or expired"))
		return
	}
	file, err := h.service.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.ErrNotFound)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	contentType := mime.TypeByExtension(filepath.Ext(relPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(relPath)))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, nil)
}

func (h *ExportHandler) resolveRange(req dto.ExportRequest) (models.DateRange, error) {
	end := h.now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -h.defaultRangeDays)

	if req.StartDate != "" {
		parsed, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return models.DateRange{}, appErrors.ErrInvalidDateRange
		}
		start = parsed
	}
	if req.EndDate != "" {
		parsed, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return models.DateRange{}, appErrors.ErrInvalidDateRange
		}
		end = parsed
	}
	if start.After(end) {
		return models.DateRange{}, appErrors.ErrInvalidDateRange
	}
	return models.DateRange{Start: start, End: end}, nil
}
