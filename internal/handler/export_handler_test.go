package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacificreef/hotel-analytics-api/internal/dto"
	"github.com/pacificreef/hotel-analytics-api/internal/models"
	appErrors "github.com/pacificreef/hotel-analytics-api/pkg/errors"
)

type fakeExportService struct {
	lastReq   dto.ExportRequest
	lastRange models.DateRange
	resp      *dto.ExportResponse
	err       error
	parseErr  error
	path      string
	openDir   string
}

func (f *fakeExportService) Generate(_ context.Context, req dto.ExportRequest, rng models.DateRange) (*dto.ExportResponse, error) {
	f.lastReq = req
	f.lastRange = rng
	return f.resp, f.err
}

func (f *fakeExportService) ParseToken(string) (string, string, time.Time, error) {
	return "report-1", f.path, time.Now().Add(time.Hour), f.parseErr
}

func (f *fakeExportService) Open(relPath string) (*os.File, error) {
	return os.Open(filepath.Join(f.openDir, relPath))
}

func postExport(handler *ExportHandler, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/analytics/export", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Export(c)
	return rec
}

func TestExportEndpointDefaults(t *testing.T) {
	svc := &fakeExportService{resp: &dto.ExportResponse{ReportID: "report-1", Format: "json"}}
	handler := NewExportHandler(svc, 30, testClock())

	rec := postExport(handler, `{"report_type":"occupancy"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "occupancy", svc.lastReq.ReportType)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), svc.lastRange.End)
	assert.Equal(t, time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC), svc.lastRange.Start)
}

func TestExportEndpointRejectsMalformedPayload(t *testing.T) {
	handler := NewExportHandler(&fakeExportService{}, 30, testClock())

	rec := postExport(handler, `{"report_type":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportEndpointPassesThroughValidationError(t *testing.T) {
	svc := &fakeExportService{err: appErrors.ErrInvalidReportKind}
	handler := NewExportHandler(svc, 30, testClock())

	rec := postExport(handler, `{"report_type":"inventory"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "INVALID_REPORT_TYPE", envelope.Error.Code)
}

func TestExportEndpointRejectsInvertedRange(t *testing.T) {
	handler := NewExportHandler(&fakeExportService{}, 30, testClock())

	rec := postExport(handler, `{"report_type":"revenue","start_date":"2024-03-06","end_date":"2024-03-04"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportEndpointSurfacesGenerationFailure(t *testing.T) {
	svc := &fakeExportService{err: errors.New("disk full")}
	handler := NewExportHandler(svc, 30, testClock())

	rec := postExport(handler, `{"report_type":"comprehensive","format":"pdf"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "EXPORT_FAILED", envelope.Error.Code)
}

func TestDownloadEndpointStreamsArtifact(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.json"), []byte(`{"ok":true}`), 0o644))
	svc := &fakeExportService{path: "report.json", openDir: dir}
	handler := NewExportHandler(svc, 30, testClock())

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/export/token", nil)
	c.Params = gin.Params{{Key: "token", Value: "some-token"}}
	handler.Download(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"ok":true}`, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "report.json")
}

func TestDownloadEndpointRejectsBadToken(t *testing.T) {
	svc := &fakeExportService{parseErr: errors.New("invalid token signature")}
	handler := NewExportHandler(svc, 30, testClock())

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/export/bad", nil)
	c.Params = gin.Params{{Key: "token", Value: "bad"}}
	handler.Download(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
