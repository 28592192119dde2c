package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacificreef/hotel-analytics-api/internal/dto"
	"github.com/pacificreef/hotel-analytics-api/internal/models"
	appErrors "github.com/pacificreef/hotel-analytics-api/pkg/errors"
	"github.com/pacificreef/hotel-analytics-api/pkg/storage"
)

type fakeReportAnalytics struct {
	fakeAnalytics
}

func (f *fakeReportAnalytics) Occupancy(_ context.Context, rng models.DateRange) *models.OccupancyAnalytics {
	result := f.fakeAnalytics.Occupancy(context.Background(), rng)
	result.DailyData = []models.OccupancyDay{
		{Date: "2024-03-04", OccupiedRooms: 90, TotalRooms: 120, OccupancyRate: 75},
	}
	result.DataSource = models.DataSourceDatabase
	return result
}

func (f *fakeReportAnalytics) RoomPerformance(context.Context) *models.RoomPerformanceAnalytics {
	return &models.RoomPerformanceAnalytics{
		Metrics:    models.RoomPerformanceMetrics{TopPerformer: "301", TotalRevenue: 32070},
		DataSource: models.DataSourceDatabase,
	}
}

func (f *fakeReportAnalytics) Forecast(context.Context) *models.DemandForecast {
	return &models.DemandForecast{ForecastPeriod: "30 days", DataSource: models.DataSourceDatabase}
}

func newTestExportService(t *testing.T) (*ExportService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	svc := NewExportService(&fakeReportAnalytics{}, store, signer, nil, ExportConfig{APIPrefix: "/api/v1"}, nil, fixedClock(t))
	return svc, dir
}

func testRange() models.DateRange {
	return models.DateRange{
		Start: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestExportJSONReport(t *testing.T) {
	svc, dir := newTestExportService(t)

	result, err := svc.Generate(context.Background(), dto.ExportRequest{ReportType: dto.ReportKindOccupancy}, testRange())
	require.NoError(t, err)

	assert.NotEmpty(t, result.ReportID)
	assert.Equal(t, dto.ReportKindOccupancy, result.ReportType)
	assert.Equal(t, dto.ReportFormatJSON, result.Format)
	assert.True(t, strings.HasPrefix(result.DownloadURL, "/api/v1/analytics/export/"))
	assert.Equal(t, "2024-03-04", result.DateRange.Start)
	assert.Equal(t, "2024-03-10", result.DateRange.End)

	raw, err := os.ReadFile(filepath.Join(dir, result.FilePath))
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "database", doc["data_source"])
}

func TestExportComprehensiveJSONSections(t *testing.T) {
	svc, dir := newTestExportService(t)

	result, err := svc.Generate(context.Background(), dto.ExportRequest{
		ReportType: dto.ReportKindComprehensive,
		Format:     dto.ReportFormatJSON,
	}, testRange())
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, result.FilePath))
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, section := range []string{"occupancy", "revenue", "customer", "room_performance", "predictions"} {
		assert.Contains(t, doc, section)
	}
}

func TestExportCSVReport(t *testing.T) {
	svc, dir := newTestExportService(t)

	result, err := svc.Generate(context.Background(), dto.ExportRequest{
		ReportType: dto.ReportKindOccupancy,
		Format:     dto.ReportFormatCSV,
	}, testRange())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.FilePath, ".csv"))

	raw, err := os.ReadFile(filepath.Join(dir, result.FilePath))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Occupied Rooms")
	assert.Contains(t, lines[1], "2024-03-04")
}

func TestExportPDFReport(t *testing.T) {
	svc, dir := newTestExportService(t)

	result, err := svc.Generate(context.Background(), dto.ExportRequest{
		ReportType: dto.ReportKindComprehensive,
		Format:     dto.ReportFormatPDF,
	}, testRange())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.FilePath, ".pdf"))

	info, err := os.Stat(filepath.Join(dir, result.FilePath))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc, _ := newTestExportService(t)

	_, err := svc.Generate(context.Background(), dto.ExportRequest{
		ReportType: dto.ReportKindRevenue,
		Format:     "xlsx",
	}, testRange())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestExportRejectsUnknownReportType(t *testing.T) {
	svc, _ := newTestExportService(t)

	_, err := svc.Generate(context.Background(), dto.ExportRequest{ReportType: "inventory"}, testRange())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestExportDownloadTokenRoundTrip(t *testing.T) {
	svc, _ := newTestExportService(t)

	result, err := svc.Generate(context.Background(), dto.ExportRequest{ReportType: dto.ReportKindCustomer}, testRange())
	require.NoError(t, err)

	token := strings.TrimPrefix(result.DownloadURL, "/api/v1/analytics/export/")
	reportID, relPath, _, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, result.ReportID, reportID)
	assert.Equal(t, result.FilePath, relPath)

	file, err := svc.Open(relPath)
	require.NoError(t, err)
	require.NoError(t, file.Close())
}

func TestExportCleanupRemovesExpiredArtifacts(t *testing.T) {
	svc, dir := newTestExportService(t)

	result, err := svc.Generate(context.Background(), dto.ExportRequest{ReportType: dto.ReportKindOccupancy}, testRange())
	require.NoError(t, err)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, result.FilePath), old, old))

	removed, err := svc.Cleanup(24 * time.Hour)
	require.NoError(t, err)
	assert.Contains(t, removed, result.FilePath)
}
