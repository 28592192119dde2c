package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pacificreef/hotel-analytics-api/internal/dto"
	"github.com/pacificreef/hotel-analytics-api/internal/models"
	appErrors "github.com/pacificreef/hotel-analytics-api/pkg/errors"
	"github.com/pacificreef/hotel-analytics-api/pkg/export"
	"github.com/pacificreef/hotel-analytics-api/pkg/storage"
)

// reportAnalytics is the full engine surface the exporter composes over.
type reportAnalytics interface {
	analyticsProvider
	RoomPerformance(ctx context.Context) *models.RoomPerformanceAnalytics
	Forecast(ctx context.Context) *models.DemandForecast
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type jsonRenderer interface {
	Render(doc interface{}) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportService composes aggregator outputs into report documents and
// persists the rendered artifact. Persistence failures surface as errors,
// unlike the aggregators' store reads.
type ExportService struct {
	analytics reportAnalytics
	storage   fileStorage
	signer    *storage.SignedURLSigner
	validate  *validator.Validate
	json      jsonRenderer
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService. validate and now may be nil,
// in which case a fresh validator and the wall clock are used.
func NewExportService(analytics reportAnalytics, store fileStorage, signer *storage.SignedURLSigner, validate *validator.Validate, cfg ExportConfig, logger *zap.Logger, now func() time.Time) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 7 * 24 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &ExportService{
		analytics: analytics,
		storage:   store,
		signer:    signer,
		validate:  validate,
		json:      export.NewJSONExporter(),
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
		cfg:       cfg,
		now:       now,
	}
}

// Generate builds the requested report, stores the artifact and returns its
// locator with a signed download URL.
func (s *ExportService) Generate(ctx context.Context, req dto.ExportRequest, rng models.DateRange) (*dto.ExportResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	format := req.Format
	if format == "" {
		format = dto.ReportFormatJSON
	}

	var payload []byte
	var err error
	switch format {
	case dto.ReportFormatJSON:
		payload, err = s.renderJSON(ctx, req.ReportType, rng)
	case dto.ReportFormatCSV:
		dataset, _, derr := s.buildDataset(ctx, req.ReportType, rng)
		if derr != nil {
			return nil, derr
		}
		payload, err = s.csv.Render(dataset)
	case dto.ReportFormatPDF:
		dataset, title, derr := s.buildDataset(ctx, req.ReportType, rng)
		if derr != nil {
			return nil, derr
		}
		payload, err = s.pdf.Render(dataset, title)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %s", format))
	}
	if err != nil {
		return nil, err
	}

	reportID := uuid.NewString()
	filename := fmt.Sprintf("hotel_analytics_%s_%s.%s", req.ReportType, s.now().UTC().Format("20060102_150405"), format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, fmt.Errorf("persist report: %w", err)
	}

	token, expiresAt, err := s.signer.Generate(reportID, relPath)
	if err != nil {
		return nil, fmt.Errorf("sign report url: %w", err)
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.logger.Info("analytics report exported",
		zap.String("report_type", req.ReportType),
		zap.String("format", format),
		zap.String("file", relPath))

	return &dto.ExportResponse{
		ReportID:    reportID,
		FilePath:    relPath,
		ReportType:  req.ReportType,
		Format:      format,
		DownloadURL: fmt.Sprintf("%s/analytics/export/%s", prefix, token),
		ExpiresAt:   expiresAt,
		DateRange: models.Period{
			Start: rng.Start.Format("2006-01-02"),
			End:   rng.End.Format("2006-01-02"),
		},
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string) (reportID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, false)
}

// Open returns a handle to the stored artifact.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Cleanup removes artifacts older than ttl (defaults to the configured
// ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) renderJSON(ctx context.Context, kind string, rng models.DateRange) ([]byte, error) {
	var doc interface{}
	switch kind {
	case dto.ReportKindOccupancy:
		doc = s.analytics.Occupancy(ctx, rng)
	case dto.ReportKindRevenue:
		doc = s.analytics.Revenue(ctx, rng)
	case dto.ReportKindCustomer:
		doc = s.analytics.Customers(ctx)
	case dto.ReportKindComprehensive:
		doc = map[string]interface{}{
			"occupancy":        s.analytics.Occupancy(ctx, rng),
			"revenue":          s.analytics.Revenue(ctx, rng),
			"customer":         s.analytics.Customers(ctx),
			"room_performance": s.analytics.RoomPerformance(ctx),
			"predictions":      s.analytics.Forecast(ctx),
		}
	default:
		return nil, appErrors.ErrInvalidReportKind
	}
	return s.json.Render(doc)
}

func (s *ExportService) buildDataset(ctx context.Context, kind string, rng models.DateRange) (export.Dataset, string, error) {
	switch kind {
	case dto.ReportKindOccupancy:
		return occupancyDataset(s.analytics.Occupancy(ctx, rng)), "Occupancy Report", nil
	case dto.ReportKindRevenue:
		return revenueDataset(s.analytics.Revenue(ctx, rng)), "Revenue Report", nil
	case dto.ReportKindCustomer:
		return customerDataset(s.analytics.Customers(ctx)), "Customer Report", nil
	case dto.ReportKindComprehensive:
		return s.comprehensiveDataset(ctx, rng), "Comprehensive Report", nil
	default:
		return export.Dataset{}, "", appErrors.ErrInvalidReportKind
	}
}

func occupancyDataset(result *models.OccupancyAnalytics) export.Dataset {
	rows := make([]map[string]string, 0, len(result.DailyData))
	for _, day := range result.DailyData {
		rows = append(rows, map[string]string{
			"Date":           day.Date,
			"Occupied Rooms": strconv.Itoa(day.OccupiedRooms),
			"Total Rooms":    strconv.Itoa(day.TotalRooms),
			"Occupancy (%)":  fmt.Sprintf("%.2f", day.OccupancyRate),
		})
	}
	return export.Dataset{
		Headers: []string{"Date", "Occupied Rooms", "Total Rooms", "Occupancy (%)"},
		Rows:    rows,
	}
}

func revenueDataset(result *models.RevenueAnalytics) export.Dataset {
	rows := make([]map[string]string, 0, len(result.DailyData))
	for _, day := range result.DailyData {
		rows = append(rows, map[string]string{
			"Date":              day.Date,
			"Daily Revenue":     fmt.Sprintf("%.2f", day.DailyRevenue),
			"Reservations":      strconv.Itoa(day.ReservationsCount),
			"Avg Booking Value": fmt.Sprintf("%.2f", day.AvgBookingValue),
		})
	}
	return export.Dataset{
		Headers: []string{"Date", "Daily Revenue", "Reservations", "Avg Booking Value"},
		Rows:    rows,
	}
}

func customerDataset(result *models.CustomerAnalytics) export.Dataset {
	rows := make([]map[string]string, 0, len(result.TopCustomers))
	for _, customer := range result.TopCustomers {
		rows = append(rows, map[string]string{
			"Customer":       customer.FullName,
			"Total Bookings": strconv.Itoa(customer.TotalBookings),
			"Total Spent":    fmt.Sprintf("%.2f", customer.TotalSpent),
			"Avg Booking":    fmt.Sprintf("%.2f", customer.AvgBookingValue),
			"Last Booking":   customer.LastBookingDate,
		})
	}
	return export.Dataset{
		Headers: []string{"Customer", "Total Bookings", "Total Spent", "Avg Booking", "Last Booking"},
		Rows:    rows,
	}
}

func (s *ExportService) comprehensiveDataset(ctx context.Context, rng models.DateRange) export.Dataset {
	occupancy := s.analytics.Occupancy(ctx, rng)
	revenue := s.analytics.Revenue(ctx, rng)
	customers := s.analytics.Customers(ctx)
	rooms := s.analytics.RoomPerformance(ctx)

	rows := []map[string]string{
		{"Metric": "Average Occupancy", "Value": fmt.Sprintf("%.2f%%", occupancy.Metrics.AverageOccupancy), "Source": occupancy.DataSource},
		{"Metric": "Occupancy Trend", "Value": occupancy.Metrics.Trend, "Source": occupancy.DataSource},
		{"Metric": "Total Revenue", "Value": fmt.Sprintf("%.2f", revenue.Metrics.TotalRevenue), "Source": revenue.DataSource},
		{"Metric": "Revenue Growth", "Value": fmt.Sprintf("%.2f%%", revenue.Metrics.GrowthRate), "Source": revenue.DataSource},
		{"Metric": "Active Customers", "Value": strconv.Itoa(customers.Metrics.ActiveCustomers), "Source": customers.DataSource},
		{"Metric": "Customer Retention", "Value": fmt.Sprintf("%.2f%%", customers.Metrics.RetentionRate), "Source": customers.DataSource},
		{"Metric": "Top Performing Room", "Value": rooms.Metrics.TopPerformer, "Source": rooms.DataSource},
	}
	return export.Dataset{
		Headers: []string{"Metric", "Value", "Source"},
		Rows:    rows,
	}
}
