package dto

import (
	"time"

	"github.com/pacificreef/hotel-analytics-api/internal/models"
)

// Report kinds accepted by the export endpoint.
const (
	ReportKindOccupancy     = "occupancy"
	ReportKindRevenue       = "revenue"
	ReportKindCustomer      = "customer"
	ReportKindComprehensive = "comprehensive"
)

// Report artifact formats.
const (
	ReportFormatJSON = "json"
	ReportFormatCSV  = "csv"
	ReportFormatPDF  = "pdf"
)

// ExportRequest is the report export payload. Dates default to the trailing
// window when omitted.
type ExportRequest struct {
	ReportType string `json:"report_type" validate:"required,oneof=occupancy revenue customer comprehensive"`
	Format     string `json:"format" validate:"omitempty,oneof=json csv pdf"`
	StartDate  string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// ExportResponse describes the generated report artifact.
type ExportResponse struct {
	ReportID    string        `json:"report_id"`
	FilePath    string        `json:"file_path"`
	ReportType  string        `json:"report_type"`
	Format      string        `json:"format"`
	DownloadURL string        `json:"download_url"`
	ExpiresAt   time.Time     `json:"expires_at"`
	DateRange   models.Period `json:"date_range"`
}
