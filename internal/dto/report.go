package dto

import "github.com/xianfire/campus-api/internal/models"

// CreateReportRequest enqueues an asynchronous conflict-report export.
type CreateReportRequest struct {
	Format models.ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID     string              `json:"id"`
	Status models.ReportStatus `json:"status"`
}

// ReportStatusResponse exposes job progress and, once completed, a signed
// download URL.
type ReportStatusResponse struct {
	ID          string              `json:"id"`
	Status      models.ReportStatus `json:"status"`
	DownloadURL *string             `json:"download_url,omitempty"`
	Error       *string             `json:"error,omitempty"`
}
