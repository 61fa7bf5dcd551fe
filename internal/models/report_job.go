package models

import "time"

// ReportFormat selects the rendered export format.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ReportStatus tracks the lifecycle of an export job.
type ReportStatus string

const (
	ReportStatusQueued     ReportStatus = "queued"
	ReportStatusProcessing ReportStatus = "processing"
	ReportStatusCompleted  ReportStatus = "completed"
	ReportStatusFailed     ReportStatus = "failed"
)

// ReportJob describes an asynchronous conflict-report export. Jobs are
// transient: they live in memory for the result TTL and reference a rendered
// file on local storage.
type ReportJob struct {
	ID           string       `json:"id"`
	Format       ReportFormat `json:"format"`
	Status       ReportStatus `json:"status"`
	FilePath     string       `json:"-"`
	ErrorMessage string       `json:"error_message,omitempty"`
	CreatedBy    string       `json:"created_by,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	FinishedAt   *time.Time   `json:"finished_at,omitempty"`
}
