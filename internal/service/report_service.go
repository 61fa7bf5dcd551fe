package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xianfire/campus-api/internal/dto"
	"github.com/xianfire/campus-api/internal/models"
	appErrors "github.com/xianfire/campus-api/pkg/errors"
	"github.com/xianfire/campus-api/pkg/export"
	"github.com/xianfire/campus-api/pkg/jobs"
	"github.com/xianfire/campus-api/pkg/storage"
)

const reportJobType = "conflict_report"

type conflictReporter interface {
	Report(ctx context.Context) (*dto.ConflictReport, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// reportJobStore keeps export jobs in memory. Jobs are short-lived: finished
// entries expire with the result TTL and the rendered file is removed with
// them.
type reportJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*models.ReportJob
}

func newReportJobStore() *reportJobStore {
	return &reportJobStore{jobs: make(map[string]*models.ReportJob)}
}

func (s *reportJobStore) put(job *models.ReportJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *job
	s.jobs[job.ID] = &copied
}

func (s *reportJobStore) get(id string) (*models.ReportJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	copied := *job
	return &copied, true
}

func (s *reportJobStore) expire(ttl time.Duration) []*models.ReportJob {
	cutoff := time.Now().UTC().Add(-ttl)
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []*models.ReportJob
	for id, job := range s.jobs {
		if job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			expired = append(expired, job)
			delete(s.jobs, id)
		}
	}
	return expired
}

// ReportServiceConfig governs export retention and download signing.
type ReportServiceConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
	DownloadPath    string
}

// ReportDownload aggregates resolved download data.
type ReportDownload struct {
	File      *os.File
	Filename  string
	Format    models.ReportFormat
	ExpiresAt time.Time
}

// ReportService renders conflict reports to CSV or PDF in the background and
// serves them through signed download URLs.
type ReportService struct {
	conflicts conflictReporter
	queue     jobDispatcher
	store     *reportJobStore
	files     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ReportServiceConfig
}

// NewReportService constructs the report service. SetQueue must be called
// before jobs can be accepted.
func NewReportService(conflicts conflictReporter, files *storage.LocalStorage, signer *storage.SignedURLSigner, validate *validator.Validate, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.DownloadPath == "" {
		cfg.DownloadPath = "/reports/download"
	}
	return &ReportService{
		conflicts: conflicts,
		store:     newReportJobStore(),
		files:     files,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// SetQueue attaches the job dispatcher. Split from the constructor because
// the queue handler is this service's Handle method.
func (s *ReportService) SetQueue(queue jobDispatcher) {
	s.queue = queue
}

// CreateJob registers an export job and enqueues processing.
func (s *ReportService) CreateJob(ctx context.Context, req dto.CreateReportRequest, actorID string) (*dto.ReportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "report queue is not running")
	}

	job := &models.ReportJob{
		ID:        uuid.NewString(),
		Format:    req.Format,
		Status:    models.ReportStatusQueued,
		CreatedBy: actorID,
		CreatedAt: time.Now().UTC(),
	}
	s.store.put(job)

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: reportJobType}); err != nil {
		s.markFailed(job.ID, "failed to enqueue report job")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}
	return &dto.ReportJobResponse{ID: job.ID, Status: job.Status}, nil
}

// GetStatus exposes job state. Completed jobs get a fresh signed download URL.
func (s *ReportService) GetStatus(ctx context.Context, id string) (*dto.ReportStatusResponse, error) {
	job, ok := s.store.get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}

	resp := &dto.ReportStatusResponse{ID: job.ID, Status: job.Status}
	if job.Status == models.ReportStatusCompleted && job.FilePath != "" {
		token, _, err := s.signer.Generate(job.ID, job.FilePath)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
		}
		url := fmt.Sprintf("%s?token=%s", s.cfg.DownloadPath, token)
		resp.DownloadURL = &url
	}
	if job.ErrorMessage != "" {
		msg := job.ErrorMessage
		resp.Error = &msg
	}
	return resp, nil
}

// ResolveDownload validates a signed token and opens the stored export file.
func (s *ReportService) ResolveDownload(ctx context.Context, token string) (*ReportDownload, error) {
	jobID, relPath, expiresAt, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}

	job, ok := s.store.get(jobID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}
	if job.Status != models.ReportStatusCompleted || job.FilePath != relPath {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report not ready")
	}

	file, err := s.files.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return &ReportDownload{
		File:      file,
		Filename:  filepath.Base(relPath),
		Format:    job.Format,
		ExpiresAt: expiresAt,
	}, nil
}

// Handle processes a queued export job. Registered as the queue handler.
func (s *ReportService) Handle(ctx context.Context, job jobs.Job) error {
	record, ok := s.store.get(job.ID)
	if !ok {
		return fmt.Errorf("report job %s not found", job.ID)
	}

	record.Status = models.ReportStatusProcessing
	s.store.put(record)

	report, err := s.conflicts.Report(ctx)
	if err != nil {
		s.markFailed(job.ID, err.Error())
		return err
	}

	table := buildConflictTable(report)
	var payload []byte
	switch record.Format {
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(table)
	default:
		payload, err = s.csv.Render(table)
	}
	if err != nil {
		s.markFailed(job.ID, err.Error())
		return err
	}

	filename := fmt.Sprintf("conflict-report-%s.%s", record.ID, record.Format)
	relPath, err := s.files.Save(filename, payload)
	if err != nil {
		s.markFailed(job.ID, err.Error())
		return err
	}

	now := time.Now().UTC()
	record.Status = models.ReportStatusCompleted
	record.FilePath = relPath
	record.ErrorMessage = ""
	record.FinishedAt = &now
	s.store.put(record)
	return nil
}

// StartCleanup boots a goroutine that purges expired exports periodically.
func (s *ReportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanupExpired()
			}
		}
	}()
}

func (s *ReportService) cleanupExpired() {
	for _, job := range s.store.expire(s.cfg.ResultTTL) {
		if job.FilePath == "" {
			continue
		}
		if err := s.files.Delete(job.FilePath); err != nil {
			s.logger.Warn("failed to delete expired export", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
	if _, err := s.files.CleanupOlderThan(s.cfg.ResultTTL); err != nil {
		s.logger.Warn("filesystem cleanup failed", zap.Error(err))
	}
}

func (s *ReportService) markFailed(id, message string) {
	job, ok := s.store.get(id)
	if !ok {
		return
	}
	now := time.Now().UTC()
	job.Status = models.ReportStatusFailed
	job.ErrorMessage = message
	job.FinishedAt = &now
	s.store.put(job)
}

func buildConflictTable(report *dto.ConflictReport) export.Table {
	table := export.Table{
		Title:   "Schedule Conflict Report",
		Columns: []string{"Type", "Severity", "Message", "Details", "Overlap", "Suggestion"},
	}
	for _, c := range report.Conflicts {
		overlap := ""
		if c.ConflictTime != nil {
			overlap = fmt.Sprintf("%s-%s (%d min)", c.ConflictTime.Start, c.ConflictTime.End, c.ConflictTime.Duration)
		}
		table.Rows = append(table.Rows, []string{
			string(c.Type), string(c.Severity), c.Message, c.Details, overlap, c.Suggestion,
		})
	}
	table.Footer = []string{
		"Generated at " + report.GeneratedAt.Format(time.RFC3339),
		"Total conflicts: " + strconv.Itoa(report.Summary.Total),
		fmt.Sprintf("High: %d  Medium: %d  Low: %d", report.Summary.High, report.Summary.Medium, report.Summary.Low),
	}
	return table
}
