package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-gateway/internal/models"
	appErrors "github.com/noah-isme/sma-course-gateway/pkg/errors"
)

type submissionRepository interface {
	Create(ctx context.Context, sub *models.Submission) error
	List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error)
}

// SubmissionService keeps the course submission log. A nil repository disables it.
type SubmissionService struct {
	repo    submissionRepository
	metrics *MetricsService
	logger  *zap.Logger
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(repo submissionRepository, metrics *MetricsService, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{repo: repo, metrics: metrics, logger: logger}
}

// Enabled reports whether submissions are persisted.
func (s *SubmissionService) Enabled() bool {
	return s != nil && s.repo != nil
}

// Record counts the submission and stores it when the log is enabled.
// Storage failures are logged and never surface to the caller.
func (s *SubmissionService) Record(ctx context.Context, sub *models.Submission) {
	if s == nil {
		return
	}
	s.metrics.RecordSubmission(string(sub.Operation), string(sub.Status))
	if s.repo == nil {
		return
	}
	start := time.Now()
	err := s.repo.Create(ctx, sub)
	s.metrics.ObserveDBQuery("submission_create", time.Since(start))
	if err != nil {
		s.logger.Warn("failed to record submission",
			zap.Int("student_id", sub.StudentID),
			zap.String("status", string(sub.Status)),
			zap.Error(err),
		)
	}
}

// List returns logged submissions with pagination metadata.
func (s *SubmissionService) List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, *models.Pagination, error) {
	if !s.Enabled() {
		return nil, nil, appErrors.Clone(appErrors.ErrFeatureDisabled, "submission log is disabled")
	}
	start := time.Now()
	subs, total, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("submission_list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return subs, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}
