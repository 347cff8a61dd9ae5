package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-course-gateway/internal/models"
)

const submissionColumns = "id, student_id, operation, raw_input, resolved, unknown, carried_forward, status, upstream_status, error_detail, actor, created_at"

// SubmissionRepository persists the course submission log.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs the repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts a submission, filling ID and CreatedAt when empty.
func (r *SubmissionRepository) Create(ctx context.Context, sub *models.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	if sub.Resolved == nil {
		sub.Resolved = models.StringList{}
	}
	if sub.Unknown == nil {
		sub.Unknown = models.StringList{}
	}

	query := `INSERT INTO course_submissions (` + submissionColumns + `)
VALUES (:id, :student_id, :operation, :raw_input, :resolved, :unknown, :carried_forward, :status, :upstream_status, :error_detail, :actor, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// List returns submissions newest first together with the total match count.
func (r *SubmissionRepository) List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error) {
	var conditions []string
	var args []interface{}

	if filter.StudentID != nil {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, *filter.StudentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM course_submissions"+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM course_submissions%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		submissionColumns, clause, len(args)+1, len(args)+2)
	args = append(args, size, (page-1)*size)

	submissions := []models.Submission{}
	if err := r.db.SelectContext(ctx, &submissions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, total, nil
}

// Ping reports whether the database is reachable.
func (r *SubmissionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
