package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-course-gateway/internal/dto"
	"github.com/noah-isme/sma-course-gateway/internal/enrollment"
	"github.com/noah-isme/sma-course-gateway/internal/models"
	"github.com/noah-isme/sma-course-gateway/internal/upstream"
	appErrors "github.com/noah-isme/sma-course-gateway/pkg/errors"
	"github.com/noah-isme/sma-course-gateway/pkg/export"
)

type studentGateway interface {
	ListStudents(ctx context.Context) (upstream.Students, error)
	GetStudent(ctx context.Context, id int) (models.StudentRecord, []enrollment.FieldWarning, error)
	CreateStudent(ctx context.Context, payload models.StudentPayload) (models.StudentRecord, error)
	UpdateStudent(ctx context.Context, id int, payload models.StudentPayload) (models.StudentRecord, error)
	DeleteStudent(ctx context.Context, id int) error
}

type catalogProvider interface {
	CatalogOrEmpty(ctx context.Context) *enrollment.Catalog
}

type submissionRecorder interface {
	Record(ctx context.Context, sub *models.Submission)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

var rosterHeaders = []string{"id", "first_name", "last_name", "email", "github_url", "courses"}

// StudentServiceConfig tunes roster exports.
type StudentServiceConfig struct {
	ExportTitle string
}

// StudentService reads students from upstream and submits course enrollments.
type StudentService struct {
	students    studentGateway
	catalog     catalogProvider
	submissions submissionRecorder
	renderers   map[export.Format]datasetRenderer
	validator   *validator.Validate
	metrics     *MetricsService
	logger      *zap.Logger
	cfg         StudentServiceConfig
	now         func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(students studentGateway, catalog catalogProvider, submissions submissionRecorder, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg StudentServiceConfig) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ExportTitle == "" {
		cfg.ExportTitle = "Student roster"
	}
	if submissions == nil {
		submissions = (*SubmissionService)(nil)
	}
	return &StudentService{
		students:    students,
		catalog:     catalog,
		submissions: submissions,
		renderers: map[export.Format]datasetRenderer{
			export.FormatCSV:  export.NewCSVExporter(),
			export.FormatPDF:  export.NewPDFExporter(),
			export.FormatXLSX: export.NewXLSXExporter(),
		},
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// List returns every student with display labels. The catalog is fetched
// alongside the students; if it fails, ids are shown as numbers.
func (s *StudentService) List(ctx context.Context) ([]dto.StudentView, error) {
	var (
		catalog  *enrollment.Catalog
		students upstream.Students
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		catalog = s.catalog.CatalogOrEmpty(gctx)
		return nil
	})
	g.Go(func() error {
		var err error
		students, err = s.students.ListStudents(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, mapUpstreamError(err, "students not found")
	}

	if len(students.Warnings) > 0 {
		s.metrics.RecordParseWarnings(len(students.Warnings))
		s.logger.Debug("student list had malformed fields", zap.Int("warnings", len(students.Warnings)))
	}

	views := make([]dto.StudentView, 0, len(students.Records))
	for _, rec := range students.Records {
		views = append(views, newStudentView(rec, catalog, nil))
	}
	return views, nil
}

// Get returns one student including parse warnings.
func (s *StudentService) Get(ctx context.Context, id int) (dto.StudentView, error) {
	rec, warnings, err := s.students.GetStudent(ctx, id)
	if err != nil {
		return dto.StudentView{}, mapUpstreamError(err, "student not found")
	}
	s.metrics.RecordParseWarnings(len(warnings))
	return newStudentView(rec, s.catalog.CatalogOrEmpty(ctx), warnings), nil
}

// Create resolves the free-text courses and submits the new student.
// A non-empty course list in which nothing resolves is refused before any upstream write.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest, actor string) (*dto.StudentWriteResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	catalog := s.catalog.CatalogOrEmpty(ctx)
	res := enrollment.Resolve(req.Courses, catalog)
	s.metrics.RecordResolution(res)

	sub := &models.Submission{
		StudentID: req.ID,
		Operation: models.SubmissionCreate,
		RawInput:  req.Courses,
		Resolved:  res.Resolved,
		Unknown:   res.Unknown,
		Actor:     optional(actor),
	}
	if err := res.Err(); err != nil {
		return nil, s.block(ctx, sub, err, res)
	}

	payload := models.StudentPayload{
		ID:              req.ID,
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Email:           strings.TrimSpace(req.Email),
		GithubURL:       optional(req.GithubURL),
		EnrolledCourses: res.Resolved,
	}
	rec, err := s.students.CreateStudent(ctx, payload)
	if err != nil {
		return nil, s.reject(ctx, sub, err)
	}
	s.accept(ctx, sub)

	return &dto.StudentWriteResult{
		Student:    newStudentView(echoOrPayload(rec, payload), catalog, nil),
		Resolution: res,
	}, nil
}

// Update merges the request with the stored student and submits the result.
// Blank fields keep stored values; blank courses keep the current enrollment as labels.
func (s *StudentService) Update(ctx context.Context, id int, req dto.UpdateStudentRequest, actor string) (*dto.StudentWriteResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	existing, _, err := s.students.GetStudent(ctx, id)
	if err != nil {
		return nil, mapUpstreamError(err, "student not found")
	}
	catalog := s.catalog.CatalogOrEmpty(ctx)

	var (
		res     enrollment.Resolution
		carried bool
	)
	if tokens := enrollment.Tokenize(req.Courses); len(tokens) > 0 {
		res = enrollment.ResolveTokens(tokens, catalog)
		s.metrics.RecordResolution(res)
	} else {
		res = enrollment.Resolution{Resolved: enrollment.Labels(existing.Enrollment, catalog), Unknown: []string{}}
		carried = true
	}

	sub := &models.Submission{
		StudentID:      id,
		Operation:      models.SubmissionUpdate,
		RawInput:       req.Courses,
		Resolved:       res.Resolved,
		Unknown:        res.Unknown,
		CarriedForward: carried,
		Actor:          optional(actor),
	}
	if err := res.Err(); err != nil {
		return nil, s.block(ctx, sub, err, res)
	}

	payload := models.StudentPayload{
		ID:              id,
		FirstName:       pick(req.FirstName, existing.FirstName),
		LastName:        pick(req.LastName, existing.LastName),
		Email:           pick(req.Email, existing.Email),
		GithubURL:       existing.GithubURL,
		EnrolledCourses: res.Resolved,
	}
	if v := optional(req.GithubURL); v != nil {
		payload.GithubURL = v
	}

	rec, err := s.students.UpdateStudent(ctx, id, payload)
	if err != nil {
		return nil, s.reject(ctx, sub, err)
	}
	s.accept(ctx, sub)

	return &dto.StudentWriteResult{
		Student:        newStudentView(echoOrPayload(rec, payload), catalog, nil),
		Resolution:     res,
		CarriedForward: carried,
	}, nil
}

// Delete removes a student upstream.
func (s *StudentService) Delete(ctx context.Context, id int, actor string) error {
	if err := s.students.DeleteStudent(ctx, id); err != nil {
		return mapUpstreamError(err, "student not found")
	}
	s.logger.Info("student deleted", zap.Int("student_id", id), zap.String("actor", actor))
	return nil
}

// Export renders the roster in the requested format.
func (s *StudentService) Export(ctx context.Context, format string) (*dto.ExportFile, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	renderer, ok := s.renderers[f]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	views, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Title: s.cfg.ExportTitle, Headers: rosterHeaders, Rows: make([]map[string]string, 0, len(views))}
	for _, v := range views {
		row := map[string]string{
			"id":         strconv.Itoa(v.ID),
			"first_name": deref(v.FirstName),
			"last_name":  deref(v.LastName),
			"email":      deref(v.Email),
			"github_url": deref(v.GithubURL),
			"courses":    strings.Join(v.CourseLabels, ", "),
		}
		data.Rows = append(data.Rows, row)
	}

	out, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("students_%s.%s", s.now().UTC().Format("20060102_150405"), f),
		ContentType: f.ContentType(),
		Data:        out,
	}, nil
}

func (s *StudentService) block(ctx context.Context, sub *models.Submission, err error, res enrollment.Resolution) error {
	sub.Status = models.SubmissionBlocked
	s.submissions.Record(ctx, sub)
	s.logger.Info("submission blocked, no course recognized", zap.Int("student_id", sub.StudentID), zap.Strings("unknown", res.Unknown))
	appErr := appErrors.Wrap(err, appErrors.ErrUnknownCourses.Code, appErrors.ErrUnknownCourses.Status, err.Error())
	return appErrors.WithDetails(appErr, map[string]interface{}{"unknown": res.Unknown})
}

func (s *StudentService) reject(ctx context.Context, sub *models.Submission, err error) error {
	sub.Status = models.SubmissionRejected
	sub.UpstreamStatus, sub.ErrorDetail = upstreamFailure(err)
	s.submissions.Record(ctx, sub)
	return mapUpstreamError(err, "student not found")
}

func (s *StudentService) accept(ctx context.Context, sub *models.Submission) {
	sub.Status = models.SubmissionAccepted
	s.submissions.Record(ctx, sub)
	s.logger.Info("student submitted",
		zap.String("operation", string(sub.Operation)),
		zap.Int("student_id", sub.StudentID),
		zap.Int("resolved", len(sub.Resolved)),
		zap.Int("unknown", len(sub.Unknown)),
		zap.Bool("carried_forward", sub.CarriedForward),
	)
}

func newStudentView(rec models.StudentRecord, catalog *enrollment.Catalog, warnings []enrollment.FieldWarning) dto.StudentView {
	return dto.StudentView{
		ID:           rec.ID,
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		Email:        rec.Email,
		GithubURL:    rec.GithubURL,
		Enrollment:   rec.Enrollment,
		CourseLabels: enrollment.Labels(rec.Enrollment, catalog),
		Warnings:     warnings,
	}
}

// echoOrPayload prefers the record the upstream returned; some deployments answer with an empty body.
func echoOrPayload(rec models.StudentRecord, payload models.StudentPayload) models.StudentRecord {
	if rec.ID != 0 {
		return rec
	}
	return models.StudentRecord{
		ID:         payload.ID,
		FirstName:  optional(payload.FirstName),
		LastName:   optional(payload.LastName),
		Email:      optional(payload.Email),
		GithubURL:  payload.GithubURL,
		Enrollment: models.EnrollmentByNames(payload.EnrolledCourses),
	}
}

func pick(value string, fallback *string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return deref(fallback)
}

func optional(value string) *string {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	return &v
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
