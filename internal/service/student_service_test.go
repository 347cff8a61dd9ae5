package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-gateway/internal/dto"
	"github.com/noah-isme/sma-course-gateway/internal/enrollment"
	"github.com/noah-isme/sma-course-gateway/internal/models"
	"github.com/noah-isme/sma-course-gateway/internal/upstream"
	appErrors "github.com/noah-isme/sma-course-gateway/pkg/errors"
)

func newTestStudentService(gw *fakeGateway, catalog *enrollment.Catalog, repo *fakeSubmissionRepo) *StudentService {
	var subs *SubmissionService
	if repo != nil {
		subs = NewSubmissionService(repo, nil, zap.NewNop())
	}
	return NewStudentService(gw, fakeCatalog{catalog: catalog}, subs, nil, nil, zap.NewNop(), StudentServiceConfig{})
}

func validCreate(courses string) dto.CreateStudentRequest {
	return dto.CreateStudentRequest{
		ID:        10,
		FirstName: "Ana",
		LastName:  "Pérez",
		Email:     "ana@example.com",
		Courses:   courses,
	}
}

func TestStudentServiceCreateResolvesCourses(t *testing.T) {
	gw := &fakeGateway{}
	repo := &fakeSubmissionRepo{}
	svc := newTestStudentService(gw, enrollment.NewCatalog(sampleCourses()), repo)

	result, err := svc.Create(context.Background(), validCreate("Calculo I, 7, unknown-course"), "admin@example.com")
	require.NoError(t, err)

	require.Len(t, gw.created, 1)
	assert.Equal(t, []string{"Calculo I", "Física"}, gw.created[0].EnrolledCourses)
	assert.Nil(t, gw.created[0].GithubURL)
	assert.Equal(t, []string{"unknown-course"}, result.Resolution.Unknown)
	assert.Equal(t, []string{"Calculo I", "Física"}, result.Student.CourseLabels)

	require.Len(t, repo.created, 1)
	assert.Equal(t, models.SubmissionAccepted, repo.created[0].Status)
	assert.Equal(t, "admin@example.com", *repo.created[0].Actor)
}

func TestStudentServiceCreateBlocksWhenNothingResolves(t *testing.T) {
	gw := &fakeGateway{}
	repo := &fakeSubmissionRepo{}
	svc := newTestStudentService(gw, enrollment.NewCatalog(sampleCourses()), repo)

	_, err := svc.Create(context.Background(), validCreate("99, Latin"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, enrollment.ErrAllTokensUnknown))

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Equal(t, map[string]interface{}{"unknown": []string{"99", "Latin"}}, appErr.Details)

	assert.Empty(t, gw.created)
	require.Len(t, repo.created, 1)
	assert.Equal(t, models.SubmissionBlocked, repo.created[0].Status)
}

func TestStudentServiceCreateWithoutCatalogPassesNamesThrough(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestStudentService(gw, nil, nil)

	result, err := svc.Create(context.Background(), validCreate("Robótica, 3"), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Robótica"}, gw.created[0].EnrolledCourses)
	assert.Equal(t, []string{"3"}, result.Resolution.Unknown)
	assert.Equal(t, 1, result.Resolution.PassThrough)
}

func TestStudentServiceCreateEmptyCoursesIsAllowed(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestStudentService(gw, enrollment.NewCatalog(sampleCourses()), nil)

	_, err := svc.Create(context.Background(), validCreate("  , "), "")
	require.NoError(t, err)
	assert.Equal(t, []string{}, gw.created[0].EnrolledCourses)
}

func TestStudentServiceCreateValidation(t *testing.T) {
	svc := newTestStudentService(&fakeGateway{}, nil, nil)

	req := validCreate("")
	req.ID = 0
	_, err := svc.Create(context.Background(), req, "")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestStudentServiceCreateUpstreamRejection(t *testing.T) {
	gw := &fakeGateway{writeErr: &upstream.Error{StatusCode: http.StatusConflict, Detail: "id already exists"}}
	repo := &fakeSubmissionRepo{}
	svc := newTestStudentService(gw, nil, repo)

	_, err := svc.Create(context.Background(), validCreate(""), "")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "id already exists", appErr.Message)

	require.Len(t, repo.created, 1)
	assert.Equal(t, models.SubmissionRejected, repo.created[0].Status)
	assert.Equal(t, http.StatusConflict, *repo.created[0].UpstreamStatus)
}

func TestStudentServiceUpdateCarriesCoursesForward(t *testing.T) {
	gw := &fakeGateway{students: map[int]models.StudentRecord{
		4: {
			ID:         4,
			FirstName:  strPtr("Luis"),
			LastName:   strPtr("Soto"),
			Email:      strPtr("luis@example.com"),
			GithubURL:  strPtr("https://github.com/luis"),
			Enrollment: models.EnrollmentByIDs([]int{7, 42}),
		},
	}}
	repo := &fakeSubmissionRepo{}
	svc := newTestStudentService(gw, enrollment.NewCatalog(sampleCourses()), repo)

	result, err := svc.Update(context.Background(), 4, dto.UpdateStudentRequest{LastName: "Soto Díaz"}, "")
	require.NoError(t, err)
	assert.True(t, result.CarriedForward)

	require.Len(t, gw.updated, 1)
	sent := gw.updated[0]
	assert.Equal(t, 4, sent.ID)
	assert.Equal(t, "Luis", sent.FirstName)
	assert.Equal(t, "Soto Díaz", sent.LastName)
	assert.Equal(t, "luis@example.com", sent.Email)
	assert.Equal(t, "https://github.com/luis", *sent.GithubURL)
	assert.Equal(t, []string{"Física", "42"}, sent.EnrolledCourses)
	assert.True(t, repo.created[0].CarriedForward)
}

func TestStudentServiceUpdateReplacesCourses(t *testing.T) {
	gw := &fakeGateway{students: map[int]models.StudentRecord{
		4: {ID: 4, FirstName: strPtr("Luis"), Enrollment: models.EnrollmentByNames([]string{"Arte"})},
	}}
	svc := newTestStudentService(gw, enrollment.NewCatalog(sampleCourses()), nil)

	result, err := svc.Update(context.Background(), 4, dto.UpdateStudentRequest{Courses: "algebra"}, "")
	require.NoError(t, err)
	assert.False(t, result.CarriedForward)
	assert.Equal(t, []string{"Álgebra"}, gw.updated[0].EnrolledCourses)
}

func TestStudentServiceUpdateMissingStudent(t *testing.T) {
	svc := newTestStudentService(&fakeGateway{}, nil, nil)
	_, err := svc.Update(context.Background(), 99, dto.UpdateStudentRequest{}, "")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestStudentServiceListShowsLabels(t *testing.T) {
	gw := &fakeGateway{students: map[int]models.StudentRecord{
		1: {ID: 1, Enrollment: models.EnrollmentByIDs([]int{9, 5})},
		2: {ID: 2, Enrollment: models.EnrollmentDetailed([]models.Course{{ID: 3}})},
		3: {ID: 3},
	}}
	svc := newTestStudentService(gw, enrollment.NewCatalog(sampleCourses()), nil)

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, []string{"Álgebra", "5"}, views[0].CourseLabels)
	assert.Equal(t, []string{"3"}, views[1].CourseLabels)
	assert.Equal(t, []string{}, views[2].CourseLabels)
}

func TestStudentServiceListUpstreamDown(t *testing.T) {
	gw := &fakeGateway{listErr: errors.New("dial tcp: connection refused")}
	svc := newTestStudentService(gw, nil, nil)

	_, err := svc.List(context.Background())
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUpstreamUnavailable.Code, appErr.Code)
}

func TestStudentServiceDelete(t *testing.T) {
	gw := &fakeGateway{students: map[int]models.StudentRecord{2: {ID: 2}}}
	svc := newTestStudentService(gw, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), 2, "admin"))
	assert.Equal(t, []int{2}, gw.deleted)

	err := svc.Delete(context.Background(), 3, "admin")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestStudentServiceExportCSV(t *testing.T) {
	gw := &fakeGateway{students: map[int]models.StudentRecord{
		1: {ID: 1, FirstName: strPtr("Ana"), Enrollment: models.EnrollmentByIDs([]int{1, 7})},
	}}
	svc := newTestStudentService(gw, enrollment.NewCatalog(sampleCourses()), nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC) }

	file, err := svc.Export(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "students_20240301_083000.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"1", "Ana", "", "", "", "Calculo I, Física"}, records[1])
}

func TestStudentServiceExportRejectsUnknownFormat(t *testing.T) {
	svc := newTestStudentService(&fakeGateway{}, nil, nil)
	_, err := svc.Export(context.Background(), "docx")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
