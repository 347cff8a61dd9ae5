package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-course-gateway/internal/dto"
	"github.com/noah-isme/sma-course-gateway/internal/enrollment"
	"github.com/noah-isme/sma-course-gateway/internal/models"
	appErrors "github.com/noah-isme/sma-course-gateway/pkg/errors"
)

func TestEnrollmentServicePreview(t *testing.T) {
	svc := NewEnrollmentService(fakeCatalog{catalog: enrollment.NewCatalog(sampleCourses())}, nil)

	out := svc.Preview(context.Background(), dto.ResolveRequest{Courses: "Calculo I, 7, unknown-course"})
	assert.Equal(t, []string{"Calculo I", "7", "unknown-course"}, out.Tokens)
	assert.Equal(t, []string{"Calculo I", "Física"}, out.Resolution.Resolved)
	assert.Equal(t, []string{"unknown-course"}, out.Resolution.Unknown)
	assert.False(t, out.Blocked)
	assert.True(t, out.CatalogAvailable)
}

func TestEnrollmentServicePreviewBlockedWithoutCatalog(t *testing.T) {
	svc := NewEnrollmentService(fakeCatalog{}, nil)

	out := svc.Preview(context.Background(), dto.ResolveRequest{Courses: "9"})
	assert.True(t, out.Blocked)
	assert.False(t, out.CatalogAvailable)
}

func TestEnrollmentServiceParseObjectAndArray(t *testing.T) {
	svc := NewEnrollmentService(fakeCatalog{catalog: enrollment.NewCatalog(sampleCourses())}, NewMetricsService())

	out, err := svc.Parse(context.Background(), []byte(`{"id": 3, "cursos_inscritos": [9, "x"]}`))
	require.NoError(t, err)
	require.Len(t, out.Records, 1)
	assert.Equal(t, models.KindByIDs, out.Records[0].Enrollment.Kind())
	assert.Equal(t, []string{"Álgebra"}, out.Records[0].CourseLabels)
	assert.Equal(t, 1, out.WarningCount)

	out, err = svc.Parse(context.Background(), []byte(`[{"id": 1}, 5]`))
	require.NoError(t, err)
	require.Len(t, out.Records, 2)
	assert.Equal(t, 1, out.WarningCount)
	assert.Zero(t, out.Records[1].ID)
}

func TestEnrollmentServiceParseRejectsScalars(t *testing.T) {
	svc := NewEnrollmentService(fakeCatalog{}, nil)

	for _, body := range []string{`"text"`, `{`} {
		_, err := svc.Parse(context.Background(), []byte(body))
		var appErr *appErrors.Error
		require.True(t, errors.As(err, &appErr), body)
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	}
}
