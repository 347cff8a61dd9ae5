package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/noah-isme/sma-course-gateway/internal/enrollment"
	"github.com/noah-isme/sma-course-gateway/internal/models"
	"github.com/noah-isme/sma-course-gateway/internal/upstream"
	appErrors "github.com/noah-isme/sma-course-gateway/pkg/errors"
)

func strPtr(s string) *string { return &s }

func sampleCourses() []models.Course {
	return []models.Course{
		{ID: 1, Name: strPtr("Calculo I")},
		{ID: 7, Name: strPtr("Física")},
		{ID: 9, Name: strPtr("Álgebra")},
	}
}

type fakeCatalog struct {
	catalog *enrollment.Catalog
}

func (f fakeCatalog) CatalogOrEmpty(ctx context.Context) *enrollment.Catalog {
	if f.catalog == nil {
		return enrollment.NewCatalog(nil)
	}
	return f.catalog
}

type fakeGateway struct {
	mu       sync.Mutex
	students map[int]models.StudentRecord
	listErr  error
	writeErr error
	created  []models.StudentPayload
	updated  []models.StudentPayload
	deleted  []int
}

func (f *fakeGateway) ListStudents(ctx context.Context) (upstream.Students, error) {
	if f.listErr != nil {
		return upstream.Students{}, f.listErr
	}
	out := upstream.Students{}
	for _, id := range []int{1, 2, 3, 4, 5} {
		if rec, ok := f.students[id]; ok {
			out.Records = append(out.Records, rec)
		}
	}
	return out, nil
}

func (f *fakeGateway) GetStudent(ctx context.Context, id int) (models.StudentRecord, []enrollment.FieldWarning, error) {
	rec, ok := f.students[id]
	if !ok {
		return models.StudentRecord{}, nil, &upstream.Error{StatusCode: 404, Detail: "Not Found"}
	}
	return rec, nil, nil
}

func (f *fakeGateway) CreateStudent(ctx context.Context, payload models.StudentPayload) (models.StudentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, payload)
	if f.writeErr != nil {
		return models.StudentRecord{}, f.writeErr
	}
	return models.StudentRecord{}, nil
}

func (f *fakeGateway) UpdateStudent(ctx context.Context, id int, payload models.StudentPayload) (models.StudentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, payload)
	if f.writeErr != nil {
		return models.StudentRecord{}, f.writeErr
	}
	return models.StudentRecord{}, nil
}

func (f *fakeGateway) DeleteStudent(ctx context.Context, id int) error {
	if _, ok := f.students[id]; !ok {
		return &upstream.Error{StatusCode: 404, Detail: "Not Found"}
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSubmissionRepo struct {
	created []models.Submission
	err     error
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, sub *models.Submission) error {
	f.created = append(f.created, *sub)
	return f.err
}

func (f *fakeSubmissionRepo) List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error) {
	return f.created, len(f.created), f.err
}

type fakeCourseSource struct {
	courses []models.Course
	err     error
	calls   int
}

func (f *fakeCourseSource) ListCourses(ctx context.Context) ([]models.Course, []enrollment.FieldWarning, error) {
	f.calls++
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.courses, nil, nil
}

func (f *fakeCourseSource) GetCourse(ctx context.Context, id int) (models.Course, []enrollment.FieldWarning, error) {
	for _, c := range f.courses {
		if c.ID == id {
			return c, nil, nil
		}
	}
	return models.Course{}, nil, upstream.ErrNotFound
}

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}
