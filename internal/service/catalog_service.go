package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-gateway/internal/enrollment"
	"github.com/noah-isme/sma-course-gateway/internal/models"
)

const catalogCacheKey = "catalog:courses"

type courseSource interface {
	ListCourses(ctx context.Context) ([]models.Course, []enrollment.FieldWarning, error)
	GetCourse(ctx context.Context, id int) (models.Course, []enrollment.FieldWarning, error)
}

// CatalogService loads the course catalog, optionally through the cache.
type CatalogService struct {
	source  courseSource
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewCatalogService constructs a CatalogService. cache may be nil.
func NewCatalogService(source courseSource, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{source: source, cache: cache, metrics: metrics, logger: logger}
}

// Courses returns the upstream course list.
func (s *CatalogService) Courses(ctx context.Context) ([]models.Course, error) {
	var cached []models.Course
	if hit, _ := s.cache.Get(ctx, catalogCacheKey, &cached); hit {
		return cached, nil
	}

	courses, warnings, err := s.source.ListCourses(ctx)
	if err != nil {
		return nil, mapUpstreamError(err, "courses not found")
	}
	if len(warnings) > 0 {
		s.metrics.RecordParseWarnings(len(warnings))
		s.logger.Debug("course list had malformed entries", zap.Int("warnings", len(warnings)))
	}
	_ = s.cache.Set(ctx, catalogCacheKey, courses, 0)
	return courses, nil
}

// Course returns a single course.
func (s *CatalogService) Course(ctx context.Context, id int) (models.Course, error) {
	course, warnings, err := s.source.GetCourse(ctx, id)
	if err != nil {
		return models.Course{}, mapUpstreamError(err, "course not found")
	}
	s.metrics.RecordParseWarnings(len(warnings))
	return course, nil
}

// Catalog builds a lookup catalog from Courses.
func (s *CatalogService) Catalog(ctx context.Context) (*enrollment.Catalog, error) {
	courses, err := s.Courses(ctx)
	if err != nil {
		return nil, err
	}
	return enrollment.NewCatalog(courses), nil
}

// CatalogOrEmpty never fails. When the catalog cannot be loaded it returns an
// empty catalog, which makes free-text names pass through unresolved.
func (s *CatalogService) CatalogOrEmpty(ctx context.Context) *enrollment.Catalog {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		s.logger.Warn("course catalog unavailable, names will pass through", zap.Error(err))
		return enrollment.NewCatalog(nil)
	}
	return catalog
}

// Invalidate drops the cached catalog.
func (s *CatalogService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, catalogCacheKey)
}
