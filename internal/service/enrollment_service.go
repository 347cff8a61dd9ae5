package service

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/noah-isme/sma-course-gateway/internal/dto"
	"github.com/noah-isme/sma-course-gateway/internal/enrollment"
	appErrors "github.com/noah-isme/sma-course-gateway/pkg/errors"
)

// EnrollmentService exposes the parser and resolver without writing upstream.
type EnrollmentService struct {
	catalog catalogProvider
	metrics *MetricsService
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(catalog catalogProvider, metrics *MetricsService) *EnrollmentService {
	return &EnrollmentService{catalog: catalog, metrics: metrics}
}

// Preview resolves free-text courses against the current catalog.
func (s *EnrollmentService) Preview(ctx context.Context, req dto.ResolveRequest) dto.ResolveResponse {
	catalog := s.catalog.CatalogOrEmpty(ctx)
	tokens := enrollment.Tokenize(req.Courses)
	res := enrollment.ResolveTokens(tokens, catalog)
	return dto.ResolveResponse{
		Tokens:           tokens,
		Resolution:       res,
		Blocked:          res.Blocked(),
		CatalogAvailable: !catalog.IsEmpty(),
	}
}

// Parse runs raw student JSON through the record parser. The body may be one
// object or an array of objects; non-object array entries become warnings.
func (s *EnrollmentService) Parse(ctx context.Context, body []byte) (*dto.ParseResponse, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "body must be valid JSON")
	}

	var items []interface{}
	switch v := value.(type) {
	case map[string]interface{}:
		items = []interface{}{v}
	case []interface{}:
		items = v
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "body must be a JSON object or array")
	}

	catalog := s.catalog.CatalogOrEmpty(ctx)
	out := &dto.ParseResponse{Records: make([]dto.StudentView, 0, len(items))}
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			_, warnings := enrollment.ParseJSON(rawJSON(item))
			out.Records = append(out.Records, dto.StudentView{CourseLabels: []string{}, Warnings: warnings})
			out.WarningCount += len(warnings)
			continue
		}
		rec, warnings := enrollment.Parse(obj)
		out.Records = append(out.Records, newStudentView(rec, catalog, warnings))
		out.WarningCount += len(warnings)
	}
	s.metrics.RecordParseWarnings(out.WarningCount)
	return out, nil
}

func rawJSON(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return data
}
