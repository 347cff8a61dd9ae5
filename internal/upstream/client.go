package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-gateway/internal/enrollment"
	"github.com/noah-isme/sma-course-gateway/internal/models"
	"github.com/noah-isme/sma-course-gateway/pkg/config"
)

const maxBodyBytes = 4 << 20

// Observer receives timing for every upstream call.
type Observer interface {
	ObserveUpstream(operation string, status int, duration time.Duration)
}

// Client talks to the remote students and courses API.
type Client struct {
	baseURL  string
	http     *http.Client
	observer Observer
	logger   *zap.Logger
}

// Students is a decoded student list plus the warnings collected while reading it.
type Students struct {
	Records  []models.StudentRecord
	Warnings []enrollment.FieldWarning
}

// NewClient builds a client for cfg.BaseURL.
func NewClient(cfg config.UpstreamConfig, observer Observer, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
		observer: observer,
		logger:   logger,
	}
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// ListStudents fetches every student. Elements that are not objects are skipped with a warning.
func (c *Client) ListStudents(ctx context.Context) (Students, error) {
	var raw []interface{}
	if err := c.do(ctx, "list_students", http.MethodGet, "/estudiantes", nil, &raw); err != nil {
		return Students{}, err
	}

	out := Students{Records: make([]models.StudentRecord, 0, len(raw))}
	for i, item := range raw {
		obj, ok := item.(map[string]interface{})
		if !ok {
			out.Warnings = append(out.Warnings, enrollment.FieldWarning{
				Field:  fmt.Sprintf("[%d]", i),
				Detail: "expected object",
			})
			continue
		}
		record, warnings := enrollment.Parse(obj)
		for _, w := range warnings {
			w.Field = fmt.Sprintf("[%d].%s", i, w.Field)
			out.Warnings = append(out.Warnings, w)
		}
		out.Records = append(out.Records, record)
	}
	return out, nil
}

// GetStudent fetches one student by id.
func (c *Client) GetStudent(ctx context.Context, id int) (models.StudentRecord, []enrollment.FieldWarning, error) {
	var raw map[string]interface{}
	if err := c.do(ctx, "get_student", http.MethodGet, "/estudiantes/"+strconv.Itoa(id), nil, &raw); err != nil {
		return models.StudentRecord{}, nil, err
	}
	record, warnings := enrollment.Parse(raw)
	return record, warnings, nil
}

// CreateStudent posts a new student and returns the record the upstream echoes back.
func (c *Client) CreateStudent(ctx context.Context, payload models.StudentPayload) (models.StudentRecord, error) {
	return c.writeStudent(ctx, "create_student", http.MethodPost, "/estudiantes", payload)
}

// UpdateStudent replaces a student. The upstream wants the id in both path and body.
func (c *Client) UpdateStudent(ctx context.Context, id int, payload models.StudentPayload) (models.StudentRecord, error) {
	payload.ID = id
	return c.writeStudent(ctx, "update_student", http.MethodPut, "/estudiantes/"+strconv.Itoa(id), payload)
}

// DeleteStudent removes a student.
func (c *Client) DeleteStudent(ctx context.Context, id int) error {
	return c.do(ctx, "delete_student", http.MethodDelete, "/estudiantes/"+strconv.Itoa(id), nil, nil)
}

// ListCourses fetches the course catalog.
func (c *Client) ListCourses(ctx context.Context) ([]models.Course, []enrollment.FieldWarning, error) {
	var raw []interface{}
	if err := c.do(ctx, "list_courses", http.MethodGet, "/cursos", nil, &raw); err != nil {
		return nil, nil, err
	}
	courses, warnings := enrollment.ParseCourses(raw)
	return courses, warnings, nil
}

// GetCourse fetches one course by id.
func (c *Client) GetCourse(ctx context.Context, id int) (models.Course, []enrollment.FieldWarning, error) {
	var raw map[string]interface{}
	if err := c.do(ctx, "get_course", http.MethodGet, "/cursos/"+strconv.Itoa(id), nil, &raw); err != nil {
		return models.Course{}, nil, err
	}
	course, warnings := enrollment.ParseCourse(raw)
	return course, warnings, nil
}

func (c *Client) writeStudent(ctx context.Context, op, method, path string, payload models.StudentPayload) (models.StudentRecord, error) {
	var raw map[string]interface{}
	if err := c.do(ctx, op, method, path, payload, &raw); err != nil {
		return models.StudentRecord{}, err
	}
	if raw == nil {
		return models.StudentRecord{}, nil
	}
	record, warnings := enrollment.Parse(raw)
	if len(warnings) > 0 {
		c.logger.Debug("upstream echo had malformed fields", zap.String("operation", op), zap.Int("warnings", len(warnings)))
	}
	return record, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(op, 0, start)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	c.observe(op, resp.StatusCode, start)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upErr := newError(resp.StatusCode, data)
		c.logger.Warn("upstream call failed",
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", upErr.Detail),
		)
		return upErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func (c *Client) observe(op string, status int, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveUpstream(op, status, time.Since(start))
}
