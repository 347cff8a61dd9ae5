package enrollment

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/sma-course-gateway/internal/models"
)

// Parse normalizes one raw upstream student object. It never fails: fields with
// an unexpected JSON type degrade to absent and are reported as warnings.
//
// Enrollment shape is inferred in this order, first match wins:
// a course-object list, then cursos_inscritos (sniffing the first element),
// then a single course object, else Empty.
func Parse(raw map[string]interface{}) (models.StudentRecord, []FieldWarning) {
	p := &parser{}
	rec := models.StudentRecord{
		ID:        p.intField(raw, fieldID),
		FirstName: p.stringField(raw, fieldFirstName),
		LastName:  p.stringField(raw, fieldLastName),
		Email:     p.stringField(raw, fieldEmail),
		GithubURL: p.stringField(raw, fieldGithubURL),
	}
	rec.Enrollment = p.enrollment(raw)
	return rec, p.warnings
}

// ParseJSON decodes a single JSON object and parses it. Input that is not an
// object yields a zero record and a warning.
func ParseJSON(data []byte) (models.StudentRecord, []FieldWarning) {
	value, err := decode(data)
	if err != nil {
		return models.StudentRecord{Enrollment: models.EmptyEnrollment()}, []FieldWarning{malformed("$", "invalid json: %v", err)}
	}
	obj, ok := value.(map[string]interface{})
	if !ok {
		return models.StudentRecord{Enrollment: models.EmptyEnrollment()}, []FieldWarning{malformed("$", "expected object, got %s", kindOf(value))}
	}
	return Parse(obj)
}

// ParseCourse normalizes one raw course object.
func ParseCourse(raw map[string]interface{}) (models.Course, []FieldWarning) {
	p := &parser{}
	course := p.course("", raw)
	return course, p.warnings
}

// ParseCourses parses every object in items; non-object entries are skipped with a warning.
func ParseCourses(items []interface{}) ([]models.Course, []FieldWarning) {
	p := &parser{}
	courses := make([]models.Course, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			p.warn(fmt.Sprintf("[%d]", i), "expected object, got %s", kindOf(item))
			continue
		}
		courses = append(courses, p.course(fmt.Sprintf("[%d].", i), obj))
	}
	return courses, p.warnings
}

// decode keeps numbers as json.Number so large ids survive.
func decode(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

type parser struct {
	warnings []FieldWarning
}

func (p *parser) warn(field, format string, args ...interface{}) {
	p.warnings = append(p.warnings, malformed(field, format, args...))
}

func (p *parser) intField(raw map[string]interface{}, field string) int {
	key, v, ok := lookup(raw, field)
	if !ok {
		return 0
	}
	if n, ok := asInt(v); ok {
		return n
	}
	if n, ok := truncInt(v); ok {
		p.warn(key, "truncated %v to %d", v, n)
		return n
	}
	p.warn(key, "expected integer, got %s", kindOf(v))
	return 0
}

func (p *parser) stringField(raw map[string]interface{}, field string) *string {
	return p.stringAt("", raw, field)
}

func (p *parser) stringAt(prefix string, raw map[string]interface{}, field string) *string {
	key, v, ok := lookup(raw, field)
	if !ok {
		return nil
	}
	s, ok := asString(v)
	if !ok {
		p.warn(prefix+key, "expected string, got %s", kindOf(v))
		return nil
	}
	return &s
}

func (p *parser) course(prefix string, raw map[string]interface{}) models.Course {
	course := models.Course{
		Name:        p.stringAt(prefix, raw, fieldCourseName),
		Description: p.stringAt(prefix, raw, fieldCourseDescr),
	}
	key, v, ok := lookup(raw, fieldID)
	if !ok {
		p.warn(prefix+"id", "missing course id")
		return course
	}
	id, ok := asInt(v)
	if !ok {
		p.warn(prefix+key, "expected integer, got %s", kindOf(v))
		return course
	}
	course.ID = id
	return course
}

func (p *parser) enrollment(raw map[string]interface{}) models.Enrollment {
	if e, ok := p.courseList(raw); ok {
		return e
	}
	if e, ok := p.enrolled(raw); ok {
		return e
	}
	if e, ok := p.singleCourse(raw); ok {
		return e
	}
	return models.EmptyEnrollment()
}

// courseList matches an array holding at least one course object. An empty
// array is not authoritative and lets later shapes match.
func (p *parser) courseList(raw map[string]interface{}) (models.Enrollment, bool) {
	key, v, ok := lookup(raw, fieldCourseList)
	if !ok {
		return models.Enrollment{}, false
	}
	items, ok := v.([]interface{})
	if !ok {
		p.warn(key, "expected array of objects, got %s", kindOf(v))
		return models.Enrollment{}, false
	}
	courses := make([]models.Course, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			p.warn(fmt.Sprintf("%s[%d]", key, i), "expected object, got %s", kindOf(item))
			continue
		}
		courses = append(courses, p.course(fmt.Sprintf("%s[%d].", key, i), obj))
	}
	if len(courses) == 0 {
		return models.Enrollment{}, false
	}
	return models.EnrollmentDetailed(courses), true
}

// enrolled sniffs the first element of cursos_inscritos to choose between ids and names.
func (p *parser) enrolled(raw map[string]interface{}) (models.Enrollment, bool) {
	key, v, ok := lookup(raw, fieldEnrolled)
	if !ok {
		return models.Enrollment{}, false
	}
	items, ok := v.([]interface{})
	if !ok {
		p.warn(key, "expected array, got %s", kindOf(v))
		return models.Enrollment{}, false
	}
	if len(items) == 0 {
		return models.EnrollmentByIDs(nil), true
	}

	switch first := kindOf(items[0]); first {
	case kindNumber:
		ids := make([]int, 0, len(items))
		for i, item := range items {
			id, ok := asInt(item)
			if !ok {
				p.warn(fmt.Sprintf("%s[%d]", key, i), "dropped %s in id list", kindOf(item))
				continue
			}
			if k := kindOf(item); k != kindNumber {
				p.warn(fmt.Sprintf("%s[%d]", key, i), "kept %s %v as id in number list", k, item)
			}
			ids = append(ids, id)
		}
		return models.EnrollmentByIDs(ids), true
	case kindString:
		names := make([]string, 0, len(items))
		for i, item := range items {
			s, ok := scalarText(item)
			if !ok {
				p.warn(fmt.Sprintf("%s[%d]", key, i), "dropped %s in name list", kindOf(item))
				continue
			}
			if k := kindOf(item); k != kindString {
				p.warn(fmt.Sprintf("%s[%d]", key, i), "kept %s %s as name in string list", k, s)
			}
			names = append(names, s)
		}
		return models.EnrollmentByNames(names), true
	default:
		p.warn(key+"[0]", "cannot infer list shape from %s", first)
		return models.Enrollment{}, false
	}
}

func (p *parser) singleCourse(raw map[string]interface{}) (models.Enrollment, bool) {
	key, v, ok := lookup(raw, fieldCourse)
	if !ok {
		return models.Enrollment{}, false
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		p.warn(key, "expected object, got %s", kindOf(v))
		return models.Enrollment{}, false
	}
	return models.EnrollmentDetailed([]models.Course{p.course(key+".", obj)}), true
}
