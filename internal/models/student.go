package models

import "encoding/json"

// StudentRecord is the normalized view of one upstream student object.
type StudentRecord struct {
	ID         int        `json:"id"`
	FirstName  *string    `json:"first_name,omitempty"`
	LastName   *string    `json:"last_name,omitempty"`
	Email      *string    `json:"email,omitempty"`
	GithubURL  *string    `json:"github_url,omitempty"`
	Enrollment Enrollment `json:"enrollment"`
}

// EnrollmentKind names the representation held by an Enrollment.
type EnrollmentKind string

const (
	KindEmpty    EnrollmentKind = "empty"
	KindByIDs    EnrollmentKind = "by_ids"
	KindByNames  EnrollmentKind = "by_names"
	KindDetailed EnrollmentKind = "detailed"
)

// Enrollment is a tagged union over the shapes upstream uses for a student's courses.
// Exactly one representation is populated; the zero value is Empty.
type Enrollment struct {
	kind    EnrollmentKind
	ids     []int
	names   []string
	courses []Course
}

// EmptyEnrollment returns an enrollment with no course data.
func EmptyEnrollment() Enrollment {
	return Enrollment{kind: KindEmpty}
}

// EnrollmentByIDs wraps a list of course ids. A nil slice is stored as empty.
func EnrollmentByIDs(ids []int) Enrollment {
	cp := make([]int, len(ids))
	copy(cp, ids)
	return Enrollment{kind: KindByIDs, ids: cp}
}

// EnrollmentByNames wraps a list of course names.
func EnrollmentByNames(names []string) Enrollment {
	cp := make([]string, len(names))
	copy(cp, names)
	return Enrollment{kind: KindByNames, names: cp}
}

// EnrollmentDetailed wraps full course objects.
func EnrollmentDetailed(courses []Course) Enrollment {
	cp := make([]Course, len(courses))
	copy(cp, courses)
	return Enrollment{kind: KindDetailed, courses: cp}
}

// Kind reports the active representation.
func (e Enrollment) Kind() EnrollmentKind {
	if e.kind == "" {
		return KindEmpty
	}
	return e.kind
}

// IDs returns a copy of the id list when Kind is KindByIDs.
func (e Enrollment) IDs() ([]int, bool) {
	if e.kind != KindByIDs {
		return nil, false
	}
	cp := make([]int, len(e.ids))
	copy(cp, e.ids)
	return cp, true
}

// Names returns a copy of the name list when Kind is KindByNames.
func (e Enrollment) Names() ([]string, bool) {
	if e.kind != KindByNames {
		return nil, false
	}
	cp := make([]string, len(e.names))
	copy(cp, e.names)
	return cp, true
}

// Courses returns a copy of the detailed courses when Kind is KindDetailed.
func (e Enrollment) Courses() ([]Course, bool) {
	if e.kind != KindDetailed {
		return nil, false
	}
	cp := make([]Course, len(e.courses))
	copy(cp, e.courses)
	return cp, true
}

// Len is the number of entries in the active representation.
func (e Enrollment) Len() int {
	switch e.Kind() {
	case KindByIDs:
		return len(e.ids)
	case KindByNames:
		return len(e.names)
	case KindDetailed:
		return len(e.courses)
	default:
		return 0
	}
}

// MarshalJSON emits the kind tag plus only the populated representation.
func (e Enrollment) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{"kind": e.Kind()}
	switch e.Kind() {
	case KindByIDs:
		out["ids"] = e.ids
	case KindByNames:
		out["names"] = e.names
	case KindDetailed:
		out["courses"] = e.courses
	}
	return json.Marshal(out)
}

// StudentPayload is the body sent to upstream on create and update.
type StudentPayload struct {
	ID              int      `json:"id"`
	FirstName       string   `json:"nombre"`
	LastName        string   `json:"apellido"`
	Email           string   `json:"email"`
	GithubURL       *string  `json:"github_url"`
	EnrolledCourses []string `json:"cursos_inscritos"`
}
