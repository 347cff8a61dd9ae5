package enrollment

// Logical fields of the upstream student and course objects. Each maps to the
// wire keys it may appear under, highest priority first.
const (
	fieldID          = "id"
	fieldFirstName   = "first_name"
	fieldLastName    = "last_name"
	fieldEmail       = "email"
	fieldGithubURL   = "github_url"
	fieldEnrolled    = "enrolled"
	fieldCourse      = "course"
	fieldCourseList  = "courses"
	fieldCourseName  = "course.name"
	fieldCourseDescr = "course.description"
)

var aliases = map[string][]string{
	fieldID:          {"id"},
	fieldFirstName:   {"nombre"},
	fieldLastName:    {"apellido"},
	fieldEmail:       {"email"},
	fieldGithubURL:   {"github_url"},
	fieldEnrolled:    {"cursos_inscritos"},
	fieldCourse:      {"curso", "curso_inscrito", "cursoAsignado", "course"},
	fieldCourseList:  {"cursos", "cursos_detalle", "courses", "materias"},
	fieldCourseName:  {"name", "nombre", "titulo", "nombre_curso"},
	fieldCourseDescr: {"descripcion", "description"},
}

// lookup returns the value of the first alias of field present in raw.
// JSON null counts as absent. Values under lower-priority aliases are never merged.
func lookup(raw map[string]interface{}, field string) (key string, value interface{}, ok bool) {
	for _, k := range aliases[field] {
		v, present := raw[k]
		if !present || v == nil {
			continue
		}
		return k, v, true
	}
	return "", nil, false
}
