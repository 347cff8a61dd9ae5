package enrollment

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-course-gateway/internal/models"
)

func TestParseScalarFields(t *testing.T) {
	rec, warnings := ParseJSON([]byte(`{"id":12,"nombre":"Ana","apellido":"Rojas","email":"ana@example.com","github_url":null}`))
	require.Empty(t, warnings)
	assert.Equal(t, 12, rec.ID)
	require.NotNil(t, rec.FirstName)
	assert.Equal(t, "Ana", *rec.FirstName)
	require.NotNil(t, rec.LastName)
	assert.Equal(t, "Rojas", *rec.LastName)
	require.NotNil(t, rec.Email)
	assert.Nil(t, rec.GithubURL)
	assert.Equal(t, models.KindEmpty, rec.Enrollment.Kind())
}

func TestParseIDDefaults(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantID   int
		wantWarn bool
	}{
		{name: "missing", input: `{}`, wantID: 0},
		{name: "null", input: `{"id":null}`, wantID: 0},
		{name: "numeric string", input: `{"id":"41"}`, wantID: 41},
		{name: "text", input: `{"id":"abc"}`, wantID: 0, wantWarn: true},
		{name: "fraction truncated", input: `{"id":4.5}`, wantID: 4, wantWarn: true},
		{name: "negative fraction truncated", input: `{"id":-2.9}`, wantID: -2, wantWarn: true},
		{name: "whole float", input: `{"id":7.0}`, wantID: 7},
		{name: "object", input: `{"id":{"v":1}}`, wantID: 0, wantWarn: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, warnings := ParseJSON([]byte(tt.input))
			assert.Equal(t, tt.wantID, rec.ID)
			assert.Equal(t, tt.wantWarn, len(warnings) > 0)
		})
	}
}

func TestParseMalformedStringIsAbsent(t *testing.T) {
	rec, warnings := ParseJSON([]byte(`{"id":1,"nombre":42,"email":["x"]}`))
	assert.Nil(t, rec.FirstName)
	assert.Nil(t, rec.Email)
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.True(t, errors.Is(w, ErrMalformedField))
	}
}

func TestParseEnrolledNames(t *testing.T) {
	rec, warnings := ParseJSON([]byte(`{"id":5,"cursos_inscritos":["Math","Art"]}`))
	require.Empty(t, warnings)
	assert.Equal(t, 5, rec.ID)
	names, ok := rec.Enrollment.Names()
	require.True(t, ok)
	if diff := cmp.Diff([]string{"Math", "Art"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEnrolledIDs(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      []int
		wantWarns int
	}{
		{name: "all ints", input: `{"cursos_inscritos":[3,1,2]}`, want: []int{3, 1, 2}},
		{name: "skips non integers", input: `{"cursos_inscritos":[1,"x",2.5,null,4]}`, want: []int{1, 4}, wantWarns: 3},
		{name: "numeric strings kept", input: `{"cursos_inscritos":[7,"8"]}`, want: []int{7, 8}, wantWarns: 1},
		{name: "duplicates kept", input: `{"cursos_inscritos":[2,2]}`, want: []int{2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, warnings := ParseJSON([]byte(tt.input))
			ids, ok := rec.Enrollment.IDs()
			require.True(t, ok)
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
			assert.Len(t, warnings, tt.wantWarns)
		})
	}
}

func TestParseMixedNameListWarns(t *testing.T) {
	rec, warnings := ParseJSON([]byte(`{"cursos_inscritos":["Math",3,"Art"]}`))
	names, ok := rec.Enrollment.Names()
	require.True(t, ok)
	assert.Equal(t, []string{"Math", "3", "Art"}, names)
	require.Len(t, warnings, 1)
	assert.Equal(t, "cursos_inscritos[1]", warnings[0].Field)
	assert.True(t, errors.Is(warnings[0], ErrMalformedField))
}

func TestParseNameListScalarsKeptAsText(t *testing.T) {
	rec, warnings := ParseJSON([]byte(`{"cursos_inscritos":["Math",2.5,true,{"id":1},null,["x"],"Art"]}`))
	names, ok := rec.Enrollment.Names()
	require.True(t, ok)
	if diff := cmp.Diff([]string{"Math", "2.5", "true", "Art"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	fields := make([]string, 0, len(warnings))
	for _, w := range warnings {
		fields = append(fields, w.Field)
	}
	want := []string{
		"cursos_inscritos[1]",
		"cursos_inscritos[2]",
		"cursos_inscritos[3]",
		"cursos_inscritos[4]",
		"cursos_inscritos[5]",
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("warning fields mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmptyEnrolledIsByIDs(t *testing.T) {
	rec, warnings := ParseJSON([]byte(`{"id":3,"cursos_inscritos":[]}`))
	require.Empty(t, warnings)
	assert.Equal(t, models.KindByIDs, rec.Enrollment.Kind())
	ids, ok := rec.Enrollment.IDs()
	require.True(t, ok)
	assert.Empty(t, ids)
}

func TestParseDetailedCourses(t *testing.T) {
	input := `{"id":1,"cursos_inscritos":[9],"materias":[
		{"id":1,"name":"Primary","nombre":"Secondary"},
		{"id":2,"nombre":"Historia","descripcion":"Siglo XX"},
		{"id":3,"titulo":"Arte"},
		{"id":4,"nombre_curso":"Musica","description":"Coro"}
	]}`
	rec, warnings := ParseJSON([]byte(input))
	require.Empty(t, warnings)
	courses, ok := rec.Enrollment.Courses()
	require.True(t, ok)
	require.Len(t, courses, 4)

	names := make([]string, 0, len(courses))
	for _, c := range courses {
		names = append(names, c.DisplayName())
	}
	if diff := cmp.Diff([]string{"Primary", "Historia", "Arte", "Musica"}, names); diff != "" {
		t.Errorf("course names mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, courses[1].Description)
	assert.Equal(t, "Siglo XX", *courses[1].Description)
	require.NotNil(t, courses[3].Description)
	assert.Equal(t, "Coro", *courses[3].Description)
}

func TestParseCourseListAliasPriority(t *testing.T) {
	rec, _ := ParseJSON([]byte(`{"courses":[{"id":2,"name":"B"}],"cursos":[{"id":1,"name":"A"}]}`))
	courses, ok := rec.Enrollment.Courses()
	require.True(t, ok)
	require.Len(t, courses, 1)
	assert.Equal(t, 1, courses[0].ID)
}

func TestParseCourseListWrongTypeDoesNotFallToLowerAlias(t *testing.T) {
	rec, warnings := ParseJSON([]byte(`{"cursos":"Math","courses":[{"id":1,"name":"A"}]}`))
	assert.Equal(t, models.KindEmpty, rec.Enrollment.Kind())
	require.Len(t, warnings, 1)
	assert.Equal(t, "cursos", warnings[0].Field)
}

func TestParseEmptyCourseListFallsThrough(t *testing.T) {
	rec, _ := ParseJSON([]byte(`{"cursos":[],"cursos_inscritos":["Math"]}`))
	assert.Equal(t, models.KindByNames, rec.Enrollment.Kind())
}

func TestParseSingleCourse(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "curso", input: `{"curso":{"id":4,"nombre":"Quimica"}}`},
		{name: "curso_inscrito", input: `{"curso_inscrito":{"id":4,"nombre":"Quimica"}}`},
		{name: "cursoAsignado", input: `{"cursoAsignado":{"id":4,"titulo":"Quimica"}}`},
		{name: "course", input: `{"course":{"id":4,"name":"Quimica"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, warnings := ParseJSON([]byte(tt.input))
			require.Empty(t, warnings)
			courses, ok := rec.Enrollment.Courses()
			require.True(t, ok)
			require.Len(t, courses, 1)
			assert.Equal(t, 4, courses[0].ID)
			assert.Equal(t, "Quimica", courses[0].DisplayName())
		})
	}
}

func TestParseNullSingleCourseFallsToNextAlias(t *testing.T) {
	rec, warnings := ParseJSON([]byte(`{"curso":null,"course":{"id":4,"name":"Quimica"}}`))
	require.Empty(t, warnings)
	courses, ok := rec.Enrollment.Courses()
	require.True(t, ok)
	require.Len(t, courses, 1)
	assert.Equal(t, 4, courses[0].ID)
	assert.Equal(t, "Quimica", courses[0].DisplayName())
}

func TestParseWrongTypeSingleCourseDoesNotFallToLowerAlias(t *testing.T) {
	rec, warnings := ParseJSON([]byte(`{"curso":"Quimica","course":{"id":4,"name":"Quimica"}}`))
	assert.Equal(t, models.KindEmpty, rec.Enrollment.Kind())
	require.Len(t, warnings, 1)
	assert.Equal(t, "curso", warnings[0].Field)
}

func TestParseEnrolledBeatsSingleCourse(t *testing.T) {
	rec, _ := ParseJSON([]byte(`{"cursos_inscritos":[1],"curso":{"id":4,"nombre":"Quimica"}}`))
	assert.Equal(t, models.KindByIDs, rec.Enrollment.Kind())
}

func TestParseUninferableListFallsToSingleCourse(t *testing.T) {
	rec, warnings := ParseJSON([]byte(`{"cursos_inscritos":[{"id":1}],"curso":{"id":4,"nombre":"Quimica"}}`))
	assert.Equal(t, models.KindDetailed, rec.Enrollment.Kind())
	require.Len(t, warnings, 1)
	assert.Equal(t, "cursos_inscritos[0]", warnings[0].Field)
}

func TestParseJSONRejectsNonObject(t *testing.T) {
	rec, warnings := ParseJSON([]byte(`[1,2]`))
	assert.Equal(t, 0, rec.ID)
	assert.Equal(t, models.KindEmpty, rec.Enrollment.Kind())
	require.Len(t, warnings, 1)

	_, warnings = ParseJSON([]byte(`{`))
	require.Len(t, warnings, 1)
}

func TestParseCourses(t *testing.T) {
	var items []interface{}
	items = append(items,
		map[string]interface{}{"id": float64(1), "nombre": "Álgebra"},
		"junk",
		map[string]interface{}{"nombre": "Sin id"},
	)
	courses, warnings := ParseCourses(items)
	require.Len(t, courses, 2)
	assert.Equal(t, "Álgebra", courses[0].DisplayName())
	assert.Equal(t, 0, courses[1].ID)
	assert.Len(t, warnings, 2)
}
