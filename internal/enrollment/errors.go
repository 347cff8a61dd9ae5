package enrollment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedField marks a field whose JSON type did not match any accepted shape.
	ErrMalformedField = errors.New("malformed field")
	// ErrUnknownCourseToken marks a user token that matched nothing in the catalog.
	ErrUnknownCourseToken = errors.New("unknown course token")
	// ErrAllTokensUnknown marks a non-empty submission in which no token resolved.
	ErrAllTokensUnknown = errors.New("all course tokens unknown")
)

// FieldWarning reports a field that was dropped or coerced while parsing.
// Parsing still succeeds; the warning is informational.
type FieldWarning struct {
	Field  string `json:"field"`
	Detail string `json:"detail"`
}

func (w FieldWarning) Error() string {
	return fmt.Sprintf("%s: %s", w.Field, w.Detail)
}

// Unwrap lets errors.Is(w, ErrMalformedField) hold.
func (w FieldWarning) Unwrap() error {
	return ErrMalformedField
}

func malformed(field, format string, args ...interface{}) FieldWarning {
	return FieldWarning{Field: field, Detail: fmt.Sprintf(format, args...)}
}

// UnknownCoursesError is returned by callers that block a submission because
// every token failed to resolve.
type UnknownCoursesError struct {
	Tokens []string
}

func (e *UnknownCoursesError) Error() string {
	return "unrecognized courses: " + strings.Join(e.Tokens, ", ")
}

// Is matches both ErrAllTokensUnknown and ErrUnknownCourseToken.
func (e *UnknownCoursesError) Is(target error) bool {
	return target == ErrAllTokensUnknown || target == ErrUnknownCourseToken
}
