package dto

import (
	"github.com/noah-isme/sma-course-gateway/internal/enrollment"
	"github.com/noah-isme/sma-course-gateway/internal/models"
)

// StudentView is a parsed student plus the labels shown for its courses.
type StudentView struct {
	ID           int                       `json:"id"`
	FirstName    *string                   `json:"first_name"`
	LastName     *string                   `json:"last_name"`
	Email        *string                   `json:"email"`
	GithubURL    *string                   `json:"github_url"`
	Enrollment   models.Enrollment         `json:"enrollment"`
	CourseLabels []string                  `json:"course_labels"`
	Warnings     []enrollment.FieldWarning `json:"warnings,omitempty"`
}

// CreateStudentRequest is the operator form for a new student. Courses is
// free text: comma separated course names or catalog ids.
type CreateStudentRequest struct {
	ID        int    `json:"id" validate:"required,gt=0"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	GithubURL string `json:"github_url" validate:"omitempty,url"`
	Courses   string `json:"courses"`
}

// UpdateStudentRequest edits a student. Blank fields keep the stored value and
// blank Courses keeps the current enrollment.
type UpdateStudentRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"omitempty,email"`
	GithubURL string `json:"github_url" validate:"omitempty,url"`
	Courses   string `json:"courses"`
}

// StudentWriteResult reports what was sent upstream for a create or update.
type StudentWriteResult struct {
	Student        StudentView           `json:"student"`
	Resolution     enrollment.Resolution `json:"resolution"`
	CarriedForward bool                  `json:"carried_forward"`
}

// ExportFile is a rendered roster ready to download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
