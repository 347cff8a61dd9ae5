package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SubmissionOperation names the write that produced a submission entry.
type SubmissionOperation string

const (
	SubmissionCreate SubmissionOperation = "create"
	SubmissionUpdate SubmissionOperation = "update"
)

// SubmissionStatus records how a submission ended.
type SubmissionStatus string

const (
	// SubmissionAccepted means the upstream stored the student.
	SubmissionAccepted SubmissionStatus = "accepted"
	// SubmissionBlocked means every course token was unknown and nothing was sent.
	SubmissionBlocked SubmissionStatus = "blocked"
	// SubmissionRejected means the upstream answered with an error.
	SubmissionRejected SubmissionStatus = "rejected"
)

// StringList is a []string persisted as a JSONB array.
type StringList []string

// Value marshals the list, writing [] for nil.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("marshal string list: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB array.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("unmarshal string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// Submission is one logged create or update attempt and its course resolution.
type Submission struct {
	ID             string              `db:"id" json:"id"`
	StudentID      int                 `db:"student_id" json:"student_id"`
	Operation      SubmissionOperation `db:"operation" json:"operation"`
	RawInput       string              `db:"raw_input" json:"raw_input"`
	Resolved       StringList          `db:"resolved" json:"resolved"`
	Unknown        StringList          `db:"unknown" json:"unknown"`
	CarriedForward bool                `db:"carried_forward" json:"carried_forward"`
	Status         SubmissionStatus    `db:"status" json:"status"`
	UpstreamStatus *int                `db:"upstream_status" json:"upstream_status,omitempty"`
	ErrorDetail    *string             `db:"error_detail" json:"error_detail,omitempty"`
	Actor          *string             `db:"actor" json:"actor,omitempty"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`
}

// SubmissionFilter narrows submission listings.
type SubmissionFilter struct {
	StudentID *int
	Status    SubmissionStatus
	Page      int
	PageSize  int
}
