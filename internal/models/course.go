package models

// Course is one entry of the upstream course catalog.
type Course struct {
	ID          int     `json:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// DisplayName returns the course name, or an empty string when the upstream omitted it.
func (c Course) DisplayName() string {
	if c.Name == nil {
		return ""
	}
	return *c.Name
}
