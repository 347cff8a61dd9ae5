package enrollment

import (
	"strings"

	"github.com/noah-isme/sma-course-gateway/internal/models"
)

// Catalog is an immutable id <-> name snapshot of the course list. A nil
// *Catalog is valid and behaves as an empty catalog.
type Catalog struct {
	courses []models.Course
	names   map[int]string
	ids     map[string]int
}

// NewCatalog indexes courses. Courses without a usable name are left out of
// both indexes; on duplicate ids or normalized names the first course wins.
func NewCatalog(courses []models.Course) *Catalog {
	c := &Catalog{
		courses: make([]models.Course, len(courses)),
		names:   make(map[int]string, len(courses)),
		ids:     make(map[string]int, len(courses)),
	}
	copy(c.courses, courses)
	for _, course := range courses {
		name := course.DisplayName()
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, dup := c.names[course.ID]; dup {
			continue
		}
		key := Normalize(name)
		if _, dup := c.ids[key]; dup {
			continue
		}
		c.names[course.ID] = name
		c.ids[key] = course.ID
	}
	return c
}

// Len is the number of indexed courses.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// IsEmpty reports whether no course can be resolved.
func (c *Catalog) IsEmpty() bool {
	return c.Len() == 0
}

// NameByID returns the canonical name for id.
func (c *Catalog) NameByID(id int) (string, bool) {
	if c == nil {
		return "", false
	}
	name, ok := c.names[id]
	return name, ok
}

// IDByName looks up a name after normalizing it.
func (c *Catalog) IDByName(name string) (int, bool) {
	if c == nil {
		return 0, false
	}
	id, ok := c.ids[Normalize(name)]
	return id, ok
}

// Courses returns a copy of the courses the catalog was built from.
func (c *Catalog) Courses() []models.Course {
	if c == nil {
		return []models.Course{}
	}
	out := make([]models.Course, len(c.courses))
	copy(out, c.courses)
	return out
}
