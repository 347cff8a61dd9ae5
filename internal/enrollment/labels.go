package enrollment

import (
	"strconv"
	"strings"

	"github.com/noah-isme/sma-course-gateway/internal/models"
)

// Labels renders an enrollment as display names. Detailed courses use their
// name or id; ids are looked up in catalog and fall back to the number.
func Labels(e models.Enrollment, catalog *Catalog) []string {
	if courses, ok := e.Courses(); ok {
		out := make([]string, 0, len(courses))
		for _, c := range courses {
			name := strings.TrimSpace(c.DisplayName())
			if name == "" {
				name = strconv.Itoa(c.ID)
			}
			out = append(out, name)
		}
		return out
	}
	if names, ok := e.Names(); ok {
		out := make([]string, 0, len(names))
		for _, n := range names {
			out = append(out, strings.TrimSpace(n))
		}
		return out
	}
	if ids, ok := e.IDs(); ok {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if name, ok := catalog.NameByID(id); ok {
				out = append(out, strings.TrimSpace(name))
				continue
			}
			out = append(out, strconv.Itoa(id))
		}
		return out
	}
	return []string{}
}
