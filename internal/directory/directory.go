// Package directory filters the alumni listing and prepares map data
package directory

import (
	"sort"
	"strings"

	"github.com/alumnet-dev/alumnet/internal/models"
)

// Filter narrows the directory listing. Zero values match everything.
type Filter struct {
	Search     string
	Department string
	Year       int
}

// Active reports whether any criterion is set
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Search) != "" || f.Department != "" || f.Year != 0
}

// Match reports whether a satisfies every criterion. Search is a
// case-insensitive substring match on name, email and company.
func (f Filter) Match(a *models.Alumni) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		hit := false
		for _, field := range []string{a.FirstName, a.LastName, a.Email, a.CurrentCompany} {
			if strings.Contains(strings.ToLower(field), term) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.Department != "" && a.Department != f.Department {
		return false
	}
	if f.Year != 0 && a.GraduationYear != f.Year {
		return false
	}
	return true
}

// Apply returns the matching alumni in their original order
func (f Filter) Apply(list []models.Alumni) []models.Alumni {
	if !f.Active() {
		return list
	}
	out := make([]models.Alumni, 0, len(list))
	for i := range list {
		if f.Match(&list[i]) {
			out = append(out, list[i])
		}
	}
	return out
}

// Facets are the choices offered by the directory filters
type Facets struct {
	Departments []string // distinct, non-empty, sorted
	Years       []int    // distinct, newest first
}

// BuildFacets collects the filter choices present in list
func BuildFacets(list []models.Alumni) Facets {
	depts := make(map[string]struct{})
	years := make(map[int]struct{})
	for _, a := range list {
		if a.Department != "" {
			depts[a.Department] = struct{}{}
		}
		if a.GraduationYear != 0 {
			years[a.GraduationYear] = struct{}{}
		}
	}

	f := Facets{
		Departments: make([]string, 0, len(depts)),
		Years:       make([]int, 0, len(years)),
	}
	for d := range depts {
		f.Departments = append(f.Departments, d)
	}
	for y := range years {
		f.Years = append(f.Years, y)
	}
	sort.Strings(f.Departments)
	sort.Sort(sort.Reverse(sort.IntSlice(f.Years)))
	return f
}
