package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// Subject is one classification axis with its ordered set of valid grades.
type Subject struct {
	Name   string   `json:"name"`
	Grades []string `json:"grades"`
}

// Catalog is the immutable subject/grade classification supplied at startup.
// It is configuration, not user data: services receive it at construction
// time and never mutate it.
type Catalog struct {
	subjects []Subject
	grades   map[string][]string
}

// New builds a catalog from an ordered subject list.
func New(subjects []Subject) *Catalog {
	grades := make(map[string][]string, len(subjects))
	for _, s := range subjects {
		grades[s.Name] = s.Grades
	}
	return &Catalog{
		subjects: subjects,
		grades:   grades,
	}
}

// Default returns the built-in curriculum catalog.
func Default() *Catalog {
	return New([]Subject{
		{Name: "Mathematics", Grades: []string{"8", "9", "10", "11", "12"}},
		{Name: "Mathematical Literacy", Grades: []string{"10", "11", "12"}},
		{Name: "Physical Sciences", Grades: []string{"10", "11", "12"}},
		{Name: "Life Sciences", Grades: []string{"10", "11", "12"}},
		{Name: "Accounting", Grades: []string{"10", "11", "12"}},
		{Name: "Geography", Grades: []string{"10", "11", "12"}},
		{Name: "Economics", Grades: []string{"10", "11", "12"}},
		{Name: "Business Studies", Grades: []string{"10", "11", "12"}},
		{Name: "Agricultural Sciences", Grades: []string{"10", "11", "12"}},
		{Name: "EMS", Grades: []string{"8", "9"}},
		{Name: "Natural Sciences", Grades: []string{"8", "9"}},
	})
}

// LoadFile reads a catalog from a JSON file (array of {name, grades}).
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var subjects []Subject
	err = json.Unmarshal(data, &subjects)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(subjects) == 0 {
		return nil, fmt.Errorf("catalog file %q contains no subjects", path)
	}

	return New(subjects), nil
}

// Subjects returns the ordered subject list.
func (c *Catalog) Subjects() []Subject {
	return c.subjects
}

// HasSubject reports whether the subject is in the catalog.
func (c *Catalog) HasSubject(subject string) bool {
	_, ok := c.grades[subject]
	return ok
}

// Valid reports whether grade is a registered grade for subject.
func (c *Catalog) Valid(subject, grade string) bool {
	for _, g := range c.grades[subject] {
		if g == grade {
			return true
		}
	}
	return false
}

// Grades returns the ordered grades for a subject, or nil if unknown.
func (c *Catalog) Grades(subject string) []string {
	return c.grades[subject]
}

// AllGrades returns the union of every subject's grades, sorted numerically.
func (c *Catalog) AllGrades() []string {
	seen := map[string]bool{}
	var all []string
	for _, s := range c.subjects {
		for _, g := range s.Grades {
			if !seen[g] {
				seen[g] = true
				all = append(all, g)
			}
		}
	}
	sort.Slice(all, func(i, j int) bool {
		a, _ := strconv.Atoi(all[i])
		b, _ := strconv.Atoi(all[j])
		return a < b
	})
	return all
}
