package weather

import (
	"fmt"
	"strings"
)

// Field is a single label/value line of a report section.
type Field struct {
	Label string
	Value string
}

// Section is a titled group of fields. Field order is kept as added.
type Section struct {
	Title  string
	Fields []Field
}

// NewSection creates an empty section with the given title.
func NewSection(title string) Section {
	return Section{Title: title}
}

// Add appends a field and returns the section for chaining.
func (s *Section) Add(label, value string) *Section {
	s.Fields = append(s.Fields, Field{Label: label, Value: value})
	return s
}

// Report is the provider-agnostic output of a lookup.
type Report struct {
	Title    string
	Sections []Section
}

// NewReport creates a report with no sections.
func NewReport(title string) Report {
	return Report{Title: title}
}

// AddSection appends a section to the report.
func (r *Report) AddSection(s Section) {
	r.Sections = append(r.Sections, s)
}

// String renders the report as shown to the user.
func (r Report) String() string {
	var b strings.Builder
	b.WriteString(r.Title)
	b.WriteByte('\n')
	for _, s := range r.Sections {
		b.WriteString(s.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (s Section) String() string {
	var b strings.Builder
	b.WriteString(s.Title)
	b.WriteByte('\n')
	for _, f := range s.Fields {
		fmt.Fprintf(&b, "%-35s | %-20s\n", f.Label, f.Value)
	}
	return b.String()
}
