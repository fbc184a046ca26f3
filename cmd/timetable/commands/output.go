package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"timetable-backend/internal/timetable"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	formatTable = "table"
	formatJson  = "json"
)

type output struct {
	w      io.Writer
	format string
}

func newOutput(w io.Writer, format string) (output, error) {
	switch format {
	case formatTable, formatJson:
		return output{w: w, format: format}, nil
	}
	return output{}, fmt.Errorf("unknown format %q, expected %q or %q", format, formatTable, formatJson)
}

func (o output) newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(o.w)
	return t
}

// write renders `value` as indented json, or as a table of `rows`.
func (o output) write(value any, header table.Row, rows []table.Row) error {
	if o.format == formatJson {
		encoder := json.NewEncoder(o.w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	}

	t := o.newTable()
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
	return nil
}

func (o output) subjects(subjects []timetable.Subject) error {
	rows := make([]table.Row, len(subjects))
	for i, s := range subjects {
		rows[i] = table.Row{s.Code, s.Name}
	}
	return o.write(subjects, table.Row{"Code", "Name"}, rows)
}

func (o output) courseCodes(codes []string) error {
	rows := make([]table.Row, len(codes))
	for i, code := range codes {
		rows[i] = table.Row{code}
	}
	return o.write(codes, table.Row{"Course"}, rows)
}

var sectionHeader = table.Row{"Subject", "CRN", "Course", "Title", "Type", "Credits", "Capacity", "Instructor", "Meetings", "Location"}

func sectionRow(subject string, s timetable.Section) table.Row {
	return table.Row{
		subject,
		s.CRN,
		s.CourseCode,
		s.Title,
		string(s.Type),
		strconv.Itoa(s.CreditHours),
		strconv.Itoa(s.Capacity),
		s.Instructor,
		s.Meetings.String(),
		s.Location,
	}
}

// subjectRows flattens every section in subject then course order.
func subjectRows(subjects timetable.SubjectMap) []table.Row {
	rows := []table.Row{}
	for _, subject := range subjects.SortedSubjects() {
		courses := subjects[subject]
		for _, code := range courses.SortedCodes() {
			for _, section := range courses[code].Sections {
				rows = append(rows, sectionRow(subject, section))
			}
		}
	}
	return rows
}

func (o output) subjectMap(subjects timetable.SubjectMap) error {
	return o.write(subjects, sectionHeader, subjectRows(subjects))
}

func (o output) snapshot(snapshot timetable.Snapshot) error {
	return o.write(snapshot, sectionHeader, subjectRows(snapshot.Subjects))
}

func (o output) sections(subject string, sections []timetable.Section) error {
	rows := make([]table.Row, len(sections))
	for i, s := range sections {
		rows[i] = sectionRow(subject, s)
	}
	return o.write(sections, sectionHeader, rows)
}

func (o output) sectionMatch(match timetable.SectionMatch) error {
	return o.write(
		match,
		sectionHeader,
		[]table.Row{sectionRow(match.Subject, *match.Section)},
	)
}

func (o output) crossListings(listings map[string][]string) error {
	crns := make([]string, 0, len(listings))
	for crn := range listings {
		crns = append(crns, crn)
	}
	slices.Sort(crns)

	rows := make([]table.Row, len(crns))
	for i, crn := range crns {
		rows[i] = table.Row{crn, strings.Join(listings[crn], ", ")}
	}
	return o.write(listings, table.Row{"CRN", "Subjects"}, rows)
}
