package timetable

import (
	"fmt"
	"slices"
	"timetable-backend/internal/components/telemetry"
)

const report_aggregate_row = "aggregate.row"

// Cursor points at the most recently created section.
type Cursor struct {
	CourseCode string
	CRN        string
}

// State is the aggregator state threaded through Step. A nil Current means
// no section has been created yet. Courses is updated in place.
type State struct {
	Courses CourseMap
	Current *Cursor
}

func NewState() State {
	return State{Courses: CourseMap{}}
}

// Step applies one record to the state and returns the next state.
func Step(tel telemetry.API, state State, record Record) State {
	switch record.Kind {
	case RowUnrecognized:
		tel.ReportDebug("skipping unrecognized row", record.Err)
		return state
	case RowScheduled, RowArranged:
		if record.Section == nil {
			tel.ReportWarning(
				report_aggregate_row,
				fmt.Errorf("skip %s row: %w", record.Kind, record.Err),
			)
			return state
		}
		return state.add(*record.Section)
	case RowContinuationOnline, RowContinuationInPerson:
		return state.extend(tel, record)
	default:
		panic(fmt.Sprintf("unhandled row kind %s", record.Kind))
	}
}

// Aggregate folds the records of one subject page into courses.
func Aggregate(tel telemetry.API, records []Record) CourseMap {
	state := NewState()
	for _, r := range records {
		state = Step(tel, state, r)
	}
	return state.Courses
}

func (s State) add(section Section) State {
	course, ok := s.Courses[section.CourseCode]
	if !ok {
		subject, number := SplitCourseCode(section.CourseCode)
		course = &Course{
			Code:    section.CourseCode,
			Subject: subject,
			Number:  number,
			Title:   section.Title,
		}
		s.Courses[section.CourseCode] = course
	}
	course.Sections = append(course.Sections, section)
	s.Current = &Cursor{CourseCode: section.CourseCode, CRN: section.CRN}
	return s
}

func (s State) current() *Section {
	if s.Current == nil {
		return nil
	}
	course, ok := s.Courses[s.Current.CourseCode]
	if !ok {
		return nil
	}
	for i := len(course.Sections) - 1; i >= 0; i-- {
		if course.Sections[i].CRN == s.Current.CRN {
			return &course.Sections[i]
		}
	}
	return nil
}

func (s State) extend(tel telemetry.API, record Record) State {
	if record.Err != nil {
		tel.ReportWarning(
			report_aggregate_row,
			fmt.Errorf("drop %s row: %w", record.Kind, record.Err),
		)
		return s
	}

	section := s.current()
	if section == nil {
		tel.ReportWarning(
			report_aggregate_row,
			fmt.Errorf("drop %s row: no current section", record.Kind),
		)
		return s
	}

	incoming := record.Meetings
	if incoming.IsArranged() {
		if !section.Meetings.IsArranged() {
			tel.ReportDebug(
				"dropping arranged continuation for a timed section",
				section.CRN,
			)
		}
		return s
	}

	times := incoming.Times
	if record.Kind == RowContinuationInPerson {
		times = times[len(times)-1:]
	}
	// an arranged schedule has no times, appending replaces the sentinel.
	section.Meetings = Timed(append(slices.Clone(section.Meetings.Times), times...)...)
	return s
}
