package timetable

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"timetable-backend/internal/components/telemetry"

	"github.com/PuerkitoBio/goquery"
)

const report_extract_section = "extract.section"

var (
	ErrUnrecognizedRow = errors.New("unrecognized row")
	ErrInvalidCRN      = errors.New("crn is not a non-negative integer")
	ErrMissingCourse   = errors.New("missing course code")
)

// Record is a classified row with its fields extracted, it is the input of
// the aggregator. Section is set for new-section rows that extracted
// cleanly, Meetings for continuation rows. Err explains why a row
// contributes nothing.
type Record struct {
	Kind     RowKind
	Section  *Section
	Meetings Schedule
	Err      error
}

// Extract classifies the row and pulls out its fields.
func (d Dialect) Extract(tel telemetry.API, cells *goquery.Selection) Record {
	kind, shape := d.Classify(cells)
	switch kind {
	case RowScheduled, RowArranged:
		section, err := shape.section(tel, cells)
		if err != nil {
			return Record{Kind: kind, Err: err}
		}
		return Record{Kind: kind, Section: &section}
	case RowContinuationOnline, RowContinuationInPerson:
		meetings, err := shape.continuation(tel, cells)
		return Record{Kind: kind, Meetings: meetings, Err: err}
	case RowUnrecognized:
		return Record{
			Kind: kind,
			Err:  fmt.Errorf("%w: %d cells", ErrUnrecognizedRow, cells.Length()),
		}
	default:
		panic(fmt.Sprintf("unhandled row kind %s", kind))
	}
}

var leadingInt = regexp.MustCompile(`^\d+`)

// parseLeadingInt reads the integer at the start of the text, "3 TO 4" is 3.
// Anything without a leading integer is 0.
func parseLeadingInt(text string) int {
	digits := leadingInt.FindString(strings.TrimSpace(text))
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

func isCRN(text string) bool {
	if text == "" {
		return false
	}
	for _, c := range text {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func classifySection(code, modality string, meetings Schedule) SectionType {
	code = strings.ToUpper(strings.TrimSpace(code))
	switch code {
	case "B":
		return SectionLab
	case "R":
		return SectionResearch
	case "I":
		return SectionIndependentStudy
	}

	mode := strings.ToLower(modality)
	if strings.HasPrefix(mode, "online") {
		switch {
		case strings.Contains(mode, "asynchronous"):
			return SectionOnlineAsynchronous
		case strings.Contains(mode, "synchronous"):
			return SectionOnlineSynchronous
		case meetings.IsArranged():
			return SectionOnlineAsynchronous
		default:
			return SectionOnlineSynchronous
		}
	}
	if code == "L" {
		return SectionLecture
	}
	return SectionOther
}

func (s *Shape) section(tel telemetry.API, cells *goquery.Selection) (Section, error) {
	value := func(f Field) string {
		v, _ := s.Value(cells, f)
		return v
	}

	crn := value(FieldCRN)
	if !isCRN(crn) {
		return Section{}, fmt.Errorf("%w: %q", ErrInvalidCRN, crn)
	}
	course := strings.ToUpper(value(FieldCourse))
	if course == "" {
		return Section{}, fmt.Errorf("%w: crn %s", ErrMissingCourse, crn)
	}

	meetings, err := ResolveMeetings(
		tel,
		value(FieldDays),
		value(FieldBeginTime),
		value(FieldEndTime),
	)
	if err != nil {
		tel.ReportWarning(
			report_extract_section,
			fmt.Errorf("resolve meetings, falling back to arranged: %w", err),
			crn,
		)
		meetings = Arranged()
	}

	instructor := value(FieldInstructor)
	if instructor == "" {
		instructor = DefaultInstructor
	}
	location := value(FieldLocation)
	if location == "" {
		location = DefaultLocation
	}
	scheduleType := value(FieldScheduleType)
	modality := value(FieldModality)

	return Section{
		CRN:          crn,
		CourseCode:   course,
		Title:        value(FieldTitle),
		Type:         classifySection(scheduleType, modality, meetings),
		ScheduleType: scheduleType,
		Modality:     modality,
		CreditHours:  parseLeadingInt(value(FieldCreditHours)),
		Capacity:     parseLeadingInt(value(FieldCapacity)),
		Instructor:   instructor,
		Meetings:     meetings,
		Location:     location,
		ExamCode:     value(FieldExamCode),
	}, nil
}

func (s *Shape) continuation(tel telemetry.API, cells *goquery.Selection) (Schedule, error) {
	days, _ := s.Value(cells, FieldDays)
	begin, _ := s.Value(cells, FieldBeginTime)
	end, _ := s.Value(cells, FieldEndTime)

	meetings, err := ResolveMeetings(tel, days, begin, end)
	if err != nil {
		return Arranged(), fmt.Errorf("resolve continuation: %w", err)
	}

	location, ok := s.Value(cells, FieldLocation)
	if ok {
		for i := range meetings.Times {
			meetings.Times[i].Location = location
		}
	}
	return meetings, nil
}
