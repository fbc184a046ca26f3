package timetable

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Weekday numbers days the way the timetable does, Monday is 1 and Sunday is 7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayLetters = map[rune]Weekday{
	'M': Monday,
	'T': Tuesday,
	'W': Wednesday,
	'R': Thursday,
	'F': Friday,
	'S': Saturday,
	'U': Sunday,
}

var weekdayNames = [...]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Clock is a time of day without a date.
type Clock struct {
	Hour   int
	Minute int
}

// String formats the clock as 24-hour HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(text []byte) error {
	var hour, minute int
	_, err := fmt.Sscanf(string(text), "%d:%d", &hour, &minute)
	if err != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("%w: %q", ErrMalformedTime, string(text))
	}
	c.Hour = hour
	c.Minute = minute
	return nil
}

type MeetingTime struct {
	Day   Weekday `json:"day"`
	Start Clock   `json:"start_time"`
	End   Clock   `json:"end_time"`
	// Location is empty unless it overrides the section's location.
	Location string `json:"location,omitempty"`
}

// ArrangedMarker is how an arranged schedule is rendered.
const ArrangedMarker = "ARR"

// Schedule is either arranged (no fixed meeting times) or an ordered list of
// meeting times, never both. The zero value is arranged.
type Schedule struct {
	Times []MeetingTime
}

// Arranged returns the arranged schedule.
func Arranged() Schedule {
	return Schedule{}
}

// Timed returns a schedule with the given times, it is arranged when no
// times are given.
func Timed(times ...MeetingTime) Schedule {
	if len(times) == 0 {
		return Arranged()
	}
	return Schedule{Times: times}
}

func (s Schedule) IsArranged() bool {
	return len(s.Times) == 0
}

func (s Schedule) String() string {
	if s.IsArranged() {
		return ArrangedMarker
	}
	parts := make([]string, len(s.Times))
	for i, t := range s.Times {
		parts[i] = fmt.Sprintf("%s %s-%s", t.Day, t.Start, t.End)
	}
	return strings.Join(parts, ", ")
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	if s.IsArranged() {
		return json.Marshal(ArrangedMarker)
	}
	return json.Marshal(s.Times)
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Arranged()
		return nil
	}
	var marker string
	if json.Unmarshal(data, &marker) == nil {
		if marker != ArrangedMarker {
			return fmt.Errorf("unknown schedule marker %q", marker)
		}
		*s = Arranged()
		return nil
	}
	var times []MeetingTime
	err := json.Unmarshal(data, &times)
	if err != nil {
		return err
	}
	*s = Timed(times...)
	return nil
}

type SectionType string

const (
	SectionLecture            SectionType = "lecture"
	SectionLab                SectionType = "lab"
	SectionResearch           SectionType = "research"
	SectionIndependentStudy   SectionType = "independent_study"
	SectionOnlineSynchronous  SectionType = "online_synchronous"
	SectionOnlineAsynchronous SectionType = "online_asynchronous"
	SectionOther              SectionType = "other"
)

const (
	DefaultInstructor = "Staff"
	DefaultLocation   = "TBA"
)

type Section struct {
	CRN          string      `json:"crn"`
	CourseCode   string      `json:"course_code"`
	Title        string      `json:"title"`
	Type         SectionType `json:"section_type"`
	ScheduleType string      `json:"schedule_type"`
	Modality     string      `json:"modality"`
	CreditHours  int         `json:"credit_hours"`
	Capacity     int         `json:"capacity"`
	Instructor   string      `json:"instructor"`
	Meetings     Schedule    `json:"meeting_times"`
	Location     string      `json:"location"`
	ExamCode     string      `json:"exam_code"`
}

type Course struct {
	Code    string `json:"code"`
	Subject string `json:"subject"`
	Number  string `json:"number"`
	Title   string `json:"title"`
	// Sections are kept in page order.
	Sections []Section `json:"sections"`
}

// CourseMap groups the courses of one subject by course code.
type CourseMap map[string]*Course

// SubjectMap maps subject codes to their courses.
type SubjectMap map[string]CourseMap

type Subject struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SubjectCodes returns the codes of the given subjects in order.
func SubjectCodes(subjects []Subject) []string {
	codes := make([]string, len(subjects))
	for i, s := range subjects {
		codes[i] = s.Code
	}
	return codes
}

// SplitCourseCode splits "CS-2114" into its subject and number.
func SplitCourseCode(code string) (subject, number string) {
	subject, number, found := strings.Cut(code, "-")
	if !found {
		return "", code
	}
	return subject, number
}

// Snapshot is the serialized result of a scrape run.
type Snapshot struct {
	Term      string     `json:"term"`
	ScrapedAt time.Time  `json:"scraped_at"`
	Subjects  SubjectMap `json:"subjects"`
}
