package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
	"timetable-backend/internal/timetable"

	"github.com/stretchr/testify/require"
)

func testSnapshot() timetable.Snapshot {
	section := timetable.Section{
		CRN:         "83488",
		CourseCode:  "CS-2114",
		Title:       "Softw Des & Data Structures",
		Type:        timetable.SectionLecture,
		CreditHours: 3,
		Capacity:    35,
		Instructor:  timetable.DefaultInstructor,
		Meetings: timetable.Timed(timetable.MeetingTime{
			Day:   timetable.Tuesday,
			Start: timetable.Clock{Hour: 9, Minute: 30},
			End:   timetable.Clock{Hour: 10, Minute: 20},
		}),
		Location: "GOODW 190",
	}
	return timetable.Snapshot{
		Term:      "202509",
		ScrapedAt: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
		Subjects: timetable.SubjectMap{
			"CS": {
				"CS-2114": {Code: "CS-2114", Subject: "CS", Number: "2114", Sections: []timetable.Section{section}},
			},
		},
	}
}

func TestNewOutputRejectsUnknownFormat(t *testing.T) {
	_, err := newOutput(&bytes.Buffer{}, "yaml")
	require.Error(t, err)
}

func TestSnapshotTable(t *testing.T) {
	var buf bytes.Buffer
	out, err := newOutput(&buf, formatTable)
	require.NoError(t, err)
	require.NoError(t, out.snapshot(testSnapshot()))

	rendered := buf.String()
	for _, expected := range []string{"CRN", "83488", "CS-2114", "GOODW 190", "09:30-10:20"} {
		require.True(t, strings.Contains(rendered, expected), expected)
	}
}

func TestSnapshotJson(t *testing.T) {
	var buf bytes.Buffer
	out, err := newOutput(&buf, formatJson)
	require.NoError(t, err)
	require.NoError(t, out.snapshot(testSnapshot()))

	var decoded timetable.Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "202509", decoded.Term)
	section := decoded.Subjects["CS"]["CS-2114"].Sections[0]
	require.Equal(t, "83488", section.CRN)
	require.Len(t, section.Meetings.Times, 1)
}

func TestCrossListingsTable(t *testing.T) {
	var buf bytes.Buffer
	out, err := newOutput(&buf, formatTable)
	require.NoError(t, err)
	require.NoError(t, out.crossListings(map[string][]string{
		"83488": {"CMDA", "CS"},
		"10001": {"MATH", "STAT"},
	}))

	rendered := buf.String()
	require.True(t, strings.Contains(rendered, "CMDA, CS"))
	require.Less(t, strings.Index(rendered, "10001"), strings.Index(rendered, "83488"))
}

func TestSubjectsJson(t *testing.T) {
	var buf bytes.Buffer
	out, err := newOutput(&buf, formatJson)
	require.NoError(t, err)
	require.NoError(t, out.subjects([]timetable.Subject{{Code: "CS", Name: "Computer Science"}}))
	require.JSONEq(t, `[{"code":"CS","name":"Computer Science"}]`, buf.String())
}
