package timetable

import (
	"testing"
	"timetable-backend/internal/components/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	calculusLab := sectionRow{
		crn:          "90210",
		course:       "CS-2114",
		title:        "Softw Des &amp; Data Structures",
		scheduleType: "B",
		modality:     "Face-to-Face Instruction",
		credits:      "0",
		capacity:     "24",
		instructor:   "A Lovelace",
		days:         "W",
		begin:        "4:00PM",
		end:          "5:15PM",
		location:     "MCB 100",
		exam:         "",
	}

	page := resultsPage(
		softwareDesign.regular(),
		inPersonContinuation("F", "12:20PM", "2:50PM", "CLMS 170"),
		`<tr><td colspan="13">Course has prerequisites</td></tr>`,
		calculusLab.regular(),
		introProgramming.arranged(),
		onlineContinuation("(ARR)", "----- (ARR) -----", "ONLINE"),
	)

	rec := &telemetry.Recorder{}
	courses, err := DefaultDialect().ParsePage(rec, mustDocument(t, page))
	require.NoError(t, err)

	expected := CourseMap{
		"CS-2114": {
			Code:    "CS-2114",
			Subject: "CS",
			Number:  "2114",
			Title:   "Softw Des & Data Structures",
			Sections: []Section{
				{
					CRN:          "83488",
					CourseCode:   "CS-2114",
					Title:        "Softw Des & Data Structures",
					Type:         SectionLecture,
					ScheduleType: "L",
					Modality:     "Face-to-Face Instruction",
					CreditHours:  3,
					Capacity:     35,
					Instructor:   DefaultInstructor,
					Meetings: Timed(
						MeetingTime{Day: Tuesday, Start: Clock{9, 30}, End: Clock{10, 20}},
						MeetingTime{Day: Thursday, Start: Clock{9, 30}, End: Clock{10, 20}},
						MeetingTime{Day: Friday, Start: Clock{12, 20}, End: Clock{14, 50}, Location: "CLMS 170"},
					),
					Location: "GOODW 190",
					ExamCode: "CTE",
				},
				{
					CRN:          "90210",
					CourseCode:   "CS-2114",
					Title:        "Softw Des & Data Structures",
					Type:         SectionLab,
					ScheduleType: "B",
					Modality:     "Face-to-Face Instruction",
					CreditHours:  0,
					Capacity:     24,
					Instructor:   "A Lovelace",
					Meetings: Timed(
						MeetingTime{Day: Wednesday, Start: Clock{16, 0}, End: Clock{17, 15}},
					),
					Location: "MCB 100",
				},
			},
		},
		"CS-1064": {
			Code:    "CS-1064",
			Subject: "CS",
			Number:  "1064",
			Title:   "Intro to Programming",
			Sections: []Section{
				{
					CRN:          "12345",
					CourseCode:   "CS-1064",
					Title:        "Intro to Programming",
					Type:         SectionOnlineAsynchronous,
					ScheduleType: "L",
					Modality:     "Online: Asynchronous",
					CreditHours:  3,
					Capacity:     100,
					Instructor:   "John Doe",
					Meetings:     Arranged(),
					Location:     "ONLINE",
					ExamCode:     "CTE",
				},
			},
		},
	}

	diff := cmp.Diff(expected, courses)
	if diff != "" {
		t.Fatal(diff)
	}
	require.Empty(t, rec.Reports(telemetry.ReportKindBroken))
}

func TestParsePageWithoutTable(t *testing.T) {
	_, err := DefaultDialect().ParsePage(&telemetry.Recorder{}, mustDocument(t, "<html><body>No classes found</body></html>"))
	require.ErrorIs(t, err, ErrNoResultsTable)
}

func TestParsePageHeaderOnly(t *testing.T) {
	courses, err := DefaultDialect().ParsePage(&telemetry.Recorder{}, mustDocument(t, resultsPage()))
	require.NoError(t, err)
	require.Empty(t, courses)
}

func TestParsePageSingleRow(t *testing.T) {
	courses, err := DefaultDialect().ParsePage(&telemetry.Recorder{}, mustDocument(t, resultsPage(softwareDesign.regular())))
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Len(t, courses["CS-2114"].Sections, 1)
}
