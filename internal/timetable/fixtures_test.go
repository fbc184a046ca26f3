package timetable

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

type sectionRow struct {
	crn, course, title, scheduleType, modality string
	credits, capacity, instructor               string
	days, begin, end, location, exam             string
}

func td(contents string) string {
	return fmt.Sprintf(`<td class="dedefault" style="background-color:WHITE">%s</td>`, contents)
}

func (r sectionRow) cells(arranged bool) []string {
	cells := []string{
		td(fmt.Sprintf(`<p class="centeraligntext"></p><a href="javascript:void(0)"><b style="font-size:12px;">%s</b></a>&#160;`, r.crn)),
		td(fmt.Sprintf(`<font size="1">%s</font>`, r.course)),
		td(r.title),
		td(`<p class="centeraligntext"></p>` + r.scheduleType),
		td(fmt.Sprintf(`<p class="centeraligntext">%s</p>`, r.modality)),
		td(`<p class="centeraligntext"></p>` + r.credits),
		td(r.capacity),
		td(r.instructor),
		td(r.days),
	}
	if arranged {
		cells = append(cells, td(r.begin))
	} else {
		cells = append(cells, td(r.begin), td(r.end))
	}
	cells = append(
		cells,
		td(r.location),
		td(fmt.Sprintf(`<a href="javascript:void(0)">%s</a>`, r.exam)),
	)
	return cells
}

// regular renders the 13 cell scheduled layout.
func (r sectionRow) regular() string {
	return "<tr>" + strings.Join(r.cells(false), "\n") + "</tr>"
}

// arranged renders the 12 cell layout with a single time column.
func (r sectionRow) arranged() string {
	return "<tr>" + strings.Join(r.cells(true), "\n") + "</tr>"
}

const blankCells = `<td>&nbsp;</td><td>&nbsp;</td><td>&nbsp;</td><td>&nbsp;</td>`
const additionalTimes = `<td colspan="4"><b>* Additional Times *</b></td>`

func inPersonContinuation(days, begin, end, location string) string {
	return fmt.Sprintf(
		`<tr>%s%s<td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>&nbsp;</td></tr>`,
		blankCells, additionalTimes, days, begin, end, location,
	)
}

func onlineContinuation(days, time, location string) string {
	return fmt.Sprintf(
		`<tr>%s%s<td>%s</td><td colspan="2">%s</td><td>%s</td><td>&nbsp;</td></tr>`,
		blankCells, additionalTimes, days, time, location,
	)
}

const headerRow = `<tr>
	<td class="deheader">CRN</td><td class="deheader">Course</td><td class="deheader">Title</td>
	<td class="deheader">Schedule Type</td><td class="deheader">Modality</td><td class="deheader">Cr Hrs</td>
	<td class="deheader">Capacity</td><td class="deheader">Instructor</td><td class="deheader">Days</td>
	<td class="deheader">Begin</td><td class="deheader">End</td><td class="deheader">Location</td>
	<td class="deheader">Exam</td>
</tr>`

func resultsPage(rows ...string) string {
	return fmt.Sprintf(
		`<html><body><form><table class="dataentrytable">%s%s</table></form></body></html>`,
		headerRow,
		strings.Join(rows, "\n"),
	)
}

func mustDocument(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := parseDocument(markup)
	require.NoError(t, err)
	return doc
}

// rowCells parses a single row and returns its cells.
func rowCells(t *testing.T, row string) *goquery.Selection {
	t.Helper()
	doc := mustDocument(t, fmt.Sprintf(`<table class="dataentrytable">%s</table>`, row))
	return doc.Find("tr").First().ChildrenFiltered("td")
}

var softwareDesign = sectionRow{
	crn:          "83488",
	course:       "CS-2114",
	title:        "Softw Des &amp; Data Structures",
	scheduleType: "L",
	modality:     "Face-to-Face Instruction",
	credits:      "3",
	capacity:     "35",
	instructor:   "N/A",
	days:         "T R",
	begin:        "9:30AM",
	end:          "10:20AM",
	location:     "GOODW 190",
	exam:         "CTE",
}

var introProgramming = sectionRow{
	crn:          "12345",
	course:       "CS-1064",
	title:        "Intro to Programming",
	scheduleType: "L",
	modality:     "Online: Asynchronous",
	credits:      "3",
	capacity:     "100",
	instructor:   "John Doe",
	days:         "(ARR)",
	begin:        "-----",
	location:     "ONLINE",
	exam:         "CTE",
}

const subjectScript = `<script type="text/javascript">
function setSubjects(term) {
  switch (term) {
    case "202501" :
      document.ttform.subj_code.options[0]=new Option("All Subjects","%",false, false);
      document.ttform.subj_code.options[1]=new Option("MATH - Mathematics","MATH",false, false);
      break;
    case "202509" :
      document.ttform.subj_code.options[0]=new Option("All Subjects","%",false, false);
      document.ttform.subj_code.options[1]=new Option("ACIS - Accounting and Information Systems","ACIS",false, false);
      document.ttform.subj_code.options[2]=new Option("CS - Computer Science","CS",false, true);
      document.ttform.subj_code.options[3]=new Option("Bad Entry","cs-1",false, false);
      document.ttform.subj_code.options[4]=new Option("CS - Computer Science","CS",false, false);
      document.ttform.subj_code.options[5]=new Option("STAT - Statistics","STAT",false, false);
      break;
  }
}
</script>`

func subjectsPage() string {
	return fmt.Sprintf(
		`<html><head>%s</head><body><form name="ttform"><select name="subj_code"></select></form></body></html>`,
		subjectScript,
	)
}
