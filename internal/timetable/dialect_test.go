package timetable

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDefaultDialectIsValid(t *testing.T) {
	require.NoError(t, DefaultDialect().Validate())
}

func TestClassify(t *testing.T) {
	dialect := DefaultDialect()

	testCases := []struct {
		name     string
		row      string
		expected RowKind
	}{
		{name: "regular", row: softwareDesign.regular(), expected: RowScheduled},
		{name: "arranged", row: introProgramming.arranged(), expected: RowArranged},
		{
			name:     "in person continuation",
			row:      inPersonContinuation("F", "12:20PM", "2:50PM", "CLMS 170"),
			expected: RowContinuationInPerson,
		},
		{
			name:     "online continuation",
			row:      onlineContinuation("(ARR)", "----- (ARR) -----", "ONLINE"),
			expected: RowContinuationOnline,
		},
		{
			name:     "ten cells without marker",
			row:      "<tr>" + strings.Repeat("<td>x</td>", 10) + "</tr>",
			expected: RowUnrecognized,
		},
		{
			name:     "comment row",
			row:      `<tr><td colspan="13">Section has prerequisites</td></tr>`,
			expected: RowUnrecognized,
		},
		{name: "empty row", row: "<tr></tr>", expected: RowUnrecognized},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			kind, shape := dialect.Classify(rowCells(t, test.row))
			require.Equal(t, test.expected, kind)
			if kind == RowUnrecognized {
				require.Nil(t, shape)
			} else {
				require.Equal(t, kind, shape.Kind)
			}
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	dialect := DefaultDialect()
	for width := 0; width <= 20; width++ {
		row := "<tr>" + strings.Repeat("<td>1</td>", width) + "</tr>"
		kind, _ := dialect.Classify(rowCells(t, row))

		switch width {
		case 12:
			require.Equal(t, RowArranged, kind)
		case 13:
			require.Equal(t, RowScheduled, kind)
		default:
			require.Equal(t, RowUnrecognized, kind, fmt.Sprintf("width %d", width))
		}
	}
}

func TestShapeValue(t *testing.T) {
	dialect := DefaultDialect()
	cells := rowCells(t, softwareDesign.regular())
	_, shape := dialect.Classify(cells)

	testCases := []struct {
		field    Field
		expected string
		present  bool
	}{
		{field: FieldCRN, expected: "83488", present: true},
		{field: FieldCourse, expected: "CS-2114", present: true},
		{field: FieldTitle, expected: "Softw Des & Data Structures", present: true},
		{field: FieldScheduleType, expected: "L", present: true},
		{field: FieldModality, expected: "Face-to-Face Instruction", present: true},
		{field: FieldInstructor, present: false},
		{field: FieldDays, expected: "T R", present: true},
		{field: FieldExamCode, expected: "CTE", present: true},
	}
	for _, test := range testCases {
		t.Run(string(test.field), func(t *testing.T) {
			value, ok := shape.Value(cells, test.field)
			require.Equal(t, test.present, ok)
			require.Equal(t, test.expected, value)
		})
	}
}

func TestShapeValueMissingSelectors(t *testing.T) {
	row := "<tr>" +
		"<td>83488</td><td>CS-2114</td><td>Softw Des</td><td>L</td><td>Face-to-Face</td>" +
		"<td>3</td><td>35</td><td>N/A</td><td>T R</td><td>9:30AM</td><td>10:20AM</td>" +
		"<td>GOODW 190</td><td>CTE</td></tr>"
	cells := rowCells(t, row)
	_, shape := DefaultDialect().Classify(cells)

	for _, field := range []Field{FieldCRN, FieldCourse, FieldModality, FieldExamCode, FieldInstructor} {
		_, ok := shape.Value(cells, field)
		require.False(t, ok, field)
	}
	title, ok := shape.Value(cells, FieldTitle)
	require.True(t, ok)
	require.Equal(t, "Softw Des", title)
}

func TestDialectValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(d *Dialect)
	}{
		{name: "no shapes", mutate: func(d *Dialect) { d.Shapes = nil }},
		{name: "field out of range", mutate: func(d *Dialect) {
			d.Shapes[2].Fields[FieldExamCode] = CellRef{Index: 12}
		}},
		{name: "missing crn", mutate: func(d *Dialect) {
			delete(d.Shapes[3].Fields, FieldCRN)
		}},
		{name: "continuation without marker", mutate: func(d *Dialect) {
			d.Shapes[0].Marker = nil
		}},
		{name: "marker out of range", mutate: func(d *Dialect) {
			d.Shapes[1].Marker = &Marker{Cell: 10, Text: "x"}
		}},
		{name: "ambiguous widths", mutate: func(d *Dialect) {
			d.Shapes[2].Width = 13
			d.Shapes[2].Fields = d.Shapes[3].Fields
		}},
		{name: "unrecognized kind", mutate: func(d *Dialect) {
			d.Shapes[2].Kind = RowUnrecognized
		}},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			dialect := DefaultDialect()
			test.mutate(&dialect)
			require.ErrorIs(t, dialect.Validate(), ErrInvalidDialect)
		})
	}
}

func TestDialectJSON(t *testing.T) {
	encoded, err := json.Marshal(DefaultDialect())
	require.NoError(t, err)
	require.Contains(t, string(encoded), `"kind":"continuation_in_person"`)

	var decoded Dialect
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	diff := cmp.Diff(DefaultDialect(), decoded)
	if diff != "" {
		t.Fatal(diff)
	}
}
