package timetable

import (
	"errors"
	"fmt"
	"strings"
	"timetable-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// RowKind is the classification of one results table row.
type RowKind int

const (
	RowUnrecognized RowKind = iota
	RowScheduled
	RowArranged
	RowContinuationOnline
	RowContinuationInPerson
)

var rowKindNames = map[RowKind]string{
	RowUnrecognized:         "unrecognized",
	RowScheduled:            "scheduled",
	RowArranged:             "arranged",
	RowContinuationOnline:   "continuation_online",
	RowContinuationInPerson: "continuation_in_person",
}

func (k RowKind) String() string {
	name, ok := rowKindNames[k]
	if !ok {
		return fmt.Sprintf("RowKind(%d)", int(k))
	}
	return name
}

func (k RowKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *RowKind) UnmarshalText(text []byte) error {
	for kind, name := range rowKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown row kind %q", string(text))
}

// IsNewSection is true for rows that start a new section.
func (k RowKind) IsNewSection() bool {
	return k == RowScheduled || k == RowArranged
}

// IsContinuation is true for "additional times" rows.
func (k RowKind) IsContinuation() bool {
	return k == RowContinuationOnline || k == RowContinuationInPerson
}

type Field string

const (
	FieldCRN          Field = "crn"
	FieldCourse       Field = "course"
	FieldTitle        Field = "title"
	FieldScheduleType Field = "schedule_type"
	FieldModality     Field = "modality"
	FieldCreditHours  Field = "credit_hours"
	FieldCapacity     Field = "capacity"
	FieldInstructor   Field = "instructor"
	FieldDays         Field = "days"
	FieldBeginTime    Field = "begin_time"
	FieldEndTime      Field = "end_time"
	FieldLocation     Field = "location"
	FieldExamCode     Field = "exam_code"
)

// CellRef locates a field: the cell at Index, narrowed to the first element
// matching Selector when one is given.
type CellRef struct {
	Index    int    `json:"cell"`
	Selector string `json:"selector,omitempty"`
}

// Marker identifies continuation rows by the text of one cell.
type Marker struct {
	Cell     int    `json:"cell"`
	Selector string `json:"selector,omitempty"`
	Text     string `json:"text"`
}

// Shape describes one row layout of a dialect.
type Shape struct {
	Kind   RowKind           `json:"kind"`
	Width  int               `json:"width"`
	Marker *Marker           `json:"marker,omitempty"`
	Fields map[Field]CellRef `json:"fields"`
}

// Dialect is the set of row layouts used by one version of the results page.
type Dialect struct {
	Name   string  `json:"name"`
	Shapes []Shape `json:"shapes"`
}

const additionalTimesMarker = "Additional Times"

// DefaultDialect is the layout of the timetable results page as of 2025.
func DefaultDialect() Dialect {
	marker := &Marker{Cell: 4, Selector: "b", Text: additionalTimesMarker}
	return Dialect{
		Name: "vt-2025",
		Shapes: []Shape{
			{
				Kind:   RowContinuationOnline,
				Width:  9,
				Marker: marker,
				Fields: map[Field]CellRef{
					FieldDays:      {Index: 5},
					FieldBeginTime: {Index: 6},
					FieldLocation:  {Index: 7},
				},
			},
			{
				Kind:   RowContinuationInPerson,
				Width:  10,
				Marker: marker,
				Fields: map[Field]CellRef{
					FieldDays:      {Index: 5},
					FieldBeginTime: {Index: 6},
					FieldEndTime:   {Index: 7},
					FieldLocation:  {Index: 8},
				},
			},
			{
				Kind:  RowArranged,
				Width: 12,
				Fields: map[Field]CellRef{
					FieldCRN:          {Index: 0, Selector: "b"},
					FieldCourse:       {Index: 1, Selector: "font"},
					FieldTitle:        {Index: 2},
					FieldScheduleType: {Index: 3},
					FieldModality:     {Index: 4, Selector: "p"},
					FieldCreditHours:  {Index: 5},
					FieldCapacity:     {Index: 6},
					FieldInstructor:   {Index: 7},
					FieldDays:         {Index: 8},
					FieldBeginTime:    {Index: 9},
					FieldLocation:     {Index: 10},
					FieldExamCode:     {Index: 11, Selector: "a"},
				},
			},
			{
				Kind:  RowScheduled,
				Width: 13,
				Fields: map[Field]CellRef{
					FieldCRN:          {Index: 0, Selector: "b"},
					FieldCourse:       {Index: 1, Selector: "font"},
					FieldTitle:        {Index: 2},
					FieldScheduleType: {Index: 3},
					FieldModality:     {Index: 4, Selector: "p"},
					FieldCreditHours:  {Index: 5},
					FieldCapacity:     {Index: 6},
					FieldInstructor:   {Index: 7},
					FieldDays:         {Index: 8},
					FieldBeginTime:    {Index: 9},
					FieldEndTime:      {Index: 10},
					FieldLocation:     {Index: 11},
					FieldExamCode:     {Index: 12, Selector: "a"},
				},
			},
		},
	}
}

var ErrInvalidDialect = errors.New("invalid dialect")

var requiredFields = map[RowKind][]Field{
	RowScheduled:            {FieldCRN, FieldCourse, FieldDays, FieldBeginTime},
	RowArranged:             {FieldCRN, FieldCourse, FieldDays, FieldBeginTime},
	RowContinuationOnline:   {FieldDays, FieldBeginTime},
	RowContinuationInPerson: {FieldDays, FieldBeginTime},
}

// Validate checks that every shape is classifiable and that every cell
// reference is in range.
func (d Dialect) Validate() error {
	if len(d.Shapes) == 0 {
		return fmt.Errorf("%w %q: no shapes", ErrInvalidDialect, d.Name)
	}

	unmarkedWidths := map[int]RowKind{}
	for i, shape := range d.Shapes {
		prefix := fmt.Sprintf("%q shape %d (%s)", d.Name, i, shape.Kind)

		required, ok := requiredFields[shape.Kind]
		if !ok {
			return fmt.Errorf("%w %s: kind cannot be matched", ErrInvalidDialect, prefix)
		}
		if shape.Width <= 0 {
			return fmt.Errorf("%w %s: width must be positive", ErrInvalidDialect, prefix)
		}

		if shape.Kind.IsContinuation() {
			if shape.Marker == nil || shape.Marker.Text == "" {
				return fmt.Errorf("%w %s: continuation shapes need a marker", ErrInvalidDialect, prefix)
			}
		}
		if shape.Marker != nil {
			if shape.Marker.Cell < 0 || shape.Marker.Cell >= shape.Width {
				return fmt.Errorf("%w %s: marker cell %d out of range", ErrInvalidDialect, prefix, shape.Marker.Cell)
			}
		} else {
			previous, taken := unmarkedWidths[shape.Width]
			if taken {
				return fmt.Errorf(
					"%w %s: width %d is already used by %s",
					ErrInvalidDialect, prefix, shape.Width, previous,
				)
			}
			unmarkedWidths[shape.Width] = shape.Kind
		}

		for _, field := range required {
			if _, ok := shape.Fields[field]; !ok {
				return fmt.Errorf("%w %s: missing field %s", ErrInvalidDialect, prefix, field)
			}
		}
		for field, ref := range shape.Fields {
			if ref.Index < 0 || ref.Index >= shape.Width {
				return fmt.Errorf("%w %s: field %s cell %d out of range", ErrInvalidDialect, prefix, field, ref.Index)
			}
		}
	}
	return nil
}

func (m Marker) matches(cells *goquery.Selection) bool {
	cell := cells.Eq(m.Cell)
	if m.Selector != "" {
		cell = cell.Find(m.Selector)
	}
	return strings.Contains(
		strings.ToLower(htmlutil.SelectionText(cell)),
		strings.ToLower(m.Text),
	)
}

// Classify returns the kind of the row made of `cells` and the shape it
// matched. Marked shapes are tried before unmarked ones, so a continuation
// row is never confused with a section row of the same width. Rows that
// match nothing are RowUnrecognized with a nil shape.
func (d Dialect) Classify(cells *goquery.Selection) (RowKind, *Shape) {
	width := cells.Length()
	for i := range d.Shapes {
		shape := &d.Shapes[i]
		if shape.Marker == nil || shape.Width != width {
			continue
		}
		if shape.Marker.matches(cells) {
			return shape.Kind, shape
		}
	}
	for i := range d.Shapes {
		shape := &d.Shapes[i]
		if shape.Marker != nil || shape.Width != width {
			continue
		}
		return shape.Kind, shape
	}
	return RowUnrecognized, nil
}

// Value extracts a field from the row. The second return value is false
// when the cell or sub-element is missing, or the text is empty or "N/A".
func (s *Shape) Value(cells *goquery.Selection, field Field) (string, bool) {
	ref, ok := s.Fields[field]
	if !ok || ref.Index >= cells.Length() {
		return "", false
	}
	cell := cells.Eq(ref.Index)
	if ref.Selector != "" {
		cell = cell.Find(ref.Selector).First()
	}
	if cell.Length() == 0 {
		return "", false
	}
	text := htmlutil.SelectionText(cell)
	if text == "" || strings.EqualFold(text, "N/A") {
		return "", false
	}
	return text, true
}
