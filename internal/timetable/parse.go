package timetable

import (
	"errors"
	"strings"
	"timetable-backend/internal/components/telemetry"

	"github.com/PuerkitoBio/goquery"
)

var ErrNoResultsTable = errors.New("no results table")

const resultsTableSelector = "table.dataentrytable"

func parseDocument(markup string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(markup))
}

// Records returns the extracted rows of the results table, the header row
// is skipped.
func (d Dialect) Records(tel telemetry.API, doc *goquery.Document) ([]Record, error) {
	table := doc.Find(resultsTableSelector).First()
	if table.Length() == 0 {
		return nil, ErrNoResultsTable
	}

	rows := table.Find("tr")
	if rows.Length() <= 1 {
		return nil, nil
	}

	records := make([]Record, 0, rows.Length()-1)
	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		records = append(records, d.Extract(tel, row.ChildrenFiltered("td")))
	})
	return records, nil
}

// ParsePage turns one subject's results page into its courses.
func (d Dialect) ParsePage(tel telemetry.API, doc *goquery.Document) (CourseMap, error) {
	records, err := d.Records(tel, doc)
	if err != nil {
		return nil, err
	}
	return Aggregate(tel, records), nil
}
