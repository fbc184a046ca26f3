package timetable

import (
	"fmt"
	"regexp"
	"strings"
	"timetable-backend/internal/components/telemetry"
	"timetable-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const report_subjects_extract = "subjects.extract"

// AllSubjects is the subject filter that requests every subject.
const AllSubjects = "%"

var (
	optionRegex      = regexp.MustCompile(`new Option\(\s*"([^"]*)"\s*,\s*"([^"]*)"`)
	subjectCodeRegex = regexp.MustCompile(`^[A-Z0-9]+$`)
)

func termBlockRegex(term string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(
		`(?s)case\s+["']?%s["']?\s*:(.*?)break\s*;?`,
		regexp.QuoteMeta(term),
	))
}

// subjectName turns the option label "CS - Computer Science" into
// "Computer Science".
func subjectName(label, code string) string {
	prefix, name, found := strings.Cut(label, " - ")
	if !found || strings.TrimSpace(prefix) != code {
		return strings.TrimSpace(label)
	}
	return strings.TrimSpace(name)
}

// ExtractSubjects finds the subject dropdown script of the given term and
// returns its subjects in order, without the leading "all subjects" entry.
// It returns nil when the page has no block for the term.
func ExtractSubjects(tel telemetry.API, doc *goquery.Document, term string) []Subject {
	blockRegex := termBlockRegex(term)

	var block string
	doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		text := htmlutil.GetText(script.Get(0))
		match := blockRegex.FindStringSubmatch(text)
		if match == nil {
			return true
		}
		block = match[1]
		return false
	})
	if block == "" {
		tel.ReportWarning(
			report_subjects_extract,
			fmt.Errorf("no subject block for term %q", term),
		)
		return nil
	}

	var subjects []Subject
	seen := map[string]bool{}
	first := true
	for _, line := range strings.Split(block, "\n") {
		match := optionRegex.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		if first {
			first = false
			continue
		}

		label, code := match[1], strings.TrimSpace(match[2])
		if !subjectCodeRegex.MatchString(code) {
			tel.ReportWarning(
				report_subjects_extract,
				fmt.Errorf("invalid subject code %q", code),
				strings.TrimSpace(line),
			)
			continue
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		subjects = append(subjects, Subject{
			Code: code,
			Name: subjectName(label, code),
		})
	}
	return subjects
}
