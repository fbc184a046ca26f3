package timetable

import (
	"sort"
	"strings"
	"timetable-backend/lib/textutil"
)

type SectionMatch struct {
	Subject string   `json:"subject"`
	Course  *Course  `json:"course"`
	Section *Section `json:"section"`
}

// SortedSubjects returns the subject codes of the map in ascending order.
func (m SubjectMap) SortedSubjects() []string {
	subjects := make([]string, 0, len(m))
	for subject := range m {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	return subjects
}

// SortedCodes returns the course codes of the map in ascending order.
func (m CourseMap) SortedCodes() []string {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// MatchCourses keeps the courses whose code contains `partial`, ignoring
// case. Subjects without a match are left out.
func MatchCourses(subjects SubjectMap, partial string) SubjectMap {
	partial = strings.TrimSpace(partial)
	result := SubjectMap{}
	for subject, courses := range subjects {
		for code, course := range courses {
			if !textutil.ContainsFold(code, partial) {
				continue
			}
			if result[subject] == nil {
				result[subject] = CourseMap{}
			}
			result[subject][code] = course
		}
	}
	return result
}

// LookupCRN finds the section with the given CRN. A CRN cross-listed under
// several subjects resolves to the first subject in ascending order.
func LookupCRN(subjects SubjectMap, crn string) (SectionMatch, bool) {
	crn = strings.TrimSpace(crn)
	if !isCRN(crn) {
		return SectionMatch{}, false
	}
	for _, subject := range subjects.SortedSubjects() {
		courses := subjects[subject]
		for _, code := range courses.SortedCodes() {
			course := courses[code]
			for i := range course.Sections {
				if course.Sections[i].CRN == crn {
					return SectionMatch{
						Subject: subject,
						Course:  course,
						Section: &course.Sections[i],
					}, true
				}
			}
		}
	}
	return SectionMatch{}, false
}

// CrossListings returns the CRNs listed under more than one subject, with
// the sorted subjects each appears under.
func CrossListings(subjects SubjectMap) map[string][]string {
	seen := map[string][]string{}
	for _, subject := range subjects.SortedSubjects() {
		for _, course := range subjects[subject] {
			for _, section := range course.Sections {
				listed := seen[section.CRN]
				if len(listed) > 0 && listed[len(listed)-1] == subject {
					continue
				}
				seen[section.CRN] = append(listed, subject)
			}
		}
	}

	result := map[string][]string{}
	for crn, listed := range seen {
		if len(listed) > 1 {
			result[crn] = listed
		}
	}
	return result
}

// CourseCodes returns every course code of the map, sorted and without
// duplicates.
func (m SubjectMap) CourseCodes() []string {
	unique := map[string]bool{}
	for _, courses := range m {
		for code := range courses {
			unique[code] = true
		}
	}
	codes := make([]string, 0, len(unique))
	for code := range unique {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
