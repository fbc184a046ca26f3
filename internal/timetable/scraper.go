package timetable

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"timetable-backend/internal/assert"
	"timetable-backend/internal/components/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_scraper_list_subjects       = "scraper.list-subjects"
	report_scraper_scrape_subject      = "scraper.scrape-subject"
	report_scraper_sections_for_course = "scraper.sections-for-course"
)

var tracer = otel.Tracer("timetable-backend/internal/timetable")

var (
	ErrInvalidCourseCode = errors.New("course code must look like CS-2114")
	ErrInvalidQuery      = errors.New("invalid query")
)

var courseCodeRegex = regexp.MustCompile(`^[A-Za-z]+-\d{4}$`)

// Query scopes one results page fetch.
type Query struct {
	Term    string
	Subject string
	// CourseNumber and CRN narrow the results further when set.
	CourseNumber string
	CRN          string
	OpenOnly     bool
}

// PageFetcher retrieves the raw markup of a results page.
//
// note: fault injection point
type PageFetcher interface {
	FetchPage(ctx context.Context, query Query) (string, error)
}

type ScraperOptions struct {
	// Dialect defaults to DefaultDialect() when it has no shapes.
	Dialect Dialect
	// Concurrency is the number of subjects fetched at once, values below 2
	// scrape sequentially.
	Concurrency int
}

// Scraper drives the fetcher and the parsing pipeline over a term. It owns
// the fetcher and releases it on Close.
type Scraper struct {
	fetcher     PageFetcher
	dialect     Dialect
	concurrency int
	tel         telemetry.API

	mutex    sync.Mutex
	subjects map[string][]Subject

	closeOnce sync.Once
	closeErr  error
}

func NewScraper(fetcher PageFetcher, opts ScraperOptions, tel telemetry.API) (*Scraper, error) {
	assert.NotNil(fetcher)
	assert.NotNil(tel)

	dialect := opts.Dialect
	if len(dialect.Shapes) == 0 {
		dialect = DefaultDialect()
	}
	err := dialect.Validate()
	if err != nil {
		return nil, err
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Scraper{
		fetcher:     fetcher,
		dialect:     dialect,
		concurrency: concurrency,
		tel:         telemetry.NewScopedAPI("timetable", tel),
		subjects:    map[string][]Subject{},
	}, nil
}

// Close releases the fetcher if it holds resources, calling it more than
// once is a no-op.
func (s *Scraper) Close() error {
	s.closeOnce.Do(func() {
		closer, ok := s.fetcher.(io.Closer)
		if !ok {
			return
		}
		s.closeErr = closer.Close()
	})
	return s.closeErr
}

// ListSubjects returns the subjects of a term. The first non-empty result is
// cached for the lifetime of the scraper. Failures are reported and yield nil.
func (s *Scraper) ListSubjects(ctx context.Context, term string) []Subject {
	s.mutex.Lock()
	cached, ok := s.subjects[term]
	s.mutex.Unlock()
	if ok {
		return cached
	}

	markup, err := s.fetcher.FetchPage(ctx, Query{Term: term, Subject: AllSubjects})
	if err != nil {
		s.tel.ReportBroken(report_scraper_list_subjects, fmt.Errorf("fetch: %w", err), term)
		return nil
	}
	doc, err := parseDocument(markup)
	if err != nil {
		s.tel.ReportBroken(report_scraper_list_subjects, fmt.Errorf("parse html: %w", err), term)
		return nil
	}

	subjects := ExtractSubjects(s.tel, doc, term)
	if len(subjects) == 0 {
		return nil
	}
	s.tel.ReportCount("subjects", int64(len(subjects)))

	s.mutex.Lock()
	s.subjects[term] = subjects
	s.mutex.Unlock()
	return subjects
}

func (s *Scraper) scrape(ctx context.Context, query Query) (CourseMap, error) {
	ctx, span := tracer.Start(ctx, "ScrapeSubject")
	defer span.End()
	span.SetAttributes(
		attribute.String("term", query.Term),
		attribute.String("subject", query.Subject),
	)

	markup, err := s.fetcher.FetchPage(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, fmt.Errorf("fetch: %w", err)
	}
	doc, err := parseDocument(markup)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, fmt.Errorf("parse html: %w", err)
	}

	courses, err := s.dialect.ParsePage(s.tel, doc)
	if err != nil {
		return nil, err
	}

	sections := 0
	for _, c := range courses {
		sections += len(c.Sections)
	}
	span.SetAttributes(
		attribute.Int("courses", len(courses)),
		attribute.Int("sections", sections),
	)
	return courses, nil
}

// ScrapeSubject returns the courses of one subject, or an empty map when
// the page could not be fetched or has no results table.
func (s *Scraper) ScrapeSubject(ctx context.Context, term, subject string) CourseMap {
	courses, err := s.scrape(ctx, Query{Term: term, Subject: subject})
	if errors.Is(err, ErrNoResultsTable) {
		s.tel.ReportWarning(report_scraper_scrape_subject, err, term, subject)
		return CourseMap{}
	}
	if err != nil {
		s.tel.ReportBroken(report_scraper_scrape_subject, err, term, subject)
		return CourseMap{}
	}
	return courses
}

// ScrapeSubjects scrapes the given subjects, subjects without any courses
// are left out. A failing subject never stops the others.
func (s *Scraper) ScrapeSubjects(ctx context.Context, term string, subjects []string) SubjectMap {
	result := SubjectMap{}
	var mutex sync.Mutex
	var wg sync.WaitGroup
	slots := make(chan struct{}, s.concurrency)

schedule:
	for _, subject := range subjects {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break schedule
		case slots <- struct{}{}:
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-slots }()

			courses := s.ScrapeSubject(ctx, term, subject)
			if len(courses) == 0 {
				return
			}
			mutex.Lock()
			result[subject] = courses
			mutex.Unlock()
		}()
	}
	wg.Wait()

	s.tel.ReportCount("subjects.scraped", int64(len(result)))
	return result
}

// ScrapeAll scrapes every subject of the term.
func (s *Scraper) ScrapeAll(ctx context.Context, term string) SubjectMap {
	subjects := s.ListSubjects(ctx, term)
	if len(subjects) == 0 {
		return SubjectMap{}
	}
	return s.ScrapeSubjects(ctx, term, SubjectCodes(subjects))
}

// FindCourse scrapes the whole term and returns the courses whose code
// contains `partial`, ignoring case.
func (s *Scraper) FindCourse(ctx context.Context, term, partial string) (SubjectMap, error) {
	if strings.TrimSpace(partial) == "" {
		return nil, fmt.Errorf("%w: empty course code", ErrInvalidQuery)
	}
	return MatchCourses(s.ScrapeAll(ctx, term), partial), nil
}

// FindSectionByCRN scrapes the whole term and looks up a section. Malformed
// CRNs are not found without fetching anything.
func (s *Scraper) FindSectionByCRN(ctx context.Context, term, crn string) (SectionMatch, bool) {
	crn = strings.TrimSpace(crn)
	if !isCRN(crn) {
		return SectionMatch{}, false
	}
	return LookupCRN(s.ScrapeAll(ctx, term), crn)
}

// CoursesForSubject returns the sorted course codes of one subject.
func (s *Scraper) CoursesForSubject(ctx context.Context, term, subject string) []string {
	return s.ScrapeSubject(ctx, term, subject).SortedCodes()
}

// SectionsForCourse returns the sections of a single course like "CS-2114".
// Only a malformed course code is an error, fetch failures yield nil.
func (s *Scraper) SectionsForCourse(ctx context.Context, term, code string) ([]Section, error) {
	code = strings.TrimSpace(code)
	if !courseCodeRegex.MatchString(code) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCourseCode, code)
	}
	code = strings.ToUpper(code)
	subject, number := SplitCourseCode(code)

	courses, err := s.scrape(ctx, Query{
		Term:         term,
		Subject:      subject,
		CourseNumber: number,
	})
	if err != nil {
		s.tel.ReportBroken(report_scraper_sections_for_course, err, term, code)
		return nil, nil
	}
	course, ok := courses[code]
	if !ok {
		return nil, nil
	}
	return course.Sections, nil
}
