package devenv

// BannerTestConfig configures the tests that talk to a live timetable
// endpoint, it is read from dev/.state/banner.json5.
type BannerTestConfig struct {
	Endpoint string `json:"endpoint"`
	Term     string `json:"term"`
	Subject  string `json:"subject"`
	// CourseCode should exist in Subject during Term, like "CS-2114".
	CourseCode string `json:"course_code"`
}
