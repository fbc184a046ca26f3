package timetable

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"timetable-backend/internal/components/telemetry"
)

const report_meeting_resolve = "meeting.resolve"

var ErrMalformedTime = errors.New("malformed time")

// IsArrangedMarker reports whether raw day or time text means "no fixed
// schedule": empty text, anything mentioning ARR or TBA, or text made only
// of dashes.
func IsArrangedMarker(raw string) bool {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return true
	}
	if strings.Contains(raw, "ARR") || strings.Contains(raw, "TBA") {
		return true
	}
	return strings.Trim(raw, "-–— ") == ""
}

// ParseClock parses a 12-hour time like "9:30AM" or "12:20 PM".
func ParseClock(raw string) (Clock, error) {
	text := strings.ToUpper(strings.TrimSpace(raw))
	if len(text) < 3 {
		return Clock{}, fmt.Errorf("%w: %q", ErrMalformedTime, raw)
	}

	meridiem := text[len(text)-2:]
	if meridiem != "AM" && meridiem != "PM" {
		return Clock{}, fmt.Errorf("%w: %q has no AM/PM suffix", ErrMalformedTime, raw)
	}

	hourText, minuteText, found := strings.Cut(strings.TrimSpace(text[:len(text)-2]), ":")
	if !found || len(minuteText) != 2 {
		return Clock{}, fmt.Errorf("%w: %q is not H:MM", ErrMalformedTime, raw)
	}
	hour, err := strconv.Atoi(hourText)
	if err != nil || hour < 1 || hour > 12 {
		return Clock{}, fmt.Errorf("%w: %q has an invalid hour", ErrMalformedTime, raw)
	}
	minute, err := strconv.Atoi(minuteText)
	if err != nil || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("%w: %q has an invalid minute", ErrMalformedTime, raw)
	}

	switch {
	case meridiem == "AM" && hour == 12:
		hour = 0
	case meridiem == "PM" && hour != 12:
		hour += 12
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// ResolveMeetings turns raw day letters ("T R") and 12-hour times into one
// MeetingTime per recognized day. `end` defaults to `start` when empty.
//
// Any arranged marker in the days or times yields the arranged schedule.
// Unknown day letters are dropped with a warning. A malformed time is
// returned as an error wrapping ErrMalformedTime and the caller decides
// what to do with the row.
func ResolveMeetings(tel telemetry.API, days, start, end string) (Schedule, error) {
	if IsArrangedMarker(days) {
		return Arranged(), nil
	}
	if strings.TrimSpace(end) == "" {
		end = start
	}
	if IsArrangedMarker(start) || IsArrangedMarker(end) {
		return Arranged(), nil
	}

	startClock, err := ParseClock(start)
	if err != nil {
		return Arranged(), fmt.Errorf("start time: %w", err)
	}
	endClock, err := ParseClock(end)
	if err != nil {
		return Arranged(), fmt.Errorf("end time: %w", err)
	}

	var times []MeetingTime
	for _, token := range strings.Fields(strings.ToUpper(days)) {
		for _, letter := range token {
			day, ok := weekdayLetters[letter]
			if !ok {
				tel.ReportWarning(
					report_meeting_resolve,
					fmt.Errorf("unknown day letter %q", letter),
					days,
				)
				continue
			}
			times = append(times, MeetingTime{
				Day:   day,
				Start: startClock,
				End:   endClock,
			})
		}
	}
	return Timed(times...), nil
}
