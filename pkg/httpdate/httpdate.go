// Package httpdate parses the timestamps found in HTTP freshness headers
// and classifies them relative to the current time.
package httpdate

import (
	"fmt"
	"time"
)

// Layouts accepted for header dates. HTTP dates normally carry a trailing
// "GMT" zone token; dates without it are accepted as well. Both are
// evaluated in UTC regardless of the local timezone.
const (
	layoutGMT  = "Mon, 02 Jan 2006 15:04:05 GMT"
	layoutBare = "Mon, 02 Jan 2006 15:04:05"
)

// Verdict is the result of comparing a header date to the current time.
type Verdict int

const (
	// ParseFailure means the text did not match the expected date layout.
	ParseFailure Verdict = iota
	// AlreadyPassed means the parsed instant is at or before now.
	AlreadyPassed
	// NotYetPassed means the parsed instant is in the future.
	NotYetPassed
)

func (v Verdict) String() string {
	switch v {
	case AlreadyPassed:
		return "already-passed"
	case NotYetPassed:
		return "not-yet-passed"
	default:
		return "parse-failure"
	}
}

// Parse interprets text as an HTTP header date in UTC.
func Parse(text string) (time.Time, error) {
	if t, err := time.ParseInLocation(layoutGMT, text, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(layoutBare, text, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("httpdate: cannot parse %q", text)
}

// Classify parses text and compares it to the current time.
func Classify(text string) Verdict {
	return ClassifyAt(text, time.Now())
}

// ClassifyAt is the pure core of Classify, comparing against the given now.
func ClassifyAt(text string, now time.Time) Verdict {
	t, err := Parse(text)
	if err != nil {
		return ParseFailure
	}
	if !t.After(now) {
		return AlreadyPassed
	}
	return NotYetPassed
}
