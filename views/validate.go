package views

import (
	"regexp"
	"strings"
	"time"

	"github.com/MonikaTammineni/fsadproject/browser"
)

var (
	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	timePattern   = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

func matches(re *regexp.Regexp, msg string) func(any, time.Time) string {
	return func(v any, _ time.Time) string {
		s, _ := browser.TextOf(v)
		if !re.MatchString(strings.TrimSpace(s)) {
			return msg
		}
		return ""
	}
}

// oneOf accepts the listed values, ignoring case.
func oneOf(values ...string) func(any, time.Time) string {
	msg := "Must be one of " + strings.Join(values, ", ")
	return func(v any, _ time.Time) string {
		s, _ := browser.TextOf(v)
		for _, want := range values {
			if strings.EqualFold(strings.TrimSpace(s), want) {
				return ""
			}
		}
		return msg
	}
}

func isDate(v any, _ time.Time) string {
	s, _ := browser.TextOf(v)
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
		return "Must be a date (YYYY-MM-DD)"
	}
	return ""
}

func positive(v any, _ time.Time) string {
	n, ok := browser.NumberOf(v)
	if !ok || n <= 0 {
		return "Must be a positive number"
	}
	return ""
}
