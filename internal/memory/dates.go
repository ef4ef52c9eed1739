package memory

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate reports a date expression matching none of the recognized
// grammars.
var ErrInvalidDate = errors.New("invalid date")

const dateLayout = "2006-01-02"

var (
	canonicalRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	relativeRe  = regexp.MustCompile(`^-(\d+)$`)
	shortRe     = regexp.MustCompile(`^(?:(\d{1,2})-)?(\d{1,2})$`)
)

// NormalizeDate resolves a human date expression to canonical YYYY-MM-DD
// form. Recognized: "today", "yesterday", "-N" (N days back), "D" or "D-D"
// (day in current month / month-day in current year), and canonical dates,
// which pass through unchanged. The result depends only on the input and
// the supplied clock value.
func NormalizeDate(input string, now time.Time) (string, error) {
	expr := strings.TrimSpace(input)

	switch expr {
	case "today":
		return now.Format(dateLayout), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(dateLayout), nil
	}

	if m := relativeRe.FindStringSubmatch(expr); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidDate, input)
		}
		return now.AddDate(0, 0, -n).Format(dateLayout), nil
	}

	if canonicalRe.MatchString(expr) {
		return expr, nil
	}

	if m := shortRe.FindStringSubmatch(expr); m != nil {
		month := int(now.Month())
		if m[1] != "" {
			parsed, err := strconv.Atoi(m[1])
			if err != nil {
				return "", fmt.Errorf("%w: %q", ErrInvalidDate, input)
			}
			month = parsed
		}
		day, err := strconv.Atoi(m[2])
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidDate, input)
		}
		return fmt.Sprintf("%04d-%02d-%02d", now.Year(), month, day), nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidDate, input)
}

// DateInRange reports whether a canonical date lies within [from, to].
// An empty bound is unbounded on that side; canonical dates compare
// lexicographically.
func DateInRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}
