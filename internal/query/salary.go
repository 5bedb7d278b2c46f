package query

import (
	"strconv"
	"strings"

	"job-board/internal/domain"
)

// SalaryLower extracts the lower end of a free-text salary range such as
// "$80,000 - $120,000". Everything but digits and hyphens is dropped and the
// part before the first hyphen is parsed. Without a hyphen the single figure
// is used. ok is false when nothing parseable remains.
func SalaryLower(text string) (v int64, ok bool) {
	kept := strings.Map(func(r rune) rune {
		if isDigit(r) || r == '-' {
			return r
		}
		return -1
	}, text)
	if i := strings.IndexByte(kept, '-'); i >= 0 {
		kept = kept[:i]
	}
	return parseDigits(kept)
}

// SalaryUpper extracts the upper end of a free-text salary range: the part
// after the last hyphen, reduced to its digits. Without a hyphen the single
// figure is used.
func SalaryUpper(text string) (v int64, ok bool) {
	if i := strings.LastIndexByte(text, '-'); i >= 0 {
		text = text[i+1:]
	}
	return parseDigits(strings.Map(func(r rune) rune {
		if isDigit(r) {
			return r
		}
		return -1
	}, text))
}

// ParseSalaryBounds extracts both ends of salary. Sides that cannot be parsed
// stay nil.
func ParseSalaryBounds(salary *string) domain.SalaryBounds {
	var b domain.SalaryBounds
	if salary == nil {
		return b
	}
	if v, ok := SalaryLower(*salary); ok {
		b.Min = &v
	}
	if v, ok := SalaryUpper(*salary); ok {
		b.Max = &v
	}
	return b
}

// MatchSalary tests a stored salary text against optional numeric bounds.
// With no bound supplied every record matches. Otherwise a record without a
// salary, or whose relevant side does not parse, is excluded.
func MatchSalary(salary *string, atLeast, atMost *int64) bool {
	if atLeast == nil && atMost == nil {
		return true
	}
	if salary == nil {
		return false
	}
	if atLeast != nil {
		lower, ok := SalaryLower(*salary)
		if !ok || lower < *atLeast {
			return false
		}
	}
	if atMost != nil {
		upper, ok := SalaryUpper(*salary)
		if !ok || upper > *atMost {
			return false
		}
	}
	return true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func parseDigits(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
