package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	integerRunPattern     = regexp.MustCompile(`[0-9]+`)
	leadingIntegerPattern = regexp.MustCompile(`^\s*([0-9]+)(?:\s+|[.:)]\s*|$)`)
)

// IntegerRuns returns every run of ASCII digits in the visible text of s,
// ignoring digits that occur inside markup tags.
func IntegerRuns(s string) []int {
	matches := integerRunPattern.FindAllString(StripMarkup(s), -1)
	runs := make([]int, 0, len(matches))
	for _, match := range matches {
		value, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		runs = append(runs, value)
	}
	return runs
}

// SingleInteger returns the integer when the visible text of s contains
// exactly one integer run.
func SingleInteger(s string) (int, bool) {
	runs := IntegerRuns(s)
	if len(runs) != 1 {
		return 0, false
	}
	return runs[0], true
}

// LeadingInteger reports the integer that opens the visible text of s. The
// number must be followed by whitespace, simple punctuation or the end of
// the text so that "3rd" or "1984's" are not taken as numbering.
func LeadingInteger(s string) (int, bool) {
	match := leadingIntegerPattern.FindStringSubmatch(StripMarkup(s))
	if match == nil {
		return 0, false
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return value, true
}

// StripLeadingInteger removes the opening integer (and the separator after
// it) from markup-bearing text. Tags that precede the number are kept.
func StripLeadingInteger(s string) string {
	prefixEnd := 0
	for prefixEnd < len(s) {
		rest := s[prefixEnd:]
		trimmed := strings.TrimLeft(rest, " \t\r\n")
		if strings.HasPrefix(trimmed, "<") {
			closing := strings.IndexByte(trimmed, '>')
			if closing < 0 {
				break
			}
			prefixEnd += len(rest) - len(trimmed) + closing + 1
			continue
		}
		break
	}
	rest := s[prefixEnd:]
	loc := leadingIntegerPattern.FindStringIndex(rest)
	if loc == nil {
		return s
	}
	return s[:prefixEnd] + rest[loc[1]:]
}
