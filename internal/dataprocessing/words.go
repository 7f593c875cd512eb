package dataprocessing

import (
	"strings"
)

// Amounts occasionally arrive written out in English words ("ten thousand",
// "two hundred fifty"). wordsToNumber converts those the same way the
// upstream export tooling does: units and tens accumulate, "hundred"
// multiplies the running group, and larger scales close a group.

var wordUnits = map[string]float64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var wordTens = map[string]float64{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var wordScales = map[string]float64{
	"thousand": 1e3, "million": 1e6, "billion": 1e9,
}

// wordsToNumber parses an amount written in words. It reports false for
// anything containing an unrecognized token, so purely numeric or garbage
// strings are left to the caller.
func wordsToNumber(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", " ")
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return 0, false
	}

	var total, group float64
	matched := false

	for _, token := range tokens {
		if token == "and" {
			continue
		}
		switch {
		case wordUnits[token] != 0 || token == "zero":
			group += wordUnits[token]
		case wordTens[token] != 0:
			group += wordTens[token]
		case token == "hundred":
			if group == 0 {
				group = 1
			}
			group *= 100
		case wordScales[token] != 0:
			if group == 0 {
				group = 1
			}
			total += group * wordScales[token]
			group = 0
		default:
			return 0, false
		}
		matched = true
	}

	if !matched {
		return 0, false
	}
	return total + group, true
}
