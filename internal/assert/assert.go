// Package assert decides whether evaluator output satisfies an
// author-declared expectation: a text match under one of three strategies,
// plus key-by-key comparison of extracted inline styles.
package assert

import (
	"regexp"
	"strings"

	"dosedoc/internal/sanitize"
	"dosedoc/internal/types"
)

// Validate compares sanitized output and its extracted styles against a test
// case's expectation. A case with no expected text and no expected styles is
// a smoke test and passes unconditionally.
func Validate(actual string, expected string, mt types.MatchType, actualStyles, expectedStyles map[string]string) types.TestResult {
	res := types.TestResult{
		Output:         actual,
		ActualStyles:   actualStyles,
		ExpectedStyles: expectedStyles,
		OutputPassed:   true,
		StylesPassed:   true,
	}

	if expected != "" {
		plain := sanitize.Text(actual)
		res.OutputPassed = matchText(mt.Normalize(), plain, strings.TrimSpace(expected))
	}

	for prop, want := range expectedStyles {
		got := actualStyles[prop] // missing key compares as ""
		if got != want {
			res.StylesPassed = false
			res.StyleMismatches = append(res.StyleMismatches, types.StyleMismatch{
				Property: prop,
				Expected: want,
				Actual:   got,
			})
		}
	}

	res.Passed = res.OutputPassed && res.StylesPassed
	return res
}

// matchText dispatches on the match strategy. Exhaustive over MatchType;
// Normalize has already mapped unknown values to contains.
func matchText(mt types.MatchType, plain, expected string) bool {
	switch mt {
	case types.MatchExact:
		return plain == expected
	case types.MatchRegex:
		re, err := regexp.Compile(expected)
		if err != nil {
			// An invalid pattern is a non-match, not an error.
			return false
		}
		return re.MatchString(plain)
	default:
		return strings.Contains(plain, expected)
	}
}
