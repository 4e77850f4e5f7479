// Package types defines the document and test-run data model shared by the
// evaluation engine: sections, test cases, per-case results, and the
// aggregated summary produced by a full run.
package types

import "time"

// SectionType distinguishes fixed HTML sections from script-backed ones.
type SectionType string

const (
	SectionStatic  SectionType = "static"
	SectionDynamic SectionType = "dynamic"
)

// MatchType selects how actual output is compared to an expected string.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchContains MatchType = "contains" // default when unspecified
	MatchRegex    MatchType = "regex"
)

// Normalize maps the zero value and unknown strings to the default strategy.
func (m MatchType) Normalize() MatchType {
	switch m {
	case MatchExact, MatchContains, MatchRegex:
		return m
	default:
		return MatchContains
	}
}

// Section is one block of a reference document. Static sections carry fixed
// HTML; dynamic sections carry a script fragment and own zero or more test
// cases. IDs are unique within a document and stable across reordering.
type Section struct {
	ID        int         `json:"id" yaml:"id"`
	Type      SectionType `json:"type" yaml:"type"`
	Content   string      `json:"content" yaml:"content"`
	TestCases []*TestCase `json:"testCases,omitempty" yaml:"test_cases,omitempty"`
}

// IsDynamic reports whether the section's content is a script fragment.
func (s *Section) IsDynamic() bool { return s.Type == SectionDynamic }

// TestCase binds a named set of clinical variable values to an optional
// expectation. Variable values are scalars (string or number); keys the
// script never reads are tolerated and ignored.
type TestCase struct {
	Name           string            `json:"name" yaml:"name"`
	Variables      map[string]any    `json:"variables" yaml:"variables"`
	ExpectedOutput string            `json:"expectedOutput,omitempty" yaml:"expected_output,omitempty"`
	MatchType      MatchType         `json:"matchType,omitempty" yaml:"match_type,omitempty"`
	ExpectedStyles map[string]string `json:"expectedStyles,omitempty" yaml:"expected_styles,omitempty"`

	// LastResult is a UI convenience cache of the most recent run; it is
	// never read back by the engine.
	LastResult *TestResult `json:"lastResult,omitempty" yaml:"last_result,omitempty"`
}

// IsPreviewOnly reports whether the case carries no expectation at all.
// Such cases exist to preview output and pass unconditionally.
func (tc *TestCase) IsPreviewOnly() bool {
	return tc.ExpectedOutput == "" && len(tc.ExpectedStyles) == 0
}

// StyleMismatch records one failed style comparison with both sides.
type StyleMismatch struct {
	Property string `json:"property" yaml:"property"`
	Expected string `json:"expected" yaml:"expected"`
	Actual   string `json:"actual" yaml:"actual"`
}

// TestResult is the verdict for a single test case. Ephemeral: recomputed on
// every run.
type TestResult struct {
	Passed          bool              `json:"passed" yaml:"passed"`
	Output          string            `json:"output" yaml:"output"`
	OutputPassed    bool              `json:"outputPassed" yaml:"output_passed"`
	StylesPassed    bool              `json:"stylesPassed" yaml:"styles_passed"`
	ActualStyles    map[string]string `json:"actualStyles,omitempty" yaml:"actual_styles,omitempty"`
	ExpectedStyles  map[string]string `json:"expectedStyles,omitempty" yaml:"expected_styles,omitempty"`
	StyleMismatches []StyleMismatch   `json:"styleMismatches,omitempty" yaml:"style_mismatches,omitempty"`
	Error           string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// SectionTestResult rolls up one section's asserting test cases.
type SectionTestResult struct {
	SectionID int           `json:"sectionId" yaml:"section_id"`
	Passed    int           `json:"passed" yaml:"passed"`
	Failed    int           `json:"failed" yaml:"failed"`
	Results   []*TestResult `json:"results" yaml:"results"`
}

// TestSummary is a point-in-time snapshot of a full run. Never mutated after
// creation; a new run replaces it wholesale.
type TestSummary struct {
	TotalSections     int                  `json:"totalSections" yaml:"total_sections"`
	SectionsWithTests int                  `json:"sectionsWithTests" yaml:"sections_with_tests"`
	TotalTests        int                  `json:"totalTests" yaml:"total_tests"`
	PassedTests       int                  `json:"passedTests" yaml:"passed_tests"`
	FailedTests       int                  `json:"failedTests" yaml:"failed_tests"`
	SectionResults    []*SectionTestResult `json:"sectionResults" yaml:"section_results"`
	Timestamp         time.Time            `json:"timestamp" yaml:"timestamp"`
}
