// Package runner executes every test case of one or many sections and rolls
// the verdicts up into a point-in-time summary.
//
// Runs are sequential and idempotent: re-running unchanged sections with
// unchanged test cases reproduces identical verdicts, and each run replaces
// any prior summary wholesale. One misbehaving test case never aborts the
// rest of the run; its failure is recorded and iteration continues.
package runner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dosedoc/internal/assert"
	"dosedoc/internal/logging"
	"dosedoc/internal/sanitize"
	"dosedoc/internal/sandbox"
	"dosedoc/internal/script"
	"dosedoc/internal/styles"
	"dosedoc/internal/types"
)

// Options configure a Runner.
type Options struct {
	// Timeout bounds each script invocation; zero means the sandbox
	// default.
	Timeout time.Duration

	// ExtraImports widens the sandbox's stdlib allow list.
	ExtraImports []string

	// Live, when set, switches context synthesis from standalone mocks to
	// the supplied calculation instance, passed through unmodified.
	Live script.Runtime
}

// Runner drives the evaluate/sanitize/assert pipeline over sections.
type Runner struct {
	eval *sandbox.Evaluator
	live script.Runtime
	log  *zap.Logger
}

// New builds a runner.
func New(opts Options) *Runner {
	return &Runner{
		eval: sandbox.New(opts.Timeout, opts.ExtraImports...),
		live: opts.Live,
		log:  logging.Get(logging.CategoryRunner),
	}
}

// Preview evaluates a section's content and returns sanitized HTML for
// display. Always returns a string; failures surface as an inline marker.
func (r *Runner) Preview(content string, vars map[string]any) string {
	return sanitize.Clean(r.eval.Evaluate(content, vars))
}

// RunCase executes a single test case against section content.
func (r *Runner) RunCase(content string, tc *types.TestCase) types.TestResult {
	var outcome sandbox.Outcome
	if r.live != nil {
		outcome = r.eval.RunWith(r.live, content)
	} else {
		outcome = r.eval.Run(content, tc.Variables)
	}

	if outcome.Err != nil {
		res := types.TestResult{
			Output: fmt.Sprintf("[error: %s]", outcome.Err),
			Error:  outcome.Err.Error(),
		}
		// A preview-only case passes no matter what came out.
		if tc.IsPreviewOnly() {
			res.Passed = true
			res.OutputPassed = true
			res.StylesPassed = true
		}
		tc.LastResult = &res
		return res
	}

	clean := sanitize.Clean(outcome.Output)
	res := assert.Validate(clean, tc.ExpectedOutput, tc.MatchType, styles.Extract(clean), tc.ExpectedStyles)
	tc.LastResult = &res
	return res
}

// RunSection runs all of a section's test cases in order. Preview-only cases
// are executed but excluded from the pass/fail tallies. The context is
// checked between cases; cancellation stops further iteration.
func (r *Runner) RunSection(ctx context.Context, sec *types.Section) types.SectionTestResult {
	out := types.SectionTestResult{SectionID: sec.ID}

	for _, tc := range sec.TestCases {
		if tc == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			r.log.Debug("section run cancelled", zap.Int("section", sec.ID))
			break
		}

		res := r.RunCase(sec.Content, tc)
		out.Results = append(out.Results, &res)

		if tc.IsPreviewOnly() {
			continue
		}
		if res.Passed {
			out.Passed++
		} else {
			out.Failed++
		}
	}
	return out
}

// RunAll runs every supplied section sequentially and produces a fresh
// summary. Nil sections are skipped; static sections count toward
// TotalSections but are never executed.
func (r *Runner) RunAll(ctx context.Context, sections []*types.Section) types.TestSummary {
	summary := types.TestSummary{Timestamp: time.Now().UTC()}

	for _, sec := range sections {
		if sec == nil {
			continue
		}
		summary.TotalSections++
		if !sec.IsDynamic() || len(sec.TestCases) == 0 {
			continue
		}
		summary.SectionsWithTests++

		sr := r.RunSection(ctx, sec)
		summary.SectionResults = append(summary.SectionResults, &sr)
		summary.PassedTests += sr.Passed
		summary.FailedTests += sr.Failed
	}

	summary.TotalTests = summary.PassedTests + summary.FailedTests
	r.log.Info("run complete",
		zap.Int("sections", summary.TotalSections),
		zap.Int("tests", summary.TotalTests),
		zap.Int("failed", summary.FailedTests))
	return summary
}
