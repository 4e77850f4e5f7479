package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dosedoc/internal/script"
	"dosedoc/internal/types"
)

func doseSection() *types.Section {
	return &types.Section{
		ID:      1,
		Type:    types.SectionDynamic,
		Content: `return "Dose: " + me.GetValue("DoseWeightKG") + " kg"`,
		TestCases: []*types.TestCase{
			{
				Name:           "term neonate",
				Variables:      map[string]any{"DoseWeightKG": 3.2},
				ExpectedOutput: "3.2 kg",
				MatchType:      types.MatchContains,
			},
			{
				Name:           "wrong expectation",
				Variables:      map[string]any{"DoseWeightKG": 3.2},
				ExpectedOutput: "9.9 kg",
				MatchType:      types.MatchContains,
			},
			{
				Name:      "preview only",
				Variables: map[string]any{"DoseWeightKG": 2.0},
			},
		},
	}
}

func TestRunSectionTallies(t *testing.T) {
	r := New(Options{})
	sr := r.RunSection(context.Background(), doseSection())

	assert.Equal(t, 1, sr.SectionID)
	assert.Equal(t, 1, sr.Passed)
	assert.Equal(t, 1, sr.Failed)
	// The preview-only case still executed.
	require.Len(t, sr.Results, 3)
	assert.True(t, sr.Results[2].Passed)
}

func TestRunAllAggregation(t *testing.T) {
	sections := []*types.Section{
		{ID: 1, Type: types.SectionStatic, Content: "<p>About this document</p>"},
		doseSection(),
		nil, // missing sections are skipped, not fatal
		{ID: 3, Type: types.SectionDynamic, Content: `return "no tests"`},
	}

	r := New(Options{})
	sum := r.RunAll(context.Background(), sections)

	assert.Equal(t, 3, sum.TotalSections)
	assert.Equal(t, 1, sum.SectionsWithTests)
	assert.Equal(t, 2, sum.TotalTests)
	assert.Equal(t, 1, sum.PassedTests)
	assert.Equal(t, 1, sum.FailedTests)
	assert.False(t, sum.Timestamp.IsZero())

	// Aggregation arithmetic must always hold.
	assert.Equal(t, sum.TotalTests, sum.PassedTests+sum.FailedTests)
	perSection := 0
	for _, sr := range sum.SectionResults {
		perSection += sr.Passed + sr.Failed
	}
	assert.Equal(t, sum.TotalTests, perSection)
	assert.LessOrEqual(t, sum.SectionsWithTests, sum.TotalSections)
}

func TestRunAllIdempotent(t *testing.T) {
	r := New(Options{})
	first := r.RunAll(context.Background(), []*types.Section{doseSection()})
	second := r.RunAll(context.Background(), []*types.Section{doseSection()})

	assert.Equal(t, first.PassedTests, second.PassedTests)
	assert.Equal(t, first.FailedTests, second.FailedTests)
	require.Len(t, second.SectionResults, len(first.SectionResults))
	for i := range first.SectionResults {
		for j := range first.SectionResults[i].Results {
			assert.Equal(t,
				first.SectionResults[i].Results[j].Passed,
				second.SectionResults[i].Results[j].Passed)
		}
	}
}

func TestScriptErrorFailsCaseButNotRun(t *testing.T) {
	sec := &types.Section{
		ID:      2,
		Type:    types.SectionDynamic,
		Content: `return brokenReference`,
		TestCases: []*types.TestCase{
			{Name: "will error", ExpectedOutput: "anything"},
			{Name: "unaffected smoke case"},
		},
	}
	r := New(Options{})
	sr := r.RunSection(context.Background(), sec)

	require.Len(t, sr.Results, 2)
	assert.False(t, sr.Results[0].Passed)
	assert.NotEmpty(t, sr.Results[0].Error)
	assert.True(t, sr.Results[1].Passed)
	assert.Equal(t, 1, sr.Failed)
}

func TestStyleAssertions(t *testing.T) {
	sec := &types.Section{
		ID:      4,
		Type:    types.SectionDynamic,
		Content: `return "<p style=\"color: red\">Warning</p>"`,
		TestCases: []*types.TestCase{
			{
				Name:           "style matches",
				ExpectedOutput: "Warning",
				ExpectedStyles: map[string]string{"color": "red"},
			},
			{
				Name:           "style differs",
				ExpectedStyles: map[string]string{"color": "blue"},
			},
		},
	}
	r := New(Options{})
	sr := r.RunSection(context.Background(), sec)

	assert.Equal(t, 1, sr.Passed)
	assert.Equal(t, 1, sr.Failed)
	require.Len(t, sr.Results[1].StyleMismatches, 1)
	assert.Equal(t, "red", sr.Results[1].StyleMismatches[0].Actual)
	assert.Equal(t, "blue", sr.Results[1].StyleMismatches[0].Expected)
}

func TestSanitizedOutputInResults(t *testing.T) {
	sec := &types.Section{
		ID:      5,
		Type:    types.SectionDynamic,
		Content: `return "<p>fine</p><script>alert(1)</script>"`,
		TestCases: []*types.TestCase{
			{Name: "sanitized", ExpectedOutput: "fine"},
		},
	}
	r := New(Options{})
	sr := r.RunSection(context.Background(), sec)

	require.Len(t, sr.Results, 1)
	assert.True(t, sr.Results[0].Passed)
	assert.NotContains(t, sr.Results[0].Output, "<script")
}

func TestCancellationStopsIteration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(Options{})
	sum := r.RunAll(ctx, []*types.Section{doseSection()})

	assert.Equal(t, 1, sum.TotalSections)
	assert.Equal(t, 0, sum.TotalTests)
}

func TestLastResultCached(t *testing.T) {
	sec := doseSection()
	r := New(Options{})
	r.RunSection(context.Background(), sec)

	require.NotNil(t, sec.TestCases[0].LastResult)
	assert.True(t, sec.TestCases[0].LastResult.Passed)
}

// In live-instance mode the supplied runtime is used as-is; per-case
// variable maps are not synthesized into a mock.
func TestLiveRuntimePassthrough(t *testing.T) {
	live := script.NewMock(map[string]any{"DoseWeightKG": 4.5})
	sec := doseSection()

	r := New(Options{Live: live})
	sr := r.RunSection(context.Background(), sec)

	require.Len(t, sr.Results, 3)
	for _, res := range sr.Results {
		assert.Contains(t, res.Output, "4.5 kg")
	}
}

func TestPreviewAlwaysString(t *testing.T) {
	r := New(Options{})
	out := r.Preview(`return "<p>Dose: " + me.GetValue("DoseWeightKG") + "</p>"`,
		map[string]any{"DoseWeightKG": 3.2})
	assert.Equal(t, "<p>Dose: 3.2</p>", out)

	broken := r.Preview(`return nonsense`, nil)
	assert.Contains(t, broken, "[error:")
}
