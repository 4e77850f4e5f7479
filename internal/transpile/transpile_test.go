package transpile

import (
	"strings"
	"testing"
)

func TestTrailingExpressionBecomesReturn(t *testing.T) {
	got := Transpile(`"hello"`)
	if !strings.Contains(got, `return "hello"`) {
		t.Fatalf("expected trailing expression to be returned, got:\n%s", got)
	}
}

func TestExistingReturnPreserved(t *testing.T) {
	src := `x := 2
return x`
	got := Transpile(src)
	if !strings.Contains(got, "x := 2") || !strings.Contains(got, "return x") {
		t.Fatalf("statements lost in transform:\n%s", got)
	}
	if strings.Count(got, "return") != 1 {
		t.Fatalf("expected exactly one return, got:\n%s", got)
	}
}

func TestBareReturnGainsNil(t *testing.T) {
	got := Transpile("return")
	if !strings.Contains(got, "return nil") {
		t.Fatalf("bare return not normalized:\n%s", got)
	}
}

func TestFragmentWithoutReturnGainsNil(t *testing.T) {
	got := Transpile(`x := 1
_ = x`)
	if !strings.Contains(got, "return nil") {
		t.Fatalf("expected appended return nil:\n%s", got)
	}
}

func TestTrailingCallStaysStatement(t *testing.T) {
	got := Transpile(`me.Recalculate()`)
	if strings.Contains(got, "return me.Recalculate()") {
		t.Fatalf("void call must not be returned:\n%s", got)
	}
	if !strings.Contains(got, "me.Recalculate()") || !strings.Contains(got, "return nil") {
		t.Fatalf("call dropped or fallthrough return missing:\n%s", got)
	}
}

func TestEmptyFragment(t *testing.T) {
	got := Transpile("")
	if !strings.Contains(got, "return nil") {
		t.Fatalf("empty fragment should still produce a value:\n%s", got)
	}
}

// A fragment that does not parse comes back untouched so evaluation can
// surface a catchable runtime error instead of a silent build failure.
func TestUnparsableFragmentFallsBack(t *testing.T) {
	src := `return "unterminated`
	if got := Transpile(src); got != src {
		t.Fatalf("expected verbatim fallback, got:\n%s", got)
	}
}

func TestCommentSurvives(t *testing.T) {
	src := `// dose in kg
return me.GetValue("DoseWeightKG")`
	got := Transpile(src)
	if !strings.Contains(got, "// dose in kg") {
		t.Fatalf("comment dropped:\n%s", got)
	}
}

func TestIdempotentOnNormalizedInput(t *testing.T) {
	once := Transpile(`return "stable"`)
	twice := Transpile(once)
	if once != twice {
		t.Fatalf("transpile not stable:\nfirst:  %s\nsecond: %s", once, twice)
	}
}
