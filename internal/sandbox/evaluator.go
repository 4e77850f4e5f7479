// Package sandbox executes author script fragments in a yaegi interpreter.
//
// Scripts run against a fresh context per call with no access to the host
// process beyond the registered script symbols and an allow-listed slice of
// the stdlib. Each invocation runs under a wall-clock timeout so a
// pathological fragment (an infinite loop, say) fails the test case instead
// of hanging the editor.
package sandbox

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"

	"dosedoc/internal/logging"
	"dosedoc/internal/script"
	"dosedoc/internal/transpile"
)

// DefaultTimeout bounds one script invocation.
const DefaultTimeout = 5 * time.Second

// Outcome is the structured result of one evaluation.
type Outcome struct {
	Output string
	Err    error
}

// Evaluator runs script fragments. Safe for sequential reuse; every call
// builds a fresh interpreter and context, so no state leaks between runs.
type Evaluator struct {
	timeout time.Duration
	allowed map[string]bool
}

// New builds an evaluator. A non-positive timeout falls back to
// DefaultTimeout. extraImports widens the stdlib allow list.
func New(timeout time.Duration, extraImports ...string) *Evaluator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	allowed := map[string]bool{
		"strings": true,
		"strconv": true,
		"fmt":     true,
		"math":    true,
		"sort":    true,
		"regexp":  true,

		// Blocked by omission: os, os/exec, net, net/http, syscall,
		// unsafe, io, path/filepath.
	}
	for _, pkg := range extraImports {
		allowed[pkg] = true
	}
	return &Evaluator{timeout: timeout, allowed: allowed}
}

// Evaluate is the string-only contract used by preview rendering: it always
// returns a string and never panics. Failures come back as a short inline
// marker carrying the underlying message.
func (e *Evaluator) Evaluate(content string, vars map[string]any) string {
	out := e.Run(content, vars)
	if out.Err != nil {
		return fmt.Sprintf("[error: %s]", out.Err)
	}
	return out.Output
}

// Run executes a fragment in standalone mode against a fresh mock runtime.
func (e *Evaluator) Run(content string, vars map[string]any) Outcome {
	return e.RunWith(script.NewMock(vars), content)
}

// RunWith executes a fragment against the given runtime; live calculation
// instances are passed through here unmodified.
func (e *Evaluator) RunWith(rt script.Runtime, content string) (out Outcome) {
	// yaegi reports some interpreter faults as panics; the contract here
	// is a structured Outcome, never a panic.
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: fmt.Errorf("script panic: %v", r)}
		}
	}()

	if err := e.validateImports(content); err != nil {
		return Outcome{Err: err}
	}

	src := transpile.Transpile(content)
	program := e.buildProgram(src)

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return Outcome{Err: fmt.Errorf("load stdlib: %w", err)}
	}
	if err := i.Use(Symbols); err != nil {
		return Outcome{Err: fmt.Errorf("load script symbols: %w", err)}
	}

	if _, err := i.Eval(program); err != nil {
		logging.Get(logging.CategorySandbox).Debug("script did not compile", zap.Error(err))
		return Outcome{Err: fmt.Errorf("script error: %w", err)}
	}

	v, err := i.Eval("main.render")
	if err != nil {
		return Outcome{Err: fmt.Errorf("render entry not found: %w", err)}
	}
	fn, ok := v.Interface().(func(*script.Context) interface{})
	if !ok {
		return Outcome{Err: fmt.Errorf("render has unexpected signature %T", v.Interface())}
	}

	result, err := e.invoke(fn, script.NewContext(rt))
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Output: coerce(result)}
}

// invoke calls the interpreted function on its own goroutine so the caller
// keeps a wall-clock bound even when the script never returns.
func (e *Evaluator) invoke(fn func(*script.Context) interface{}, ctx *script.Context) (interface{}, error) {
	resultCh := make(chan interface{}, 1)
	errCh := make(chan error, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errCh <- fmt.Errorf("script panic: %v", r)
			}
		}()
		resultCh <- fn(ctx)
	}()

	select {
	case result := <-resultCh:
		return result, nil
	case err := <-errCh:
		return nil, err
	case <-time.After(e.timeout):
		return nil, fmt.Errorf("script timed out after %s", e.timeout)
	}
}

// buildProgram wraps the normalized fragment in an invocable unit. Allowed
// stdlib packages the fragment references are imported for it; fragments are
// statement lists and cannot declare imports themselves.
func (e *Evaluator) buildProgram(fragment string) string {
	var b strings.Builder
	b.WriteString("package main\n\n")
	b.WriteString("import (\n")
	b.WriteString("\tscript \"dosedoc/internal/script\"\n")
	for _, pkg := range e.referencedImports(fragment) {
		fmt.Fprintf(&b, "\t%q\n", pkg)
	}
	b.WriteString(")\n\n")
	b.WriteString("func render(me *script.Context) interface{} {\n")
	b.WriteString(fragment)
	b.WriteString("\n}\n")
	return b.String()
}

// referencedImports returns the allowed packages the fragment appears to
// use, by qualifier. Sorted for deterministic program text.
func (e *Evaluator) referencedImports(fragment string) []string {
	var pkgs []string
	for pkg := range e.allowed {
		base := pkg
		if idx := strings.LastIndex(pkg, "/"); idx >= 0 {
			base = pkg[idx+1:]
		}
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(base) + `\.`)
		if re.MatchString(fragment) {
			pkgs = append(pkgs, pkg)
		}
	}
	sort.Strings(pkgs)
	return pkgs
}

// validateImports rejects fragments that smuggle in import statements for
// packages outside the allow list.
func (e *Evaluator) validateImports(content string) error {
	var forbidden []string
	inBlock := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "import ("):
			inBlock = true
		case inBlock && strings.HasPrefix(trimmed, ")"):
			inBlock = false
		case inBlock:
			if pkg := strings.Trim(trimmed, `"`); pkg != "" && !e.allowed[pkg] {
				forbidden = append(forbidden, pkg)
			}
		case strings.HasPrefix(trimmed, "import "):
			pkg := strings.Trim(strings.TrimPrefix(trimmed, "import "), `"`)
			if pkg != "" && !e.allowed[pkg] {
				forbidden = append(forbidden, pkg)
			}
		}
	}
	if len(forbidden) > 0 {
		return fmt.Errorf("forbidden imports: %v", forbidden)
	}
	return nil
}

func coerce(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
