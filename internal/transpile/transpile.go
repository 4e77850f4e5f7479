// Package transpile normalizes author script fragments into a form the
// sandbox can always wrap and invoke. Fragments are Go statement lists with
// an implicit trailing return: the last bare expression becomes the return
// value, and a fragment that ends without returning gains `return nil`.
//
// Transpile never fails. If the fragment does not parse, the original text
// is returned unchanged so evaluation can still run and surface a catchable
// runtime error instead of an opaque build failure. Authors iterate fast;
// a hard stop on every syntax hiccup would make the editor unusable.
package transpile

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"strings"

	"go.uber.org/zap"

	"dosedoc/internal/logging"
)

const (
	wrapHeader = "package scriptwrap\n\nfunc _render() interface{} {\n"
	wrapFooter = "\n}\n"
)

// Transpile rewrites a script fragment so it always produces a value.
// Statement order and comments are preserved where the printer allows.
func Transpile(source string) string {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "fragment.go", wrapHeader+source+wrapFooter, parser.ParseComments)
	if err != nil {
		logging.Get(logging.CategoryEngine).Debug("transpile fallback", zap.Error(err))
		return source
	}

	fn := renderFunc(file)
	if fn == nil || fn.Body == nil {
		return source
	}
	normalizeReturn(fn.Body)

	var buf bytes.Buffer
	cfg := printer.Config{Mode: printer.UseSpaces | printer.TabIndent, Tabwidth: 8}
	err = cfg.Fprint(&buf, fset, &printer.CommentedNode{Node: fn.Body, Comments: file.Comments})
	if err != nil {
		logging.Get(logging.CategoryEngine).Debug("transpile print fallback", zap.Error(err))
		return source
	}
	return unwrapBody(buf.String())
}

func renderFunc(file *ast.File) *ast.FuncDecl {
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Name.Name == "_render" {
			return fn
		}
	}
	return nil
}

// normalizeReturn gives the body an unconditional trailing return: a final
// bare expression is returned, anything else falls through to `return nil`.
// A trailing call stays a statement — its result arity is unknowable here,
// so returning it could turn a void call into a compile error.
func normalizeReturn(body *ast.BlockStmt) {
	if n := len(body.List); n > 0 {
		switch last := body.List[n-1].(type) {
		case *ast.ExprStmt:
			if _, isCall := last.X.(*ast.CallExpr); !isCall {
				body.List[n-1] = &ast.ReturnStmt{Return: last.Pos(), Results: []ast.Expr{last.X}}
				return
			}
		case *ast.ReturnStmt:
			if len(last.Results) == 0 {
				last.Results = []ast.Expr{ast.NewIdent("nil")}
			}
			return
		}
	}
	body.List = append(body.List, &ast.ReturnStmt{Results: []ast.Expr{ast.NewIdent("nil")}})
}

// unwrapBody strips the printed block's braces and one indent level.
func unwrapBody(block string) string {
	s := strings.TrimSpace(block)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	s = strings.Trim(s, "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "\t")
	}
	return strings.Join(lines, "\n")
}
