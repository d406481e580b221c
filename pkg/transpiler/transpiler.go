// Package transpiler turns generated TSX lesson source into plain JavaScript
// that the sandbox document can evaluate directly.
package transpiler

import (
	"fmt"
	"github.com/evanw/esbuild/pkg/api"
	"strings"
)

const sourceFile = "lesson.tsx"

type Result struct {
	JavaScript string
	Warnings   []string
}

// TranspileError carries the diagnostics of a failed transpile.
type TranspileError struct {
	Diagnostics []string
}

func (e *TranspileError) Error() string {
	if len(e.Diagnostics) == 0 {
		return "transpile failed"
	}
	return "transpile failed: " + strings.Join(e.Diagnostics, "; ")
}

var options = api.TransformOptions{
	Loader:         api.LoaderTSX,
	Target:         api.ES2015,
	JSX:            api.JSXTransform,
	JSXFactory:     "React.createElement",
	JSXFragment:    "React.Fragment",
	// without this esbuild prefixes every element with a /* @__PURE__ */ comment
	JSXSideEffects: true,
	LegalComments:  api.LegalCommentsNone,
	Sourcefile:     sourceFile,
	LogLevel:       api.LogLevelSilent,
}

// Transpile strips types and JSX from source. Any error diagnostic fails the call.
func Transpile(source string) (*Result, error) {
	out := api.Transform(source, options)
	if len(out.Errors) > 0 {
		return nil, &TranspileError{Diagnostics: formatMessages(out.Errors)}
	}

	return &Result{
		JavaScript: string(out.Code),
		Warnings:   formatMessages(out.Warnings),
	}, nil
}

func formatMessages(msgs []api.Message) []string {
	if len(msgs) == 0 {
		return nil
	}
	formatted := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Location == nil {
			formatted = append(formatted, msg.Text)
			continue
		}
		formatted = append(formatted, fmt.Sprintf("%s:%d:%d: %s", msg.Location.File, msg.Location.Line, msg.Location.Column, msg.Text))
	}
	return formatted
}
