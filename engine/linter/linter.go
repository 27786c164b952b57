package linter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dop251/goja/parser"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/go-sourcemap/sourcemap"

	"github.com/syncbuild/syncbuild/engine/manifest"
)

// -----------------------------------------------------------------------------
// Diagnostics
// -----------------------------------------------------------------------------

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is one finding at a host-call site. Line numbers refer to the
// original script source.
type Diagnostic struct {
	Severity Severity
	Line     int
	Call     HostCall
	Message  string
}

// Result is the per-script lint outcome. A script is eligible for
// compilation iff UsedCorrectly is true; await violations are advisory.
type Result struct {
	AwaitedCorrectly bool
	UsedCorrectly    bool
	Diagnostics      []Diagnostic
}

// Lint parses the script source and validates every host-call site against
// the usage contracts for the given script type. A parse failure is fatal
// for this script only and is reported as an error, not a Result.
func Lint(source []byte, path string, scriptType manifest.FlowType, knownModels []string) (*Result, error) {
	// Strip the static type annotations first; the parser consumes plain
	// ECMAScript. Lowering is disabled so await expressions survive, and the
	// sourcemap carries call sites back to their original lines.
	transformed := api.Transform(string(source), api.TransformOptions{
		Loader:     api.LoaderTS,
		Format:     api.FormatCommonJS,
		Target:     api.ESNext,
		Sourcemap:  api.SourceMapExternal,
		Sourcefile: path,
		LogLevel:   api.LogLevelSilent,
	})
	if len(transformed.Errors) > 0 {
		return nil, NewTransformError(path, transformed.Errors[0].Text)
	}

	code := string(transformed.Code)
	program, err := parser.ParseFile(nil, path, code, 0)
	if err != nil {
		return nil, NewParseError(path, err)
	}

	// A broken sourcemap degrades to generated line numbers.
	consumer, smapErr := sourcemap.Parse(path+".map", transformed.Map)
	if smapErr != nil {
		consumer = nil
	}

	w := newWalker(code, consumer, scriptType, knownModels)
	for _, stmt := range program.Body {
		w.walkStmt(stmt)
	}
	return w.result, nil
}

// -----------------------------------------------------------------------------
// Diagnostic construction
// -----------------------------------------------------------------------------

func awaitDiagnostic(call HostCall, line int) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Line:     line,
		Call:     call,
		Message:  fmt.Sprintf("%s.%s on line %d is not awaited and not chained with .then/.catch", HostObject, call, line),
	}
}

func deprecatedDiagnostic(call, replacement HostCall, line int) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Line:     line,
		Call:     call,
		Message:  fmt.Sprintf("%s.%s on line %d is deprecated, use %s.%s instead", HostObject, call, line, HostObject, replacement),
	}
}

func disallowedDiagnostic(call HostCall, line int) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Line:     line,
		Call:     call,
		Message:  fmt.Sprintf("%s.%s on line %d is not allowed in an action script", HostObject, call, line),
	}
}

func unknownModelDiagnostic(call HostCall, model string, knownModels []string, line int) Diagnostic {
	valid := append([]string(nil), knownModels...)
	sort.Strings(valid)
	return Diagnostic{
		Severity: SeverityError,
		Line:     line,
		Call:     call,
		Message: fmt.Sprintf("%s.%s on line %d references unknown model %q, valid models are: %s",
			HostObject, call, line, model, strings.Join(valid, ", ")),
	}
}
