package linter

import (
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	"github.com/go-sourcemap/sourcemap"

	"github.com/syncbuild/syncbuild/engine/manifest"
)

// walker is the single traversal driver for the lint pass. It dispatches
// over the parser's closed node set with type switches; node kinds that
// cannot contain a call expression are ignored.
type walker struct {
	code        string
	smap        *sourcemap.Consumer
	scriptType  manifest.FlowType
	knownModels map[string]bool
	knownList   []string
	result      *Result

	// settled holds call nodes that are directly awaited or chained through
	// a .then/.catch continuation. Outer nodes are visited before inner
	// ones, so a call is always marked before it is checked.
	settled map[*ast.CallExpression]bool
}

func newWalker(code string, smap *sourcemap.Consumer, scriptType manifest.FlowType, knownModels []string) *walker {
	known := make(map[string]bool, len(knownModels))
	for _, name := range knownModels {
		known[name] = true
	}
	return &walker{
		code:        code,
		smap:        smap,
		scriptType:  scriptType,
		knownModels: known,
		knownList:   knownModels,
		result: &Result{
			AwaitedCorrectly: true,
			UsedCorrectly:    true,
			Diagnostics:      []Diagnostic{},
		},
		settled: make(map[*ast.CallExpression]bool),
	}
}

// -----------------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------------

func (w *walker) walkStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		for _, inner := range s.List {
			w.walkStmt(inner)
		}
	case *ast.ExpressionStatement:
		w.walkExpr(s.Expression)
	case *ast.VariableStatement:
		w.walkBindings(s.List)
	case *ast.LexicalDeclaration:
		w.walkBindings(s.List)
	case *ast.IfStatement:
		w.walkExpr(s.Test)
		w.walkStmt(s.Consequent)
		if s.Alternate != nil {
			w.walkStmt(s.Alternate)
		}
	case *ast.ForStatement:
		w.walkForInitializer(s.Initializer)
		w.walkExpr(s.Test)
		w.walkExpr(s.Update)
		w.walkStmt(s.Body)
	case *ast.ForInStatement:
		w.walkForInto(s.Into)
		w.walkExpr(s.Source)
		w.walkStmt(s.Body)
	case *ast.ForOfStatement:
		w.walkForInto(s.Into)
		w.walkExpr(s.Source)
		w.walkStmt(s.Body)
	case *ast.WhileStatement:
		w.walkExpr(s.Test)
		w.walkStmt(s.Body)
	case *ast.DoWhileStatement:
		w.walkExpr(s.Test)
		w.walkStmt(s.Body)
	case *ast.ReturnStatement:
		w.walkExpr(s.Argument)
	case *ast.ThrowStatement:
		w.walkExpr(s.Argument)
	case *ast.TryStatement:
		w.walkStmt(s.Body)
		if s.Catch != nil {
			w.walkStmt(s.Catch.Body)
		}
		if s.Finally != nil {
			w.walkStmt(s.Finally)
		}
	case *ast.SwitchStatement:
		w.walkExpr(s.Discriminant)
		for _, clause := range s.Body {
			if clause == nil {
				continue
			}
			w.walkExpr(clause.Test)
			for _, inner := range clause.Consequent {
				w.walkStmt(inner)
			}
		}
	case *ast.LabelledStatement:
		w.walkStmt(s.Statement)
	case *ast.FunctionDeclaration:
		w.walkExpr(s.Function)
	case *ast.ClassDeclaration:
		w.walkExpr(s.Class)
	case *ast.WithStatement:
		w.walkExpr(s.Object)
		w.walkStmt(s.Body)
	}
}

func (w *walker) walkForInitializer(init ast.ForLoopInitializer) {
	switch i := init.(type) {
	case *ast.ForLoopInitializerExpression:
		w.walkExpr(i.Expression)
	case *ast.ForLoopInitializerVarDeclList:
		w.walkBindings(i.List)
	case *ast.ForLoopInitializerLexicalDecl:
		w.walkBindings(i.LexicalDeclaration.List)
	}
}

func (w *walker) walkForInto(into ast.ForInto) {
	switch i := into.(type) {
	case *ast.ForIntoVar:
		w.walkBinding(i.Binding)
	case *ast.ForDeclaration:
		w.walkExpr(i.Target)
	case *ast.ForIntoExpression:
		w.walkExpr(i.Expression)
	}
}

func (w *walker) walkBindings(list []*ast.Binding) {
	for _, binding := range list {
		w.walkBinding(binding)
	}
}

func (w *walker) walkBinding(binding *ast.Binding) {
	if binding == nil {
		return
	}
	w.walkExpr(binding.Target)
	w.walkExpr(binding.Initializer)
}

// -----------------------------------------------------------------------------
// Expressions
// -----------------------------------------------------------------------------

func (w *walker) walkExpr(expr ast.Expression) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *ast.AssignExpression:
		w.walkExpr(e.Left)
		w.walkExpr(e.Right)
	case *ast.BinaryExpression:
		w.walkExpr(e.Left)
		w.walkExpr(e.Right)
	case *ast.ConditionalExpression:
		w.walkExpr(e.Test)
		w.walkExpr(e.Consequent)
		w.walkExpr(e.Alternate)
	case *ast.UnaryExpression:
		w.walkExpr(e.Operand)
	case *ast.AwaitExpression:
		if call, ok := e.Argument.(*ast.CallExpression); ok {
			w.settled[call] = true
		}
		w.walkExpr(e.Argument)
	case *ast.YieldExpression:
		w.walkExpr(e.Argument)
	case *ast.CallExpression:
		w.visitCall(e)
	case *ast.NewExpression:
		w.walkExpr(e.Callee)
		for _, arg := range e.ArgumentList {
			w.walkExpr(arg)
		}
	case *ast.DotExpression:
		w.walkExpr(e.Left)
	case *ast.BracketExpression:
		w.walkExpr(e.Left)
		w.walkExpr(e.Member)
	case *ast.ArrayLiteral:
		for _, value := range e.Value {
			w.walkExpr(value)
		}
	case *ast.ObjectLiteral:
		for _, property := range e.Value {
			w.walkProperty(property)
		}
	case *ast.SpreadElement:
		w.walkExpr(e.Expression)
	case *ast.FunctionLiteral:
		w.walkParameterList(e.ParameterList)
		w.walkStmt(e.Body)
	case *ast.ArrowFunctionLiteral:
		w.walkParameterList(e.ParameterList)
		w.walkConciseBody(e.Body)
	case *ast.ClassLiteral:
		w.walkExpr(e.SuperClass)
		for _, element := range e.Body {
			w.walkClassElement(element)
		}
	case *ast.TemplateLiteral:
		w.walkExpr(e.Tag)
		for _, inner := range e.Expressions {
			w.walkExpr(inner)
		}
	case *ast.SequenceExpression:
		for _, inner := range e.Sequence {
			w.walkExpr(inner)
		}
	case *ast.Optional:
		w.walkExpr(e.Expression)
	case *ast.OptionalChain:
		w.walkExpr(e.Expression)
	case *ast.ObjectPattern:
		for _, property := range e.Properties {
			w.walkProperty(property)
		}
		w.walkExpr(e.Rest)
	case *ast.ArrayPattern:
		for _, element := range e.Elements {
			w.walkExpr(element)
		}
		w.walkExpr(e.Rest)
	}
}

func (w *walker) walkProperty(property ast.Property) {
	switch p := property.(type) {
	case *ast.PropertyKeyed:
		w.walkExpr(p.Key)
		w.walkExpr(p.Value)
	case *ast.PropertyShort:
		w.walkExpr(p.Initializer)
	case *ast.SpreadElement:
		w.walkExpr(p.Expression)
	}
}

func (w *walker) walkClassElement(element ast.ClassElement) {
	switch el := element.(type) {
	case *ast.MethodDefinition:
		w.walkExpr(el.Key)
		w.walkExpr(el.Body)
	case *ast.FieldDefinition:
		w.walkExpr(el.Key)
		w.walkExpr(el.Initializer)
	case *ast.ClassStaticBlock:
		w.walkStmt(el.Block)
	}
}

func (w *walker) walkParameterList(params *ast.ParameterList) {
	if params == nil {
		return
	}
	w.walkBindings(params.List)
	w.walkExpr(params.Rest)
}

func (w *walker) walkConciseBody(body ast.ConciseBody) {
	switch b := body.(type) {
	case *ast.BlockStatement:
		w.walkStmt(b)
	case *ast.ExpressionBody:
		w.walkExpr(b.Expression)
	}
}

// -----------------------------------------------------------------------------
// Host-call checks
// -----------------------------------------------------------------------------

func (w *walker) visitCall(call *ast.CallExpression) {
	// A .then/.catch continuation settles the call it chains from.
	if dot, ok := call.Callee.(*ast.DotExpression); ok {
		member := dot.Identifier.Name.String()
		if member == "then" || member == "catch" {
			if inner, ok := dot.Left.(*ast.CallExpression); ok {
				w.settled[inner] = true
			}
		}
	}

	w.checkCall(call)
	w.walkExpr(call.Callee)
	for _, arg := range call.ArgumentList {
		w.walkExpr(arg)
	}
}

func (w *walker) checkCall(call *ast.CallExpression) {
	dot, ok := call.Callee.(*ast.DotExpression)
	if !ok {
		return
	}
	receiver, ok := dot.Left.(*ast.Identifier)
	if !ok || receiver.Name.String() != HostObject {
		return
	}
	op, ok := hostCalls[dot.Identifier.Name.String()]
	if !ok {
		return
	}
	line := w.originalLine(call.Idx0())

	if !w.settled[call] {
		w.result.AwaitedCorrectly = false
		w.report(awaitDiagnostic(op, line))
	}
	if replacement, deprecated := deprecatedCalls[op]; deprecated {
		w.report(deprecatedDiagnostic(op, replacement, line))
	}
	if w.scriptType == manifest.FlowTypeAction && actionDisallowedCalls[op] {
		w.result.UsedCorrectly = false
		w.report(disallowedDiagnostic(op, line))
	}
	if modelRefCalls[op] {
		if model, ok := lastStringArgument(call); ok && !w.knownModels[model] {
			w.result.UsedCorrectly = false
			w.report(unknownModelDiagnostic(op, model, w.knownList, line))
		}
	}
}

func (w *walker) report(diag Diagnostic) {
	w.result.Diagnostics = append(w.result.Diagnostics, diag)
}

// lastStringArgument returns the value of the call's final argument when that
// argument is a string literal.
func lastStringArgument(call *ast.CallExpression) (string, bool) {
	if len(call.ArgumentList) == 0 {
		return "", false
	}
	literal, ok := call.ArgumentList[len(call.ArgumentList)-1].(*ast.StringLiteral)
	if !ok {
		return "", false
	}
	return literal.Value.String(), true
}

// originalLine maps a node position in the type-stripped code back to the
// line in the original script source.
func (w *walker) originalLine(idx file.Idx) int {
	offset := int(idx) - 1
	if offset < 0 {
		offset = 0
	}
	if offset > len(w.code) {
		offset = len(w.code)
	}
	genLine, genCol := 1, 1
	for _, ch := range w.code[:offset] {
		if ch == '\n' {
			genLine++
			genCol = 1
		} else {
			genCol++
		}
	}
	if w.smap != nil {
		if _, _, origLine, _, ok := w.smap.Source(genLine, genCol); ok && origLine > 0 {
			return origLine
		}
	}
	return genLine
}
