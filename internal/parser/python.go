package parser

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

func init() {
	register(".py", func() LanguageAdapter { return newPythonAdapter() })
	register(".pyi", func() LanguageAdapter { return newPythonAdapter() })
}

var pythonLeafKinds = map[string]bool{
	"identifier": true, "string": true, "integer": true, "float": true,
	"true": true, "false": true, "none": true,
}

var pythonIdentifierKinds = map[string]bool{"identifier": true}

// pythonAdapter implements LanguageAdapter over tree-sitter-python, grounded
// on crates/core/src/python_parser.rs's PythonParser.
type pythonAdapter struct {
	parser *sitter.Parser
}

func newPythonAdapter() *pythonAdapter {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &pythonAdapter{parser: p}
}

func (a *pythonAdapter) Language() string { return "python" }

func (a *pythonAdapter) parseTree(ctx context.Context, source []byte, filename string) (*sitter.Tree, error) {
	tree, err := a.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &ParseError{File: filename, Message: "tree-sitter parse failed", Cause: err}
	}
	if tree.RootNode().HasError() {
		return nil, &ParseError{File: filename, Message: "syntax errors found in source"}
	}
	return tree, nil
}

func (a *pythonAdapter) Parse(ctx context.Context, source []byte, filename string) (*Node, error) {
	tree, err := a.parseTree(ctx, source, filename)
	if err != nil {
		return nil, err
	}
	st := &convertState{}
	return convertCST(tree.RootNode(), source, st, pythonLeafKinds), nil
}

func (a *pythonAdapter) ExtractFunctions(ctx context.Context, source []byte, filename string) ([]*FunctionRecord, error) {
	tree, err := a.parseTree(ctx, source, filename)
	if err != nil {
		return nil, err
	}
	var out []*FunctionRecord
	a.visit(tree.RootNode(), source, filename, "", &out)
	return out, nil
}

// visit walks the CST collecting function definitions. className is set once
// we are inside a class body; nested classes are not descended into from an
// outer class context, per spec.md §4.3.
func (a *pythonAdapter) visit(n *sitter.Node, source []byte, filename, className string, out *[]*FunctionRecord) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "function_definition":
		*out = append(*out, a.buildFunctionRecord(n, n, source, filename, className))
		return // the function body is not descended into, so nested defs are not collected.
	case "decorated_definition":
		inner := lastNamedChild(n)
		if inner != nil && inner.Type() == "function_definition" {
			*out = append(*out, a.buildFunctionRecord(n, inner, source, filename, className))
			return
		}
	case "class_definition":
		nameNode := n.ChildByFieldName("name")
		newClassName := className
		if nameNode != nil {
			newClassName = nameNode.Content(source)
		}
		body := n.ChildByFieldName("body")
		if body != nil {
			count := int(body.ChildCount())
			for i := 0; i < count; i++ {
				a.visit(body.Child(i), source, filename, newClassName, out)
			}
		}
		return
	}

	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		a.visit(n.Child(i), source, filename, className, out)
	}
}

func lastNamedChild(n *sitter.Node) *sitter.Node {
	count := int(n.NamedChildCount())
	if count == 0 {
		return nil
	}
	return n.NamedChild(count - 1)
}

func (a *pythonAdapter) buildFunctionRecord(outer, def *sitter.Node, source []byte, filename, className string) *FunctionRecord {
	nameNode := def.ChildByFieldName("name")
	name := ""
	if nameNode != nil {
		name = nameNode.Content(source)
	}
	paramsNode := def.ChildByFieldName("parameters")
	bodyNode := def.ChildByFieldName("body")

	rec := &FunctionRecord{
		Name:       name,
		StartLine:  int(outer.StartPoint().Row) + 1,
		EndLine:    int(outer.EndPoint().Row) + 1,
		Parameters: collectIdentifierParams(paramsNode, source, pythonIdentifierKinds),
		FilePath:   filename,
	}
	if bodyNode != nil {
		rec.BodyStartLine = int(bodyNode.StartPoint().Row) + 1
		rec.BodyEndLine = int(bodyNode.EndPoint().Row) + 1
	}
	if className != "" {
		rec.Kind = KindMethod
		rec.ClassName = className
		if name == "__init__" {
			rec.Kind = KindConstructor
		}
	} else {
		rec.Kind = KindFreeFunction
	}

	if isPythonTestMarked(outer, source, name) {
		rec.Attributes = append(rec.Attributes, "is-test")
	}

	st := &convertState{}
	rec.Node = convertCST(outer, source, st, pythonLeafKinds)
	if bodyNode != nil {
		rec.BodyNode = convertCST(bodyNode, source, &convertState{}, pythonLeafKinds)
	}
	return rec
}

// isPythonTestMarked reports whether a function is a test by the "test_"
// name-prefix convention or a pytest-style decorator, per spec.md §4.4.
func isPythonTestMarked(outer *sitter.Node, source []byte, name string) bool {
	if strings.HasPrefix(name, "test_") {
		return true
	}
	if outer.Type() != "decorated_definition" {
		return false
	}
	count := int(outer.NamedChildCount())
	for i := 0; i < count-1; i++ { // last named child is the definition itself
		dec := outer.NamedChild(i)
		if dec == nil {
			continue
		}
		text := strings.ToLower(dec.Content(source))
		if strings.Contains(text, "test") {
			return true
		}
	}
	return false
}

func (a *pythonAdapter) ExtractTypes(ctx context.Context, source []byte, filename string) ([]*TypeRecord, error) {
	tree, err := a.parseTree(ctx, source, filename)
	if err != nil {
		return nil, err
	}
	var out []*TypeRecord
	a.visitClasses(tree.RootNode(), source, filename, &out)
	return out, nil
}

func (a *pythonAdapter) visitClasses(n *sitter.Node, source []byte, filename string, out *[]*TypeRecord) {
	if n == nil {
		return
	}
	if n.Type() == "class_definition" {
		nameNode := n.ChildByFieldName("name")
		name := ""
		if nameNode != nil {
			name = nameNode.Content(source)
		}
		rec := &TypeRecord{
			Name:      name,
			StartLine: int(n.StartPoint().Row) + 1,
			EndLine:   int(n.EndPoint().Row) + 1,
			FilePath:  filename,
		}
		rec.Properties = a.extractAnnotatedAssignments(n, source)
		*out = append(*out, rec)
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		a.visitClasses(n.Child(i), source, filename, out)
	}
}

// extractAnnotatedAssignments collects `name: Type` class-body fields
// (dataclass/attrs-style), used only by the type-similarity application.
func (a *pythonAdapter) extractAnnotatedAssignments(classNode *sitter.Node, source []byte) []PropertyRecord {
	body := classNode.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var props []PropertyRecord
	count := int(body.ChildCount())
	for i := 0; i < count; i++ {
		stmt := body.Child(i)
		if stmt == nil || stmt.Type() != "expression_statement" {
			continue
		}
		if stmt.NamedChildCount() == 0 {
			continue
		}
		ann := stmt.NamedChild(0)
		if ann == nil || ann.Type() != "typed_assignment" && ann.Type() != "assignment" {
			continue
		}
		left := ann.ChildByFieldName("left")
		typeNode := ann.ChildByFieldName("type")
		if left == nil {
			continue
		}
		prop := PropertyRecord{Name: left.Content(source)}
		if typeNode != nil {
			prop.Type = typeNode.Content(source)
			prop.Optional = strings.Contains(prop.Type, "Optional") || strings.Contains(prop.Type, "None")
		}
		props = append(props, prop)
	}
	return props
}
