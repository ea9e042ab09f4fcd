package parser

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

func init() {
	register(".go", func() LanguageAdapter { return newGoAdapter() })
}

var goLeafKinds = map[string]bool{
	"identifier": true, "type_identifier": true, "field_identifier": true,
	"package_identifier": true, "interpreted_string_literal": true,
	"raw_string_literal": true, "int_literal": true, "float_literal": true,
	"imaginary_literal": true, "rune_literal": true, "true": true, "false": true, "nil": true,
}

type goAdapter struct {
	parser *sitter.Parser
}

func newGoAdapter() *goAdapter {
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	return &goAdapter{parser: p}
}

func (a *goAdapter) Language() string { return "go" }

func (a *goAdapter) parseTree(ctx context.Context, source []byte, filename string) (*sitter.Tree, error) {
	tree, err := a.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &ParseError{File: filename, Message: "tree-sitter parse failed", Cause: err}
	}
	if tree.RootNode().HasError() {
		return nil, &ParseError{File: filename, Message: "syntax errors found in source"}
	}
	return tree, nil
}

func (a *goAdapter) Parse(ctx context.Context, source []byte, filename string) (*Node, error) {
	tree, err := a.parseTree(ctx, source, filename)
	if err != nil {
		return nil, err
	}
	return convertCST(tree.RootNode(), source, &convertState{}, goLeafKinds), nil
}

func (a *goAdapter) ExtractFunctions(ctx context.Context, source []byte, filename string) ([]*FunctionRecord, error) {
	tree, err := a.parseTree(ctx, source, filename)
	if err != nil {
		return nil, err
	}
	var out []*FunctionRecord
	a.visit(tree.RootNode(), source, filename, &out)
	return out, nil
}

func (a *goAdapter) visit(n *sitter.Node, source []byte, filename string, out *[]*FunctionRecord) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "function_declaration":
		*out = append(*out, a.buildFunctionRecord(n, source, filename, ""))
		return
	case "method_declaration":
		className := a.receiverTypeName(n, source)
		*out = append(*out, a.buildFunctionRecord(n, source, filename, className))
		return
	}

	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		a.visit(n.Child(i), source, filename, out)
	}
}

// receiverTypeName extracts the bare type name from a method's receiver,
// stripping the pointer "*" so Foo and *Foo both map to class_name "Foo".
func (a *goAdapter) receiverTypeName(method *sitter.Node, source []byte) string {
	receiver := method.ChildByFieldName("receiver")
	if receiver == nil {
		return ""
	}
	count := int(receiver.NamedChildCount())
	for i := 0; i < count; i++ {
		param := receiver.NamedChild(i)
		if param == nil {
			continue
		}
		typeNode := param.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}
		text := typeNode.Content(source)
		return strings.TrimPrefix(text, "*")
	}
	return ""
}

func (a *goAdapter) buildFunctionRecord(def *sitter.Node, source []byte, filename, className string) *FunctionRecord {
	nameNode := def.ChildByFieldName("name")
	name := ""
	if nameNode != nil {
		name = nameNode.Content(source)
	}
	bodyNode := def.ChildByFieldName("body")

	rec := &FunctionRecord{
		Name:       name,
		StartLine:  int(def.StartPoint().Row) + 1,
		EndLine:    int(def.EndPoint().Row) + 1,
		Parameters: a.collectParams(def.ChildByFieldName("parameters"), source),
		FilePath:   filename,
	}
	if bodyNode != nil {
		rec.BodyStartLine = int(bodyNode.StartPoint().Row) + 1
		rec.BodyEndLine = int(bodyNode.EndPoint().Row) + 1
	}
	if className != "" {
		rec.Kind = KindMethod
		rec.ClassName = className
	} else {
		rec.Kind = KindFreeFunction
	}

	if isGoTestMarked(filename, name) {
		rec.Attributes = append(rec.Attributes, "is-test")
	}

	rec.Node = convertCST(def, source, &convertState{}, goLeafKinds)
	if bodyNode != nil {
		rec.BodyNode = convertCST(bodyNode, source, &convertState{}, goLeafKinds)
	}
	return rec
}

// collectParams handles Go's grouped parameter_declaration nodes, where one
// declaration can bind several names to a shared type (e.g. "a, b int").
func (a *goAdapter) collectParams(paramList *sitter.Node, source []byte) []string {
	if paramList == nil {
		return nil
	}
	var params []string
	count := int(paramList.NamedChildCount())
	for i := 0; i < count; i++ {
		decl := paramList.NamedChild(i)
		if decl == nil || decl.Type() != "parameter_declaration" {
			continue
		}
		childCount := int(decl.ChildCount())
		for j := 0; j < childCount; j++ {
			child := decl.Child(j)
			if child != nil && child.Type() == "identifier" {
				params = append(params, child.Content(source))
			}
		}
	}
	return params
}

// isGoTestMarked applies Go's naming convention for test/benchmark/example
// functions, only meaningful in a _test.go file.
func isGoTestMarked(filename, name string) bool {
	if !strings.HasSuffix(filename, "_test.go") {
		return false
	}
	for _, prefix := range []string{"Test", "Benchmark", "Example", "Fuzz"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (a *goAdapter) ExtractTypes(ctx context.Context, source []byte, filename string) ([]*TypeRecord, error) {
	tree, err := a.parseTree(ctx, source, filename)
	if err != nil {
		return nil, err
	}
	var out []*TypeRecord
	a.visitTypes(tree.RootNode(), source, filename, &out)
	return out, nil
}

func (a *goAdapter) visitTypes(n *sitter.Node, source []byte, filename string, out *[]*TypeRecord) {
	if n == nil {
		return
	}
	if n.Type() == "type_spec" {
		nameNode := n.ChildByFieldName("name")
		structNode := n.ChildByFieldName("type")
		if nameNode != nil && structNode != nil && structNode.Type() == "struct_type" {
			rec := &TypeRecord{
				Name:      nameNode.Content(source),
				StartLine: int(n.StartPoint().Row) + 1,
				EndLine:   int(n.EndPoint().Row) + 1,
				FilePath:  filename,
			}
			rec.Properties = a.structFields(structNode, source)
			*out = append(*out, rec)
		}
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		a.visitTypes(n.Child(i), source, filename, out)
	}
}

func (a *goAdapter) structFields(structNode *sitter.Node, source []byte) []PropertyRecord {
	fieldList := structNode.ChildByFieldName("body")
	if fieldList == nil {
		return nil
	}
	var props []PropertyRecord
	count := int(fieldList.NamedChildCount())
	for i := 0; i < count; i++ {
		field := fieldList.NamedChild(i)
		if field == nil || field.Type() != "field_declaration" {
			continue
		}
		typeNode := field.ChildByFieldName("type")
		typeText := ""
		if typeNode != nil {
			typeText = typeNode.Content(source)
		}
		childCount := int(field.ChildCount())
		for j := 0; j < childCount; j++ {
			child := field.Child(j)
			if child != nil && child.Type() == "field_identifier" {
				props = append(props, PropertyRecord{
					Name:     child.Content(source),
					Type:     typeText,
					Optional: strings.HasPrefix(typeText, "*"),
				})
			}
		}
	}
	return props
}
