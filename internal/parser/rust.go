package parser

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

func init() {
	register(".rs", func() LanguageAdapter { return newRustAdapter() })
}

var rustLeafKinds = map[string]bool{
	"identifier": true, "field_identifier": true, "type_identifier": true,
	"string_literal": true, "raw_string_literal": true, "char_literal": true,
	"integer_literal": true, "float_literal": true, "boolean_literal": true,
}

var rustIdentifierKinds = map[string]bool{"identifier": true}

// rustAdapter implements LanguageAdapter over tree-sitter-rust, grounded on
// crates/core/src/python_parser.rs's traversal shape but adapted for fn_item
// and impl_item, the Rust equivalents of free functions and methods.
type rustAdapter struct {
	parser *sitter.Parser
}

func newRustAdapter() *rustAdapter {
	p := sitter.NewParser()
	p.SetLanguage(rust.GetLanguage())
	return &rustAdapter{parser: p}
}

func (a *rustAdapter) Language() string { return "rust" }

func (a *rustAdapter) parseTree(ctx context.Context, source []byte, filename string) (*sitter.Tree, error) {
	tree, err := a.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &ParseError{File: filename, Message: "tree-sitter parse failed", Cause: err}
	}
	if tree.RootNode().HasError() {
		return nil, &ParseError{File: filename, Message: "syntax errors found in source"}
	}
	return tree, nil
}

func (a *rustAdapter) Parse(ctx context.Context, source []byte, filename string) (*Node, error) {
	tree, err := a.parseTree(ctx, source, filename)
	if err != nil {
		return nil, err
	}
	return convertCST(tree.RootNode(), source, &convertState{}, rustLeafKinds), nil
}

func (a *rustAdapter) ExtractFunctions(ctx context.Context, source []byte, filename string) ([]*FunctionRecord, error) {
	tree, err := a.parseTree(ctx, source, filename)
	if err != nil {
		return nil, err
	}
	var out []*FunctionRecord
	a.visit(tree.RootNode(), source, filename, "", &out)
	return out, nil
}

// visit walks the CST collecting fn_item definitions. className is set while
// inside an impl_item body, taken from the impl's "type" field, so methods
// report the implementing type the way the Python adapter reports a class.
func (a *rustAdapter) visit(n *sitter.Node, source []byte, filename, className string, out *[]*FunctionRecord) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "function_item":
		*out = append(*out, a.buildFunctionRecord(n, source, filename, className))
		return
	case "impl_item":
		typeNode := n.ChildByFieldName("type")
		implType := className
		if typeNode != nil {
			implType = typeNode.Content(source)
		}
		body := n.ChildByFieldName("body")
		if body != nil {
			count := int(body.ChildCount())
			for i := 0; i < count; i++ {
				a.visit(body.Child(i), source, filename, implType, out)
			}
		}
		return
	}

	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		a.visit(n.Child(i), source, filename, className, out)
	}
}

func (a *rustAdapter) buildFunctionRecord(def *sitter.Node, source []byte, filename, className string) *FunctionRecord {
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
		if name == "new" {
			rec.Kind = KindConstructor
		}
	} else {
		rec.Kind = KindFreeFunction
	}

	if isRustTestMarked(def, source) {
		rec.Attributes = append(rec.Attributes, "is-test")
	}

	rec.Node = convertCST(def, source, &convertState{}, rustLeafKinds)
	if bodyNode != nil {
		rec.BodyNode = convertCST(bodyNode, source, &convertState{}, rustLeafKinds)
	}
	return rec
}

// collectParams skips the implicit "self" receiver parameter and the `&`/`mut`
// tokens around it, taking only identifier-bearing parameter patterns.
func (a *rustAdapter) collectParams(paramList *sitter.Node, source []byte) []string {
	if paramList == nil {
		return nil
	}
	var params []string
	count := int(paramList.NamedChildCount())
	for i := 0; i < count; i++ {
		p := paramList.NamedChild(i)
		if p == nil {
			continue
		}
		switch p.Type() {
		case "self_parameter":
			continue
		case "parameter":
			if pattern := p.ChildByFieldName("pattern"); pattern != nil && rustIdentifierKinds[pattern.Type()] {
				params = append(params, pattern.Content(source))
			}
		}
	}
	return params
}

// isRustTestMarked reports whether a function carries #[test] (or
// #[tokio::test]) among its preceding attribute_item siblings, mirroring the
// convention exercised by crates/similarity-rs/tests/skip_test_option.rs.
func isRustTestMarked(def *sitter.Node, source []byte) bool {
	parent := def.Parent()
	if parent == nil {
		return false
	}
	count := int(parent.ChildCount())
	marked := false
	for i := 0; i < count; i++ {
		child := parent.Child(i)
		if child == nil {
			continue
		}
		if child.Equal(def) {
			break
		}
		if child.Type() == "attribute_item" {
			if strings.Contains(child.Content(source), "test") {
				marked = true
			}
		} else if !isCommentKind(child.Type()) {
			marked = false
		}
	}
	return marked
}

func (a *rustAdapter) ExtractTypes(ctx context.Context, source []byte, filename string) ([]*TypeRecord, error) {
	tree, err := a.parseTree(ctx, source, filename)
	if err != nil {
		return nil, err
	}
	var out []*TypeRecord
	a.visitTypes(tree.RootNode(), source, filename, &out)
	return out, nil
}

func (a *rustAdapter) visitTypes(n *sitter.Node, source []byte, filename string, out *[]*TypeRecord) {
	if n == nil {
		return
	}
	if n.Type() == "struct_item" {
		nameNode := n.ChildByFieldName("name")
		body := n.ChildByFieldName("body")
		if nameNode != nil {
			rec := &TypeRecord{
				Name:      nameNode.Content(source),
				StartLine: int(n.StartPoint().Row) + 1,
				EndLine:   int(n.EndPoint().Row) + 1,
				FilePath:  filename,
			}
			rec.Properties = a.structFields(body, source)
			*out = append(*out, rec)
		}
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		a.visitTypes(n.Child(i), source, filename, out)
	}
}

func (a *rustAdapter) structFields(body *sitter.Node, source []byte) []PropertyRecord {
	if body == nil || body.Type() != "field_declaration_list" {
		return nil
	}
	var props []PropertyRecord
	count := int(body.NamedChildCount())
	for i := 0; i < count; i++ {
		field := body.NamedChild(i)
		if field == nil || field.Type() != "field_declaration" {
			continue
		}
		nameNode := field.ChildByFieldName("name")
		typeNode := field.ChildByFieldName("type")
		if nameNode == nil {
			continue
		}
		prop := PropertyRecord{Name: nameNode.Content(source)}
		if typeNode != nil {
			prop.Type = typeNode.Content(source)
			prop.Optional = strings.HasPrefix(prop.Type, "Option<")
		}
		props = append(props, prop)
	}
	return props
}
