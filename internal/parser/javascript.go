package parser

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

func init() {
	register(".js", func() LanguageAdapter { return newJSAdapter(javascript.GetLanguage(), "javascript") })
	register(".jsx", func() LanguageAdapter { return newJSAdapter(javascript.GetLanguage(), "javascript") })
	register(".ts", func() LanguageAdapter { return newJSAdapter(typescript.GetLanguage(), "typescript") })
	register(".tsx", func() LanguageAdapter { return newJSAdapter(typescript.GetLanguage(), "typescript") })
}

var jsLeafKinds = map[string]bool{
	"identifier": true, "property_identifier": true, "shorthand_property_identifier": true,
	"string": true, "string_fragment": true, "number": true, "regex_pattern": true,
	"true": true, "false": true, "null": true, "undefined": true, "template_string": true,
}

var jsIdentifierKinds = map[string]bool{"identifier": true}

// jsAdapter implements LanguageAdapter over tree-sitter-javascript/typescript.
// Both grammars share node kinds closely enough to drive from one adapter,
// mirroring how the original tool treats JS/TS as one family in its CLI docs.
type jsAdapter struct {
	parser *sitter.Parser
	lang   string
}

func newJSAdapter(grammar *sitter.Language, lang string) *jsAdapter {
	p := sitter.NewParser()
	p.SetLanguage(grammar)
	return &jsAdapter{parser: p, lang: lang}
}

func (a *jsAdapter) Language() string { return a.lang }

func (a *jsAdapter) parseTree(ctx context.Context, source []byte, filename string) (*sitter.Tree, error) {
	tree, err := a.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &ParseError{File: filename, Message: "tree-sitter parse failed", Cause: err}
	}
	if tree.RootNode().HasError() {
		return nil, &ParseError{File: filename, Message: "syntax errors found in source"}
	}
	return tree, nil
}

func (a *jsAdapter) Parse(ctx context.Context, source []byte, filename string) (*Node, error) {
	tree, err := a.parseTree(ctx, source, filename)
	if err != nil {
		return nil, err
	}
	return convertCST(tree.RootNode(), source, &convertState{}, jsLeafKinds), nil
}

func (a *jsAdapter) ExtractFunctions(ctx context.Context, source []byte, filename string) ([]*FunctionRecord, error) {
	tree, err := a.parseTree(ctx, source, filename)
	if err != nil {
		return nil, err
	}
	var out []*FunctionRecord
	a.visit(tree.RootNode(), source, filename, "", &out)
	return out, nil
}

// visit walks the CST collecting function declarations, class methods, and
// named function/arrow expressions bound by a variable declarator. className
// is set once inside a class body; nested classes are not descended into from
// an outer class context, matching the Python adapter's contract.
func (a *jsAdapter) visit(n *sitter.Node, source []byte, filename, className string, out *[]*FunctionRecord) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "function_declaration", "generator_function_declaration":
		*out = append(*out, a.buildFunctionRecord(n, n, source, filename, className, ""))
		return
	case "method_definition":
		*out = append(*out, a.buildFunctionRecord(n, n, source, filename, className, ""))
		return
	case "variable_declarator":
		if rec := a.fromVariableDeclarator(n, source, filename, className); rec != nil {
			*out = append(*out, rec)
		}
	case "class_declaration":
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

// fromVariableDeclarator handles `const foo = function () {}` / `const foo =
// () => {}`, treating the declarator as the outer span and the function/arrow
// expression as the definition node.
func (a *jsAdapter) fromVariableDeclarator(n *sitter.Node, source []byte, filename, className string) *FunctionRecord {
	nameNode := n.ChildByFieldName("name")
	valueNode := n.ChildByFieldName("value")
	if nameNode == nil || valueNode == nil {
		return nil
	}
	switch valueNode.Type() {
	case "function_expression", "generator_function", "arrow_function":
		return a.buildFunctionRecord(n, valueNode, source, filename, className, nameNode.Content(source))
	default:
		return nil
	}
}

func (a *jsAdapter) buildFunctionRecord(outer, def *sitter.Node, source []byte, filename, className, overrideName string) *FunctionRecord {
	name := overrideName
	if name == "" {
		if nameNode := def.ChildByFieldName("name"); nameNode != nil {
			name = nameNode.Content(source)
		}
	}
	bodyNode := def.ChildByFieldName("body")

	rec := &FunctionRecord{
		Name:       name,
		StartLine:  int(outer.StartPoint().Row) + 1,
		EndLine:    int(outer.EndPoint().Row) + 1,
		Parameters: collectIdentifierParams(def.ChildByFieldName("parameters"), source, jsIdentifierKinds),
		FilePath:   filename,
	}
	if bodyNode != nil {
		rec.BodyStartLine = int(bodyNode.StartPoint().Row) + 1
		rec.BodyEndLine = int(bodyNode.EndPoint().Row) + 1
	}
	if className != "" {
		rec.Kind = KindMethod
		rec.ClassName = className
		if name == "constructor" {
			rec.Kind = KindConstructor
		}
	} else {
		rec.Kind = KindFreeFunction
	}

	if isJSTestMarked(name) {
		rec.Attributes = append(rec.Attributes, "is-test")
	}

	rec.Node = convertCST(outer, source, &convertState{}, jsLeafKinds)
	if bodyNode != nil {
		rec.BodyNode = convertCST(bodyNode, source, &convertState{}, jsLeafKinds)
	}
	return rec
}

// isJSTestMarked applies the common "test"/"spec" naming convention; JS test
// frameworks mostly mark tests by call-site registration (it/describe) rather
// than function naming, so this only catches the subset that also names the
// function that way.
func isJSTestMarked(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, "test") || strings.HasSuffix(lower, "spec")
}

func (a *jsAdapter) ExtractTypes(ctx context.Context, source []byte, filename string) ([]*TypeRecord, error) {
	tree, err := a.parseTree(ctx, source, filename)
	if err != nil {
		return nil, err
	}
	var out []*TypeRecord
	a.visitTypes(tree.RootNode(), source, filename, &out)
	return out, nil
}

func (a *jsAdapter) visitTypes(n *sitter.Node, source []byte, filename string, out *[]*TypeRecord) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "interface_declaration":
		nameNode := n.ChildByFieldName("name")
		body := n.ChildByFieldName("body")
		if nameNode != nil {
			rec := &TypeRecord{
				Name:      nameNode.Content(source),
				StartLine: int(n.StartPoint().Row) + 1,
				EndLine:   int(n.EndPoint().Row) + 1,
				FilePath:  filename,
			}
			rec.Properties = a.interfaceProperties(body, source)
			*out = append(*out, rec)
		}
	case "class_declaration":
		nameNode := n.ChildByFieldName("name")
		body := n.ChildByFieldName("body")
		if nameNode != nil {
			rec := &TypeRecord{
				Name:      nameNode.Content(source),
				StartLine: int(n.StartPoint().Row) + 1,
				EndLine:   int(n.EndPoint().Row) + 1,
				FilePath:  filename,
			}
			rec.Properties = a.classFieldProperties(body, source)
			*out = append(*out, rec)
		}
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		a.visitTypes(n.Child(i), source, filename, out)
	}
}

func (a *jsAdapter) interfaceProperties(body *sitter.Node, source []byte) []PropertyRecord {
	if body == nil {
		return nil
	}
	var props []PropertyRecord
	count := int(body.NamedChildCount())
	for i := 0; i < count; i++ {
		member := body.NamedChild(i)
		if member == nil || member.Type() != "property_signature" {
			continue
		}
		nameNode := member.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		prop := PropertyRecord{Name: nameNode.Content(source)}
		if typeAnn := member.ChildByFieldName("type"); typeAnn != nil {
			prop.Type = typeAnn.Content(source)
		}
		prop.Optional = strings.Contains(member.Content(source), "?:")
		props = append(props, prop)
	}
	return props
}

func (a *jsAdapter) classFieldProperties(body *sitter.Node, source []byte) []PropertyRecord {
	if body == nil {
		return nil
	}
	var props []PropertyRecord
	count := int(body.NamedChildCount())
	for i := 0; i < count; i++ {
		member := body.NamedChild(i)
		if member == nil || member.Type() != "public_field_definition" {
			continue
		}
		nameNode := member.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		prop := PropertyRecord{Name: nameNode.Content(source)}
		if typeAnn := member.ChildByFieldName("type"); typeAnn != nil {
			prop.Type = typeAnn.Content(source)
		}
		props = append(props, prop)
	}
	return props
}
