// Package parser defines the generic, language-agnostic tree contract that
// language adapters build from a concrete syntax tree, and the function/type
// extraction records the analyzer layer consumes.
package parser

import "fmt"

// Node is an ordered labeled tree node produced by a language adapter from a
// concrete syntax tree. Label is the grammar production name (tree-sitter's
// node.Kind()); Value carries the source text of the node only when the node
// is a terminal whose content carries semantic weight (identifiers, literals,
// keyword-valued tokens). Comments and whitespace are never converted to
// nodes. ID is assigned in pre-order during construction and is unique within
// one tree; it is the stable identity used as a memoization key downstream.
type Node struct {
	ID       int
	Label    string
	Value    string
	Children []*Node

	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// NewNode creates a leaf node; call AddChild to build up structure.
func NewNode(id int, label, value string) *Node {
	return &Node{ID: id, Label: label, Value: value}
}

// AddChild appends a child, preserving left-to-right order.
func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

func (n *Node) String() string {
	if n.Value != "" {
		return fmt.Sprintf("%s(%s)", n.Label, n.Value)
	}
	return n.Label
}

// FunctionKind classifies a FunctionRecord per spec.md §3.
type FunctionKind string

const (
	KindFreeFunction FunctionKind = "free-function"
	KindMethod       FunctionKind = "method"
	KindConstructor  FunctionKind = "constructor"
)

// FunctionRecord identifies one function or method definition and the AST
// subtree it was extracted from.
type FunctionRecord struct {
	Name      string
	Kind      FunctionKind
	ClassName string // present iff Kind is method-like

	StartLine     int
	EndLine       int
	BodyStartLine int // zero if body absent
	BodyEndLine   int

	Parameters []string
	Attributes []string // e.g. "is-test", "is-generated"

	// Node is the subtree_ref: the whole-definition node by default, or the
	// body node when comparison is configured body-only.
	Node     *Node
	BodyNode *Node

	FilePath string
}

// LineCount returns the inclusive line count of the whole definition.
func (f *FunctionRecord) LineCount() int {
	return f.EndLine - f.StartLine + 1
}

// HasAttribute reports whether attr is present on the record.
func (f *FunctionRecord) HasAttribute(attr string) bool {
	for _, a := range f.Attributes {
		if a == attr {
			return true
		}
	}
	return false
}

// IsTest reports whether the function is marked as a test, per the
// language-specific markers each adapter applies (decorator/attribute or a
// "test_"/"Test" name convention).
func (f *FunctionRecord) IsTest() bool {
	return f.HasAttribute("is-test")
}

// PropertyRecord is one normalized name/type pair of a TypeRecord, used only
// by the parallel type-similarity application (see analyzer.TypeTree).
type PropertyRecord struct {
	Name     string
	Type     string
	Optional bool
}

// TypeRecord identifies one type/struct/class declaration for the
// type-definition similarity application.
type TypeRecord struct {
	Name       string
	StartLine  int
	EndLine    int
	Properties []PropertyRecord
	FilePath   string
}
