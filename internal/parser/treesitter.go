package parser

import sitter "github.com/smacker/go-tree-sitter"

// convertState carries the pre-order ID counter across a single tree
// conversion, mirroring crates/core/src/python_parser.rs's id_counter.
type convertState struct {
	nextID int
}

// convertCST turns a tree-sitter concrete syntax node into the generic Node
// contract: label is the grammar kind, value is populated only for the
// terminal kinds named in leafKinds. Comment nodes are skipped; unnamed
// punctuation tokens carry no value but are still represented structurally,
// since sibling order is part of ordered-tree identity (spec.md §3).
func convertCST(n *sitter.Node, source []byte, st *convertState, leafKinds map[string]bool) *Node {
	if n == nil {
		return nil
	}

	kind := n.Type()
	value := ""
	if leafKinds[kind] {
		value = n.Content(source)
	}

	node := NewNode(st.nextID, kind, value)
	st.nextID++
	node.StartLine = int(n.StartPoint().Row) + 1
	node.StartCol = int(n.StartPoint().Column)
	node.EndLine = int(n.EndPoint().Row) + 1
	node.EndCol = int(n.EndPoint().Column)

	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child == nil || isCommentKind(child.Type()) {
			continue
		}
		node.AddChild(convertCST(child, source, st, leafKinds))
	}

	return node
}

// isCommentKind reports whether kind is a comment node, so tree conversion
// and parameter extraction can skip it, per spec.md §4.3.
func isCommentKind(kind string) bool {
	switch kind {
	case "comment", "line_comment", "block_comment":
		return true
	default:
		return false
	}
}

// collectIdentifierParams walks a parameter-list-like node and collects
// identifier-bearing parameter names, handling typed/default-valued
// parameters by descending to their "name"/"pattern" field, mirroring
// crates/core/src/python_parser.rs's extract_params.
func collectIdentifierParams(paramsNode *sitter.Node, source []byte, identifierKinds map[string]bool) []string {
	if paramsNode == nil {
		return nil
	}

	var params []string
	count := int(paramsNode.ChildCount())
	for i := 0; i < count; i++ {
		child := paramsNode.Child(i)
		if child == nil || isCommentKind(child.Type()) {
			continue
		}
		if identifierKinds[child.Type()] {
			params = append(params, child.Content(source))
			continue
		}
		// typed/default/destructured parameter: look for a name-ish field.
		for _, field := range []string{"name", "pattern", "left"} {
			if named := child.ChildByFieldName(field); named != nil {
				if identifierKinds[named.Type()] {
					params = append(params, named.Content(source))
					break
				}
			}
		}
	}
	return params
}
