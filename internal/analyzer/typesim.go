package analyzer

import (
	"sort"

	"github.com/polydup/polydup/internal/parser"
)

// TypeTree builds an APTED-ready tree from a parser.TypeRecord's normalized
// property list: properties are sorted by name before construction, so a
// reordered field does not by itself register as a structural difference.
// Each field's type text is used as written; an optional wrapper such as
// Option<T> is not stripped and does count as a difference. This is the
// type-definition similarity application spec.md scopes as "covered only by
// reference" — it reuses TreeNode/APTED/Score wholesale and adds no new
// algorithm.
func TypeTree(t *parser.TypeRecord) *TreeNode {
	if t == nil {
		return nil
	}

	props := make([]parser.PropertyRecord, len(t.Properties))
	copy(props, t.Properties)
	sort.Slice(props, func(i, j int) bool { return props[i].Name < props[j].Name })

	id := 0
	root := NewTreeNode(id, "TypeDef", t.Name)
	for _, p := range props {
		id++
		field := NewTreeNode(id, "Field", p.Name)
		id++
		field.AddChild(NewTreeNode(id, "FieldType", p.Type))
		root.AddChild(field)
	}
	return root
}

// CompareTypes scores two type definitions using the same engine and options
// a function-pair comparison would use.
func CompareTypes(engine *APTEDAnalyzer, a, b *parser.TypeRecord, opts ScoreOptions) (distance, similarity float64) {
	treeA, treeB := TypeTree(a), TypeTree(b)
	return ScoreTrees(engine, treeA, treeB, opts)
}
