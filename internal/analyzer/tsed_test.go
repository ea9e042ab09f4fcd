package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildFunctionTree constructs a small FunctionDef tree shared by the
// identical/renamed/restructured scenarios below, mirroring the fixtures in
// crates/core/src/tsed.rs's own unit tests.
func buildFunctionTree(name, varName, op string) *TreeNode {
	root := NewTreeNode(0, "FunctionDef", name)
	params := NewTreeNode(1, "Arguments", "")
	root.AddChild(params)
	body := NewTreeNode(2, "Return", "")
	root.AddChild(body)
	expr := NewTreeNode(3, "BinOp", op)
	body.AddChild(expr)
	expr.AddChild(NewTreeNode(4, "Name", varName))
	expr.AddChild(NewTreeNode(5, "Constant", "1"))
	return root
}

func TestScore_IdenticalCode(t *testing.T) {
	engine := NewAPTEDAnalyzer(NewDefaultCostModel())
	tree1 := buildFunctionTree("add", "x", "+")
	tree2 := buildFunctionTree("add", "x", "+")

	// These trees have 6 nodes, so the size penalty is off to score pure TSED.
	opts := DefaultScoreOptions()
	opts.SizePenalty = false
	_, similarity := ScoreTrees(engine, tree1, tree2, opts)
	assert.Equal(t, 1.0, similarity)
}

func TestScore_RenamedFunction(t *testing.T) {
	// Same structure, different function/parameter names: a Type-2 clone.
	engine := NewAPTEDAnalyzer(NewDefaultCostModel())
	tree1 := buildFunctionTree("add", "x", "+")
	tree2 := buildFunctionTree("sum_values", "value", "+")

	opts := DefaultScoreOptions()
	opts.SizePenalty = false
	_, similarity := ScoreTrees(engine, tree1, tree2, opts)
	assert.Greater(t, similarity, 0.8, "renaming alone should keep similarity high")
	assert.Less(t, similarity, 1.0, "renaming still costs something")
}

func TestScore_DifferentStructure(t *testing.T) {
	engine := NewAPTEDAnalyzer(NewDefaultCostModel())
	tree1 := buildFunctionTree("add", "x", "+")

	tree2 := NewTreeNode(0, "FunctionDef", "unrelated")
	tree2.AddChild(NewTreeNode(1, "Arguments", ""))
	loop := NewTreeNode(2, "For", "")
	tree2.AddChild(loop)
	cond := NewTreeNode(3, "If", "")
	loop.AddChild(cond)
	cond.AddChild(NewTreeNode(4, "Call", "print"))
	cond.AddChild(NewTreeNode(5, "Call", "log"))

	_, similarity := ScoreTrees(engine, tree1, tree2, DefaultScoreOptions())
	assert.Less(t, similarity, 0.5, "structurally different functions should score low")
}

func TestScore_ShortFunctionPenalty(t *testing.T) {
	small1 := NewTreeNode(0, "FunctionDef", "f")
	small1.AddChild(NewTreeNode(1, "Pass", ""))

	small2 := NewTreeNode(0, "FunctionDef", "g")
	small2.AddChild(NewTreeNode(1, "Pass", ""))

	engine := NewAPTEDAnalyzer(NewDefaultCostModel())
	distance, withPenalty := ScoreTrees(engine, small1, small2, DefaultScoreOptions())

	noPenaltyOpts := DefaultScoreOptions()
	noPenaltyOpts.SizePenalty = false
	withoutPenalty := Score(distance, small1, small2, noPenaltyOpts)

	assert.LessOrEqual(t, withPenalty, withoutPenalty, "size penalty should never increase the score")
}

func TestScore_SizeRatioPenalty(t *testing.T) {
	small := NewTreeNode(0, "FunctionDef", "f")
	for i := 1; i <= 25; i++ {
		small.AddChild(NewTreeNode(i, "Pass", ""))
	}

	large := NewTreeNode(0, "FunctionDef", "f")
	for i := 1; i <= 80; i++ {
		large.AddChild(NewTreeNode(i, "Pass", ""))
	}

	engine := NewAPTEDAnalyzer(NewDefaultCostModel())
	distance, score := ScoreTrees(engine, small, large, DefaultScoreOptions())

	noPenaltyOpts := DefaultScoreOptions()
	noPenaltyOpts.SizePenalty = false
	noPenaltyScore := Score(distance, small, large, noPenaltyOpts)

	assert.Less(t, score, noPenaltyScore, "a lopsided size ratio must apply the sqrt(r) penalty")
}

func TestScore_ClampedToUnitInterval(t *testing.T) {
	tree1 := NewTreeNode(0, "A", "")
	tree2 := NewTreeNode(0, "A", "")
	_, similarity := ScoreTrees(NewAPTEDAnalyzer(NewDefaultCostModel()), tree1, tree2, DefaultScoreOptions())
	assert.GreaterOrEqual(t, similarity, 0.0)
	assert.LessOrEqual(t, similarity, 1.0)
}
