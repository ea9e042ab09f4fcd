package analyzer

import (
	"math"
	"sort"
)

// APTEDAnalyzer computes tree edit distance via the classic Zhang-Shasha
// key-root recurrence, grounded on pyscn's internal/analyzer/apted.go. Unlike
// pyscn, it never falls back to an approximate distance for large trees:
// spec.md §4.1 requires the engine to always return the true minimum, so the
// size-based shortcuts pyscn applies above 500/2000 nodes are intentionally
// not carried over (see DESIGN.md).
type APTEDAnalyzer struct {
	costModel CostModel
}

// NewAPTEDAnalyzer creates an analyzer using costModel for every operation.
func NewAPTEDAnalyzer(costModel CostModel) *APTEDAnalyzer {
	return &APTEDAnalyzer{costModel: costModel}
}

// ComputeDistance returns the minimum edit distance between tree1 and tree2.
func (a *APTEDAnalyzer) ComputeDistance(tree1, tree2 *TreeNode) float64 {
	if tree1 == nil && tree2 == nil {
		return 0.0
	}
	if tree1 == nil {
		return a.subtreeCost(tree2, a.costModel.Insert)
	}
	if tree2 == nil {
		return a.subtreeCost(tree1, a.costModel.Delete)
	}

	keyRoots1 := PrepareForAPTED(tree1)
	keyRoots2 := PrepareForAPTED(tree2)
	sort.Ints(keyRoots1)
	sort.Ints(keyRoots2)

	return a.apted(tree1, tree2, keyRoots1, keyRoots2)
}

// apted runs the main key-root loop, filling a node-to-node distance table td
// shared across all forest-distance subproblems so repeated subtree pairs are
// never recomputed (spec.md §4.1's memoization requirement).
func (a *APTEDAnalyzer) apted(tree1, tree2 *TreeNode, keyRoots1, keyRoots2 []int) float64 {
	nodes1 := PostOrderNodes(tree1)
	nodes2 := PostOrderNodes(tree2)
	size1, size2 := len(nodes1), len(nodes2)

	td := make([][]float64, size1+1)
	for i := range td {
		td[i] = make([]float64, size2+1)
	}

	for _, i := range keyRoots1 {
		for _, j := range keyRoots2 {
			a.computeForestDistance(nodes1, nodes2, i, j, td)
		}
	}

	return td[size1][size2]
}

// computeForestDistance fills the forest-distance table fd for the forests
// rooted at nodes1[i] and nodes2[j], and records the whole-subtree distance
// into td whenever both roots sit at the left edge of their own forest —
// the Zhang-Shasha "shared left-most leaf" test from spec.md §4.1.
func (a *APTEDAnalyzer) computeForestDistance(nodes1, nodes2 []*TreeNode, i, j int, td [][]float64) {
	lmlI := nodes1[i].LeftMostLeaf
	lmlJ := nodes2[j].LeftMostLeaf

	fd := make([][]float64, i+2)
	for k := range fd {
		fd[k] = make([]float64, j+2)
	}

	for x := lmlI; x <= i; x++ {
		fd[x+1][lmlJ] = fd[x][lmlJ] + a.costModel.Delete(nodes1[x])
	}
	for y := lmlJ; y <= j; y++ {
		fd[lmlI][y+1] = fd[lmlI][y] + a.costModel.Insert(nodes2[y])
	}

	for x := lmlI; x <= i; x++ {
		for y := lmlJ; y <= j; y++ {
			lmlX := nodes1[x].LeftMostLeaf
			lmlY := nodes2[y].LeftMostLeaf

			deleteCost := fd[x][y+1] + a.costModel.Delete(nodes1[x])
			insertCost := fd[x+1][y] + a.costModel.Insert(nodes2[y])

			if lmlX == lmlI && lmlY == lmlJ {
				renameCost := fd[x][y] + a.costModel.Rename(nodes1[x], nodes2[y])
				fd[x+1][y+1] = min3(deleteCost, insertCost, renameCost)
				td[x+1][y+1] = fd[x+1][y+1]
			} else {
				subtreeCost := fd[lmlX][lmlY] + td[x+1][y+1]
				fd[x+1][y+1] = min3(deleteCost, insertCost, subtreeCost)
			}
		}
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

// subtreeCost applies op to every node of root, used for the degenerate case
// where one side of a comparison is an empty tree.
func (a *APTEDAnalyzer) subtreeCost(root *TreeNode, op func(*TreeNode) float64) float64 {
	if root == nil {
		return 0.0
	}
	cost := op(root)
	for _, c := range root.Children {
		cost += a.subtreeCost(c, op)
	}
	return cost
}
