// Package analyzer implements the APTED tree edit distance engine and the
// TSED similarity scorer built on top of it, plus the pair comparison
// driver that applies them across a codebase.
package analyzer

import (
	"fmt"

	"github.com/polydup/polydup/internal/parser"
)

// TreeNode is the APTED-internal ordered tree representation, built once per
// comparison from a parser.Node subtree_ref. It carries the indices the
// engine needs: a stable ID, post-order position, left-most-leaf descendant,
// and key-root marker, grounded on pyscn's internal/analyzer/apted_tree.go.
type TreeNode struct {
	ID    int
	Label string
	Value string

	Children []*TreeNode
	Parent   *TreeNode

	PostOrderID  int
	LeftMostLeaf int
	KeyRoot      bool

	size int // memoized subtree size; reset by AddChild, recomputed by Size
}

// NewTreeNode creates a childless tree node.
func NewTreeNode(id int, label, value string) *TreeNode {
	return &TreeNode{ID: id, Label: label, Value: value, size: 1}
}

// AddChild appends child, preserving sibling order, and invalidates the
// cached size so it is recomputed lazily.
func (t *TreeNode) AddChild(child *TreeNode) {
	if child == nil {
		return
	}
	child.Parent = t
	t.Children = append(t.Children, child)
	t.size = -1
}

// IsLeaf reports whether t has no children.
func (t *TreeNode) IsLeaf() bool {
	return len(t.Children) == 0
}

// Size returns the number of nodes in the subtree rooted at t.
func (t *TreeNode) Size() int {
	if t.size >= 0 {
		return t.size
	}
	size := 1
	for _, c := range t.Children {
		size += c.Size()
	}
	t.size = size
	return size
}

// Height returns the height of the subtree rooted at t (0 for a leaf).
func (t *TreeNode) Height() int {
	if t.IsLeaf() {
		return 0
	}
	max := 0
	for _, c := range t.Children {
		if h := c.Height(); h > max {
			max = h
		}
	}
	return max + 1
}

func (t *TreeNode) String() string {
	if t.Value != "" {
		return fmt.Sprintf("%s(%s)", t.Label, t.Value)
	}
	return t.Label
}

// ConvertNode builds a TreeNode from a parser.Node, reusing the adapter's
// pre-order IDs and keeping label and value as separate fields so the rename
// cost can compare them independently (see Rename in cost.go). This is a
// deliberate divergence from pyscn's getNodeLabel, which bakes value into the
// label string (e.g. "Name(foo)") and so cannot distinguish a rename from a
// structural relabel.
func ConvertNode(n *parser.Node) *TreeNode {
	if n == nil {
		return nil
	}
	t := NewTreeNode(n.ID, n.Label, n.Value)
	for _, child := range n.Children {
		if c := ConvertNode(child); c != nil {
			t.AddChild(c)
		}
	}
	return t
}

// PostOrderTraversal assigns PostOrderID to every node in t in post-order.
func PostOrderTraversal(root *TreeNode) {
	if root == nil {
		return
	}
	id := 0
	postOrder(root, &id)
}

func postOrder(n *TreeNode, id *int) {
	for _, c := range n.Children {
		postOrder(c, id)
	}
	n.PostOrderID = *id
	*id++
}

// ComputeLeftMostLeaves fills in LeftMostLeaf for every node in root, which
// must already have post-order IDs assigned.
func ComputeLeftMostLeaves(root *TreeNode) {
	if root == nil {
		return
	}
	leftMostLeaf(root)
}

func leftMostLeaf(n *TreeNode) int {
	if n.IsLeaf() {
		n.LeftMostLeaf = n.PostOrderID
		return n.LeftMostLeaf
	}
	lml := leftMostLeaf(n.Children[0])
	n.LeftMostLeaf = lml
	for i := 1; i < len(n.Children); i++ {
		leftMostLeaf(n.Children[i])
	}
	return lml
}

// ComputeKeyRoots returns the post-order IDs of root's key roots: a node is a
// key root if no earlier-visited node (in a pre-order walk) shares its
// left-most leaf. The root is always a key root.
func ComputeKeyRoots(root *TreeNode) []int {
	if root == nil {
		return nil
	}
	var keyRoots []int
	visited := make(map[int]bool)
	markKeyRoots(root, &keyRoots, visited)
	return keyRoots
}

func markKeyRoots(n *TreeNode, keyRoots *[]int, visited map[int]bool) {
	if !visited[n.LeftMostLeaf] {
		n.KeyRoot = true
		*keyRoots = append(*keyRoots, n.PostOrderID)
		visited[n.LeftMostLeaf] = true
	}
	for _, c := range n.Children {
		markKeyRoots(c, keyRoots, visited)
	}
}

// PrepareForAPTED computes all indices the engine needs and returns root's
// key roots in no particular order; the engine sorts them itself.
func PrepareForAPTED(root *TreeNode) []int {
	if root == nil {
		return nil
	}
	PostOrderTraversal(root)
	ComputeLeftMostLeaves(root)
	return ComputeKeyRoots(root)
}

// PostOrderNodes returns every node of root ordered by PostOrderID. root must
// already have post-order IDs assigned.
func PostOrderNodes(root *TreeNode) []*TreeNode {
	if root == nil {
		return nil
	}
	nodes := make([]*TreeNode, root.Size())
	fillPostOrder(root, nodes)
	return nodes
}

func fillPostOrder(n *TreeNode, out []*TreeNode) {
	for _, c := range n.Children {
		fillPostOrder(c, out)
	}
	out[n.PostOrderID] = n
}
