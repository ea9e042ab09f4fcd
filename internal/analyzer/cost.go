package analyzer

// CostModel supplies the per-operation costs the APTED engine minimizes over,
// grounded on pyscn's internal/analyzer/apted_cost.go CostModel interface.
type CostModel interface {
	Insert(node *TreeNode) float64
	Delete(node *TreeNode) float64
	Rename(node1, node2 *TreeNode) float64
}

// CostOptions configures DefaultCostModel. Defaults mirror the original
// implementation's TSEDOptions.apted_options: rename is cheap relative to a
// full delete+insert pair, since the engine prefers renaming a structurally
// identical node over replacing it outright.
type CostOptions struct {
	RenameCost float64
	DeleteCost float64
	InsertCost float64
}

// DefaultCostOptions returns the original tool's defaults.
func DefaultCostOptions() CostOptions {
	return CostOptions{RenameCost: 0.3, DeleteCost: 1.0, InsertCost: 1.0}
}

// DefaultCostModel is a uniform cost model: every node of a given kind costs
// the same to insert or delete, and renaming two nodes costs RenameCost
// whenever their (label, value) pair differs, 0 otherwise, per spec.md §4.1.
type DefaultCostModel struct {
	Options CostOptions
}

// NewDefaultCostModel creates a cost model using the original tool's default
// triple (rename=0.3, delete=1.0, insert=1.0).
func NewDefaultCostModel() *DefaultCostModel {
	return &DefaultCostModel{Options: DefaultCostOptions()}
}

// NewCostModel creates a cost model from explicit options.
func NewCostModel(opts CostOptions) *DefaultCostModel {
	return &DefaultCostModel{Options: opts}
}

func (c *DefaultCostModel) Insert(node *TreeNode) float64 {
	return c.Options.InsertCost
}

func (c *DefaultCostModel) Delete(node *TreeNode) float64 {
	return c.Options.DeleteCost
}

func (c *DefaultCostModel) Rename(node1, node2 *TreeNode) float64 {
	if node1 == nil || node2 == nil {
		return c.Options.RenameCost
	}
	if node1.Label == node2.Label && node1.Value == node2.Value {
		return 0.0
	}
	return c.Options.RenameCost
}

// WeightedCostModel scales a base model's costs by fixed per-operation
// weights, kept from pyscn's WeightedCostModel for callers that want to bias
// the engine (e.g. penalize insertions more than deletions) without writing a
// new CostModel implementation.
type WeightedCostModel struct {
	InsertWeight float64
	DeleteWeight float64
	RenameWeight float64
	Base         CostModel
}

func NewWeightedCostModel(insertWeight, deleteWeight, renameWeight float64, base CostModel) *WeightedCostModel {
	return &WeightedCostModel{InsertWeight: insertWeight, DeleteWeight: deleteWeight, RenameWeight: renameWeight, Base: base}
}

func (c *WeightedCostModel) Insert(node *TreeNode) float64 {
	return c.InsertWeight * c.Base.Insert(node)
}

func (c *WeightedCostModel) Delete(node *TreeNode) float64 {
	return c.DeleteWeight * c.Base.Delete(node)
}

func (c *WeightedCostModel) Rename(node1, node2 *TreeNode) float64 {
	return c.RenameWeight * c.Base.Rename(node1, node2)
}
