package allocation

import (
	"maps"
	"slices"
)

// AllocationNode is the computed allocation of one asset class. It mirrors the AssetClass tree
// and is rebuilt on every computation.
//
// Ratios are kept at full precision (0.3907 for 39.07%); use the Percent accessors to display
// them.
type AllocationNode struct {
	Name string

	// Value is the amount of money mapped to this class and its descendants.
	Value float64

	ActualOfParent  float64 // ratio of the parent's value invested in this class
	DesiredOfParent float64 // the class weight
	ActualOfWhole   float64 // ratio of the portfolio invested in this class
	DesiredOfWhole  float64 // product of the weights from the root

	// Difference is the money to add to this class to reach its desired allocation: positive
	// for under-weighted classes, negative for over-weighted ones.
	Difference float64

	Children []*AllocationNode
}

// IsLeaf returns true for nodes without children.
func (n *AllocationNode) IsLeaf() bool { return len(n.Children) == 0 }

func (n *AllocationNode) ActualPercent() Percent          { return Ratio(n.ActualOfWhole) }
func (n *AllocationNode) DesiredPercent() Percent         { return Ratio(n.DesiredOfWhole) }
func (n *AllocationNode) ActualPercentOfParent() Percent  { return Ratio(n.ActualOfParent) }
func (n *AllocationNode) DesiredPercentOfParent() Percent { return Ratio(n.DesiredOfParent) }

// Leaves returns the leaf nodes in declaration order.
func (n *AllocationNode) Leaves() []*AllocationNode {
	var leaves []*AllocationNode
	n.Walk(func(c *AllocationNode, _ int) {
		if c.IsLeaf() {
			leaves = append(leaves, c)
		}
	})
	return leaves
}

// Find returns the node named name, or nil.
func (n *AllocationNode) Find(name string) *AllocationNode {
	var found *AllocationNode
	n.Walk(func(c *AllocationNode, _ int) {
		if found == nil && c.Name == name {
			found = c
		}
	})
	return found
}

// Walk visits n and its descendants in pre-order. depth is 0 for n.
func (n *AllocationNode) Walk(visit func(node *AllocationNode, depth int)) {
	n.walk(0, visit)
}

func (n *AllocationNode) walk(depth int, visit func(*AllocationNode, int)) {
	visit(n, depth)
	for _, c := range n.Children {
		c.walk(depth+1, visit)
	}
}

// difference is the single definition of the gap between desired and actual money used by the
// calculator and the optimizer: positive means money must be added.
func difference(desired, actual float64) float64 { return desired - actual }

// ComputeAllocation computes the actual and desired allocation of every class of the tree given
// the money invested in each leaf class.
//
// Every class of the tree is present in the result, including those with no money or a zero
// weight. It fails with a ConfigurationError if the tree is invalid or if leafDollars names a
// class that is not a leaf of the tree.
func ComputeAllocation(tree *AssetClass, leafDollars map[string]float64) (*AllocationNode, error) {
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	if err := checkLeafDollars(tree, leafDollars); err != nil {
		return nil, err
	}
	root := newAllocationNode(tree, 1, leafDollars)
	root.fill(root.Value)
	return root, nil
}

// ComputeAllocationForSubset computes the allocation across the selected classes only.
//
// The selection must be a cut of the tree: together the classes cover every leaf exactly once
// (none is an ancestor or descendant of another). The selected classes are re-parented under a
// synthetic root, named after the tree root, with their whole-portfolio weights renormalized to
// sum to 1. It fails with a CoverageError if the selection is not a cut.
func ComputeAllocationForSubset(tree *AssetClass, leafDollars map[string]float64, names []string) (*AllocationNode, error) {
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	if err := checkLeafDollars(tree, leafDollars); err != nil {
		return nil, err
	}

	type selected struct {
		class  *AssetClass
		weight float64
	}
	var (
		cut      []selected
		coverErr CoverageError
		owner    = make(map[string]string) // leaf -> selected class covering it
		total    float64
	)
	for _, name := range names {
		class, w, ok := tree.Find(name)
		if !ok {
			coverErr.Unknown = append(coverErr.Unknown, name)
			continue
		}
		for _, leaf := range class.Leaves() {
			if other, dup := owner[leaf]; dup {
				coverErr.Overlapping = appendUnique(coverErr.Overlapping, other, name)
				continue
			}
			owner[leaf] = name
		}
		cut = append(cut, selected{class, w})
		total += w
	}
	for _, leaf := range tree.Leaves() {
		if _, ok := owner[leaf]; !ok {
			coverErr.Uncovered = append(coverErr.Uncovered, leaf)
		}
	}
	if len(coverErr.Unknown)+len(coverErr.Overlapping)+len(coverErr.Uncovered) > 0 {
		return nil, &coverErr
	}

	root := &AllocationNode{Name: tree.Name(), DesiredOfParent: 1}
	for _, s := range cut {
		w := s.weight
		if total != 1 && total != 0 {
			w /= total
		}
		child := newAllocationNode(s.class, w, leafDollars)
		root.Value += child.Value
		root.Children = append(root.Children, child)
	}
	root.fill(root.Value)
	return root, nil
}

// newAllocationNode creates the node for c and its descendants, accumulating money bottom-up.
func newAllocationNode(c *AssetClass, weight float64, leafDollars map[string]float64) *AllocationNode {
	n := &AllocationNode{Name: c.Name(), DesiredOfParent: weight}
	if c.IsLeaf() {
		n.Value = leafDollars[c.Name()]
		return n
	}
	for _, s := range c.Children() {
		child := newAllocationNode(s.Class, s.Weight, leafDollars)
		n.Value += child.Value
		n.Children = append(n.Children, child)
	}
	return n
}

// fill computes the ratios top-down from the root; total is the portfolio value.
func (n *AllocationNode) fill(total float64) {
	n.DesiredOfWhole = n.DesiredOfParent
	if total != 0 {
		n.ActualOfParent = 1
	}
	n.fillChildren(total)
}

func (n *AllocationNode) fillChildren(total float64) {
	if total != 0 {
		n.ActualOfWhole = n.Value / total
	}
	n.Difference = difference(n.DesiredOfWhole*total, n.Value)
	for _, c := range n.Children {
		if n.Value != 0 {
			c.ActualOfParent = c.Value / n.Value
		}
		c.DesiredOfWhole = n.DesiredOfWhole * c.DesiredOfParent
		c.fillChildren(total)
	}
}

// checkLeafDollars returns a ConfigurationError for the first key (in name order) that is not a
// leaf of the tree.
func checkLeafDollars(tree *AssetClass, leafDollars map[string]float64) error {
	leaves := tree.leafSet()
	for _, name := range slices.Sorted(maps.Keys(leafDollars)) {
		if !leaves[name] {
			return &ConfigurationError{Class: name, Reason: "unknown or non-leaf asset class"}
		}
	}
	return nil
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(list, v) {
			list = append(list, v)
		}
	}
	return list
}
