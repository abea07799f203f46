package allocation

import (
	"math"
)

// WeightTolerance is the tolerance used when checking that weights add up to 100%.
// Nested hierarchies accumulate rounding errors, so exact equality is never required.
const WeightTolerance = 1e-6

// AssetClass is a node in the tree of asset classes (e.g. Stocks, Bonds, US, International).
//
// A node owns an ordered list of children, each with a weight relative to its siblings. The
// weights of a node's children add up to 1. Leaves are the classes holdings map to.
//
// The tree is built once with NewAssetClass and AddSubclass, then validated; it is read-only
// afterwards.
type AssetClass struct {
	name     string
	children []Subclass
}

// Subclass is a child of an AssetClass together with its sibling-relative weight.
type Subclass struct {
	Weight float64
	Class  *AssetClass
}

// NewAssetClass returns a new leaf asset class.
func NewAssetClass(name string) *AssetClass { return &AssetClass{name: name} }

// Name returns the name of the asset class.
func (c *AssetClass) Name() string { return c.name }

// Children returns the direct children of this class in declaration order.
func (c *AssetClass) Children() []Subclass { return c.children }

// IsLeaf returns true if the class has no children.
func (c *AssetClass) IsLeaf() bool { return len(c.children) == 0 }

// AddSubclass appends a child class with the given weight and returns c for chaining.
func (c *AssetClass) AddSubclass(weight float64, child *AssetClass) *AssetClass {
	c.children = append(c.children, Subclass{Weight: weight, Class: child})
	return c
}

// Validate checks the whole tree: every weight is in [0,1], the weights of each node's
// children add up to 1 within WeightTolerance, and class names are unique.
func (c *AssetClass) Validate() error {
	return c.validate(make(map[string]bool))
}

func (c *AssetClass) validate(seen map[string]bool) error {
	if c.name == "" {
		return &ConfigurationError{Reason: "asset class with an empty name"}
	}
	if seen[c.name] {
		return &ConfigurationError{Class: c.name, Reason: "duplicate asset class"}
	}
	seen[c.name] = true
	if c.IsLeaf() {
		return nil
	}
	total := 0.0
	for _, s := range c.children {
		if s.Class == nil {
			return &ConfigurationError{Class: c.name, Reason: "nil subclass"}
		}
		if math.IsNaN(s.Weight) || s.Weight < 0 || s.Weight > 1 {
			return &ConfigurationError{Class: s.Class.name, Reason: "weight out of [0, 1]", Got: s.Weight, Want: 1, Numeric: true}
		}
		total += s.Weight
		if err := s.Class.validate(seen); err != nil {
			return err
		}
	}
	if math.Abs(total-1) > WeightTolerance {
		return &ConfigurationError{Class: c.name, Reason: "weights of sub-classes do not add up to 100%", Got: total, Want: 1, Numeric: true}
	}
	return nil
}

// Leaves returns the names of the leaf classes in depth-first declaration order.
func (c *AssetClass) Leaves() []string {
	var leaves []string
	c.walk(1, func(n *AssetClass, _ float64) {
		if n.IsLeaf() {
			leaves = append(leaves, n.name)
		}
	})
	return leaves
}

// Find searches the tree for the class named name. It returns the class and its weight relative
// to the whole tree (the product of the weights along the path from c).
//
// For All -> {Stocks 60%, Bonds 40%}, Stocks -> {US 60%, Intl 40%}, Find("US") returns the US
// node and 0.36.
func (c *AssetClass) Find(name string) (*AssetClass, float64, bool) {
	if c.name == name {
		return c, 1, true
	}
	for _, s := range c.children {
		if found, w, ok := s.Class.Find(name); ok {
			return found, w * s.Weight, true
		}
	}
	return nil, 0, false
}

// DesiredRatios returns the desired ratio of the whole portfolio for every leaf class.
func (c *AssetClass) DesiredRatios() map[string]float64 {
	ratios := make(map[string]float64)
	c.walk(1, func(n *AssetClass, w float64) {
		if n.IsLeaf() {
			ratios[n.name] = w
		}
	})
	return ratios
}

// Copy returns a deep copy of the tree.
func (c *AssetClass) Copy() *AssetClass {
	cp := NewAssetClass(c.name)
	for _, s := range c.children {
		cp.AddSubclass(s.Weight, s.Class.Copy())
	}
	return cp
}

// walk visits c and its descendants in pre-order; w is the weight of each node relative to c
// scaled by the initial weight.
func (c *AssetClass) walk(w float64, visit func(*AssetClass, float64)) {
	visit(c, w)
	for _, s := range c.children {
		s.Class.walk(w*s.Weight, visit)
	}
}

// leafSet returns the set of leaf names below c.
func (c *AssetClass) leafSet() map[string]bool {
	set := make(map[string]bool)
	for _, l := range c.Leaves() {
		set[l] = true
	}
	return set
}

// ClassConfig is the nested record an asset class tree is configured from.
type ClassConfig struct {
	Name     string        `yaml:"Name" json:"name"`
	Children []ChildConfig `yaml:"Children,omitempty" json:"children,omitempty"`
}

// ChildConfig is a sub-class entry of a ClassConfig with its sibling-relative ratio.
type ChildConfig struct {
	Ratio       float64 `yaml:"Ratio" json:"ratio"`
	ClassConfig `yaml:",inline"`
}

// Build creates and validates the asset class tree described by cfg.
func (cfg ClassConfig) Build() (*AssetClass, error) {
	root := cfg.build()
	if err := root.Validate(); err != nil {
		return nil, err
	}
	return root, nil
}

func (cfg ClassConfig) build() *AssetClass {
	c := NewAssetClass(cfg.Name)
	for _, child := range cfg.Children {
		c.AddSubclass(child.Ratio, child.ClassConfig.build())
	}
	return c
}

// Config returns the nested record describing the tree, the reverse of ClassConfig.Build.
func (c *AssetClass) Config() ClassConfig {
	cfg := ClassConfig{Name: c.name}
	for _, s := range c.children {
		cfg.Children = append(cfg.Children, ChildConfig{Ratio: s.Weight, ClassConfig: s.Class.Config()})
	}
	return cfg
}
