package allocation

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultIncrements is the number of increments a cash delta is split into when the request
	// does not say otherwise.
	DefaultIncrements = 1000

	// ZeroTargetFloor replaces the desired ratio of zero-target classes in the objective, so that
	// any money left in them is heavily penalised.
	ZeroTargetFloor = 1e-4

	// dust is the amount of money considered to be zero.
	dust = 1e-6
	// tieTolerance is the relative tolerance under which two improvements are considered equal.
	tieTolerance = 1e-9
)

// AssetValue is the resolved value of a holding and how it is mapped to leaf classes.
type AssetValue struct {
	Name    string
	Value   float64
	Mapping ClassMapping
}

// AllocateRequest describes an allocation of money in a single account.
type AllocateRequest struct {
	// Cash is the money to add (positive) or withdraw (negative) across the assets.
	Cash float64
	// Assets are the assets of the account, in declaration order.
	Assets []AssetValue
	// Classes is the desired allocation of the whole portfolio.
	Classes *AssetClass
	// Elsewhere is the money invested in each leaf class outside of Assets, i.e. in the other
	// accounts of the portfolio.
	Elsewhere map[string]float64
	// Exclude lists the names of the assets that must not be touched.
	Exclude []string
	// Rebalance allows selling some assets to buy others within the account. The net delta is
	// still Cash.
	Rebalance bool
	// Increments is the number of steps Cash is split into, DefaultIncrements when zero.
	Increments int
}

// AssetDelta is the money to add to (positive) or remove from (negative) an asset.
type AssetDelta struct {
	Name  string
	Delta float64
}

// Deltas is the result of an allocation, in the declaration order of the assets.
type Deltas []AssetDelta

// Map returns the deltas indexed by asset name.
func (d Deltas) Map() map[string]float64 {
	m := make(map[string]float64, len(d))
	for _, a := range d {
		m[a.Name] = a.Delta
	}
	return m
}

// Sum returns the sum of all deltas.
func (d Deltas) Sum() float64 {
	sum := 0.0
	for _, a := range d {
		sum += a.Delta
	}
	return sum
}

// Allocate distributes req.Cash over the assets of an account so that the allocation of the
// whole portfolio gets as close as possible to the desired one.
//
// The cash is moved in small increments. Each increment goes to (or comes from) the asset that
// most reduces the sum over leaf classes of (actual − desired)² / desired per dollar moved. When
// two assets improve equally, the one whose classes are the furthest from their target wins,
// then the first declared. This greedy search is a local minimization: it does not guarantee the
// global optimum.
//
// Without Rebalance every asset moves in the direction of Cash, and a withdrawal never takes an
// asset below zero. With Rebalance, all the eligible assets are sold first and the proceeds plus
// Cash are reallocated.
//
// The returned deltas always add up to req.Cash. Excluded assets get a zero delta.
func Allocate(req AllocateRequest) (Deltas, error) {
	s, err := newSolver(req)
	if err != nil {
		return nil, err
	}
	if err := s.run(req.Cash, req.Rebalance); err != nil {
		return nil, err
	}
	res := make(Deltas, len(req.Assets))
	for i, a := range req.Assets {
		res[i] = AssetDelta{Name: a.Name, Delta: s.x[i]}
	}
	return res, nil
}

// solver holds the working state of an allocation.
type solver struct {
	leaves   []string
	desired  []float64   // desired ratio of the whole per leaf
	weight   []float64   // objective weight per leaf
	rows     [][]float64 // class ratios per asset, indexed like leaves
	values   []float64   // current value per asset
	eligible []bool      // asset may move
	x        []float64   // delta per asset
	dollars  []float64   // money per leaf, with deltas applied
	total    float64     // sum of dollars
	incs     int

	scratch []float64 // candidate dollars
	dev     []float64 // deviations of the objective
}

func newSolver(req AllocateRequest) (*solver, error) {
	if req.Classes == nil {
		return nil, &ConfigurationError{Reason: "missing asset classes"}
	}
	if err := req.Classes.Validate(); err != nil {
		return nil, err
	}
	if err := checkLeafDollars(req.Classes, req.Elsewhere); err != nil {
		return nil, err
	}
	if math.IsNaN(req.Cash) || math.IsInf(req.Cash, 0) {
		return nil, &InputInconsistencyError{Reason: "cash is not a number", Got: req.Cash, Numeric: true}
	}

	s := &solver{leaves: req.Classes.Leaves(), incs: req.Increments}
	if s.incs <= 0 {
		s.incs = DefaultIncrements
	}
	index := make(map[string]int, len(s.leaves))
	ratios := req.Classes.DesiredRatios()
	for j, leaf := range s.leaves {
		index[leaf] = j
		d, w := ratios[leaf], ratios[leaf]
		if d == 0 {
			w = ZeroTargetFloor
		}
		s.desired = append(s.desired, d)
		s.weight = append(s.weight, w)
	}
	s.dollars = make([]float64, len(s.leaves))
	s.scratch = make([]float64, len(s.leaves))
	s.dev = make([]float64, len(s.leaves))
	for leaf, v := range req.Elsewhere {
		s.dollars[index[leaf]] += v
	}

	leafSet := req.Classes.leafSet()
	names := make(map[string]bool, len(req.Assets))
	for _, a := range req.Assets {
		if names[a.Name] {
			return nil, &InputInconsistencyError{Asset: a.Name, Reason: "duplicate asset"}
		}
		names[a.Name] = true
		if a.Value < 0 || math.IsNaN(a.Value) {
			return nil, &InputInconsistencyError{Asset: a.Name, Reason: "negative asset value", Got: a.Value, Numeric: true}
		}
		if err := a.Mapping.Validate(a.Name); err != nil {
			return nil, err
		}
		if err := a.Mapping.checkLeaves(a.Name, leafSet); err != nil {
			return nil, err
		}
		row := make([]float64, len(s.leaves))
		for class, r := range a.Mapping {
			row[index[class]] = r
		}
		s.rows = append(s.rows, row)
		s.values = append(s.values, a.Value)
		s.eligible = append(s.eligible, !slices.Contains(req.Exclude, a.Name))
		floats.AddScaled(s.dollars, a.Value, row)
	}
	for _, name := range req.Exclude {
		if !names[name] {
			return nil, &InputInconsistencyError{Asset: name, Reason: "excluded asset is not part of the account"}
		}
	}
	s.x = make([]float64, len(req.Assets))
	s.total = floats.Sum(s.dollars)
	return s, nil
}

// run moves cash across the eligible assets.
func (s *solver) run(cash float64, rebalance bool) error {
	held := 0.0
	for i := range s.values {
		if s.eligible[i] {
			held += s.values[i]
		}
	}
	if -cash > held+dust {
		return &InputInconsistencyError{Reason: "cannot withdraw more than the eligible assets hold", Got: -cash, Want: held, Numeric: true}
	}
	if rebalance {
		for i := range s.values {
			if s.eligible[i] {
				s.move(i, -s.values[i])
			}
		}
		cash += held
	}
	if math.Abs(cash) <= dust {
		s.settle(cash, -1)
		return nil
	}
	if !slices.Contains(s.eligible, true) {
		return &InputInconsistencyError{Reason: "no asset is eligible to receive or provide cash", Got: cash, Numeric: true}
	}

	sign := 1.0
	if cash < 0 {
		sign = -1
	}
	if sign > 0 && !s.canBuy() {
		return &InputInconsistencyError{Reason: "all eligible assets are mapped to asset classes with a zero target", Got: cash, Numeric: true}
	}

	remaining := math.Abs(cash)
	step := remaining / float64(s.incs)
	last := -1
	for remaining > dust {
		amount := step
		if remaining < step*(1+tieTolerance) {
			amount = remaining
		}
		i, m := s.best(sign, amount)
		if i < 0 {
			break
		}
		s.move(i, sign*m)
		remaining -= m
		last = i
	}
	s.settle(sign*remaining, last)
	return nil
}

// canBuy returns true if at least one eligible asset has some value mapped to a class with a
// non-zero target.
func (s *solver) canBuy() bool {
	for i := range s.rows {
		if s.eligible[i] && s.buyable(i) {
			return true
		}
	}
	return false
}

func (s *solver) buyable(i int) bool {
	for j, r := range s.rows[i] {
		if r > 0 && s.desired[j] > 0 {
			return true
		}
	}
	return false
}

// best returns the asset to move and the amount to move it by, or -1 if no asset can move.
func (s *solver) best(sign, amount float64) (int, float64) {
	bestI, bestM, bestGain, bestGap := -1, 0.0, 0.0, 0.0
	current := s.objective(s.dollars, s.total)
	for i := range s.rows {
		if !s.eligible[i] {
			continue
		}
		m := amount
		if sign < 0 {
			left := s.values[i] + s.x[i]
			if left <= dust {
				continue
			}
			m = min(amount, left)
		} else if !s.buyable(i) {
			continue
		}
		floats.AddScaledTo(s.scratch, s.dollars, sign*m, s.rows[i])
		gain := (s.objective(s.scratch, s.total+sign*m) - current) / m
		gap := s.gap(i, sign)
		switch {
		case bestI < 0:
		case gain < bestGain-tieTolerance*math.Max(math.Abs(gain), math.Abs(bestGain)):
		case gain <= bestGain+tieTolerance*math.Max(math.Abs(gain), math.Abs(bestGain)) && gap > bestGap:
		default:
			continue
		}
		bestI, bestM, bestGain, bestGap = i, m, gain, gap
	}
	return bestI, bestM
}

// objective returns Σ (dollars_j/total − desired_j)² / weight_j.
func (s *solver) objective(dollars []float64, total float64) float64 {
	if total <= dust {
		return 0
	}
	dev := s.dev
	floats.ScaleTo(dev, 1/total, dollars)
	floats.Sub(dev, s.desired)
	floats.Mul(dev, dev)
	floats.Div(dev, s.weight)
	return floats.Sum(dev)
}

// gap is how much the classes of asset i need money (sign > 0) or need to shed it (sign < 0),
// as a ratio of the whole portfolio.
func (s *solver) gap(i int, sign float64) float64 {
	if s.total <= dust {
		return 0
	}
	g := 0.0
	for j, r := range s.rows[i] {
		g += r * difference(s.desired[j], s.dollars[j]/s.total)
	}
	return sign * g
}

// move applies delta to asset i.
func (s *solver) move(i int, delta float64) {
	s.x[i] += delta
	floats.AddScaled(s.dollars, delta, s.rows[i])
	s.total += delta
}

// settle assigns the money left by rounding to asset i, or to the first eligible asset when i
// is negative.
func (s *solver) settle(rest float64, i int) {
	if rest == 0 {
		return
	}
	if i < 0 {
		i = slices.Index(s.eligible, true)
		if i < 0 {
			return
		}
	}
	s.move(i, rest)
}
