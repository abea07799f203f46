package allocation

import (
	"errors"
	"testing"
)

// schwab returns the assets of a single account invested in ninetyTen.
func schwab(us, intl, bond float64) []AssetValue {
	return []AssetValue{
		{Name: "Total US", Value: us, Mapping: ClassMapping{"US": 1}},
		{Name: "Total Intl", Value: intl, Mapping: ClassMapping{"Intl": 1}},
		{Name: "Total Bond", Value: bond, Mapping: ClassMapping{"Bond": 1}},
	}
}

func checkDeltas(t *testing.T, got Deltas, want map[string]float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Allocate() = %v, want %v", got, want)
	}
	for _, d := range got {
		if !near(d.Delta, want[d.Name], tol) {
			t.Errorf("Allocate()[%s] = %.4f, want %.4f", d.Name, d.Delta, want[d.Name])
		}
	}
}

func TestAllocate(t *testing.T) {
	testCases := []struct {
		name      string
		cash      float64
		assets    []AssetValue
		rebalance bool
		want      map[string]float64
		tol       float64
	}{
		{
			name:   "add to reach the target",
			cash:   3,
			assets: schwab(53, 35, 9),
			want:   map[string]float64{"Total US": 1, "Total Intl": 1, "Total Bond": 1},
			tol:    0.01,
		},
		{
			name:   "add keeping the target",
			cash:   100,
			assets: schwab(54, 36, 10),
			want:   map[string]float64{"Total US": 54, "Total Intl": 36, "Total Bond": 10},
			tol:    0.25,
		},
		{
			name:   "withdraw everything",
			cash:   -200,
			assets: schwab(108, 72, 20),
			want:   map[string]float64{"Total US": -108, "Total Intl": -72, "Total Bond": -20},
			tol:    1e-4,
		},
		{
			name:   "withdraw from the over weighted class",
			cash:   -10,
			assets: schwab(64, 36, 10),
			want:   map[string]float64{"Total US": -10, "Total Intl": 0, "Total Bond": 0},
			tol:    0.01,
		},
		{
			name:      "rebalance only",
			assets:    schwab(60, 40, 0),
			rebalance: true,
			want:      map[string]float64{"Total US": -6, "Total Intl": -4, "Total Bond": 10},
			tol:       0.5,
		},
		{
			name:      "rebalance with cash",
			cash:      10,
			assets:    schwab(50, 40, 0),
			rebalance: true,
			want:      map[string]float64{"Total US": 4, "Total Intl": -4, "Total Bond": 10},
			tol:       0.5,
		},
		{
			name:   "nothing to do",
			assets: schwab(60, 40, 0),
			want:   map[string]float64{"Total US": 0, "Total Intl": 0, "Total Bond": 0},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Allocate(AllocateRequest{
				Cash:      tc.cash,
				Assets:    tc.assets,
				Classes:   ninetyTen(),
				Rebalance: tc.rebalance,
			})
			if err != nil {
				t.Fatalf("Allocate() error = %v", err)
			}
			checkDeltas(t, got, tc.want, tc.tol)
			if !near(got.Sum(), tc.cash, 1e-6) {
				t.Errorf("Allocate().Sum() = %v, want %v", got.Sum(), tc.cash)
			}
		})
	}
}

func TestAllocate_SumIsExact(t *testing.T) {
	assets := []AssetValue{
		{Name: "Target 2050", Value: 1234.56, Mapping: ClassMapping{"US": 0.5, "Intl": 0.3, "Bond": 0.2}},
		{Name: "VTI", Value: 10, Mapping: ClassMapping{"US": 1}},
		{Name: "BND", Value: 5000, Mapping: ClassMapping{"Bond": 1}},
	}
	elsewhere := map[string]float64{"Intl": 2000, "US": 300}
	for _, cash := range []float64{0.01, 1, 333.33, 12345.678, -0.01, -1000, -6244.56} {
		for _, rebalance := range []bool{false, true} {
			got, err := Allocate(AllocateRequest{Cash: cash, Assets: assets, Classes: ninetyTen(), Elsewhere: elsewhere, Rebalance: rebalance})
			if err != nil {
				t.Fatalf("Allocate(%v, rebalance=%v) error = %v", cash, rebalance, err)
			}
			if !near(got.Sum(), cash, 1e-6) {
				t.Errorf("Allocate(%v, rebalance=%v).Sum() = %v, want %v", cash, rebalance, got.Sum(), cash)
			}
			for i, d := range got {
				if v := assets[i].Value + d.Delta; v < -1e-6 {
					t.Errorf("Allocate(%v, rebalance=%v) leaves %s at %v", cash, rebalance, d.Name, v)
				}
				if !rebalance && d.Delta*cash < 0 {
					t.Errorf("Allocate(%v) moves %s by %v, against the cash", cash, d.Name, d.Delta)
				}
			}
		}
	}
}

func TestAllocate_ExcludedClassIsUnaffected(t *testing.T) {
	assets := schwab(53, 35, 9)
	for _, cash := range []float64{50, -50} {
		for _, rebalance := range []bool{false, true} {
			got, err := Allocate(AllocateRequest{
				Cash:      cash,
				Assets:    assets,
				Classes:   ninetyTen(),
				Exclude:   []string{"Total Bond"},
				Rebalance: rebalance,
			})
			if err != nil {
				t.Fatalf("Allocate(%v, rebalance=%v) error = %v", cash, rebalance, err)
			}
			if d := got.Map()["Total Bond"]; d != 0 {
				t.Errorf("Allocate(%v, rebalance=%v) moves the excluded Total Bond by %v", cash, rebalance, d)
			}
			if !near(got.Sum(), cash, 1e-6) {
				t.Errorf("Allocate(%v, rebalance=%v).Sum() = %v, want %v", cash, rebalance, got.Sum(), cash)
			}
		}
	}
}

func TestAllocate_TieBreaksByDeclarationOrder(t *testing.T) {
	assets := []AssetValue{
		{Name: "Total US", Value: 53, Mapping: ClassMapping{"US": 1}},
		{Name: "Total Intl", Value: 17.5, Mapping: ClassMapping{"Intl": 1}},
		{Name: "Ex US", Value: 17.5, Mapping: ClassMapping{"Intl": 1}},
		{Name: "Total Bond", Value: 9, Mapping: ClassMapping{"Bond": 1}},
	}
	got, err := Allocate(AllocateRequest{Cash: 3, Assets: assets, Classes: ninetyTen()})
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	checkDeltas(t, got, map[string]float64{"Total US": 1, "Total Intl": 1, "Ex US": 0, "Total Bond": 1}, 0.01)
}

func TestAllocate_ZeroTarget(t *testing.T) {
	tree := NewAssetClass("All").
		AddSubclass(1, NewAssetClass("US")).
		AddSubclass(0, NewAssetClass("Gold"))
	assets := []AssetValue{
		{Name: "VTI", Value: 50, Mapping: ClassMapping{"US": 1}},
		{Name: "GLD", Value: 50, Mapping: ClassMapping{"Gold": 1}},
	}

	got, err := Allocate(AllocateRequest{Cash: -50, Assets: assets, Classes: tree})
	if err != nil {
		t.Fatalf("Allocate(withdraw) error = %v", err)
	}
	checkDeltas(t, got, map[string]float64{"VTI": 0, "GLD": -50}, 1e-4)

	got, err = Allocate(AllocateRequest{Cash: 10, Assets: assets, Classes: tree})
	if err != nil {
		t.Fatalf("Allocate(add) error = %v", err)
	}
	checkDeltas(t, got, map[string]float64{"VTI": 10, "GLD": 0}, 1e-9)

	got, err = Allocate(AllocateRequest{Assets: assets, Classes: tree, Rebalance: true})
	if err != nil {
		t.Fatalf("Allocate(rebalance) error = %v", err)
	}
	checkDeltas(t, got, map[string]float64{"VTI": 50, "GLD": -50}, 1e-4)
}

func TestAllocate_Increments(t *testing.T) {
	got, err := Allocate(AllocateRequest{Cash: 3, Assets: schwab(53, 35, 9), Classes: ninetyTen(), Increments: 1})
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	// a single increment goes to a single asset
	moved := 0
	for _, d := range got {
		if d.Delta != 0 {
			moved++
		}
	}
	if moved != 1 || got.Sum() != 3 {
		t.Errorf("Allocate(Increments: 1) = %v, want a single asset receiving 3", got)
	}
}

func TestAllocate_Errors(t *testing.T) {
	gold := NewAssetClass("All").
		AddSubclass(1, NewAssetClass("US")).
		AddSubclass(0, NewAssetClass("Gold"))

	testCases := []struct {
		name    string
		req     AllocateRequest
		wantCfg bool // *ConfigurationError instead of *InputInconsistencyError
	}{
		{
			name: "withdraw more than held",
			req:  AllocateRequest{Cash: -200, Assets: schwab(50, 40, 10), Classes: ninetyTen()},
		},
		{
			name: "withdraw more than the eligible assets hold",
			req:  AllocateRequest{Cash: -60, Assets: schwab(50, 40, 10), Classes: ninetyTen(), Exclude: []string{"Total US"}},
		},
		{
			name: "every asset excluded",
			req:  AllocateRequest{Cash: 10, Assets: schwab(50, 40, 10), Classes: ninetyTen(), Exclude: []string{"Total US", "Total Intl", "Total Bond"}},
		},
		{
			name: "only zero target assets",
			req:  AllocateRequest{Cash: 10, Assets: []AssetValue{{Name: "GLD", Value: 5, Mapping: ClassMapping{"Gold": 1}}}, Classes: gold},
		},
		{
			name: "mapping does not add up",
			req:  AllocateRequest{Cash: 10, Assets: []AssetValue{{Name: "Fund", Mapping: ClassMapping{"US": 0.5}}}, Classes: ninetyTen()},
		},
		{
			name: "unknown excluded asset",
			req:  AllocateRequest{Cash: 10, Assets: schwab(50, 40, 10), Classes: ninetyTen(), Exclude: []string{"VTI"}},
		},
		{
			name:    "unknown class",
			req:     AllocateRequest{Cash: 10, Assets: []AssetValue{{Name: "GLD", Mapping: ClassMapping{"Gold": 1}}}, Classes: ninetyTen()},
			wantCfg: true,
		},
		{
			name:    "non leaf class",
			req:     AllocateRequest{Cash: 10, Assets: []AssetValue{{Name: "VT", Mapping: ClassMapping{"Equity": 1}}}, Classes: ninetyTen()},
			wantCfg: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Allocate(tc.req)
			var cfgErr *ConfigurationError
			var inErr *InputInconsistencyError
			switch {
			case tc.wantCfg && !errors.As(err, &cfgErr):
				t.Errorf("Allocate() error = %v, want *ConfigurationError", err)
			case !tc.wantCfg && !errors.As(err, &inErr):
				t.Errorf("Allocate() error = %v, want *InputInconsistencyError", err)
			}
		})
	}
}

func TestDeltas(t *testing.T) {
	d := Deltas{{Name: "A", Delta: 1.5}, {Name: "B", Delta: -0.5}}
	if got := d.Sum(); got != 1 {
		t.Errorf("Sum() = %v, want 1", got)
	}
	if got := d.Map()["B"]; got != -0.5 {
		t.Errorf("Map()[B] = %v, want -0.5", got)
	}
}
