package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

type fixedSource float64

func (f fixedSource) NormFloat64() float64 { return float64(f) }

func TestNextStockPrice_Bounds(t *testing.T) {
	rng := NewSource(42)
	base := decimal.NewFromInt(8000)
	floor := StockFloor(base)
	for i := 0; i < 10000; i++ {
		vol := 0.07 + rng.Float64()*(0.4-0.07)
		mod := []float64{1.2, 1.5, 0.8, 1.0}[i%4]
		current := floor.Add(decimal.NewFromInt(rng.Int63n(20000)))
		next := NextStockPrice(rng, current, base, vol, mod)
		if next.LessThan(floor) {
			t.Fatalf("trial %d: price %s below floor %s", i, next, floor)
		}
		if next.GreaterThan(current.Mul(decimal.NewFromFloat(1.5))) {
			t.Fatalf("trial %d: price %s above 1.5x of %s", i, next, current)
		}
		if !next.Equal(next.Floor()) {
			t.Fatalf("trial %d: price %s is not a whole unit", i, next)
		}
	}
}

func TestNextStockPrice_Clamp(t *testing.T) {
	base := decimal.NewFromInt(1000)
	current := decimal.NewFromInt(1000)

	up := NextStockPrice(fixedSource(10), current, base, 0.4, 1.5)
	if !up.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("expected upward clamp to 1500, got %s", up)
	}
	down := NextStockPrice(fixedSource(-10), current, base, 0.4, 1.5)
	if !down.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected downward clamp to 500, got %s", down)
	}
}

func TestNextStockPrice_Floor(t *testing.T) {
	base := decimal.NewFromInt(1000)
	current := decimal.NewFromInt(210)
	got := NextStockPrice(fixedSource(-10), current, base, 0.4, 1.5)
	if !got.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected floor 200, got %s", got)
	}
}

func TestNextStockPrice_Seeded(t *testing.T) {
	base := decimal.NewFromInt(5000)
	a, b := NewSource(7), NewSource(7)
	pa, pb := base, base
	for i := 0; i < 50; i++ {
		pa = NextStockPrice(a, pa, base, 0.25, 1.2)
		pb = NextStockPrice(b, pb, base, 0.25, 1.2)
		if !pa.Equal(pb) {
			t.Fatalf("step %d: same seed diverged: %s vs %s", i, pa, pb)
		}
	}
}

func TestNextBondPrice(t *testing.T) {
	current := decimal.NewFromInt(1000)
	if got := NextBondPrice(fixedSource(1), current, 1.0); !got.Equal(decimal.NewFromInt(1050)) {
		t.Errorf("expected 1050, got %s", got)
	}
	if got := NextBondPrice(fixedSource(-100), current, 1.0); !got.Equal(BondFloor) {
		t.Errorf("expected bond floor %s, got %s", BondFloor, got)
	}
}
