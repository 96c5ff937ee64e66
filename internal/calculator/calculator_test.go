package calculator

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"RainbowMarket/internal/model"
)

func history(prices ...int64) []model.PricePoint {
	h := make([]model.PricePoint, len(prices))
	for i, p := range prices {
		h[i] = model.PricePoint{Day: i, Price: decimal.NewFromInt(p)}
	}
	return h
}

func TestCalculateSMA(t *testing.T) {
	tests := []struct {
		prices  []float64
		period  int
		want    float64
		wantErr bool
	}{
		{[]float64{1, 2, 3, 4}, 2, 3.5, false},
		{[]float64{1, 2, 3, 4}, 4, 2.5, false},
		{[]float64{1, 2}, 3, 0, true},
		{[]float64{1, 2}, 0, 0, true},
	}
	for _, tt := range tests {
		got, err := CalculateSMA(tt.prices, tt.period)
		if (err != nil) != tt.wantErr {
			t.Errorf("SMA(%v, %d): unexpected error %v", tt.prices, tt.period, err)
			continue
		}
		if got != tt.want {
			t.Errorf("SMA(%v, %d): expected %v, got %v", tt.prices, tt.period, tt.want, got)
		}
	}
}

func TestCalculateRSI(t *testing.T) {
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(100 + i)
	}
	if got, _ := CalculateRSI(rising, 14); got != 100 {
		t.Errorf("expected RSI 100 for monotonic rise, got %v", got)
	}
	if got, _ := CalculateRSI(rising[:5], 14); got != 50 {
		t.Errorf("expected RSI 50 for short series, got %v", got)
	}

	falling := make([]float64, 20)
	for i := range falling {
		falling[i] = float64(100 - i)
	}
	if got, _ := CalculateRSI(falling, 14); got != 0 {
		t.Errorf("expected RSI 0 for monotonic fall, got %v", got)
	}

	// seed 0.5/0.5, one smoothing step to 0.75/0.25
	if got, _ := CalculateRSI([]float64{1, 2, 1, 2}, 2); math.Abs(got-75) > 1e-9 {
		t.Errorf("expected RSI 75 after smoothing, got %v", got)
	}
}

func TestCalculate30DayRange(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = float64(i)
	}
	high, low, err := Calculate30DayRange(closes)
	if err != nil {
		t.Fatal(err)
	}
	if high != 39 || low != 10 {
		t.Errorf("expected 39/10, got %v/%v", high, low)
	}
	if _, _, err := Calculate30DayRange(nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestCalculateRangePosition(t *testing.T) {
	tests := []struct {
		current, high, low, want float64
	}{
		{15, 20, 10, 0.5},
		{25, 20, 10, 1},
		{5, 20, 10, 0},
		{10, 10, 10, 0.5},
	}
	for _, tt := range tests {
		got, err := CalculateRangePosition(tt.current, tt.high, tt.low)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("position(%v in %v..%v): expected %v, got %v", tt.current, tt.low, tt.high, tt.want, got)
		}
	}
}

func TestIndicators(t *testing.T) {
	ind, err := Indicators(history(100, 110, 90))
	if err != nil {
		t.Fatal(err)
	}
	if ind.CurrentPrice != 90 || ind.SMA7 != 90 {
		t.Errorf("expected short history to fall back to current price, got %+v", ind)
	}
	if ind.High30d != 110 || ind.Low30d != 90 || ind.Position30d != 0 {
		t.Errorf("unexpected range: %+v", ind)
	}
	if _, err := Indicators(nil); err == nil {
		t.Error("expected error for empty history")
	}
}
