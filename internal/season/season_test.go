package season

import "testing"

func TestFor_Table(t *testing.T) {
	tests := []struct {
		day  int
		name string
	}{
		{0, "Spring"},
		{6, "Spring"},
		{7, "Summer"},
		{13, "Summer"},
		{14, "Autumn"},
		{21, "Winter"},
		{27, "Winter"},
		{28, "Spring"},
		{35, "Summer"},
		{-1, "Winter"},
		{-7, "Winter"},
		{-8, "Autumn"},
	}
	for _, tt := range tests {
		if got := For(tt.day).Name; got != tt.name {
			t.Errorf("day %d: expected %s, got %s", tt.day, tt.name, got)
		}
	}
}

func TestFor_Modifiers(t *testing.T) {
	s := For(7)
	if s.StockVolatility != 1.5 || s.BondYield != 1.0 {
		t.Errorf("summer modifiers: got %.2f/%.2f", s.StockVolatility, s.BondYield)
	}
	w := For(21)
	if w.StockVolatility != 1.0 || w.BondYield != 1.05 {
		t.Errorf("winter modifiers: got %.2f/%.2f", w.StockVolatility, w.BondYield)
	}
}

func TestFor_FullCycle(t *testing.T) {
	counts := map[string]int{}
	var order []string
	for day := 0; day < 28; day++ {
		name := For(day).Name
		counts[name]++
		if len(order) == 0 || order[len(order)-1] != name {
			order = append(order, name)
		}
	}
	want := []string{"Spring", "Summer", "Autumn", "Winter"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], order[i])
		}
		if counts[want[i]] != 7 {
			t.Errorf("%s: expected 7 days, got %d", want[i], counts[want[i]])
		}
	}
}
