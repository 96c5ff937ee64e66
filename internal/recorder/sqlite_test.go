package recorder

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestSQLiteRecorder(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	for _, id := range []string{"a", "b"} {
		if err := r.RecordTrade(&TradeEvent{ID: id, Slot: "s1", Day: 1, Kind: "stock", Code: "APLE", Action: "buy", Amount: 1, Price: 8000}); err != nil {
			t.Fatalf("record trade: %v", err)
		}
	}
	if err := r.RecordTrade(&TradeEvent{ID: "c", Slot: "s2", Day: 1}); err != nil {
		t.Fatalf("record trade: %v", err)
	}
	if err := r.RecordDay(&DayEvent{Slot: "s1", Day: 1, Season: "Spring", Cash: 10, TotalAssets: 20}); err != nil {
		t.Fatalf("record day: %v", err)
	}

	n, err := r.CountTrades("s1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 trades for s1, got %d", n)
	}
}
