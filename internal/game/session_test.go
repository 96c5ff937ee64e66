package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"RainbowMarket/internal/model"
	"RainbowMarket/internal/persistence"
	"RainbowMarket/internal/portfolio"
	"RainbowMarket/internal/pricing"
	"RainbowMarket/internal/recorder"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type countingRecorder struct {
	trades, days int
}

func (c *countingRecorder) RecordTrade(*recorder.TradeEvent) error { c.trades++; return nil }
func (c *countingRecorder) RecordDay(*recorder.DayEvent) error     { c.days++; return nil }
func (c *countingRecorder) Close() error                           { return nil }

func testOptions(dir string) Options {
	return Options{
		Store:        persistence.NewStore(dir, zerolog.Nop()),
		Slot:         "test",
		Rand:         pricing.NewSource(11),
		StartingCash: d(1_000_000),
		StartingDebt: d(10_000),
		InterestRate: decimal.New(1, -4),
		Log:          zerolog.Nop(),
	}
}

func openSession(t *testing.T, opts Options) *Session {
	t.Helper()
	s, err := Open(opts)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func setPrice(t *testing.T, s *Session, code string, price int64) {
	t.Helper()
	inst, err := s.catalog.Get(code)
	if err != nil {
		t.Fatalf("get %s: %v", code, err)
	}
	inst.AppendPrice(s.day, d(price))
}

func TestOpen_NewGame(t *testing.T) {
	s := openSession(t, testOptions(t.TempDir()))

	if s.Day() != 0 {
		t.Errorf("expected day 0, got %d", s.Day())
	}
	h := s.HoldingsSnapshot()
	if !h.Cash.Equal(d(1_000_000)) || !h.Debt.Equal(d(10_000)) {
		t.Errorf("unexpected starting balances: cash %s debt %s", h.Cash, h.Debt)
	}
	if h.Progress.Level != 1 || h.Progress.ExpToNextLevel != 100 {
		t.Errorf("unexpected starting progress: %+v", h.Progress)
	}
	if len(s.Market()) != 9 {
		t.Errorf("expected 9 instruments, got %d", len(s.Market()))
	}
}

func TestAdvanceDay_SeasonCycle(t *testing.T) {
	s := openSession(t, testOptions(t.TempDir()))

	counts := map[string]int{}
	var order []string
	for i := 0; i < 28; i++ {
		rep := s.AdvanceDay()
		if rep.Day != i+1 {
			t.Fatalf("expected day %d, got %d", i+1, rep.Day)
		}
		if counts[rep.Season.Name] == 0 {
			order = append(order, rep.Season.Name)
		}
		counts[rep.Season.Name]++
	}

	if diff := cmp.Diff([]string{"Spring", "Summer", "Autumn", "Winter"}, order); diff != "" {
		t.Errorf("season order mismatch (-want +got):\n%s", diff)
	}
	for name, n := range counts {
		if n != 7 {
			t.Errorf("%s: expected 7 days, got %d", name, n)
		}
	}
	if n := len(s.TotalAssetsHistory()); n != 28 {
		t.Errorf("expected 28 valuation snapshots, got %d", n)
	}
	hist, err := s.PriceHistory("APLE", -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 29 {
		t.Errorf("expected 29 price points, got %d", len(hist))
	}
}

func TestAdvanceDay_Settlement(t *testing.T) {
	opts := testOptions(t.TempDir())

	off := openSession(t, opts)
	if rep := off.AdvanceDay(); rep.Settlement != nil {
		t.Error("expected no settlement when disabled")
	}
	if got := off.HoldingsSnapshot().Debt; !got.Equal(d(10_000)) {
		t.Errorf("expected debt unchanged, got %s", got)
	}

	opts.Slot = "settled"
	opts.Settlement = true
	on := openSession(t, opts)
	setPrice(t, on, "APLE", 100)
	if _, err := on.Buy(model.KindStock, "APLE", d(10)); err != nil {
		t.Fatal(err)
	}
	rep := on.AdvanceDay()
	if rep.Settlement == nil {
		t.Fatal("expected settlement statement")
	}
	if !rep.Settlement.Dividends.Equal(d(400)) {
		t.Errorf("expected dividends 400, got %s", rep.Settlement.Dividends)
	}
	if !rep.Settlement.Interest.Equal(d(1)) {
		t.Errorf("expected interest 1, got %s", rep.Settlement.Interest)
	}
	if got := on.HoldingsSnapshot().Debt; !got.Equal(d(10_001)) {
		t.Errorf("expected debt 10001, got %s", got)
	}
}

func TestValuation_ExcludesShorts(t *testing.T) {
	s := openSession(t, testOptions(t.TempDir()))
	setPrice(t, s, "TSLA", 1000)
	setPrice(t, s, "APLE", 500)

	if _, err := s.Buy(model.KindStock, "APLE", d(2)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.OpenShort("TSLA", d(10)); err != nil {
		t.Fatal(err)
	}

	v := s.CurrentValuation()
	if !v.Holdings.Equal(d(1000)) {
		t.Errorf("expected holdings 1000, got %s", v.Holdings)
	}
	if !v.Total.Equal(v.Cash.Add(d(1000))) {
		t.Errorf("expected total = cash + holdings, got %s", v.Total)
	}

	h := s.HoldingsSnapshot()
	if len(h.Longs) != 1 || len(h.Shorts) != 1 {
		t.Fatalf("expected one long and one short, got %d/%d", len(h.Longs), len(h.Shorts))
	}
	if !h.Shorts[0].Margin.Equal(d(5000)) {
		t.Errorf("expected margin 5000, got %s", h.Shorts[0].Margin)
	}
}

func TestTrade_RejectedTradeIsNotRecorded(t *testing.T) {
	opts := testOptions(t.TempDir())
	rec := &countingRecorder{}
	opts.Recorder = rec
	s := openSession(t, opts)

	_, err := s.Sell(model.KindStock, "APLE", d(1))
	if !errors.Is(err, portfolio.ErrInsufficientHoldings) {
		t.Fatalf("expected ErrInsufficientHoldings, got %v", err)
	}
	if len(s.Trades()) != 0 || rec.trades != 0 {
		t.Errorf("expected no trades recorded, got %d/%d", len(s.Trades()), rec.trades)
	}

	if _, err := s.Buy(model.KindBond, "GOV10", d(1)); err != nil {
		t.Fatal(err)
	}
	s.AdvanceDay()
	if len(s.Trades()) != 1 || rec.trades != 1 || rec.days != 1 {
		t.Errorf("expected 1 trade and 1 day journaled, got %d/%d/%d", len(s.Trades()), rec.trades, rec.days)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	opts := testOptions(t.TempDir())
	s := openSession(t, opts)

	setPrice(t, s, "APLE", 8000)
	if _, err := s.Buy(model.KindStock, "APLE", d(100)); err != nil {
		t.Fatal(err)
	}
	s.AdvanceDay()
	setPrice(t, s, "TSLA", 1000)
	if _, err := s.OpenShort("TSLA", d(10)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Buy(model.KindBond, "CORP5", d(3)); err != nil {
		t.Fatal(err)
	}
	s.AdvanceDay()

	opts.Rand = pricing.NewSource(99)
	reopened := openSession(t, opts)

	if reopened.Day() != 2 {
		t.Errorf("expected day 2, got %d", reopened.Day())
	}
	opt := cmp.Options{decimalEqual, cmpopts.EquateEmpty()}
	if diff := cmp.Diff(s.HoldingsSnapshot(), reopened.HoldingsSnapshot(), opt); diff != "" {
		t.Errorf("holdings mismatch (-saved +loaded):\n%s", diff)
	}
	if diff := cmp.Diff(s.Trades(), reopened.Trades(), opt); diff != "" {
		t.Errorf("trades mismatch (-saved +loaded):\n%s", diff)
	}
	if diff := cmp.Diff(s.TotalAssetsHistory(), reopened.TotalAssetsHistory(), opt); diff != "" {
		t.Errorf("valuation history mismatch (-saved +loaded):\n%s", diff)
	}
	for _, code := range []string{"APLE", "TSLA", "GOV10"} {
		a, _ := s.PriceHistory(code, -1)
		b, _ := reopened.PriceHistory(code, -1)
		if diff := cmp.Diff(a, b, opt); diff != "" {
			t.Errorf("%s history mismatch (-saved +loaded):\n%s", code, diff)
		}
	}
}

func TestLoad_SwitchesSlot(t *testing.T) {
	opts := testOptions(t.TempDir())
	s := openSession(t, opts)
	s.AdvanceDay()
	s.AdvanceDay()

	if err := s.Load("other"); err != nil {
		t.Fatal(err)
	}
	if s.Slot() != "other" || s.Day() != 0 {
		t.Errorf("expected fresh game in slot other, got slot %s day %d", s.Slot(), s.Day())
	}

	if err := s.Load("test"); err != nil {
		t.Fatal(err)
	}
	if s.Day() != 2 {
		t.Errorf("expected day 2 after reloading, got %d", s.Day())
	}
}

func TestOpen_CorruptSlotStartsNewGame(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "test.json"), []byte("{{{"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := openSession(t, testOptions(dir))
	if s.Day() != 0 || !s.CurrentValuation().Cash.Equal(d(1_000_000)) {
		t.Errorf("expected a new game, got day %d", s.Day())
	}
}

func TestOpen_UnknownInstrumentsIgnored(t *testing.T) {
	dir := t.TempDir()
	rec := `{
  "player": {
    "cash": 500, "debt": 0, "level": 2, "exp": 5, "exp_to_next_level": 150,
    "feature_unlocked": false,
    "stocks": {"APLE": {"amount": 3, "avg_price": 7000}, "ZZZZ": {"amount": 1, "avg_price": 10}},
    "bonds": {},
    "shorts": {"QQQQ": [1, 100, 0]}
  },
  "day": 4,
  "trade_history": [],
  "total_assets_history": [],
  "stocks_bonds_value_history": [],
  "market": {
    "stocks": [
      {"code": "APLE", "history": [{"day": 3, "price": 7100}, {"day": 4, "price": 7200}], "operations": []},
      {"code": "ZZZZ", "history": [{"day": 4, "price": 1}], "operations": []}
    ],
    "bonds": []
  }
}`
	if err := os.WriteFile(filepath.Join(dir, "test.json"), []byte(rec), 0o644); err != nil {
		t.Fatal(err)
	}

	s := openSession(t, testOptions(dir))
	h := s.HoldingsSnapshot()
	if len(h.Longs) != 1 || h.Longs[0].Code != "APLE" {
		t.Fatalf("expected only APLE holding, got %+v", h.Longs)
	}
	if len(h.Shorts) != 0 {
		t.Errorf("expected unknown short dropped, got %+v", h.Shorts)
	}
	if !h.Longs[0].Price.Equal(d(7200)) {
		t.Errorf("expected restored price 7200, got %s", h.Longs[0].Price)
	}
	if h.Progress.Level != 2 || h.Progress.ExpToNextLevel != 150 {
		t.Errorf("unexpected progress: %+v", h.Progress)
	}
	if _, err := s.PriceHistory("ZZZZ", 1); err == nil {
		t.Error("expected unknown instrument to stay unknown")
	}
}

func TestReopen_KeepsStockBasePrices(t *testing.T) {
	opts := testOptions(t.TempDir())
	s := openSession(t, opts)

	bases := map[string]decimal.Decimal{}
	for _, inst := range s.catalog.Instruments(model.KindStock) {
		bases[inst.Code] = inst.BasePrice
	}
	aple, _ := s.catalog.Get("APLE")
	floor := pricing.StockFloor(aple.BasePrice)
	setPrice(t, s, "APLE", floor.IntPart())
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	for _, seed := range []int64{1, 2, 3} {
		opts.Rand = pricing.NewSource(seed)
		reopened := openSession(t, opts)
		for _, inst := range reopened.catalog.Instruments(model.KindStock) {
			if !inst.BasePrice.Equal(bases[inst.Code]) {
				t.Errorf("seed %d: %s base changed from %s to %s", seed, inst.Code, bases[inst.Code], inst.BasePrice)
			}
		}
		got, _ := reopened.catalog.Get("APLE")
		if f := pricing.StockFloor(got.BasePrice); !f.Equal(floor) || got.Price().LessThan(f) {
			t.Errorf("seed %d: price %s against floor %s, expected floor %s", seed, got.Price(), f, floor)
		}
	}
}
