// Package persistence saves and restores a game session as one JSON record
// per save slot.
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"RainbowMarket/internal/model"
	"RainbowMarket/internal/portfolio"
)

// ErrCorruptRecord is returned when a record is not a JSON object at all.
// Field-level damage is coerced to defaults and reported in Snapshot.Warnings.
var ErrCorruptRecord = errors.New("corrupt save record")

// MaxValuationHistory bounds the daily valuation series.
const MaxValuationHistory = 365

// Snapshot is everything a session needs to resume.
type Snapshot struct {
	Day           int
	Ledger        *model.Ledger
	Trades        []model.TradeRecord
	TotalAssets   []decimal.Decimal
	HoldingsValue []decimal.Decimal
	// On save, the full catalog. On load, only Kind, Code, History,
	// Operations and a stock's BasePrice are populated; the fixed parameters
	// come from the catalog.
	Instruments []*model.Instrument

	Warnings []string
}

func num(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func nums(ds []decimal.Decimal) []json.Number {
	out := make([]json.Number, len(ds))
	for i, d := range ds {
		out[i] = num(d)
	}
	return out
}

// Encode renders a snapshot as an indented JSON record.
func Encode(s *Snapshot) ([]byte, error) {
	l := s.Ledger
	rec := record{
		Player: playerRecord{
			Cash:            num(l.Cash),
			Debt:            num(l.Debt),
			Level:           l.Level,
			Exp:             l.Exp,
			ExpToNextLevel:  l.ExpToNextLevel,
			FeatureUnlocked: l.FeatureUnlocked,
			Stocks:          encodeHoldings(l.Stocks),
			Bonds:           encodeHoldings(l.Bonds),
			Shorts:          make(map[string][]json.Number, len(l.Shorts)),
		},
		Day:                     s.Day,
		TradeHistory:            make([]tradeRecord, 0, len(s.Trades)),
		TotalAssetsHistory:      nums(s.TotalAssets),
		StocksBondsValueHistory: nums(s.HoldingsValue),
		Market:                  marketRecord{Stocks: []stockRecord{}, Bonds: []bondRecord{}},
	}
	for code, p := range l.Shorts {
		rec.Player.Shorts[code] = []json.Number{
			num(p.Amount), num(p.BorrowPrice), json.Number(strconv.Itoa(p.DayOpened)), num(p.Margin),
		}
	}
	for _, t := range s.Trades {
		rec.TradeHistory = append(rec.TradeHistory, tradeRecord{
			ID:     t.ID,
			Day:    t.Day,
			Type:   string(t.Kind),
			Code:   t.Code,
			Action: string(t.Action),
			Amount: num(t.Amount),
			Price:  num(t.Price),
		})
	}
	for _, inst := range s.Instruments {
		hist, ops := encodeHistory(inst)
		switch inst.Kind {
		case model.KindStock:
			rec.Market.Stocks = append(rec.Market.Stocks, stockRecord{
				Code:       inst.Code,
				BasePrice:  num(inst.BasePrice),
				Volatility: inst.Volatility,
				Income:     num(inst.Income),
				History:    hist,
				Operations: ops,
			})
		case model.KindBond:
			rec.Market.Bonds = append(rec.Market.Bonds, bondRecord{
				Code:       inst.Code,
				Price:      num(inst.Price()),
				YieldRate:  inst.YieldRate,
				Duration:   inst.DurationDays,
				History:    hist,
				Operations: ops,
			})
		}
	}
	return json.MarshalIndent(rec, "", "  ")
}

func encodeHoldings(m map[string]*model.Holding) map[string]holdingRecord {
	out := make(map[string]holdingRecord, len(m))
	for code, h := range m {
		out[code] = holdingRecord{Amount: num(h.Amount), AvgPrice: num(h.AvgPrice)}
	}
	return out
}

func encodeHistory(inst *model.Instrument) ([]pricePoint, []operationRecord) {
	hist := make([]pricePoint, len(inst.History))
	for i, p := range inst.History {
		hist[i] = pricePoint{Day: p.Day, Price: num(p.Price)}
	}
	ops := make([]operationRecord, len(inst.Operations))
	for i, o := range inst.Operations {
		ops[i] = operationRecord{Day: o.Day, Action: string(o.Action), Amount: num(o.Amount), Price: num(o.Price)}
	}
	return hist, ops
}

// Decode parses a record. Only a record that is not a JSON object fails;
// missing or malformed fields fall back to zero values and empty collections.
func Decode(data []byte) (*Snapshot, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: empty record", ErrCorruptRecord)
	}

	d := &decoder{}
	s := &Snapshot{
		Day:    d.intField(top["day"], "day", 0),
		Ledger: d.ledger(top["player"]),
	}
	if s.Day < 0 {
		d.warn("day: negative value %d reset to 0", s.Day)
		s.Day = 0
	}
	s.Trades = d.trades(top["trade_history"])
	s.TotalAssets = d.series(top["total_assets_history"], "total_assets_history")
	s.HoldingsValue = d.series(top["stocks_bonds_value_history"], "stocks_bonds_value_history")
	s.Instruments = d.market(top["market"])
	s.Warnings = d.warnings
	return s, nil
}

var (
	maxInt = decimal.NewFromInt(math.MaxInt)
	minInt = decimal.NewFromInt(math.MinInt)
)

type decoder struct {
	warnings []string
}

func (d *decoder) warn(format string, args ...any) {
	d.warnings = append(d.warnings, fmt.Sprintf(format, args...))
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// decimalField accepts a JSON number or a numeric string.
func (d *decoder) decimalField(raw json.RawMessage, field string) decimal.Decimal {
	if !present(raw) {
		return decimal.Zero
	}
	text := string(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		text = s
	}
	v, err := decimal.NewFromString(text)
	if err != nil {
		d.warn("%s: not a number: %s", field, raw)
		return decimal.Zero
	}
	return v
}

func (d *decoder) intField(raw json.RawMessage, field string, def int) int {
	if !present(raw) {
		return def
	}
	v := d.decimalField(raw, field)
	if v.GreaterThan(maxInt) || v.LessThan(minInt) {
		d.warn("%s: out of range: %s", field, raw)
		return def
	}
	if !v.Equal(v.Truncate(0)) {
		d.warn("%s: not an integer: %s", field, raw)
	}
	return int(v.IntPart())
}

func (d *decoder) object(raw json.RawMessage, field string) map[string]json.RawMessage {
	if !present(raw) {
		return nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		d.warn("%s: not an object", field)
		return nil
	}
	return m
}

func (d *decoder) array(raw json.RawMessage, field string) []json.RawMessage {
	if !present(raw) {
		return nil
	}
	var a []json.RawMessage
	if err := json.Unmarshal(raw, &a); err != nil {
		d.warn("%s: not an array", field)
		return nil
	}
	return a
}

func (d *decoder) stringField(raw json.RawMessage, field string) string {
	if !present(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		d.warn("%s: not a string", field)
		return ""
	}
	return s
}

func (d *decoder) boolField(raw json.RawMessage, field string) bool {
	if !present(raw) {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		d.warn("%s: not a boolean", field)
		return false
	}
	return b
}

func (d *decoder) ledger(raw json.RawMessage) *model.Ledger {
	p := d.object(raw, "player")
	l := model.NewLedger(d.decimalField(p["cash"], "player.cash"), d.decimalField(p["debt"], "player.debt"))
	if l.Debt.IsNegative() {
		d.warn("player.debt: negative value reset to 0")
		l.Debt = decimal.Zero
	}

	l.Level = d.intField(p["level"], "player.level", model.StartingLevel)
	if l.Level < model.StartingLevel {
		l.Level = model.StartingLevel
	}
	l.Exp = d.intField(p["exp"], "player.exp", 0)
	if l.Exp < 0 {
		l.Exp = 0
	}
	l.ExpToNextLevel = d.intField(p["exp_to_next_level"], "player.exp_to_next_level", model.StartingThreshold)
	if l.ExpToNextLevel <= 0 {
		l.ExpToNextLevel = model.StartingThreshold
	}
	l.FeatureUnlocked = d.boolField(p["feature_unlocked"], "player.feature_unlocked") || l.Level >= model.UnlockLevel

	d.holdings(p["stocks"], "player.stocks", l.Stocks)
	d.holdings(p["bonds"], "player.bonds", l.Bonds)
	d.shorts(p["shorts"], l.Shorts)
	return l
}

func (d *decoder) holdings(raw json.RawMessage, field string, into map[string]*model.Holding) {
	for code, hr := range d.object(raw, field) {
		h := d.object(hr, field+"."+code)
		amount := d.decimalField(h["amount"], field+"."+code+".amount")
		if !amount.IsPositive() {
			continue
		}
		avg := d.decimalField(h["avg_price"], field+"."+code+".avg_price")
		if avg.IsNegative() {
			d.warn("%s.%s.avg_price: negative value reset to 0", field, code)
			avg = decimal.Zero
		}
		into[code] = &model.Holding{Amount: amount, AvgPrice: avg}
	}
}

func (d *decoder) shorts(raw json.RawMessage, into map[string]*model.ShortPosition) {
	for code, sr := range d.object(raw, "player.shorts") {
		field := "player.shorts." + code
		parts := d.array(sr, field)
		if len(parts) < 2 {
			if present(sr) {
				d.warn("%s: expected [amount, borrow_price, day_opened]", field)
			}
			continue
		}
		pos := &model.ShortPosition{
			Amount:      d.decimalField(parts[0], field+"[0]"),
			BorrowPrice: d.decimalField(parts[1], field+"[1]"),
		}
		if !pos.Amount.IsPositive() || pos.BorrowPrice.IsNegative() {
			continue
		}
		if len(parts) > 2 {
			pos.DayOpened = d.intField(parts[2], field+"[2]", 0)
		}
		if len(parts) > 3 {
			pos.Margin = d.decimalField(parts[3], field+"[3]")
		}
		if !pos.Margin.IsPositive() {
			pos.Margin = pos.BorrowPrice.Mul(pos.Amount).Mul(portfolio.MarginRatio)
		}
		into[code] = pos
	}
}

func (d *decoder) trades(raw json.RawMessage) []model.TradeRecord {
	entries := d.array(raw, "trade_history")
	out := make([]model.TradeRecord, 0, len(entries))
	for i, e := range entries {
		field := fmt.Sprintf("trade_history[%d]", i)
		o := d.object(e, field)
		if o == nil {
			continue
		}
		t := model.TradeRecord{
			ID:     d.stringField(o["id"], field+".id"),
			Day:    d.intField(o["day"], field+".day", 0),
			Kind:   model.Kind(d.stringField(o["type"], field+".type")),
			Code:   d.stringField(o["code"], field+".code"),
			Action: model.Action(d.stringField(o["action"], field+".action")),
			Amount: d.decimalField(o["amount"], field+".amount"),
			Price:  d.decimalField(o["price"], field+".price"),
		}
		if !validKind(t.Kind) || !validAction(t.Action) || t.Code == "" {
			d.warn("%s: dropped incomplete trade", field)
			continue
		}
		out = append(out, t)
	}
	return out
}

func (d *decoder) series(raw json.RawMessage, field string) []decimal.Decimal {
	entries := d.array(raw, field)
	out := make([]decimal.Decimal, 0, len(entries))
	for i, e := range entries {
		if !present(e) {
			continue
		}
		out = append(out, d.decimalField(e, fmt.Sprintf("%s[%d]", field, i)))
	}
	if len(out) > MaxValuationHistory {
		out = out[len(out)-MaxValuationHistory:]
	}
	return out
}

func (d *decoder) market(raw json.RawMessage) []*model.Instrument {
	m := d.object(raw, "market")
	var out []*model.Instrument
	for _, group := range []struct {
		key  string
		kind model.Kind
	}{{"stocks", model.KindStock}, {"bonds", model.KindBond}} {
		for i, e := range d.array(m[group.key], "market."+group.key) {
			field := fmt.Sprintf("market.%s[%d]", group.key, i)
			o := d.object(e, field)
			code := d.stringField(o["code"], field+".code")
			if code == "" {
				continue
			}
			inst := &model.Instrument{
				Kind:       group.kind,
				Code:       code,
				History:    d.history(o["history"], field+".history"),
				Operations: d.operations(o["operations"], field+".operations"),
			}
			if group.kind == model.KindStock && present(o["base_price"]) {
				inst.BasePrice = d.decimalField(o["base_price"], field+".base_price")
				if !inst.BasePrice.IsPositive() {
					d.warn("%s.base_price: non-positive value ignored", field)
					inst.BasePrice = decimal.Zero
				}
			}
			out = append(out, inst)
		}
	}
	return out
}

func (d *decoder) history(raw json.RawMessage, field string) []model.PricePoint {
	entries := d.array(raw, field)
	out := make([]model.PricePoint, 0, len(entries))
	for i, e := range entries {
		f := fmt.Sprintf("%s[%d]", field, i)
		o := d.object(e, f)
		price := d.decimalField(o["price"], f+".price")
		if !price.IsPositive() {
			continue
		}
		out = append(out, model.PricePoint{Day: d.intField(o["day"], f+".day", 0), Price: price})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

func (d *decoder) operations(raw json.RawMessage, field string) []model.Operation {
	entries := d.array(raw, field)
	out := make([]model.Operation, 0, len(entries))
	for i, e := range entries {
		f := fmt.Sprintf("%s[%d]", field, i)
		o := d.object(e, f)
		op := model.Operation{
			Day:    d.intField(o["day"], f+".day", 0),
			Action: model.Action(d.stringField(o["action"], f+".action")),
			Amount: d.decimalField(o["amount"], f+".amount"),
			Price:  d.decimalField(o["price"], f+".price"),
		}
		if !validAction(op.Action) {
			continue
		}
		out = append(out, op)
	}
	return out
}

func validKind(k model.Kind) bool {
	return k == model.KindStock || k == model.KindBond
}

func validAction(a model.Action) bool {
	switch a {
	case model.ActionBuy, model.ActionSell, model.ActionShort, model.ActionCover:
		return true
	}
	return false
}
