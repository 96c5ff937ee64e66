// Package progression awards experience for completed trades.
package progression

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"RainbowMarket/internal/model"
	"RainbowMarket/internal/portfolio"
)

// Fixed awards per action.
const (
	BondBuyPoints   = 10
	StockBuyPoints  = 20
	OpenShortPoints = 30
)

var profitPerPoint = decimal.NewFromInt(1000)

// Tracker observes trades and updates the ledger progress.
type Tracker struct {
	progress *model.Progress
	log      zerolog.Logger
}

// NewTracker creates a Tracker writing to the given progress.
func NewTracker(progress *model.Progress, log zerolog.Logger) *Tracker {
	if progress.Level < model.StartingLevel {
		progress.Level = model.StartingLevel
	}
	if progress.ExpToNextLevel <= 0 {
		progress.ExpToNextLevel = model.StartingThreshold
	}
	return &Tracker{progress: progress, log: log}
}

// Points returns the experience earned by a trade. Disposals earn one point
// per 1000 of realized profit; losses earn nothing.
func Points(res *portfolio.Result) int {
	switch res.Record.Action {
	case model.ActionBuy:
		if res.Record.Kind == model.KindBond {
			return BondBuyPoints
		}
		return StockBuyPoints
	case model.ActionShort:
		return OpenShortPoints
	case model.ActionSell, model.ActionCover:
		p := res.Realized.Div(profitPerPoint).Floor().IntPart()
		if p > 0 {
			return int(p)
		}
	}
	return 0
}

// TradeCompleted implements portfolio.Observer.
func (t *Tracker) TradeCompleted(res *portfolio.Result) {
	t.Award(Points(res))
}

// Award adds experience and levels up once the threshold is reached.
// It reports whether a level-up happened.
func (t *Tracker) Award(points int) bool {
	if points <= 0 {
		return false
	}
	p := t.progress
	p.Exp += points
	if p.Exp < p.ExpToNextLevel {
		return false
	}
	p.Level++
	p.Exp = 0
	p.ExpToNextLevel = p.ExpToNextLevel * 3 / 2
	t.log.Info().Int("level", p.Level).Int("next", p.ExpToNextLevel).Msg("level up")
	if p.Level >= model.UnlockLevel && !p.FeatureUnlocked {
		p.FeatureUnlocked = true
		t.log.Info().Int("level", p.Level).Msg("feature unlocked")
	}
	return true
}

// Progress returns a copy of the current progress.
func (t *Tracker) Progress() model.Progress {
	return *t.progress
}
