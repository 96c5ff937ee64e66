package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists trade and valuation history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			slot        TEXT NOT NULL,
			day         INTEGER NOT NULL,
			kind        TEXT,
			code        TEXT,
			action      TEXT,
			amount      REAL,
			price       REAL,
			realized    REAL,
			cash_after  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_slot_day ON trades(slot, day)`,

		`CREATE TABLE IF NOT EXISTS daily_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			slot           TEXT NOT NULL,
			day            INTEGER NOT NULL,
			season         TEXT,
			cash           REAL,
			debt           REAL,
			holdings_value REAL,
			total_assets   REAL,
			dividends      REAL,
			coupons        REAL,
			interest       REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_slot_day ON daily_snapshots(slot, day)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTrade(evt *TradeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO trades
		(id, timestamp, slot, day, kind, code, action, amount, price, realized, cash_after)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		evt.ID, time.Now().Unix(), evt.Slot, evt.Day, evt.Kind, evt.Code, evt.Action,
		evt.Amount, evt.Price, evt.Realized, evt.CashAfter,
	)
	return err
}

func (r *SQLiteRecorder) RecordDay(evt *DayEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO daily_snapshots
		(timestamp, slot, day, season, cash, debt, holdings_value, total_assets, dividends, coupons, interest)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Slot, evt.Day, evt.Season,
		evt.Cash, evt.Debt, evt.HoldingsValue, evt.TotalAssets,
		evt.Dividends, evt.Coupons, evt.Interest,
	)
	return err
}

// CountTrades returns the number of journaled trades for a slot.
func (r *SQLiteRecorder) CountTrades(slot string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM trades WHERE slot = ?`, slot).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
