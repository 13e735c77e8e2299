package recorder

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"AgencyEngine/internal/events"
)

// SQLiteRecorder persists historical data to a SQLite database. Timestamps
// are simulated dates stored as unix seconds.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so reports can read while a running game writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("service", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("SQLite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			sim_date   INTEGER NOT NULL,
			event_type TEXT NOT NULL,
			module     TEXT,
			payload    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_date ON events(sim_date)`,
		`CREATE INDEX IF NOT EXISTS idx_events_type ON events(event_type)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id          TEXT PRIMARY KEY,
			sim_date    INTEGER NOT NULL,
			type        TEXT NOT NULL,
			category    TEXT,
			amount      INTEGER NOT NULL,
			balance     INTEGER NOT NULL,
			description TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_date ON transactions(sim_date)`,

		`CREATE TABLE IF NOT EXISTS snapshots (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			sim_date INTEGER NOT NULL,
			blob     BLOB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_date ON snapshots(sim_date)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Record stores evt. Ledger entries are also written to the transactions table.
func (r *SQLiteRecorder) Record(evt events.Event) error {
	payload, err := json.Marshal(evt.Data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", evt.Type, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.Exec(`INSERT INTO events (sim_date, event_type, module, payload) VALUES (?,?,?,?)`,
		evt.Date.Unix(), string(evt.Type), evt.Module, string(payload),
	); err != nil {
		return err
	}

	d, ok := evt.Data.(*events.TransactionRecordedData)
	if !ok {
		return nil
	}
	tx := d.Transaction
	_, err = r.db.Exec(`INSERT OR REPLACE INTO transactions
		(id, sim_date, type, category, amount, balance, description)
		VALUES (?,?,?,?,?,?,?)`,
		tx.ID, tx.Date.Unix(), string(tx.Type), tx.Category, tx.Amount, d.Balance, tx.Description,
	)
	return err
}

// SaveSnapshot stores a packed snapshot taken on date.
func (r *SQLiteRecorder) SaveSnapshot(date time.Time, blob []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO snapshots (sim_date, blob) VALUES (?,?)`, date.Unix(), blob)
	return err
}

func (r *SQLiteRecorder) LatestSnapshot() (time.Time, []byte, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		unix int64
		blob []byte
	)
	err := r.db.QueryRow(`SELECT sim_date, blob FROM snapshots ORDER BY sim_date DESC, id DESC LIMIT 1`).Scan(&unix, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil, false, nil
	}
	if err != nil {
		return time.Time{}, nil, false, err
	}
	return time.Unix(unix, 0).UTC(), blob, true, nil
}

// CategoryTotal is the summed amount per transaction type and category.
type CategoryTotal struct {
	Type     string
	Category string
	Total    int64
	Count    int
}

// CategoryTotals aggregates recorded transactions dated within [from, to).
func (r *SQLiteRecorder) CategoryTotals(from, to time.Time) ([]CategoryTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT type, category, SUM(amount), COUNT(*) FROM transactions
		WHERE sim_date >= ? AND sim_date < ?
		GROUP BY type, category ORDER BY type, category`, from.Unix(), to.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryTotal
	for rows.Next() {
		var c CategoryTotal
		if err := rows.Scan(&c.Type, &c.Category, &c.Total, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// EventCounts returns how many events of each type were recorded.
func (r *SQLiteRecorder) EventCounts() (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT event_type, COUNT(*) FROM events GROUP BY event_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			typ string
			n   int
		)
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		out[typ] = n
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("Closing SQLite recorder")
	return r.db.Close()
}
