package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/pricescout/pricescout/internal/currency"
	"github.com/pricescout/pricescout/internal/model"
	"github.com/pricescout/pricescout/internal/notify"
)

// preference keys
const (
	prefSelectedCountry = "selected_country"
	prefUserLocation    = "user_location"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db  *sql.DB
	bus *notify.Bus
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode. The bus may be nil when no component needs change notifications.
func NewSQLite(dsn string, bus *notify.Bus) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, bus: bus}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS history (
	id           TEXT PRIMARY KEY,
	created_at   DATETIME NOT NULL,
	query        TEXT NOT NULL,
	kind         TEXT NOT NULL,
	product_name TEXT,
	best_store   TEXT,
	best_price   TEXT
);

CREATE TABLE IF NOT EXISTS prefs (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AddHistory(ctx context.Context, item model.HistoryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	var bestStore, bestPrice sql.NullString
	if item.BestPrice != nil {
		bestStore = sql.NullString{String: item.BestPrice.Store, Valid: true}
		bestPrice = sql.NullString{String: item.BestPrice.Price, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (id, created_at, query, kind, product_name, best_store, best_price)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.CreatedAt, item.Query, string(item.Kind),
		nullable(item.ProductName), bestStore, bestPrice,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert history")
	}

	// Enforce the cap: keep the newest MaxHistoryItems entries.
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY created_at DESC, id LIMIT ?
		)`,
		model.MaxHistoryItems,
	)
	return eris.Wrap(err, "sqlite: trim history")
}

func (s *SQLiteStore) ListHistory(ctx context.Context) ([]model.HistoryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, query, kind, product_name, best_store, best_price
		 FROM history ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list history")
	}
	defer rows.Close()

	var items []model.HistoryItem
	for rows.Next() {
		var item model.HistoryItem
		var kind string
		var productName, bestStore, bestPrice sql.NullString

		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.Query, &kind,
			&productName, &bestStore, &bestPrice); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan history")
		}
		item.Kind = model.QueryKind(kind)
		item.ProductName = productName.String
		if bestStore.Valid && bestPrice.Valid {
			item.BestPrice = &model.BestPrice{Store: bestStore.String, Price: bestPrice.String}
		}
		items = append(items, item)
	}
	return items, eris.Wrap(rows.Err(), "sqlite: iterate history")
}

func (s *SQLiteStore) DeleteHistory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete history %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: history item %s not found", id)
	}
	return nil
}

func (s *SQLiteStore) ClearHistory(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM history`)
	return eris.Wrap(err, "sqlite: clear history")
}

func (s *SQLiteStore) SelectedCountry(ctx context.Context) (string, error) {
	var code string
	if err := s.getPref(ctx, prefSelectedCountry, &code); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			zap.L().Debug("sqlite: selected country unreadable, using default", zap.Error(err))
		}
		return currency.DefaultCountryCode, nil
	}
	// An unrecognized stored code still resolves through the reference set.
	return currency.CountryByCode(code).Code, nil
}

func (s *SQLiteStore) SetSelectedCountry(ctx context.Context, code string) error {
	if err := s.setPref(ctx, prefSelectedCountry, code); err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.CountryChanged(code)
	}
	return nil
}

func (s *SQLiteStore) UserLocation(ctx context.Context) (*model.UserLocation, error) {
	var loc model.UserLocation
	if err := s.getPref(ctx, prefUserLocation, &loc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		zap.L().Debug("sqlite: stored location unreadable", zap.Error(err))
		return nil, nil
	}
	return &loc, nil
}

func (s *SQLiteStore) SetUserLocation(ctx context.Context, loc model.UserLocation) error {
	if err := s.setPref(ctx, prefUserLocation, loc); err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.LocationChanged(loc)
	}
	return nil
}

// getPref reads and unmarshals a preference value. Returns sql.ErrNoRows
// when the key is absent.
func (s *SQLiteStore) getPref(ctx context.Context, key string, out any) error {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM prefs WHERE key = ?`, key).Scan(&raw)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

// setPref marshals and upserts a preference value, overwriting wholesale.
func (s *SQLiteStore) setPref(ctx context.Context, key string, val any) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return eris.Wrapf(err, "sqlite: marshal pref %s", key)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO prefs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(raw), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: set pref %s", key)
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
