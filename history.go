package printer

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// History caches exchange strings keyed by a digest of the source image and
// the conversion settings.
type History struct {
	db *sql.DB
}

// Record is one cached conversion.
type Record struct {
	Key      string
	Label    string
	Exchange string
	// IconsDisabled records that the conversion zeroed every icon
	IconsDisabled bool
	Created       time.Time
}

// NewHistory opens, creating if necessary, the history database in file
func NewHistory(file string) (*History, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS conversion (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, label TEXT NOT NULL, exchange TEXT NOT NULL, icons_disabled INTEGER NOT NULL DEFAULT 0, created INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if err = upgrade(db); err != nil {
		db.Close()
		return nil, err
	}

	return &History{
		db: db,
	}, nil
}

// upgrade adds columns missing from databases created by older versions
func upgrade(db *sql.DB) error {
	rows, err := db.Query("PRAGMA table_info(conversion)")
	if err != nil {
		return err
	}
	defer rows.Close()

	columns := make(map[string]struct{})
	for rows.Next() {
		var cid, notNull, pk int
		var name, ctype string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return err
		}
		columns[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	if _, ok := columns["icons_disabled"]; !ok {
		if _, err := db.Exec("ALTER TABLE conversion ADD COLUMN icons_disabled INTEGER NOT NULL DEFAULT 0"); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the underlying database
func (h *History) Close() error {
	return h.db.Close()
}

// Find returns the cached conversion for key, or nil if there isn't one.
func (h *History) Find(key string) (*Record, error) {
	r := Record{Key: key}
	var created int64
	switch err := h.db.QueryRow("SELECT label, exchange, icons_disabled, created FROM conversion WHERE sha1 = ?", key).Scan(&r.Label, &r.Exchange, &r.IconsDisabled, &created); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		r.Created = time.Unix(created, 0)
		return &r, nil
	default:
		return nil, err
	}
}

// Add stores exchange under key, replacing any previous entry
func (h *History) Add(key, label, exchange string, iconsDisabled bool) error {
	if _, err := h.db.Exec("INSERT OR REPLACE INTO conversion (sha1, label, exchange, icons_disabled, created) VALUES (?, ?, ?, ?, ?)", key, label, exchange, iconsDisabled, time.Now().Unix()); err != nil {
		return err
	}
	return nil
}

// List returns every cached conversion, most recent first
func (h *History) List() ([]Record, error) {
	rows, err := h.db.Query("SELECT sha1, label, exchange, icons_disabled, created FROM conversion ORDER BY created DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var created int64
		if err := rows.Scan(&r.Key, &r.Label, &r.Exchange, &r.IconsDisabled, &created); err != nil {
			return nil, err
		}
		r.Created = time.Unix(created, 0)
		records = append(records, r)
	}

	return records, rows.Err()
}

// Clear removes every cached conversion
func (h *History) Clear() error {
	_, err := h.db.Exec("DELETE FROM conversion")
	return err
}
