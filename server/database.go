package main

import (
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	defaultTopScores = 10
	maxTopScores     = 100
)

// ErrDuplicateReceipt is returned when a run receipt was already redeemed
var ErrDuplicateReceipt = errors.New("run already submitted")

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// ScoreEntry is one leaderboard record
type ScoreEntry struct {
	ID         int64     `json:"id"`
	Rank       int       `json:"rank"`
	PlayerName string    `json:"playerName"`
	Score      int       `json:"score"`
	Time       string    `json:"time"`
	Kills      int       `json:"kills"`
	Wave       int       `json:"wave"`
	Timestamp  time.Time `json:"timestamp"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_name TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		time TEXT NOT NULL DEFAULT '0:00',
		kills INTEGER NOT NULL DEFAULT 0,
		wave INTEGER NOT NULL DEFAULT 1,
		receipt_id TEXT NOT NULL UNIQUE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		session_id TEXT,
		data TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scores_score ON scores(score DESC);
	CREATE INDEX IF NOT EXISTS idx_analytics_type ON analytics_events(event_type, created_at);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
	}
	return err
}

// SubmitScore stores a run and returns its 1-based rank. A receipt can be
// redeemed once.
func (db *DB) SubmitScore(e ScoreEntry, receiptID string) (int, error) {
	_, err := db.conn.Exec(
		"INSERT INTO scores (player_name, score, time, kills, wave, receipt_id) VALUES (?, ?, ?, ?, ?, ?)",
		e.PlayerName, e.Score, e.Time, e.Kills, e.Wave, receiptID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return 0, ErrDuplicateReceipt
		}
		return 0, err
	}

	var better int
	err = db.conn.QueryRow("SELECT COUNT(*) FROM scores WHERE score > ?", e.Score).Scan(&better)
	if err != nil {
		return 0, err
	}
	return better + 1, nil
}

// TopScores returns the best n runs ordered by score, oldest first on ties
func (db *DB) TopScores(n int) ([]ScoreEntry, error) {
	if n <= 0 {
		n = defaultTopScores
	}
	n = ClampInt(n, 1, maxTopScores)

	rows, err := db.conn.Query(`
		SELECT id, player_name, score, time, kills, wave, created_at
		FROM scores ORDER BY score DESC, id ASC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]ScoreEntry, 0, n)
	rank := 1
	for rows.Next() {
		var e ScoreEntry
		if err := rows.Scan(&e.ID, &e.PlayerName, &e.Score, &e.Time, &e.Kills, &e.Wave, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// DeleteScore removes a leaderboard row; reports whether it existed
func (db *DB) DeleteScore(id int64) (bool, error) {
	res, err := db.conn.Exec("DELETE FROM scores WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ScoreCount returns the number of stored runs
func (db *DB) ScoreCount() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM scores").Scan(&n)
	return n, err
}

// GetSetting returns a stored setting or "" when missing
func (db *DB) GetSetting(key string) string {
	var v string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("settings: read %s: %v", key, err)
		}
		return ""
	}
	return v
}

// SetSetting upserts a setting
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
