package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jdemuth17/market-analysis/internal/analysis"
	apperrors "github.com/jdemuth17/market-analysis/internal/errors"
	"github.com/jdemuth17/market-analysis/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err.Error())
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bars (
		symbol TEXT NOT NULL,
		date TEXT NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume REAL NOT NULL,
		PRIMARY KEY (symbol, date)
	);

	CREATE TABLE IF NOT EXISTS patterns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		pattern_type TEXT NOT NULL,
		direction TEXT NOT NULL,
		confidence REAL NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL,
		key_levels TEXT NOT NULL,
		detected_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_patterns_symbol ON patterns(symbol, detected_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseError, "migration failed: "+err.Error())
	}
	return nil
}

// SaveBars upserts daily bars for a symbol.
func (s *SQLiteStore) SaveBars(symbol string, bars []models.Bar) error {
	tx, err := s.db.Begin()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseError, err.Error())
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO bars (symbol, date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, date) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume
	`)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseError, err.Error())
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.Exec(symbol, b.Date.Format("2006-01-02"),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return apperrors.Wrap(apperrors.ErrDatabaseError, err.Error())
		}
	}
	return tx.Commit()
}

// GetBars returns all stored bars for a symbol, date ascending.
func (s *SQLiteStore) GetBars(symbol string) ([]models.Bar, error) {
	rows, err := s.db.Query(`
		SELECT date, open, high, low, close, volume
		FROM bars WHERE symbol = ? ORDER BY date ASC
	`, symbol)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err.Error())
	}
	defer rows.Close()

	var bars []models.Bar
	for rows.Next() {
		var b models.Bar
		var dateStr string
		if err := rows.Scan(&dateStr, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err.Error())
		}
		b.Date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabaseError, "bad date in bars table: "+dateStr)
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err.Error())
	}
	if len(bars) == 0 {
		return nil, apperrors.Wrapf(apperrors.ErrSymbolNotFound, "%s", symbol)
	}
	return bars, nil
}

// SavePatterns records detected patterns for a symbol.
func (s *SQLiteStore) SavePatterns(symbol string, patterns []analysis.DetectedPattern) error {
	if len(patterns) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseError, err.Error())
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO patterns (symbol, pattern_type, direction, confidence,
			start_date, end_date, status, key_levels, detected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseError, err.Error())
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, p := range patterns {
		levels, err := json.Marshal(p.KeyLevels)
		if err != nil {
			return fmt.Errorf("failed to encode key levels: %w", err)
		}
		if _, err := stmt.Exec(symbol, string(p.Type), string(p.Direction),
			p.Confidence, p.StartDate.Format("2006-01-02"),
			p.EndDate.Format("2006-01-02"), string(p.Status),
			string(levels), now); err != nil {
			return apperrors.Wrap(apperrors.ErrDatabaseError, err.Error())
		}
	}
	return tx.Commit()
}

// GetPatterns returns stored patterns for a symbol, most recent first.
func (s *SQLiteStore) GetPatterns(symbol string, limit int) ([]PatternRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, symbol, pattern_type, direction, confidence,
			start_date, end_date, status, key_levels, detected_at
		FROM patterns WHERE symbol = ?
		ORDER BY detected_at DESC, id DESC LIMIT ?
	`, symbol, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err.Error())
	}
	defer rows.Close()

	var records []PatternRecord
	for rows.Next() {
		var rec PatternRecord
		var ptype, direction, status, startStr, endStr, levelsStr, detectedStr string
		if err := rows.Scan(&rec.ID, &rec.Symbol, &ptype, &direction,
			&rec.Pattern.Confidence, &startStr, &endStr, &status,
			&levelsStr, &detectedStr); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err.Error())
		}

		rec.Pattern.Type = analysis.PatternType(ptype)
		rec.Pattern.Direction = analysis.Direction(direction)
		rec.Pattern.Status = analysis.PatternStatus(status)
		rec.Pattern.StartDate, _ = time.Parse("2006-01-02", startStr)
		rec.Pattern.EndDate, _ = time.Parse("2006-01-02", endStr)
		rec.DetectedAt, _ = time.Parse(time.RFC3339, detectedStr)
		if err := json.Unmarshal([]byte(levelsStr), &rec.Pattern.KeyLevels); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabaseError, "bad key levels JSON: "+err.Error())
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Symbols returns the distinct symbols with stored bars.
func (s *SQLiteStore) Symbols() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT symbol FROM bars ORDER BY symbol`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err.Error())
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err.Error())
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
