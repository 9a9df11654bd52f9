// Package store хранит историю ежедневных постов в SQLite, чтобы после
// рестарта бот не запостил вопрос дня второй раз.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrAlreadyPosted — за этот день запись уже есть.
var ErrAlreadyPosted = errors.New("daily post already recorded")

// DayLayout — формат ключа дня.
const DayLayout = "2006-01-02"

type DailyPost struct {
	ID        string
	Day       string
	Ref       string
	Label     string
	URL       string
	ChannelID string
	PostedAt  time.Time
}

type Store struct {
	db *sql.DB
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS daily_posts (
		id         TEXT PRIMARY KEY,
		day        TEXT NOT NULL UNIQUE,
		ref        TEXT NOT NULL,
		label      TEXT NOT NULL,
		url        TEXT NOT NULL,
		channel_id TEXT NOT NULL DEFAULT '',
		posted_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_posts_posted ON daily_posts(posted_at)`,
}

// Open открывает (и создаёт) базу по пути и прогоняет миграции.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// одна запись в день — пул не нужен, а :memory: живёт только в одном соединении
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Record сохраняет пост. ID и PostedAt заполняются, если пустые.
func (s *Store) Record(ctx context.Context, p DailyPost) (DailyPost, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PostedAt.IsZero() {
		p.PostedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_posts (id, day, ref, label, url, channel_id, posted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(day) DO NOTHING`,
		p.ID, p.Day, p.Ref, p.Label, p.URL, p.ChannelID, p.PostedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return DailyPost{}, fmt.Errorf("inserting daily post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return DailyPost{}, fmt.Errorf("inserting daily post: %w", err)
	}
	if n == 0 {
		return DailyPost{}, fmt.Errorf("%s: %w", p.Day, ErrAlreadyPosted)
	}
	return p, nil
}

// Posted — есть ли запись за день.
func (s *Store) Posted(ctx context.Context, day string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_posts WHERE day = ?`, day).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking daily post: %w", err)
	}
	return n > 0, nil
}

// Get возвращает пост за день; sql.ErrNoRows, если нет.
func (s *Store) Get(ctx context.Context, day string) (DailyPost, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, day, ref, label, url, channel_id, posted_at FROM daily_posts WHERE day = ?`, day)
	return scanPost(row)
}

// Recent — последние limit постов, новые первыми.
func (s *Store) Recent(ctx context.Context, limit int) ([]DailyPost, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, day, ref, label, url, channel_id, posted_at
		 FROM daily_posts ORDER BY day DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing daily posts: %w", err)
	}
	defer rows.Close()

	var out []DailyPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(r scanner) (DailyPost, error) {
	var p DailyPost
	var postedAt string
	if err := r.Scan(&p.ID, &p.Day, &p.Ref, &p.Label, &p.URL, &p.ChannelID, &postedAt); err != nil {
		return DailyPost{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, postedAt)
	if err != nil {
		return DailyPost{}, fmt.Errorf("parsing posted_at %q: %w", postedAt, err)
	}
	p.PostedAt = t
	return p, nil
}
