package watchlist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one pinned symbol on the dashboard watchlist.
type Entry struct {
	Symbol   string    `json:"symbol"`
	Note     string    `json:"note,omitempty"`
	Category string    `json:"category,omitempty"`
	AddedAt  time.Time `json:"addedAt"`
}

// Repository persists the watchlist.
// SSOT: watchlist rows are read and written only here.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the watchlist table when it does not exist yet.
// The desktop deployment runs against a local database with no migration
// tooling, so the schema is applied at startup.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS watchlist (
			symbol     TEXT PRIMARY KEY,
			note       TEXT NOT NULL DEFAULT '',
			category   TEXT NOT NULL DEFAULT '',
			added_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure watchlist schema: %w", err)
	}
	return nil
}

// Add upserts a symbol. Re-adding an existing symbol updates the note and
// category and keeps the original added_at.
func (r *Repository) Add(ctx context.Context, symbol, note, category string) (*Entry, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	query := `
		INSERT INTO watchlist (symbol, note, category)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol) DO UPDATE SET note = EXCLUDED.note, category = EXCLUDED.category
		RETURNING symbol, note, category, added_at
	`

	var entry Entry
	err := r.pool.QueryRow(ctx, query, symbol, note, category).Scan(&entry.Symbol, &entry.Note, &entry.Category, &entry.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("add watchlist symbol %s: %w", symbol, err)
	}
	return &entry, nil
}

// Remove deletes a symbol and reports whether it was present.
func (r *Repository) Remove(ctx context.Context, symbol string) (bool, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return false, fmt.Errorf("symbol is required")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM watchlist WHERE symbol = $1`, symbol)
	if err != nil {
		return false, fmt.Errorf("remove watchlist symbol %s: %w", symbol, err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns all entries, oldest first.
func (r *Repository) List(ctx context.Context) ([]Entry, error) {
	query := `
		SELECT symbol, note, category, added_at
		FROM watchlist
		ORDER BY added_at, symbol
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Symbol, &e.Note, &e.Category, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("scan watchlist row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watchlist rows: %w", err)
	}
	return entries, nil
}

// Symbols returns just the tickers, for jobs that warm caches.
func (r *Repository) Symbols(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT symbol FROM watchlist ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("list watchlist symbols: %w", err)
	}
	symbols, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect watchlist symbols: %w", err)
	}
	return symbols, nil
}
