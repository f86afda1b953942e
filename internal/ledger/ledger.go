package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Record is one delivered item, kept for audit only. Identity lives in
// ItemID; the other columns are never consulted for deduplication.
type Record struct {
	ItemID   string `db:"item_id"`
	Title    string `db:"title"`
	Link     string `db:"link"`
	PostedAt int64  `db:"posted_at"`
}

// Ledger is the durable set of item identities already delivered.
// Rows are inserted exactly once and never updated or deleted.
type Ledger struct {
	db *sqlx.DB
}

// Open creates the backing SQLite store, its parent directory, and the
// schema when absent.
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger dir %s: %w", dir, err)
		}
	}

	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create ledger schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// Has reports whether the item was already delivered.
func (l *Ledger) Has(ctx context.Context, itemID string) (bool, error) {
	var n int
	err := l.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM posted_items WHERE item_id = ?", itemID)
	if err != nil {
		return false, fmt.Errorf("lookup item %s: %w", itemID, err)
	}
	return n > 0, nil
}

// Record marks the item as delivered. Inserting an id that is already
// present is a no-op, never an error; the insert is committed before
// Record returns, so a restarted process sees it.
func (l *Ledger) Record(ctx context.Context, itemID, title, link string) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO posted_items (item_id, title, link, posted_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(item_id) DO NOTHING
	`, itemID, title, link, time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("record item %s: %w", itemID, err)
	}
	return nil
}

// Count returns the number of delivered items.
func (l *Ledger) Count(ctx context.Context) (int, error) {
	var n int
	if err := l.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM posted_items"); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// Recent returns the most recently delivered items, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []Record
	err := l.db.SelectContext(ctx, &records,
		"SELECT * FROM posted_items ORDER BY posted_at DESC, item_id LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list recent items: %w", err)
	}
	return records, nil
}
