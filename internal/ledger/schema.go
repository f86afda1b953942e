package ledger

const schema = `
CREATE TABLE IF NOT EXISTS posted_items (
    item_id   TEXT PRIMARY KEY,
    title     TEXT NOT NULL DEFAULT '',
    link      TEXT NOT NULL DEFAULT '',
    posted_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_posted_items_posted_at ON posted_items(posted_at);
`
