package journal

const Schema = `
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS operations (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL,
	amount TEXT NOT NULL,
	result TEXT NOT NULL CHECK (result IN ('WIN', 'LOSS')),
	payout_percent TEXT,
	strategy TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_operations_created_at ON operations(created_at);
`

const initialBalanceKey = "initial_balance"
