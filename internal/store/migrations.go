package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id                TEXT PRIMARY KEY,
	user_id           INTEGER NOT NULL,
	title             TEXT NOT NULL,
	message           TEXT NOT NULL,
	type              TEXT NOT NULL,
	priority          TEXT NOT NULL CHECK(priority IN ('urgent', 'high', 'normal', 'low', 'info')),
	emoji             TEXT NOT NULL CHECK(emoji <> ''),
	related_item_id   INTEGER,
	related_item_type TEXT,
	action_url        TEXT,
	created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	is_read           INTEGER NOT NULL DEFAULT 0 CHECK(is_read IN (0, 1))
);

CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, is_read);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_notifications_related
	ON notifications(related_item_type, related_item_id);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
