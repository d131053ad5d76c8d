package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/sitehub-notify/internal/model"
)

// ErrNotFound is returned when a notification does not exist.
var ErrNotFound = errors.New("notification not found")

// notificationColumns is the explicit select list matching model.Notification's
// db tags.
const notificationColumns = `id, user_id, title, message, type, priority, emoji,
	related_item_id, related_item_type, action_url, created_at, is_read`

// SQLiteStore implements NotificationStore using a SQLite database.
type SQLiteStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// SQLite prefers a single writer; this also keeps an in-memory
	// database on one connection.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := New(db)
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// New wraps an already-open database. The schema is assumed to exist.
func New(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// CreateNotification inserts a new notification record. Every call
// creates a new row; identical inputs are never deduplicated.
func (s *SQLiteStore) CreateNotification(
	ctx context.Context,
	n model.Notification,
) (*model.Notification, error) {
	n.ID = uuid.New().String()
	n.CreatedAt = s.now().UTC()
	n.IsRead = false

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (
			id, user_id, title, message, type, priority, emoji,
			related_item_id, related_item_type, action_url, created_at, is_read
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Title, n.Message, string(n.Type), string(n.Priority), n.Emoji,
		n.RelatedItemID, n.RelatedItemType, n.ActionURL, n.CreatedAt, boolToInt(n.IsRead),
	)
	if err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}

	return &n, nil
}

// GetNotificationByID retrieves a single notification.
func (s *SQLiteStore) GetNotificationByID(
	ctx context.Context,
	id string,
) (*model.Notification, error) {
	var n model.Notification
	err := s.db.GetContext(ctx, &n,
		"SELECT "+notificationColumns+" FROM notifications WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting notification %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting notification %s: %w", id, err)
	}
	return &n, nil
}

// GetNotifications retrieves a user's notifications matching filter,
// newest first.
func (s *SQLiteStore) GetNotifications(
	ctx context.Context,
	filter NotificationFilter,
) ([]model.Notification, error) {
	conditions := []string{"user_id = ?"}
	args := []interface{}{filter.UserID}

	if filter.UnreadOnly {
		conditions = append(conditions, "is_read = 0")
	}
	if filter.Type != nil {
		conditions = append(conditions, "type = ?")
		args = append(args, string(*filter.Type))
	}

	query := "SELECT " + notificationColumns + " FROM notifications WHERE " +
		strings.Join(conditions, " AND ") +
		" ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	var notifications []model.Notification
	if err := s.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("querying notifications for user %d: %w", filter.UserID, err)
	}
	return notifications, nil
}

// GetUnreadNotifications retrieves all unread notifications for a user,
// newest first.
func (s *SQLiteStore) GetUnreadNotifications(
	ctx context.Context,
	userID int64,
) ([]model.Notification, error) {
	return s.GetNotifications(ctx, NotificationFilter{UserID: userID, UnreadOnly: true})
}

// CountUnread returns the number of unread notifications for a user.
func (s *SQLiteStore) CountUnread(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0", userID)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications for user %d: %w", userID, err)
	}
	return count, nil
}

// MarkNotificationRead marks a single notification as read.
func (s *SQLiteStore) MarkNotificationRead(
	ctx context.Context,
	id string,
) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1 WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("marking notification %s as read: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("marking notification %s as read: %w", id, ErrNotFound)
	}
	return nil
}

// MarkAllRead marks every unread notification of a user as read and
// returns how many rows changed.
func (s *SQLiteStore) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0", userID,
	)
	if err != nil {
		return 0, fmt.Errorf("marking notifications of user %d as read: %w", userID, err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
