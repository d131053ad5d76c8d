package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/sitehub-notify/internal/model"
	"github.com/nhle/sitehub-notify/internal/store"
	"github.com/nhle/sitehub-notify/tests/testutil"
)

func ptr[T any](v T) *T { return &v }

func sample(userID int64, typ model.NotificationType) model.Notification {
	return model.Notification{
		UserID:   userID,
		Title:    "Delivery",
		Message:  "Rebar delivered to gate 2",
		Type:     typ,
		Priority: model.PriorityNormal,
		Emoji:    "📦",
	}
}

func TestCreateAndGetNotification(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	in := sample(7, model.TypeOrder)
	in.ID = "caller-supplied"
	in.IsRead = true
	in.RelatedItemID = ptr(int64(31))
	in.RelatedItemType = ptr("order")
	in.ActionURL = ptr("/orders/31")

	created, err := s.CreateNotification(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, "caller-supplied", created.ID)
	assert.False(t, created.IsRead)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetNotificationByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, model.TypeOrder, got.Type)
	assert.Equal(t, model.PriorityNormal, got.Priority)
	assert.Equal(t, "📦", got.Emoji)
	assert.False(t, got.IsRead)
	require.NotNil(t, got.RelatedItemID)
	assert.Equal(t, int64(31), *got.RelatedItemID)
	assert.Equal(t, "order", *got.RelatedItemType)
	assert.Equal(t, "/orders/31", *got.ActionURL)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt.UTC()))
}

func TestCreateNotificationNullableFields(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	created, err := s.CreateNotification(ctx, sample(1, model.TypeSystem))
	require.NoError(t, err)

	got, err := s.GetNotificationByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RelatedItemID)
	assert.Nil(t, got.RelatedItemType)
	assert.Nil(t, got.ActionURL)
}

func TestCreateNotificationRejectsEmptyEmoji(t *testing.T) {
	s := testutil.NewTestStore(t)

	n := sample(1, model.TypeSystem)
	n.Emoji = ""
	_, err := s.CreateNotification(context.Background(), n)
	assert.Error(t, err)
}

func TestGetNotificationByIDNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.GetNotificationByID(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetNotificationsFilters(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	var ids []string
	for _, typ := range []model.NotificationType{model.TypeOrder, model.TypeBid, model.TypeOrder} {
		n, err := s.CreateNotification(ctx, sample(2, typ))
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}
	_, err := s.CreateNotification(ctx, sample(3, model.TypeOrder))
	require.NoError(t, err)

	all, err := s.GetNotifications(ctx, store.NotificationFilter{UserID: 2})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID, "newest first")
	assert.Equal(t, ids[0], all[2].ID)

	orders, err := s.GetNotifications(ctx, store.NotificationFilter{UserID: 2, Type: ptr(model.TypeOrder)})
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	page, err := s.GetNotifications(ctx, store.NotificationFilter{UserID: 2, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[1], page[0].ID)

	none, err := s.GetNotifications(ctx, store.NotificationFilter{UserID: 404})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReadState(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	a, err := s.CreateNotification(ctx, sample(4, model.TypeMessage))
	require.NoError(t, err)
	_, err = s.CreateNotification(ctx, sample(4, model.TypeMessage))
	require.NoError(t, err)
	_, err = s.CreateNotification(ctx, sample(4, model.TypeBid))
	require.NoError(t, err)

	count, err := s.CountUnread(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, s.MarkNotificationRead(ctx, a.ID))
	unread, err := s.GetUnreadNotifications(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, unread, 2)
	for _, n := range unread {
		assert.NotEqual(t, a.ID, n.ID)
	}

	got, err := s.GetNotificationByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)

	err = s.MarkNotificationRead(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	changed, err := s.MarkAllRead(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)

	count, err = s.CountUnread(ctx, 4)
	require.NoError(t, err)
	assert.Zero(t, count)

	changed, err = s.MarkAllRead(ctx, 4)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestNewSQLiteStoreOnDiskReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "notify.db")
	ctx := context.Background()

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	n, err := s.CreateNotification(ctx, sample(8, model.TypeProjectUpdate))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Migrations already applied must be skipped on reopen.
	s, err = store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetNotificationByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TypeProjectUpdate, got.Type)
}

func TestCreateNotificationWrapsDriverError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := store.New(sqlx.NewDb(db, "sqlmock"))
	driverErr := errors.New("database is locked")
	mock.ExpectExec("INSERT INTO notifications").WillReturnError(driverErr)

	n, err := s.CreateNotification(context.Background(), sample(1, model.TypeSystem))
	assert.Nil(t, n)
	assert.ErrorIs(t, err, driverErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountUnreadWithMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := store.New(sqlx.NewDb(db, "sqlmock"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE user_id = \? AND is_read = 0`).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := s.CountUnread(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
