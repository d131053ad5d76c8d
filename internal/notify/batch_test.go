package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/sitehub-notify/internal/classify"
	"github.com/nhle/sitehub-notify/internal/logx"
	"github.com/nhle/sitehub-notify/internal/model"
	"github.com/nhle/sitehub-notify/tests/testutil"
)

var siteBody = Params{
	Title:   "Site closure",
	Message: "The site is closed for scheduled maintenance",
	Type:    model.TypeSystem,
}

func TestNotifyMultipleUsersPreservesOrder(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)

	got, err := svc.NotifyMultipleUsers(context.Background(), []int64{1, 2, 3}, siteBody, classify.LabelMaintenance)
	require.NoError(t, err)
	require.Len(t, got, 3)

	ids := map[string]bool{}
	for i, n := range got {
		assert.Equal(t, int64(i+1), n.UserID)
		assert.Equal(t, got[0].Title, n.Title)
		assert.Equal(t, got[0].Message, n.Message)
		assert.Equal(t, got[0].Type, n.Type)
		assert.Equal(t, got[0].Priority, n.Priority)
		assert.Equal(t, got[0].Emoji, n.Emoji)
		ids[n.ID] = true
	}
	assert.Len(t, ids, 3, "distinct ids")
	assert.Equal(t, model.PriorityNormal, got[0].Priority)
	assert.Equal(t, "🔧", got[0].Emoji)
}

func TestNotifyMultipleUsersExtractsWithoutLabel(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)

	got, err := svc.NotifyMultipleUsers(context.Background(), []int64{5}, siteBody, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.PriorityNormal, got[0].Priority, "maintenance extracted from message")
}

func TestNotifyMultipleUsersEmpty(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)

	got, err := svc.NotifyMultipleUsers(context.Background(), nil, siteBody, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNotifyMultipleUsersAbortPolicy(t *testing.T) {
	t.Parallel()
	fs := &flakyStore{
		NotificationStore: testutil.NewTestStore(t),
		fail:              map[int64]error{2: errDiskFull},
	}
	svc := New(testutil.NewTestEngine(t), fs)

	got, err := svc.NotifyMultipleUsers(context.Background(), []int64{1, 2, 3}, siteBody, "")
	require.Error(t, err)

	var rerr *RecipientError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, int64(2), rerr.UserID)
	assert.ErrorIs(t, err, errDiskFull)

	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].UserID)
	assert.Equal(t, []int64{1, 2}, fs.calls, "user 3 never attempted")
}

func TestNotifyMultipleUsersContinuePolicy(t *testing.T) {
	t.Parallel()
	fs := &flakyStore{
		NotificationStore: testutil.NewTestStore(t),
		fail:              map[int64]error{2: errDiskFull, 4: errDiskFull},
	}
	var buf bytes.Buffer
	svc := New(testutil.NewTestEngine(t), fs,
		WithConfig(Config{BatchPolicy: model.BatchPolicyContinue}),
		WithLogger(logx.NewWithWriter(logx.Config{}, &buf)))

	got, err := svc.NotifyMultipleUsers(context.Background(), []int64{1, 2, 3, 4}, siteBody, "")
	require.Error(t, err)

	var berr *BatchError
	require.True(t, errors.As(err, &berr))
	assert.Equal(t, []int64{2, 4}, berr.FailedUserIDs())
	assert.ErrorIs(t, err, errDiskFull)
	assert.Contains(t, err.Error(), "2 recipient(s) failed")

	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].UserID)
	assert.Equal(t, int64(3), got[1].UserID)
	assert.Equal(t, []int64{1, 2, 3, 4}, fs.calls)
	assert.Contains(t, buf.String(), `"failed_user_ids":[2,4]`)
}
