package service

import (
	"context"
	"testing"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkReadIsOwnerScoped(t *testing.T) {
	repo := &stubNotificationRepo{}
	svc := NewNotificationService(repo)

	owner := uuid.New()
	stranger := uuid.New()
	n := &model.Notification{UserID: owner, Message: "Pedido confirmado"}
	require.NoError(t, repo.Create(context.Background(), n))

	err := svc.MarkRead(context.Background(), n.ID, stranger)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	require.NoError(t, svc.MarkRead(context.Background(), n.ID, owner))

	feed, err := svc.ListMine(context.Background(), owner, 50)
	require.NoError(t, err)
	require.Len(t, feed.Data, 1)
	assert.True(t, feed.Data[0].Read)
	assert.Zero(t, feed.Unread)
}

func TestListMineCountsUnread(t *testing.T) {
	repo := &stubNotificationRepo{}
	svc := NewNotificationService(repo)

	owner := uuid.New()
	other := uuid.New()
	for _, uid := range []uuid.UUID{owner, owner, other} {
		require.NoError(t, repo.Create(context.Background(), &model.Notification{UserID: uid, Message: "Novo pedido"}))
	}

	feed, err := svc.ListMine(context.Background(), owner, 0) // out-of-range limit falls back to default
	require.NoError(t, err)
	assert.Len(t, feed.Data, 2)
	assert.EqualValues(t, 2, feed.Unread)

	require.NoError(t, svc.MarkAllRead(context.Background(), owner))
	feed, err = svc.ListMine(context.Background(), owner, 50)
	require.NoError(t, err)
	assert.Zero(t, feed.Unread)
}
