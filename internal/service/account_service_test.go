package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-list/internal/model"
)

func linkChat(t *testing.T, accounts *AccountService, user *model.User, chatID int64) {
	t.Helper()
	ctx := context.Background()
	link, err := accounts.IssueTelegramLink(ctx, user)
	require.NoError(t, err)
	_, err = accounts.ConfirmTelegramLink(ctx, link.Code, chatID)
	require.NoError(t, err)
}

func TestAccountService_TelegramLinkHandshake(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, tuesday)
	alice := env.user(t, "alice")
	svc := NewAccountService(env.users, env.clock.Now)

	link, err := svc.IssueTelegramLink(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, link.Code, 32)
	assert.Equal(t, tuesday.Add(TelegramLinkTTL), link.ExpiresAt)

	_, err = svc.ConfirmTelegramLink(ctx, link.Code, 0)
	require.ErrorIs(t, err, ErrInvalidLinkCode)
	_, err = svc.ConfirmTelegramLink(ctx, "  ", 42)
	require.ErrorIs(t, err, ErrInvalidLinkCode)
	_, err = svc.ConfirmTelegramLink(ctx, "someone-elses-guess", 42)
	require.ErrorIs(t, err, ErrInvalidLinkCode)

	linked, err := svc.ConfirmTelegramLink(ctx, link.Code, 42)
	require.NoError(t, err)
	require.NotNil(t, linked.TelegramChatID)
	assert.Equal(t, int64(42), *linked.TelegramChatID)

	found, err := svc.FindByTelegramChat(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)

	unlinked, err := svc.UnlinkTelegram(ctx, alice)
	require.NoError(t, err)
	assert.Nil(t, unlinked.TelegramChatID)
	_, err = svc.FindByTelegramChat(ctx, 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAccountService_TelegramLinkExpires(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, tuesday)
	alice := env.user(t, "alice")
	svc := NewAccountService(env.users, env.clock.Now)

	link, err := svc.IssueTelegramLink(ctx, alice)
	require.NoError(t, err)

	env.clock.t = tuesday.Add(TelegramLinkTTL + time.Second)
	_, err = svc.ConfirmTelegramLink(ctx, link.Code, 42)
	require.ErrorIs(t, err, ErrInvalidLinkCode)
}

func TestAccountService_NewLinkReplacesPending(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, tuesday)
	alice := env.user(t, "alice")
	svc := NewAccountService(env.users, env.clock.Now)

	first, err := svc.IssueTelegramLink(ctx, alice)
	require.NoError(t, err)
	second, err := svc.IssueTelegramLink(ctx, alice)
	require.NoError(t, err)

	_, err = svc.ConfirmTelegramLink(ctx, first.Code, 42)
	require.ErrorIs(t, err, ErrInvalidLinkCode)
	_, err = svc.ConfirmTelegramLink(ctx, second.Code, 42)
	require.NoError(t, err)
}

func TestAccountService_Delete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, tuesday)
	alice := env.user(t, "alice")
	env.task(t, alice, "chore", tuesday, nil)
	svc := NewAccountService(env.users, env.clock.Now)

	require.NoError(t, svc.Delete(ctx, alice))
	require.ErrorIs(t, svc.Delete(ctx, alice), ErrNotFound)

	_, err := env.users.FindByID(ctx, alice.ID)
	require.Error(t, err)
}
