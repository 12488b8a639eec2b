package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"todo-list/internal/model"
	"todo-list/internal/repository"
)

// TelegramLinkTTL is how long a link code stays valid.
const TelegramLinkTTL = 15 * time.Minute

// TelegramLink is a pending link: the user sends "/start <Code>" to the bot.
type TelegramLink struct {
	Code      string
	ExpiresAt time.Time
}

// AccountService manages the signed-in user's own account.
type AccountService struct {
	users UserStore
	now   func() time.Time
}

func NewAccountService(users UserStore, now func() time.Time) *AccountService {
	if now == nil {
		now = time.Now
	}
	return &AccountService{users: users, now: now}
}

// IssueTelegramLink creates a one-time code proving chat ownership. Issuing a
// new code replaces any pending one.
func (s *AccountService) IssueTelegramLink(ctx context.Context, user *model.User) (*TelegramLink, error) {
	link := &TelegramLink{
		Code:      strings.ReplaceAll(uuid.NewString(), "-", ""),
		ExpiresAt: s.now().Add(TelegramLinkTTL),
	}
	if err := s.users.SetTelegramLinkCode(ctx, user.ID, link.Code, link.ExpiresAt); err != nil {
		return nil, storeErr(err)
	}
	return link, nil
}

// ConfirmTelegramLink links chatID to the owner of code. It is called by the
// bot, so the chat id comes from Telegram and not from the account holder.
func (s *AccountService) ConfirmTelegramLink(ctx context.Context, code string, chatID int64) (*model.User, error) {
	code = strings.TrimSpace(code)
	if code == "" || chatID == 0 {
		return nil, ErrInvalidLinkCode
	}
	user, err := s.users.ConfirmTelegramLink(ctx, code, chatID, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidLinkCode
	}
	if err != nil {
		return nil, fmt.Errorf("confirm telegram link: %w", err)
	}
	return user, nil
}

// UnlinkTelegram stops digests for user.
func (s *AccountService) UnlinkTelegram(ctx context.Context, user *model.User) (*model.User, error) {
	if err := s.users.SetTelegramChat(ctx, user.ID, nil); err != nil {
		return nil, storeErr(err)
	}
	updated, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		return nil, storeErr(err)
	}
	return updated, nil
}

// FindByTelegramChat resolves the account linked to a chat.
func (s *AccountService) FindByTelegramChat(ctx context.Context, chatID int64) (*model.User, error) {
	user, err := s.users.FindByTelegramChat(ctx, chatID)
	if err != nil {
		return nil, storeErr(err)
	}
	return user, nil
}

// Delete removes the account along with all its categories and tasks.
func (s *AccountService) Delete(ctx context.Context, user *model.User) error {
	return storeErr(s.users.Delete(ctx, user.ID))
}
