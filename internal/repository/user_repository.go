package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"todo-list/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. A taken username yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// SetTelegramChat links (or, with nil, unlinks) the chat that receives digests.
func (r *UserRepository) SetTelegramChat(ctx context.Context, userID uint, chatID *int64) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		Update("telegram_chat_id", chatID)
	if res.Error != nil {
		return fmt.Errorf("set telegram chat: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByTelegramChat returns the user linked to chatID.
func (r *UserRepository) FindByTelegramChat(ctx context.Context, chatID int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("telegram_chat_id = ?", chatID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// SetTelegramLinkCode stores a one-time code that links a chat to userID until expiresAt.
func (r *UserRepository) SetTelegramLinkCode(ctx context.Context, userID uint, code string, expiresAt time.Time) error {
	expiresAt = expiresAt.UTC()
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(map[string]any{
		"telegram_link_code":       code,
		"telegram_link_expires_at": expiresAt,
	})
	if res.Error != nil {
		return fmt.Errorf("set telegram link code: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ConfirmTelegramLink consumes an unexpired code and links chatID to its
// owner. A chat linked to another account is moved over. An unknown or
// expired code yields ErrNotFound.
func (r *UserRepository) ConfirmTelegramLink(ctx context.Context, code string, chatID int64, now time.Time) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("telegram_link_code = ? AND telegram_link_expires_at > ?", code, now.UTC()).
			First(&user).Error; err != nil {
			return translate(err)
		}
		if err := tx.Model(&model.User{}).
			Where("telegram_chat_id = ? AND id <> ?", chatID, user.ID).
			Update("telegram_chat_id", nil).Error; err != nil {
			return fmt.Errorf("release telegram chat: %w", err)
		}
		if err := tx.Model(&user).Updates(map[string]any{
			"telegram_chat_id":         chatID,
			"telegram_link_code":       nil,
			"telegram_link_expires_at": nil,
		}).Error; err != nil {
			return fmt.Errorf("link telegram chat: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, user.ID)
}

// ListWithTelegram returns users that have linked a Telegram chat.
func (r *UserRepository) ListWithTelegram(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Where("telegram_chat_id IS NOT NULL").Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list telegram users: %w", err)
	}
	return users, nil
}

// Delete removes a user together with every task and category they own.
func (r *UserRepository) Delete(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.Task{}).Error; err != nil {
			return fmt.Errorf("delete user tasks: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Category{}).Error; err != nil {
			return fmt.Errorf("delete user categories: %w", err)
		}
		res := tx.Delete(&model.User{}, userID)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
