package service

import (
	"context"
	"time"

	"todo-list/internal/model"
	"todo-list/internal/repository"
)

// TaskStore is the task persistence used by the services.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	Find(ctx context.Context, userID uint, filter repository.TaskFilter) ([]model.Task, error)
	FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error)
	Save(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, userID, taskID uint) error
	ListOverdue(ctx context.Context, userID uint, before time.Time) ([]model.Task, error)
}

// CategoryStore is the category persistence used by the services.
type CategoryStore interface {
	Create(ctx context.Context, category *model.Category) error
	ListByUser(ctx context.Context, userID uint) ([]model.Category, error)
	GetByID(ctx context.Context, userID, id uint) (*model.Category, error)
	Rename(ctx context.Context, userID, id uint, title string) (*model.Category, error)
	Delete(ctx context.Context, userID, id uint) error
}

// UserStore is the account persistence used by the services.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByTelegramChat(ctx context.Context, chatID int64) (*model.User, error)
	SetTelegramChat(ctx context.Context, userID uint, chatID *int64) error
	SetTelegramLinkCode(ctx context.Context, userID uint, code string, expiresAt time.Time) error
	ConfirmTelegramLink(ctx context.Context, code string, chatID int64, now time.Time) (*model.User, error)
	ListWithTelegram(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, userID uint) error
}

var (
	_ TaskStore     = (*repository.TaskRepository)(nil)
	_ CategoryStore = (*repository.CategoryRepository)(nil)
	_ UserStore     = (*repository.UserRepository)(nil)
)
