package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"todo-list/internal/model"
	"todo-list/internal/repository"
)

type testEnv struct {
	users      *repository.UserRepository
	categories *repository.CategoryRepository
	tasks      *repository.TaskRepository
	clock      *fakeClock
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()
	db, err := repository.NewDB("file:"+uuid.NewString()+"?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return &testEnv{
		users:      repository.NewUserRepository(db),
		categories: repository.NewCategoryRepository(db),
		tasks:      repository.NewTaskRepository(db),
		clock:      &fakeClock{t: now},
	}
}

func (e *testEnv) user(t *testing.T, name string) *model.User {
	t.Helper()
	user := &model.User{Username: name, PasswordHash: "x"}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) category(t *testing.T, owner *model.User, title string) *model.Category {
	t.Helper()
	category := &model.Category{UserID: owner.ID, Title: title}
	require.NoError(t, e.categories.Create(context.Background(), category))
	return category
}

func (e *testEnv) task(t *testing.T, owner *model.User, title string, deadline time.Time, category *model.Category) *model.Task {
	t.Helper()
	task := &model.Task{UserID: owner.ID, Title: title, Deadline: deadline}
	if category != nil {
		task.CategoryID = &category.ID
	}
	require.NoError(t, e.tasks.Create(context.Background(), task))
	return task
}

func (e *testEnv) taskService() *TaskService {
	return NewTaskService(e.tasks, e.categories, e.clock.Now)
}

func taskIDs(tasks []model.Task) []uint {
	out := []uint{}
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}
