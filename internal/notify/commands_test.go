package notify

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-list/internal/logging"
	"todo-list/internal/model"
	"todo-list/internal/repository"
	"todo-list/internal/service"
)

type commandEnv struct {
	now        time.Time
	users      *repository.UserRepository
	categories *repository.CategoryRepository
	tasks      *repository.TaskRepository
	accounts   *service.AccountService
	commands   *Commands
}

func newCommandEnv(t *testing.T) *commandEnv {
	t.Helper()
	db, err := repository.NewDB("file:"+uuid.NewString()+"?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	env := &commandEnv{
		now:        time.Date(2024, time.October, 8, 14, 0, 0, 0, time.UTC),
		users:      repository.NewUserRepository(db),
		categories: repository.NewCategoryRepository(db),
		tasks:      repository.NewTaskRepository(db),
	}
	now := func() time.Time { return env.now }
	env.accounts = service.NewAccountService(env.users, now)
	env.commands = NewCommands(
		env.accounts,
		service.NewTaskService(env.tasks, env.categories, now),
		service.NewCategoryService(env.categories),
		logging.Discard(),
		now,
	)
	return env
}

// user creates an account and, for a non-zero chatID, links it through a link code.
func (e *commandEnv) user(t *testing.T, name string, chatID int64) *model.User {
	t.Helper()
	ctx := context.Background()
	user := &model.User{Username: name, PasswordHash: "x"}
	require.NoError(t, e.users.Create(ctx, user))
	if chatID != 0 {
		link, err := e.accounts.IssueTelegramLink(ctx, user)
		require.NoError(t, err)
		_, err = e.accounts.ConfirmTelegramLink(ctx, link.Code, chatID)
		require.NoError(t, err)
	}
	return user
}

func (e *commandEnv) task(t *testing.T, owner *model.User, title string, deadline time.Time) *model.Task {
	t.Helper()
	task := &model.Task{UserID: owner.ID, Title: title, Deadline: deadline}
	require.NoError(t, e.tasks.Create(context.Background(), task))
	return task
}

func commandMessage(text, chatType string) *tgbotapi.Message {
	name := strings.Fields(text)[0]
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 555, Type: chatType},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}
}

func (e *commandEnv) reply(t *testing.T, text string) string {
	t.Helper()
	reply, ok := e.commands.Reply(context.Background(), commandMessage(text, "private"))
	require.True(t, ok, text)
	return reply
}

func TestCommands_IgnoresNonCommands(t *testing.T) {
	env := newCommandEnv(t)

	tests := []struct {
		name string
		msg  *tgbotapi.Message
	}{
		{name: "nil message", msg: nil},
		{name: "group chat", msg: commandMessage("/tasks", "group")},
		{name: "plain text", msg: &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 555, Type: "private"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := env.commands.Reply(context.Background(), tt.msg)
			assert.False(t, ok)
		})
	}

	assert.Contains(t, env.reply(t, "/unknown"), "/help")
	assert.Contains(t, env.reply(t, "/help"), "/tasks")
}

func TestCommands_StartLinksChat(t *testing.T) {
	ctx := context.Background()
	env := newCommandEnv(t)
	alice := env.user(t, "alice", 0)

	assert.Contains(t, env.reply(t, "/start"), "not linked")
	assert.Contains(t, env.reply(t, "/tasks"), "not linked")
	assert.Contains(t, env.reply(t, "/start made-up-code"), "invalid or expired")

	link, err := env.accounts.IssueTelegramLink(ctx, alice)
	require.NoError(t, err)
	assert.Contains(t, env.reply(t, "/start "+link.Code), "Linked to <b>alice</b>")

	linked, err := env.users.FindByTelegramChat(ctx, 555)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, linked.ID)

	assert.Contains(t, env.reply(t, "/start "+link.Code), "invalid or expired", "codes are single use")
	assert.Contains(t, env.reply(t, "/start"), "linked to <b>alice</b>")
}

func TestCommands_Tasks(t *testing.T) {
	ctx := context.Background()
	env := newCommandEnv(t)
	alice := env.user(t, "alice", 555)
	bob := env.user(t, "bob", 0)

	work := &model.Category{UserID: alice.ID, Title: "Deep Work"}
	require.NoError(t, env.categories.Create(ctx, work))

	today := env.task(t, alice, "Write <report>", env.now.Add(2*time.Hour))
	wednesday := env.task(t, alice, "Review", time.Date(2024, time.October, 9, 10, 0, 0, 0, time.UTC))
	wednesday.CategoryID = &work.ID
	require.NoError(t, env.tasks.Save(ctx, wednesday))
	done := env.task(t, alice, "Old chore", env.now.Add(-time.Hour))
	done.Completed = true
	require.NoError(t, env.tasks.Save(ctx, done))
	env.task(t, bob, "Bob secret", env.now)

	t.Run("week", func(t *testing.T) {
		reply := env.reply(t, "/tasks week")
		assert.Contains(t, reply, "Tasks: week")
		assert.Contains(t, reply, "<b>Tuesday - 8 Oct</b>")
		assert.Contains(t, reply, "<b>Wednesday - 9 Oct</b>")
		assert.NotContains(t, reply, "Thursday", "empty sub-periods are skipped")
		assert.Contains(t, reply, "Write &lt;report&gt;")
		assert.Contains(t, reply, "#"+uintStr(today.ID))
		assert.Contains(t, reply, "Completed: 1")
		assert.NotContains(t, reply, "Bob secret")
		assert.Less(t, strings.Index(reply, "Tuesday"), strings.Index(reply, "Wednesday"))
	})

	t.Run("category with spaces", func(t *testing.T) {
		reply := env.reply(t, "/tasks Deep Work")
		assert.Contains(t, reply, "Tasks: all <i>(Deep Work)</i>")
		assert.Contains(t, reply, "Review")
		assert.NotContains(t, reply, "report")
	})

	t.Run("period and category", func(t *testing.T) {
		reply := env.reply(t, "/tasks today Deep Work")
		assert.Contains(t, reply, "Today - 8 Oct")
		assert.Contains(t, reply, "Nothing to do")
	})
}

func TestCommands_DoneAndDelete(t *testing.T) {
	ctx := context.Background()
	env := newCommandEnv(t)
	alice := env.user(t, "alice", 555)
	bob := env.user(t, "bob", 0)
	task := env.task(t, alice, "Pay rent", env.now.Add(time.Hour))
	other := env.task(t, bob, "Bob task", env.now)

	assert.Contains(t, env.reply(t, "/done"), "Give the task id")
	assert.Contains(t, env.reply(t, "/done abc"), "Give the task id")
	assert.Equal(t, "Task not found.", env.reply(t, "/done "+uintStr(other.ID)))

	assert.Contains(t, env.reply(t, "/done #"+uintStr(task.ID)), "«Pay rent» completed")
	stored, err := env.tasks.FindByID(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
	require.NotNil(t, stored.FinishedDate)

	assert.Equal(t, "Task not found.", env.reply(t, "/delete "+uintStr(other.ID)))
	assert.Contains(t, env.reply(t, "/delete "+uintStr(task.ID)), "deleted")
	_, err = env.tasks.FindByID(ctx, alice.ID, task.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.tasks.FindByID(ctx, bob.ID, other.ID)
	require.NoError(t, err, "other users' tasks are untouched")
}

func TestCommands_Categories(t *testing.T) {
	ctx := context.Background()
	env := newCommandEnv(t)
	alice := env.user(t, "alice", 555)

	assert.Equal(t, "No categories yet.", env.reply(t, "/categories"))

	require.NoError(t, env.categories.Create(ctx, &model.Category{UserID: alice.ID, Title: "Work"}))
	require.NoError(t, env.categories.Create(ctx, &model.Category{UserID: alice.ID, Title: "Home & Garden"}))

	reply := env.reply(t, "/categories")
	assert.Contains(t, reply, "• Home &amp; Garden\n• Work")
}

func uintStr(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
