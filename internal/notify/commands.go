package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"todo-list/internal/model"
	"todo-list/internal/period"
	"todo-list/internal/service"
)

// Accounts links chats to accounts and resolves them.
type Accounts interface {
	FindByTelegramChat(ctx context.Context, chatID int64) (*model.User, error)
	ConfirmTelegramLink(ctx context.Context, code string, chatID int64) (*model.User, error)
}

// Tasks is the task behaviour reachable from chat.
type Tasks interface {
	List(ctx context.Context, user *model.User, q service.ListQuery) (*service.TaskList, error)
	SetCompleted(ctx context.Context, user *model.User, taskID uint, completed bool) (*model.Task, error)
	DeleteTask(ctx context.Context, user *model.User, taskID uint) error
}

// Categories lists a user's categories.
type Categories interface {
	List(ctx context.Context, user *model.User) ([]model.Category, error)
}

// Commands answers bot commands on behalf of the account linked to the chat.
type Commands struct {
	accounts   Accounts
	tasks      Tasks
	categories Categories
	logger     *log.Logger
	now        func() time.Time
}

func NewCommands(accounts Accounts, tasks Tasks, categories Categories, logger *log.Logger, now func() time.Time) *Commands {
	if now == nil {
		now = time.Now
	}
	return &Commands{accounts: accounts, tasks: tasks, categories: categories, logger: logger, now: now}
}

const helpText = "🗓 <b>Commands</b>\n" +
	"• /tasks [all|today|week|month|year] [category] - open tasks by sub-period\n" +
	"• /done &lt;id&gt; - mark a task completed\n" +
	"• /delete &lt;id&gt; - delete a task\n" +
	"• /categories - list your categories\n" +
	"• /start &lt;code&gt; - link this chat to your account"

const notLinkedText = "🔗 This chat is not linked yet. Request a link code with " +
	"<code>POST /api/account/telegram/link</code> and send <code>/start CODE</code> here."

// Reply answers a private-chat command. ok is false for anything the bot
// should stay silent on.
func (c *Commands) Reply(ctx context.Context, msg *tgbotapi.Message) (reply string, ok bool) {
	if msg == nil || msg.Chat == nil || !msg.Chat.IsPrivate() || !msg.IsCommand() {
		return "", false
	}
	chatID := msg.Chat.ID
	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		return c.handleStart(ctx, chatID, args), true
	case "help":
		return helpText, true
	case "tasks", "done", "delete", "categories":
	default:
		return "Unknown command. See /help.", true
	}

	user, err := c.accounts.FindByTelegramChat(ctx, chatID)
	if errors.Is(err, service.ErrNotFound) {
		return notLinkedText, true
	}
	if err != nil {
		return c.failure("resolve chat", chatID, err), true
	}

	switch msg.Command() {
	case "tasks":
		return c.handleTasks(ctx, user, args), true
	case "done":
		return c.handleDone(ctx, user, args), true
	case "delete":
		return c.handleDelete(ctx, user, args), true
	default:
		return c.handleCategories(ctx, user), true
	}
}

func (c *Commands) handleStart(ctx context.Context, chatID int64, args []string) string {
	if len(args) == 0 {
		if user, err := c.accounts.FindByTelegramChat(ctx, chatID); err == nil {
			return fmt.Sprintf("👋 This chat is linked to <b>%s</b>. See /help.", html.EscapeString(user.Username))
		}
		return notLinkedText
	}
	user, err := c.accounts.ConfirmTelegramLink(ctx, args[0], chatID)
	if errors.Is(err, service.ErrInvalidLinkCode) {
		return "❌ This link code is invalid or expired. Request a new one."
	}
	if err != nil {
		return c.failure("confirm link", chatID, err)
	}
	c.logger.Info("telegram chat linked", "user", user.ID)
	return fmt.Sprintf("✅ Linked to <b>%s</b>. You will get a daily digest here. See /help.", html.EscapeString(user.Username))
}

// handleTasks renders "/tasks [period] [category...]". A first word that is
// not a period starts the category title.
func (c *Commands) handleTasks(ctx context.Context, user *model.User, args []string) string {
	query := service.ListQuery{Period: string(period.All)}
	if len(args) > 0 && isPeriod(args[0]) {
		query.Period, args = args[0], args[1:]
	}
	query.Category = strings.Join(args, " ")

	list, err := c.tasks.List(ctx, user, query)
	if err != nil {
		return c.failure("list tasks", *user.TelegramChatID, err)
	}

	now := c.now()
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📋 <b>Tasks: %s</b>", list.CurrentPeriod))
	if list.CurrentCategory != "" {
		builder.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(list.CurrentCategory)))
	}
	builder.WriteString("\n")

	open := 0
	for _, bucket := range list.SubPeriods {
		if len(bucket.Tasks) == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("\n<b>%s</b>\n", html.EscapeString(bucket.Label)))
		for _, task := range bucket.Tasks {
			builder.WriteString(fmt.Sprintf("<code>#%d</code> %s", task.ID, service.FormatTask(task, now)))
			open++
		}
	}
	if open == 0 {
		builder.WriteString("\nNothing to do 🎉\n")
	}
	if n := len(list.Completed); n > 0 {
		builder.WriteString(fmt.Sprintf("\n✅ Completed: %d", n))
	}
	return strings.TrimSpace(builder.String())
}

func (c *Commands) handleDone(ctx context.Context, user *model.User, args []string) string {
	taskID, ok := parseTaskID(args)
	if !ok {
		return "Give the task id: <code>/done 12</code>"
	}
	task, err := c.tasks.SetCompleted(ctx, user, taskID, true)
	if errors.Is(err, service.ErrNotFound) {
		return "Task not found."
	}
	if err != nil {
		return c.failure("complete task", *user.TelegramChatID, err)
	}
	return fmt.Sprintf("✅ Task «%s» completed.", html.EscapeString(task.Title))
}

func (c *Commands) handleDelete(ctx context.Context, user *model.User, args []string) string {
	taskID, ok := parseTaskID(args)
	if !ok {
		return "Give the task id: <code>/delete 12</code>"
	}
	err := c.tasks.DeleteTask(ctx, user, taskID)
	if errors.Is(err, service.ErrNotFound) {
		return "Task not found."
	}
	if err != nil {
		return c.failure("delete task", *user.TelegramChatID, err)
	}
	return fmt.Sprintf("🗑 Task #%d deleted.", taskID)
}

func (c *Commands) handleCategories(ctx context.Context, user *model.User) string {
	categories, err := c.categories.List(ctx, user)
	if err != nil {
		return c.failure("list categories", *user.TelegramChatID, err)
	}
	if len(categories) == 0 {
		return "No categories yet."
	}
	var builder strings.Builder
	builder.WriteString("📂 <b>Categories</b>\n")
	for _, category := range categories {
		builder.WriteString(fmt.Sprintf("• %s\n", html.EscapeString(category.Title)))
	}
	return strings.TrimSpace(builder.String())
}

func (c *Commands) failure(op string, chatID int64, err error) string {
	c.logger.Error("telegram command", "op", op, "chat", chatID, "err", err)
	return "Something went wrong, try again later."
}

func parseTaskID(args []string) (uint, bool) {
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func isPeriod(word string) bool {
	return period.Parse(word) != period.All || strings.EqualFold(word, string(period.All))
}
