package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"todo-list/internal/model"
	"todo-list/internal/period"
	"todo-list/internal/repository"
)

// Notifier delivers a digest to a chat.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// ReminderService builds and sends the daily digest of today's and overdue tasks.
type ReminderService struct {
	users    UserStore
	tasks    TaskStore
	notifier Notifier
	logger   *log.Logger
	now      func() time.Time
}

func NewReminderService(users UserStore, tasks TaskStore, notifier Notifier, logger *log.Logger, now func() time.Time) *ReminderService {
	if now == nil {
		now = time.Now
	}
	return &ReminderService{users: users, tasks: tasks, notifier: notifier, logger: logger, now: now}
}

// DailySummary renders the digest for user as Telegram HTML.
func (s *ReminderService) DailySummary(ctx context.Context, user model.User, now time.Time) (string, error) {
	today := period.RangeFor(period.Today, now)
	open := false

	due, err := s.tasks.Find(ctx, user.ID, repository.TaskFilter{
		DeadlineFrom: &today.Start,
		DeadlineTo:   &today.End,
		Completed:    &open,
	})
	if err != nil {
		return "", err
	}
	overdue, err := s.tasks.ListOverdue(ctx, user.ID, today.Start)
	if err != nil {
		return "", err
	}

	bucket := period.Partition(period.Today, now, due)[0]

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📋 <b>%s</b>\n\n", html.EscapeString(bucket.Label)))

	if len(bucket.Tasks) == 0 {
		builder.WriteString("— nothing due today\n")
	} else {
		for _, task := range bucket.Tasks {
			builder.WriteString(FormatTask(task, now))
		}
	}

	if len(overdue) > 0 {
		builder.WriteString("\n⚠️ <b>Overdue</b>\n")
		for _, task := range overdue {
			builder.WriteString(FormatTask(task, now))
		}
	}

	return strings.TrimSpace(builder.String()), nil
}

// SendDailyReports sends a digest to every user with a linked chat. A failure
// for one user is logged and the rest still get theirs; the joined errors are returned.
func (s *ReminderService) SendDailyReports(ctx context.Context) error {
	users, err := s.users.ListWithTelegram(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	now := s.now()
	var errs []error
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := s.DailySummary(ctx, user, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("summary for user %d: %w", user.ID, err))
			s.logger.Error("build digest", "user", user.ID, "err", err)
			continue
		}
		if err := s.notifier.Send(ctx, *user.TelegramChatID, text); err != nil {
			errs = append(errs, fmt.Errorf("send to user %d: %w", user.ID, err))
			s.logger.Error("send digest", "user", user.ID, "err", err)
			continue
		}
		s.logger.Debug("digest sent", "user", user.ID)
	}
	return errors.Join(errs...)
}

// FormatTask renders one task as Telegram HTML lines, flagging overdue and
// soon-due deadlines relative to now.
func FormatTask(task model.Task, now time.Time) string {
	var sb strings.Builder

	deadline := task.Deadline.In(now.Location())
	icon := "🟢"
	switch {
	case now.After(deadline):
		icon = "⚠️"
	case deadline.Sub(now) <= 3*time.Hour:
		icon = "⏳"
	}

	sb.WriteString(fmt.Sprintf("%s %s", icon, html.EscapeString(task.Title)))

	if task.Category != nil {
		if name := strings.TrimSpace(task.Category.Title); name != "" {
			sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(name)))
		}
	}

	sb.WriteString(fmt.Sprintf("\n   ⏰ %s", deadline.Format("2 Jan 15:04")))

	if task.Description != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(task.Description)))
	}

	sb.WriteByte('\n')
	return sb.String()
}
