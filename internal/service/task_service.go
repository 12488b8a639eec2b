package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"todo-list/internal/model"
	"todo-list/internal/period"
	"todo-list/internal/repository"
)

// TaskInput holds the editable fields of a task. The owner is never part of it.
type TaskInput struct {
	Title       string
	Description string
	Deadline    *time.Time
	CategoryID  *uint
}

// ListQuery selects the period and optional category title shown by List.
type ListQuery struct {
	Period   string
	Category string
}

// TaskList is everything the task overview renders.
type TaskList struct {
	SubPeriods      []period.Bucket
	Completed       []model.Task
	Categories      []model.Category
	CurrentCategory string
	CurrentPeriod   period.Period
}

// TaskService wraps task-related business logic.
type TaskService struct {
	tasks      TaskStore
	categories CategoryStore
	now        func() time.Time
}

// NewTaskService builds the service. now supplies the current time in the
// application time zone; all calendar math uses its location.
func NewTaskService(tasks TaskStore, categories CategoryStore, now func() time.Time) *TaskService {
	if now == nil {
		now = time.Now
	}
	return &TaskService{tasks: tasks, categories: categories, now: now}
}

// List returns the user's tasks for the requested period and category.
// Uncompleted tasks are split into sub-periods; completed ones come back flat,
// most recently finished first.
func (s *TaskService) List(ctx context.Context, user *model.User, q ListQuery) (*TaskList, error) {
	now := s.now()
	p := period.Parse(q.Period)
	category := strings.TrimSpace(q.Category)

	base := repository.TaskFilter{CategoryTitle: category}
	if r := period.RangeFor(p, now); r.Bounded {
		base.DeadlineFrom = &r.Start
		base.DeadlineTo = &r.End
	}

	open, done := false, true

	uncompletedFilter := base
	uncompletedFilter.Completed = &open
	uncompletedFilter.Order = repository.OrderDeadlineDesc
	uncompleted, err := s.tasks.Find(ctx, user.ID, uncompletedFilter)
	if err != nil {
		return nil, err
	}

	completedFilter := base
	completedFilter.Completed = &done
	completedFilter.Order = repository.OrderFinishedDesc
	completed, err := s.tasks.Find(ctx, user.ID, completedFilter)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return &TaskList{
		SubPeriods:      period.Partition(p, now, uncompleted),
		Completed:       completed,
		Categories:      categories,
		CurrentCategory: category,
		CurrentPeriod:   p,
	}, nil
}

// CreateTask stores a new task owned by user. A missing deadline defaults to
// the end of the current day.
func (s *TaskService) CreateTask(ctx context.Context, user *model.User, input TaskInput) (*model.Task, error) {
	if err := s.validate(ctx, user, &input); err != nil {
		return nil, err
	}

	task := model.Task{
		UserID:      user.ID,
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		Deadline:    period.EndOfDay(s.now()),
	}
	if input.Deadline != nil {
		task.Deadline = *input.Deadline
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	return s.GetTask(ctx, user, task.ID)
}

func (s *TaskService) GetTask(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, storeErr(err)
	}
	return task, nil
}

// UpdateTask replaces the editable fields of an owned task. A nil deadline keeps the current one.
func (s *TaskService) UpdateTask(ctx context.Context, user *model.User, taskID uint, input TaskInput) (*model.Task, error) {
	task, err := s.GetTask(ctx, user, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, user, &input); err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.CategoryID = input.CategoryID
	task.Category = nil
	if input.Deadline != nil {
		task.Deadline = *input.Deadline
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return s.GetTask(ctx, user, task.ID)
}

// SetCompleted marks a task done (stamping its finish date) or reopens it.
func (s *TaskService) SetCompleted(ctx context.Context, user *model.User, taskID uint, completed bool) (*model.Task, error) {
	task, err := s.GetTask(ctx, user, taskID)
	if err != nil {
		return nil, err
	}

	switch {
	case completed && !task.Completed:
		finished := s.now()
		task.FinishedDate = &finished
	case !completed:
		task.FinishedDate = nil
	}
	task.Completed = completed

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes an owned task.
func (s *TaskService) DeleteTask(ctx context.Context, user *model.User, taskID uint) error {
	return storeErr(s.tasks.Delete(ctx, user.ID, taskID))
}

// validate normalises input in place and checks the category belongs to user.
func (s *TaskService) validate(ctx context.Context, user *model.User, input *TaskInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	if input.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if utf8.RuneCountInString(input.Title) > model.TaskTitleMaxLen {
		return fmt.Errorf("%w: title is longer than %d characters", ErrValidation, model.TaskTitleMaxLen)
	}

	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, user.ID, *input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: unknown category", ErrValidation)
			}
			return err
		}
	}
	return nil
}

func storeErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
