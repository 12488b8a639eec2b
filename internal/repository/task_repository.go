package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"todo-list/internal/model"
)

// TaskOrder selects the sort applied by TaskRepository.Find.
type TaskOrder int

const (
	// OrderDeadlineDesc sorts latest deadline first.
	OrderDeadlineDesc TaskOrder = iota
	// OrderFinishedDesc sorts most recently finished first.
	OrderFinishedDesc
)

// TaskFilter narrows TaskRepository.Find. Zero values do not filter.
type TaskFilter struct {
	// DeadlineFrom is inclusive, DeadlineTo exclusive.
	DeadlineFrom  *time.Time
	DeadlineTo    *time.Time
	CategoryTitle string
	Completed     *bool
	Order         TaskOrder
}

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	normalizeTimes(task)
	if err := r.db.WithContext(ctx).Omit("Category").Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// Find returns the tasks owned by userID that match filter.
func (r *TaskRepository) Find(ctx context.Context, userID uint, filter TaskFilter) ([]model.Task, error) {
	db := r.db.WithContext(ctx)
	q := db.Preload("Category").Where("user_id = ?", userID)

	if filter.DeadlineFrom != nil {
		q = q.Where("deadline >= ?", filter.DeadlineFrom.UTC())
	}
	if filter.DeadlineTo != nil {
		q = q.Where("deadline < ?", filter.DeadlineTo.UTC())
	}
	if filter.Completed != nil {
		q = q.Where("completed = ?", *filter.Completed)
	}
	if filter.CategoryTitle != "" {
		owned := db.Model(&model.Category{}).Select("id").
			Where("user_id = ? AND title = ?", userID, filter.CategoryTitle)
		q = q.Where("category_id IN (?)", owned)
	}

	switch filter.Order {
	case OrderFinishedDesc:
		q = q.Order("finished_date DESC").Order("id DESC")
	default:
		q = q.Order("deadline DESC").Order("id DESC")
	}

	tasks := []model.Task{}
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// Save writes every column of an existing task.
func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	normalizeTimes(task)
	if err := r.db.WithContext(ctx).Omit("Category").Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// Delete removes a task owned by userID.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListOverdue returns uncompleted tasks of userID whose deadline is before t.
func (r *TaskRepository) ListOverdue(ctx context.Context, userID uint, t time.Time) ([]model.Task, error) {
	tasks := []model.Task{}
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("user_id = ? AND completed = ? AND deadline < ?", userID, false, t.UTC()).
		Order("deadline ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list overdue: %w", err)
	}
	return tasks, nil
}

// normalizeTimes stores instants in UTC so text-encoded SQLite timestamps compare correctly.
func normalizeTimes(task *model.Task) {
	task.Deadline = task.Deadline.UTC()
	if task.FinishedDate != nil {
		finished := task.FinishedDate.UTC()
		task.FinishedDate = &finished
	}
}
