package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"todo-list/internal/model"
)

// CategoryRepository manages task categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", translate(err))
	}
	return nil
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID uint) ([]model.Category, error) {
	categories := []model.Category{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("title ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetByID returns the category only if userID owns it.
func (r *CategoryRepository) GetByID(ctx context.Context, userID, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *CategoryRepository) Rename(ctx context.Context, userID, id uint, title string) (*model.Category, error) {
	category, err := r.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	category.Title = title
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, fmt.Errorf("rename category: %w", translate(err))
	}
	return category, nil
}

// Delete removes an owned category. Tasks that referenced it keep existing
// with their category cleared.
func (r *CategoryRepository) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND id = ?", userID, id).Delete(&model.Category{})
		if res.Error != nil {
			return fmt.Errorf("delete category: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Model(&model.Task{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("detach tasks: %w", err)
		}
		return nil
	})
}
