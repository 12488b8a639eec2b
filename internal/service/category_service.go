package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"todo-list/internal/model"
)

// CategoryService provides helpers around categories.
type CategoryService struct {
	repo CategoryStore
}

func NewCategoryService(repo CategoryStore) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context, user *model.User) ([]model.Category, error) {
	return s.repo.ListByUser(ctx, user.ID)
}

func (s *CategoryService) Create(ctx context.Context, user *model.User, title string) (*model.Category, error) {
	title, err := categoryTitle(title)
	if err != nil {
		return nil, err
	}
	category := model.Category{UserID: user.ID, Title: title}
	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) Rename(ctx context.Context, user *model.User, id uint, title string) (*model.Category, error) {
	title, err := categoryTitle(title)
	if err != nil {
		return nil, err
	}
	category, err := s.repo.Rename(ctx, user.ID, id, title)
	if err != nil {
		return nil, storeErr(err)
	}
	return category, nil
}

// Delete removes an owned category; its tasks stay, uncategorised.
func (s *CategoryService) Delete(ctx context.Context, user *model.User, id uint) error {
	return storeErr(s.repo.Delete(ctx, user.ID, id))
}

func categoryTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrValidation)
	}
	if utf8.RuneCountInString(title) > model.CategoryTitleMaxLen {
		return "", fmt.Errorf("%w: title is longer than %d characters", ErrValidation, model.CategoryTitleMaxLen)
	}
	return title, nil
}
