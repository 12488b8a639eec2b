package model

import "time"

// CategoryTitleMaxLen bounds Category.Title.
const CategoryTitleMaxLen = 100

// Category groups a user's tasks (work, health, study, etc.).
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"-"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
