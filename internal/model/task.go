package model

import "time"

// TaskTitleMaxLen bounds Task.Title.
const TaskTitleMaxLen = 200

// Task represents a single to-do item.
type Task struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"index" json:"-"`
	CategoryID   *uint      `gorm:"index" json:"category_id"`
	Category     *Category  `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Title        string     `gorm:"size:200;not null" json:"title"`
	Description  string     `json:"description"`
	Completed    bool       `gorm:"default:false;index" json:"completed"`
	Deadline     time.Time  `gorm:"index" json:"deadline"`
	FinishedDate *time.Time `json:"finished_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
