package model

import "time"

// User is an account that owns categories and tasks.
type User struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	Username              string     `gorm:"uniqueIndex;size:150" json:"username"`
	PasswordHash          string     `json:"-"`
	TelegramChatID        *int64     `gorm:"uniqueIndex" json:"telegram_chat_id,omitempty"`
	TelegramLinkCode      *string    `gorm:"uniqueIndex;size:64" json:"-"`
	TelegramLinkExpiresAt *time.Time `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}
