package main

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	TelegramID int64 `gorm:"uniqueIndex;not null"`
	Username   string
	FirstName  string
}

// CommandLog records one handled command for usage statistics.
type CommandLog struct {
	gorm.Model
	UserID    uint `gorm:"index"`
	User      User `gorm:"foreignKey:UserID"`
	ChatID    int64
	Command   string `gorm:"index"`
	Argument  string
	Timestamp time.Time `gorm:"index"`
}
