package model

import (
	"time"
)

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"size:128;not null" json:"-"`
	Email        string     `gorm:"size:100" json:"email"`
	Grade        string     `gorm:"size:20" json:"grade"` // 年级
	Subjects     string     `gorm:"size:200" json:"subjects"` // 偏好学科，逗号分隔
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
