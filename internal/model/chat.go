package model

import (
	"time"
)

// ChatSession 聊天会话，标题取首条消息前缀
type ChatSession struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Title     string    `gorm:"size:200" json:"title"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	Messages []ChatMessage `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

// ChatMessage 会话消息，创建时间即对话的规范顺序
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID uint      `gorm:"index:idx_session_created;not null" json:"sessionId"`
	Role      string    `gorm:"size:20" json:"role"` // user/assistant
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_session_created" json:"createdAt"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
