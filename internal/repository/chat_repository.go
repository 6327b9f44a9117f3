package repository

import (
	"k12_tutor_backend/internal/model"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) CreateSession(session *model.ChatSession) error {
	return r.DB.Create(session).Error
}

func (r *ChatRepository) FindSessionByID(id uint) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.DB.First(&session, id).Error
	return &session, err
}

func (r *ChatRepository) CreateMessage(message *model.ChatMessage) error {
	return r.DB.Create(message).Error
}

// ListSessionsByUser 最近会话在前
func (r *ChatRepository) ListSessionsByUser(userID uint, limit int) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

// ListMessagesBySession 按创建时间升序，同一时刻按 ID 定序，保证对话顺序稳定
func (r *ChatRepository) ListMessagesBySession(sessionID uint) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.DB.Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}
