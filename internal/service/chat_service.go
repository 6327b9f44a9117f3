package service

import (
	"errors"
	"time"

	"k12_tutor_backend/internal/model"
	"k12_tutor_backend/internal/repository"
	"k12_tutor_backend/internal/util"

	"gorm.io/gorm"
)

// ChatCompleter 聊天所需的补全端点能力；实现保证返回可展示的字符串
type ChatCompleter interface {
	Chat(history []LLMMessage, systemPrompt string) string
}

type ChatService struct {
	ChatRepo *repository.ChatRepository
	LLM      ChatCompleter
}

func NewChatService(chatRepo *repository.ChatRepository, llm ChatCompleter) *ChatService {
	return &ChatService{
		ChatRepo: chatRepo,
		LLM:      llm,
	}
}

// sessionTitleRunes 新会话标题取首条消息的前 20 个字符
const sessionTitleRunes = 20

// SendMessage 追加用户消息，携带该会话的完整历史调用助手，再追加助手回复。
// sessionID 为 0 时新建会话。历史严格按创建顺序传给模型，会话之间互不掺杂。
func (s *ChatService) SendMessage(userID, sessionID uint, message string) (uint, string, error) {
	var session *model.ChatSession

	if sessionID != 0 {
		found, err := s.ChatRepo.FindSessionByID(sessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, "", util.ErrSessionNotFound
			}
			return 0, "", err
		}
		if found.UserID != userID {
			return 0, "", util.ErrSessionNotFound
		}
		session = found
	} else {
		title := []rune(message)
		if len(title) > sessionTitleRunes {
			title = title[:sessionTitleRunes]
		}
		session = &model.ChatSession{
			UserID: userID,
			Title:  string(title),
		}
		if err := s.ChatRepo.CreateSession(session); err != nil {
			return 0, "", err
		}
	}

	userMsg := &model.ChatMessage{
		SessionID: session.ID,
		Role:      "user",
		Content:   message,
	}
	if err := s.ChatRepo.CreateMessage(userMsg); err != nil {
		return 0, "", err
	}

	history, err := s.ChatRepo.ListMessagesBySession(session.ID)
	if err != nil {
		return 0, "", err
	}

	llmHistory := make([]LLMMessage, 0, len(history))
	for _, m := range history {
		llmHistory = append(llmHistory, LLMMessage{Role: m.Role, Content: m.Content})
	}

	response := s.LLM.Chat(llmHistory, "")

	assistantMsg := &model.ChatMessage{
		SessionID: session.ID,
		Role:      "assistant",
		Content:   response,
	}
	if err := s.ChatRepo.CreateMessage(assistantMsg); err != nil {
		return 0, "", err
	}

	return session.ID, response, nil
}

// SessionInfo 会话列表条目
type SessionInfo struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ListSessions 最近 20 个会话，新的在前
func (s *ChatService) ListSessions(userID uint) ([]SessionInfo, error) {
	sessions, err := s.ChatRepo.ListSessionsByUser(userID, 20)
	if err != nil {
		return nil, err
	}

	infos := make([]SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		infos = append(infos, SessionInfo{
			ID:        sess.ID,
			Title:     sess.Title,
			CreatedAt: sess.CreatedAt,
		})
	}
	return infos, nil
}

// MessageInfo 会话消息条目
type MessageInfo struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ListMessages 按创建时间升序返回会话消息
func (s *ChatService) ListMessages(sessionID uint) ([]MessageInfo, error) {
	messages, err := s.ChatRepo.ListMessagesBySession(sessionID)
	if err != nil {
		return nil, err
	}

	infos := make([]MessageInfo, 0, len(messages))
	for _, m := range messages {
		infos = append(infos, MessageInfo{
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return infos, nil
}
