package service

import (
	"fmt"
	"testing"

	"k12_tutor_backend/internal/repository"
	"k12_tutor_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatCompleter 回放固定回复并记录每次收到的历史
type fakeChatCompleter struct {
	replies   []string
	calls     int
	histories [][]LLMMessage
}

func (f *fakeChatCompleter) Chat(history []LLMMessage, systemPrompt string) string {
	f.histories = append(f.histories, history)
	reply := "好的"
	if f.calls < len(f.replies) {
		reply = f.replies[f.calls]
	}
	f.calls++
	return reply
}

func newChatService(t *testing.T, llm ChatCompleter) *ChatService {
	db := newTestDB(t)
	return NewChatService(repository.NewChatRepository(db), llm)
}

func TestSendMessageCreatesSession(t *testing.T) {
	llm := &fakeChatCompleter{replies: []string{"你好，有什么可以帮你？"}}
	svc := newChatService(t, llm)

	sessionID, reply, err := svc.SendMessage(1, 0, "你好")
	require.NoError(t, err)
	assert.NotZero(t, sessionID)
	assert.Equal(t, "你好，有什么可以帮你？", reply)

	sessions, err := svc.ListSessions(1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "你好", sessions[0].Title)
}

func TestSessionTitleTruncatedByRunes(t *testing.T) {
	llm := &fakeChatCompleter{}
	svc := newChatService(t, llm)

	message := "请帮我讲解一下二次函数的顶点式以及它和一般式之间的转换方法"
	_, _, err := svc.SendMessage(1, 0, message)
	require.NoError(t, err)

	sessions, err := svc.ListSessions(1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, []rune(message)[:sessionTitleRunes], []rune(sessions[0].Title))
}

func TestSendMessagePassesFullHistoryInOrder(t *testing.T) {
	llm := &fakeChatCompleter{replies: []string{"回复一", "回复二"}}
	svc := newChatService(t, llm)

	sessionID, _, err := svc.SendMessage(1, 0, "第一个问题")
	require.NoError(t, err)

	_, _, err = svc.SendMessage(1, sessionID, "第二个问题")
	require.NoError(t, err)

	require.Len(t, llm.histories, 2)

	// 第二次调用携带完整历史，按时间顺序排列
	history := llm.histories[1]
	require.Len(t, history, 3)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "第一个问题", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, "回复一", history[1].Content)
	assert.Equal(t, "user", history[2].Role)
	assert.Equal(t, "第二个问题", history[2].Content)
}

func TestSessionsDoNotInterleave(t *testing.T) {
	llm := &fakeChatCompleter{replies: []string{"A1", "B1", "A2"}}
	svc := newChatService(t, llm)

	sessionA, _, err := svc.SendMessage(1, 0, "会话A的问题")
	require.NoError(t, err)
	sessionB, _, err := svc.SendMessage(1, 0, "会话B的问题")
	require.NoError(t, err)
	require.NotEqual(t, sessionA, sessionB)

	_, _, err = svc.SendMessage(1, sessionA, "会话A的追问")
	require.NoError(t, err)

	// 会话A的历史里不出现会话B的内容
	history := llm.histories[2]
	require.Len(t, history, 3)
	for _, m := range history {
		assert.NotContains(t, m.Content, "会话B")
	}

	messagesB, err := svc.ListMessages(sessionB)
	require.NoError(t, err)
	require.Len(t, messagesB, 2)
	assert.Equal(t, "会话B的问题", messagesB[0].Content)
	assert.Equal(t, "B1", messagesB[1].Content)
}

func TestSendMessageRejectsForeignSession(t *testing.T) {
	llm := &fakeChatCompleter{}
	svc := newChatService(t, llm)

	sessionID, _, err := svc.SendMessage(1, 0, "我的会话")
	require.NoError(t, err)

	_, _, err = svc.SendMessage(2, sessionID, "别人的消息")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	_, _, err = svc.SendMessage(1, 9999, "不存在的会话")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestListSessionsNewestFirst(t *testing.T) {
	llm := &fakeChatCompleter{}
	svc := newChatService(t, llm)

	var last uint
	for i := 0; i < 3; i++ {
		id, _, err := svc.SendMessage(1, 0, fmt.Sprintf("问题%d", i))
		require.NoError(t, err)
		last = id
	}

	sessions, err := svc.ListSessions(1)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, last, sessions[0].ID)
}
