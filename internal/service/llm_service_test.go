package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"k12_tutor_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompletionServer 返回固定回复内容的 OpenAI 兼容端点，
// 并记录最近一次请求体供断言。
type fakeCompletionServer struct {
	*httptest.Server
	lastRequest map[string]interface{}
}

func newFakeCompletionServer(t *testing.T, reply string, status int) *fakeCompletionServer {
	t.Helper()

	fake := &fakeCompletionServer{}
	fake.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &fake.lastRequest))

		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error": {"message": "boom"}}`)
			return
		}

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(fake.Server.Close)
	return fake
}

func newTestLLMService(baseURL string) *LLMService {
	return NewLLMService(config.AIConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "gpt-4o",
	})
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "json围栏优先",
			content: "前置说明\n```json\n{\"answer\":\"42\"}\n```\n后置说明",
			want:    "\n{\"answer\":\"42\"}\n",
		},
		{
			name:    "退回普通围栏",
			content: "```\n{\"answer\":\"7\"}\n```",
			want:    "\n{\"answer\":\"7\"}\n",
		},
		{
			name:    "无围栏原文返回",
			content: `{"answer":"9"}`,
			want:    `{"answer":"9"}`,
		},
		{
			name:    "纯文本原文返回",
			content: "这道题的答案是 42",
			want:    "这道题的答案是 42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.content))
		})
	}
}

func TestSolveQuestionParsesFencedJSON(t *testing.T) {
	reply := "解答如下：\n```json\n{\"answer\":\"x=2\",\"steps\":[\"移项\",\"除以系数\"],\"knowledge_points\":[\"一元一次方程\"],\"tips\":\"先移项再化简\"}\n```"
	srv := newFakeCompletionServer(t, reply, http.StatusOK)
	svc := newTestLLMService(srv.URL)

	result, err := svc.SolveQuestion("解方程 2x=4", "")
	require.NoError(t, err)

	assert.Equal(t, "x=2", result.Answer)
	assert.Equal(t, []string{"移项", "除以系数"}, result.Steps)
	assert.Equal(t, []string{"一元一次方程"}, result.KnowledgePoints)
	assert.Equal(t, "先移项再化简", result.Tips)
}

func TestSolveQuestionDegradesOnNonJSON(t *testing.T) {
	srv := newFakeCompletionServer(t, "这道题的答案是 42，步骤略。", http.StatusOK)
	svc := newTestLLMService(srv.URL)

	result, err := svc.SolveQuestion("1+41=?", "")
	require.NoError(t, err)

	// 降级时原文进 answer，结构化字段为空列表而不是 nil
	assert.Equal(t, "这道题的答案是 42，步骤略。", result.Answer)
	assert.NotNil(t, result.Steps)
	assert.Empty(t, result.Steps)
	assert.NotNil(t, result.KnowledgePoints)
	assert.Empty(t, result.KnowledgePoints)
	assert.Empty(t, result.Tips)
}

func TestSolveQuestionDegradedAnswerUsesExtractedFence(t *testing.T) {
	// 围栏里不是 JSON：进 answer 的应该是围栏内容而不是完整回复
	srv := newFakeCompletionServer(t, "```json\n答案是 42\n```", http.StatusOK)
	svc := newTestLLMService(srv.URL)

	result, err := svc.SolveQuestion("题目", "")
	require.NoError(t, err)
	assert.Equal(t, "\n答案是 42\n", result.Answer)
}

func TestSolveQuestionRequestShape(t *testing.T) {
	srv := newFakeCompletionServer(t, `{"answer":"ok"}`, http.StatusOK)
	svc := newTestLLMService(srv.URL)

	_, err := svc.SolveQuestion("题目内容", "")
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", srv.lastRequest["model"])
	assert.Equal(t, 0.7, srv.lastRequest["temperature"])
	assert.Equal(t, float64(2000), srv.lastRequest["max_tokens"])

	messages := srv.lastRequest["messages"].([]interface{})
	require.Len(t, messages, 2)
	system := messages[0].(map[string]interface{})
	assert.Equal(t, "system", system["role"])
	user := messages[1].(map[string]interface{})
	assert.Equal(t, "题目内容", user["content"])
}

func TestSolveQuestionWithImageSendsDataURI(t *testing.T) {
	srv := newFakeCompletionServer(t, `{"answer":"ok"}`, http.StatusOK)
	svc := newTestLLMService(srv.URL)

	_, err := svc.SolveQuestion("", "aGVsbG8=")
	require.NoError(t, err)

	messages := srv.lastRequest["messages"].([]interface{})
	require.Len(t, messages, 2)
	user := messages[1].(map[string]interface{})
	parts := user["content"].([]interface{})
	require.Len(t, parts, 2)

	text := parts[0].(map[string]interface{})
	assert.Equal(t, "text", text["type"])
	assert.Equal(t, "请解答图片中的题目", text["text"])

	image := parts[1].(map[string]interface{})
	assert.Equal(t, "image_url", image["type"])
	imageURL := image["image_url"].(map[string]interface{})
	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", imageURL["url"])
}

func TestSolveQuestionTransportFailure(t *testing.T) {
	srv := newFakeCompletionServer(t, "", http.StatusInternalServerError)
	svc := newTestLLMService(srv.URL)

	result, err := svc.SolveQuestion("题目", "")
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestReviewEssayParsesResult(t *testing.T) {
	reply := "```json\n{\"overall_score\": 85, \"overall_feedback\": \"写得不错\", \"suggestions\": [\"注意标点\"]}\n```"
	srv := newFakeCompletionServer(t, reply, http.StatusOK)
	svc := newTestLLMService(srv.URL)

	result, err := svc.ReviewEssay("我的暑假", "正文内容", "记叙文")
	require.NoError(t, err)

	assert.Equal(t, float64(85), result["overall_score"])
	assert.Equal(t, "写得不错", result["overall_feedback"])
	assert.Equal(t, 0.7, srv.lastRequest["temperature"])
	assert.Equal(t, float64(2000), srv.lastRequest["max_tokens"])
}

func TestReviewEssayDegradesOnNonJSON(t *testing.T) {
	srv := newFakeCompletionServer(t, "整体来说写得不错。", http.StatusOK)
	svc := newTestLLMService(srv.URL)

	result, err := svc.ReviewEssay("标题", "内容", "议论文")
	require.NoError(t, err)

	assert.Equal(t, "整体来说写得不错。", result["overall_feedback"])
	assert.Equal(t, 0, result["overall_score"])
}

func TestChatReturnsReply(t *testing.T) {
	srv := newFakeCompletionServer(t, "好的，我来帮你。", http.StatusOK)
	svc := newTestLLMService(srv.URL)

	reply := svc.Chat([]LLMMessage{{Role: "user", Content: "你好"}}, "")
	assert.Equal(t, "好的，我来帮你。", reply)

	assert.Equal(t, 0.8, srv.lastRequest["temperature"])
	assert.Equal(t, float64(1000), srv.lastRequest["max_tokens"])

	messages := srv.lastRequest["messages"].([]interface{})
	require.Len(t, messages, 2)
	system := messages[0].(map[string]interface{})
	assert.Equal(t, "system", system["role"])
	assert.Contains(t, system["content"], "学习助手")
}

func TestChatApologizesOnFailure(t *testing.T) {
	srv := newFakeCompletionServer(t, "", http.StatusBadGateway)
	svc := newTestLLMService(srv.URL)

	reply := svc.Chat([]LLMMessage{{Role: "user", Content: "你好"}}, "")
	assert.True(t, strings.HasPrefix(reply, "抱歉，出现了一些问题："), "got %q", reply)
}

func TestRecommendExercisesParsesList(t *testing.T) {
	reply := "```json\n[{\"question\":\"1+1=?\",\"options\":[\"A. 1\",\"B. 2\"],\"answer\":\"B\",\"explanation\":\"基础加法\",\"knowledge_point\":\"加法\",\"difficulty\":1}]\n```"
	srv := newFakeCompletionServer(t, reply, http.StatusOK)
	svc := newTestLLMService(srv.URL)

	exercises := svc.RecommendExercises([]string{"加法"}, "数学")
	require.Len(t, exercises, 1)
	assert.Equal(t, "1+1=?", exercises[0].Question)
	assert.Equal(t, "B", exercises[0].Answer)
	assert.Equal(t, 1, exercises[0].Difficulty)

	assert.Equal(t, 0.8, srv.lastRequest["temperature"])
	assert.Equal(t, float64(2000), srv.lastRequest["max_tokens"])
}

func TestRecommendExercisesEmptyOnBadOutput(t *testing.T) {
	srv := newFakeCompletionServer(t, "这不是题目列表", http.StatusOK)
	svc := newTestLLMService(srv.URL)

	exercises := svc.RecommendExercises([]string{"加法"}, "数学")
	assert.NotNil(t, exercises)
	assert.Empty(t, exercises)
}

func TestRecommendExercisesEmptyOnTransportFailure(t *testing.T) {
	srv := newFakeCompletionServer(t, "", http.StatusInternalServerError)
	svc := newTestLLMService(srv.URL)

	exercises := svc.RecommendExercises([]string{"加法"}, "数学")
	assert.NotNil(t, exercises)
	assert.Empty(t, exercises)
}
