package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"k12_tutor_backend/internal/config"
	"k12_tutor_backend/pkg/logger"
	"k12_tutor_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// LLMService 封装外部补全端点（OpenAI 兼容接口）。
// 四个任务各自固定温度与 token 上限，调用同步、无重试。
// 传输层失败与模型输出不合规是两类故障：前者按任务约定向上抛，
// 后者一律在本层降级吸收，不会变成应用级错误。
type LLMService struct {
	config config.AIConfig
	client *http.Client
}

func NewLLMService(cfg config.AIConfig) *LLMService {
	return &LLMService{
		config: cfg,
		client: &http.Client{},
	}
}

type LLMMessage struct {
	Role string `json:"role"`
	// Content 通常为字符串；带图提问时为多段内容（文本 + data URI 图片）
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imageURLPart `json:"image_url,omitempty"`
}

type imageURLPart struct {
	URL string `json:"url"`
}

type chatCompletionRequest struct {
	Model       string       `json:"model"`
	Messages    []LLMMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const solveSystemPrompt = `你是一位专业的K12教育辅导老师，擅长解答数学和理科题目。
请按以下格式回答：
1. 先给出最终答案
2. 然后分步骤详细解析，每一步都要清晰说明
3. 指出涉及的知识点
4. 给出类似题目的解题思路

请用JSON格式返回：
{
    "answer": "最终答案",
    "steps": ["步骤1：...", "步骤2：...", ...],
    "knowledge_points": ["知识点1", "知识点2"],
    "tips": "解题技巧提示"
}`

const reviewEssaySystemPrompt = `你是一位资深的语文老师，擅长作文批改和写作指导。
请从以下几个方面评价作文：
1. 审题立意（针对标题的理解和主题把握）
2. 结构（开头、主体、结尾的组织）
3. 语法（句子通顺、标点正确）
4. 用词（词汇丰富度、准确性）
5. 内容（主题明确、论述有力）

请用JSON格式返回：
{
    "overall_score": 85,
    "topic_analysis": {
        "possible_themes": ["可选主题1", "可选主题2", "可选主题3"],
        "examiner_purpose": "分析出题人的目的和考查重点",
        "key_points": "此作文应该突出的核心要点",
        "common_mistakes": ["审题误解的常见方向1", "审题误解的常见方向2"]
    },
    "structure": {
        "score": 80,
        "feedback": "结构方面的具体评价",
        "suggestions": ["建议1", "建议2"]
    },
    "grammar": {
        "score": 90,
        "feedback": "语法方面的具体评价",
        "errors": ["错误1", "错误2"]
    },
    "vocabulary": {
        "score": 85,
        "feedback": "用词方面的具体评价",
        "highlights": ["亮点词句1"],
        "improvements": ["可以改进的地方"]
    },
    "overall_feedback": "总体评价",
    "suggestions": ["修改建议1", "修改建议2"]
}`

const chatSystemPrompt = `你是一位友善的学习助手，可以帮助中小学生解答学习和生活中的问题。
你的回答应该：
1. 通俗易懂，适合学生理解
2. 积极正面，给予鼓励
3. 如果涉及学习问题，给出具体的方法建议
4. 如果涉及生活问题，给出合理的建议和引导`

const recommendSystemPrompt = `你是一位教育专家，请根据学生的薄弱知识点生成针对性的练习题。
请用JSON格式返回3道练习题：
[
    {
        "question": "题目内容",
        "options": ["A. 选项1", "B. 选项2", "C. 选项3", "D. 选项4"],
        "answer": "A",
        "explanation": "详细解析",
        "knowledge_point": "涉及的知识点",
        "difficulty": 3
    }
]`

// complete 发起一次补全调用，返回首个候选的文本内容。
// 网络错误、非 200 状态码、空候选都算传输层失败。
func (s *LLMService) complete(task string, messages []LLMMessage, temperature float64, maxTokens int) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       s.config.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	start := time.Now()
	content, err := s.doRequest(jsonData)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		logger.Log.Error("completion endpoint call failed",
			zap.String("task", task),
			zap.Error(err),
		)
	}
	monitoring.LLMRequestDuration.WithLabelValues(task, outcome).Observe(time.Since(start).Seconds())

	return content, err
}

func (s *LLMService) doRequest(jsonData []byte) (string, error) {
	req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		if result.Error != nil {
			return "", fmt.Errorf("AI API error: %s", result.Error.Message)
		}
		return "", fmt.Errorf("AI returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}

// extractJSON 从自由文本中取出 JSON 片段：
// 优先取首个 ```json 围栏内的内容，其次取首个普通 ``` 围栏内的内容，
// 都没有则原文返回。
func extractJSON(content string) string {
	if _, after, found := strings.Cut(content, "```json"); found {
		inner, _, _ := strings.Cut(after, "```")
		return inner
	}
	if _, after, found := strings.Cut(content, "```"); found {
		inner, _, _ := strings.Cut(after, "```")
		return inner
	}
	return content
}

// SolveResult 解题结果，steps 保持模型给出的顺序
type SolveResult struct {
	Answer          string   `json:"answer"`
	Steps           []string `json:"steps"`
	KnowledgePoints []string `json:"knowledge_points"`
	Tips            string   `json:"tips"`
}

// SolveQuestion 解答数理题目。imageBase64 非空时用户消息为多段内容，
// 图片以 data URI 内联。模型回复不是合法 JSON 时降级：
// 原文作为 answer，结构化字段置空。
func (s *LLMService) SolveQuestion(content, imageBase64 string) (*SolveResult, error) {
	messages := []LLMMessage{
		{Role: "system", Content: solveSystemPrompt},
	}

	if imageBase64 != "" {
		text := content
		if text == "" {
			text = "请解答图片中的题目"
		}
		messages = append(messages, LLMMessage{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: text},
				{Type: "image_url", ImageURL: &imageURLPart{
					URL: "data:image/jpeg;base64," + imageBase64,
				}},
			},
		})
	} else {
		messages = append(messages, LLMMessage{Role: "user", Content: content})
	}

	reply, err := s.complete("solve_question", messages, 0.7, 2000)
	if err != nil {
		return nil, err
	}

	extracted := extractJSON(reply)

	var result SolveResult
	if err := json.Unmarshal([]byte(extracted), &result); err != nil {
		return &SolveResult{
			Answer:          extracted,
			Steps:           []string{},
			KnowledgePoints: []string{},
			Tips:            "",
		}, nil
	}

	if result.Steps == nil {
		result.Steps = []string{}
	}
	if result.KnowledgePoints == nil {
		result.KnowledgePoints = []string{}
	}
	return &result, nil
}

// ReviewEssay 作文批改。返回模型给出的完整评价对象；
// 输出不合规时降级为 {overall_feedback: 原文, overall_score: 0}。
func (s *LLMService) ReviewEssay(title, content, essayType string) (map[string]interface{}, error) {
	messages := []LLMMessage{
		{Role: "system", Content: reviewEssaySystemPrompt},
		{Role: "user", Content: fmt.Sprintf("请批改这篇%s：\n\n标题：%s\n\n%s", essayType, title, content)},
	}

	reply, err := s.complete("review_essay", messages, 0.7, 2000)
	if err != nil {
		return nil, err
	}

	extracted := extractJSON(reply)

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(extracted), &result); err != nil || result == nil {
		return map[string]interface{}{
			"overall_feedback": extracted,
			"overall_score":    0,
		}, nil
	}

	return result, nil
}

// Chat 聊天助手。systemPrompt 为空时使用固定的友善助手人设。
// 传输层失败不向上抛，始终返回可直接展示的字符串。
func (s *LLMService) Chat(history []LLMMessage, systemPrompt string) string {
	persona := systemPrompt
	if persona == "" {
		persona = chatSystemPrompt
	}

	messages := make([]LLMMessage, 0, len(history)+1)
	messages = append(messages, LLMMessage{Role: "system", Content: persona})
	messages = append(messages, history...)

	reply, err := s.complete("chat", messages, 0.8, 1000)
	if err != nil {
		return fmt.Sprintf("抱歉，出现了一些问题：%v", err)
	}

	return reply
}

// Exercise 推荐的练习题
type Exercise struct {
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	Answer         string   `json:"answer"`
	Explanation    string   `json:"explanation"`
	KnowledgePoint string   `json:"knowledge_point"`
	Difficulty     int      `json:"difficulty"`
}

// RecommendExercises 按薄弱知识点生成 3 道选择题。
// 任何失败（传输层或输出不合规）都返回空列表。
func (s *LLMService) RecommendExercises(weakPoints []string, subject string) []Exercise {
	messages := []LLMMessage{
		{Role: "system", Content: recommendSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("学科：%s\n薄弱知识点：%s\n请生成3道针对性练习题。", subject, strings.Join(weakPoints, ", "))},
	}

	reply, err := s.complete("recommend_exercises", messages, 0.8, 2000)
	if err != nil {
		return []Exercise{}
	}

	var exercises []Exercise
	if err := json.Unmarshal([]byte(extractJSON(reply)), &exercises); err != nil {
		return []Exercise{}
	}

	return exercises
}
