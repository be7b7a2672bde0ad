package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"rentkenya/internal/config"
	"log/slog"
)

// Client — клиент для взаимодействия с LLM API (OpenRouter, OpenAI и др.).
type Client interface {
	// MatchProperties просит модель оценить кандидатов для пользователя.
	// Транспортные ошибки возвращаются как есть; если ответ модели не удалось
	// разобрать, возвращается ошибка, оборачивающая ErrMalformedResponse.
	MatchProperties(ctx context.Context, req MatchRequest) (*MatchResponse, error)
	// IsEnabled проверяет, включен ли сервис.
	IsEnabled() bool
}

// ErrMalformedResponse — ответ модели получен, но его содержимое неразборчиво.
// Отличим от транспортных ошибок: вызывающая сторона деградирует, а не падает.
var ErrMalformedResponse = errors.New("malformed model response")

// MatchRequest — запрос на подбор объектов.
type MatchRequest struct {
	// UserContext — сериализованный контекст пользователя (профиль + предпочтения)
	UserContext json.RawMessage
	// Candidates — сериализованный список объектов-кандидатов
	Candidates json.RawMessage
	// MinScore / MaxMatches — ограничения выдачи, транслируются в инструкции промпта
	MinScore   int
	MaxMatches int
	// Temperature / MaxTokens — параметры completion-запроса
	Temperature float64
	MaxTokens   int
}

// MatchResponse — разобранный ответ модели.
type MatchResponse struct {
	Matches []MatchPayload `json:"matches"`
}

// MatchPayload — одно совпадение в ответе модели. Объект приходит как сырой JSON:
// модель эхом возвращает кандидата, а сопоставление с каноническими записями
// делает вызывающая сторона по id.
type MatchPayload struct {
	Property   json.RawMessage `json:"property"`
	MatchScore int             `json:"matchScore"`
	Reasons    []string        `json:"reasons"`
}

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	referer    string
	title      string
	log        *slog.Logger
}

// NewClient создаёт новый клиент для LLM API.
func NewClient(cfg config.LLMConfig, log *slog.Logger) Client {
	if !cfg.Enabled {
		return &noopClient{log: log}
	}

	return &client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		referer: cfg.Referer,
		title:   cfg.Title,
		log:     log,
	}
}

// MatchProperties — подбор объектов для пользователя.
func (c *client) MatchProperties(ctx context.Context, req MatchRequest) (*MatchResponse, error) {
	const op = "llm.Client.MatchProperties"

	prompt := buildMatchPrompt(req)

	chatReq := ChatCompletionRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{
				Role:    "user",
				Content: prompt,
			},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	resp, err := c.sendChatRequest(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result MatchResponse
	jsonStr := extractJSON(resp.Content)
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}

	return &result, nil
}

func (c *client) IsEnabled() bool {
	return true
}

// ChatCompletionRequest — запрос к Chat Completion API.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatMessage — сообщение в чате.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse — ответ от Chat Completion API.
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

type simplifiedResponse struct {
	Content string
}

func (c *client) sendChatRequest(ctx context.Context, req ChatCompletionRequest) (*simplifiedResponse, error) {
	const op = "llm.Client.sendChatRequest"

	url := fmt.Sprintf("%s/chat/completions", c.baseURL)

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to marshal request: %w", op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	// OpenRouter идентифицирует приложение по этим заголовкам
	if c.referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		httpReq.Header.Set("X-Title", c.title)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to send request: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s: unexpected status code %d: %s", op, resp.StatusCode, string(body))
	}

	var chatResp ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("%s: failed to decode response: %w", op, err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("%s: no choices in response", op)
	}

	return &simplifiedResponse{
		Content: chatResp.Choices[0].Message.Content,
	}, nil
}

func buildMatchPrompt(req MatchRequest) string {
	var sb strings.Builder
	sb.WriteString("You are an AI property matching assistant. Based on the user's profile and preferences, analyze the following properties and provide smart matches.\n\n")
	sb.WriteString("User Context:\n")
	sb.Write(req.UserContext)
	sb.WriteString("\n\nAvailable Properties:\n")
	sb.Write(req.Candidates)
	sb.WriteString(`

Please analyze each property and provide matches with scores and reasons. Return a JSON object with this exact structure:
{
  "matches": [
    {
      "property": <full property object>,
      "matchScore": <number between 0-100>,
      "reasons": ["reason1", "reason2", "reason3"]
    }
  ]
}

`)
	sb.WriteString(fmt.Sprintf("Only include properties with a match score of %d or higher. Sort by match score (highest first). Limit to top %d matches.\n", req.MinScore, req.MaxMatches))
	sb.WriteString(`
Consider factors like:
- Price range preferences
- Location preferences
- Property type preferences
- Amenities preferences
- Bedroom/bathroom requirements
- Furnished preferences
- Pet-friendly preferences
- User's profile information

Provide specific, personalized reasons for each match.`)
	return sb.String()
}

// extractJSON извлекает JSON из текста ответа LLM.
func extractJSON(text string) string {
	// Ищем первую { и последнюю }
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}
	return text
}

// noopClient — заглушка для случая, когда LLM отключен.
type noopClient struct {
	log *slog.Logger
}

func (c *noopClient) MatchProperties(ctx context.Context, req MatchRequest) (*MatchResponse, error) {
	c.log.Debug("LLM service is disabled")
	return &MatchResponse{Matches: []MatchPayload{}}, nil
}

func (c *noopClient) IsEnabled() bool {
	return false
}
