package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"resty.dev/v3"

	"github.com/fluffyriot/feedbuddy/internal/metrics"
)

const (
	openAIBaseURL = "https://api.openai.com/v1"
	DefaultModel  = "gpt-4o-mini"

	// DefaultTimeout bounds every provider call. A provider that hangs
	// without erroring would otherwise stall the chat request forever.
	DefaultTimeout = 30 * time.Second
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// OpenAI is the chat-completions provider.
type OpenAI struct {
	http   *resty.Client
	apiKey string
	model  string
}

var _ Provider = (*OpenAI)(nil)

func NewOpenAI(apiKey, model string, timeout time.Duration) *OpenAI {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New().
		SetBaseURL(openAIBaseURL).
		SetTimeout(timeout).
		SetAuthToken(apiKey)

	return &OpenAI{http: client, apiKey: apiKey, model: model}
}

func (o *OpenAI) Close() error {
	return o.http.Close()
}

func (o *OpenAI) Configured() bool {
	return o.apiKey != ""
}

func (o *OpenAI) Answer(ctx context.Context, query, contextBlock string) (string, error) {
	if !o.Configured() {
		return "", errors.New("provider credential missing")
	}

	body := completionRequest{
		Model: o.model,
		Messages: []chatMessage{
			{
				Role: "system",
				Content: "You are an assistant that answers questions about a collection of " +
					"social feed posts. Answer using only the posts provided; if they do not " +
					"cover the question, say so briefly.",
			},
			{
				Role:    "user",
				Content: fmt.Sprintf("Posts:\n\n%s\n\nQuestion: %s", contextBlock, query),
			},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	}

	res, err := o.http.R().
		WithContext(ctx).
		SetBody(body).
		SetResult(&completionResponse{}).
		Post("/chat/completions")
	if err != nil {
		if isTimeout(err) {
			metrics.ProviderTimeouts.Inc()
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", err
	}
	if res.IsError() {
		return "", fmt.Errorf("provider returned %s", res.Status())
	}

	result := res.Result().(*completionResponse)
	if result.Error != nil {
		return "", fmt.Errorf("provider error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("provider returned no choices")
	}
	return result.Choices[0].Message.Content, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
