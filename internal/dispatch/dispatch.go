// Package dispatch is the client side of the chat and speech
// endpoints: it templates prompts, posts them, and parses the JSON
// result. Each call is a single attempt; there is no retry policy at
// this layer.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ndemidov/ai-mentor/internal/format"
)

// ErrRequest marks a failed AI call: transport error, non-2xx status,
// an error field in the body, or a missing answer.
var ErrRequest = errors.New("AI request failed")

const questionTemplate = `Answer the question on the lesson topic %q: %s

Important:
- Do not use formatting markers (#, *, -)
- Use plain text without special characters
- Separate the parts of your answer with a blank line
- Write clearly structured text`

const lessonTemplate = `Prepare a structured lesson on the topic %q. Lesson plan:

%s

Important:
1. Use a clear structure with numbered sections
2. Start each section on a new line
3. Use numbers with a period for lists (1., 2., and so on)
4. Separate the parts of the lesson with a blank line
5. Write in simple language with concrete examples`

type AIResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// SetToken attaches the signed-in user's bearer token to subsequent
// calls. Cleared on sign-out by setting it to the empty string.
func (c *Client) SetToken(token string) {
	c.token = token
}

// SendPrompt wraps the question in the lesson-topic template, posts
// it to the chat endpoint, and returns the display-formatted answer.
func (c *Client) SendPrompt(ctx context.Context, question, lessonTitle string) (string, error) {
	prompt := fmt.Sprintf(questionTemplate, lessonTitle, question)
	answer, err := c.postChat(ctx, prompt)
	if err != nil {
		return "", err
	}
	return format.ForDisplay(answer), nil
}

// SendLessonPrompt requests a full generated lesson for a title and
// its topic plan, returning the display-formatted lesson body.
func (c *Client) SendLessonPrompt(ctx context.Context, title string, topics []string) (string, error) {
	answer, err := c.postChat(ctx, LessonPrompt(title, topics))
	if err != nil {
		return "", err
	}
	return format.ForDisplay(answer), nil
}

// LessonPrompt builds the structured-lesson prompt from a topic plan.
func LessonPrompt(title string, topics []string) string {
	var plan bytes.Buffer
	for i, topic := range topics {
		fmt.Fprintf(&plan, "%d. %s\n", i+1, topic)
	}
	return fmt.Sprintf(lessonTemplate, title, plan.String())
}

func (c *Client) postChat(ctx context.Context, prompt string) (string, error) {
	body, status, err := c.post(ctx, "/api/chat", map[string]string{"message": prompt})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequest, err)
	}

	var resp AIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: malformed response", ErrRequest)
	}
	if status != http.StatusOK {
		if resp.Error != "" {
			return "", fmt.Errorf("%w: %s", ErrRequest, resp.Error)
		}
		return "", fmt.Errorf("%w: status %d", ErrRequest, status)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrRequest, resp.Error)
	}
	if resp.Response == "" {
		return "", fmt.Errorf("%w: empty answer", ErrRequest)
	}

	return resp.Response, nil
}

// FetchSpeech posts text to the speech endpoint and returns the raw
// audio/mpeg bytes.
func (c *Client) FetchSpeech(ctx context.Context, text string) ([]byte, error) {
	body, status, err := c.post(ctx, "/api/speech", map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	if status != http.StatusOK {
		var resp AIResponse
		if json.Unmarshal(body, &resp) == nil && resp.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrRequest, resp.Error)
		}
		return nil, fmt.Errorf("%w: status %d", ErrRequest, status)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty audio", ErrRequest)
	}
	return body, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}
