package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/logging"
)

// TaskDrafter turns free text into task suggestions.
type TaskDrafter interface {
	DraftTasks(ctx context.Context, text string) ([]GeneratedTask, error)
}

// GeneratedTask is a task suggestion. It is never stored; the user opens the
// create form pre-filled with it.
type GeneratedTask struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

// generatedTaskJSON is the shape the model is asked to answer with.
type generatedTaskJSON struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Deadline    *string `json:"deadline"`
}

type AIService struct {
	client  *openai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
}

func NewAIService(apiKey, model string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  model,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "OpenAI",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Logger.Warnf("Circuit breaker %s changed from %s to %s", name, from.String(), to.String())
			},
		}),
	}
}

// DraftTasks asks the model for tasks found in text
func (s *AIService) DraftTasks(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.complete(ctx, draftPrompt(time.Now(), text))
	})
	if err != nil {
		return nil, err
	}

	return parseGeneratedTasks(result.(string))
}

func (s *AIService) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

func draftPrompt(now time.Time, text string) string {
	return fmt.Sprintf(`You extract actionable tasks from text.

Today: %s

Text:
%s

Answer with a JSON array only, no prose:
[
  {
    "name": "short task name",
    "description": "details of the task",
    "deadline": "YYYY-MM-DD, or null when the text gives no deadline"
  }
]

Rules:
- Return [] when there are no tasks
- Turn relative dates ("tomorrow", "next week") into calendar dates`, now.Format(constants.DateLayout), text)
}

// parseGeneratedTasks decodes the model's answer. Code fences around the JSON
// are tolerated; an unparseable deadline is dropped.
func parseGeneratedTasks(content string) ([]GeneratedTask, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw []generatedTaskJSON
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	tasks := make([]GeneratedTask, 0, len(raw))
	for _, r := range raw {
		task := GeneratedTask{
			Name:        strings.TrimSpace(r.Name),
			Description: strings.TrimSpace(r.Description),
		}
		if r.Deadline != nil {
			if d, err := time.Parse(constants.DateLayout, *r.Deadline); err == nil {
				task.Deadline = &d
			}
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}
