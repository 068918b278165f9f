// Package mentor implements the client for the mentor AI service.
// The mentor persona is a calm British butler assisting a medical student.
// Every operation has a canned fallback: the engine must keep working with
// no network and no API key.
package mentor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shyrus-os/study-hub/internal/domain/shared"
	"github.com/shyrus-os/study-hub/pkg/circuitbreaker"
	"github.com/shyrus-os/study-hub/pkg/retry"
)

const systemPersona = "You are a composed British butler mentoring a medical student. " +
	"Address the student as Sir. Be concise, precise, and lightly formal. " +
	"Never invent medical facts."

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the mentor client.
type ClientConfig struct {
	// BaseURL of the generative language API.
	BaseURL string

	// APIKey for authentication. An empty key disables the client.
	APIKey string

	// Model name, e.g. "gemini-1.5-flash".
	Model string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// Disabled forces fallback-only operation.
	Disabled bool

	// Logger for structured logging.
	Logger *slog.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL, apiKey string) ClientConfig {
	return ClientConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   "gemini-1.5-flash",
		Timeout: 30 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client talks to the mentor AI service.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
	retrier    *retry.Retrier
	breaker    *circuitbreaker.CircuitBreaker
}

// NewClient creates a new mentor client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	logger := config.Logger
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:  logger,
		retrier: retry.MentorAPIRetrier(),
		breaker: circuitbreaker.MentorAPIBreaker(func(name string, from, to circuitbreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		}),
	}
}

// Available reports whether live calls can be attempted at all.
func (c *Client) Available() bool {
	return !c.config.Disabled && c.config.APIKey != ""
}

// ══════════════════════════════════════════════════════════════════════════════
// OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// Ask sends a free-form question to the mentor.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", shared.NewDomainError("mentor", "Ask", shared.ErrInvalidInput, "question is empty")
	}

	answer, err := c.generate(ctx, question)
	if err != nil {
		c.logger.Warn("mentor unavailable, using fallback", "op", "Ask", "error", err)
		return fallbackAnswer, nil
	}
	return answer, nil
}

// DailyBriefing composes the morning status report.
func (c *Client) DailyBriefing(ctx context.Context, in BriefingInput) (string, error) {
	prompt := briefingPrompt(in)

	briefing, err := c.generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("mentor unavailable, using fallback", "op", "DailyBriefing", "error", err)
		return fallbackBriefing(in), nil
	}
	return briefing, nil
}

// RevisionQuiz asks for a short quiz on the given subject.
func (c *Client) RevisionQuiz(ctx context.Context, subjectName string, questions int) (string, error) {
	if subjectName == "" {
		return "", shared.ErrEmptySubjectName
	}
	if questions <= 0 {
		questions = 5
	}

	prompt := fmt.Sprintf(
		"Compose a revision quiz of %d short questions on %s for a medical student. "+
			"Number the questions. Do not include the answers.",
		questions, subjectName,
	)

	quiz, err := c.generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("mentor unavailable, using fallback", "op", "RevisionQuiz", "error", err)
		return fmt.Sprintf("Sir, the quiz service is offline. Revise your %s notes the classic way: "+
			"close the book and write down everything you remember.", subjectName), nil
	}
	return quiz, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// TRANSPORT
// ══════════════════════════════════════════════════════════════════════════════

// generate performs one guarded generateContent call.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if !c.Available() {
		return "", shared.ErrMentorUnavailable
	}

	var answer string
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			text, callErr := c.doGenerate(ctx, prompt)
			if callErr != nil {
				return callErr
			}
			answer = text
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return answer, nil
}

// doGenerate performs the raw HTTP exchange.
// Server-side failures come back wrapped as retryable.
func (c *Client) doGenerate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []contentDTO{
			{Role: "user", Parts: []partDTO{{Text: prompt}}},
		},
		SystematicPrompt: &systemPromptDTO{
			Parts: []partDTO{{Text: systemPersona}},
		},
		GenerationConfig: &generationConfig{
			Temperature:     0.6,
			MaxOutputTokens: 1024,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimSuffix(c.config.BaseURL, "/"), c.config.Model, c.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", retry.Retryable(fmt.Errorf("%w: %v", shared.ErrMentorTimeout, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", retry.Retryable(fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to parsing
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", retry.Retryable(fmt.Errorf("%w: status %d", shared.ErrMentorUnavailable, resp.StatusCode))
	default:
		return "", retry.Permanent(fmt.Errorf("%w: status %d: %s", shared.ErrMentorInvalidResponse, resp.StatusCode, truncate(string(body), 200)))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", retry.Permanent(fmt.Errorf("%w: %v", shared.ErrMentorInvalidResponse, err))
	}
	if parsed.Error != nil {
		return "", retry.Permanent(fmt.Errorf("%w: %s", shared.ErrMentorInvalidResponse, parsed.Error.Message))
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", retry.Permanent(fmt.Errorf("%w: empty candidates", shared.ErrMentorInvalidResponse))
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", retry.Permanent(fmt.Errorf("%w: empty text", shared.ErrMentorInvalidResponse))
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ══════════════════════════════════════════════════════════════════════════════
// PROMPTS & FALLBACKS
// ══════════════════════════════════════════════════════════════════════════════

const fallbackAnswer = "Sir, I am temporarily unreachable. Proceed with your scheduled revision; " +
	"I shall return shortly."

// briefingPrompt renders the briefing input into a compact prompt.
func briefingPrompt(in BriefingInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Compose a short morning briefing. The student is level %d with a %d day streak.\n",
		in.Level, in.Streak)
	if len(in.Subjects) > 0 {
		b.WriteString("Subject status:\n")
		for _, s := range in.Subjects {
			fmt.Fprintf(&b, "- %s: retention %d%%, coverage %d%%, idle %d days\n",
				s.Name, s.Retention, s.Coverage, s.DaysIdle)
		}
	}
	b.WriteString("Point out the weakest subject and suggest one concrete action for today.")
	return b.String()
}

// fallbackBriefing is deterministic and needs no network.
func fallbackBriefing(in BriefingInput) string {
	weakest := ""
	lowest := 101
	for _, s := range in.Subjects {
		if s.Retention < lowest {
			lowest = s.Retention
			weakest = s.Name
		}
	}

	if weakest == "" {
		return fmt.Sprintf("Good morning, Sir. Level %d, streak %d days. No subjects on file yet; "+
			"may I suggest adding one.", in.Level, in.Streak)
	}
	return fmt.Sprintf("Good morning, Sir. Level %d, streak %d days. Your weakest subject is %s "+
		"at %d%% retention. A revision pass today would be prudent.",
		in.Level, in.Streak, weakest, lowest)
}
