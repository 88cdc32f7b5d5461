package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sijun-lee/examsift/internal/marker"
	"github.com/sijun-lee/examsift/model"
)

// ErrMissingAPIKey is returned when the vision client is constructed
// without credentials.
var ErrMissingAPIKey = errors.New("missing vision API key")

// Config holds vision client configuration
type Config struct {
	// APIKey authenticates against the vision-extraction service.
	APIKey string

	// BaseURL overrides the service endpoint; empty uses the default.
	BaseURL string

	// Model is the vision model identifier.
	Model string

	// MaxRetries bounds retry attempts on transient failures
	// (rate limits, 5xx).
	MaxRetries int

	// RetryInterval is the pause between retry attempts.
	RetryInterval time.Duration

	// Timeout bounds a single page's request.
	Timeout time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Model:         openai.GPT4o,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
		Timeout:       90 * time.Second,
	}
}

// Hints are textual context passed alongside the page image to steer the
// vision service.
type Hints struct {
	// AnswerTokens are prior answer-key tokens by question number.
	AnswerTokens map[int]string

	// Taxonomy lists classification values the service may assign.
	Taxonomy []string

	// CleanText is reviewed OCR text from an annotated copy of the
	// document, when available.
	CleanText string
}

// Client calls the vision-extraction service, one page per call.
type Client struct {
	api    *openai.Client
	config Config
}

// NewClient creates a vision client. A missing API key is a configuration
// error: the caller treats it as fatal when the vision stage is enabled.
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	def := DefaultConfig()
	if config.Model == "" {
		config.Model = def.Model
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = def.MaxRetries
	}
	if config.RetryInterval == 0 {
		config.RetryInterval = def.RetryInterval
	}
	if config.Timeout == 0 {
		config.Timeout = def.Timeout
	}

	cfg := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		cfg.BaseURL = config.BaseURL
	}
	return &Client{api: openai.NewClientWithConfig(cfg), config: config}, nil
}

// ExtractPage sends one rendered page to the vision service and parses the
// structured result. Transient failures are retried up to the configured
// bound; a malformed response returns ErrMalformedResponse, which callers
// treat as an empty extraction for that page.
func (c *Client) ExtractPage(ctx context.Context, page *model.Page, hints Hints) (*PageExtraction, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, page.Raster); err != nil {
		return nil, fmt.Errorf("page %d: encoding raster: %w", page.Index, err)
	}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.RetryInterval):
			}
		}

		raw, err := c.complete(ctx, dataURL, hints)
		if err != nil {
			if transient(err) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("page %d: %w", page.Index, err)
		}
		return ParseResponse(raw)
	}

	return nil, fmt.Errorf("page %d: retries exhausted: %w", page.Index, lastErr)
}

func (c *Client) complete(ctx context.Context, imageURL string, hints Hints) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: buildPrompt(hints),
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageURL},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// transient reports whether an API error is worth retrying.
func transient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	return false
}

const systemPrompt = `You extract exam questions from a single page image. ` +
	`Respond with a JSON object only: {"items": [{"no", "stem", "options", "answer", "rationale", "area", "difficulty", "level"}], ` +
	`"tables": [{"id", "bbox", "header", "body", "question_nos"}], ` +
	`"figures": [{"id", "bbox", "caption", "labels", "question_nos"}]}. ` +
	`Every bbox is a list of exactly 4 {"x", "y"} points normalized to [0,1], ` +
	`ordered top-left, top-right, bottom-right, bottom-left.`

func buildPrompt(hints Hints) string {
	var sb strings.Builder
	sb.WriteString("Extract every numbered question, table, and figure on this page.\n")

	if len(hints.AnswerTokens) > 0 {
		sb.WriteString("Known answer tokens:\n")
		nos := make([]int, 0, len(hints.AnswerTokens))
		for no := range hints.AnswerTokens {
			nos = append(nos, no)
		}
		sort.Ints(nos)
		for _, no := range nos {
			fmt.Fprintf(&sb, "  %d: %s\n", no, hints.AnswerTokens[no])
		}
	}
	if len(hints.Taxonomy) > 0 {
		sb.WriteString("Classify the area field using only: ")
		sb.WriteString(strings.Join(hints.Taxonomy, ", "))
		sb.WriteString("\n")
	}
	if hints.CleanText != "" {
		sb.WriteString("Reviewed OCR text of this page, prefer it over your own reading:\n")
		sb.WriteString(hints.CleanText)
		sb.WriteString("\n")
	}
	if len(hints.AnswerTokens) > 0 {
		sb.WriteString("Use option glyphs like ")
		sb.WriteString(marker.Glyph(1))
		sb.WriteString("-")
		sb.WriteString(marker.Glyph(5))
		sb.WriteString(" when reporting answers.\n")
	}
	return sb.String()
}
