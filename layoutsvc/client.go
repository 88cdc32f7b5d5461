package layoutsvc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sijun-lee/examsift/model"
)

// Config holds layout-analysis client configuration
type Config struct {
	// BaseURL is the service endpoint.
	BaseURL string

	// APIKey authenticates requests. Required when the client is used.
	APIKey string

	// Languages are language hints passed to the engine (e.g. "ko", "en").
	Languages []string

	// Timeout bounds a single analysis request.
	Timeout time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Languages: []string{"ko", "en"},
		Timeout:   120 * time.Second,
	}
}

// Client calls the layout-analysis service.
type Client struct {
	config Config
	http   *http.Client
}

// NewClient creates a layout-analysis client. The API key is validated at
// call time, not here, so a disabled pipeline stage can hold a zero client.
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
	}
}

// Result is the parsed layout-analysis response.
type Result struct {
	// Text is the document's full text, pages joined in order.
	Text string

	// PageTexts holds per-page text, index 0 = page 1.
	PageTexts []string

	// Tables are native table structures found by the engine.
	Tables []RawTable

	// Rects are vector-drawing rectangles per page, candidate figure
	// regions for the geometric locator.
	Rects []Rect

	// Anchors are positioned text tokens across all pages.
	Anchors []model.TextAnchor
}

// RawTable is one engine-detected table before typing: a header row plus
// string body rows, located by a bounding polygon.
type RawTable struct {
	Page   int           `json:"page"`
	BBox   model.Polygon `json:"bbox"`
	Header []string      `json:"header"`
	Body   [][]string    `json:"body"`
}

// Rect is one vector-drawing rectangle on a page.
type Rect struct {
	Page int           `json:"page"`
	BBox model.Polygon `json:"bbox"`
}

type analyzeRequest struct {
	Document  string   `json:"document"` // base64 document bytes
	MimeType  string   `json:"mime_type"`
	Languages []string `json:"language_hints,omitempty"`
}

type analyzeResponse struct {
	Pages []struct {
		Text string `json:"text"`
	} `json:"pages"`
	Tables  []RawTable         `json:"tables"`
	Rects   []Rect             `json:"rects"`
	Anchors []model.TextAnchor `json:"anchors"`
	HOCR    string             `json:"hocr,omitempty"`
}

// Analyze sends the document to the layout-analysis service and parses the
// response. When the response carries hOCR instead of structured anchors,
// the hOCR is parsed for anchors.
func (c *Client) Analyze(ctx context.Context, document []byte, mimeType string) (*Result, error) {
	if c.config.APIKey == "" {
		return nil, fmt.Errorf("layout-analysis: %w", ErrMissingAPIKey)
	}

	reqBody, err := json.Marshal(analyzeRequest{
		Document:  base64.StdEncoding.EncodeToString(document),
		MimeType:  mimeType,
		Languages: c.config.Languages,
	})
	if err != nil {
		return nil, fmt.Errorf("layout-analysis: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/analyze", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("layout-analysis: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("layout-analysis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("layout-analysis: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var ar analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("layout-analysis: decoding response: %w", err)
	}

	return resultFrom(ar)
}

func resultFrom(ar analyzeResponse) (*Result, error) {
	result := &Result{
		Tables:  ar.Tables,
		Rects:   ar.Rects,
		Anchors: ar.Anchors,
	}

	texts := make([]string, 0, len(ar.Pages))
	for _, p := range ar.Pages {
		texts = append(texts, p.Text)
	}
	result.PageTexts = texts
	result.Text = strings.Join(texts, "\n")

	if len(result.Anchors) == 0 && ar.HOCR != "" {
		anchors, err := ParseHOCR(strings.NewReader(ar.HOCR))
		if err != nil {
			return nil, fmt.Errorf("layout-analysis: parsing hOCR anchors: %w", err)
		}
		result.Anchors = anchors
	}

	return result, nil
}
