package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/kdduha/reels-caption/internal/config"
	"github.com/kdduha/reels-caption/internal/models"
)

const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-pro:generateContent"
	DefaultTimeout  = 60 * time.Second

	// Sampling favours varied, colloquial phrasing while topK keeps repetition in check.
	Temperature = 0.8
	TopP        = 0.8
	TopK        = 15

	finishMaxTokens = "MAX_TOKENS"
	maxErrorBody    = 1 << 20
)

// Client calls the Gemini generateContent endpoint. It never retries.
type Client struct {
	httpClient *http.Client
	endpoint   string
	timeout    time.Duration
}

func NewClient(cfg config.GeminiConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		timeout:    timeout,
	}
}

// NewRequest fixes the sampling parameters for one generate action.
func NewRequest(instruction string, payloads []models.EncodedPayload, maxOutputTokens int) models.GenerationRequest {
	return models.GenerationRequest{
		Instruction:     instruction,
		Payloads:        append([]models.EncodedPayload(nil), payloads...),
		MaxOutputTokens: maxOutputTokens,
		Temperature:     Temperature,
		TopP:            TopP,
		TopK:            TopK,
	}
}

func (c *Client) Generate(
	ctx context.Context,
	apiKey string,
	payloads []models.EncodedPayload,
	instruction string,
	maxOutputTokens int,
) (string, error) {
	return c.Do(ctx, apiKey, NewRequest(instruction, payloads, maxOutputTokens))
}

// Do sends req and returns the joined, trimmed candidate text.
func (c *Client) Do(ctx context.Context, apiKey string, req models.GenerationRequest) (string, error) {
	body, err := sonic.Marshal(buildBody(req))
	if err != nil {
		return "", models.NewError(models.KindGenerationFailed, err, "failed to encode request")
	}

	endpoint, err := c.requestURL(apiKey)
	if err != nil {
		return "", models.NewError(models.KindGenerationFailed, err, "invalid endpoint")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", models.NewError(models.KindGenerationFailed, err, "failed to build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// url.Error carries the full URL, key included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return "", models.NewError(models.KindGenerationFailed, err, "gemini request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", models.NewError(models.KindGenerationFailed, nil,
			"gemini API error (status %d): %s", resp.StatusCode, backendMessage(resp.Body))
	}

	var out generateResponse
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", models.NewError(models.KindMalformedResponse, err, "invalid response from gemini")
	}
	return extractText(&out)
}

func (c *Client) requestURL(apiKey string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("key", apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func buildBody(req models.GenerationRequest) generateRequest {
	parts := make([]part, 0, len(req.Payloads)+1)
	parts = append(parts, part{Text: req.Instruction})
	for _, p := range req.Payloads {
		parts = append(parts, part{InlineData: &inlineData{MimeType: p.MimeType, Data: p.Data}})
	}

	return generateRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: generationConfig{
			Temperature:     req.Temperature,
			TopP:            req.TopP,
			TopK:            req.TopK,
			MaxOutputTokens: req.MaxOutputTokens,
		},
		SafetySettings: []safetySetting{},
	}
}

func extractText(out *generateResponse) (string, error) {
	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return "", models.NewError(models.KindContentBlocked, nil, "request blocked: %s", out.PromptFeedback.BlockReason)
	}
	if len(out.Candidates) == 0 {
		return "", models.NewError(models.KindEmptyResponse, nil, "no response candidates from gemini")
	}

	cand := out.Candidates[0]
	if cand.Content == nil || cand.Content.Parts == nil {
		if cand.FinishReason == finishMaxTokens {
			return "", models.NewError(models.KindTruncated, nil, "response was truncated, try a shorter output length")
		}
		return "", models.NewError(models.KindMalformedResponse, nil, "invalid response structure (finish reason %q)", cand.FinishReason)
	}

	var b strings.Builder
	for _, p := range cand.Content.Parts {
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", models.NewError(models.KindEmptyResponse, nil, "empty response from gemini")
	}
	return text, nil
}

func backendMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return fmt.Sprintf("unreadable error body: %v", err)
	}
	var e errorResponse
	if err := sonic.Unmarshal(raw, &e); err != nil || e.Error.Message == "" {
		return "unknown error"
	}
	return e.Error.Message
}
