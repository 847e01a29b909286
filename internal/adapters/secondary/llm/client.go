package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bap-pick/bab-back/internal/domain"
	ports "github.com/bap-pick/bab-back/internal/ports/llm"
)

// Client talks to a Gemini-compatible generateContent endpoint. The model
// is treated as a black box; every call carries the configured timeout and
// failures surface as domain.ErrExternalService.
type Client struct {
	cfg  *Config
	http *resty.Client
	Log  *slog.Logger
}

// NewClient creates the generation client.
func NewClient(cfg *Config, log *slog.Logger) ports.IGenerator {
	http := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/json")

	return &Client{
		cfg:  cfg,
		http: http,
		Log:  log,
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends one prompt and returns the model's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature: c.cfg.Temperature,
		},
	}

	var out generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.cfg.APIKey).
		SetBody(body).
		SetResult(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.cfg.Model))
	if err != nil {
		c.Log.Error("generation request failed", "error", err)
		return "", fmt.Errorf("generate: %w: %v", domain.ErrExternalService, err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if out.Error != nil {
			msg = out.Error.Message
		}
		c.Log.Error("generation request rejected", "status", resp.StatusCode(), "message", msg)
		return "", fmt.Errorf("generate: %w: %s", domain.ErrExternalService, msg)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generate: %w: empty response", domain.ErrExternalService)
	}

	text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("generate: %w: blank completion", domain.ErrExternalService)
	}
	return text, nil
}
