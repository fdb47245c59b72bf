package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"modkeys-storefront/pkg/config"
)

var Module = fx.Module("genai",
	fx.Provide(NewClient),
)

var (
	// ErrTimeout reports that the model did not answer within the
	// configured deadline.
	ErrTimeout = errors.New("model request timed out")
	// ErrNoContent reports a well-formed response carrying no candidates.
	ErrNoContent = errors.New("model returned no content")
)

// Client talks to the Generative Language REST API in JSON mode. One request
// per call, no retries; a flaky model is better surfaced to the caller than
// silently retried against a paid quota.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
	timeout    time.Duration
}

type Params struct {
	fx.In
	Config *config.Config
}

func NewClient(p Params) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(p.Config.GenAI.BaseURL, "/"),
		model:      p.Config.GenAI.Model,
		apiKey:     p.Config.GenAI.APIKey,
		timeout:    p.Config.GenAI.Timeout,
	}
}

// Blob is an inline binary attachment, typically a screenshot.
type Blob struct {
	MimeType string
	Data     []byte
}

// Part is one piece of a prompt: text, or an inline attachment.
type Part struct {
	Text string
	Blob *Blob
}

type wirePart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *wireInlineData `json:"inline_data,omitempty"`
}

type wireInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type wireContent struct {
	Parts []wirePart `json:"parts"`
}

type wireRequest struct {
	Contents         []wireContent        `json:"contents"`
	GenerationConfig wireGenerationConfig `json:"generationConfig"`
}

type wireGenerationConfig struct {
	ResponseMimeType string `json:"response_mime_type"`
}

type wireResponse struct {
	Candidates []struct {
		Content wireContent `json:"content"`
	} `json:"candidates"`
}

// GenerateJSON sends the prompt parts and unmarshals the model's JSON answer
// into out.
func (c *Client) GenerateJSON(ctx context.Context, parts []Part, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	wire := make([]wirePart, 0, len(parts))
	for _, p := range parts {
		wp := wirePart{Text: p.Text}
		if p.Blob != nil {
			wp.InlineData = &wireInlineData{
				MimeType: p.Blob.MimeType,
				Data:     base64.StdEncoding.EncodeToString(p.Blob.Data),
			}
		}
		wire = append(wire, wp)
	}

	body, err := json.Marshal(wireRequest{
		Contents:         []wireContent{{Parts: wire}},
		GenerationConfig: wireGenerationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return fmt.Errorf("encode model request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read model response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		zap.L().Warn("model API returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.String("model", c.model),
		)
		return fmt.Errorf("model returned status %d", resp.StatusCode)
	}

	var wireResp wireResponse
	if err := json.Unmarshal(raw, &wireResp); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}
	if len(wireResp.Candidates) == 0 || len(wireResp.Candidates[0].Content.Parts) == 0 {
		return ErrNoContent
	}

	text := wireResp.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("malformed model output: %w", err)
	}
	return nil
}
