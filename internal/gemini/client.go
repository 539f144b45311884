package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrNoAPIKey is returned before any network I/O when the client has no
// credential configured.
var ErrNoAPIKey = errors.New("gemini api key is not configured")

// UpstreamError reports a malformed or empty model response. ModelText
// carries any prose the model returned instead of an image, for
// diagnostics.
type UpstreamError struct {
	Reason    string
	ModelText string
	Status    int
}

func (e *UpstreamError) Error() string {
	msg := "gemini: " + e.Reason

	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}

	if e.ModelText != "" {
		msg += ": " + e.ModelText
	}

	return msg
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			// a hung upstream must not block the request forever
			Timeout: cfg.Timeout,
		},
	}
}

// wire types for the generateContent REST call

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ImageConfig *imageConfig `json:"imageConfig,omitempty"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
}

var dataURIRe = regexp.MustCompile(`^data:(image/[a-zA-Z+.-]+);base64,`)

// splitDataURI extracts the MIME type and raw base64 payload from a
// data-URI. Bare base64 input is accepted and treated as image/png.
func splitDataURI(s string) (mimeType, data string) {
	mimeType = "image/png"

	if m := dataURIRe.FindStringSubmatch(s); m != nil {
		mimeType = m[1]
	}

	data = s
	if i := strings.IndexByte(s, ','); i >= 0 {
		data = s[i+1:]
	}

	return mimeType, data
}

func buildInstruction(style Style, userPrompt string) string {
	return fmt.Sprintf(`Redesign this interior space.
Style: %s.
User Description: %s.
Requirements: Maintain the basic structure and layout of the room but completely transform the furniture, wall colors, textures, and lighting to match the requested style.
Style details: %s.
Output should be a high-quality, photorealistic interior design visualization.`,
		style.Name, userPrompt, style.Prompt)
}

// Generate sends the room photo plus a composite instruction to the
// model and returns the generated image as a data-URI. One shot, no
// retries: a transient upstream failure surfaces to the caller.
func (c *Client) Generate(ctx context.Context, imageDataURI, userPrompt, styleID string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNoAPIKey
	}

	style := StyleByID(styleID)
	mimeType, data := splitDataURI(imageDataURI)

	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{MimeType: mimeType, Data: data}},
				{Text: buildInstruction(style, userPrompt)},
			},
		}},
		GenerationConfig: &generationConfig{
			ImageConfig: &imageConfig{AspectRatio: "16:9"},
		},
	}

	payload, err := json.Marshal(reqBody)

	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))

	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	slog.DebugContext(ctx, "gemini request", "model", c.cfg.Model, "style", style.ID, "prompt_len", len(userPrompt))

	resp, err := c.httpClient.Do(req)

	if err != nil {
		return "", fmt.Errorf("http post: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)

	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{
			Reason:    "non-200 response",
			ModelText: truncate(string(body), 512),
			Status:    resp.StatusCode,
		}
	}

	var out generateResponse

	if err := json.Unmarshal(body, &out); err != nil {
		return "", &UpstreamError{Reason: "unparseable response body"}
	}

	if len(out.Candidates) == 0 {
		return "", &UpstreamError{Reason: "no candidates returned"}
	}

	candidate := out.Candidates[0]

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &UpstreamError{Reason: "candidate has no content parts"}
	}

	for _, p := range candidate.Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			mt := p.InlineData.MimeType
			if mt == "" {
				mt = "image/png"
			}

			return "data:" + mt + ";base64," + p.InlineData.Data, nil
		}
	}

	// model answered with prose instead of an image; surface it
	return "", &UpstreamError{
		Reason:    "model returned no image",
		ModelText: truncate(candidate.Content.Parts[0].Text, 512),
	}
}

// truncate caps s at max bytes without splitting a multi-byte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	cut := s[:max]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}

	return cut
}
