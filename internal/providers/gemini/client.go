package gemini

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"holosuite/internal/domain"
	"holosuite/internal/infra"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a thin facade over the Gemini SDK. It exposes exactly the model
// calls the image and video providers need so they can be stubbed in tests.
type Client struct {
	apiKey     string
	baseURL    string
	sdk        *genai.Client
	httpClient *http.Client
	logger     *infra.Logger
}

// DownloadError reports a non-success response while fetching a generated file.
type DownloadError struct {
	StatusCode int
	Body       string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download file status %d: %s", e.StatusCode, e.Body)
}

// NewClient builds an SDK client bound to the Gemini Developer API.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, domain.NewError(domain.ErrMissingCredential, "GEMINI_API_KEY is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL + "/"}
	} else {
		baseURL = defaultBaseURL
	}

	sdk, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		sdk:        sdk,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// GenerateImages runs a text-to-image model.
func (c *Client) GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	return c.sdk.Models.GenerateImages(ctx, model, prompt, config)
}

// GenerateContent runs a multimodal model.
func (c *Client) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return c.sdk.Models.GenerateContent(ctx, model, contents, config)
}

// GenerateVideos submits a long-running video job.
func (c *Client) GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	return c.sdk.Models.GenerateVideos(ctx, model, prompt, image, config)
}

// GetVideosOperation refreshes the status of a submitted video job.
func (c *Client) GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	return c.sdk.Operations.GetVideosOperation(ctx, op, nil)
}

// Download fetches a generated file. The API key is appended as the "key"
// query parameter, which file URIs returned by the API require.
func (c *Client) Download(ctx context.Context, uri string) ([]byte, string, error) {
	target := uri
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		target = strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(uri, "/")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create download request: %w", err)
	}
	q := req.URL.Query()
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, "", &DownloadError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}

	c.logger.Debug().
		Str("host", req.URL.Host).
		Int("bytes", len(blob)).
		Dur("latency", time.Since(start)).
		Msg("gemini file downloaded")

	return blob, resp.Header.Get("Content-Type"), nil
}
