package video

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"holosuite/internal/domain"
	"holosuite/internal/infra"
	"holosuite/internal/providers/gemini"
)

const (
	noDownloadLink = "Video generation succeeded but no download link was found."
	apiKeyInvalid  = "API_KEY_INVALID"
)

// Options configures the Gemini video generator.
type Options struct {
	Model       string
	Resolution  string
	AspectRatio string
	Poll        PollConfig
	Logger      *infra.Logger
}

// GeminiGenerator submits image-to-video jobs to a Veo model, waits for them
// through a Poller and downloads the finished clip.
type GeminiGenerator struct {
	client      Model
	model       string
	resolution  string
	aspectRatio string
	poller      *Poller
	logger      *infra.Logger
}

func NewGeminiGenerator(client Model, opts Options) *GeminiGenerator {
	if opts.Model == "" {
		opts.Model = "veo-3.1-fast-generate-preview"
	}
	if opts.Resolution == "" {
		opts.Resolution = "720p"
	}
	if opts.AspectRatio == "" {
		opts.AspectRatio = "16:9"
	}
	if opts.Logger == nil {
		opts.Logger = infra.NopLogger()
	}
	return &GeminiGenerator{
		client:      client,
		model:       opts.Model,
		resolution:  opts.Resolution,
		aspectRatio: opts.AspectRatio,
		poller:      NewPoller(opts.Poll, opts.Logger),
		logger:      opts.Logger,
	}
}

// Generate animates src guided by prompt and returns the clip as video/mp4.
// Veo only produces mp4, so the download's Content-Type is not consulted.
func (g *GeminiGenerator) Generate(ctx context.Context, src domain.ImageData, prompt string) (domain.ImageData, error) {
	if err := src.Validate(); err != nil {
		return domain.ImageData{}, err
	}
	if err := domain.ValidatePrompt(prompt); err != nil {
		return domain.ImageData{}, err
	}
	raw, err := src.Bytes()
	if err != nil {
		return domain.ImageData{}, domain.WrapError(domain.ErrInvalidInput, "Image data must be valid base64", err)
	}

	start := time.Now()
	op, err := g.client.GenerateVideos(ctx, g.model, prompt,
		&genai.Image{ImageBytes: raw, MIMEType: src.MIMEType},
		&genai.GenerateVideosConfig{
			NumberOfVideos: 1,
			Resolution:     g.resolution,
			AspectRatio:    g.aspectRatio,
		})
	if err != nil {
		g.logger.Warn().Err(err).Str("model", g.model).Msg("video submit failed")
		return domain.ImageData{}, classify(err)
	}
	if op != nil {
		g.logger.Info().Str("operation", op.Name).Str("model", g.model).Msg("video job submitted")
	}

	op, err = g.poller.Wait(ctx, op, g.client.GetVideosOperation)
	if err != nil {
		g.logger.Warn().Err(err).Str("model", g.model).Msg("video job did not complete")
		return domain.ImageData{}, classify(err)
	}
	if len(op.Error) > 0 {
		return domain.ImageData{}, classify(operationError(op.Error))
	}

	video := firstVideo(op)
	if video == nil {
		return domain.ImageData{}, domain.NewError(domain.ErrNoResult, noDownloadLink)
	}
	if video.URI == "" {
		if len(video.VideoBytes) > 0 {
			return domain.NewImageData(video.VideoBytes, domain.MIMEMP4), nil
		}
		return domain.ImageData{}, domain.NewError(domain.ErrNoResult, noDownloadLink)
	}

	data, _, err := g.client.Download(ctx, video.URI)
	if err != nil {
		g.logger.Warn().Err(err).Str("operation", op.Name).Msg("video download failed")
		return domain.ImageData{}, downloadError(err)
	}

	g.logger.Info().
		Str("operation", op.Name).
		Int("bytes", len(data)).
		Dur("latency", time.Since(start)).
		Msg("video generated")

	return domain.NewImageData(data, domain.MIMEMP4), nil
}

func firstVideo(op *genai.GenerateVideosOperation) *genai.Video {
	if op == nil || op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return nil
	}
	generated := op.Response.GeneratedVideos[0]
	if generated == nil {
		return nil
	}
	return generated.Video
}

// classify maps failures to typed errors. A provider "not found" means the
// key cannot reach the model and is reported as an invalid credential.
func classify(err error) error {
	var typed *domain.Error
	if errors.As(err, &typed) {
		return err
	}
	if gemini.IsNotFound(err) {
		return domain.WrapError(domain.ErrInvalidCredential, apiKeyInvalid, err)
	}
	return gemini.ProviderError(err)
}

func downloadError(err error) error {
	var dlErr *gemini.DownloadError
	if errors.As(err, &dlErr) {
		return domain.WrapError(domain.ErrProviderFailure,
			"Failed to download video: "+http.StatusText(dlErr.StatusCode), err)
	}
	return domain.WrapError(domain.ErrProviderFailure, "Failed to download video: "+err.Error(), err)
}

// operationError rebuilds the API error carried by a finished operation.
func operationError(opErr map[string]any) error {
	apiErr := genai.APIError{}
	if msg, ok := opErr["message"].(string); ok {
		apiErr.Message = strings.TrimSpace(msg)
	}
	if status, ok := opErr["status"].(string); ok {
		apiErr.Status = status
	}
	switch code := opErr["code"].(type) {
	case float64:
		apiErr.Code = int(code)
	case int:
		apiErr.Code = code
	case int32:
		apiErr.Code = int(code)
	case int64:
		apiErr.Code = int(code)
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("video operation failed: %v", opErr)
	}
	return apiErr
}

var (
	_ Generator = (*GeminiGenerator)(nil)
	_ Model     = (*gemini.Client)(nil)
)
