package video

import (
	"context"

	"google.golang.org/genai"

	"holosuite/internal/domain"
)

// Generator animates a still image into a short clip.
type Generator interface {
	Generate(ctx context.Context, src domain.ImageData, prompt string) (domain.ImageData, error)
}

// Model is the provider surface needed to run a video job end to end.
type Model interface {
	GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
	GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
	Download(ctx context.Context, uri string) ([]byte, string, error)
}
