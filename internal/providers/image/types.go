package image

import (
	"context"

	"google.golang.org/genai"

	"holosuite/internal/domain"
)

// Generator produces a still image from a text prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (domain.ImageData, error)
}

// Editor applies a text instruction to an existing image.
type Editor interface {
	Edit(ctx context.Context, src domain.ImageData, prompt string) (domain.ImageData, error)
}

// ImageModel is the text-to-image surface of the provider.
type ImageModel interface {
	GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// ContentModel is the multimodal surface of the provider used for edits.
type ContentModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}
