package image

import (
	"context"
	"time"

	"google.golang.org/genai"

	"holosuite/internal/domain"
	"holosuite/internal/infra"
	"holosuite/internal/providers/gemini"
)

const (
	noImageFromPrompt = "No image was generated from the prompt."
	noImageFromEdit   = "No image was generated."
)

// Options configures the Gemini image generator.
type Options struct {
	GenerateModel string
	EditModel     string
	AspectRatio   string
	OutputMIME    string
	Logger        *infra.Logger
}

// GeminiGenerator creates images with an Imagen model and edits them with a
// multimodal Gemini model.
type GeminiGenerator struct {
	images        ImageModel
	content       ContentModel
	generateModel string
	editModel     string
	aspectRatio   string
	outputMIME    string
	logger        *infra.Logger
}

func NewGeminiGenerator(images ImageModel, content ContentModel, opts Options) *GeminiGenerator {
	if opts.GenerateModel == "" {
		opts.GenerateModel = "imagen-4.0-generate-001"
	}
	if opts.EditModel == "" {
		opts.EditModel = "gemini-2.5-flash-image"
	}
	if opts.AspectRatio == "" {
		opts.AspectRatio = "16:9"
	}
	if opts.OutputMIME == "" {
		opts.OutputMIME = domain.MIMEJPEG
	}
	if opts.Logger == nil {
		opts.Logger = infra.NopLogger()
	}
	return &GeminiGenerator{
		images:        images,
		content:       content,
		generateModel: opts.GenerateModel,
		editModel:     opts.EditModel,
		aspectRatio:   opts.AspectRatio,
		outputMIME:    opts.OutputMIME,
		logger:        opts.Logger,
	}
}

// Generate renders exactly one image for prompt.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (domain.ImageData, error) {
	if err := domain.ValidatePrompt(prompt); err != nil {
		return domain.ImageData{}, err
	}

	start := time.Now()
	resp, err := g.images.GenerateImages(ctx, g.generateModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: g.outputMIME,
		AspectRatio:    g.aspectRatio,
	})
	if err != nil {
		g.logger.Warn().Err(err).Str("model", g.generateModel).Msg("image generation failed")
		return domain.ImageData{}, gemini.ProviderError(err)
	}

	if resp == nil || len(resp.GeneratedImages) == 0 {
		return domain.ImageData{}, domain.NewError(domain.ErrNoResult, noImageFromPrompt)
	}
	first := resp.GeneratedImages[0]
	if first == nil || first.Image == nil || len(first.Image.ImageBytes) == 0 {
		if first != nil && first.RAIFilteredReason != "" {
			g.logger.Info().Str("reason", first.RAIFilteredReason).Msg("image filtered by provider")
		}
		return domain.ImageData{}, domain.NewError(domain.ErrNoResult, noImageFromPrompt)
	}

	g.logger.Debug().
		Str("model", g.generateModel).
		Int("bytes", len(first.Image.ImageBytes)).
		Dur("latency", time.Since(start)).
		Msg("image generated")

	return domain.NewImageData(first.Image.ImageBytes, g.outputMIME), nil
}

// Edit sends src and the instruction in a single user turn and returns the
// first inline image of the first candidate.
func (g *GeminiGenerator) Edit(ctx context.Context, src domain.ImageData, prompt string) (domain.ImageData, error) {
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

	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: src.MIMEType, Data: raw}},
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	start := time.Now()
	resp, err := g.content.GenerateContent(ctx, g.editModel, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	})
	if err != nil {
		g.logger.Warn().Err(err).Str("model", g.editModel).Msg("image edit failed")
		return domain.ImageData{}, gemini.ProviderError(err)
	}

	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0] != nil && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = domain.MIMEPNG
			}
			g.logger.Debug().
				Str("model", g.editModel).
				Int("bytes", len(part.InlineData.Data)).
				Dur("latency", time.Since(start)).
				Msg("image edited")
			return domain.NewImageData(part.InlineData.Data, mime), nil
		}
	}
	return domain.ImageData{}, domain.NewError(domain.ErrNoResult, noImageFromEdit)
}

var (
	_ Generator    = (*GeminiGenerator)(nil)
	_ Editor       = (*GeminiGenerator)(nil)
	_ ImageModel   = (*gemini.Client)(nil)
	_ ContentModel = (*gemini.Client)(nil)
)
