package synthesis

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultImagenModel is the Imagen model used when none is configured.
const DefaultImagenModel = "imagen-4.0-generate-preview-06-06"

// ImagenService generates images through the Google GenAI SDK.
type ImagenService struct {
	client *genai.Client
	model  string
}

// NewImagenService creates an Imagen-backed image service.
func NewImagenService(ctx context.Context, apiKey, model string) (*ImagenService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Imagen API key is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultImagenModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &ImagenService{client: client, model: model}, nil
}

// Model returns the configured Imagen model name.
func (s *ImagenService) Model() string {
	return s.model
}

// Synthesize requests a single image for the prompt. One call, no retry:
// the pipeline treats any failure as a terminal outcome for this stage.
func (s *ImagenService) Synthesize(ctx context.Context, prompt string) ([]Image, error) {
	resp, err := s.client.Models.GenerateImages(ctx, s.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("Imagen request failed: %w", err)
	}

	images := make([]Image, 0, len(resp.GeneratedImages))
	for _, generated := range resp.GeneratedImages {
		if generated == nil || generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
			continue
		}
		mime := generated.Image.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		images = append(images, Image{
			Data:     generated.Image.ImageBytes,
			MimeType: mime,
		})
	}
	return images, nil
}
