package synthesis

import (
	"context"
	"fmt"
	"strings"

	"adforge/internal/artifact"
	"adforge/internal/logging"
)

// Image is a single generated image payload.
type Image struct {
	Data     []byte
	MimeType string
}

// Service is the image-generation port. The production implementation is
// ImagenService; tests bind stubs.
type Service interface {
	Synthesize(ctx context.Context, prompt string) ([]Image, error)
}

// Config wires a Synthesizer.
type Config struct {
	// APIKey gates the stage. Checked before anything else; empty means
	// the stage reports FailureConfigMissing without touching the network.
	APIKey string
	// Service generates images. Nil means FailureServiceMissing (the
	// campaign continues without an image).
	Service Service
	// Writer persists the image. Defaults to a writer on the standard
	// output directory.
	Writer *artifact.Writer
	// Registrar records the saved image in the artifact manifest.
	// Optional; registration failures are logged and swallowed.
	Registrar artifact.Registrar
	// RunID is stamped on registered artifacts.
	RunID string
	// ImagePrompt is optional extra detail appended to every composed
	// prompt ("Additional Details: ...").
	ImagePrompt string
}

// Synthesizer runs the image stage end to end: gate checks, prompt
// composition, the provider call, persistence, registration.
type Synthesizer struct {
	apiKey      string
	service     Service
	writer      *artifact.Writer
	registrar   artifact.Registrar
	runID       string
	imagePrompt string
}

// New creates a Synthesizer.
func New(cfg Config) *Synthesizer {
	if cfg.Writer == nil {
		cfg.Writer = artifact.NewWriter("")
	}
	return &Synthesizer{
		apiKey:      cfg.APIKey,
		service:     cfg.Service,
		writer:      cfg.Writer,
		registrar:   cfg.Registrar,
		runID:       cfg.RunID,
		imagePrompt: cfg.ImagePrompt,
	}
}

// Generate produces the campaign image from the visual brief. It never
// returns an error: every failure mode is folded into the outcome so the
// pipeline always continues to the report.
func (s *Synthesizer) Generate(ctx context.Context, visualBrief string) ImageOutcome {
	if strings.TrimSpace(s.apiKey) == "" {
		logging.SynthesisWarn("skipping image generation: no API key configured")
		return ImageOutcome{
			Failure: FailureConfigMissing,
			Message: "Image generation skipped: GEMINI_API_KEY is not set. " +
				"Set GEMINI_API_KEY (or GOOGLE_API_KEY) to enable it. " +
				"The visual brief above provides full specifications for manual creation.",
		}
	}

	if s.service == nil {
		logging.SynthesisWarn("skipping image generation: no image service bound")
		return ImageOutcome{
			Failure: FailureServiceMissing,
			Message: "Image generation unavailable: no image service is configured. " +
				"The campaign continues without a generated image; " +
				"the visual brief above provides full specifications for manual creation.",
		}
	}

	prompt := Truncate(ComposePrompt(visualBrief, s.imagePrompt))
	logging.Synthesis("generating image: prompt_len=%d", len(prompt))

	images, err := s.service.Synthesize(ctx, prompt)
	if err != nil {
		logging.SynthesisError("image generation failed: %v", err)
		return ImageOutcome{
			Failure: FailureSynthesisError,
			Message: fmt.Sprintf("Image generation failed: %v. "+
				"This may be due to API quotas, billing setup, or prompt content. "+
				"The campaign can still be completed without the image; "+
				"the visual brief provides detailed specifications for manual creation.", err),
		}
	}

	if len(images) == 0 {
		logging.SynthesisWarn("image service returned no images")
		return ImageOutcome{
			Failure: FailureNoImage,
			Message: "No images were generated. " +
				"Try refining the visual brief or check API quotas.",
		}
	}

	saved, err := s.writer.SaveImage(images[0].Data)
	if err != nil {
		logging.SynthesisError("failed to save image: %v", err)
		return ImageOutcome{
			Failure: FailureSynthesisError,
			Message: fmt.Sprintf("Image generation failed: %v. "+
				"The visual brief provides detailed specifications for manual creation.", err),
		}
	}

	outcome := ImageOutcome{
		Success:  true,
		Failure:  FailureNone,
		Path:     saved.Path,
		Filename: saved.Filename,
		Width:    saved.Width,
		Height:   saved.Height,
		SizeKB:   saved.SizeKB,
	}

	s.register(ctx, saved, int64(len(images[0].Data)))

	logging.Synthesis("image generated: %s (%dx%d, %.1f KB)", saved.Path, saved.Width, saved.Height, saved.SizeKB)
	return outcome
}

// register records the saved image in the manifest. Best-effort: a
// registration failure never downgrades a successful outcome.
func (s *Synthesizer) register(ctx context.Context, saved artifact.SavedImage, sizeBytes int64) {
	if s.registrar == nil {
		return
	}
	entry := artifact.Artifact{
		RunID:     s.runID,
		Kind:      artifact.KindImage,
		MimeType:  "image/png",
		Path:      saved.Path,
		SizeBytes: sizeBytes,
		Width:     saved.Width,
		Height:    saved.Height,
	}
	if err := s.registrar.Register(ctx, entry); err != nil {
		logging.SynthesisWarn("could not register image artifact: %v", err)
	}
}
