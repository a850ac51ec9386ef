package synthesis

import (
	"strings"
	"testing"
)

func TestImageOutcome_StatusText_Success(t *testing.T) {
	o := ImageOutcome{
		Success:  true,
		Failure:  FailureNone,
		Path:     "output/campaign_image_20240315_104530.png",
		Filename: "campaign_image_20240315_104530.png",
		Width:    1024,
		Height:   768,
		SizeKB:   12.3,
	}

	text := o.StatusText()
	for _, want := range []string{
		"Image generated successfully!",
		"campaign_image_20240315_104530.png",
		"1024x768 pixels",
		"12.3 KB",
		"output/campaign_image_20240315_104530.png",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("StatusText missing %q:\n%s", want, text)
		}
	}
}

func TestImageOutcome_StatusText_Failure(t *testing.T) {
	o := ImageOutcome{
		Failure: FailureConfigMissing,
		Message: "Image generation skipped: GEMINI_API_KEY is not set.",
	}

	if got := o.StatusText(); got != o.Message {
		t.Errorf("Expected failure message verbatim, got %q", got)
	}
}

func TestImageOutcome_StatusText_NeverEmpty(t *testing.T) {
	var o ImageOutcome
	if o.StatusText() == "" {
		t.Error("StatusText must never be empty")
	}
}
