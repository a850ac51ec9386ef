// Package synthesis generates the campaign image from the visual brief.
//
// The stage never fails the run: a campaign without an image is still a
// deliverable campaign. Every way the image can fail to appear is
// classified by a FailureKind, and the resulting status text is what the
// final report embeds.
package synthesis

import "fmt"

// FailureKind classifies why synthesis produced no image.
type FailureKind string

const (
	FailureNone           FailureKind = "/none"            // Success, no failure
	FailureConfigMissing  FailureKind = "/config_missing"  // No API key; decided before any network call
	FailureServiceMissing FailureKind = "/service_missing" // No image service bound
	FailureNoImage        FailureKind = "/no_image"        // Provider returned zero images
	FailureSynthesisError FailureKind = "/synthesis_error" // Provider call, decode, or write failed
)

// ImageOutcome is the result of one synthesis attempt. Exactly one of the
// two shapes holds: Success with the file fields populated, or a Failure
// kind with a human-readable Message.
type ImageOutcome struct {
	Success  bool        `json:"success"`
	Failure  FailureKind `json:"failure,omitempty"`
	Message  string      `json:"message,omitempty"`
	Path     string      `json:"path,omitempty"`
	Filename string      `json:"filename,omitempty"`
	Width    int         `json:"width,omitempty"`
	Height   int         `json:"height,omitempty"`
	SizeKB   float64     `json:"size_kb,omitempty"`
}

// StatusText returns the status line the campaign report embeds. Never
// empty.
func (o ImageOutcome) StatusText() string {
	if o.Success {
		return fmt.Sprintf(
			"Image generated successfully!\n\n"+
				"- File: %s\n"+
				"- Dimensions: %dx%d pixels\n"+
				"- File Size: %.1f KB\n"+
				"- Saved to: %s",
			o.Filename, o.Width, o.Height, o.SizeKB, o.Path)
	}
	if o.Message != "" {
		return o.Message
	}
	return "Image generation was not attempted."
}
