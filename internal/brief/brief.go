// Package brief defines the campaign brief that seeds a pipeline run.
// A brief names the product or service, the target audience, and the key
// differentiator; everything the pipeline produces is derived from these
// three fields.
package brief

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CampaignBrief is the input to a pipeline run.
type CampaignBrief struct {
	ProductService    string `yaml:"product_service" json:"product_service"`
	TargetAudience    string `yaml:"target_audience" json:"target_audience"`
	KeyDifferentiator string `yaml:"key_differentiator" json:"key_differentiator"`
}

// Normalized returns a copy with surrounding whitespace trimmed from each
// field. Field contents are otherwise used verbatim downstream.
func (b CampaignBrief) Normalized() CampaignBrief {
	return CampaignBrief{
		ProductService:    strings.TrimSpace(b.ProductService),
		TargetAudience:    strings.TrimSpace(b.TargetAudience),
		KeyDifferentiator: strings.TrimSpace(b.KeyDifferentiator),
	}
}

// Validate checks that all three fields are populated.
func (b CampaignBrief) Validate() error {
	n := b.Normalized()
	var missing []string
	if n.ProductService == "" {
		missing = append(missing, "product_service")
	}
	if n.TargetAudience == "" {
		missing = append(missing, "target_audience")
	}
	if n.KeyDifferentiator == "" {
		missing = append(missing, "key_differentiator")
	}
	if len(missing) > 0 {
		return fmt.Errorf("brief is missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Slug returns a filesystem-friendly identifier derived from the product
// name, used to label per-run output directories in batch mode.
func (b CampaignBrief) Slug() string {
	s := strings.ToLower(strings.TrimSpace(b.ProductService))
	var sb strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && sb.Len() > 0 {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(sb.String(), "-")
	if len(slug) > 40 {
		slug = strings.Trim(slug[:40], "-")
	}
	if slug == "" {
		slug = "campaign"
	}
	return slug
}

// LoadFile reads a campaign brief from a YAML file, normalizes it, and
// validates that all required fields are present.
func LoadFile(path string) (CampaignBrief, error) {
	var b CampaignBrief

	data, err := os.ReadFile(path)
	if err != nil {
		return b, fmt.Errorf("failed to read brief: %w", err)
	}

	if err := yaml.Unmarshal(data, &b); err != nil {
		return b, fmt.Errorf("failed to parse brief: %w", err)
	}

	b = b.Normalized()
	if err := b.Validate(); err != nil {
		return b, err
	}

	return b, nil
}
