package pipeline

import (
	"fmt"
	"strings"

	"adforge/internal/brief"
)

// reportScaffoldTemplate is the deterministic report shape: the same
// sections the polished report carries, assembled without an engine.
const reportScaffoldTemplate = `# Marketing Campaign - Final Deliverable

## Campaign Brief
**Product/Service:** %s
**Target Audience:** %s
**Key Differentiator:** %s

## Step 1: Market Strategy
%s

## Step 2: Taglines Generated
%s

## Step 3: Selected Concept & Visual Brief
%s

## Step 4: Campaign Image
%s

## Summary & Next Steps
- [ ] Review the marketing strategy with stakeholders
- [ ] Select the final tagline
- [ ] Approve the visual direction
- [ ] Finalize the campaign image
- [ ] Launch the campaign
`

// ReportScaffold assembles the campaign report directly from gathered
// context. It is the fallback body when the reasoning engine cannot
// polish one, so the run always ends with a deliverable.
func ReportScaffold(b brief.CampaignBrief, store *ContextStore) string {
	report := fmt.Sprintf(reportScaffoldTemplate,
		b.ProductService, b.TargetAudience, b.KeyDifferentiator,
		orPlaceholder(strings.TrimSpace(store.Value(KeyStrategy)), placeholderStrategy),
		orPlaceholder(strings.TrimSpace(store.Value(KeyTaglines)), placeholderTaglines),
		orPlaceholder(strings.TrimSpace(store.Value(KeyVisualBrief)), placeholderVisualBrief),
		orPlaceholder(strings.TrimSpace(store.Value(KeyImageStatus)), placeholderImageStatus))
	return report
}
