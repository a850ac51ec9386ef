package pipeline

import (
	"fmt"

	"adforge/internal/brief"
)

// StageSpec describes one pipeline stage. Build is pure string
// formatting over the brief and upstream context; it cannot fail.
type StageSpec struct {
	ID        StageID
	Name      string
	OutputKey StageKey
	Kind      StageKind
	Build     func(b brief.CampaignBrief, store *ContextStore) InstructionPayload
}

// DefaultStages returns the fixed five-stage schedule in execution
// order. Each stage reads only context produced by earlier stages.
func DefaultStages() []StageSpec {
	return []StageSpec{
		{
			ID:        StageStrategy,
			Name:      "Market Strategy",
			OutputKey: KeyStrategy,
			Kind:      KindReasoning,
			Build: func(b brief.CampaignBrief, store *ContextStore) InstructionPayload {
				return StrategyPayload(b)
			},
		},
		{
			ID:        StageTaglines,
			Name:      "Tagline Generation",
			OutputKey: KeyTaglines,
			Kind:      KindReasoning,
			Build: func(b brief.CampaignBrief, store *ContextStore) InstructionPayload {
				return TaglinesPayload(b, store.Value(KeyStrategy))
			},
		},
		{
			ID:        StageVisualBrief,
			Name:      "Visual Concept",
			OutputKey: KeyVisualBrief,
			Kind:      KindReasoning,
			Build: func(b brief.CampaignBrief, store *ContextStore) InstructionPayload {
				return VisualBriefPayload(b, "", store.Value(KeyTaglines))
			},
		},
		{
			ID:        StageImage,
			Name:      "Image Generation",
			OutputKey: KeyImageStatus,
			Kind:      KindSynthesis,
			Build: func(b brief.CampaignBrief, store *ContextStore) InstructionPayload {
				return ImagePayload(store.Value(KeyVisualBrief))
			},
		},
		{
			ID:        StageReport,
			Name:      "Campaign Report",
			OutputKey: KeyReport,
			Kind:      KindReasoning,
			Build: func(b brief.CampaignBrief, store *ContextStore) InstructionPayload {
				return ReportPayload(b,
					store.Value(KeyStrategy),
					store.Value(KeyTaglines),
					store.Value(KeyVisualBrief),
					store.Value(KeyImageStatus))
			},
		},
	}
}

// StrategyPayload composes the market strategy instructions.
func StrategyPayload(b brief.CampaignBrief) InstructionPayload {
	return InstructionPayload{
		StageID:      StageStrategy,
		Instructions: fmt.Sprintf(strategyPromptTemplate, b.ProductService, b.TargetAudience, b.KeyDifferentiator),
		Description:  "Analyze the market and develop the strategic approach",
	}
}

// TaglinesPayload composes the tagline instructions. strategyContext may
// be empty; it is interpolated verbatim either way.
func TaglinesPayload(b brief.CampaignBrief, strategyContext string) InstructionPayload {
	return InstructionPayload{
		StageID:      StageTaglines,
		Instructions: fmt.Sprintf(taglinesPromptTemplate, b.ProductService, b.TargetAudience, b.KeyDifferentiator, strategyContext),
		Description:  "Generate five taglines with psychological justifications",
	}
}

// VisualBriefPayload composes the visual concept instructions. With a
// pre-chosen tagline the instructions embed it directly; with a bundle
// of candidates they direct the engine to select one first. A chosen
// tagline wins when both are supplied.
func VisualBriefPayload(b brief.CampaignBrief, tagline, allTaglines string) InstructionPayload {
	selection := ""
	if allTaglines != "" && tagline == "" {
		selection = fmt.Sprintf(taglineSelectionBlock, allTaglines)
	} else if tagline != "" {
		selection = fmt.Sprintf(selectedTaglineBlock, tagline)
	}
	return InstructionPayload{
		StageID:      StageVisualBrief,
		Instructions: fmt.Sprintf(visualBriefPromptTemplate, b.ProductService, b.TargetAudience, selection),
		Description:  "Develop the visual brief for image generation",
	}
}

// ImagePayload hands the visual brief to the synthesis stage, which
// composes its own provider prompt from it.
func ImagePayload(visualBrief string) InstructionPayload {
	return InstructionPayload{
		StageID:      StageImage,
		Instructions: visualBrief,
		Description:  "Generate the campaign image",
	}
}

// ReportPayload composes the final report instructions, substituting
// placeholders for absent sections.
func ReportPayload(b brief.CampaignBrief, strategy, taglines, visualBrief, imageStatus string) InstructionPayload {
	return InstructionPayload{
		StageID: StageReport,
		Instructions: fmt.Sprintf(reportPromptTemplate,
			b.ProductService, b.TargetAudience, b.KeyDifferentiator,
			orPlaceholder(strategy, placeholderStrategy),
			orPlaceholder(taglines, placeholderTaglines),
			orPlaceholder(visualBrief, placeholderVisualBrief),
			orPlaceholder(imageStatus, placeholderImageStatus)),
		Description: "Compile the final campaign report",
	}
}

func orPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}
