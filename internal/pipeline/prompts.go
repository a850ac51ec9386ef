package pipeline

// Stage prompt templates. These are versioned text assets: the pipeline
// interpolates brief fields and upstream context verbatim and never
// generates prose itself. Placeholders are positional (fmt.Sprintf).

// cmoSystemPrompt frames every reasoning call.
const cmoSystemPrompt = `You are an expert Chief Marketing Officer (CMO) with 20+ years of experience in strategic marketing and campaign development. Be strategic, persuasive, and professional. Focus on deep psychological insights and emotional resonance. Provide specific, actionable recommendations with clear, executive-ready communication.`

// strategyPromptTemplate: product/service, target audience, key differentiator.
const strategyPromptTemplate = `
Perform a comprehensive CMO-level market strategy analysis:

**Product/Service:** %s
**Target Audience:** %s
**Key Differentiator:** %s

Provide detailed analysis in this format:

## AUDIENCE ANALYSIS:
- Core values of the target audience
- Key pain points they experience
- Media consumption habits and preferred channels
- Emotional drivers and motivations

## MARKETING STRATEGY:
- High-level strategic approach (give it a memorable name)
- Primary tactics to reach and engage the audience
- Positioning statement
- Expected outcomes

## KEY MESSAGE:
- The single, most powerful message that will drive conversion
- Why this message will resonate (one sentence)

Be specific, strategic, and persuasive. Focus on deep psychological insights.
`

// taglinesPromptTemplate: product/service, target audience, key
// differentiator, strategy context.
const taglinesPromptTemplate = `
Generate EXACTLY 5 distinct, compelling taglines for this campaign:

**Product/Service:** %s
**Target Audience:** %s
**Key Differentiator:** %s
**Strategy Context:** %s

For each tagline, provide:
1. The tagline itself (short, memorable, 3-8 words)
2. A one-sentence psychological justification

Format your response EXACTLY as:

TAGLINE 1: [Your tagline]
JUSTIFICATION: [Why it works psychologically]

TAGLINE 2: [Your tagline]
JUSTIFICATION: [Why it works psychologically]

TAGLINE 3: [Your tagline]
JUSTIFICATION: [Why it works psychologically]

TAGLINE 4: [Your tagline]
JUSTIFICATION: [Why it works psychologically]

TAGLINE 5: [Your tagline]
JUSTIFICATION: [Why it works psychologically]

Make each unique, emotionally resonant, and action-oriented.
`

// visualBriefPromptTemplate: product/service, target audience, tagline
// selection block (one of the two blocks below, or empty).
const visualBriefPromptTemplate = `
You are a Creative Director developing a visual concept for an advertisement.

**Product/Service:** %s
**Target Audience:** %s
%s

Develop a detailed Visual Brief for image generation with these sections:

**STYLE:** Describe the visual style (cinematic, minimalist, photorealistic, vibrant, soft lighting, dramatic, etc.)

**SUBJECT:** Describe the main subject in detail - what they're doing, expression, positioning

**SETTING:** Describe the environment, location, background, lighting conditions

**COLOR PALETTE:** Specify dominant colors and mood (warm neutrals, vibrant greens, cool blues, etc.)

**COMPOSITION:** Describe framing, perspective, visual hierarchy

**MOOD & EMOTION:** The emotional tone the image should convey

Be extremely detailed and specific - this will be used for image generation.
`

// taglineSelectionBlock: all candidate taglines; directs the engine to
// pick one first.
const taglineSelectionBlock = `
**Available Taglines:**
%s

First, SELECT the single best tagline from the list above.
`

// selectedTaglineBlock: a single pre-chosen tagline.
const selectedTaglineBlock = `**Selected Tagline:** %s`

// reportPromptTemplate: the three brief fields, then strategy, taglines,
// visual concept, and image status (or their placeholders).
const reportPromptTemplate = `
Generate a comprehensive Final Marketing Campaign Report:

# Marketing Campaign - Final Deliverable

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
Provide a professional summary and actionable next steps for deploying this campaign.

Format this as a polished, executive-ready marketing campaign deliverable.
`

// Placeholder texts substituted for genuinely absent upstream sections.
const (
	placeholderStrategy    = "[To be filled with strategy analysis]"
	placeholderTaglines    = "[To be filled with 5 taglines and justifications]"
	placeholderVisualBrief = "[To be filled with selected tagline and visual brief]"
	placeholderImageStatus = "[Image generation status]"
)
