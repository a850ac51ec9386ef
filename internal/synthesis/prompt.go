package synthesis

import "fmt"

// Prompt length handling. The image API rejects long prompts, so anything
// over maxPromptChars is cut at truncateAt and capped with a short quality
// directive. Counted in runes, never mid-character.
const (
	maxPromptChars   = 2000
	truncateAt       = 1900
	truncationSuffix = "\n\nHigh-quality professional marketing image."
)

// imagePromptTemplate wraps the visual brief in the standing directives
// for commercial photography. The %s is the creative director's brief.
const imagePromptTemplate = `
Create a PROFESSIONAL MARKETING CAMPAIGN IMAGE that is ready for immediate commercial use:

%s

CRITICAL REQUIREMENTS FOR MARKETING EXCELLENCE:

PROFESSIONAL SETTING & ENVIRONMENT:
- Shot in a professional studio or controlled environment with professional photography setup
- Clean, organized, and purposefully designed setting appropriate for the brand
- Professional backdrop or location that enhances the product narrative
- Polished, high-end environment that conveys quality and sophistication
- Setting should appear intentional, not casual or amateur
- Studio-grade professional atmosphere throughout

PROFESSIONAL LIGHTING SETUP:
- Professional multi-point lighting setup (key light, fill light, rim/hair light)
- Soft, diffused lighting using professional softboxes or umbrellas
- No harsh shadows - perfectly balanced illumination
- Key light positioned at 45-degree angle for dimensional depth
- Fill light to soften shadows without eliminating them completely
- Rim or back lighting to separate subject from background
- Color temperature consistent throughout (typically 5500K daylight balanced)
- Professional-grade lighting that flatters both models and product equally
- Catchlights visible in model's eyes for life and engagement
- Product has dedicated lighting to showcase texture, details, and quality
- Studio lighting that creates a premium, high-end commercial look

HUMAN ELEMENT & MODELS:
- Feature attractive, professional models interacting naturally with the product
- Models should be diverse, relatable, and aspirational to the target audience
- Genuine, authentic expressions showing joy, satisfaction, or engagement with the product
- Models should demonstrate the product in use, highlighting its benefits and lifestyle appeal
- Professional modeling quality with confident, natural poses
- Models should complement the product without overshadowing it
- Capture authentic moments of connection between people and the product
- Professional hair, makeup, and wardrobe styling

PRODUCT VISIBILITY & FOCUS:
- The actual product/service must be clearly visible and prominently featured
- Product should be shown in the model's hands, being used, or prominently placed in scene
- Dedicated product lighting highlighting details, texture, and quality
- Show the product delivering value or solving a problem in a lifestyle context
- Ensure product details, quality, and benefits are visually evident through usage
- The product and model(s) should work together to tell a compelling story
- Product positioned to catch optimal light and show its best features

PROFESSIONAL PHOTOGRAPHY QUALITY:
- Shot with professional DSLR or medium format camera aesthetic
- Sharp focus with appropriate depth of field (f/2.8 to f/5.6 range)
- Bokeh effect on background when appropriate for subject isolation
- Impeccable composition following rule of thirds and visual hierarchy
- Professional color accuracy and white balance
- Studio-quality sharpness and clarity throughout
- No grain, noise, or compression artifacts
- Professional post-production color grading

MARKETING APPEAL:
- Instantly eye-catching and scroll-stopping visual impact
- Evokes strong emotional response aligned with brand message
- Aspirational and desirable presentation that viewers want to emulate
- Shows the lifestyle and transformation the product enables
- Creates emotional connection through human presence and authentic moments
- Clean, uncluttered composition that directs attention to the product-person interaction
- Premium brand aesthetic throughout

COMMERCIAL READINESS:
- Suitable for immediate use in digital ads, social media, and print campaigns
- Professional color grading with vibrant but realistic tones
- High resolution and commercial production value
- No text or overlays (will be added separately)
- Background complements the scene without competing for attention
- Magazine-quality editorial and advertising aesthetic
- Ready for billboards, digital ads, social media, and print media

TECHNICAL SPECIFICATIONS:
- 16:9 aspect ratio, landscape orientation
- Photorealistic rendering with commercial photography quality
- Balanced exposure with rich colors and contrast
- Professional retouching quality on both models and product
- Studio photography standards throughout

Create an image that looks like it was shot in a professional photography studio with a full lighting crew, professional models, and commercial-grade equipment. The viewer should immediately recognize this as a premium, professional marketing photograph that makes them connect emotionally with the product and desire to own it.
`

// ComposePrompt wraps the visual brief in the standing commercial
// photography directives. imagePrompt is optional appended detail. The
// result routinely exceeds the provider's prompt cap; callers pass it
// through Truncate before sending.
func ComposePrompt(visualBrief, imagePrompt string) string {
	finalPrompt := visualBrief
	if imagePrompt != "" {
		finalPrompt = fmt.Sprintf("%s\n\nAdditional Details: %s", visualBrief, imagePrompt)
	}
	return fmt.Sprintf(imagePromptTemplate, finalPrompt)
}

// Truncate enforces the prompt cap. Deterministic and idempotent: the
// truncated form is itself under the cap, so truncating twice changes
// nothing.
func Truncate(prompt string) string {
	runes := []rune(prompt)
	if len(runes) <= maxPromptChars {
		return prompt
	}
	return string(runes[:truncateAt]) + truncationSuffix
}
