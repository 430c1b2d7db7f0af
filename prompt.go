package pinflow

import (
	"regexp"
	"strings"
)

// Default prompt templates. {keyword} is replaced case-insensitively.
const (
	DefaultPromptTop    = "Aesthetic, minimalist, high quality vertical photography of {keyword}, top down view or flat lay, soft lighting, pinterest style, photorealistic, 8k resolution"
	DefaultPromptBottom = "Aesthetic, minimalist, high quality vertical photography of {keyword}, lifestyle detail shot or close up, warm tones, pinterest style, photorealistic, 8k resolution"
)

const (
	// MaxPromptLength is the longest prompt sent before the photo suffix.
	MaxPromptLength = 500

	// PhotoSuffix keeps lettering out of generated photographs.
	PhotoSuffix = ", no text, no writing, clean photography, high quality, 8k resolution"
)

var keywordPlaceholder = regexp.MustCompile(`(?i)\{keyword\}`)

// ExpandPrompt substitutes every {keyword} placeholder in template.
func ExpandPrompt(template, keyword string) string {
	return keywordPlaceholder.ReplaceAllLiteralString(template, keyword)
}

// PhotoPrompt truncates prompt to MaxPromptLength characters and appends
// PhotoSuffix.
func PhotoPrompt(prompt string) string {
	if r := []rune(prompt); len(r) > MaxPromptLength {
		prompt = string(r[:MaxPromptLength])
	}
	var b strings.Builder
	b.Grow(len(prompt) + len(PhotoSuffix))
	b.WriteString(prompt)
	b.WriteString(PhotoSuffix)
	return b.String()
}
