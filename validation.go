package pinflow

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors
var (
	ErrEmptyPrompt     = errors.New("prompt cannot be empty")
	ErrEmptyImageData  = errors.New("image data cannot be empty")
	ErrInvalidMIMEType = errors.New("invalid or unsupported MIME type")
	ErrImageTooLarge   = errors.New("image data exceeds maximum size")
	ErrNoKeywords      = errors.New("at least one keyword is required")
	ErrInvalidConfig   = errors.New("invalid pin configuration")
	ErrInvalidRepo     = errors.New("invalid repository credentials")
)

// MaxImageSize is the maximum allowed image size in bytes (20MB)
const MaxImageSize = 20 * 1024 * 1024

// ValidMIMETypes contains the supported image MIME types
var ValidMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ValidatePrompt validates a text prompt.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// ValidateInputImage validates an input image.
func ValidateInputImage(img InputImage) error {
	if len(img.Data) == 0 {
		return ErrEmptyImageData
	}

	if len(img.Data) > MaxImageSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, len(img.Data), MaxImageSize)
	}

	if img.MIMEType == "" {
		return fmt.Errorf("%w: MIME type is required", ErrInvalidMIMEType)
	}

	if !ValidMIMETypes[img.MIMEType] {
		return fmt.Errorf("%w: %s", ErrInvalidMIMEType, img.MIMEType)
	}

	return nil
}

// Validate checks that a batch can run: keywords present, both templates
// non-empty and a usable theme.
func (c PinConfig) Validate() error {
	if len(c.Keywords) == 0 {
		return ErrNoKeywords
	}
	if strings.TrimSpace(c.PromptTop) == "" {
		return fmt.Errorf("%w: top prompt: %w", ErrInvalidConfig, ErrEmptyPrompt)
	}
	if strings.TrimSpace(c.PromptBottom) == "" {
		return fmt.Errorf("%w: bottom prompt: %w", ErrInvalidConfig, ErrEmptyPrompt)
	}
	if err := c.Colors.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks that all three repository fields are present.
func (c RepoCredentials) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(c.Repo) == "" {
		missing = append(missing, "repo")
	}
	if strings.TrimSpace(c.Token) == "" {
		missing = append(missing, "token")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidRepo, strings.Join(missing, ", "))
	}
	return nil
}
