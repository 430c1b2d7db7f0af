package pinflow

import (
	"strings"
	"time"

	"github.com/mhpenta/pinflow/composite"
)

// CredentialsKey is the storage key the repository credentials live under.
const CredentialsKey = "pinflow_personal_edition_v1"

// Pin is one generated keyword: its two source photographs, the composite
// and, once published, the public link.
type Pin struct {
	ID      string `json:"id"`
	Keyword string `json:"keyword"`
	Website string `json:"website"`

	// Image1 and Image2 are the base64 top and bottom photographs.
	Image1 string `json:"image1"`
	Image2 string `json:"image2"`

	// FinalImage is the composite as a data URI.
	FinalImage string `json:"finalImage,omitempty"`

	CreatedAt  time.Time `json:"createdAt"`
	UploadLink string    `json:"uploadLink,omitempty"`
}

// HasFinal reports whether the pin has a composite.
func (p *Pin) HasFinal() bool {
	return p.FinalImage != ""
}

// Uploaded reports whether the pin has been published.
func (p *Pin) Uploaded() bool {
	return p.UploadLink != ""
}

// Clone returns a copy safe to mutate.
func (p *Pin) Clone() *Pin {
	c := *p
	return &c
}

// PinConfig is the input of one batch run.
type PinConfig struct {
	Keywords     []string        `json:"keywords" yaml:"keywords"`
	Website      string          `json:"website" yaml:"website"`
	Colors       composite.Theme `json:"colors" yaml:"colors"`
	PromptTop    string          `json:"promptTop" yaml:"prompt_top"`
	PromptBottom string          `json:"promptBottom" yaml:"prompt_bottom"`
}

// NewPinConfig returns a config with the default prompts and the first preset.
func NewPinConfig(keywords []string, website string) PinConfig {
	return PinConfig{
		Keywords:     keywords,
		Website:      website,
		Colors:       Presets()[0].Theme,
		PromptTop:    DefaultPromptTop,
		PromptBottom: DefaultPromptBottom,
	}
}

// ParseKeywords splits text into one keyword per line, trimmed, blanks dropped.
func ParseKeywords(text string) []string {
	lines := strings.Split(text, "\n")
	keywords := make([]string, 0, len(lines))
	for _, line := range lines {
		if k := strings.TrimSpace(line); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

// RepoCredentials identify the repository pins are published to.
type RepoCredentials struct {
	Username string `json:"username"`
	Repo     string `json:"repo"`
	Token    string `json:"token"`
}

// String hides the token.
func (c RepoCredentials) String() string {
	return c.Username + "/" + c.Repo
}
