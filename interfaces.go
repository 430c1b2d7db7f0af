package pinflow

import (
	"context"

	"github.com/mhpenta/pinflow/composite"
)

// ImageGenerator is an image model backend. The Manager routes every
// photograph and edit through one; Models lists what it serves, default
// first.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string, genConfig *GenerateConfig) (*GenerateResult, error)
	Edit(ctx context.Context, image InputImage, instruction string, genConfig *GenerateConfig) (*GenerateResult, error)
	Models() []ModelInfo
	Close() error
}

// Compositor renders the two photographs of a pin into the final image.
type Compositor interface {
	Compose(ctx context.Context, req composite.Request) (*composite.Image, error)
}

// Uploader publishes finished pins to a source-hosting repository.
type Uploader interface {
	// Verify reports whether the repository exists, is reachable with the
	// token and is not archived.
	Verify(ctx context.Context, creds RepoCredentials) (bool, error)

	// Upload creates or replaces filename from a data URI and returns the
	// public raw-content link.
	Upload(ctx context.Context, dataURI, filename string, creds RepoCredentials) (string, error)
}

// CredentialStore persists the repository credentials between sessions.
type CredentialStore interface {
	Save(ctx context.Context, creds RepoCredentials) error

	// Load returns ErrNoCredentials when nothing is stored.
	Load(ctx context.Context) (RepoCredentials, error)

	Clear(ctx context.Context) error
}

// PinStore holds generated pins.
type PinStore interface {
	// Add inserts a pin at the front of the list.
	Add(ctx context.Context, pin *Pin) error

	// Get returns ErrPinNotFound for an unknown ID.
	Get(ctx context.Context, id string) (*Pin, error)

	// List returns pins newest first.
	List(ctx context.Context) ([]*Pin, error)

	// Update replaces a stored pin with the same ID.
	Update(ctx context.Context, pin *Pin) error

	Clear(ctx context.Context) error
}
