// Package githubstore publishes pins to a GitHub repository and serves them
// from raw.githubusercontent.com.
package githubstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v81/github"

	"github.com/mhpenta/pinflow"
	"github.com/mhpenta/pinflow/datauri"
)

const (
	// Branch is the branch pins are committed to.
	Branch = "main"

	// PathPrefix is the repository directory holding pins.
	PathPrefix = "pins/"

	rawHost = "https://raw.githubusercontent.com"
)

// Store implements pinflow.Uploader against the GitHub contents API.
type Store struct {
	httpClient *http.Client
	baseURL    *url.URL
	logger     *slog.Logger
}

var _ pinflow.Uploader = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		s.httpClient = c
	}
}

// WithBaseURL points the store at another API endpoint. The URL must be
// absolute; a trailing slash is added when missing.
func WithBaseURL(base string) Option {
	return func(s *Store) {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		if u, err := url.Parse(base); err == nil {
			s.baseURL = u
		}
	}
}

// WithLogger sets a structured logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Store talking to api.github.com.
func New(opts ...Option) *Store {
	s := &Store{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) client(creds pinflow.RepoCredentials) *github.Client {
	c := github.NewClient(s.httpClient).WithAuthToken(creds.Token)
	if s.baseURL != nil {
		c.BaseURL = s.baseURL
	}
	return c
}

// Verify reports whether the repository exists, the token can read it and
// it is not archived. Request failures are logged and returned with false.
func (s *Store) Verify(ctx context.Context, creds pinflow.RepoCredentials) (bool, error) {
	repo, _, err := s.client(creds).Repositories.Get(ctx, creds.Username, creds.Repo)
	if err != nil {
		s.logger.Error("repository verification failed",
			"repo", creds.String(),
			"error", err.Error(),
		)
		return false, err
	}

	if repo.GetArchived() {
		s.logger.Warn("repository is archived", "repo", creds.String())
		return false, nil
	}
	return true, nil
}

// Upload commits the image in dataURI to pins/<filename> on main, replacing
// any existing file, and returns its raw-content link.
func (s *Store) Upload(ctx context.Context, dataURI, filename string, creds pinflow.RepoCredentials) (string, error) {
	content, err := datauri.Decode(dataURI)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	client := s.client(creds)
	path := PathPrefix + filename

	sha, err := s.existingSHA(ctx, client, creds, path)
	if err != nil {
		s.logger.Warn("could not read existing file, creating",
			"path", path,
			"error", err.Error(),
		)
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr("Add/Update pin for " + filename),
		Content: content,
		Branch:  github.Ptr(Branch),
	}

	if sha != "" {
		opts.SHA = github.Ptr(sha)
		_, _, err = client.Repositories.UpdateFile(ctx, creds.Username, creds.Repo, path, opts)
	} else {
		_, _, err = client.Repositories.CreateFile(ctx, creds.Username, creds.Repo, path, opts)
	}
	if err != nil {
		return "", fmt.Errorf("GitHub upload failed for %s: %w", path, err)
	}

	link := RawURL(creds, filename)
	s.logger.Info("pin uploaded",
		"path", path,
		"updated", sha != "",
		"link", link,
	)
	return link, nil
}

// existingSHA returns the blob SHA of path on Branch, or "" when the file
// does not exist.
func (s *Store) existingSHA(ctx context.Context, client *github.Client, creds pinflow.RepoCredentials, path string) (string, error) {
	file, _, _, err := client.Repositories.GetContents(ctx, creds.Username, creds.Repo, path,
		&github.RepositoryContentGetOptions{Ref: Branch})
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", err
	}
	if file == nil {
		return "", nil
	}
	return file.GetSHA(), nil
}

// RawURL is the public link of filename once uploaded.
func RawURL(creds pinflow.RepoCredentials, filename string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s%s", rawHost, creds.Username, creds.Repo, Branch, PathPrefix, filename)
}
