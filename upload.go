package pinflow

import (
	"context"
	"fmt"
	"time"
)

// UploadReport summarises an UploadPending pass.
type UploadReport struct {
	// Uploaded holds the pins published in this pass, in live order.
	Uploaded []*Pin
	Failed   []*KeywordError

	// Skipped counts pins already uploaded or without a composite.
	Skipped int
	Total   int

	Duration time.Duration
}

// Connect verifies creds against the repository host and, when a
// CredentialStore is configured, saves them.
func (m *Manager) Connect(ctx context.Context, creds RepoCredentials) error {
	if m.uploader == nil {
		return ErrUploaderNotConfigured
	}
	if err := creds.Validate(); err != nil {
		return err
	}

	ok, err := m.uploader.Verify(ctx, creds)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRepositoryUnavailable, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrRepositoryUnavailable, creds)
	}

	if m.credentials != nil {
		if err := m.credentials.Save(ctx, creds); err != nil {
			return fmt.Errorf("save credentials: %w", err)
		}
	}

	m.logger.Info("repository connected", "repo", creds.String())
	return nil
}

// Credentials returns the stored repository credentials.
func (m *Manager) Credentials(ctx context.Context) (RepoCredentials, error) {
	if m.credentials == nil {
		return RepoCredentials{}, ErrNoCredentials
	}
	return m.credentials.Load(ctx)
}

// Disconnect forgets the stored repository credentials.
func (m *Manager) Disconnect(ctx context.Context) error {
	if m.credentials == nil {
		return nil
	}
	return m.credentials.Clear(ctx)
}

// UploadPending publishes every pin that has a composite and no upload
// link, one at a time in live order. A failed upload is logged and skipped;
// running the pass again retries only the pins still without a link.
// onProgress is called after every pin, uploaded or not.
func (m *Manager) UploadPending(ctx context.Context, creds RepoCredentials, onProgress func(current, total int)) (*UploadReport, error) {
	if m.uploader == nil {
		return nil, ErrUploaderNotConfigured
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	pins, err := m.pins.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pins: %w", err)
	}

	start := time.Now()
	report := &UploadReport{Total: len(pins)}
	if onProgress != nil {
		onProgress(0, len(pins))
	}

	m.logger.Info("starting upload", "pins", len(pins), "repo", creds.String())

	var stopErr error
	for i, pin := range pins {
		if err := ctx.Err(); err != nil {
			stopErr = err
			break
		}

		if !pin.HasFinal() || pin.Uploaded() {
			report.Skipped++
		} else if err := m.uploadPin(ctx, pin, creds); err != nil {
			m.logger.Error("upload failed",
				"keyword", pin.Keyword,
				"error", err.Error(),
			)
			report.Failed = append(report.Failed, &KeywordError{Keyword: pin.Keyword, Err: err})
		} else {
			report.Uploaded = append(report.Uploaded, pin)
		}

		if onProgress != nil {
			onProgress(i+1, len(pins))
		}
	}

	report.Duration = time.Since(start)
	m.logger.Info("upload completed",
		"uploaded", len(report.Uploaded),
		"failed", len(report.Failed),
		"skipped", report.Skipped,
		"duration_ms", report.Duration.Milliseconds(),
	)

	return report, stopErr
}

func (m *Manager) uploadPin(ctx context.Context, pin *Pin, creds RepoCredentials) error {
	filename := PinFilename(pin.Keyword)
	link, err := m.uploader.Upload(ctx, pin.FinalImage, filename, creds)
	if err != nil {
		return err
	}

	pin.UploadLink = link
	if err := m.pins.Update(ctx, pin); err != nil {
		return fmt.Errorf("record upload link: %w", err)
	}

	m.logger.Debug("pin uploaded", "keyword", pin.Keyword, "link", link)
	return nil
}
