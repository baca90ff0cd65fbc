package roster

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-jubilee/internal/config"
)

// Download is a remote group file being read.
type Download struct {
	io.ReadCloser

	// Format is the group format implied by the response Content-Type,
	// or config.FormatAuto when the server did not say.
	Format string
}

// Fetcher retrieves a remote group file (CSV or vCard).
type Fetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (*Download, error)
}

// HTTPFetcher implements Fetcher over net/http.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with the default timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// Fetch downloads targetURL with optional basic auth.
// Only http and https are accepted and the body is capped at
// config.MaxHTTPResponseSize.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (*Download, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	// Query strings may carry tokens; keep them out of the logs.
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)
	log.Debug("Initiating group download")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error during fetch: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn("Server returned error status", slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("server returned unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	format := formatFromMediaType(resp.Header.Get(config.HeaderContentType))
	log.Info("Group downloading",
		slog.Int64("content_length", resp.ContentLength),
		slog.String(config.LogKeyFormat, format),
	)

	return &Download{
		ReadCloser: &limitedReadCloser{
			Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
			Closer: resp.Body,
		},
		Format: format,
	}, nil
}

// formatFromMediaType maps a Content-Type header onto a group format.
func formatFromMediaType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return config.FormatAuto
	}
	switch mediaType {
	case "text/csv", "application/csv":
		return config.FormatCSV
	case "text/vcard", "text/x-vcard", "text/directory":
		return config.FormatVCard
	default:
		return config.FormatAuto
	}
}

// limitedReadCloser keeps the original Closer while reading through a limit.
type limitedReadCloser struct {
	io.Reader
	io.Closer
}
