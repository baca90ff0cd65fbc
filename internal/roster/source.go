package roster

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tartampluch/go-jubilee/internal/config"
	"github.com/tartampluch/go-jubilee/internal/engine"
)

// SourceConfig tells a Loader where the group lives.
type SourceConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	Format    string // config.FormatCSV, config.FormatVCard or config.FormatAuto
	LocalPath string // Path to a .csv or .vcf file
	WebURL    string // HTTP(S) URL of a .csv or .vcf file
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// Loader opens a group source and parses it.
type Loader struct {
	Fetcher Fetcher // Only needed for config.SourceModeWeb.
}

// Load reads the configured source and returns the valid members as of today.
func (l *Loader) Load(ctx context.Context, cfg SourceConfig, today time.Time) (*engine.Group, Stats, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompRoster,
		config.LogKeyMode, cfg.Mode,
	)

	stream, hint, err := l.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, Stats{}, ctx.Err()
		}
		return nil, Stats{}, fmt.Errorf("%s: %w", config.ErrRosterRead, err)
	}
	defer func() { _ = stream.Close() }()

	format := cfg.Format
	if format == "" || format == config.FormatAuto {
		format = hint
	}

	g, stats, err := Parse(ctx, stream, format, today)
	if err == nil {
		log.Debug("Group load finished", config.LogKeyDuration, time.Since(start).Milliseconds())
	}
	return g, stats, err
}

// acquireStream opens the source and guesses its format from the media
// type or the file extension.
func (l *Loader) acquireStream(ctx context.Context, cfg SourceConfig) (io.ReadCloser, string, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, "", errors.New(config.ErrLocalPathEmpty)
		}
		f, err := os.Open(cfg.LocalPath)
		if err != nil {
			return nil, "", err
		}
		return f, formatFromExtension(cfg.LocalPath), nil
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, "", errors.New(config.ErrWebURLEmpty)
		}
		if l.Fetcher == nil {
			return nil, "", errors.New(config.ErrFetcherMissing)
		}
		dl, err := l.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
		if err != nil {
			return nil, "", err
		}
		hint := dl.Format
		if hint == config.FormatAuto {
			if u, err := url.Parse(cfg.WebURL); err == nil {
				hint = formatFromExtension(u.Path)
			}
		}
		return dl, hint, nil
	default:
		return nil, "", fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// Parse reads r in the given format after dropping a leading UTF-8 BOM.
// config.FormatAuto sniffs the content: a stream starting with BEGIN:VCARD
// is a vCard, anything else is CSV.
func Parse(ctx context.Context, r io.Reader, format string, today time.Time) (*engine.Group, Stats, error) {
	br := bufio.NewReader(r)
	skipBOM(br)
	if format == "" || format == config.FormatAuto {
		format = sniffFormat(br)
	}

	switch format {
	case config.FormatCSV:
		return ParseCSV(ctx, br, today)
	case config.FormatVCard:
		return ParseVCard(ctx, br, today)
	default:
		return nil, Stats{}, fmt.Errorf("%s: %q", config.ErrFormatUnsupport, format)
	}
}

func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case config.ExtCSV:
		return config.FormatCSV
	case config.ExtVCF, config.ExtVCard:
		return config.FormatVCard
	default:
		return config.FormatAuto
	}
}

var (
	vcardMagic = []byte("BEGIN:VCARD")
	utf8BOM    = []byte("\xef\xbb\xbf")
)

func skipBOM(br *bufio.Reader) {
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
}

// sniffFormat guesses the format from the first bytes of br.
func sniffFormat(br *bufio.Reader) string {
	// Peek returns what it has on short input, along with an error we ignore.
	head, _ := br.Peek(64)
	head = bytes.TrimLeft(head, " \t\r\n")
	if len(head) >= len(vcardMagic) && bytes.EqualFold(head[:len(vcardMagic)], vcardMagic) {
		return config.FormatVCard
	}
	return config.FormatCSV
}
