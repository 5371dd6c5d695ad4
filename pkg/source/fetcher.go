// pkg/source/fetcher.go
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrFetch indicates the upstream sources could not be fetched or extracted
var ErrFetch = errors.New("fetch failed")

// MasterVersion selects the upstream git branch instead of a release archive
const MasterVersion = "master"

// DefaultArchiveURL is the release archive template; %s is the version
// with dots replaced by underscores
const DefaultArchiveURL = "http://portaudio.com/archives/pa_stable_%s.tgz"

// Config configures a Fetcher
type Config struct {
	ArchiveURL string // printf template with one %s
	GitURL     string
	Client     *Client
	Debug      bool
	Logger     *log.Logger
}

// Fetcher obtains upstream sources for a version
type Fetcher struct {
	config *Config
	client *Client
	logger *log.Logger
}

// NewFetcher creates a Fetcher, filling unset config with defaults
func NewFetcher(cfg *Config) *Fetcher {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.ArchiveURL == "" {
		cfg.ArchiveURL = DefaultArchiveURL
	}
	if cfg.GitURL == "" {
		cfg.GitURL = DefaultGitURL
	}

	client := cfg.Client
	if client == nil {
		client = NewClient()
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[SOURCE] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Fetcher{
		config: cfg,
		client: client,
		logger: logger,
	}
}

// ArchiveURL returns the download URL for a release version,
// e.g. v190600.20161030 -> .../pa_stable_v190600_20161030.tgz
func (f *Fetcher) ArchiveURL(version string) string {
	return fmt.Sprintf(f.config.ArchiveURL, strings.ReplaceAll(version, ".", "_"))
}

// Fetch places the sources for version in destDir
func (f *Fetcher) Fetch(ctx context.Context, version, destDir string) error {
	if version == "" {
		return fmt.Errorf("%w: version is required", ErrFetch)
	}

	if version == MasterVersion {
		f.logger.Printf("Cloning %s (%s) -> %s", f.config.GitURL, DefaultBranch, destDir)
		var progress io.Writer
		if f.config.Debug {
			progress = f.logger.Writer()
		}
		if err := Clone(ctx, f.config.GitURL, DefaultBranch, destDir, progress); err != nil {
			return fmt.Errorf("%w: %v", ErrFetch, err)
		}
		f.logger.Printf("✓ Cloned sources into %s", destDir)
		return nil
	}

	url := f.ArchiveURL(version)
	if err := os.MkdirAll(filepath.Dir(destDir), 0755); err != nil {
		return fmt.Errorf("%w: creating directory: %v", ErrFetch, err)
	}

	archivePath := filepath.Join(filepath.Dir(destDir), path.Base(url))
	// removed on every path, partial downloads included
	defer os.Remove(archivePath)

	if err := f.download(ctx, url, archivePath); err != nil {
		return fmt.Errorf("%w: downloading %s: %v", ErrFetch, url, err)
	}

	if err := Extract(archivePath, destDir, f.logger); err != nil {
		return fmt.Errorf("%w: extracting %s: %v", ErrFetch, archivePath, err)
	}

	f.logger.Printf("✓ Sources for %s ready in %s", version, destDir)
	return nil
}

func (f *Fetcher) download(ctx context.Context, url, dest string) error {
	f.logger.Printf("Downloading %s", url)

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer out.Close()

	n, err := f.client.Download(ctx, url, out)
	if err != nil {
		return err
	}

	f.logger.Printf("✓ Downloaded %d bytes to %s", n, dest)
	return nil
}

// MakeExecutable sets the executable bits on a file in the source tree
func MakeExecutable(sourceDir, name string) error {
	p := filepath.Join(sourceDir, name)
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if err := os.Chmod(p, info.Mode().Perm()|0111); err != nil {
		return fmt.Errorf("%w: chmod +x %s: %v", ErrFetch, name, err)
	}
	return nil
}
