package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields, keep the CLI
	// flags in internal/cli/root.go in sync.
	Notes   Notes
	Output  Output
	Runtime Runtime
}

type Notes struct {
	// ConfigFile is an optional TOML file overriding the section layout (see --config).
	ConfigFile string

	// DraftRelease creates or updates a draft GitHub release with the notes (see --draft-release).
	DraftRelease bool
}

type Output struct {
	// Format selects how the notes are written (see --format).
	// Allowed values: markdown, json. If empty, it is inferred from --out or
	// defaults to markdown.
	Format string

	// Out writes the notes to this path instead of stdout (see --out).
	Out string
}

type Runtime struct {
	// Concurrency bounds parallel pull request lookups (see --concurrency).
	// Must be >= 1.
	Concurrency int

	// Timeout is the global timeout for the run (see --timeout).
	// Must be > 0.
	Timeout time.Duration

	// Verbose prints every GitHub API call and debug progress.
	Verbose bool
}

func New() *Config {
	return &Config{
		Runtime: Runtime{
			Concurrency: 4,
			Timeout:     5 * time.Minute,
		},
	}
}

func (c *Config) Validate() error {
	c.Notes.ConfigFile = strings.TrimSpace(c.Notes.ConfigFile)
	c.Output.Out = strings.TrimSpace(c.Output.Out)
	c.Output.Format = normalizeFormat(c.Output.Format)
	switch c.Output.Format {
	case "":
		if c.Output.Out == "" {
			c.Output.Format = "markdown"
			break
		}
		format, err := InferFormat(c.Output.Out)
		if err != nil {
			return err
		}
		c.Output.Format = format
	case "markdown", "json":
	default:
		return fmt.Errorf("unsupported --format: %s (must be one of: markdown, json)", c.Output.Format)
	}

	if c.Runtime.Concurrency <= 0 {
		return errors.New("--concurrency must be >= 1")
	}
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}
	return nil
}

// InferFormat maps an output path's extension to a notes format.
func InferFormat(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".md", ".markdown":
		return "markdown", nil
	case ".json":
		return "json", nil
	case "":
		return "", errors.New("cannot infer output format from file extension (missing extension); use --format")
	default:
		return "", fmt.Errorf("cannot infer output format from file extension %q; use --format", ext)
	}
}

func normalizeFormat(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "md" {
		return "markdown"
	}
	return v
}
