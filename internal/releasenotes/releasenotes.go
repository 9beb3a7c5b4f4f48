// Package releasenotes builds the changelog entry for a release from the
// closed issues and merged pull requests of the matching GitHub milestone.
package releasenotes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"relnotes/internal/config"
	gh "relnotes/internal/github"
)

// Logger is the diagnostics handle the routine reports progress through.
// SetOutput publishes a named result (for example to a workflow step output).
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Debugf(format string, args ...any)
	SetOutput(name, value string) error
}

// Config is the record handed to Generate by the entry point.
type Config struct {
	Logger     Logger
	Client     *gh.Client
	Repository string
	Version    string
}

// Output names published through Logger.SetOutput.
const (
	OutputContents  = "contents"
	OutputMilestone = "milestone"
)

type options struct {
	layout      config.Layout
	concurrency int
}

type Option func(*options)

func WithLayout(l config.Layout) Option {
	return func(o *options) {
		o.layout = l
	}
}

// WithConcurrency bounds parallel pull request merge checks.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// Generate finds the milestone titled after cfg.Version, groups its closed
// items into sections and renders the markdown changelog entry.
func Generate(ctx context.Context, cfg Config, opts ...Option) (*Notes, error) {
	if ctx == nil {
		return nil, errors.New("generate: ctx is nil")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	o := &options{layout: config.DefaultLayout(), concurrency: 4}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}
	if err := o.layout.Validate(); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	owner, name, err := SplitRepository(cfg.Repository)
	if err != nil {
		return nil, err
	}
	version := NormalizeVersion(cfg.Version)
	q := &query{client: cfg.Client, owner: owner, repo: name, log: cfg.Logger}

	cfg.Logger.Infof("Looking up milestone %s in %s", version, cfg.Repository)
	milestone, err := q.findMilestone(ctx, version)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Debugf("Found milestone #%d (%s)", milestone.GetNumber(), milestone.GetHTMLURL())

	items, err := q.closedItems(ctx, milestone.GetNumber())
	if err != nil {
		return nil, err
	}
	cfg.Logger.Infof("Milestone %s has %d closed items", version, len(items))

	items, err = q.dropUnmerged(ctx, items, o.concurrency)
	if err != nil {
		return nil, err
	}

	notes := Build(o.layout, items)
	notes.Repository = cfg.Repository
	notes.Version = version
	notes.Milestone = milestone.GetHTMLURL()
	notes.Markdown = Render(notes)

	if notes.Empty() {
		cfg.Logger.Warnf("No release notes entries found for milestone %s", version)
	}

	if err := cfg.Logger.SetOutput(OutputContents, notes.Markdown); err != nil {
		return nil, fmt.Errorf("set output %s: %w", OutputContents, err)
	}
	if err := cfg.Logger.SetOutput(OutputMilestone, notes.Milestone); err != nil {
		return nil, fmt.Errorf("set output %s: %w", OutputMilestone, err)
	}
	return notes, nil
}

func (c Config) validate() error {
	if c.Logger == nil {
		return errors.New("generate: logger is nil")
	}
	if c.Client == nil || c.Client.Client == nil {
		return errors.New("generate: client is nil")
	}
	if strings.TrimSpace(c.Version) == "" {
		return errors.New("generate: version is empty")
	}
	return nil
}

// SplitRepository splits an OWNER/REPO identifier.
func SplitRepository(repository string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(repository), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository %q: expected OWNER/REPO", repository)
	}
	return owner, name, nil
}

// NormalizeVersion trims whitespace and a single leading "v".
func NormalizeVersion(version string) string {
	v := strings.TrimSpace(version)
	return strings.TrimPrefix(v, "v")
}
