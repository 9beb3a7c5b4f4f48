package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Section is one heading of the release notes and the labels that route an
// item into it.
type Section struct {
	Title  string   `toml:"title"`
	Labels []string `toml:"labels"`
}

// Layout controls how milestone items are grouped into sections.
type Layout struct {
	// Fallback is the heading for items that match no section.
	Fallback string `toml:"fallback"`

	// IgnoreLabels drop an item from the notes entirely.
	IgnoreLabels []string `toml:"ignore_labels"`

	// Sections are matched in order; the first section sharing a label wins.
	Sections []Section `toml:"sections"`
}

func DefaultLayout() Layout {
	return Layout{
		Fallback:     "Other",
		IgnoreLabels: []string{"ignore-release-notes"},
		Sections: []Section{
			{Title: "Features", Labels: []string{"type/enhancement"}},
			{Title: "Bugs", Labels: []string{"type/bug"}},
			{Title: "Chores", Labels: []string{"type/chore"}},
			{Title: "Documentation", Labels: []string{"type/docs"}},
		},
	}
}

// LoadLayout reads a TOML layout file. An empty path yields DefaultLayout.
// Keys absent from the file keep their default values.
func LoadLayout(path string) (Layout, error) {
	layout := DefaultLayout()
	if path == "" {
		return layout, nil
	}

	var file Layout
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Layout{}, fmt.Errorf("read layout %s: unknown key %q", path, undecoded[0].String())
	}

	if md.IsDefined("fallback") {
		layout.Fallback = file.Fallback
	}
	if md.IsDefined("ignore_labels") {
		layout.IgnoreLabels = file.IgnoreLabels
	}
	if md.IsDefined("sections") {
		layout.Sections = file.Sections
	}

	if err := layout.Validate(); err != nil {
		return Layout{}, fmt.Errorf("read layout %s: %w", path, err)
	}
	return layout, nil
}

func (l *Layout) Validate() error {
	l.Fallback = strings.TrimSpace(l.Fallback)
	if l.Fallback == "" {
		return errors.New("fallback section title must not be empty")
	}

	seen := make(map[string]struct{}, len(l.Sections)+1)
	seen[strings.ToLower(l.Fallback)] = struct{}{}
	for i := range l.Sections {
		s := &l.Sections[i]
		s.Title = strings.TrimSpace(s.Title)
		if s.Title == "" {
			return fmt.Errorf("section %d: title must not be empty", i+1)
		}
		key := strings.ToLower(s.Title)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("section %q: duplicate title", s.Title)
		}
		seen[key] = struct{}{}

		s.Labels = trimList(s.Labels)
		if len(s.Labels) == 0 {
			return fmt.Errorf("section %q: at least one label is required", s.Title)
		}
	}
	l.IgnoreLabels = trimList(l.IgnoreLabels)
	return nil
}

func trimList(values []string) []string {
	var out []string
	for _, v := range values {
		if p := strings.TrimSpace(v); p != "" {
			out = append(out, p)
		}
	}
	return out
}
