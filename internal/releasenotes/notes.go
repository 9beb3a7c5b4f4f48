package releasenotes

import (
	"fmt"
	"sort"
	"strings"

	"relnotes/internal/config"

	"github.com/google/go-github/v81/github"
)

type Entry struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Author      string `json:"author,omitempty"`
	URL         string `json:"url,omitempty"`
	PullRequest bool   `json:"pull_request"`
}

type Section struct {
	Title   string  `json:"title"`
	Entries []Entry `json:"entries"`
}

type Notes struct {
	Repository   string    `json:"repository"`
	Version      string    `json:"version"`
	Milestone    string    `json:"milestone,omitempty"`
	Sections     []Section `json:"sections"`
	Contributors []string  `json:"contributors"`
	Markdown     string    `json:"markdown"`
}

func (n *Notes) Empty() bool {
	for _, s := range n.Sections {
		if len(s.Entries) > 0 {
			return false
		}
	}
	return true
}

// Build groups items into the layout's sections. Sections keep layout order
// with the fallback last; sections without entries are omitted and entries
// are sorted by number.
func Build(layout config.Layout, items []*github.Issue) *Notes {
	ignore := make(map[string]struct{}, len(layout.IgnoreLabels))
	for _, l := range layout.IgnoreLabels {
		ignore[strings.ToLower(l)] = struct{}{}
	}

	buckets := make([][]Entry, len(layout.Sections)+1)
	contributors := make(map[string]string)

	for _, item := range items {
		labels := labelSet(item)
		if hasAny(labels, ignore) {
			continue
		}

		idx := len(layout.Sections)
		for i, s := range layout.Sections {
			if hasAnyOf(labels, s.Labels) {
				idx = i
				break
			}
		}

		author := item.GetUser().GetLogin()
		buckets[idx] = append(buckets[idx], Entry{
			Number:      item.GetNumber(),
			Title:       strings.TrimSpace(item.GetTitle()),
			Author:      author,
			URL:         item.GetHTMLURL(),
			PullRequest: item.IsPullRequest(),
		})
		if author != "" && !isBot(item.GetUser()) {
			key := strings.ToLower(author)
			if _, seen := contributors[key]; !seen {
				contributors[key] = author
			}
		}
	}

	notes := &Notes{Sections: []Section{}, Contributors: []string{}}
	for i, entries := range buckets {
		if len(entries) == 0 {
			continue
		}
		sort.SliceStable(entries, func(a, b int) bool { return entries[a].Number < entries[b].Number })
		title := layout.Fallback
		if i < len(layout.Sections) {
			title = layout.Sections[i].Title
		}
		notes.Sections = append(notes.Sections, Section{Title: title, Entries: entries})
	}

	keys := make([]string, 0, len(contributors))
	for k := range contributors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		notes.Contributors = append(notes.Contributors, contributors[k])
	}
	return notes
}

// Render produces the markdown changelog entry.
func Render(n *Notes) string {
	var b strings.Builder

	name := n.Repository
	if _, repo, err := SplitRepository(n.Repository); err == nil {
		name = repo
	}
	fmt.Fprintf(&b, "## %s v%s\n", name, n.Version)

	if n.Empty() {
		b.WriteString("\nNo changes recorded for this release.\n")
		return b.String()
	}

	for _, s := range n.Sections {
		if len(s.Entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n### %s\n\n", s.Title)
		for _, e := range s.Entries {
			b.WriteString(renderEntry(e))
		}
	}

	if len(n.Contributors) > 0 {
		b.WriteString("\n### Contributors\n\n")
		for i, c := range n.Contributors {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("@" + c)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderEntry(e Entry) string {
	if e.Author == "" {
		return fmt.Sprintf("* %s (#%d)\n", e.Title, e.Number)
	}
	return fmt.Sprintf("* %s (#%d by @%s)\n", e.Title, e.Number, e.Author)
}

func labelSet(item *github.Issue) map[string]struct{} {
	out := make(map[string]struct{}, len(item.Labels))
	for _, l := range item.Labels {
		out[strings.ToLower(l.GetName())] = struct{}{}
	}
	return out
}

func hasAny(labels, set map[string]struct{}) bool {
	for l := range labels {
		if _, ok := set[l]; ok {
			return true
		}
	}
	return false
}

func hasAnyOf(labels map[string]struct{}, want []string) bool {
	for _, w := range want {
		if _, ok := labels[strings.ToLower(w)]; ok {
			return true
		}
	}
	return false
}

func isBot(u *github.User) bool {
	if u == nil {
		return false
	}
	if strings.EqualFold(u.GetType(), "Bot") {
		return true
	}
	return strings.HasSuffix(u.GetLogin(), "[bot]")
}
