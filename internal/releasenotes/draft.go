package releasenotes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v81/github"
)

var ErrReleasePublished = errors.New("release already published")

// PublishDraft creates a draft release tagged v<version> carrying the notes,
// or updates the body of an existing draft with that tag. A published
// release with the tag is left untouched and ErrReleasePublished is returned.
//
// Drafts have no tag ref yet, so they are found by listing releases rather
// than GetReleaseByTag.
func PublishDraft(ctx context.Context, cfg Config, notes *Notes) (*github.RepositoryRelease, error) {
	if ctx == nil {
		return nil, errors.New("publish draft: ctx is nil")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if notes == nil {
		return nil, errors.New("publish draft: notes are nil")
	}
	owner, name, err := SplitRepository(cfg.Repository)
	if err != nil {
		return nil, err
	}
	repos := cfg.Client.Client.Repositories
	tag := "v" + NormalizeVersion(notes.Version)

	existing, err := findRelease(ctx, repos, owner, name, tag)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		cfg.Logger.Infof("Creating draft release %s", tag)
		rel, _, err := repos.CreateRelease(ctx, owner, name, &github.RepositoryRelease{
			TagName: github.Ptr(tag),
			Name:    github.Ptr(tag),
			Body:    github.Ptr(notes.Markdown),
			Draft:   github.Ptr(true),
		})
		if err != nil {
			return nil, fmt.Errorf("create draft release %s: %w", tag, err)
		}
		return rel, nil
	}

	if !existing.GetDraft() {
		return nil, fmt.Errorf("%w: %s (%s)", ErrReleasePublished, tag, existing.GetHTMLURL())
	}

	cfg.Logger.Infof("Updating draft release %s", tag)
	rel, _, err := repos.EditRelease(ctx, owner, name, existing.GetID(), &github.RepositoryRelease{
		Body: github.Ptr(notes.Markdown),
	})
	if err != nil {
		return nil, fmt.Errorf("update draft release %s: %w", tag, err)
	}
	return rel, nil
}

func findRelease(ctx context.Context, repos *github.RepositoriesService, owner, name, tag string) (*github.RepositoryRelease, error) {
	opts := &github.ListOptions{PerPage: perPage}
	for {
		page, resp, err := repos.ListReleases(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("list releases for %s/%s: %w", owner, name, err)
		}
		for _, r := range page {
			if r.GetTagName() == tag {
				return r, nil
			}
		}
		if resp == nil || resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
}
