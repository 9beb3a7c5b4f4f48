package releasenotes

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	gh "relnotes/internal/github"

	"github.com/google/go-github/v81/github"
	"golang.org/x/sync/errgroup"
)

var ErrMilestoneNotFound = errors.New("milestone not found")

const perPage = 100

type query struct {
	client *gh.Client
	owner  string
	repo   string
	log    Logger
}

// findMilestone returns the milestone whose title matches version, with or
// without a leading "v". Open and closed milestones are both considered.
func (q *query) findMilestone(ctx context.Context, version string) (*github.Milestone, error) {
	opts := &github.MilestoneListOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	for {
		page, resp, err := q.client.Client.Issues.ListMilestones(ctx, q.owner, q.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list milestones for %s/%s: %w", q.owner, q.repo, err)
		}
		for _, m := range page {
			if NormalizeVersion(m.GetTitle()) == version {
				return m, nil
			}
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
	}
	return nil, fmt.Errorf("%w: %s in %s/%s", ErrMilestoneNotFound, version, q.owner, q.repo)
}

// closedItems lists every closed issue and pull request in the milestone.
func (q *query) closedItems(ctx context.Context, milestone int) ([]*github.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		Milestone:   strconv.Itoa(milestone),
		State:       "closed",
		Sort:        "created",
		Direction:   "asc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var out []*github.Issue
	for {
		page, resp, err := q.client.Client.Issues.ListByRepo(ctx, q.owner, q.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list issues for milestone %d: %w", milestone, err)
		}
		out = append(out, page...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
	}
	return out, nil
}

// dropUnmerged removes pull requests that were closed without being merged.
// Plain issues are kept as is.
func (q *query) dropUnmerged(ctx context.Context, items []*github.Issue, concurrency int) ([]*github.Issue, error) {
	keep := make([]bool, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, item := range items {
		if !item.IsPullRequest() {
			keep[i] = true
			continue
		}
		g.Go(func() error {
			merged, _, err := q.client.Client.PullRequests.IsMerged(gctx, q.owner, q.repo, item.GetNumber())
			if err != nil {
				return fmt.Errorf("check merge status of #%d: %w", item.GetNumber(), err)
			}
			keep[i] = merged
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*github.Issue, 0, len(items))
	for i, item := range items {
		if !keep[i] {
			q.log.Debugf("Skipping #%d: closed without merging", item.GetNumber())
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
