package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/jmanhart/git-memories/internal/domain"
)

// DemoFetcher is an offline Fetcher that serves deterministic sample data,
// so the discovery pipeline can be exercised end to end without a token or
// network access. The same inputs always yield the same memories.
type DemoFetcher struct {
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

var demoRepos = []struct {
	name    string
	created int
	pushed  int
}{
	{"dotfiles", 2018, 0}, // pushed year filled in relative to now
	{"side-project", 2019, 2022},
	{"blog", 2020, 2021},
	{"old-experiments", 2018, 2019},
}

func (d *DemoFetcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

func (d *DemoFetcher) FetchUser(ctx context.Context, username string) (domain.User, error) {
	return domain.User{
		Login:     username,
		Name:      "Demo User",
		CreatedAt: time.Date(2018, time.January, 15, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (d *DemoFetcher) ListRepositories(ctx context.Context, username string) ([]domain.RepositoryRecord, error) {
	thisYear := d.now().Year()
	records := make([]domain.RepositoryRecord, 0, len(demoRepos))
	for _, r := range demoRepos {
		pushed := r.pushed
		if pushed == 0 {
			pushed = thisYear
		}
		records = append(records, domain.RepositoryRecord{
			Owner:       username,
			Name:        r.name,
			CreatedYear: r.created,
			UpdatedYear: pushed,
			PushedYear:  pushed,
		})
	}
	return records, nil
}

// ListCommits fabricates one or two commits for roughly every other
// (repository, year) pair, keyed off the window's year so output is stable.
func (d *DemoFetcher) ListCommits(ctx context.Context, owner, repo, author string, since, until time.Time) ([]domain.Commit, error) {
	year := since.Year()
	if (year+len(repo))%2 != 0 {
		return nil, nil
	}
	n := 1 + (year+len(repo))%3
	commits := make([]domain.Commit, 0, n)
	for i := 0; i < n; i++ {
		commits = append(commits, domain.Commit{
			Message: fmt.Sprintf("Update %s (change %d)", repo, i+1),
			URL:     fmt.Sprintf("https://github.com/%s/%s/commit/demo%d%d", owner, repo, year, i),
			Repo:    owner + "/" + repo,
			Date:    since.Add(time.Duration(9+i) * time.Hour),
		})
	}
	return commits, nil
}

func (d *DemoFetcher) ListPullRequests(ctx context.Context, owner, repo string, since time.Time) ([]domain.PullRequest, error) {
	year := since.Year()
	if (year+len(repo))%4 != 0 {
		return nil, nil
	}
	return []domain.PullRequest{{
		Title:     fmt.Sprintf("Improve %s", repo),
		URL:       fmt.Sprintf("https://github.com/%s/%s/pull/%d", owner, repo, year%100),
		Repo:      owner + "/" + repo,
		CreatedAt: since.Add(14 * time.Hour),
		State:     domain.PullRequestMerged,
	}}, nil
}

// Delay is a no-op offline; there is no rate limit to respect.
func (d *DemoFetcher) Delay(ctx context.Context) error {
	return ctx.Err()
}
