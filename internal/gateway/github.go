// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/jmanhart/git-memories/internal/domain"
)

const (
	// repoPageSize caps the inventory to a single page of the user's
	// most-recently-updated repositories.
	repoPageSize = 100

	commitPageSize = 100
	pullPageSize   = 100

	// defaultPacing is the fixed throttle inserted between per-repository
	// call pairs. It is not backoff; the rate-limit waiter in the transport
	// handles secondary limits.
	defaultPacing = 50 * time.Millisecond
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchUser(ctx context.Context, username string) (domain.User, error)
	ListRepositories(ctx context.Context, username string) ([]domain.RepositoryRecord, error)
	ListCommits(ctx context.Context, owner, repo, author string, since, until time.Time) ([]domain.Commit, error)
	ListPullRequests(ctx context.Context, owner, repo string, since time.Time) ([]domain.PullRequest, error)
	Delay(ctx context.Context) error
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
	pacing        time.Duration
}

// userQuery is the single-user profile lookup. CreatedAt bounds the earliest
// year the discoverer will scan.
type userQuery struct {
	User struct {
		Login     githubv4.String
		Name      githubv4.String
		CreatedAt githubv4.DateTime
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
		pacing:        defaultPacing,
	}, nil
}

// FetchUser looks up a user's profile via the GraphQL API.
func (g *GitHubGateway) FetchUser(ctx context.Context, username string) (domain.User, error) {
	g.logger.Printf("Fetching profile for %s via GraphQL...", username)
	var q userQuery
	variables := map[string]interface{}{"login": githubv4.String(username)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return domain.User{}, fmt.Errorf("failed to fetch user %s: %w", username, translateGraphQL(err))
	}
	return domain.User{
		Login:     string(q.User.Login),
		Name:      string(q.User.Name),
		CreatedAt: q.User.CreatedAt.Time,
	}, nil
}

// ListRepositories fetches a single page of the user's repositories, sorted
// by most recently updated, and reduces each to its year-granularity record.
func (g *GitHubGateway) ListRepositories(ctx context.Context, username string) ([]domain.RepositoryRecord, error) {
	g.logger.Printf("Fetching repository inventory for %s...", username)
	opts := &github.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: repoPageSize},
	}
	repos, _, err := g.restClient.Repositories.ListByUser(ctx, username, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories for %s: %w", username, translateREST(err))
	}

	records := make([]domain.RepositoryRecord, 0, len(repos))
	for _, r := range repos {
		records = append(records, domain.RepositoryRecord{
			Owner:       r.GetOwner().GetLogin(),
			Name:        r.GetName(),
			CreatedYear: timestampYear(r.GetCreatedAt()),
			UpdatedYear: timestampYear(r.GetUpdatedAt()),
			PushedYear:  timestampYear(r.GetPushedAt()),
		})
	}
	g.logger.Printf("Inventory holds %d repositories.", len(records))
	return records, nil
}

// ListCommits fetches the commits a user authored in a repository within the
// half-open [since, until) window. An empty repository answers 409, which is
// treated as zero commits rather than a failure.
func (g *GitHubGateway) ListCommits(ctx context.Context, owner, repo, author string, since, until time.Time) ([]domain.Commit, error) {
	opts := &github.CommitsListOptions{
		Author:      author,
		Since:       since.UTC(),
		Until:       until.UTC(),
		ListOptions: github.ListOptions{PerPage: commitPageSize},
	}
	raw, resp, err := g.restClient.Repositories.ListCommits(ctx, owner, repo, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusConflict {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list commits for %s/%s: %w", owner, repo, translateREST(err))
	}

	commits := make([]domain.Commit, 0, len(raw))
	for _, rc := range raw {
		commits = append(commits, domain.Commit{
			Message: rc.GetCommit().GetMessage(),
			URL:     rc.GetHTMLURL(),
			Repo:    owner + "/" + repo,
			Date:    rc.GetCommit().GetAuthor().GetDate().Time,
		})
	}
	return commits, nil
}

// ListPullRequests fetches a repository's pull requests in all states created
// at or after since. The pulls endpoint only honors a lower bound, so callers
// must post-filter to an exact day window themselves. The since parameter is
// carried as a raw query value because the typed options omit it.
func (g *GitHubGateway) ListPullRequests(ctx context.Context, owner, repo string, since time.Time) ([]domain.PullRequest, error) {
	u := fmt.Sprintf("repos/%s/%s/pulls?state=all&sort=created&direction=desc&since=%s&per_page=%d",
		owner, repo, url.QueryEscape(since.UTC().Format(time.RFC3339)), pullPageSize)
	req, err := g.restClient.NewRequest("GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build pull request listing for %s/%s: %w", owner, repo, err)
	}

	var raw []*github.PullRequest
	if _, err := g.restClient.Do(ctx, req, &raw); err != nil {
		return nil, fmt.Errorf("failed to list pull requests for %s/%s: %w", owner, repo, translateREST(err))
	}

	pulls := make([]domain.PullRequest, 0, len(raw))
	for _, pr := range raw {
		pulls = append(pulls, domain.PullRequest{
			Title:     pr.GetTitle(),
			URL:       pr.GetHTMLURL(),
			Repo:      owner + "/" + repo,
			CreatedAt: pr.GetCreatedAt().Time,
			State:     pullState(pr),
		})
	}
	return pulls, nil
}

// Delay pauses for the fixed pacing interval, or returns early if the
// context is canceled first.
func (g *GitHubGateway) Delay(ctx context.Context) error {
	select {
	case <-time.After(g.pacing):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// translateREST converts go-github errors into the gateway's own APIError so
// upper layers never depend on the client library's types.
func translateREST(err error) error {
	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return &APIError{
			StatusCode: er.Response.StatusCode,
			Status:     er.Response.Status,
		}
	}
	return err
}

// translateGraphQL wraps githubv4 query failures. The library folds the
// response's errors array into a single error value, so the message list has
// one entry.
func translateGraphQL(err error) error {
	return &GraphQLError{Messages: []string{err.Error()}}
}

func pullState(pr *github.PullRequest) domain.PullRequestState {
	switch {
	case pr.MergedAt != nil:
		return domain.PullRequestMerged
	case pr.GetState() == "closed":
		return domain.PullRequestClosed
	default:
		return domain.PullRequestOpen
	}
}

func timestampYear(ts github.Timestamp) int {
	if ts.IsZero() {
		return 0
	}
	return ts.Year()
}
