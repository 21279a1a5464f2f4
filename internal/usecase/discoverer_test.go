package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jmanhart/git-memories/internal/domain"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making
// real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchUser(ctx context.Context, username string) (domain.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockFetcher) ListRepositories(ctx context.Context, username string) ([]domain.RepositoryRecord, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RepositoryRecord), args.Error(1)
}

func (m *mockFetcher) ListCommits(ctx context.Context, owner, repo, author string, since, until time.Time) ([]domain.Commit, error) {
	args := m.Called(ctx, owner, repo, author, since, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commit), args.Error(1)
}

func (m *mockFetcher) ListPullRequests(ctx context.Context, owner, repo string, since time.Time) ([]domain.PullRequest, error) {
	args := m.Called(ctx, owner, repo, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRequest), args.Error(1)
}

func (m *mockFetcher) Delay(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func testUser() domain.User {
	return domain.User{
		Login:     "octo",
		Name:      "Octo Cat",
		CreatedAt: time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestDiscoverer(fetcher *mockFetcher) *Discoverer {
	d := NewDiscoverer(fetcher, log.New(io.Discard, "", 0))
	d.now = func() time.Time { return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) }
	return d
}

func window(year int) (time.Time, time.Time) {
	start, end, _ := domain.DayWindow(year, time.September, 14)
	return start, end
}

func TestDiscoverer_Discover_HappyPath(t *testing.T) {
	fetcher := new(mockFetcher)
	repoA := repoRecord("alpha", 2022, 2024, 2024)

	fetcher.On("FetchUser", mock.Anything, "octo").Return(testUser(), nil)
	fetcher.On("ListRepositories", mock.Anything, "octo").Return([]domain.RepositoryRecord{repoA}, nil)
	fetcher.On("Delay", mock.Anything).Return(nil)

	start2023, end2023 := window(2023)
	commit := domain.Commit{
		Message: "Fix pagination",
		URL:     "https://github.com/octo/alpha/commit/abc",
		Repo:    "octo/alpha",
		Date:    start2023.Add(10 * time.Hour),
	}
	insidePR := domain.PullRequest{
		Title:     "Add retries",
		URL:       "https://github.com/octo/alpha/pull/7",
		Repo:      "octo/alpha",
		CreatedAt: start2023.Add(15 * time.Hour),
		State:     domain.PullRequestMerged,
	}
	// Created the next morning: the endpoint's lower bound let it through,
	// the post-filter must not.
	outsidePR := domain.PullRequest{
		Title:     "Follow-up",
		URL:       "https://github.com/octo/alpha/pull/8",
		Repo:      "octo/alpha",
		CreatedAt: end2023.Add(30 * time.Minute),
		State:     domain.PullRequestOpen,
	}

	fetcher.On("ListCommits", mock.Anything, "octo", "alpha", "octo", start2023, end2023).
		Return([]domain.Commit{commit}, nil)
	fetcher.On("ListPullRequests", mock.Anything, "octo", "alpha", start2023).
		Return([]domain.PullRequest{insidePR, outsidePR}, nil)
	// Every other year is quiet.
	fetcher.On("ListCommits", mock.Anything, "octo", "alpha", "octo", mock.Anything, mock.Anything).
		Return([]domain.Commit{}, nil)

	d := newTestDiscoverer(fetcher)
	set, err := d.Discover(context.Background(), "octo", time.September, 14, 0, 0)

	assert.NoError(t, err)
	assert.Equal(t, domain.ContributionSet{
		{
			Year:         2023,
			Commits:      []domain.Commit{commit},
			PullRequests: []domain.PullRequest{insidePR},
		},
	}, set)
	fetcher.AssertExpectations(t)
}

func TestDiscoverer_Discover_NoPullRequestCallWithoutCommits(t *testing.T) {
	fetcher := new(mockFetcher)
	repoA := repoRecord("alpha", 2023, 2023, 2023)

	fetcher.On("FetchUser", mock.Anything, "octo").Return(testUser(), nil)
	fetcher.On("ListRepositories", mock.Anything, "octo").Return([]domain.RepositoryRecord{repoA}, nil)
	fetcher.On("Delay", mock.Anything).Return(nil)
	fetcher.On("ListCommits", mock.Anything, "octo", "alpha", "octo", mock.Anything, mock.Anything).
		Return([]domain.Commit{}, nil)

	d := newTestDiscoverer(fetcher)
	set, err := d.Discover(context.Background(), "octo", time.September, 14, 2023, 2023)

	assert.NoError(t, err)
	assert.Empty(t, set)
	fetcher.AssertNotCalled(t, "ListPullRequests", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDiscoverer_Discover_FailureIsolation(t *testing.T) {
	fetcher := new(mockFetcher)
	repoA := repoRecord("alpha", 2023, 2023, 2023)
	repoB := repoRecord("beta", 2023, 2023, 2023)

	fetcher.On("FetchUser", mock.Anything, "octo").Return(testUser(), nil)
	fetcher.On("ListRepositories", mock.Anything, "octo").
		Return([]domain.RepositoryRecord{repoA, repoB}, nil)
	fetcher.On("Delay", mock.Anything).Return(nil)

	start, end := window(2023)
	commit := domain.Commit{Message: "Works", Repo: "octo/beta", Date: start.Add(time.Hour)}

	// alpha blows up, beta still delivers.
	fetcher.On("ListCommits", mock.Anything, "octo", "alpha", "octo", start, end).
		Return(nil, errors.New("boom"))
	fetcher.On("ListCommits", mock.Anything, "octo", "beta", "octo", start, end).
		Return([]domain.Commit{commit}, nil)
	fetcher.On("ListPullRequests", mock.Anything, "octo", "beta", start).
		Return([]domain.PullRequest{}, nil)

	d := newTestDiscoverer(fetcher)
	set, err := d.Discover(context.Background(), "octo", time.September, 14, 2023, 2023)

	assert.NoError(t, err)
	assert.Len(t, set, 1)
	assert.Equal(t, []domain.Commit{commit}, set[0].Commits)
	fetcher.AssertExpectations(t)
}

func TestDiscoverer_Discover_PullRequestFailureKeepsCommits(t *testing.T) {
	fetcher := new(mockFetcher)
	repoA := repoRecord("alpha", 2023, 2023, 2023)

	fetcher.On("FetchUser", mock.Anything, "octo").Return(testUser(), nil)
	fetcher.On("ListRepositories", mock.Anything, "octo").Return([]domain.RepositoryRecord{repoA}, nil)
	fetcher.On("Delay", mock.Anything).Return(nil)

	start, end := window(2023)
	commit := domain.Commit{Message: "Still here", Repo: "octo/alpha", Date: start.Add(time.Hour)}
	fetcher.On("ListCommits", mock.Anything, "octo", "alpha", "octo", start, end).
		Return([]domain.Commit{commit}, nil)
	fetcher.On("ListPullRequests", mock.Anything, "octo", "alpha", start).
		Return(nil, errors.New("boom"))

	d := newTestDiscoverer(fetcher)
	set, err := d.Discover(context.Background(), "octo", time.September, 14, 2023, 2023)

	assert.NoError(t, err)
	assert.Len(t, set, 1)
	assert.Equal(t, []domain.Commit{commit}, set[0].Commits)
	assert.Empty(t, set[0].PullRequests)
}

func TestDiscoverer_Discover_InventoryFailureIsFatal(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchUser", mock.Anything, "octo").Return(testUser(), nil)
	fetcher.On("ListRepositories", mock.Anything, "octo").Return(nil, errors.New("github api error"))

	d := newTestDiscoverer(fetcher)
	set, err := d.Discover(context.Background(), "octo", time.September, 14, 0, 0)

	assert.Error(t, err)
	assert.Nil(t, set)
	fetcher.AssertNotCalled(t, "ListCommits",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDiscoverer_Discover_EmptyInputs(t *testing.T) {
	testCases := []struct {
		name      string
		repos     []domain.RepositoryRecord
		startYear int
		endYear   int
	}{
		{"no repositories", []domain.RepositoryRecord{}, 0, 0},
		{"inverted year range", []domain.RepositoryRecord{repoRecord("a", 2000, 2030, 2030)}, 2024, 2021},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := new(mockFetcher)
			fetcher.On("FetchUser", mock.Anything, "octo").Return(testUser(), nil)
			fetcher.On("ListRepositories", mock.Anything, "octo").Return(tc.repos, nil)

			d := newTestDiscoverer(fetcher)
			set, err := d.Discover(context.Background(), "octo", time.September, 14, tc.startYear, tc.endYear)

			assert.NoError(t, err)
			assert.Empty(t, set)
		})
	}
}

func TestDiscoverer_Discover_NewestFirstAndProgress(t *testing.T) {
	fetcher := new(mockFetcher)
	repoA := repoRecord("alpha", 2021, 2023, 2023)

	fetcher.On("FetchUser", mock.Anything, "octo").Return(testUser(), nil)
	fetcher.On("ListRepositories", mock.Anything, "octo").Return([]domain.RepositoryRecord{repoA}, nil)
	fetcher.On("Delay", mock.Anything).Return(nil)

	for year := 2021; year <= 2023; year++ {
		start, end := window(year)
		fetcher.On("ListCommits", mock.Anything, "octo", "alpha", "octo", start, end).
			Return([]domain.Commit{{Message: "c", Repo: "octo/alpha", Date: start.Add(time.Hour)}}, nil)
		fetcher.On("ListPullRequests", mock.Anything, "octo", "alpha", start).
			Return([]domain.PullRequest{}, nil)
	}

	var visited []int
	d := newTestDiscoverer(fetcher)
	d.Progress = func(year, candidates int) {
		visited = append(visited, year)
		assert.Equal(t, 1, candidates)
	}

	set, err := d.Discover(context.Background(), "octo", time.September, 14, 2021, 2023)

	assert.NoError(t, err)
	assert.Equal(t, []int{2023, 2022, 2021}, visited)
	years := make([]int, len(set))
	for i, y := range set {
		years[i] = y.Year
	}
	assert.Equal(t, []int{2023, 2022, 2021}, years)
}

func TestDiscoverer_Discover_StartYearClampedToAccountCreation(t *testing.T) {
	fetcher := new(mockFetcher)
	repoA := repoRecord("alpha", 2015, 2024, 2024)

	fetcher.On("FetchUser", mock.Anything, "octo").Return(testUser(), nil) // created 2020
	fetcher.On("ListRepositories", mock.Anything, "octo").Return([]domain.RepositoryRecord{repoA}, nil)
	fetcher.On("Delay", mock.Anything).Return(nil)
	fetcher.On("ListCommits", mock.Anything, "octo", "alpha", "octo", mock.Anything, mock.Anything).
		Return([]domain.Commit{}, nil)

	var visited []int
	d := newTestDiscoverer(fetcher)
	d.Progress = func(year, candidates int) { visited = append(visited, year) }

	_, err := d.Discover(context.Background(), "octo", time.September, 14, 2015, 2022)

	assert.NoError(t, err)
	// 2015-2019 predate the account and must never be fetched.
	assert.Equal(t, []int{2022, 2021, 2020}, visited)
}
