// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// RepositoryRecord is one repository from the user's inventory, reduced to the
// identity and year-granularity timestamps the activity heuristic works with.
// It is immutable once fetched and lives only for a single discovery run.
type RepositoryRecord struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	CreatedYear int    `json:"created_year"`
	UpdatedYear int    `json:"updated_year"`
	PushedYear  int    `json:"pushed_year"`
}

// FullName returns the "owner/name" identity used in output and log lines.
func (r RepositoryRecord) FullName() string {
	return r.Owner + "/" + r.Name
}

// Commit is a single commit discovered on the target day.
type Commit struct {
	Message string    `json:"message"`
	URL     string    `json:"url"`
	Repo    string    `json:"repo"`
	Date    time.Time `json:"date"`
}

// PullRequestState is the lifecycle state GitHub reports for a pull request.
type PullRequestState string

const (
	PullRequestOpen   PullRequestState = "OPEN"
	PullRequestClosed PullRequestState = "CLOSED"
	PullRequestMerged PullRequestState = "MERGED"
)

// PullRequest is a single pull request opened on the target day.
type PullRequest struct {
	Title     string           `json:"title"`
	URL       string           `json:"url"`
	Repo      string           `json:"repo"`
	CreatedAt time.Time        `json:"created_at"`
	State     PullRequestState `json:"state"`
}

// YearContribution pairs a year with everything discovered for it on the
// target day. Years with no commits and no pull requests are never emitted.
type YearContribution struct {
	Year         int           `json:"year"`
	Commits      []Commit      `json:"commits"`
	PullRequests []PullRequest `json:"pull_requests"`
}

// IsEmpty reports whether the year produced nothing on the target day.
func (y YearContribution) IsEmpty() bool {
	return len(y.Commits) == 0 && len(y.PullRequests) == 0
}

// ContributionSet is the final result of a discovery run: one entry per
// non-empty year, sorted by year descending.
type ContributionSet []YearContribution

// TotalCommits counts the commits across all years in the set.
func (s ContributionSet) TotalCommits() int {
	var n int
	for _, y := range s {
		n += len(y.Commits)
	}
	return n
}

// TotalPullRequests counts the pull requests across all years in the set.
func (s ContributionSet) TotalPullRequests() int {
	var n int
	for _, y := range s {
		n += len(y.PullRequests)
	}
	return n
}

// User is the profile returned by the GraphQL single-user lookup. CreatedAt
// bounds the earliest year worth scanning.
type User struct {
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DayWindow returns the half-open UTC interval [start, start+24h) for the
// target calendar day in the given year, matching how the host API filters
// commits with since/until. ok is false when the year has no such day
// (a Feb 29 target in a non-leap year), in which case the window would have
// rolled over into March and must not be used.
func DayWindow(year int, month time.Month, day int) (start, end time.Time, ok bool) {
	start = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if start.Month() != month || start.Day() != day {
		return time.Time{}, time.Time{}, false
	}
	return start, start.Add(24 * time.Hour), true
}
