package domain

import (
	"github.com/montanaflynn/stats"
)

// Summary describes a ContributionSet in aggregate: how many years were
// active and how commit volume was distributed across them.
type Summary struct {
	ActiveYears       int     `json:"active_years"`
	TotalCommits      int     `json:"total_commits"`
	TotalPullRequests int     `json:"total_pull_requests"`
	MeanCommits       float64 `json:"mean_commits_per_year"`
	MedianCommits     float64 `json:"median_commits_per_year"`
	MaxCommits        int     `json:"max_commits_in_a_year"`
	BusiestYear       int     `json:"busiest_year"`
}

// Summarize computes aggregate statistics over a ContributionSet. An empty
// set yields a zero Summary.
func Summarize(set ContributionSet) Summary {
	s := Summary{
		ActiveYears:       len(set),
		TotalCommits:      set.TotalCommits(),
		TotalPullRequests: set.TotalPullRequests(),
	}
	if len(set) == 0 {
		return s
	}

	counts := make([]float64, len(set))
	for i, y := range set {
		counts[i] = float64(len(y.Commits))
		if len(y.Commits) > s.MaxCommits {
			s.MaxCommits = len(y.Commits)
			s.BusiestYear = y.Year
		}
	}

	// stats only errors on empty input, which is excluded above.
	s.MeanCommits, _ = stats.Mean(counts)
	s.MedianCommits, _ = stats.Median(counts)
	return s
}
