// Package usecase contains the business logic of the application.
package usecase

import (
	"time"

	"github.com/jmanhart/git-memories/internal/domain"
)

// MaxReposPerYear caps the candidate list for any single year, bounding the
// number of detail calls a discovery run can issue.
const MaxReposPerYear = 10

// PlanActivity decides, for each year in [startYear, endYear], which
// repositories were plausibly active and are worth a detail fetch. A
// repository is a candidate for year Y when it already existed
// (CreatedYear <= Y) and was still being touched at or after Y
// (UpdatedYear >= Y or PushedYear >= Y). The predicate is deliberately
// permissive: a false positive costs one extra round of detail calls, a
// false negative silently loses real contributions.
//
// Candidates keep the inventory's most-recently-updated ordering and are
// truncated at MaxReposPerYear. Years with no candidates, and years in which
// the target calendar day does not exist, are left out of the plan. Entries
// are ordered newest year first.
//
// This is a pure function: no I/O, same inputs always give the same plan.
func PlanActivity(repos []domain.RepositoryRecord, month time.Month, day int, startYear, endYear int) domain.ActivityPlan {
	var entries []domain.PlanEntry
	for year := endYear; year >= startYear; year-- {
		if _, _, ok := domain.DayWindow(year, month, day); !ok {
			continue
		}
		var candidates []domain.RepositoryRecord
		for _, r := range repos {
			if !isCandidate(r, year) {
				continue
			}
			candidates = append(candidates, r)
			if len(candidates) == MaxReposPerYear {
				break
			}
		}
		if len(candidates) == 0 {
			continue
		}
		entries = append(entries, domain.PlanEntry{Year: year, Repos: candidates})
	}
	return domain.NewActivityPlan(entries)
}

// isCandidate holds the activity-window heuristic. A repository whose
// UpdatedYear was bumped by a metadata-only touch still qualifies even with
// no commits near Y; that over-approximation is accepted.
func isCandidate(r domain.RepositoryRecord, year int) bool {
	return r.CreatedYear <= year && (r.UpdatedYear >= year || r.PushedYear >= year)
}
