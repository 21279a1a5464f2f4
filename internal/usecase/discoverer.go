package usecase

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jmanhart/git-memories/internal/domain"
	"github.com/jmanhart/git-memories/internal/gateway"
)

// ProgressFunc receives advisory per-year progress: the year about to be
// fetched and how many candidate repositories it has. Purely informational;
// the discovery result does not depend on it.
type ProgressFunc func(year, candidates int)

// Discoverer is the use case that finds a user's contributions on one
// calendar day across every year they have been active. It orchestrates the
// inventory fetch, the activity plan, and the per-year detail fetches.
type Discoverer struct {
	fetcher gateway.Fetcher
	logger  *log.Logger

	// Progress, when set, is called once per planned year before its fetch.
	Progress ProgressFunc

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewDiscoverer creates a new Discoverer instance.
func NewDiscoverer(fetcher gateway.Fetcher, logger *log.Logger) *Discoverer {
	return &Discoverer{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// Discover runs the full pipeline for one target day. Pass startYear or
// endYear as zero to derive them from the user's profile (account creation
// year) and the current year. startYear is always clamped to the account
// creation year; there is nothing to find before the account existed.
//
// A failure fetching the profile or the repository inventory is fatal: with
// no inventory there is no way to narrow the search. Every later failure is
// contained to the single repository and year it occurred in.
func (d *Discoverer) Discover(ctx context.Context, username string, month time.Month, day int, startYear, endYear int) (domain.ContributionSet, error) {
	d.logger.Printf("Usecase: starting discovery for %s on %02d/%02d...", username, int(month), day)

	var user domain.User
	var repos []domain.RepositoryRecord

	// Profile and inventory are independent; fetch them concurrently.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		user, err = d.fetcher.FetchUser(egCtx, username)
		return err
	})
	eg.Go(func() error {
		var err error
		repos, err = d.fetcher.ListRepositories(egCtx, username)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if endYear == 0 {
		endYear = d.now().UTC().Year()
	}
	if created := user.CreatedAt.Year(); !user.CreatedAt.IsZero() && (startYear == 0 || startYear < created) {
		startYear = created
	}
	if startYear == 0 {
		// Profile gave no creation date; fall back to the oldest repository.
		startYear = endYear
		for _, r := range repos {
			if r.CreatedYear != 0 && r.CreatedYear < startYear {
				startYear = r.CreatedYear
			}
		}
	}

	plan := PlanActivity(repos, month, day, startYear, endYear)
	d.logger.Printf("Usecase: plan covers %d year(s) across %d repositories.", plan.Len(), len(repos))

	set := make(domain.ContributionSet, 0, plan.Len())
	for _, year := range plan.Years() {
		candidates := plan.Candidates(year)
		if d.Progress != nil {
			d.Progress(year, len(candidates))
		}
		detail := d.fetchYearDetail(ctx, username, year, month, day, candidates)
		if detail.IsEmpty() {
			d.logger.Printf("Usecase: year %d has no activity on the target day.", year)
			continue
		}
		set = append(set, detail)
	}

	d.logger.Printf("Usecase: discovery complete, %d active year(s).", len(set))
	return set, nil
}

// fetchYearDetail collects the commits and pull requests for one year's
// candidate repositories, in candidate order. Pull requests are requested
// only for repositories that had at least one commit that day; a repo quiet
// enough to have no commits is assumed unlikely to have opened a PR that
// exact day either, which halves the request volume at a small
// false-negative risk. One repository's failure never aborts the rest.
func (d *Discoverer) fetchYearDetail(ctx context.Context, username string, year int, month time.Month, day int, candidates []domain.RepositoryRecord) domain.YearContribution {
	detail := domain.YearContribution{Year: year}
	start, end, ok := domain.DayWindow(year, month, day)
	if !ok {
		return detail
	}

	for _, repo := range candidates {
		commits, err := d.fetcher.ListCommits(ctx, repo.Owner, repo.Name, username, start, end)
		if err != nil {
			d.logger.Printf("Usecase: warning: skipping %s for %d: %v", repo.FullName(), year, err)
			d.pace(ctx)
			continue
		}
		if len(commits) > 0 {
			detail.Commits = append(detail.Commits, commits...)

			pulls, err := d.fetcher.ListPullRequests(ctx, repo.Owner, repo.Name, start)
			if err != nil {
				d.logger.Printf("Usecase: warning: pull requests unavailable for %s in %d: %v", repo.FullName(), year, err)
			} else {
				// The pulls endpoint only enforces the lower bound, so the
				// exact-day window is applied here.
				for _, pr := range pulls {
					if !pr.CreatedAt.Before(start) && pr.CreatedAt.Before(end) {
						detail.PullRequests = append(detail.PullRequests, pr)
					}
				}
			}
		}
		d.pace(ctx)
	}
	return detail
}

// pace inserts the fixed inter-repository throttle. A canceled context just
// makes the remaining fetches fail fast; pacing has nothing further to do.
func (d *Discoverer) pace(ctx context.Context) {
	if err := d.fetcher.Delay(ctx); err != nil {
		d.logger.Printf("Usecase: pacing interrupted: %v", err)
	}
}
