package domain

// PlanEntry is one year of an ActivityPlan together with its candidate
// repositories, in inventory order up to the per-year cap.
type PlanEntry struct {
	Year  int
	Repos []RepositoryRecord
}

// ActivityPlan maps each target year to the repositories plausibly active in
// it. It is built once per discovery run and only read afterwards; years with
// zero candidates are absent entirely.
type ActivityPlan struct {
	entries []PlanEntry
}

// NewActivityPlan builds a plan from entries already ordered by year
// descending. The slice is copied so later mutation of the caller's slice
// cannot leak into the plan.
func NewActivityPlan(entries []PlanEntry) ActivityPlan {
	copied := make([]PlanEntry, len(entries))
	copy(copied, entries)
	return ActivityPlan{entries: copied}
}

// Years returns the planned years, newest first.
func (p ActivityPlan) Years() []int {
	years := make([]int, len(p.entries))
	for i, e := range p.entries {
		years[i] = e.Year
	}
	return years
}

// Candidates returns the candidate repositories for a year, or nil if the
// year is not in the plan.
func (p ActivityPlan) Candidates(year int) []RepositoryRecord {
	for _, e := range p.entries {
		if e.Year == year {
			return e.Repos
		}
	}
	return nil
}

// Len returns the number of planned years.
func (p ActivityPlan) Len() int {
	return len(p.entries)
}
