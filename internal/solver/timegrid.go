package solver

import "github.com/noah-isme/sched-engine/internal/domain"

// defaultPeriodMinutes is used when SchedulerConfiguration doesn't name an
// explicit period length; spec.md §3/§7 name earliest/latest/passing time
// but leave the discrete period length to the solver's own grid.
const defaultPeriodMinutes = 50

// BuildTimeGrid discretizes the configured school-day window into a set
// of candidate (day, start, end) values, one per period per configured
// weekday, separated by at least PassingMinutes.
func BuildTimeGrid(cfg domain.SchedulerConfiguration) []domain.TimeWindow {
	passing := cfg.PassingMinutes
	if passing < 0 {
		passing = 0
	}
	period := defaultPeriodMinutes

	var grid []domain.TimeWindow
	for _, day := range cfg.Weekdays {
		start := cfg.EarliestStart
		for {
			end := start.Add(period)
			if end.After(cfg.LatestEnd) {
				break
			}
			grid = append(grid, domain.TimeWindow{Day: day, Start: start, End: end})
			start = end.Add(passing)
		}
	}
	return grid
}
