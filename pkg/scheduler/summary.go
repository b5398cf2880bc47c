package scheduler

import "github.com/stallbacken/stallplan/pkg/models"

// Summarize folds a run's results into totals and a per-member
// distribution. Single pass, order-independent, no side effects.
func Summarize(results []models.AssignmentResult) models.Summary {
	summary := models.Summary{
		MemberDistribution: make(map[string]models.MemberShare),
	}
	for _, r := range results {
		summary.TotalAssigned++
		summary.TotalPoints += r.PointsAwarded
		if r.IsHoliday {
			summary.HolidayShifts++
		}
		share := summary.MemberDistribution[r.AssignedTo]
		share.Shifts++
		share.Points += r.PointsAwarded
		summary.MemberDistribution[r.AssignedTo] = share
	}
	return summary
}
