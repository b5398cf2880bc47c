// Package scheduler implements the fairness-based shift auto-assignment
// algorithm: a single greedy pass over the shift list in date order,
// committing each shift to the eligible member with the lowest fairness
// score. The package performs no I/O; the caller loads the roster and
// shift list and persists the results.
package scheduler

import (
	"sort"
	"time"

	"github.com/stallbacken/stallplan/pkg/models"
)

// HolidayCalendar answers whether a calendar date is a public holiday.
// The scheduler only consumes the boolean; which locale's calendar backs
// it is the caller's choice.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// Scheduler runs one assignment pass over a roster. Tracking state is
// created zeroed per run and discarded with the Scheduler; fold
// SessionPoints into the members' historical ledger after the run.
type Scheduler struct {
	Members  []*models.Member
	Tracking map[string]*models.TrackingState
	Config   models.AssignmentConfig
	Holidays HolidayCalendar
	Skipped  models.SkipReasons
}

// New creates a scheduler for one run. Roster order is preserved: it
// decides who wins a fairness-score tie.
func New(members []*models.Member, cfg models.AssignmentConfig, holidays HolidayCalendar) *Scheduler {
	tracking := make(map[string]*models.TrackingState, len(members))
	for _, m := range members {
		tracking[m.UserID] = &models.TrackingState{}
	}
	return &Scheduler{
		Members:  members,
		Tracking: tracking,
		Config:   cfg,
		Holidays: holidays,
	}
}

// IsEligible reports whether a member may take the shift: no declared
// blackout window covers the shift's start, and no weekly or monthly cap
// has been reached. Pure predicate, no side effects.
func (s *Scheduler) IsEligible(m *models.Member, shift *models.Shift, date time.Time, t *models.TrackingState) bool {
	if m.Availability != nil && len(m.Availability.NeverAvailable) > 0 {
		if start, ok := shiftStart(shift.Time); ok {
			day := int(date.Weekday())
			for _, w := range m.Availability.NeverAvailable {
				if windowContains(w, day, start) {
					return false
				}
			}
		}
	}
	if m.Limits != nil {
		if m.Limits.MaxShiftsPerWeek > 0 && t.ShiftsThisWeek >= m.Limits.MaxShiftsPerWeek {
			return false
		}
		if m.Limits.MaxShiftsPerMonth > 0 && t.ShiftsThisMonth >= m.Limits.MaxShiftsPerMonth {
			return false
		}
	}
	return true
}

// Score computes a member's fairness score for a shift; lower means
// higher assignment priority. Base score is historical plus session
// points; a shift inside a preferred window gets the (negative)
// preference bonus on top.
func (s *Scheduler) Score(m *models.Member, t *models.TrackingState, shift *models.Shift, date time.Time) float64 {
	score := m.HistoricalPoints + t.SessionPoints
	if m.Availability != nil && len(m.Availability.PreferredTimes) > 0 {
		if start, ok := shiftStart(shift.Time); ok {
			day := int(date.Weekday())
			for _, w := range m.Availability.PreferredTimes {
				if windowContains(w, day, start) {
					score += s.Config.PreferenceBonus
					break
				}
			}
		}
	}
	return score
}

// ApplyHolidayMultiplier scales a shift's base points when it falls on a
// public holiday.
func ApplyHolidayMultiplier(basePoints float64, isHoliday bool, multiplier float64) float64 {
	if isHoliday {
		return basePoints * multiplier
	}
	return basePoints
}

// Assign runs the greedy pass. Shifts are processed in ascending date
// order (stable on equal dates); already-assigned shifts, shifts with an
// unparsable date, and shifts with no eligible member are skipped
// silently and counted in Skipped. One result is appended per committed
// shift.
//
// Week and month counters reset whenever the current shift's date is in
// a different ISO week, respectively calendar month, than the previously
// processed shift's date. The reference is the previous shift, not an
// absolute calendar grid, so sparse data can reset counters mid-week;
// that matches the behavior the rest of the product depends on.
func (s *Scheduler) Assign(shifts []models.Shift) []models.AssignmentResult {
	ordered := make([]models.Shift, len(shifts))
	copy(ordered, shifts)
	sort.SliceStable(ordered, func(i, j int) bool {
		di, oki := ParseShiftDate(ordered[i].Date)
		dj, okj := ParseShiftDate(ordered[j].Date)
		if !oki || !okj {
			return false
		}
		return di.Before(dj)
	})

	results := make([]models.AssignmentResult, 0, len(ordered))
	var prev time.Time
	havePrev := false

	for i := range ordered {
		shift := &ordered[i]

		if shift.Status == models.StatusAssigned && shift.AssignedTo != nil {
			s.Skipped.AlreadyAssigned++
			continue
		}
		date, ok := ParseShiftDate(shift.Date)
		if !ok {
			s.Skipped.InvalidDate++
			continue
		}

		if havePrev {
			if !SameISOWeek(prev, date) {
				for _, t := range s.Tracking {
					t.ShiftsThisWeek = 0
				}
			}
			if !SameMonth(prev, date) {
				for _, t := range s.Tracking {
					t.ShiftsThisMonth = 0
				}
			}
		}
		prev, havePrev = date, true

		var eligible []*models.Member
		for _, m := range s.Members {
			if s.IsEligible(m, shift, date, s.Tracking[m.UserID]) {
				eligible = append(eligible, m)
			}
		}
		if len(eligible) == 0 {
			s.Skipped.NoEligibleMember++
			continue
		}

		// Only a strictly lower score displaces the current best, so the
		// first eligible member in roster order wins ties.
		best := eligible[0]
		bestScore := s.Score(best, s.Tracking[best.UserID], shift, date)
		for _, m := range eligible[1:] {
			if score := s.Score(m, s.Tracking[m.UserID], shift, date); score < bestScore {
				best, bestScore = m, score
			}
		}

		isHoliday := s.Holidays != nil && s.Holidays.IsHoliday(date)
		awarded := ApplyHolidayMultiplier(shift.Points, isHoliday, s.Config.HolidayMultiplier)

		t := s.Tracking[best.UserID]
		t.SessionPoints += awarded
		t.ShiftsThisWeek++
		t.ShiftsThisMonth++
		t.LastAssignedDate = date.Format(DateLayout)

		results = append(results, models.AssignmentResult{
			ShiftID:         shift.ID,
			AssignedTo:      best.UserID,
			AssignedToName:  best.DisplayName,
			AssignedToEmail: best.Email,
			PointsAwarded:   awarded,
			IsHoliday:       isHoliday,
		})
	}

	return results
}
