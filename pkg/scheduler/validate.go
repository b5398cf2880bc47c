package scheduler

import (
	"fmt"
	"time"

	"github.com/stallbacken/stallplan/pkg/models"
)

// ValidateManualAssignment checks an administrator's manual shift
// override against the same availability rule the automatic run uses,
// plus the member's caps measured against externally supplied current
// counts. It returns a user-facing rejection reason, or nil when the
// assignment is allowed. Data-quality problems (unparsable date or
// time) fail open: the corresponding check is skipped rather than
// rejecting the override.
func ValidateManualAssignment(member models.Member, shift models.Shift, current *models.TrackingState) error {
	name := member.DisplayName
	if name == "" {
		name = member.UserID
	}

	if member.Availability != nil && len(member.Availability.NeverAvailable) > 0 {
		if date, ok := ParseShiftDate(shift.Date); ok {
			if start, ok := shiftStart(shift.Time); ok {
				day := int(date.Weekday())
				for _, w := range member.Availability.NeverAvailable {
					if windowContains(w, day, start) {
						return fmt.Errorf("%s is not available on %ss between %s and %s",
							name, weekdayName(w.DayOfWeek), w.Start, w.End)
					}
				}
			}
		}
	}

	if member.Limits != nil && current != nil {
		if member.Limits.MaxShiftsPerWeek > 0 && current.ShiftsThisWeek >= member.Limits.MaxShiftsPerWeek {
			return fmt.Errorf("%s has already reached the weekly shift limit of %d",
				name, member.Limits.MaxShiftsPerWeek)
		}
		if member.Limits.MaxShiftsPerMonth > 0 && current.ShiftsThisMonth >= member.Limits.MaxShiftsPerMonth {
			return fmt.Errorf("%s has already reached the monthly shift limit of %d",
				name, member.Limits.MaxShiftsPerMonth)
		}
	}

	return nil
}

func weekdayName(dayOfWeek int) string {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return "unknown day"
	}
	return time.Weekday(dayOfWeek).String()
}
