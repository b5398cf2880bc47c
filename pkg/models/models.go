package models

// StatusAssigned marks a shift that was already resolved upstream.
// Shifts carrying this status together with a non-nil AssignedTo are
// never touched by the assignment run.
const StatusAssigned = "assigned"

// TimeWindow is a recurring weekly window, e.g. "Mondays 06:00-08:00".
// DayOfWeek is 0-indexed from Sunday, matching the upstream roster data.
type TimeWindow struct {
	DayOfWeek int    `json:"day_of_week"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

// Availability holds a member's declared blackout and preferred windows.
type Availability struct {
	NeverAvailable []TimeWindow `json:"never_available,omitempty"`
	PreferredTimes []TimeWindow `json:"preferred_times,omitempty"`
}

// Limits caps how many shifts a member may take per calendar unit.
// A zero value means "no cap declared".
type Limits struct {
	MaxShiftsPerWeek  int `json:"max_shifts_per_week,omitempty"`
	MaxShiftsPerMonth int `json:"max_shifts_per_month,omitempty"`
}

// Member is one assignable person in the roster. HistoricalPoints is the
// fairness score accumulated in past periods; it is owned by the caller's
// ledger and never changed during a run.
type Member struct {
	UserID           string        `json:"user_id"`
	DisplayName      string        `json:"display_name"`
	Email            string        `json:"email"`
	HistoricalPoints float64       `json:"historical_points"`
	Availability     *Availability `json:"availability,omitempty"`
	Limits           *Limits       `json:"limits,omitempty"`
}

// Shift is one time-boxed slot that needs a member. Date is "2006-01-02",
// Time is an encoded range like "06:00-07:00".
type Shift struct {
	ID         string  `json:"id"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Points     float64 `json:"points"`
	Status     string  `json:"status"`
	AssignedTo *string `json:"assigned_to,omitempty"`
}

// TrackingState is the per-member running state of one assignment run.
// It starts zeroed and is discarded afterwards; the caller folds
// SessionPoints into the member's historical ledger.
type TrackingState struct {
	SessionPoints    float64 `json:"session_points"`
	ShiftsThisWeek   int     `json:"shifts_this_week"`
	ShiftsThisMonth  int     `json:"shifts_this_month"`
	LastAssignedDate string  `json:"last_assigned_date,omitempty"`
}

// AssignmentResult records one committed shift assignment. PointsAwarded
// already includes the holiday multiplier.
type AssignmentResult struct {
	ShiftID         string  `json:"shift_id"`
	AssignedTo      string  `json:"assigned_to"`
	AssignedToName  string  `json:"assigned_to_name"`
	AssignedToEmail string  `json:"assigned_to_email"`
	PointsAwarded   float64 `json:"points_awarded"`
	IsHoliday       bool    `json:"is_holiday"`
}

// AssignmentConfig holds the run-scoped tunables.
//
// MemoryHorizonDays is carried in the config and echoed back but not
// consulted by scoring or filtering; the product has not decided on
// point decay yet.
type AssignmentConfig struct {
	HolidayMultiplier float64 `json:"holiday_multiplier"`
	PreferenceBonus   float64 `json:"preference_bonus"`
	MemoryHorizonDays int     `json:"memory_horizon_days"`
}

// DefaultConfig returns the production tunables.
func DefaultConfig() AssignmentConfig {
	return AssignmentConfig{
		HolidayMultiplier: 1.5,
		PreferenceBonus:   -2,
		MemoryHorizonDays: 90,
	}
}

// MemberShare is one member's slice of a run in the summary rollup.
type MemberShare struct {
	Shifts int     `json:"shifts"`
	Points float64 `json:"points"`
}

// Summary is the post-hoc rollup over a run's results.
type Summary struct {
	TotalAssigned      int                    `json:"total_assigned"`
	TotalPoints        float64                `json:"total_points"`
	HolidayShifts      int                    `json:"holiday_shifts"`
	MemberDistribution map[string]MemberShare `json:"member_distribution"`
}

// SkipReasons counts shifts the run left unassigned, by cause.
type SkipReasons struct {
	AlreadyAssigned  int `json:"already_assigned"`
	InvalidDate      int `json:"invalid_date"`
	NoEligibleMember int `json:"no_eligible_member"`
}

// AssignInput is the request body of the auto-assignment endpoint.
type AssignInput struct {
	Members []Member          `json:"members"`
	Shifts  []Shift           `json:"shifts"`
	Config  *AssignmentConfig `json:"config,omitempty"`
}

// AssignResponse is the response body of the auto-assignment endpoint.
type AssignResponse struct {
	RunID   string                   `json:"run_id"`
	Results []AssignmentResult       `json:"results"`
	Summary Summary                  `json:"summary"`
	Members map[string]TrackingState `json:"members"`
	Skipped SkipReasons              `json:"skipped"`
	Config  AssignmentConfig         `json:"config"`
}

// ManualAssignmentInput is the request body for validating an admin's
// manual override of the automatic algorithm.
type ManualAssignmentInput struct {
	Member  Member         `json:"member"`
	Shift   Shift          `json:"shift"`
	Current *TrackingState `json:"current,omitempty"`
}
