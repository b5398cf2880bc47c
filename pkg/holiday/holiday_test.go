package holiday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsHoliday_FixedDates(t *testing.T) {
	cal := Calendar{}

	assert.True(t, cal.IsHoliday(date(2025, time.January, 1)), "Nyårsdagen")
	assert.True(t, cal.IsHoliday(date(2025, time.June, 6)), "Nationaldagen")
	assert.True(t, cal.IsHoliday(date(2025, time.December, 25)), "Juldagen")
	assert.True(t, cal.IsHoliday(date(2025, time.December, 26)), "Annandag jul")

	assert.False(t, cal.IsHoliday(date(2025, time.January, 7)))
	assert.False(t, cal.IsHoliday(date(2025, time.December, 24)), "julafton is not a red day")
}

func TestIsHoliday_EasterDerived(t *testing.T) {
	cal := Calendar{}

	// Easter Sunday 2025 is April 20.
	assert.True(t, cal.IsHoliday(date(2025, time.April, 18)), "Långfredagen")
	assert.True(t, cal.IsHoliday(date(2025, time.April, 20)), "Påskdagen")
	assert.True(t, cal.IsHoliday(date(2025, time.April, 21)), "Annandag påsk")
	assert.True(t, cal.IsHoliday(date(2025, time.May, 29)), "Kristi himmelsfärdsdag")
	assert.True(t, cal.IsHoliday(date(2025, time.June, 8)), "Pingstdagen")

	// Easter Sunday 2024 was March 31.
	assert.True(t, cal.IsHoliday(date(2024, time.March, 29)), "Långfredagen 2024")
	assert.True(t, cal.IsHoliday(date(2024, time.April, 1)), "Annandag påsk 2024")
}

func TestIsHoliday_FloatingSaturdays(t *testing.T) {
	cal := Calendar{}

	assert.True(t, cal.IsHoliday(date(2025, time.June, 21)), "Midsommardagen 2025")
	assert.True(t, cal.IsHoliday(date(2025, time.November, 1)), "Alla helgons dag 2025")
	assert.True(t, cal.IsHoliday(date(2024, time.June, 22)), "Midsommardagen 2024")
	assert.True(t, cal.IsHoliday(date(2024, time.November, 2)), "Alla helgons dag 2024")

	assert.False(t, cal.IsHoliday(date(2025, time.June, 20)), "midsommarafton is not a red day")
}

func TestForYear_SortedAndComplete(t *testing.T) {
	days := ForYear(2025)
	require.Len(t, days, 13)

	for i := 1; i < len(days); i++ {
		assert.LessOrEqual(t, days[i-1].Date, days[i].Date, "holidays must be in calendar order")
	}

	names := make(map[string]string, len(days))
	for _, h := range days {
		names[h.Name] = h.Date
	}
	assert.Equal(t, "2025-06-21", names["Midsommardagen"])
	assert.Equal(t, "2025-04-20", names["Påskdagen"])
}
