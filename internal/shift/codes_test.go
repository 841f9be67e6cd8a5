package shift

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeInfoFallsBackToNone(t *testing.T) {
	info := Code("XYZ").Info()
	assert.Equal(t, "未定", info.Name)
	assert.Equal(t, "shift-none", info.Class)
}

func TestCodeClassification(t *testing.T) {
	assert.True(t, CodeHoliday.IsLeave())
	assert.True(t, CodePaid.IsLeave())
	assert.True(t, CodeSpecial.IsLeave())
	assert.False(t, CodeDay.IsLeave())

	assert.True(t, CodeDay.IsWorking())
	assert.True(t, CodeEarly.IsWorking())
	assert.False(t, CodeHoliday.IsWorking())
	assert.False(t, CodeNone.IsWorking())

	assert.False(t, Code("Z").Valid())
	assert.True(t, CodeNone.Valid())
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 31, DaysIn(2025, 1))
	assert.Equal(t, 28, DaysIn(2025, 2))
	assert.Equal(t, 29, DaysIn(2024, 2))
	assert.Equal(t, 30, DaysIn(2025, 4))
}

func TestHomeClass(t *testing.T) {
	assert.Equal(t, "home-a", HomeClass("A"))
	assert.Equal(t, "", HomeClass(""))
}
