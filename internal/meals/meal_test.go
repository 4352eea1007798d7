package meals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMealTypeAt(t *testing.T) {
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	testCases := []struct {
		hour     int
		expected MealType
	}{
		{0, MealTypeBreakfast},
		{9, MealTypeBreakfast},
		{10, MealTypeLunch},
		{13, MealTypeLunch},
		{14, MealTypeSnack},
		{17, MealTypeSnack},
		{18, MealTypeDinner},
		{23, MealTypeDinner},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, MealTypeAt(day.Add(time.Duration(tc.hour)*time.Hour+59*time.Minute)), "hour %d", tc.hour)
	}
}

func TestMealTypeAt_UsesLocalHour(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("no tz data: %s", err)
	}
	// 23:30 UTC is 08:30 in Tokyo
	utc := time.Date(2025, 3, 14, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, MealTypeDinner, MealTypeAt(utc))
	assert.Equal(t, MealTypeBreakfast, MealTypeAt(utc.In(tokyo)))
}

func TestMealType_Valid(t *testing.T) {
	assert.True(t, MealTypeLunch.Valid())
	assert.False(t, MealType("brunch").Valid())
	assert.False(t, MealType("").Valid())
}
