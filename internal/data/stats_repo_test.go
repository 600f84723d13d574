package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay_UsesLocation(t *testing.T) {
	paris := time.FixedZone("CET", 1*60*60)
	abidjan := time.UTC

	// 23:30 UTC on March 14 is already March 15 in Paris.
	now := time.Date(2024, 3, 14, 23, 30, 0, 0, time.UTC)

	assert.Equal(t,
		time.Date(2024, 3, 15, 0, 0, 0, 0, paris),
		startOfDay(now, paris))
	assert.Equal(t,
		time.Date(2024, 3, 14, 0, 0, 0, 0, abidjan),
		startOfDay(now, abidjan))
}

func TestStartOfDay_MidnightIsItsOwnBoundary(t *testing.T) {
	loc := time.FixedZone("GMT+2", 2*60*60)
	midnight := time.Date(2024, 7, 1, 0, 0, 0, 0, loc)
	assert.True(t, startOfDay(midnight, loc).Equal(midnight))
}
