package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	asOf := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want Bucket
	}{
		{"later today", asOf.Add(2 * time.Hour), BucketToday},
		{"one minute from now", asOf.Add(time.Minute), BucketToday},
		{"earlier today is already past", asOf.Add(-2 * time.Hour), BucketPast},
		{"exactly now is past", asOf, BucketPast},
		{"tomorrow is upcoming", asOf.AddDate(0, 0, 1), BucketUpcoming},
		{"next month is upcoming", asOf.AddDate(0, 1, 0), BucketUpcoming},
		{"yesterday is past", asOf.AddDate(0, 0, -1), BucketPast},
		{"tomorrow just after midnight is upcoming, not today", time.Date(2026, time.September, 1, 0, 0, 1, 0, time.UTC), BucketUpcoming},
		{"end of today is today", time.Date(2026, time.August, 31, 23, 59, 0, 0, time.UTC), BucketToday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.at, asOf))
		})
	}
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusAttended.IsValid())
	assert.False(t, Status("pendiente").IsValid())
	assert.False(t, Status("").IsValid())
}
