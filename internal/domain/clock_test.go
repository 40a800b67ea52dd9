package domain_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aelexs/tickhost/internal/domain"
	"github.com/aelexs/tickhost/internal/domain/domaintest"
)

func TestRealClock(t *testing.T) {
	t.Run("returns current time", func(t *testing.T) {
		clock := domain.RealClock{}
		before := time.Now()
		got := clock.Now()
		after := time.Now()

		assert.False(t, got.Before(before), "clock.Now() should not be before reference time")
		assert.False(t, got.After(after), "clock.Now() should not be after reference time")
	})
}

func TestFakeClock(t *testing.T) {
	fixedTime := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	t.Run("returns fixed time", func(t *testing.T) {
		clock := domaintest.NewFakeClock(fixedTime)
		assert.True(t, clock.Now().Equal(fixedTime))
	})

	t.Run("advance moves time forward", func(t *testing.T) {
		clock := domaintest.NewFakeClock(fixedTime)
		clock.Advance(16 * time.Millisecond)

		assert.True(t, clock.Now().Equal(fixedTime.Add(16*time.Millisecond)))
	})

	t.Run("set changes time", func(t *testing.T) {
		clock := domaintest.NewFakeClock(fixedTime)
		newTime := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
		clock.Set(newTime)

		assert.True(t, clock.Now().Equal(newTime))
	})

	t.Run("auto step advances after each read", func(t *testing.T) {
		clock := domaintest.NewFakeClock(fixedTime)
		clock.SetAutoStep(10 * time.Millisecond)

		first := clock.Now()
		second := clock.Now()

		assert.True(t, first.Equal(fixedTime))
		assert.Equal(t, 10*time.Millisecond, second.Sub(first))
	})
}

func TestSecondsToDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    time.Duration
		wantOK  bool
	}{
		{"zero", 0, 0, true},
		{"one frame", 0.016, 16 * time.Millisecond, true},
		{"one second", 1, time.Second, true},
		{"negative", -0.5, 0, false},
		{"NaN", math.NaN(), 0, false},
		{"positive infinity", math.Inf(1), 0, false},
		{"negative infinity", math.Inf(-1), 0, false},
		{"huge saturates", 1e300, time.Duration(math.MaxInt64), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := domain.SecondsToDuration(tt.seconds)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, float64(tt.want), float64(got), float64(time.Microsecond))
		})
	}
}
