package headless_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aelexs/tickhost/internal/domain"
	"github.com/aelexs/tickhost/internal/domain/domaintest"
	"github.com/aelexs/tickhost/internal/ecs"
	"github.com/aelexs/tickhost/internal/headless"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubHost implements headless.Host with function fields.
type stubHost struct {
	mu       sync.Mutex
	visual   []float64
	physics  []float64
	describe func() (ecs.Description, error)

	visualErr  error
	physicsErr error
}

func (s *stubHost) VisualTick(_ context.Context, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visual = append(s.visual, delta)
	return s.visualErr
}

func (s *stubHost) PhysicsTick(_ context.Context, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.physics = append(s.physics, delta)
	return s.physicsErr
}

func (s *stubHost) Describe() (ecs.Description, error) {
	if s.describe != nil {
		return s.describe()
	}
	return ecs.Description{Passes: 1}, nil
}

func (s *stubHost) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visual), len(s.physics)
}

func TestFrameMeasuresDeltaWithClock(t *testing.T) {
	clock := domaintest.NewFakeClock(time.Unix(1000, 0))
	h := &stubHost{}
	d := headless.New(h, headless.Config{Clock: clock})

	require.NoError(t, d.Frame(context.Background()))
	clock.Advance(16 * time.Millisecond)
	require.NoError(t, d.Frame(context.Background()))
	clock.Advance(time.Second)
	require.NoError(t, d.Frame(context.Background()))

	require.Len(t, h.visual, 3)
	assert.InDelta(t, 0.0, h.visual[0], 0)
	assert.InDelta(t, 0.016, h.visual[1], 1e-9)
	assert.InDelta(t, 1.0, h.visual[2], 1e-9, "driver forwards long frames; the host clamps")
	assert.Equal(t, uint64(3), d.Stats().VisualFrames)
}

func TestStepUsesFixedDelta(t *testing.T) {
	h := &stubHost{}
	d := headless.New(h, headless.Config{PhysicsHz: 50})

	require.NoError(t, d.Step(context.Background()))
	require.NoError(t, d.Step(context.Background()))

	assert.Equal(t, []float64{0.02, 0.02}, h.physics)
	assert.Equal(t, 20*time.Millisecond, d.PhysicsStep())
	assert.Equal(t, uint64(2), d.Stats().PhysicsSteps)
}

func TestDefaults(t *testing.T) {
	d := headless.New(&stubHost{}, headless.Config{})

	assert.Equal(t, time.Second/domain.DefaultPhysicsHz, d.PhysicsStep())
	assert.Equal(t, headless.StatusStarting, d.Status())
	assert.ErrorIs(t, d.Health(), domain.ErrNotReady)
	_, ok := d.Schedule()
	assert.False(t, ok)
}

func TestFramePublishesSnapshot(t *testing.T) {
	h := &stubHost{describe: func() (ecs.Description, error) {
		return ecs.Description{Passes: 7}, nil
	}}
	d := headless.New(h, headless.Config{})

	require.NoError(t, d.Frame(context.Background()))

	desc, ok := d.Schedule()
	require.True(t, ok)
	assert.Equal(t, uint64(7), desc.Passes)
}

func TestPublishKeepsSnapshotWhenHostNotReady(t *testing.T) {
	ready := false
	h := &stubHost{describe: func() (ecs.Description, error) {
		if !ready {
			return ecs.Description{}, domain.ErrNotReady
		}
		return ecs.Description{Passes: 3}, nil
	}}
	d := headless.New(h, headless.Config{})

	d.Publish()
	_, ok := d.Schedule()
	assert.False(t, ok)

	ready = true
	d.Publish()
	ready = false
	d.Publish()

	desc, ok := d.Schedule()
	require.True(t, ok)
	assert.Equal(t, uint64(3), desc.Passes)
}

func TestRunDeliversBothCadencesUntilCanceled(t *testing.T) {
	h := &stubHost{}
	d := headless.New(h, headless.Config{VisualHz: 500, PhysicsHz: 400})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool {
		v, p := h.counts()
		return v >= 3 && p >= 3
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, headless.StatusRunning, d.Status())
	assert.NoError(t, d.Health())

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, headless.StatusStopped, d.Status())
}

func TestRunStopsOnFault(t *testing.T) {
	boom := errors.New("pass faulted")
	h := &stubHost{physicsErr: boom}
	d := headless.New(h, headless.Config{VisualHz: 1, PhysicsHz: 1000})

	err := d.Run(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, headless.StatusFaulted, d.Status())
	assert.ErrorIs(t, d.Err(), boom)
	health := d.Health()
	assert.ErrorIs(t, health, domain.ErrHostFaulted)
	assert.ErrorIs(t, health, boom)
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		s    headless.Status
		want string
	}{
		{headless.StatusStarting, "starting"},
		{headless.StatusRunning, "running"},
		{headless.StatusFaulted, "faulted"},
		{headless.StatusStopped, "stopped"},
		{headless.Status(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.String())
		})
	}
}
