package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aelexs/tickhost/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"ErrPassFault", domain.ErrPassFault, true},
		{"ErrHostFaulted", domain.ErrHostFaulted, true},
		{"ErrBuilderMissing", domain.ErrBuilderMissing, true},
		{"ErrConfigRequired", domain.ErrConfigRequired, true},
		{"ErrInvalidConfig", domain.ErrInvalidConfig, true},
		{"ErrNotReady", domain.ErrNotReady, false},
		{"ErrShuttingDown", domain.ErrShuttingDown, false},
		{"ErrBuilderAlreadySet", domain.ErrBuilderAlreadySet, false},
		{"wrapped ErrPassFault", fmt.Errorf("physics tick: %w", domain.ErrPassFault), true},
		{"random error", errors.New("something else"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.IsFatal(tt.err))
		})
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	all := []error{
		domain.ErrBuilderMissing,
		domain.ErrBuilderAlreadySet,
		domain.ErrNotReady,
		domain.ErrShuttingDown,
		domain.ErrPassFault,
		domain.ErrHostFaulted,
		domain.ErrConfigRequired,
		domain.ErrInvalidConfig,
	}

	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}
