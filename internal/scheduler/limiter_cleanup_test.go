package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/convbench/internal/config"
	"github.com/vfg2006/convbench/internal/scheduler/mocks"
	"github.com/vfg2006/convbench/pkg/middleware"
)

func newCleanupConfig(enabled bool, cron string) *config.Config {
	return &config.Config{
		Cleanup: config.Cleanup{
			Enabled:      enabled,
			CronSchedule: cron,
			IdleTTL:      30 * time.Minute,
		},
	}
}

func TestLimiterCleanupService_cleanup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pruner := mocks.NewMockPruner(ctrl)
	pruner.EXPECT().Prune(30 * time.Minute).Return(4)
	pruner.EXPECT().Len().Return(12)

	service := NewLimiterCleanupService(pruner, newCleanupConfig(true, "*/10 * * * *"))
	service.cleanup()

	removed, completedAt := service.LastRun()
	assert.Equal(t, 4, removed)
	assert.False(t, completedAt.IsZero())
}

func TestLimiterCleanupService_cleanupSkipsWhenRunning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// nenhuma chamada esperada ao pruner
	pruner := mocks.NewMockPruner(ctrl)

	service := NewLimiterCleanupService(pruner, newCleanupConfig(true, "*/10 * * * *"))
	service.running = true
	service.cleanup()

	removed, completedAt := service.LastRun()
	assert.Zero(t, removed)
	assert.True(t, completedAt.IsZero())
}

func TestLimiterCleanupService_Start(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		wantErr bool
	}{
		{name: "Desabilitado não agenda nada", cfg: newCleanupConfig(false, "")},
		{name: "Cron válido", cfg: newCleanupConfig(true, "*/10 * * * *")},
		{name: "Cron inválido", cfg: newCleanupConfig(true, "toda hora"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			service := NewLimiterCleanupService(middleware.NewRateLimiter(1, 1), tt.cfg)
			err := service.Start(ctx)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLimiterCleanupService_prunesRealLimiter(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, 1)
	limiter.Allow("10.0.0.1")

	cfg := newCleanupConfig(true, "*/10 * * * *")
	cfg.Cleanup.IdleTTL = time.Nanosecond

	service := NewLimiterCleanupService(limiter, cfg)
	time.Sleep(time.Millisecond)
	service.cleanup()

	removed, _ := service.LastRun()
	assert.Equal(t, 1, removed)
	assert.Zero(t, limiter.Len())
}
