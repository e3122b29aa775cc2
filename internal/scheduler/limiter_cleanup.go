package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/convbench/internal/config"
)

//go:generate mockgen -source=limiter_cleanup.go -destination=mocks/mock_limiter_cleanup.go -package=mocks

// Pruner remove os limitadores de IP ociosos
type Pruner interface {
	Prune(idle time.Duration) int
	Len() int
}

// LimiterCleanupConfig representa a configuração da limpeza dos limitadores
type LimiterCleanupConfig struct {
	CronSchedule string
	IdleTTL      time.Duration
	Enabled      bool
}

// LimiterCleanupService agenda a remoção dos limitadores de IP sem uso
type LimiterCleanupService struct {
	scheduler     *gocron.Scheduler
	config        LimiterCleanupConfig
	pruner        Pruner
	running       bool
	mutex         sync.Mutex
	lastRemoved   int
	lastCompleted time.Time
}

func NewLimiterCleanupService(pruner Pruner, appConfig *config.Config) *LimiterCleanupService {
	cleanupConfig := LimiterCleanupConfig{
		CronSchedule: appConfig.Cleanup.CronSchedule,
		IdleTTL:      appConfig.Cleanup.IdleTTL,
		Enabled:      appConfig.Cleanup.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": cleanupConfig.CronSchedule,
		"idle_ttl":      cleanupConfig.IdleTTL.String(),
		"enabled":       cleanupConfig.Enabled,
	}).Info("Configuração da limpeza de limitadores carregada")

	return &LimiterCleanupService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    cleanupConfig,
		pruner:    pruner,
	}
}

// Start agenda a limpeza e para o agendador quando o contexto termina
func (s *LimiterCleanupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Limpeza de limitadores desabilitada por configuração")
		return nil
	}

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(s.cleanup)
	if err != nil {
		return errors.Wrap(err, "scheduling limiter cleanup")
	}

	s.scheduler.StartAsync()
	logrus.WithField("cron", s.config.CronSchedule).Info("Agendador de limpeza de limitadores iniciado")

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de limpeza de limitadores")
		s.scheduler.Stop()
	}()

	return nil
}

// cleanup ignora execuções sobrepostas
func (s *LimiterCleanupService) cleanup() {
	s.mutex.Lock()
	if s.running {
		s.mutex.Unlock()
		logrus.Info("Limpeza de limitadores já em andamento, ignorando")
		return
	}
	s.running = true
	s.mutex.Unlock()

	defer func() {
		s.mutex.Lock()
		s.running = false
		s.mutex.Unlock()
	}()

	startTime := time.Now()
	removed := s.pruner.Prune(s.config.IdleTTL)

	s.mutex.Lock()
	s.lastRemoved = removed
	s.lastCompleted = time.Now()
	s.mutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"removed":   removed,
		"remaining": s.pruner.Len(),
		"duration":  time.Since(startTime).String(),
	}).Debug("Limpeza de limitadores concluída")
}

// LastRun devolve o resultado da última limpeza
func (s *LimiterCleanupService) LastRun() (removed int, completedAt time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.lastRemoved, s.lastCompleted
}
