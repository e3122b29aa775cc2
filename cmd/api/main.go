package main

import (
	"context"

	"github.com/vfg2006/convbench/infrastructure/catalog"
	"github.com/vfg2006/convbench/internal/api"
	"github.com/vfg2006/convbench/internal/config"
	"github.com/vfg2006/convbench/internal/scheduler"
	"github.com/vfg2006/convbench/internal/usecases/binding"
	"github.com/vfg2006/convbench/internal/usecases/calculating"
	"github.com/vfg2006/convbench/pkg/log"
	"github.com/vfg2006/convbench/pkg/middleware"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatal(err)
	}

	log.Configure(cfg.App.LogLevel, cfg.App.LogFormat == "json")
	log.L.Infof("Nível de log configurado para: %s", cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	benchmarks := loadCatalog(cfg.Funnel.BenchmarksFile)

	calculator := calculating.NewService(cfg.ValidationMode())
	binder := binding.NewService(calculator, benchmarks, binding.Options{
		StorageKey:         cfg.State.StorageKey,
		CTABaseURL:         cfg.Funnel.CTABaseURL,
		DefaultImprovement: cfg.Funnel.DefaultImprovement,
		BenchmarkMode:      cfg.BenchmarkMode(),
	})

	log.L.WithFields(log.Fields{
		"funnel_validation": string(calculator.Mode()),
		"funnel_benchmark":  string(cfg.BenchmarkMode()),
		"funnel_sectors":    len(benchmarks.Sectors),
	}).Info("Calculadora configurada")

	limiter := middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)

	cleanupService := scheduler.NewLimiterCleanupService(limiter, cfg)
	if err := cleanupService.Start(ctx); err != nil {
		log.L.WithError(err).Error("Erro ao iniciar a limpeza de limitadores")
	}

	server, err := api.New(cfg, binder, middleware.NewMetrics(), limiter)
	if err != nil {
		log.L.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		log.L.Error(err)
	}
}

// loadCatalog usa o arquivo configurado ou o catálogo embutido
func loadCatalog(path string) *catalog.Catalog {
	if path == "" {
		benchmarks, err := catalog.Default()
		if err != nil {
			log.L.WithError(err).Fatal("Erro ao carregar o catálogo embutido")
		}
		return benchmarks
	}

	benchmarks, err := catalog.Load(path)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao carregar o catálogo de referências")
	}

	log.L.WithField("path", path).Info("Catálogo de referências carregado")
	return benchmarks
}
