package handler

import (
	"net/http"

	"github.com/vfg2006/convbench/internal/api/handler/router"
	"github.com/vfg2006/convbench/internal/usecases/binding"
	"github.com/vfg2006/convbench/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Metrics(metrics *middleware.Metrics) []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: metrics.Handler(),
		},
	}
}

func Page(binder binding.Binder, opts PageOptions) []router.Route {
	return []router.Route{
		{
			Path:    "/",
			Method:  http.MethodGet,
			Handler: ShowPage(binder, opts),
		},
		{
			Path:    "/",
			Method:  http.MethodPost,
			Handler: SubmitPage(binder, opts),
		},
	}
}

func Funnel(binder binding.Binder, metrics *middleware.Metrics, limiter *middleware.RateLimiter) []router.Route {
	limited := []func(http.Handler) http.Handler{middleware.RateLimit(limiter)}

	return []router.Route{
		{
			Path:        "/v1/funnel/evaluate",
			Method:      http.MethodPost,
			Handler:     EvaluateFunnel(binder, metrics),
			Middlewares: limited,
		},
		{
			Path:        "/v1/sectors",
			Method:      http.MethodGet,
			Handler:     ListSectors(binder),
			Middlewares: limited,
		},
		{
			Path:        "/v1/sectors/:key",
			Method:      http.MethodGet,
			Handler:     GetSector(binder),
			Middlewares: limited,
		},
	}
}
