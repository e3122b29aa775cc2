package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "convbench"

// Metrics agrupa os coletores Prometheus do servidor em um registry próprio
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	evaluations     *prometheus.CounterVec
	stateFailures   prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requisições HTTP por rota, método e status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duração das requisições HTTP por rota.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "funnel_evaluations_total",
			Help:      "Cálculos do funil por origem e resultado da validação.",
		}, []string{"source", "valid"}),
		stateFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_save_failures_total",
			Help:      "Falhas ao salvar o estado do formulário.",
		}),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.evaluations,
		m.stateFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Instrument mede as requisições de uma rota; route é o padrão registrado,
// não o caminho real, para manter a cardinalidade baixa
func (m *Metrics) Instrument(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sr := newStatusRecorder(w)
			start := time.Now()

			next.ServeHTTP(sr, r)

			m.requestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
			m.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(sr.statusCode)).Inc()
		})
	}
}

// ObserveEvaluation conta um cálculo do funil
func (m *Metrics) ObserveEvaluation(source string, valid bool) {
	m.evaluations.WithLabelValues(source, strconv.FormatBool(valid)).Inc()
}

// ObserveStateFailure conta uma falha ao salvar o estado
func (m *Metrics) ObserveStateFailure() {
	m.stateFailures.Inc()
}

// Handler expõe o registry no formato de exposição do Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry devolve o registry para testes e coletores extras
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
