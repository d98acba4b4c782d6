package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики агента.
var (
	// DeploysTotal — количество завершённых deploys по статусу.
	DeploysTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conveyor",
		Name:      "deploys_total",
		Help:      "Completed deploys by final status.",
	}, []string{"status"})

	// StepsTotal — количество выполненных шагов по имени и исходу.
	StepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conveyor",
		Name:      "steps_total",
		Help:      "Executed pipeline steps by name and outcome.",
	}, []string{"step", "outcome"})

	// StepDuration — длительность шагов.
	StepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "conveyor",
		Name:      "step_duration_seconds",
		Help:      "Pipeline step duration in seconds.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"step"})

	// DeployDuration — длительность полного deploy.
	DeployDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "conveyor",
		Name:      "deploy_duration_seconds",
		Help:      "Full deploy pipeline duration in seconds.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	// ActiveDeploys — количество выполняющихся deploys.
	ActiveDeploys = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "conveyor",
		Name:      "active_deploys",
		Help:      "Deploys currently being executed.",
	})
)

// ObserveDeploy записывает метрики завершённого deploy.
func ObserveDeploy(status string, duration time.Duration) {
	DeploysTotal.WithLabelValues(status).Inc()
	DeployDuration.Observe(duration.Seconds())
}

// ObserveStep записывает метрики одного шага.
func ObserveStep(step, outcome string, duration time.Duration) {
	StepsTotal.WithLabelValues(step, outcome).Inc()
	StepDuration.WithLabelValues(step).Observe(duration.Seconds())
}
