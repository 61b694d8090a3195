// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PlansCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_plans_created_total",
			Help: "Total number of execution plans created, by intent action",
		},
		[]string{"action"},
	)

	PlansCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_plans_completed_total",
			Help: "Total number of plans reaching a terminal status",
		},
		[]string{"status"},
	)

	StepsExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_steps_executed_total",
			Help: "Total number of plan steps executed, by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	StepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "copilot_step_duration_seconds",
			Help: "Duration of step execution in seconds",
		},
		[]string{"action"},
	)

	PlansActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "copilot_plans_active",
			Help: "Number of plans currently executing",
		},
	)

	IntentsParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copilot_intents_parsed_total",
			Help: "Total number of parsed intents, by action and clarification outcome",
		},
		[]string{"action", "clarification"},
	)
)
