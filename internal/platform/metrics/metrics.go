// Package metrics exposes Prometheus instrumentation for planning and apply runs.
package metrics

import (
	"dock-rebalance-service/internal/domain"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector records rebalance metrics. A nil *Collector is valid and records nothing.
type Collector struct {
	plansTotal         *prometheus.CounterVec
	planDuration       prometheus.Histogram
	stdDevBefore       prometheus.Gauge
	stdDevAfter        prometheus.Gauge
	improvementPercent prometheus.Gauge
	movesProposed      prometheus.Histogram
	applyEntries       *prometheus.CounterVec
	applyRuns          *prometheus.CounterVec
	auditAppends       *prometheus.CounterVec
}

// New creates and registers the collector.
// A nil registerer uses prometheus.DefaultRegisterer; an empty namespace defaults to "portops".
func New(reg prometheus.Registerer, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "portops"
	}

	c := &Collector{
		plansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rebalance",
			Name:      "plans_total",
			Help:      "Rebalance plans computed, by result (empty, balanced, improved).",
		}, []string{"result"}),
		planDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rebalance",
			Name:      "plan_duration_seconds",
			Help:      "Time spent computing a rebalance plan, including store reads.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		stdDevBefore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "rebalance",
			Name:      "std_dev_before",
			Help:      "Dock load standard deviation before the last computed plan.",
		}),
		stdDevAfter: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "rebalance",
			Name:      "std_dev_after",
			Help:      "Dock load standard deviation after the last computed plan.",
		}),
		improvementPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "rebalance",
			Name:      "improvement_percent",
			Help:      "Improvement percent of the last computed plan.",
		}),
		movesProposed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rebalance",
			Name:      "moves_proposed",
			Help:      "Number of dock moves proposed per plan.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		applyEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rebalance",
			Name:      "apply_entries_total",
			Help:      "Moved entries processed by apply runs, by result (success, failure).",
		}, []string{"result"}),
		applyRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rebalance",
			Name:      "apply_runs_total",
			Help:      "Apply runs, by outcome (nothing, applied, partial, failed).",
		}, []string{"outcome"}),
		auditAppends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "appends_total",
			Help:      "Reassignment log appends, by result (success, failure).",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.plansTotal,
		c.planDuration,
		c.stdDevBefore,
		c.stdDevAfter,
		c.improvementPercent,
		c.movesProposed,
		c.applyEntries,
		c.applyRuns,
		c.auditAppends,
	)

	return c
}

// RecordPlan records a computed plan and how long it took.
func (c *Collector) RecordPlan(plan domain.RebalancePlan, took time.Duration) {
	if c == nil {
		return
	}

	result := "balanced"
	switch {
	case len(plan.Candidates) == 0:
		result = "empty"
	case len(plan.Assignments) > 0:
		result = "improved"
	}

	c.plansTotal.WithLabelValues(result).Inc()
	c.planDuration.Observe(took.Seconds())
	c.stdDevBefore.Set(plan.Stats.StdDevBefore)
	c.stdDevAfter.Set(plan.Stats.StdDevAfter)
	c.improvementPercent.Set(plan.Stats.ImprovementPercent)
	c.movesProposed.Observe(float64(len(plan.Assignments)))
}

// RecordApply records the outcome of an apply run.
func (c *Collector) RecordApply(outcome domain.ApplyOutcome) {
	if c == nil {
		return
	}

	c.applyEntries.WithLabelValues("success").Add(float64(outcome.SuccessCount))
	c.applyEntries.WithLabelValues("failure").Add(float64(outcome.FailCount))
	c.applyRuns.WithLabelValues(string(outcome.Result())).Inc()
}

// RecordAuditAppend records a single audit log append.
func (c *Collector) RecordAuditAppend(err error) {
	if c == nil {
		return
	}

	if err != nil {
		c.auditAppends.WithLabelValues("failure").Inc()
		return
	}
	c.auditAppends.WithLabelValues("success").Inc()
}
