// Package metrics expõe os coletores Prometheus das execuções do nmap.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeCompleted    = "completed"
	OutcomeLaunchFailed = "launch_failed"
	OutcomeInterrupted  = "interrupted"
)

var (
	// Registry é separado do default para não misturar com coletores de terceiros.
	Registry = prometheus.NewRegistry()

	ScansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "retroscan",
		Name:      "scans_total",
		Help:      "Execuções do scanner por resultado.",
	}, []string{"outcome"})

	ScanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "retroscan",
		Name:      "scan_duration_seconds",
		Help:      "Duração das execuções do scanner.",
		Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
	})

	ExitCodes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "retroscan",
		Name:      "scan_exit_code_total",
		Help:      "Códigos de saída devolvidos pelo scanner.",
	}, []string{"code"})
)

func init() {
	Registry.MustRegister(ScansTotal, ScanDuration, ExitCodes)
}

// ObserveScan registra uma execução. Código de saída negativo (processo morto ou não iniciado) não é contado.
func ObserveScan(outcome string, exitCode int, elapsed time.Duration) {
	ScansTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeLaunchFailed {
		return
	}
	ScanDuration.Observe(elapsed.Seconds())
	if exitCode >= 0 {
		ExitCodes.WithLabelValues(strconv.Itoa(exitCode)).Inc()
	}
}
