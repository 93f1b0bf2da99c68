package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RecordsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_records_processed_total",
			Help: "Total records applied successfully",
		},
		[]string{"kind"}, // deposit|withdrawal|dispute|resolve|chargeback
	)
	RecordFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_record_failures_total",
			Help: "Total records rejected, by reason",
		},
		[]string{"reason"},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
	AccountsKnown = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_accounts_known",
			Help: "Number of client accounts created so far",
		},
	)
)

// handler for the /metrics endpoint
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RecordsProcessed)
	prometheus.MustRegister(RecordFailures)
	prometheus.MustRegister(WorkerQueueDepth)
	prometheus.MustRegister(AccountsKnown)
}
