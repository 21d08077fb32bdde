package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "garage_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "garage_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReceptionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "garage_receptions_created_total",
		Help: "Vehicle receptions recorded",
	})

	RepairTicketsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "garage_repair_tickets_created_total",
		Help: "Repair tickets recorded",
	})

	ReceiptsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "garage_receipts_created_total",
		Help: "Payment receipts recorded",
	})

	SuppliesImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "garage_supplies_imported_total",
		Help: "Supply units added to inventory by import tickets",
	})

	OperationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "garage_operations_rejected_total",
			Help: "Operations refused by a business rule, by operation and reason",
		},
		[]string{"operation", "reason"},
	)

	ReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "garage_reports_generated_total",
			Help: "Monthly reports aggregated and persisted, by kind",
		},
		[]string{"kind"},
	)
)
