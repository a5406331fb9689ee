package report

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatjournal_reports_generated_total",
		Help: "Completed report assemblies.",
	})
	mediaFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatjournal_report_media_failures_total",
		Help: "Media reads skipped during report assembly.",
	})
)
