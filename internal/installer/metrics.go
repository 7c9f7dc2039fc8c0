package installer

import (
	"sync"

	"go.opentelemetry.io/otel/metric"

	"github.com/EYH0602/skillshub/internal/telemetry"
)

const otelScope = "github.com/EYH0602/skillshub/installer"

// installMetrics holds lazily-initialized OTel instruments for store
// operations. No-ops when telemetry is disabled.
var installMetrics struct {
	installs      metric.Int64Counter
	fetchDuration metric.Float64Histogram
}

var installMetricsOnce sync.Once

func initInstallMetrics() {
	m := telemetry.Meter(otelScope)
	installMetrics.installs, _ = m.Int64Counter("skillshub.installs",
		metric.WithDescription("Bundles installed into the content store"),
		metric.WithUnit("{bundle}"),
	)
	installMetrics.fetchDuration, _ = m.Float64Histogram("skillshub.fetch.duration",
		metric.WithDescription("Archive fetch and extract duration in milliseconds"),
		metric.WithUnit("ms"),
	)
}
