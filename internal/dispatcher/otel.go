package dispatcher

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/shivam675/sky-guardian-planner/internal/dispatcher"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
