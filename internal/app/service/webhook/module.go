package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/pawcare/backend/pkg/metrics"
)

func newReconcileMetrics() *metrics.Reconcile {
	return metrics.NewReconcile(prometheus.DefaultRegisterer)
}

// Module exposes the webhook service via Fx.
var Module = fx.Options(
	fx.Provide(NewStore),
	fx.Provide(newReconcileMetrics),
	fx.Provide(NewService),
	fx.Provide(func(s *Service) Processor { return s }),
)
