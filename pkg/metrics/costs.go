package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CostMetrics records cost calculation outcomes.
type CostMetrics struct {
	duration         *prometheus.HistogramVec
	calculations     *prometheus.CounterVec
	discountOverflow prometheus.Counter
	voucherRejects   *prometheus.CounterVec
}

// NewCostMetrics registers the cost calculation metrics on the provided registerer.
func NewCostMetrics(reg prometheus.Registerer) *CostMetrics {
	if reg == nil {
		return &CostMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cost_calculation_duration_seconds",
		Help:    "Duration of cost calculations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	calculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cost_calculations_total",
		Help: "Cost calculations by result.",
	}, []string{"result"})
	discountOverflow := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cost_discount_overflow_total",
		Help: "Calculations where the composed discount was clamped to the subtotal.",
	})
	voucherRejects := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "voucher_rejections_total",
		Help: "Voucher validations rejected by reason.",
	}, []string{"reason"})
	reg.MustRegister(duration, calculations, discountOverflow, voucherRejects)
	return &CostMetrics{
		duration:         duration,
		calculations:     calculations,
		discountOverflow: discountOverflow,
		voucherRejects:   voucherRejects,
	}
}

// ObserveDuration records the duration for the given order method.
func (c *CostMetrics) ObserveDuration(method string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(method)).Observe(duration.Seconds())
}

// IncCalculation increments the calculation counter for the given result.
func (c *CostMetrics) IncCalculation(result string) {
	if c == nil || c.calculations == nil {
		return
	}
	c.calculations.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncDiscountOverflow counts a clamped discount.
func (c *CostMetrics) IncDiscountOverflow() {
	if c == nil || c.discountOverflow == nil {
		return
	}
	c.discountOverflow.Inc()
}

// IncVoucherRejection counts a rejected voucher validation.
func (c *CostMetrics) IncVoucherRejection(reason string) {
	if c == nil || c.voucherRejects == nil {
		return
	}
	c.voucherRejects.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
