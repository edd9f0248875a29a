package metrics

import "github.com/prometheus/client_golang/prometheus"

// CheckoutMetrics counts Webpay commit outcomes.
type CheckoutMetrics struct {
	commits *prometheus.CounterVec
}

// NewCheckoutMetrics registers the commit counters on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	commits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webpay_commits_total",
		Help: "Webpay commit attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(commits)
	return &CheckoutMetrics{commits: commits}
}

// IncCommit increments the commit counter for the given outcome.
func (c *CheckoutMetrics) IncCommit(outcome string) {
	if c == nil || c.commits == nil {
		return
	}
	c.commits.WithLabelValues(normalizeLabel(outcome)).Inc()
}
