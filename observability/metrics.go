package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// TokenMetrics records claim and ledger activity for a program instance.
type TokenMetrics struct {
	claims     *prometheus.CounterVec
	rejections *prometheus.CounterVec
	ledgerOps  *prometheus.CounterVec
	minted     prometheus.Counter
	burned     prometheus.Counter
}

var (
	tokenMetricsOnce sync.Once
	tokenRegistry    *TokenMetrics
)

// Token returns the lazily-initialised metrics registry used by the token
// engines.
func Token() *TokenMetrics {
	tokenMetricsOnce.Do(func() {
		tokenRegistry = &TokenMetrics{
			claims: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "mercle",
				Subsystem: "token",
				Name:      "claims_total",
				Help:      "Total claim attempts segmented by outcome.",
			}, []string{"outcome"}),
			rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "mercle",
				Subsystem: "token",
				Name:      "claim_rejections_total",
				Help:      "Rejected claims segmented by the failing precondition.",
			}, []string{"reason"}),
			ledgerOps: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "mercle",
				Subsystem: "token",
				Name:      "ledger_operations_total",
				Help:      "Token-ledger side effects segmented by operation.",
			}, []string{"op"}),
			minted: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "mercle",
				Subsystem: "token",
				Name:      "minted_units_total",
				Help:      "Total token units minted across claims and admin mints.",
			}),
			burned: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "mercle",
				Subsystem: "token",
				Name:      "burned_units_total",
				Help:      "Total token units burned.",
			}),
		}
		prometheus.MustRegister(
			tokenRegistry.claims,
			tokenRegistry.rejections,
			tokenRegistry.ledgerOps,
			tokenRegistry.minted,
			tokenRegistry.burned,
		)
	})
	return tokenRegistry
}

// ClaimAccepted records a successful claim.
func (m *TokenMetrics) ClaimAccepted() {
	if m == nil {
		return
	}
	m.claims.WithLabelValues("accepted").Inc()
}

// ClaimRejected records a rejected claim with the failing precondition.
func (m *TokenMetrics) ClaimRejected(reason string) {
	if m == nil {
		return
	}
	m.claims.WithLabelValues("rejected").Inc()
	m.rejections.WithLabelValues(reason).Inc()
}

// LedgerOp records a token-ledger side effect (mint, burn, transfer, freeze,
// thaw).
func (m *TokenMetrics) LedgerOp(op string) {
	if m == nil {
		return
	}
	m.ledgerOps.WithLabelValues(op).Inc()
}

// Minted adds to the minted-units counter.
func (m *TokenMetrics) Minted(amount uint64) {
	if m == nil {
		return
	}
	m.minted.Add(float64(amount))
}

// Burned adds to the burned-units counter.
func (m *TokenMetrics) Burned(amount uint64) {
	if m == nil {
		return
	}
	m.burned.Add(float64(amount))
}
