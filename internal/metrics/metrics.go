package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studiobook_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studiobook_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PlanPurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studiobook_plan_purchases_total",
			Help: "Total number of committed plan purchases",
		},
		[]string{"modality"},
	)

	MembershipPurchasesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "studiobook_membership_purchases_total",
			Help: "Total number of committed membership purchases",
		},
	)

	DuplicatePaymentDeliveriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "studiobook_duplicate_payment_deliveries_total",
			Help: "Payment events ignored because the provider reference was already recorded",
		},
	)

	AutoBookingsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "studiobook_auto_bookings_total",
			Help: "Total number of bookings created by fixed-plan auto-booking",
		},
	)

	CheckinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studiobook_checkins_total",
			Help: "Total number of attendance transitions",
		},
		[]string{"direction", "source"},
	)

	QRTokensIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studiobook_qr_tokens_issued_total",
			Help: "Total number of QR tokens issued",
		},
		[]string{"kind"},
	)

	QRTokenResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studiobook_qr_token_resolutions_total",
			Help: "Total number of QR token resolution attempts",
		},
		[]string{"kind", "outcome"},
	)

	WaitlistResequencesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "studiobook_waitlist_resequences_total",
			Help: "Total number of waitlist resequence passes",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studiobook_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordPlanPurchase(modality string) {
	PlanPurchasesTotal.WithLabelValues(modality).Inc()
}

func RecordMembershipPurchase() {
	MembershipPurchasesTotal.Inc()
}

func RecordDuplicatePaymentDelivery() {
	DuplicatePaymentDeliveriesTotal.Inc()
}

func RecordAutoBookings(count int) {
	AutoBookingsTotal.Add(float64(count))
}

func RecordCheckin(direction, source string) {
	CheckinsTotal.WithLabelValues(direction, source).Inc()
}

func RecordTokenIssued(kind string) {
	QRTokensIssuedTotal.WithLabelValues(kind).Inc()
}

func RecordTokenResolution(kind, outcome string) {
	QRTokenResolutionsTotal.WithLabelValues(kind, outcome).Inc()
}

func RecordWaitlistResequence() {
	WaitlistResequencesTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
