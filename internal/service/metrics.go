package service

import "github.com/prometheus/client_golang/prometheus"

var (
	callsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "calls_started_total",
		Help: "Total call sessions started",
	})
	callsEnded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "calls_ended_total",
		Help: "Total call sessions ended, by reason",
	}, []string{"reason"})
	coinsDebitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "call_coins_debited_total",
		Help: "Total coins debited by call billing",
	})
	freeMinutesConsumed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "call_free_minutes_consumed_total",
		Help: "Total free minutes consumed by call billing",
	})
	streakClaims = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streak_claims_total",
		Help: "Total daily streak claims",
	})
	adsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ads_completed_total",
		Help: "Total rewarded ads completed",
	})
)

func init() {
	prometheus.MustRegister(callsStarted, callsEnded, coinsDebitedTotal,
		freeMinutesConsumed, streakClaims, adsCompleted)
}
