package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts what teams do. Each Metrics has its own registry so tests
// can build as many servers as they like.
type Metrics struct {
	registrations prometheus.Counter
	answers       *prometheus.CounterVec
	actions       *prometheus.CounterVec
	cooldowns     *prometheus.CounterVec
	subscribers   prometheus.GaugeFunc

	handler http.Handler
}

func NewMetrics(broker *Broker) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registrations: f.NewCounter(prometheus.CounterOpts{
			Name: "treasurehunt_registrations_total",
			Help: "Teams registered.",
		}),
		answers: f.NewCounterVec(prometheus.CounterOpts{
			Name: "treasurehunt_answers_total",
			Help: "Answers submitted by result.",
		}, []string{"result"}),
		actions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "treasurehunt_clue_actions_total",
			Help: "Hint, reveal and skip requests that were accepted.",
		}, []string{"action"}),
		cooldowns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "treasurehunt_cooldown_rejections_total",
			Help: "Hint, reveal and skip requests rejected as too early.",
		}, []string{"action"}),
		subscribers: f.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "treasurehunt_leaderboard_subscribers",
			Help: "Open leaderboard event streams.",
		}, func() float64 {
			return float64(broker.Subscribers(topicLeaderboard))
		}),
		handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}
}

func (m *Metrics) Handler() http.Handler { return m.handler }
