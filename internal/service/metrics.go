package service

import "github.com/prometheus/client_golang/prometheus"

var (
	matchesMade = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rps_matches_made_total",
			Help: "Games created by pairing two waiting players",
		},
	)
	gamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rps_games_finished_total",
			Help: "Games reaching a terminal state",
		},
		[]string{"status"},
	)
	practiceGames = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rps_practice_games_total",
			Help: "Single-round games against the computer opponent",
		},
	)
)

func init() {
	prometheus.MustRegister(matchesMade, gamesFinished, practiceGames)
}
