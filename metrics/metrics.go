package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TutorQuestions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studydao",
		Name:      "tutor_questions_total",
		Help:      "Chat tutor requests by outcome.",
	}, []string{"outcome"})

	VoiceSyntheses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studydao",
		Name:      "voice_syntheses_total",
		Help:      "Text-to-speech requests by outcome.",
	}, []string{"outcome"})

	Mints = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studydao",
		Name:      "mints_total",
		Help:      "Mint stub invocations by outcome.",
	}, []string{"outcome"})

	BadgesEarned = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studydao",
		Name:      "badges_earned_total",
		Help:      "Badges newly recorded for a learner.",
	}, []string{"badge"})

	DAOEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studydao",
		Name:      "dao_events_total",
		Help:      "DAO mutations by type.",
	}, []string{"type"})

	TreasuryContributed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "studydao",
		Name:      "treasury_contributed_sol_total",
		Help:      "Simulated SOL contributed to DAO treasuries.",
	})
)

// Outcome labels a request as "ok" or "error".
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
