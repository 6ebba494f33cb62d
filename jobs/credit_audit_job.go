package jobs

import (
	"context"
	"math"
	"time"

	"github.com/anjiri1684/studydao/database"
	"github.com/anjiri1684/studydao/models"
	"github.com/anjiri1684/studydao/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// CreditAuditSchedule runs the treasury credit audit every 15 minutes.
const CreditAuditSchedule = "*/15 * * * *"

// AuditTreasuryCredits returns the DAOs whose stored AI credits exceed
// floor(100 * treasury). Credits are spent over time so fewer is expected;
// more means the two counters drifted apart.
func AuditTreasuryCredits(ctx context.Context, store database.DAOStore) ([]models.DAO, error) {
	daos, err := store.ListDAOs(ctx)
	if err != nil {
		return nil, err
	}

	var drifted []models.DAO
	for _, dao := range daos {
		if dao.AICredits > backedCredits(dao.TreasuryBalance) {
			drifted = append(drifted, dao)
		}
	}
	return drifted, nil
}

// backedCredits applies the contribution credit rule to a whole treasury.
func backedCredits(treasury float64) int64 {
	if treasury <= 0 || math.IsNaN(treasury) {
		return 0
	}
	credits, err := services.CreditsForAmount(treasury)
	if err != nil {
		return math.MaxInt64
	}
	return credits
}

func runCreditAudit(store database.DAOStore) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	drifted, err := AuditTreasuryCredits(ctx, store)
	if err != nil {
		log.Error().Err(err).Msg("🔥 treasury credit audit failed")
		return
	}
	for _, dao := range drifted {
		log.Warn().
			Str("dao_id", dao.ID).
			Int64("ai_credits", dao.AICredits).
			Float64("treasury_balance", dao.TreasuryBalance).
			Msg("⚠️ dao has more AI credits than its treasury backs")
	}
	log.Debug().Int("drifted", len(drifted)).Msg("treasury credit audit finished")
}

// Schedule registers every background job on c.
func Schedule(c *cron.Cron, store database.DAOStore) error {
	_, err := c.AddFunc(CreditAuditSchedule, func() { runCreditAudit(store) })
	return err
}
