package services

import "github.com/anjiri1684/studydao/models"

const (
	BadgeFirstQuestion       = "first-question"
	BadgeActiveLearner       = "active-learner"
	BadgeKnowledgeSeeker     = "knowledge-seeker"
	BadgeDAOFounder          = "dao-founder"
	BadgeGenerousContributor = "generous-contributor"
	BadgeDAOPatron           = "dao-patron"
	BadgeMasterScholar       = "master-scholar"
	BadgeAIExpert            = "ai-expert"
	BadgeCommunityChampion   = "community-champion"
)

var badgeCatalog = []models.Badge{
	{
		ID:          BadgeFirstQuestion,
		Name:        "Curious Beginner",
		Description: "Asked your first AI question",
		Icon:        "🌱",
		Rarity:      models.RarityCommon,
		Requirement: "Ask 1 question",
		Color:       "from-green-400 to-emerald-600",
	},
	{
		ID:          BadgeActiveLearner,
		Name:        "Active Learner",
		Description: "Asked 10 AI questions",
		Icon:        "📚",
		Rarity:      models.RarityCommon,
		Requirement: "Ask 10 questions",
		Color:       "from-blue-400 to-cyan-600",
	},
	{
		ID:          BadgeKnowledgeSeeker,
		Name:        "Knowledge Seeker",
		Description: "Asked 50 AI questions",
		Icon:        "🔍",
		Rarity:      models.RarityRare,
		Requirement: "Ask 50 questions",
		Color:       "from-purple-400 to-pink-600",
	},
	{
		ID:          BadgeDAOFounder,
		Name:        "DAO Founder",
		Description: "Created a Study DAO",
		Icon:        "👑",
		Rarity:      models.RarityRare,
		Requirement: "Create a DAO",
		Color:       "from-yellow-400 to-orange-600",
	},
	{
		ID:          BadgeGenerousContributor,
		Name:        "Generous Contributor",
		Description: "Contributed to DAO treasury",
		Icon:        "💎",
		Rarity:      models.RarityRare,
		Requirement: "Contribute SOL",
		Color:       "from-pink-400 to-rose-600",
	},
	{
		ID:          BadgeDAOPatron,
		Name:        "DAO Patron",
		Description: "Contributed 1+ SOL to treasury",
		Icon:        "🏦",
		Rarity:      models.RarityEpic,
		Requirement: "Contribute 1 SOL",
		Color:       "from-indigo-400 to-purple-600",
	},
	{
		ID:          BadgeMasterScholar,
		Name:        "Master Scholar",
		Description: "Asked 100 AI questions",
		Icon:        "🎓",
		Rarity:      models.RarityEpic,
		Requirement: "Ask 100 questions",
		Color:       "from-violet-400 to-purple-600",
	},
	{
		ID:          BadgeAIExpert,
		Name:        "AI Expert",
		Description: "Asked 250 AI questions",
		Icon:        "🧠",
		Rarity:      models.RarityLegendary,
		Requirement: "Ask 250 questions",
		Color:       "from-amber-400 via-orange-500 to-red-600",
	},
	{
		ID:          BadgeCommunityChampion,
		Name:        "Community Champion",
		Description: "Member of 5+ DAOs",
		Icon:        "⭐",
		Rarity:      models.RarityLegendary,
		Requirement: "Join 5 DAOs",
		Color:       "from-yellow-300 via-yellow-500 to-yellow-700",
	},
}

// BadgeCatalog returns a copy of the static badge table in display order.
func BadgeCatalog() []models.Badge {
	out := make([]models.Badge, len(badgeCatalog))
	copy(out, badgeCatalog)
	return out
}

func FindBadge(id string) (models.Badge, bool) {
	for _, b := range badgeCatalog {
		if b.ID == id {
			return b, true
		}
	}
	return models.Badge{}, false
}

// BadgeEligible reports whether stats meet the threshold for badgeID.
// Unknown ids are never eligible.
func BadgeEligible(badgeID string, stats models.LearnerStats) bool {
	switch badgeID {
	case BadgeFirstQuestion:
		return stats.QuestionsAsked >= 1
	case BadgeActiveLearner:
		return stats.QuestionsAsked >= 10
	case BadgeKnowledgeSeeker:
		return stats.QuestionsAsked >= 50
	case BadgeMasterScholar:
		return stats.QuestionsAsked >= 100
	case BadgeAIExpert:
		return stats.QuestionsAsked >= 250
	case BadgeDAOFounder:
		return stats.DAOsCreated >= 1
	case BadgeGenerousContributor:
		return stats.TotalContributed > 0
	case BadgeDAOPatron:
		return stats.TotalContributed >= 1
	case BadgeCommunityChampion:
		return stats.DAOsJoined >= 5
	default:
		return false
	}
}

func BadgeProgress(stats models.LearnerStats) []models.BadgeProgress {
	out := make([]models.BadgeProgress, 0, len(badgeCatalog))
	for _, b := range badgeCatalog {
		out = append(out, models.BadgeProgress{
			Badge:    b,
			Eligible: BadgeEligible(b.ID, stats),
			Earned:   stats.HasBadge(b.ID),
		})
	}
	return out
}
