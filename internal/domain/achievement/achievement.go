// Package achievement tracks long-running player progress across games:
// lifetime stats, unlockable achievements, XP levels and the daily login reward.
// This package is PURE and must NOT import any infrastructure packages.
package achievement

// Category groups achievements for display.
type Category string

const (
	CategoryInvestor   Category = "investor"
	CategorySaver      Category = "saver"
	CategoryScholar    Category = "scholar"
	CategoryDiscipline Category = "discipline"
	CategoryMastery    Category = "mastery"
)

// Stats are lifetime counters. FastestWin is 0 until the first win.
type Stats struct {
	TotalGamesPlayed         int `json:"totalGamesPlayed"`
	TotalGamesWon            int `json:"totalGamesWon"`
	TotalAssetsEverBought    int `json:"totalAssetsEverBought"`
	MaxAssetsInOneGame       int `json:"maxAssetsInOneGame"`
	TotalTemptationsSkipped  int `json:"totalTemptationsSkipped"`
	TemptationsSkippedStreak int `json:"temptationsSkippedStreak"`
	TotalQuizCorrect         int `json:"totalQuizCorrect"`
	TotalQuizTotal           int `json:"totalQuizTotal"`
	QuizCorrectStreak        int `json:"quizCorrectStreak"`
	TotalSavingsEverReached  int `json:"totalSavingsEverReached"`
	TotalDebtPaidOff         int `json:"totalDebtPaidOff"`
	FastestWin               int `json:"fastestWin"`
}

// Achievement is an unlockable milestone.
type Achievement struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Icon        string           `json:"icon"`
	XP          int              `json:"xp"`
	Category    Category         `json:"category"`
	Check       func(Stats) bool `json:"-"`
}

// All lists every achievement in display order.
var All = []Achievement{
	{ID: "first_business", Title: "First Business!", Description: "Buy your very first asset", Icon: "🏪", XP: 20, Category: CategoryInvestor,
		Check: func(s Stats) bool { return s.TotalAssetsEverBought >= 1 }},
	{ID: "diversified", Title: "Diversified!", Description: "Own 3 businesses in one game", Icon: "📊", XP: 50, Category: CategoryInvestor,
		Check: func(s Stats) bool { return s.MaxAssetsInOneGame >= 3 }},
	{ID: "empire_builder", Title: "Empire Builder", Description: "Buy 10 businesses total across all games", Icon: "🏗️", XP: 100, Category: CategoryInvestor,
		Check: func(s Stats) bool { return s.TotalAssetsEverBought >= 10 }},

	{ID: "piggy_bank", Title: "Piggy Bank", Description: "Save $50 in one game", Icon: "🐷", XP: 25, Category: CategorySaver,
		Check: func(s Stats) bool { return s.TotalSavingsEverReached >= 50 }},
	{ID: "emergency_fund", Title: "Emergency Fund", Description: "Save $100 in one game", Icon: "🏦", XP: 50, Category: CategorySaver,
		Check: func(s Stats) bool { return s.TotalSavingsEverReached >= 100 }},
	{ID: "debt_destroyer", Title: "Debt Destroyer", Description: "Pay off all your debt", Icon: "💪", XP: 40, Category: CategorySaver,
		Check: func(s Stats) bool { return s.TotalDebtPaidOff >= 1 }},

	{ID: "quiz_starter", Title: "Quiz Starter", Description: "Answer your first quiz correctly", Icon: "🧠", XP: 15, Category: CategoryScholar,
		Check: func(s Stats) bool { return s.TotalQuizCorrect >= 1 }},
	{ID: "quiz_whiz", Title: "Quiz Whiz!", Description: "Answer 5 quizzes correctly in a row", Icon: "🎓", XP: 75, Category: CategoryScholar,
		Check: func(s Stats) bool { return s.QuizCorrectStreak >= 5 }},
	{ID: "financial_expert", Title: "Financial Expert", Description: "Answer 20 quizzes correctly total", Icon: "📚", XP: 100, Category: CategoryScholar,
		Check: func(s Stats) bool { return s.TotalQuizCorrect >= 20 }},

	{ID: "no_impulse", Title: "No Impulse!", Description: "Skip 3 temptations in a row", Icon: "🛑", XP: 40, Category: CategoryDiscipline,
		Check: func(s Stats) bool { return s.TemptationsSkippedStreak >= 3 }},
	{ID: "self_control_master", Title: "Self-Control Master", Description: "Skip 10 temptations total", Icon: "🧘", XP: 75, Category: CategoryDiscipline,
		Check: func(s Stats) bool { return s.TotalTemptationsSkipped >= 10 }},

	{ID: "first_win", Title: "Financial Freedom!", Description: "Win your first game", Icon: "🏆", XP: 100, Category: CategoryMastery,
		Check: func(s Stats) bool { return s.TotalGamesWon >= 1 }},
	{ID: "speed_runner", Title: "Speed Runner", Description: "Win in 12 months or less", Icon: "⚡", XP: 150, Category: CategoryMastery,
		Check: func(s Stats) bool { return s.FastestWin > 0 && s.FastestWin <= 12 }},
	{ID: "veteran", Title: "Veteran Player", Description: "Play 5 games", Icon: "🎮", XP: 50, Category: CategoryMastery,
		Check: func(s Stats) bool { return s.TotalGamesPlayed >= 5 }},
	{ID: "triple_crown", Title: "Triple Crown", Description: "Win 3 games", Icon: "👑", XP: 200, Category: CategoryMastery,
		Check: func(s Stats) bool { return s.TotalGamesWon >= 3 }},
}

// ByID looks up an achievement definition.
func ByID(id string) (Achievement, bool) {
	for _, a := range All {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}
