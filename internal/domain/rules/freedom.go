package rules

import (
	"math"

	"github.com/kidcapital/server/internal/domain/player"
)

const (
	MinAssetsToWin   = 3
	MinSavingsToWin  = 50
	QuizAccuracyGoal = 0.5
)

// Weights of each dimension in the freedom percentage, in points.
const (
	weightIncome    = 40
	weightAssets    = 25
	weightSavings   = 20
	weightKnowledge = 15
)

// CheckFreedom reports whether a player has reached financial freedom.
// A player who never took a quiz meets the knowledge requirement.
func CheckFreedom(p player.Player) bool {
	if p.Debt != 0 {
		return false
	}
	if len(p.Assets) < MinAssetsToWin {
		return false
	}
	if p.Savings < MinSavingsToWin {
		return false
	}
	if p.QuizTotal > 0 && float64(p.QuizCorrect)/float64(p.QuizTotal) < QuizAccuracyGoal {
		return false
	}
	return p.PassiveIncome() >= p.TotalExpenses()
}

// FreedomBreakdown holds each progress ratio, clamped to [0, 1].
type FreedomBreakdown struct {
	Income    float64 `json:"income"`
	Assets    float64 `json:"assets"`
	Savings   float64 `json:"savings"`
	Knowledge float64 `json:"knowledge"`
	Percent   int     `json:"percent"`
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// Freedom computes the weighted progress toward the win condition.
func Freedom(p player.Player) FreedomBreakdown {
	var b FreedomBreakdown
	if expenses := p.TotalExpenses(); expenses > 0 {
		b.Income = clamp01(float64(p.PassiveIncome()) / float64(expenses))
	}
	b.Assets = clamp01(float64(len(p.Assets)) / MinAssetsToWin)
	b.Savings = clamp01(float64(p.Savings) / MinSavingsToWin)

	debtScore := 0.0
	if p.Debt == 0 {
		debtScore = 1
	}
	quizScore := 0.0
	if p.QuizTotal > 0 {
		quizScore = clamp01(float64(p.QuizCorrect) / float64(p.QuizTotal) / QuizAccuracyGoal)
	}
	b.Knowledge = (debtScore + quizScore) / 2

	points := b.Income*weightIncome + b.Assets*weightAssets +
		b.Savings*weightSavings + b.Knowledge*weightKnowledge
	b.Percent = int(math.Round(points))
	return b
}

// FreedomPercent is the 0..100 progress score.
func FreedomPercent(p player.Player) int {
	return Freedom(p).Percent
}
