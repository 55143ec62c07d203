package achievement

import "math"

// Level is an XP rank.
type Level struct {
	Level      int    `json:"level"`
	Title      string `json:"title"`
	Icon       string `json:"icon"`
	XPRequired int    `json:"xpRequired"`
}

// Levels are ordered by XPRequired.
var Levels = []Level{
	{Level: 1, Title: "Piggy Banker", Icon: "💰", XPRequired: 0},
	{Level: 2, Title: "Smart Saver", Icon: "📊", XPRequired: 100},
	{Level: 3, Title: "Business Kid", Icon: "🏪", XPRequired: 300},
	{Level: 4, Title: "Young Investor", Icon: "📈", XPRequired: 600},
	{Level: 5, Title: "Money Shark", Icon: "🦈", XPRequired: 1000},
	{Level: 6, Title: "Freedom Master", Icon: "👑", XPRequired: 2000},
}

// LevelForXP returns the highest level reached.
func LevelForXP(xp int) Level {
	result := Levels[0]
	for _, l := range Levels {
		if xp >= l.XPRequired {
			result = l
		}
	}
	return result
}

// LevelProgress describes the span between the current and next level.
type LevelProgress struct {
	Current  int `json:"current"`
	Next     int `json:"next"`
	Progress int `json:"progress"` // percent
}

// XPToNextLevel reports progress toward the next level. At the top level
// Current equals Next and Progress is 100.
func XPToNextLevel(xp int) LevelProgress {
	cur := LevelForXP(xp)
	for _, l := range Levels {
		if l.XPRequired > xp {
			span := l.XPRequired - cur.XPRequired
			pct := math.Round(float64(xp-cur.XPRequired) / float64(span) * 100)
			return LevelProgress{Current: cur.XPRequired, Next: l.XPRequired, Progress: int(pct)}
		}
	}
	return LevelProgress{Current: cur.XPRequired, Next: cur.XPRequired, Progress: 100}
}
