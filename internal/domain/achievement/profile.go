package achievement

// Profile is one local player's persistent progress plus the streaks of the
// game in progress. Methods that can unlock something return the newly
// unlocked achievements; XP is already added when they return.
type Profile struct {
	Username string   `json:"username"`
	Avatar   string   `json:"avatar"`
	Stats    Stats    `json:"stats"`
	Unlocked []string `json:"unlocked"`
	XP       int      `json:"xp"`

	QuizStreak       int `json:"-"`
	TemptationStreak int `json:"-"`
}

// NewProfile returns an empty profile.
func NewProfile(username, avatar string) *Profile {
	return &Profile{Username: username, Avatar: avatar, Unlocked: []string{}}
}

// Level is the profile's current rank.
func (p *Profile) Level() Level {
	return LevelForXP(p.XP)
}

// HasUnlocked reports whether an achievement is already earned.
func (p *Profile) HasUnlocked(id string) bool {
	for _, u := range p.Unlocked {
		if u == id {
			return true
		}
	}
	return false
}

func (p *Profile) update(fn func(s *Stats)) []Achievement {
	fn(&p.Stats)
	var fresh []Achievement
	for _, a := range All {
		if !p.HasUnlocked(a.ID) && a.Check(p.Stats) {
			p.Unlocked = append(p.Unlocked, a.ID)
			p.XP += a.XP
			fresh = append(fresh, a)
		}
	}
	return fresh
}

// ResetSession clears per-game streaks.
func (p *Profile) ResetSession() {
	p.QuizStreak = 0
	p.TemptationStreak = 0
}

// RecordAssetBought counts a business purchase.
func (p *Profile) RecordAssetBought() []Achievement {
	return p.update(func(s *Stats) { s.TotalAssetsEverBought++ })
}

// RecordQuizResult counts an answer. A wrong answer breaks the streak.
func (p *Profile) RecordQuizResult(correct bool) []Achievement {
	if !correct {
		p.QuizStreak = 0
		return p.update(func(s *Stats) { s.TotalQuizTotal++ })
	}
	p.QuizStreak++
	return p.update(func(s *Stats) {
		s.TotalQuizCorrect++
		s.TotalQuizTotal++
		s.QuizCorrectStreak = max(s.QuizCorrectStreak, p.QuizStreak)
	})
}

// RecordTemptationSkip counts a skipped want.
func (p *Profile) RecordTemptationSkip() []Achievement {
	p.TemptationStreak++
	return p.update(func(s *Stats) {
		s.TotalTemptationsSkipped++
		s.TemptationsSkippedStreak = max(s.TemptationsSkippedStreak, p.TemptationStreak)
	})
}

// ResetTemptationStreak is called when a want is bought.
func (p *Profile) ResetTemptationStreak() {
	p.TemptationStreak = 0
}

// ObserveTurn folds the human's end-of-turn holdings into the high marks.
func (p *Profile) ObserveTurn(assets, savings int) []Achievement {
	return p.update(func(s *Stats) {
		s.MaxAssetsInOneGame = max(s.MaxAssetsInOneGame, assets)
		s.TotalSavingsEverReached = max(s.TotalSavingsEverReached, savings)
	})
}

// RecordDebtPaidOff counts a loan fully retired.
func (p *Profile) RecordDebtPaidOff() []Achievement {
	return p.update(func(s *Stats) { s.TotalDebtPaidOff++ })
}

// RecordGameEnd counts a finished game and, for a win, the months it took.
func (p *Profile) RecordGameEnd(won bool, months int) []Achievement {
	return p.update(func(s *Stats) {
		s.TotalGamesPlayed++
		if !won {
			return
		}
		s.TotalGamesWon++
		if s.FastestWin == 0 || months < s.FastestWin {
			s.FastestWin = months
		}
	})
}
