package achievement

import "time"

const (
	dailyBaseBonus = 10
	dailyStepBonus = 5
	dailyMaxBonus  = 50
	dateLayout     = "2006-01-02"
)

// DailyReward is the persisted login streak.
type DailyReward struct {
	LastClaimDate string `json:"lastClaimDate"` // UTC YYYY-MM-DD, empty before the first claim
	Streak        int    `json:"streak"`
}

// RewardOffer is what claiming today would yield.
type RewardOffer struct {
	Available bool `json:"available"`
	Streak    int  `json:"streak"`
	BonusCash int  `json:"bonusCash"`
}

// Check evaluates the reward for the UTC day containing now.
func (d DailyReward) Check(now time.Time) RewardOffer {
	if d.LastClaimDate == "" {
		return RewardOffer{Available: true, Streak: 1, BonusCash: dailyBaseBonus}
	}
	last, err := time.Parse(dateLayout, d.LastClaimDate)
	if err != nil {
		return RewardOffer{Available: true, Streak: 1, BonusCash: dailyBaseBonus}
	}
	today, _ := time.Parse(dateLayout, now.UTC().Format(dateLayout))

	days := int(today.Sub(last).Hours() / 24)
	if days < 0 {
		days = -days
	}
	switch days {
	case 0:
		return RewardOffer{Available: false, Streak: d.Streak}
	case 1:
		streak := d.Streak + 1
		bonus := min(dailyBaseBonus+(streak-1)*dailyStepBonus, dailyMaxBonus)
		return RewardOffer{Available: true, Streak: streak, BonusCash: bonus}
	default:
		return RewardOffer{Available: true, Streak: 1, BonusCash: dailyBaseBonus}
	}
}

// Claim takes today's reward if available. The returned offer carries the
// bonus actually granted; an unavailable offer leaves d unchanged.
func (d DailyReward) Claim(now time.Time) (DailyReward, RewardOffer) {
	offer := d.Check(now)
	if !offer.Available {
		return d, offer
	}
	return DailyReward{LastClaimDate: now.UTC().Format(dateLayout), Streak: offer.Streak}, offer
}
