// Package catalog defines the static reference data of the game: businesses,
// life events, hustles, temptations, quiz questions and bot profiles.
// This package is PURE and must NOT import any infrastructure packages.
package catalog

import (
	"fmt"
	"strings"
)

// Tier groups businesses by price band.
type Tier int

const (
	TierStarter Tier = 1
	TierGrowth  Tier = 2
	TierPremium Tier = 3
)

// Asset is a business a player can own. Owned copies are values, never shared.
type Asset struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Cost   int    `json:"cost" yaml:"cost"`
	Income int    `json:"income" yaml:"income"` // per month
	Maint  int    `json:"maint" yaml:"maint"`   // per month
	Icon   string `json:"icon" yaml:"icon"`
	Tier   Tier   `json:"tier" yaml:"tier"`
}

// LifeEvent is a one-off cash swing. Amount may be negative.
type LifeEvent struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Text   string `json:"text" yaml:"text"`
	Amount int    `json:"amount" yaml:"amount"`
	Mood   string `json:"mood" yaml:"mood"`
}

// Hustle is active income from a side job.
type Hustle struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Text   string `json:"text" yaml:"text"`
	Amount int    `json:"amount" yaml:"amount"`
	Icon   string `json:"icon" yaml:"icon"`
}

// Temptation is an impulse purchase the player may skip.
type Temptation struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Cost int    `json:"cost" yaml:"cost"`
	Icon string `json:"icon" yaml:"icon"`
	Text string `json:"text" yaml:"text"`
}

// Difficulty is the age band a quiz question targets.
type Difficulty string

const (
	DifficultyKids    Difficulty = "8-10"
	DifficultyTweens  Difficulty = "11-14"
	DifficultyTeens   Difficulty = "15-18"
	DifficultyAllAges Difficulty = "all" // question tag only, not a game setting
)

// ParseDifficulty validates a game difficulty setting.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.TrimSpace(s)); d {
	case DifficultyKids, DifficultyTweens, DifficultyTeens:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
}

// Challenge is a multiple-choice quiz question.
type Challenge struct {
	ID           string     `json:"id" yaml:"id"`
	Question     string     `json:"question" yaml:"question"`
	Options      []string   `json:"options" yaml:"options"`
	CorrectIndex int        `json:"correctIndex" yaml:"correct_index"`
	Explanation  string     `json:"explanation" yaml:"explanation"`
	Reward       int        `json:"reward" yaml:"reward"`
	Difficulty   Difficulty `json:"difficulty" yaml:"difficulty"`
}

// Personality is a bot's fixed decision policy.
type Personality string

const (
	Conservative Personality = "conservative"
	Aggressive   Personality = "aggressive"
	Balanced     Personality = "balanced"
)

// Valid reports whether p is one of the known policies.
func (p Personality) Valid() bool {
	return p == Conservative || p == Aggressive || p == Balanced
}

// BotProfile describes a selectable bot opponent.
type BotProfile struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Avatar      string      `json:"avatar" yaml:"avatar"`
	Personality Personality `json:"personality" yaml:"personality"`
	Description string      `json:"description" yaml:"description"`
}

// Source yields uniform random integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Catalog holds every reference table. Treat it as read-only once built.
type Catalog struct {
	Assets      []Asset      `json:"assets" yaml:"assets"`
	LifeEvents  []LifeEvent  `json:"lifeEvents" yaml:"life_events"`
	Hustles     []Hustle     `json:"hustles" yaml:"hustles"`
	Temptations []Temptation `json:"temptations" yaml:"temptations"`
	Challenges  []Challenge  `json:"challenges" yaml:"challenges"`
	Bots        []BotProfile `json:"bots" yaml:"bots"`
}

// Default returns a fresh copy of the built-in tables.
func Default() *Catalog {
	c := &Catalog{
		Assets:      append([]Asset(nil), defaultAssets...),
		LifeEvents:  append([]LifeEvent(nil), defaultLifeEvents...),
		Hustles:     append([]Hustle(nil), defaultHustles...),
		Temptations: append([]Temptation(nil), defaultTemptations...),
		Challenges:  make([]Challenge, len(defaultChallenges)),
		Bots:        append([]BotProfile(nil), defaultBots...),
	}
	for i, ch := range defaultChallenges {
		ch.Options = append([]string(nil), ch.Options...)
		c.Challenges[i] = ch
	}
	return c
}

// AssetByID looks up a business by id.
func (c *Catalog) AssetByID(id string) (Asset, bool) {
	for _, a := range c.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return Asset{}, false
}

// AvailableAssets returns the businesses not in owned with tier <= maxTier,
// in catalog order.
func (c *Catalog) AvailableAssets(owned []string, maxTier Tier) []Asset {
	ownedSet := make(map[string]struct{}, len(owned))
	for _, id := range owned {
		ownedSet[id] = struct{}{}
	}
	var result []Asset
	for _, a := range c.Assets {
		if _, ok := ownedSet[a.ID]; ok || a.Tier > maxTier {
			continue
		}
		result = append(result, a)
	}
	return result
}

// BotByID looks up a bot profile by id.
func (c *Catalog) BotByID(id string) (BotProfile, bool) {
	for _, b := range c.Bots {
		if b.ID == id {
			return b, true
		}
	}
	return BotProfile{}, false
}

// ChallengeByID looks up a quiz question by id.
func (c *Catalog) ChallengeByID(id string) (Challenge, bool) {
	for _, ch := range c.Challenges {
		if ch.ID == id {
			return ch, true
		}
	}
	return Challenge{}, false
}

// RandomLifeEvent draws a uniformly random life event.
func (c *Catalog) RandomLifeEvent(src Source) LifeEvent {
	return c.LifeEvents[src.Intn(len(c.LifeEvents))]
}

// RandomHustle draws a uniformly random hustle.
func (c *Catalog) RandomHustle(src Source) Hustle {
	return c.Hustles[src.Intn(len(c.Hustles))]
}

// RandomTemptation draws a uniformly random temptation.
func (c *Catalog) RandomTemptation(src Source) Temptation {
	return c.Temptations[src.Intn(len(c.Temptations))]
}

// ChallengesFor returns the questions shown at a difficulty, including the
// all-ages ones.
func (c *Catalog) ChallengesFor(d Difficulty) []Challenge {
	var result []Challenge
	for _, ch := range c.Challenges {
		if ch.Difficulty == DifficultyAllAges || ch.Difficulty == d {
			result = append(result, ch)
		}
	}
	return result
}

// RandomChallenge draws a question for the difficulty, skipping ids in
// exclude. If exclusion empties the pool the excluded questions come back.
// It returns false only when no question matches the difficulty at all.
func (c *Catalog) RandomChallenge(src Source, d Difficulty, exclude []string) (Challenge, bool) {
	pool := c.ChallengesFor(d)
	if len(pool) == 0 {
		return Challenge{}, false
	}
	if len(exclude) > 0 {
		skip := make(map[string]struct{}, len(exclude))
		for _, id := range exclude {
			skip[id] = struct{}{}
		}
		fresh := make([]Challenge, 0, len(pool))
		for _, ch := range pool {
			if _, ok := skip[ch.ID]; !ok {
				fresh = append(fresh, ch)
			}
		}
		if len(fresh) > 0 {
			pool = fresh
		}
	}
	return pool[src.Intn(len(pool))], true
}
