// Package player defines the participant entity and its derived money figures.
// This package is PURE and must NOT import any infrastructure packages (network, events, platform).
package player

import "github.com/kidcapital/server/internal/domain/catalog"

// Starting values for every new player.
const (
	StartCash         = 100
	StartSalary       = 35
	StartBaseExpenses = 30
)

// HumanID is the roster id of the single human player.
const HumanID = 0

// Player is one participant. Values are snapshots: mutate a Clone, never a
// roster entry in place.
type Player struct {
	ID          int                 `json:"id"`
	Name        string              `json:"name"`
	Avatar      string              `json:"avatar"`
	IsHuman     bool                `json:"isHuman"`
	Personality catalog.Personality `json:"personality,omitempty"` // bots only

	// Money
	Cash         int `json:"cash"`
	Savings      int `json:"savings"`
	Salary       int `json:"salary"`       // per month
	BaseExpenses int `json:"baseExpenses"` // per month
	Debt         int `json:"debt"`         // principal plus interest
	LoanPayment  int `json:"loanPayment"`  // per month, 0 when debt is 0

	Assets   []catalog.Asset `json:"assets"`
	Position int             `json:"position"`

	// Behaviour counters
	WantsSpent   int `json:"wantsSpent"`
	WantsSkipped int `json:"wantsSkipped"`
	QuizCorrect  int `json:"quizCorrect"`
	QuizTotal    int `json:"quizTotal"`
}

// New creates a player with the standard starting balance.
func New(id int, name, avatar string, isHuman bool, personality catalog.Personality) Player {
	p := Player{
		ID:           id,
		Name:         name,
		Avatar:       avatar,
		IsHuman:      isHuman,
		Cash:         StartCash,
		Salary:       StartSalary,
		BaseExpenses: StartBaseExpenses,
		Assets:       []catalog.Asset{},
	}
	if !isHuman {
		p.Personality = personality
	}
	return p
}

// Clone returns a deep copy that shares no assets slice with p.
func (p Player) Clone() Player {
	c := p
	c.Assets = make([]catalog.Asset, len(p.Assets))
	copy(c.Assets, p.Assets)
	return c
}

// PassiveIncome is the monthly income of all owned businesses.
func (p Player) PassiveIncome() int {
	total := 0
	for _, a := range p.Assets {
		total += a.Income
	}
	return total
}

// MaintenanceCosts is the monthly upkeep of all owned businesses.
func (p Player) MaintenanceCosts() int {
	total := 0
	for _, a := range p.Assets {
		total += a.Maint
	}
	return total
}

// TotalExpenses is base expenses plus upkeep plus the loan payment.
func (p Player) TotalExpenses() int {
	return p.BaseExpenses + p.MaintenanceCosts() + p.LoanPayment
}

// NetWorth counts businesses at cost and subtracts outstanding debt.
func (p Player) NetWorth() int {
	total := p.Cash + p.Savings - p.Debt
	for _, a := range p.Assets {
		total += a.Cost
	}
	return total
}

// OwnsAsset reports whether a business with id is held.
func (p Player) OwnsAsset(id string) bool {
	for _, a := range p.Assets {
		if a.ID == id {
			return true
		}
	}
	return false
}

// AssetIDs lists the ids of owned businesses in purchase order.
func (p Player) AssetIDs() []string {
	ids := make([]string, len(p.Assets))
	for i, a := range p.Assets {
		ids[i] = a.ID
	}
	return ids
}
