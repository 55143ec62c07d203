package player

import (
	"testing"

	"github.com/kidcapital/server/internal/domain/catalog"
)

func TestNewStartingValues(t *testing.T) {
	p := New(HumanID, "Ava", "🦊", true, catalog.Aggressive)
	if p.Cash != 100 || p.Savings != 0 || p.Salary != 35 || p.BaseExpenses != 30 || p.Debt != 0 {
		t.Errorf("Unexpected starting values: %+v", p)
	}
	if p.Personality != "" {
		t.Errorf("Human should carry no personality, got %q", p.Personality)
	}

	bot := New(1, "Ben", "🦁", false, catalog.Aggressive)
	if bot.Personality != catalog.Aggressive {
		t.Errorf("Expected aggressive bot, got %q", bot.Personality)
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := New(0, "Ava", "🦊", true, "")
	p.Assets = append(p.Assets, catalog.Asset{ID: "a1", Cost: 80})

	c := p.Clone()
	c.Assets[0].Cost = 1
	c.Assets = append(c.Assets, catalog.Asset{ID: "a2"})

	if p.Assets[0].Cost != 80 || len(p.Assets) != 1 {
		t.Errorf("Clone shares asset storage with the original: %+v", p.Assets)
	}
}

func TestDerivedFigures(t *testing.T) {
	p := Player{
		Cash: 40, Savings: 20, BaseExpenses: 10, LoanPayment: 5, Debt: 30,
		Assets: []catalog.Asset{
			{ID: "a1", Cost: 80, Income: 6, Maint: 2},
			{ID: "a3", Cost: 120, Income: 9, Maint: 3},
		},
	}
	if got := p.PassiveIncome(); got != 15 {
		t.Errorf("PassiveIncome = %d, want 15", got)
	}
	if got := p.MaintenanceCosts(); got != 5 {
		t.Errorf("MaintenanceCosts = %d, want 5", got)
	}
	if got := p.TotalExpenses(); got != 20 {
		t.Errorf("TotalExpenses = %d, want 20", got)
	}
	if got := p.NetWorth(); got != 40+20+200-30 {
		t.Errorf("NetWorth = %d, want 230", got)
	}
	if !p.OwnsAsset("a3") || p.OwnsAsset("a2") {
		t.Error("OwnsAsset gave the wrong answer")
	}
	if ids := p.AssetIDs(); len(ids) != 2 || ids[1] != "a3" {
		t.Errorf("AssetIDs = %v", ids)
	}
}
