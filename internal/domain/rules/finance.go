// Package rules contains the pure calculation logic for game mechanics.
// This package is PURE and must NOT import any infrastructure packages.
//
// Every mutator takes a player snapshot and returns a new one. A false second
// return value means the action was not allowed and nothing changed.
// Earnings round down, obligations round up.
package rules

import (
	"github.com/kidcapital/server/internal/domain/catalog"
	"github.com/kidcapital/server/internal/domain/player"
)

const (
	GoBonus            = 10 // paid when a move wraps past GO
	SkipReward         = 5  // savings bonus for skipping a temptation
	SavingsInterestPct = 5
	DownPaymentPct     = 40
	LoanInterestPct    = 15
	LoanMonthlyPct     = 15 // of principal plus interest
)

// PaydayReport is the monthly income statement for one player.
type PaydayReport struct {
	Salary          int `json:"salary"`
	PassiveIncome   int `json:"passiveIncome"`
	SavingsInterest int `json:"savingsInterest"`
	TotalIncome     int `json:"totalIncome"`

	BaseExpenses     int `json:"baseExpenses"`
	MaintenanceCosts int `json:"maintenanceCosts"`
	LoanPayment      int `json:"loanPayment"`
	TotalExpenses    int `json:"totalExpenses"`

	Net      int `json:"net"`
	NewCash  int `json:"newCash"`
	DebtPaid int `json:"debtPaid"`
	NewDebt  int `json:"newDebt"`
}

// ceilPct returns ceil(x * pct / 100) for non-negative x.
func ceilPct(x, pct int) int {
	return (x*pct + 99) / 100
}

// CalculatePayday builds the income statement without changing the player.
func CalculatePayday(p player.Player) PaydayReport {
	r := PaydayReport{
		Salary:           p.Salary,
		PassiveIncome:    p.PassiveIncome(),
		SavingsInterest:  p.Savings * SavingsInterestPct / 100,
		BaseExpenses:     p.BaseExpenses,
		MaintenanceCosts: p.MaintenanceCosts(),
		LoanPayment:      p.LoanPayment,
		NewDebt:          p.Debt,
	}
	r.TotalIncome = r.Salary + r.PassiveIncome + r.SavingsInterest
	r.TotalExpenses = r.BaseExpenses + r.MaintenanceCosts + r.LoanPayment
	r.Net = r.TotalIncome - r.TotalExpenses
	r.NewCash = max(0, p.Cash+r.Net)

	if p.Debt > 0 {
		r.DebtPaid = min(p.LoanPayment, p.Debt)
		r.NewDebt = max(0, p.Debt-r.DebtPaid)
	}
	return r
}

// ApplyPayday commits a report. The loan payment stops once the debt is gone.
func ApplyPayday(p player.Player, r PaydayReport) player.Player {
	next := p.Clone()
	next.Cash = r.NewCash
	next.Debt = r.NewDebt
	if next.Debt == 0 {
		next.LoanPayment = 0
	}
	return next
}

// LoanTerms describes financing a business purchase.
type LoanTerms struct {
	DownPayment      int `json:"downPayment"`
	LoanAmount       int `json:"loanAmount"`
	LoanWithInterest int `json:"loanWithInterest"`
	MonthlyPayment   int `json:"monthlyPayment"`
}

// LoanFor computes the financing terms for an asset.
func LoanFor(a catalog.Asset) LoanTerms {
	t := LoanTerms{DownPayment: ceilPct(a.Cost, DownPaymentPct)}
	t.LoanAmount = a.Cost - t.DownPayment
	t.LoanWithInterest = ceilPct(t.LoanAmount, 100+LoanInterestPct)
	t.MonthlyPayment = ceilPct(t.LoanWithInterest, LoanMonthlyPct)
	return t
}

// CanBuyCash requires no debt and the full price in cash.
func CanBuyCash(p player.Player, a catalog.Asset) bool {
	return p.Debt == 0 && p.Cash >= a.Cost
}

// CanBuyLoan requires no debt and the down payment in cash.
func CanBuyLoan(p player.Player, a catalog.Asset) bool {
	return p.Debt == 0 && p.Cash >= LoanFor(a).DownPayment
}

// PurchaseOptions reports which payment modes are open for an asset.
type PurchaseOptions struct {
	Cash bool `json:"cash"`
	Loan bool `json:"loan"`
}

// CanBuy evaluates both payment modes.
func CanBuy(p player.Player, a catalog.Asset) PurchaseOptions {
	return PurchaseOptions{Cash: CanBuyCash(p, a), Loan: CanBuyLoan(p, a)}
}

// BuyAssetCash pays the full price.
func BuyAssetCash(p player.Player, a catalog.Asset) (player.Player, bool) {
	if !CanBuyCash(p, a) {
		return p, false
	}
	next := p.Clone()
	next.Cash -= a.Cost
	next.Assets = append(next.Assets, a)
	return next, true
}

// BuyAssetLoan pays the down payment and books the rest as debt.
// Debt and payment add to any existing loan.
func BuyAssetLoan(p player.Player, a catalog.Asset) (player.Player, bool) {
	if !CanBuyLoan(p, a) {
		return p, false
	}
	t := LoanFor(a)
	next := p.Clone()
	next.Cash -= t.DownPayment
	next.Debt += t.LoanWithInterest
	next.LoanPayment += t.MonthlyPayment
	next.Assets = append(next.Assets, a)
	return next, true
}

// Deposit moves cash into savings.
func Deposit(p player.Player, amount int) (player.Player, bool) {
	if amount <= 0 || p.Cash < amount {
		return p, false
	}
	next := p.Clone()
	next.Cash -= amount
	next.Savings += amount
	return next, true
}

// Withdraw moves savings back to cash.
func Withdraw(p player.Player, amount int) (player.Player, bool) {
	if amount <= 0 || p.Savings < amount {
		return p, false
	}
	next := p.Clone()
	next.Savings -= amount
	next.Cash += amount
	return next, true
}

// ApplyLifeEvent adds amount to cash, flooring at zero.
func ApplyLifeEvent(p player.Player, amount int) player.Player {
	next := p.Clone()
	next.Cash = max(0, next.Cash+amount)
	return next
}

// ApplyHustle adds active income.
func ApplyHustle(p player.Player, amount int) player.Player {
	next := p.Clone()
	next.Cash += amount
	return next
}

// BuyTemptation spends cash on a want.
func BuyTemptation(p player.Player, cost int) (player.Player, bool) {
	if p.Cash < cost {
		return p, false
	}
	next := p.Clone()
	next.Cash -= cost
	next.WantsSpent++
	return next, true
}

// SkipTemptation rewards discipline with a small savings bonus.
func SkipTemptation(p player.Player) player.Player {
	next := p.Clone()
	next.WantsSkipped++
	next.Savings += SkipReward
	return next
}

// ApplyGoBonus pays the pass-GO bonus.
func ApplyGoBonus(p player.Player) player.Player {
	next := p.Clone()
	next.Cash += GoBonus
	return next
}

// RecordQuiz counts an answer and pays reward when it was correct.
func RecordQuiz(p player.Player, correct bool, reward int) player.Player {
	next := p.Clone()
	next.QuizTotal++
	if correct {
		next.QuizCorrect++
		next.Cash += reward
	}
	return next
}
