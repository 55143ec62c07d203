package rules

import (
	"testing"

	"github.com/kidcapital/server/internal/domain/catalog"
	"github.com/kidcapital/server/internal/domain/player"
)

func basePlayer() player.Player {
	return player.Player{Cash: 100, Salary: 50, BaseExpenses: 20, Assets: []catalog.Asset{}}
}

func TestCalculatePayday(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(p *player.Player)
		net      int
		cash     int
		interest int
		debtPaid int
		newDebt  int
	}{
		{"plain salary", func(p *player.Player) {}, 30, 130, 0, 0, 0},
		{"interest on 100", func(p *player.Player) { p.Savings = 100 }, 35, 135, 5, 0, 0},
		{"interest floors", func(p *player.Player) { p.Savings = 37 }, 31, 131, 1, 0, 0},
		{"payment capped at debt", func(p *player.Player) { p.Debt = 10; p.LoanPayment = 20 }, 10, 110, 0, 10, 0},
		{"cash floor", func(p *player.Player) { p.Cash = 5; p.Salary = 0; p.BaseExpenses = 40 }, -40, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := basePlayer()
			tt.mutate(&p)
			r := CalculatePayday(p)
			if r.Net != tt.net || r.NewCash != tt.cash || r.SavingsInterest != tt.interest ||
				r.DebtPaid != tt.debtPaid || r.NewDebt != tt.newDebt {
				t.Errorf("got net=%d cash=%d interest=%d paid=%d debt=%d",
					r.Net, r.NewCash, r.SavingsInterest, r.DebtPaid, r.NewDebt)
			}
		})
	}
}

func TestCalculatePaydayWithAssets(t *testing.T) {
	p := basePlayer()
	p.Assets = []catalog.Asset{{ID: "a1", Income: 6, Maint: 2}, {ID: "a4", Income: 14, Maint: 5}}
	r := CalculatePayday(p)
	if r.PassiveIncome != 20 || r.MaintenanceCosts != 7 || r.TotalIncome != 70 || r.TotalExpenses != 27 {
		t.Errorf("Unexpected breakdown: %+v", r)
	}
}

func TestApplyPaydayRoundTrip(t *testing.T) {
	cases := []player.Player{
		{Cash: 20, Salary: 35, BaseExpenses: 30, Debt: 207, LoanPayment: 32},
		{Cash: 20, Salary: 35, BaseExpenses: 30, Debt: 15, LoanPayment: 32},
		{Cash: 0, Salary: 0, BaseExpenses: 30},
	}
	for i, p := range cases {
		r := CalculatePayday(p)
		next := ApplyPayday(p, r)
		if next.Cash != r.NewCash || next.Debt != r.NewDebt {
			t.Errorf("case %d: applied cash=%d debt=%d, report says %d/%d", i, next.Cash, next.Debt, r.NewCash, r.NewDebt)
		}
		if (next.LoanPayment == 0) != (r.NewDebt == 0) {
			t.Errorf("case %d: loanPayment=%d with debt=%d", i, next.LoanPayment, r.NewDebt)
		}
	}
}

func TestLoanMath(t *testing.T) {
	asset := catalog.Asset{ID: "big", Cost: 300, Income: 20, Maint: 5}
	p := basePlayer()
	p.Cash = 150

	terms := LoanFor(asset)
	if terms.DownPayment != 120 || terms.LoanWithInterest != 207 || terms.MonthlyPayment != 32 {
		t.Fatalf("Unexpected loan terms: %+v", terms)
	}

	next, ok := BuyAssetLoan(p, asset)
	if !ok {
		t.Fatal("Expected loan purchase to succeed")
	}
	if next.Cash != 30 || next.Debt != 207 || next.LoanPayment != 32 || len(next.Assets) != 1 {
		t.Errorf("Unexpected player after loan: %+v", next)
	}
	if p.Cash != 150 || len(p.Assets) != 0 {
		t.Error("Original snapshot was mutated")
	}
}

func TestLoanMathCatalogAssets(t *testing.T) {
	tests := []struct {
		cost, down, lwi, monthly int
	}{
		{80, 32, 56, 9},
		{90, 36, 63, 10},
		{500, 200, 345, 52},
	}
	for _, tt := range tests {
		got := LoanFor(catalog.Asset{Cost: tt.cost})
		if got.DownPayment != tt.down || got.LoanWithInterest != tt.lwi || got.MonthlyPayment != tt.monthly {
			t.Errorf("cost %d: got %+v", tt.cost, got)
		}
	}
}

func TestPurchaseGatingOnDebt(t *testing.T) {
	asset := catalog.Asset{ID: "a1", Cost: 80}
	p := basePlayer()
	p.Cash = 10000
	p.Debt = 1

	if opts := CanBuy(p, asset); opts.Cash || opts.Loan {
		t.Errorf("Expected both modes blocked while in debt, got %+v", opts)
	}
	if _, ok := BuyAssetCash(p, asset); ok {
		t.Error("Cash purchase should fail while in debt")
	}
	if _, ok := BuyAssetLoan(p, asset); ok {
		t.Error("Loan purchase should fail while in debt")
	}
}

func TestBuyAssetCash(t *testing.T) {
	asset := catalog.Asset{ID: "a1", Cost: 80}
	p := basePlayer()

	next, ok := BuyAssetCash(p, asset)
	if !ok || next.Cash != 20 || !next.OwnsAsset("a1") {
		t.Errorf("Unexpected cash purchase: ok=%v %+v", ok, next)
	}

	p.Cash = 79
	if _, ok := BuyAssetCash(p, asset); ok {
		t.Error("Expected purchase to fail one dollar short")
	}
	if !CanBuyLoan(p, asset) {
		t.Error("Expected loan to be open with 79 cash for an 80 asset")
	}
}

func TestDepositWithdrawBoundaries(t *testing.T) {
	p := basePlayer()
	for _, amount := range []int{0, -5} {
		if _, ok := Deposit(p, amount); ok {
			t.Errorf("Deposit(%d) should fail", amount)
		}
		if _, ok := Withdraw(p, amount); ok {
			t.Errorf("Withdraw(%d) should fail", amount)
		}
	}
	if _, ok := Deposit(p, 101); ok {
		t.Error("Deposit beyond cash should fail")
	}

	next, ok := Deposit(p, 40)
	if !ok || next.Cash != 60 || next.Savings != 40 {
		t.Fatalf("Unexpected deposit result: %+v", next)
	}
	if _, ok := Withdraw(next, 41); ok {
		t.Error("Withdraw beyond savings should fail")
	}
	back, ok := Withdraw(next, 40)
	if !ok || back.Cash != 100 || back.Savings != 0 {
		t.Errorf("Unexpected withdraw result: %+v", back)
	}
}

func TestLifeEventsAndHustles(t *testing.T) {
	p := basePlayer()
	p.Cash = 10

	if got := ApplyLifeEvent(p, -25).Cash; got != 0 {
		t.Errorf("Expected cash floored at 0, got %d", got)
	}
	if got := ApplyLifeEvent(p, 25).Cash; got != 35 {
		t.Errorf("Expected 35, got %d", got)
	}
	if got := ApplyHustle(p, 20).Cash; got != 30 {
		t.Errorf("Expected 30, got %d", got)
	}
	if got := ApplyGoBonus(p).Cash; got != 20 {
		t.Errorf("Expected GO bonus to add 10, got %d", got)
	}
}

func TestTemptations(t *testing.T) {
	p := basePlayer()
	p.Cash = 20

	if _, ok := BuyTemptation(p, 25); ok {
		t.Error("Expected unaffordable temptation to fail")
	}
	bought, ok := BuyTemptation(p, 20)
	if !ok || bought.Cash != 0 || bought.WantsSpent != 1 {
		t.Errorf("Unexpected purchase: %+v", bought)
	}

	skipped := SkipTemptation(p)
	if skipped.WantsSkipped != 1 || skipped.Savings != 5 || skipped.Cash != 20 {
		t.Errorf("Unexpected skip: %+v", skipped)
	}
}

func TestRecordQuiz(t *testing.T) {
	p := basePlayer()
	right := RecordQuiz(p, true, 10)
	if right.QuizTotal != 1 || right.QuizCorrect != 1 || right.Cash != 110 {
		t.Errorf("Unexpected correct answer result: %+v", right)
	}
	wrong := RecordQuiz(p, false, 10)
	if wrong.QuizTotal != 1 || wrong.QuizCorrect != 0 || wrong.Cash != 100 {
		t.Errorf("Unexpected wrong answer result: %+v", wrong)
	}
}

func TestLoanPaymentsAccumulate(t *testing.T) {
	p := basePlayer()
	p.Cash = 1000
	p.LoanPayment = 32 // left over from an earlier loan, debt already settled

	next, ok := BuyAssetLoan(p, catalog.Asset{ID: "y", Cost: 300})
	if !ok || next.Debt != 207 || next.LoanPayment != 64 {
		t.Errorf("Expected payments to add up, got debt=%d payment=%d", next.Debt, next.LoanPayment)
	}
}
