package engine

import (
	"errors"
	"math"
	"testing"
)

func TestSuccessChance(t *testing.T) {
	cases := []struct {
		sabotages int
		want      int
	}{
		{0, 90},
		{1, 65},
		{2, 40},
		{3, 15},
		{4, 10},
		{5, 10},
	}
	for _, tc := range cases {
		if got := successChance(tc.sabotages); got != tc.want {
			t.Fatalf("successChance(%d): want %d, got %d", tc.sabotages, tc.want, got)
		}
	}
}

// Two investors in Vault A (pool 20), one sabotage, forced success at 2.0x:
// the pool doubles to 40 and splits 20/20, and everyone collects the base
// income on top.
func TestResolvePoolSplitScenario(t *testing.T) {
	// Vault A succeeds, B and C fail.
	rng := &scriptRNG{rolls: []int{65, 100, 100}, mults: []float64{2.0}}
	s := NewState(Rules{MaxRounds: 8}, rng)

	mustSubmit(t, s, 1, "Vault A", ChoiceNone)
	mustSubmit(t, s, 2, "Vault A", ChoiceNone)
	mustSubmit(t, s, 3, ChoiceHoldCash, "Vault A")
	mustSubmit(t, s, 4, ChoiceHoldCash, ChoiceNone)
	mustSubmit(t, s, 5, ChoiceHoldCash, ChoiceNone)

	rec, err := s.Resolve(rng)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	va := rec.Vaults["Vault A"]
	if va.Status != VaultSuccess || va.Sabotages != 1 || va.Payout != 20.0 {
		t.Fatalf("Vault A outcome: %+v", va)
	}

	// Player 1 is the Mastermind (script RNG deals roles in order) and B+C
	// failed, so they pocket a 20 bonus on top of the vault win.
	// 30 - 10 stake + 20 payout + 10 income + 20 bonus = 70.
	if got := s.Players[1].Cash; got != 70.0 {
		t.Fatalf("player 1 cash: want 70.0, got %.1f", got)
	}
	// Player 2 invested too but holds no bonus role: 30 - 10 + 20 + 10 = 50.
	if got := s.Players[2].Cash; got != 50.0 {
		t.Fatalf("player 2 cash: want 50.0, got %.1f", got)
	}
	// Everyone else just collects the income.
	for _, id := range []int{3, 4, 5} {
		if got := s.Players[id].Cash; got != 40.0 {
			t.Fatalf("player %d cash: want 40.0, got %.1f", id, got)
		}
	}

	if rec.Players[1].NetChange != 40.0 {
		t.Fatalf("player 1 net: want 40.0, got %.1f", rec.Players[1].NetChange)
	}
	if rec.Players[3].NetChange != 10.0 {
		t.Fatalf("player 3 net: want 10.0, got %.1f", rec.Players[3].NetChange)
	}
}

func TestResolveAllVaultsFail(t *testing.T) {
	rng := &scriptRNG{rolls: []int{100, 100, 100}}
	s := NewState(Rules{MaxRounds: 8}, rng)

	mustSubmit(t, s, 1, ChoiceHoldCash, "Vault A")
	mustSubmit(t, s, 2, ChoiceHoldCash, "Vault B")
	mustSubmit(t, s, 3, "Vault C", "Vault C") // self-hedge: allowed
	mustSubmit(t, s, 4, ChoiceHoldCash, ChoiceNone)
	mustSubmit(t, s, 5, ChoiceHoldCash, ChoiceNone)

	rec, err := s.Resolve(rng)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	for _, v := range VaultNames {
		if rec.Vaults[v].Status != VaultFailed {
			t.Fatalf("%s should have failed: %+v", v, rec.Vaults[v])
		}
	}

	// Mastermind (player 1) collects 10 per failed vault.
	if rec.Players[1].BonusIncome != 30.0 {
		t.Fatalf("mastermind bonus: want 30.0, got %.1f", rec.Players[1].BonusIncome)
	}
	for _, id := range []int{2, 3, 4, 5} {
		if rec.Players[id].BonusIncome != 0 {
			t.Fatalf("player %d got a bonus it should not have: %.1f", id, rec.Players[id].BonusIncome)
		}
	}

	// Detective (player 2) gets the aggregate sabotage clue.
	det := s.Players[2]
	if len(det.Inbox) != 1 || det.Unread != 1 {
		t.Fatalf("detective inbox: %v unread=%d", det.Inbox, det.Unread)
	}
	want := "SYSTEM CLUE: There were exactly 3 sabotages total in Round 1."
	if det.Inbox[0] != want {
		t.Fatalf("clue: want %q, got %q", want, det.Inbox[0])
	}

	// Player 3 lost its stake: 30 - 10 + 10 = 30.
	if got := s.Players[3].Cash; got != 30.0 {
		t.Fatalf("player 3 cash: want 30.0, got %.1f", got)
	}
}

func TestResolveSelfHedgeCountsBothWays(t *testing.T) {
	rng := &scriptRNG{rolls: []int{1, 1, 1}, mults: []float64{1.5, 1.5, 1.5}}
	s := NewState(Rules{MaxRounds: 8}, rng)

	mustSubmit(t, s, 1, "Vault B", "Vault B")
	for _, id := range []int{2, 3, 4, 5} {
		mustSubmit(t, s, id, ChoiceHoldCash, ChoiceNone)
	}

	rec, err := s.Resolve(rng)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	vb := rec.Vaults["Vault B"]
	if vb.Sabotages != 1 {
		t.Fatalf("self-sabotage not tallied: %+v", vb)
	}
	if vb.Payout != 15.0 { // pool 10 * 1.5 / 1 investor
		t.Fatalf("payout: want 15.0, got %.1f", vb.Payout)
	}
	if s.Players[1].TotalSabotages != 1 {
		t.Fatalf("lifetime sabotage counter: want 1, got %d", s.Players[1].TotalSabotages)
	}
}

func TestResolveBankruptcyFloor(t *testing.T) {
	rng := &scriptRNG{rolls: []int{100, 100, 100}}
	s := NewState(Rules{MaxRounds: 8}, rng)

	// Stake loss exactly cancels the income, landing on zero.
	s.Players[3].Cash = 0.0
	mustSubmit(t, s, 3, "Vault A", ChoiceNone)
	for _, id := range []int{1, 2, 4, 5} {
		mustSubmit(t, s, id, ChoiceHoldCash, ChoiceNone)
	}

	if _, err := s.Resolve(rng); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	p := s.Players[3]
	if p.Cash != BankruptcyFloor {
		t.Fatalf("cash: want exactly %.1f, got %.1f", BankruptcyFloor, p.Cash)
	}
	if !p.BankruptWarning {
		t.Fatalf("warning flag not set")
	}
	if got := s.Wealth[3][len(s.Wealth[3])-1]; got != BankruptcyFloor {
		t.Fatalf("ledger must record the clamped value, got %.1f", got)
	}
}

func TestResolveLedgerGrowsInLockstep(t *testing.T) {
	rng := &scriptRNG{
		rolls: []int{1, 1, 1, 1, 1, 1},
		mults: []float64{1.5, 1.5, 1.5, 1.5, 1.5, 1.5},
	}
	s := NewState(Rules{MaxRounds: 8}, rng)

	for round := 1; round <= 2; round++ {
		lockAll(t, s)
		if _, err := s.Resolve(rng); err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		for _, id := range s.PlayerIDs() {
			if got := len(s.Wealth[id]); got != round+1 {
				t.Fatalf("round %d player %d: series length %d", round, id, got)
			}
		}
	}
}

func TestResolveClearsPendingChoices(t *testing.T) {
	rng := &scriptRNG{rolls: []int{1, 1, 1}, mults: []float64{2.5, 2.5, 2.5}}
	s := NewState(Rules{MaxRounds: 8}, rng)
	mustSubmit(t, s, 1, "Vault A", "Vault B")
	for _, id := range []int{2, 3, 4, 5} {
		mustSubmit(t, s, id, ChoiceHoldCash, ChoiceNone)
	}
	if _, err := s.Resolve(rng); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for _, p := range s.Players {
		if p.InvestChoice != "" || p.SabotageChoice != "" {
			t.Fatalf("player %d choices not cleared: %q/%q", p.ID, p.InvestChoice, p.SabotageChoice)
		}
	}
	if s.ReadyCount() != 0 {
		t.Fatalf("ready count should reset, got %d", s.ReadyCount())
	}
}

func TestResolveRejectedWhenNotReady(t *testing.T) {
	rng := &scriptRNG{}
	s := NewState(Rules{MaxRounds: 8}, rng)
	for _, id := range []int{1, 2, 3, 4} {
		mustSubmit(t, s, id, ChoiceHoldCash, ChoiceNone)
	}
	_, err := s.Resolve(rng)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("want ErrNotReady, got %v", err)
	}
	if s.Round != 1 || len(s.History) != 0 || len(s.Wealth[1]) != 1 {
		t.Fatalf("rejected resolve mutated state")
	}
}

func TestResolveTermination(t *testing.T) {
	rng := &scriptRNG{
		rolls: []int{1, 1, 1, 1, 1, 1},
		mults: []float64{1.5, 1.5, 1.5, 1.5, 1.5, 1.5},
	}
	s := NewState(Rules{MaxRounds: 2}, rng)

	lockAll(t, s)
	if _, err := s.Resolve(rng); err != nil {
		t.Fatalf("round 1: %v", err)
	}
	if s.GameOver || s.Round != 2 {
		t.Fatalf("after round 1: over=%v round=%d", s.GameOver, s.Round)
	}

	lockAll(t, s)
	if _, err := s.Resolve(rng); err != nil {
		t.Fatalf("round 2: %v", err)
	}
	if !s.GameOver || s.Round != 2 {
		t.Fatalf("after final round: over=%v round=%d", s.GameOver, s.Round)
	}

	if _, err := s.Resolve(rng); !errors.Is(err, ErrGameOver) {
		t.Fatalf("want ErrGameOver, got %v", err)
	}
	if len(s.History) != 2 {
		t.Fatalf("rejected resolve appended history")
	}
}

// Money only enters through income and bonuses and only leaves through failed
// stakes; successful pools are redistribution.
func TestResolveConservation(t *testing.T) {
	rng := &scriptRNG{rolls: []int{65, 100, 1}, mults: []float64{2.0, 1.5}}
	s := NewState(Rules{MaxRounds: 8}, rng)

	mustSubmit(t, s, 1, "Vault A", ChoiceNone)
	mustSubmit(t, s, 2, "Vault A", "Vault A")
	mustSubmit(t, s, 3, "Vault B", ChoiceNone)
	mustSubmit(t, s, 4, "Vault C", ChoiceNone)
	mustSubmit(t, s, 5, "Vault C", ChoiceNone)

	before := 0.0
	for _, p := range s.Players {
		before += p.Cash
	}

	rec, err := s.Resolve(rng)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	after := 0.0
	netSum := 0.0
	bonusPaid := 0.0
	payoutPaid := 0.0
	stakePaid := 0.0
	for id, p := range s.Players {
		after += p.Cash
		res := rec.Players[id]
		netSum += res.NetChange
		bonusPaid += res.BonusIncome
		payoutPaid += res.VaultPayout
		if isVault(res.InvestChoice) {
			stakePaid += Stake
		}
	}

	wantDelta := NumPlayers*PassiveIncome + bonusPaid + payoutPaid - stakePaid
	if math.Abs((after-before)-wantDelta) > 1e-9 {
		t.Fatalf("conservation broken: delta %.2f, want %.2f", after-before, wantDelta)
	}
	if math.Abs(netSum-wantDelta) > 1e-9 {
		t.Fatalf("net changes do not reconcile: %.2f vs %.2f", netSum, wantDelta)
	}
}

func TestResolveAnnouncer(t *testing.T) {
	cases := []struct {
		name  string
		rolls []int
		mults []float64
		want  string
	}{
		{
			name:  "all cracked",
			rolls: []int{1, 1, 1},
			mults: []float64{1.5, 1.5, 1.5},
			want:  "Round 1 conclusion: Flawless execution. All three vaults cracked.",
		},
		{
			name:  "all failed",
			rolls: []int{100, 100, 100},
			want:  "Round 1 conclusion: A bloodbath. All vaults compromised. Total loss.",
		},
		{
			name:  "mixed",
			rolls: []int{1, 100, 100},
			mults: []float64{2.0},
			want:  "Round 1 conclusion: Mixed outcomes. Trust is fracturing.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rng := &scriptRNG{rolls: tc.rolls, mults: tc.mults}
			s := NewState(Rules{MaxRounds: 8}, rng)
			lockAll(t, s)
			if _, err := s.Resolve(rng); err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if s.Announcer != tc.want {
				t.Fatalf("announcer:\n want %q\n got  %q", tc.want, s.Announcer)
			}
		})
	}
}

func mustSubmit(t *testing.T, s *State, id int, invest, sabotage string) {
	t.Helper()
	if err := s.Submit(id, invest, sabotage); err != nil {
		t.Fatalf("submit %d (%s/%s): %v", id, invest, sabotage, err)
	}
}
