package engine

import (
	"fmt"
	"maps"
)

type VaultStatus string

const (
	VaultSuccess VaultStatus = "SUCCESS"
	VaultFailed  VaultStatus = "FAILED"
)

// VaultResult is one vault's outcome for a single round. Payout is per
// investor, zero when the vault failed or had no investors.
type VaultResult struct {
	Status     VaultStatus
	Multiplier float64
	Sabotages  int
	Payout     float64
}

// PlayerResult snapshots one player's round: the choices they went in with and
// what they got out of it.
type PlayerResult struct {
	Name           string
	Role           Role
	InvestChoice   string
	SabotageChoice string
	VaultPayout    float64
	BonusIncome    float64
	NetChange      float64
}

// RoundRecord is immutable once appended to the history.
type RoundRecord struct {
	Round   int
	Vaults  map[string]VaultResult
	Players map[int]PlayerResult
}

func (r RoundRecord) clone() RoundRecord {
	return RoundRecord{
		Round:   r.Round,
		Vaults:  maps.Clone(r.Vaults),
		Players: maps.Clone(r.Players),
	}
}

const (
	baseChance      = 90
	sabotagePenalty = 25
	minChance       = 10
)

// successChance is the percent chance a vault cracks given its sabotage count.
func successChance(sabotages int) int {
	chance := baseChance - sabotagePenalty*sabotages
	if chance < minChance {
		return minChance
	}
	return chance
}

type vaultTally struct {
	investors []int
	sabotages int
	pool      float64
}

// Resolve runs one round end to end: pool the stakes, roll each vault, pay out
// winners, credit role bonuses and passive income, clamp bankruptcies, extend
// the wealth series, clear pending choices, and append the round record.
//
// It refuses to start unless every player is locked in and the game is live,
// so a rejection never leaves partial state behind.
func (s *State) Resolve(rng RNG) (RoundRecord, error) {
	if s.GameOver {
		return RoundRecord{}, ErrGameOver
	}
	if s.ReadyCount() != NumPlayers {
		return RoundRecord{}, ErrNotReady
	}

	tallies := make(map[string]*vaultTally, len(VaultNames))
	for _, v := range VaultNames {
		tallies[v] = &vaultTally{}
	}

	rec := RoundRecord{
		Round:   s.Round,
		Vaults:  make(map[string]VaultResult, len(VaultNames)),
		Players: make(map[int]PlayerResult, len(s.Players)),
	}
	results := make(map[int]*PlayerResult, len(s.Players))

	// Stakes and sabotage tallies. Investing in and sabotaging the same
	// vault is allowed.
	for _, id := range s.PlayerIDs() {
		p := s.Players[id]
		results[id] = &PlayerResult{
			Name:           p.Name,
			Role:           p.Role,
			InvestChoice:   p.InvestChoice,
			SabotageChoice: p.SabotageChoice,
		}
		if isVault(p.InvestChoice) {
			t := tallies[p.InvestChoice]
			t.investors = append(t.investors, id)
			t.pool += Stake
			p.Cash -= Stake
		}
		if isVault(p.SabotageChoice) {
			tallies[p.SabotageChoice].sabotages++
			p.TotalSabotages++
		}
	}

	totalSabotages := 0
	for _, t := range tallies {
		totalSabotages += t.sabotages
	}

	// Each vault is an independent trial.
	mastermindBonus := 0.0
	failedVaults := 0
	for _, v := range VaultNames {
		t := tallies[v]
		if rng.Roll100() <= successChance(t.sabotages) {
			mult := rng.Multiplier()
			payout := 0.0
			if len(t.investors) > 0 {
				payout = t.pool * mult / float64(len(t.investors))
			}
			for _, id := range t.investors {
				s.Players[id].Cash += payout
				results[id].VaultPayout = payout
			}
			rec.Vaults[v] = VaultResult{Status: VaultSuccess, Multiplier: mult, Sabotages: t.sabotages, Payout: payout}
		} else {
			rec.Vaults[v] = VaultResult{Status: VaultFailed, Sabotages: t.sabotages}
			mastermindBonus += FailBonus
			failedVaults++
		}
	}

	// Settlement.
	for _, id := range s.PlayerIDs() {
		p := s.Players[id]
		res := results[id]

		bonus := 0.0
		if p.Role == RoleMastermind {
			bonus = mastermindBonus
		}
		p.Cash += PassiveIncome + bonus
		res.BonusIncome += bonus

		net := PassiveIncome + res.VaultPayout + bonus
		if isVault(res.InvestChoice) {
			net -= Stake
		}
		res.NetChange = net

		if p.Role == RoleDetective {
			p.Inbox = append(p.Inbox, fmt.Sprintf(
				"SYSTEM CLUE: There were exactly %d sabotages total in Round %d.",
				totalSabotages, s.Round))
			p.Unread++
		}

		if p.Cash <= 0 {
			p.Cash = BankruptcyFloor
			p.BankruptWarning = true
		}

		s.Wealth[id] = append(s.Wealth[id], p.Cash)
		p.InvestChoice = ""
		p.SabotageChoice = ""

		rec.Players[id] = *res
	}

	s.History = append(s.History, rec)

	switch failedVaults {
	case 0:
		s.Announcer = fmt.Sprintf("Round %d conclusion: Flawless execution. All three vaults cracked.", s.Round)
	case len(VaultNames):
		s.Announcer = fmt.Sprintf("Round %d conclusion: A bloodbath. All vaults compromised. Total loss.", s.Round)
	default:
		s.Announcer = fmt.Sprintf("Round %d conclusion: Mixed outcomes. Trust is fracturing.", s.Round)
	}

	if s.Round >= s.Rules.MaxRounds {
		s.GameOver = true
	} else {
		s.Round++
	}
	return rec, nil
}
