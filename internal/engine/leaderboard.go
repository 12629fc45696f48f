package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Standing is one row of the final ranking.
type Standing struct {
	PlayerID  int
	Name      string
	Role      Role
	Cash      float64
	Sabotages int
}

// Leaderboard ranks the roster once the game is over: cash descending, then
// lifetime sabotage count descending (among equal wealth the more disruptive
// player ranks higher), then id for a stable order.
func (s *State) Leaderboard() ([]Standing, error) {
	if !s.GameOver {
		return nil, ErrGameRunning
	}
	standings := make([]Standing, 0, len(s.Players))
	for _, id := range s.PlayerIDs() {
		p := s.Players[id]
		standings = append(standings, Standing{
			PlayerID:  id,
			Name:      p.Name,
			Role:      p.Role,
			Cash:      p.Cash,
			Sabotages: p.TotalSabotages,
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Cash != standings[j].Cash {
			return standings[i].Cash > standings[j].Cash
		}
		return standings[i].Sabotages > standings[j].Sabotages
	})
	return standings, nil
}

// Winners is every standing whose (cash, sabotage) pair matches the top row.
// Ties produce multiple winners.
func Winners(standings []Standing) []Standing {
	if len(standings) == 0 {
		return nil
	}
	top := standings[0]
	var winners []Standing
	for _, st := range standings {
		if st.Cash == top.Cash && st.Sabotages == top.Sabotages {
			winners = append(winners, st)
		}
	}
	return winners
}

// Narrative is the end-game framing shown to one player: a winning Mastermind,
// a winning non-Mastermind, and a loser each get a different send-off.
func (s *State) Narrative(viewer int) (string, error) {
	standings, err := s.Leaderboard()
	if err != nil {
		return "", err
	}
	p, ok := s.Players[viewer]
	if !ok {
		return "", ErrUnknownPlayer
	}
	winners := Winners(standings)
	for _, w := range winners {
		if w.PlayerID == viewer {
			if p.Role == RoleMastermind {
				return "THE PERFECT CRIME. You played them for fools and burned the city to the ground. The Syndicate is yours.", nil
			}
			return "YOU ARE CHOSEN. You survived the bloodbath. Step into my office. You are the new Right Hand.", nil
		}
	}
	names := make([]string, len(winners))
	for i, w := range winners {
		names[i] = w.Name
	}
	return fmt.Sprintf(
		"YOU FAILED. You lacked the killer instinct. The streets belong to %s now. Kiss the ring or pack your bags.",
		strings.Join(names, " and ")), nil
}
