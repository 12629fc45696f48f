package session

import (
	"github.com/syndicategame/syndicate-backend/internal/auth"
	"github.com/syndicategame/syndicate-backend/internal/engine"
	"github.com/syndicategame/syndicate-backend/internal/types"
)

// snapshotFor projects the live state into a viewer-scoped DTO. Everything is
// copied, so a snapshot never aliases actor-owned memory. Hidden information
// stays hidden: players see other seats by name only until the game ends.
func (s *Session) snapshotFor(id auth.Identity) types.Snapshot {
	st := s.state
	snap := types.Snapshot{
		Version:      s.version,
		Round:        st.Round,
		MaxRounds:    st.Rules.MaxRounds,
		GameOver:     st.GameOver,
		Announcer:    st.Announcer,
		ReadyCount:   st.ReadyCount(),
		TotalPlayers: engine.NumPlayers,
		Vaults:       append([]string(nil), engine.VaultNames...),
	}

	for _, pid := range st.PlayerIDs() {
		p := st.Players[pid]
		snap.Players = append(snap.Players, types.PlayerPublic{
			ID:     pid,
			Name:   p.Name,
			Locked: p.Locked(),
		})
	}

	if id.Host {
		for _, pid := range st.PlayerIDs() {
			p := st.Players[pid]
			snap.HostRows = append(snap.HostRows, types.HostPlayerRow{
				ID:             pid,
				Name:           p.Name,
				Role:           string(p.Role),
				Cash:           p.Cash,
				InvestChoice:   p.InvestChoice,
				SabotageChoice: p.SabotageChoice,
				Unread:         p.Unread,
				TotalSabotages: p.TotalSabotages,
			})
		}
	} else if p, ok := st.Players[id.PlayerID]; ok {
		snap.You = &types.PlayerPrivate{
			ID:              p.ID,
			Name:            p.Name,
			Role:            string(p.Role),
			Title:           engine.Title(p.Cash),
			Cash:            p.Cash,
			InvestChoice:    p.InvestChoice,
			SabotageChoice:  p.SabotageChoice,
			Inbox:           append([]string(nil), p.Inbox...),
			Unread:          p.Unread,
			BankruptWarning: p.BankruptWarning,
		}
	}

	for _, rec := range st.History {
		snap.History = append(snap.History, summarize(rec, id.Host))
	}

	if id.Host || st.GameOver {
		for _, wp := range st.WealthRows() {
			snap.Wealth = append(snap.Wealth, types.WealthPoint(wp))
		}
	}

	if st.GameOver {
		snap.Leaderboard = s.leaderboardFor(id)
	}
	return snap
}

func summarize(rec engine.RoundRecord, host bool) types.RoundSummary {
	sum := types.RoundSummary{
		Round:  rec.Round,
		Vaults: make(map[string]types.VaultOutcome, len(rec.Vaults)),
	}
	for name, v := range rec.Vaults {
		sum.Vaults[name] = types.VaultOutcome{
			Status:     string(v.Status),
			Multiplier: v.Multiplier,
			Sabotages:  v.Sabotages,
			Payout:     v.Payout,
		}
	}
	if !host {
		return sum
	}
	for pid := 1; pid <= engine.NumPlayers; pid++ {
		pr, ok := rec.Players[pid]
		if !ok {
			continue
		}
		sum.Players = append(sum.Players, types.PlayerRoundRow{
			ID:             pid,
			Name:           pr.Name,
			Role:           string(pr.Role),
			InvestChoice:   pr.InvestChoice,
			SabotageChoice: pr.SabotageChoice,
			VaultPayout:    pr.VaultPayout,
			BonusIncome:    pr.BonusIncome,
			NetChange:      pr.NetChange,
		})
	}
	return sum
}

func (s *Session) leaderboardFor(id auth.Identity) *types.LeaderboardView {
	standings, err := s.state.Leaderboard()
	if err != nil {
		return nil
	}
	view := &types.LeaderboardView{}
	for i, st := range standings {
		view.Standings = append(view.Standings, types.Standing{
			Rank:      i + 1,
			PlayerID:  st.PlayerID,
			Name:      st.Name,
			Role:      string(st.Role),
			Cash:      st.Cash,
			Sabotages: st.Sabotages,
		})
	}
	for _, w := range engine.Winners(standings) {
		view.Winners = append(view.Winners, w.PlayerID)
	}
	if !id.Host {
		if narrative, err := s.state.Narrative(id.PlayerID); err == nil {
			view.Narrative = narrative
		}
	}
	return view
}
