// Package types holds the wire DTOs shared by the HTTP and websocket
// surfaces. Snapshots are identity-scoped: hidden roles, pending choices, and
// inboxes only appear in the fields the viewer is entitled to.
package types

// Client -> Server (websocket)
//
// SubmitActions:    invest, sabotage            (player only)
// SendMessage:      target_id, text             (host or player)
// MarkInboxRead:    {}                          (player only)
// AckBankruptcy:    {}                          (player only)
// ResolveRound:     {}                          (host only)
// ShuffleRoles:     {}                          (host only)
// RenamePlayer:     player_id, name             (host only)
type ClientMessage struct {
	Type     string `json:"type"`
	Invest   string `json:"invest,omitempty"`
	Sabotage string `json:"sabotage,omitempty"`
	TargetID int    `json:"target_id,omitempty"`
	Text     string `json:"text,omitempty"`
	PlayerID int    `json:"player_id,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Server -> Client: "StateSnapshot" carries a versioned Snapshot, "Error" a
// rejection from the session.
type ServerMessage struct {
	Type     string    `json:"type"`
	Version  int       `json:"version,omitempty"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// PlayerPublic is what any viewer may know about a seat.
type PlayerPublic struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Locked bool   `json:"locked"`
}

// PlayerPrivate is the viewer's own seat in full.
type PlayerPrivate struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Role            string   `json:"role"`
	Title           string   `json:"title"`
	Cash            float64  `json:"cash"`
	InvestChoice    string   `json:"invest_choice,omitempty"`
	SabotageChoice  string   `json:"sabotage_choice,omitempty"`
	Inbox           []string `json:"inbox"`
	Unread          int      `json:"unread"`
	BankruptWarning bool     `json:"bankrupt_warning"`
}

// HostPlayerRow is the host dashboard's live view of one seat.
type HostPlayerRow struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Role           string  `json:"role"`
	Cash           float64 `json:"cash"`
	InvestChoice   string  `json:"invest_choice,omitempty"`
	SabotageChoice string  `json:"sabotage_choice,omitempty"`
	Unread         int     `json:"unread"`
	TotalSabotages int     `json:"total_sabotages"`
}

type VaultOutcome struct {
	Status     string  `json:"status"`
	Multiplier float64 `json:"multiplier,omitempty"`
	Sabotages  int     `json:"sabotages"`
	Payout     float64 `json:"payout"`
}

// PlayerRoundRow is one player's line in a historical round, host-visible.
type PlayerRoundRow struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Role           string  `json:"role"`
	InvestChoice   string  `json:"invest_choice"`
	SabotageChoice string  `json:"sabotage_choice"`
	VaultPayout    float64 `json:"vault_payout"`
	BonusIncome    float64 `json:"bonus_income"`
	NetChange      float64 `json:"net_change"`
}

// RoundSummary is one resolved round. Players is populated for the host only;
// player viewers get the vault outcomes and nothing about other seats.
type RoundSummary struct {
	Round   int                     `json:"round"`
	Vaults  map[string]VaultOutcome `json:"vaults"`
	Players []PlayerRoundRow        `json:"players,omitempty"`
}

type WealthPoint struct {
	Round  int     `json:"round"`
	Player string  `json:"player"`
	Cash   float64 `json:"cash"`
}

type Standing struct {
	Rank      int     `json:"rank"`
	PlayerID  int     `json:"player_id"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	Cash      float64 `json:"cash"`
	Sabotages int     `json:"sabotages"`
}

// LeaderboardView is only present once the game is over.
type LeaderboardView struct {
	Standings []Standing `json:"standings"`
	Winners   []int      `json:"winners"`
	Narrative string     `json:"narrative,omitempty"`
}

// Snapshot is the read-only projection of the session for one viewer.
type Snapshot struct {
	Version      int              `json:"version"`
	Round        int              `json:"round"`
	MaxRounds    int              `json:"max_rounds"`
	GameOver     bool             `json:"game_over"`
	Announcer    string           `json:"announcer"`
	ReadyCount   int              `json:"ready_count"`
	TotalPlayers int              `json:"total_players"`
	Vaults       []string         `json:"vaults"`
	Players      []PlayerPublic   `json:"players"`
	You          *PlayerPrivate   `json:"you,omitempty"`
	HostRows     []HostPlayerRow  `json:"host_rows,omitempty"`
	History      []RoundSummary   `json:"history"`
	Wealth       []WealthPoint    `json:"wealth,omitempty"`
	Leaderboard  *LeaderboardView `json:"leaderboard,omitempty"`
}
