package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrUnknownPlayer = errors.New("unknown player")
var ErrInvalidInvestChoice = errors.New("invalid investment choice")
var ErrInvalidSabotageChoice = errors.New("invalid sabotage choice")
var ErrNotReady = errors.New("not all players locked in")
var ErrGameOver = errors.New("game already over")
var ErrGameRunning = errors.New("game still in progress")
var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrSelfMessage = errors.New("cannot message yourself")
var ErrEmptyName = errors.New("name must not be empty")
var ErrRolesLocked = errors.New("roles locked after first resolution")

const (
	NumPlayers      = 5
	StartingCash    = 30.0
	Stake           = 10.0
	PassiveIncome   = 10.0
	FailBonus       = 10.0
	MessageCost     = 1.0
	BankruptcyFloor = 10.0
)

// HostSender is the sender id used for host messages; the host pays no fee.
const HostSender = 0

// VaultNames are the three fixed investment targets of a session.
var VaultNames = []string{"Vault A", "Vault B", "Vault C"}

const (
	ChoiceHoldCash = "Hold Cash"
	ChoiceNone     = "None"
)

type Role string

const (
	RoleMastermind Role = "Mastermind"
	RoleDetective  Role = "Detective"
	RoleAssociate  Role = "Associate"
)

type Player struct {
	ID              int
	Name            string
	Role            Role
	Cash            float64
	InvestChoice    string // vault name, ChoiceHoldCash, or "" while undecided
	SabotageChoice  string // vault name, ChoiceNone, or "" while undecided
	Inbox           []string
	Unread          int
	TotalSabotages  int
	BankruptWarning bool
}

// Locked reports whether the player has both decisions pending for this round.
func (p *Player) Locked() bool {
	return p.InvestChoice != "" && p.SabotageChoice != ""
}

type Rules struct {
	MaxRounds           int
	AllowMidGameShuffle bool
}

type State struct {
	Round     int
	GameOver  bool
	Players   map[int]*Player
	History   []RoundRecord
	Wealth    map[int][]float64
	Announcer string
	Rules     Rules
}

// NewState builds a fresh session: five players at starting cash, roles dealt
// immediately so there is always exactly one Mastermind and one Detective.
func NewState(rules Rules, rng RNG) *State {
	s := &State{
		Round:     1,
		Players:   make(map[int]*Player, NumPlayers),
		Wealth:    make(map[int][]float64, NumPlayers),
		Announcer: "Welcome to the Syndicate. Read the Dossier. Negotiate your positions. Round 1 begins.",
		Rules:     rules,
	}
	for id := 1; id <= NumPlayers; id++ {
		s.Players[id] = &Player{
			ID:   id,
			Name: fmt.Sprintf("Player %d", id),
			Cash: StartingCash,
		}
		s.Wealth[id] = []float64{StartingCash}
	}
	s.dealRoles(rng)
	return s
}

// PlayerIDs returns the roster ids in ascending order. Map iteration order is
// random, so every pass over the roster goes through here.
func (s *State) PlayerIDs() []int {
	ids := make([]int, 0, len(s.Players))
	for id := range s.Players {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func isVault(choice string) bool {
	return slices.Contains(VaultNames, choice)
}

// Submit records a player's pending decisions, overwriting any prior pair.
func (s *State) Submit(id int, invest, sabotage string) error {
	if s.GameOver {
		return ErrGameOver
	}
	p, ok := s.Players[id]
	if !ok {
		return ErrUnknownPlayer
	}
	if !isVault(invest) && invest != ChoiceHoldCash {
		return ErrInvalidInvestChoice
	}
	if !isVault(sabotage) && sabotage != ChoiceNone {
		return ErrInvalidSabotageChoice
	}
	p.InvestChoice = invest
	p.SabotageChoice = sabotage
	return nil
}

// ReadyCount is the number of players with both decisions locked in.
func (s *State) ReadyCount() int {
	n := 0
	for _, p := range s.Players {
		if p.Locked() {
			n++
		}
	}
	return n
}

// ShuffleRoles re-deals the hidden roles. Unless the rules allow mid-game
// shuffles, it is rejected once any round has been resolved.
func (s *State) ShuffleRoles(rng RNG) error {
	if s.GameOver {
		return ErrGameOver
	}
	if !s.Rules.AllowMidGameShuffle && len(s.History) > 0 {
		return ErrRolesLocked
	}
	s.dealRoles(rng)
	return nil
}

func (s *State) dealRoles(rng RNG) {
	roles := []Role{RoleMastermind, RoleDetective, RoleAssociate, RoleAssociate, RoleAssociate}
	rng.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})
	for i, id := range s.PlayerIDs() {
		s.Players[id].Role = roles[i]
	}
}

// Rename sets a player's display name.
func (s *State) Rename(id int, name string) error {
	p, ok := s.Players[id]
	if !ok {
		return ErrUnknownPlayer
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// SendMessage delivers a private message to target's inbox. Player senders are
// debited MessageCost up front; the host (from == HostSender) sends for free.
func (s *State) SendMessage(from, target int, text string) error {
	t, ok := s.Players[target]
	if !ok {
		return ErrUnknownPlayer
	}
	if from == HostSender {
		t.Inbox = append(t.Inbox, "FROM HOST: "+text)
		t.Unread++
		return nil
	}
	sender, ok := s.Players[from]
	if !ok {
		return ErrUnknownPlayer
	}
	if from == target {
		return ErrSelfMessage
	}
	if sender.Cash < MessageCost {
		return ErrInsufficientFunds
	}
	sender.Cash -= MessageCost
	t.Inbox = append(t.Inbox, fmt.Sprintf("From %s: %s", sender.Name, text))
	t.Unread++
	return nil
}

// MarkInboxRead zeroes the unread counter; called when the player reveals
// their inbox, not on delivery.
func (s *State) MarkInboxRead(id int) error {
	p, ok := s.Players[id]
	if !ok {
		return ErrUnknownPlayer
	}
	p.Unread = 0
	return nil
}

// AckBankruptcyWarning clears the one-shot warning after it has been shown.
func (s *State) AckBankruptcyWarning(id int) error {
	p, ok := s.Players[id]
	if !ok {
		return ErrUnknownPlayer
	}
	p.BankruptWarning = false
	return nil
}

// Title is the street rank a player's wealth earns them.
func Title(cash float64) string {
	switch {
	case cash <= 10.0:
		return "Liability"
	case cash <= 30.0:
		return "Associate"
	case cash <= 60.0:
		return "Senior Partner"
	default:
		return "Underboss"
	}
}

// Clone deep-copies the state so snapshots never alias live data.
func (s *State) Clone() *State {
	c := &State{
		Round:     s.Round,
		GameOver:  s.GameOver,
		Players:   make(map[int]*Player, len(s.Players)),
		History:   make([]RoundRecord, len(s.History)),
		Wealth:    make(map[int][]float64, len(s.Wealth)),
		Announcer: s.Announcer,
		Rules:     s.Rules,
	}
	for id, p := range s.Players {
		cp := *p
		cp.Inbox = slices.Clone(p.Inbox)
		c.Players[id] = &cp
	}
	for i, rec := range s.History {
		c.History[i] = rec.clone()
	}
	for id, series := range s.Wealth {
		c.Wealth[id] = slices.Clone(series)
	}
	return c
}
