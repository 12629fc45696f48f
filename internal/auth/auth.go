// Package auth implements the PIN gate in front of the game session. PINs are
// shared secrets handed out by the host; brute-force protection is deliberately
// out of scope.
package auth

import (
	"errors"
	"maps"
	"sync"
)

var ErrUnknownPlayer = errors.New("unknown player")

// Identity is the result of a successful PIN check: either the host or one of
// the numbered player seats.
type Identity struct {
	Host     bool
	PlayerID int
}

// Gate verifies PINs and lets the host rotate player PINs at runtime.
type Gate struct {
	mu         sync.RWMutex
	hostPIN    string
	playerPINs map[int]string

	defaultPINs map[int]string
}

func NewGate(hostPIN string, playerPINs map[int]string) *Gate {
	return &Gate{
		hostPIN:     hostPIN,
		playerPINs:  maps.Clone(playerPINs),
		defaultPINs: maps.Clone(playerPINs),
	}
}

// Verify resolves a PIN to an identity. ok is false when the PIN matches
// nobody; no attempt counting, no lockout.
func (g *Gate) Verify(pin string) (Identity, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if pin == g.hostPIN {
		return Identity{Host: true}, true
	}
	for id, p := range g.playerPINs {
		if pin == p {
			return Identity{PlayerID: id}, true
		}
	}
	return Identity{}, false
}

// VerifyHost reports whether the PIN is the host PIN. Hard reset re-checks it
// even on an already host-authenticated request.
func (g *Gate) VerifyHost(pin string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return pin == g.hostPIN
}

// SetPlayerPIN rotates one player's PIN.
func (g *Gate) SetPlayerPIN(id int, pin string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.playerPINs[id]; !ok {
		return ErrUnknownPlayer
	}
	g.playerPINs[id] = pin
	return nil
}

// Reset restores the player PINs the gate was constructed with.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.playerPINs = maps.Clone(g.defaultPINs)
}
