package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/syndicategame/syndicate-backend/internal/auth"
	"github.com/syndicategame/syndicate-backend/internal/engine"
	"github.com/syndicategame/syndicate-backend/internal/session"
	"github.com/syndicategame/syndicate-backend/internal/types"
)

// pinHeader carries the caller's PIN on every authenticated request. There is
// no session token layer; the gate is cheap and the PIN set is tiny.
const pinHeader = "X-Auth-PIN"

func identify(gate *auth.Gate, r *http.Request) (auth.Identity, bool) {
	return gate.Verify(r.Header.Get(pinHeader))
}

// statusFor maps the engine's error taxonomy onto HTTP: validation errors are
// 400s, precondition violations 409s, insufficient funds 402, unknown player
// 404.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrUnknownPlayer):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrNotReady),
		errors.Is(err, engine.ErrGameOver),
		errors.Is(err, engine.ErrGameRunning),
		errors.Is(err, engine.ErrRolesLocked):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// ask sends a message to the session and waits for its reply.
func ask(sess *session.Session, build func(reply chan error) session.Msg) error {
	reply := make(chan error, 1)
	sess.Inbox() <- build(reply)
	return <-reply
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Login resolves a PIN to an identity so clients know which view to render.
func Login(gate *auth.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PIN string `json:"pin"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		id, ok := gate.Verify(req.PIN)
		if !ok {
			http.Error(w, "access denied", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"host":      id.Host,
			"player_id": id.PlayerID,
		})
	}
}

// GetState returns the caller's view of the session.
func GetState(gate *auth.Gate, sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identify(gate, r)
		if !ok {
			http.Error(w, "access denied", http.StatusUnauthorized)
			return
		}
		reply := make(chan types.Snapshot, 1)
		sess.Inbox() <- session.GetSnapshot{Identity: id, Reply: reply}
		writeJSON(w, http.StatusOK, <-reply)
	}
}

// SubmitActions locks in the calling player's decisions for this round.
func SubmitActions(gate *auth.Gate, sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identify(gate, r)
		if !ok || id.Host {
			http.Error(w, "players only", http.StatusForbidden)
			return
		}
		var req struct {
			Invest   string `json:"invest"`
			Sabotage string `json:"sabotage"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		err := ask(sess, func(reply chan error) session.Msg {
			return session.SubmitActions{PlayerID: id.PlayerID, Invest: req.Invest, Sabotage: req.Sabotage, Reply: reply}
		})
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ResolveRound runs a round. Host-only; the session rejects it unless every
// player is locked in.
func ResolveRound(gate *auth.Gate, sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identify(gate, r)
		if !ok || !id.Host {
			http.Error(w, "host only", http.StatusForbidden)
			return
		}
		err := ask(sess, func(reply chan error) session.Msg {
			return session.ResolveRound{Reply: reply}
		})
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// SendMessage delivers a private message; player senders pay the fee.
func SendMessage(gate *auth.Gate, sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identify(gate, r)
		if !ok {
			http.Error(w, "access denied", http.StatusUnauthorized)
			return
		}
		var req struct {
			TargetID int    `json:"target_id"`
			Text     string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		err := ask(sess, func(reply chan error) session.Msg {
			return session.SendMessage{From: id, TargetID: req.TargetID, Text: req.Text, Reply: reply}
		})
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// MarkInboxRead zeroes the caller's unread counter after they reveal their
// inbox.
func MarkInboxRead(gate *auth.Gate, sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identify(gate, r)
		if !ok || id.Host {
			http.Error(w, "players only", http.StatusForbidden)
			return
		}
		err := ask(sess, func(reply chan error) session.Msg {
			return session.MarkInboxRead{PlayerID: id.PlayerID, Reply: reply}
		})
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AckBankruptcy clears the one-shot warning after the client has shown it.
func AckBankruptcy(gate *auth.Gate, sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identify(gate, r)
		if !ok || id.Host {
			http.Error(w, "players only", http.StatusForbidden)
			return
		}
		err := ask(sess, func(reply chan error) session.Msg {
			return session.AckBankruptcy{PlayerID: id.PlayerID, Reply: reply}
		})
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ShuffleRoles re-deals the hidden roles. Rejected mid-game unless configured
// otherwise.
func ShuffleRoles(gate *auth.Gate, sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identify(gate, r)
		if !ok || !id.Host {
			http.Error(w, "host only", http.StatusForbidden)
			return
		}
		err := ask(sess, func(reply chan error) session.Msg {
			return session.ShuffleRoles{Reply: reply}
		})
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// RenamePlayer sets a player's display name.
func RenamePlayer(gate *auth.Gate, sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identify(gate, r)
		if !ok || !id.Host {
			http.Error(w, "host only", http.StatusForbidden)
			return
		}
		playerID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "bad player id", http.StatusBadRequest)
			return
		}
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		err = ask(sess, func(reply chan error) session.Msg {
			return session.RenamePlayer{PlayerID: playerID, Name: req.Name, Reply: reply}
		})
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// SetPlayerPIN rotates a player's PIN. PINs live in the gate, not the game
// state, so this bypasses the session actor.
func SetPlayerPIN(gate *auth.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identify(gate, r)
		if !ok || !id.Host {
			http.Error(w, "host only", http.StatusForbidden)
			return
		}
		playerID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "bad player id", http.StatusBadRequest)
			return
		}
		var req struct {
			PIN string `json:"pin"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PIN == "" {
			http.Error(w, "bad pin", http.StatusBadRequest)
			return
		}
		if err := gate.SetPlayerPIN(playerID, req.PIN); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HardReset wipes the session back to its starting configuration. The host PIN
// must be re-supplied in the body as confirmation.
func HardReset(gate *auth.Gate, sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PIN string `json:"pin"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if !gate.VerifyHost(req.PIN) {
			http.Error(w, "invalid pin", http.StatusForbidden)
			return
		}
		err := ask(sess, func(reply chan error) session.Msg {
			return session.HardReset{Reply: reply}
		})
		if err != nil {
			writeError(w, err)
			return
		}
		gate.Reset()
		w.WriteHeader(http.StatusNoContent)
	}
}
