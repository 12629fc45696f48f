package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/syndicategame/syndicate-backend/internal/auth"
	"github.com/syndicategame/syndicate-backend/internal/session"
	"github.com/syndicategame/syndicate-backend/internal/types"
)

// Handler upgrades a client to a websocket, joins it to the session, streams
// versioned snapshots scoped to its identity, and feeds its commands into the
// session loop. Rejections come back as Error frames on the same socket.
func Handler(gate *auth.Gate, sess *session.Session, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := gate.Verify(r.URL.Query().Get("pin"))
		if !ok {
			http.Error(w, "access denied", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan types.Snapshot, 8)
		clientID := uuid.NewString()

		sess.Inbox() <- session.Join{ClientID: clientID, Identity: id, Outbox: out}
		defer func() { sess.Inbox() <- session.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, Snapshot: &snap}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeErr(r.Context(), conn, "bad json")
				continue
			}

			msg, reply, ok := toSessionMsg(id, cm)
			if !ok {
				writeErr(r.Context(), conn, "unknown or unauthorized type")
				continue
			}
			sess.Inbox() <- msg
			if err := <-reply; err != nil {
				log.Debug("command rejected",
					zap.String("type", cm.Type),
					zap.Error(err))
				writeErr(r.Context(), conn, err.Error())
			}
		}
	}
}

func writeErr(ctx context.Context, conn *websocket.Conn, text string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: "Error", Error: text})
	_ = conn.Write(ctx, websocket.MessageText, payload)
}

// toSessionMsg maps a wire command to a session message, enforcing who may
// send what: players act on their own seat, the host drives the game.
func toSessionMsg(id auth.Identity, m types.ClientMessage) (session.Msg, chan error, bool) {
	reply := make(chan error, 1)
	switch m.Type {
	case "SubmitActions":
		if id.Host {
			return nil, nil, false
		}
		return session.SubmitActions{PlayerID: id.PlayerID, Invest: m.Invest, Sabotage: m.Sabotage, Reply: reply}, reply, true
	case "SendMessage":
		return session.SendMessage{From: id, TargetID: m.TargetID, Text: m.Text, Reply: reply}, reply, true
	case "MarkInboxRead":
		if id.Host {
			return nil, nil, false
		}
		return session.MarkInboxRead{PlayerID: id.PlayerID, Reply: reply}, reply, true
	case "AckBankruptcy":
		if id.Host {
			return nil, nil, false
		}
		return session.AckBankruptcy{PlayerID: id.PlayerID, Reply: reply}, reply, true
	case "ResolveRound":
		if !id.Host {
			return nil, nil, false
		}
		return session.ResolveRound{Reply: reply}, reply, true
	case "ShuffleRoles":
		if !id.Host {
			return nil, nil, false
		}
		return session.ShuffleRoles{Reply: reply}, reply, true
	case "RenamePlayer":
		if !id.Host {
			return nil, nil, false
		}
		return session.RenamePlayer{PlayerID: m.PlayerID, Name: m.Name, Reply: reply}, reply, true
	default:
		return nil, nil, false
	}
}
