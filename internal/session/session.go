// Package session owns the authoritative game state. A single goroutine
// processes every mutation from its inbox one at a time, which is the entire
// concurrency story: host and player requests arrive from independent
// connections and are serialized here.
package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/syndicategame/syndicate-backend/internal/auth"
	"github.com/syndicategame/syndicate-backend/internal/engine"
	"github.com/syndicategame/syndicate-backend/internal/types"
)

type Msg interface{ isSessionMsg() }

// Join registers a client connection; the current snapshot for its identity is
// sent immediately.
type Join struct {
	ClientID string
	Identity auth.Identity
	Outbox   chan types.Snapshot
}

type Leave struct{ ClientID string }

// SubmitActions records a player's pending decisions for this round.
type SubmitActions struct {
	PlayerID int
	Invest   string
	Sabotage string
	Reply    chan error
}

// ResolveRound runs one round; rejected unless all players are locked in.
type ResolveRound struct{ Reply chan error }

// SendMessage delivers a paid private message (free for the host).
type SendMessage struct {
	From     auth.Identity
	TargetID int
	Text     string
	Reply    chan error
}

type ShuffleRoles struct{ Reply chan error }

type RenamePlayer struct {
	PlayerID int
	Name     string
	Reply    chan error
}

type MarkInboxRead struct {
	PlayerID int
	Reply    chan error
}

type AckBankruptcy struct {
	PlayerID int
	Reply    chan error
}

// HardReset discards the whole game state and starts over. The caller is
// responsible for host authentication.
type HardReset struct{ Reply chan error }

// GetSnapshot is the poll endpoint's read: a consistent view between writes.
type GetSnapshot struct {
	Identity auth.Identity
	Reply    chan types.Snapshot
}

type Shutdown struct{}

func (Join) isSessionMsg()          {}
func (Leave) isSessionMsg()         {}
func (SubmitActions) isSessionMsg() {}
func (ResolveRound) isSessionMsg()  {}
func (SendMessage) isSessionMsg()   {}
func (ShuffleRoles) isSessionMsg()  {}
func (RenamePlayer) isSessionMsg()  {}
func (MarkInboxRead) isSessionMsg() {}
func (AckBankruptcy) isSessionMsg() {}
func (HardReset) isSessionMsg()     {}
func (GetSnapshot) isSessionMsg()   {}
func (Shutdown) isSessionMsg()      {}

type client struct {
	identity auth.Identity
	outbox   chan types.Snapshot
}

type Session struct {
	inbox   chan Msg
	state   *engine.State
	rules   engine.Rules
	rng     engine.RNG
	version int
	clients map[string]client
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, rules engine.Rules, rng engine.RNG, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		inbox:   make(chan Msg, 64),
		state:   engine.NewState(rules, rng),
		rules:   rules,
		rng:     rng,
		clients: make(map[string]client),
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	go s.loop()
	return s
}

// Inbox is where handlers and tests send messages.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.clients[msg.ClientID] = client{identity: msg.Identity, outbox: msg.Outbox}
				msg.Outbox <- s.snapshotFor(msg.Identity)

			case Leave:
				delete(s.clients, msg.ClientID)

			case SubmitActions:
				err := s.state.Submit(msg.PlayerID, msg.Invest, msg.Sabotage)
				s.reply(msg.Reply, err)
				s.commit(err)

			case ResolveRound:
				rec, err := s.state.Resolve(s.rng)
				if err == nil {
					s.log.Info("round resolved",
						zap.Int("round", rec.Round),
						zap.Bool("game_over", s.state.GameOver))
				}
				s.reply(msg.Reply, err)
				s.commit(err)

			case SendMessage:
				from := engine.HostSender
				if !msg.From.Host {
					from = msg.From.PlayerID
				}
				err := s.state.SendMessage(from, msg.TargetID, msg.Text)
				s.reply(msg.Reply, err)
				s.commit(err)

			case ShuffleRoles:
				err := s.state.ShuffleRoles(s.rng)
				s.reply(msg.Reply, err)
				s.commit(err)

			case RenamePlayer:
				err := s.state.Rename(msg.PlayerID, msg.Name)
				s.reply(msg.Reply, err)
				s.commit(err)

			case MarkInboxRead:
				err := s.state.MarkInboxRead(msg.PlayerID)
				s.reply(msg.Reply, err)
				s.commit(err)

			case AckBankruptcy:
				err := s.state.AckBankruptcyWarning(msg.PlayerID)
				s.reply(msg.Reply, err)
				s.commit(err)

			case HardReset:
				s.state = engine.NewState(s.rules, s.rng)
				s.log.Info("hard reset applied")
				s.reply(msg.Reply, nil)
				s.commit(nil)

			case GetSnapshot:
				msg.Reply <- s.snapshotFor(msg.Identity)

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) reply(ch chan error, err error) {
	if ch != nil {
		ch <- err
	}
}

// commit bumps the version and rebroadcasts after a successful mutation.
// Rejections leave state untouched, so nothing is sent.
func (s *Session) commit(err error) {
	if err != nil {
		return
	}
	s.version++
	s.broadcast()
}

func (s *Session) broadcast() {
	for id, c := range s.clients {
		select {
		case c.outbox <- s.snapshotFor(c.identity):
			// ok
		default:
			// Client is slow/full - drop them.
			close(c.outbox)
			delete(s.clients, id)
			s.log.Warn("dropped slow client", zap.String("client_id", id))
		}
	}
}

func (s *Session) shutdown() {
	for id, c := range s.clients {
		close(c.outbox)
		delete(s.clients, id)
	}
	s.cancel()
}
