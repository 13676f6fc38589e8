package handler

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/booster-draft/internal/auth"
	"github.com/palemoky/booster-draft/internal/game/draft"
	"github.com/palemoky/booster-draft/internal/protocol"
	"github.com/palemoky/booster-draft/internal/protocol/codec"
	"github.com/palemoky/booster-draft/internal/testutil"
)

// routeNotifier 把会话推送转给对应的 SimpleClient
type routeNotifier struct {
	mu      sync.Mutex
	clients map[string]*testutil.SimpleClient
}

func (n *routeNotifier) get(id string) *testutil.SimpleClient {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.clients[id]
}

func (n *routeNotifier) Send(connID string, msg *protocol.Message) {
	if c := n.get(connID); c != nil {
		c.SendMessage(msg)
	}
}

func (n *routeNotifier) Kick(connID string, msg *protocol.Message) {
	if c := n.get(connID); c != nil {
		c.SendMessage(msg)
		c.Close()
	}
}

type fixture struct {
	handler  *Handler
	server   *testutil.MockServer
	registry *draft.Registry
	tokens   *auth.Issuer
	notifier *routeNotifier
}

func newFixture(t *testing.T, maintenance bool) *fixture {
	t.Helper()

	cfg := draft.Config{PackSize: 2, Rounds: 1, MaxPlayers: 2, Seed: 1, Grace: time.Hour, PrefillBots: true}
	notifier := &routeNotifier{clients: make(map[string]*testutil.SimpleClient)}
	reg := draft.NewRegistry(cfg, testutil.NewStaticCatalog(4), notifier, nil)
	t.Cleanup(reg.Close)

	tokens, err := auth.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	server := new(testutil.MockServer)
	server.On("IsMaintenanceMode").Return(maintenance).Maybe()

	return &fixture{
		handler:  NewHandler(HandlerDeps{Server: server, Registry: reg, Tokens: tokens}),
		server:   server,
		registry: reg,
		tokens:   tokens,
		notifier: notifier,
	}
}

func (f *fixture) client(id string) *testutil.SimpleClient {
	c := testutil.NewSimpleClient(id)
	f.notifier.mu.Lock()
	f.notifier.clients[id] = c
	f.notifier.mu.Unlock()
	return c
}

func (f *fixture) createSession(t *testing.T) string {
	t.Helper()
	s, err := f.registry.Create(context.Background())
	require.NoError(t, err)
	return s.ID
}

func (f *fixture) send(c *testutil.SimpleClient, msgType protocol.MessageType, payload any) {
	f.handler.Handle(c, codec.MustNewMessage(msgType, payload))
}

func decode[T any](t *testing.T, msg *protocol.Message) T {
	t.Helper()
	require.NotNil(t, msg)
	var out T
	require.NoError(t, json.Unmarshal(msg.Payload, &out))
	return out
}

func lastErrorCode(t *testing.T, c *testutil.SimpleClient, msgType protocol.MessageType) int {
	t.Helper()
	return decode[protocol.ErrorPayload](t, c.Last(msgType)).Code
}

func TestHandle_UnknownType(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	c := f.client("c1")

	f.handler.Handle(c, &protocol.Message{Type: "bogus"})
	assert.Equal(t, protocol.ErrCodeInvalidMsg, lastErrorCode(t, c, protocol.MsgSessionError))
}

func TestHandle_MalformedPayload(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	c := f.client("c1")

	f.handler.Handle(c, &protocol.Message{Type: protocol.MsgJoinSession, Payload: json.RawMessage(`[1,2]`)})
	assert.Equal(t, protocol.ErrCodeInvalidMsg, lastErrorCode(t, c, protocol.MsgSessionError))
}

func TestHandlePing(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	c := f.client("c1")

	f.send(c, protocol.MsgPing, protocol.PingPayload{Timestamp: 1234})

	pong := decode[protocol.PongPayload](t, c.Last(protocol.MsgPong))
	assert.Equal(t, int64(1234), pong.ClientTimestamp)
	assert.Positive(t, pong.ServerTimestamp)
}

func TestHandleJoin(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	id := f.createSession(t)
	c := f.client("c1")

	f.send(c, protocol.MsgJoinSession, protocol.JoinSessionPayload{SessionID: id, PlayerName: "  alice  "})

	authed := decode[protocol.AuthenticatedPayload](t, c.Last(protocol.MsgAuthenticated))
	assert.Equal(t, id, authed.SessionID)
	assert.Equal(t, "alice", authed.PlayerName)

	claims, err := f.tokens.Verify(authed.Token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.SessionID)

	state := decode[protocol.SessionStatePayload](t, c.Last(protocol.MsgSessionState))
	require.NotNil(t, state.Owner)
	assert.Equal(t, "alice", *state.Owner)
}

func TestHandleJoin_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		maintenance bool
		sessionID   string
		playerName  string
		wantCode    int
	}{
		{"maintenance", true, "", "alice", protocol.ErrCodeMaintenance},
		{"empty name", false, "", "   ", protocol.ErrCodeInvalidMsg},
		{"name too long", false, "", "abcdefghijklmnopqrstuvwxyz0123456789", protocol.ErrCodeInvalidMsg},
		{"unknown session", false, "nosuch", "alice", protocol.ErrCodeSessionInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, tt.maintenance)
			id := tt.sessionID
			if id == "" {
				id = f.createSession(t)
			}
			c := f.client("c1")

			f.send(c, protocol.MsgJoinSession, protocol.JoinSessionPayload{SessionID: id, PlayerName: tt.playerName})
			assert.Equal(t, tt.wantCode, lastErrorCode(t, c, protocol.MsgSessionError))
			assert.Nil(t, c.Last(protocol.MsgAuthenticated))
		})
	}
}

func TestHandleJoin_SessionFull(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	id := f.createSession(t)
	for _, name := range []string{"alice", "bob"} {
		f.send(f.client(name), protocol.MsgJoinSession, protocol.JoinSessionPayload{SessionID: id, PlayerName: name})
	}

	carol := f.client("carol")
	f.send(carol, protocol.MsgJoinSession, protocol.JoinSessionPayload{SessionID: id, PlayerName: "carol"})
	assert.Equal(t, protocol.ErrCodeSessionFull, lastErrorCode(t, carol, protocol.MsgSessionError))
}

func TestDraftFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	id := f.createSession(t)
	alice, bob := f.client("c1"), f.client("c2")
	ref := protocol.SessionRefPayload{SessionID: id}

	f.send(alice, protocol.MsgJoinSession, protocol.JoinSessionPayload{SessionID: id, PlayerName: "alice"})
	f.send(bob, protocol.MsgJoinSession, protocol.JoinSessionPayload{SessionID: id, PlayerName: "bob"})

	// Picking in an unknown session
	f.send(alice, protocol.MsgPickCard, protocol.PickCardPayload{SessionID: "nosuch", CardID: 0})
	assert.Equal(t, protocol.ErrCodeSessionInvalid, lastErrorCode(t, alice, protocol.MsgDraftError))

	// Picking before the start
	f.send(alice, protocol.MsgPickCard, protocol.PickCardPayload{SessionID: id, CardID: 0})
	assert.Equal(t, protocol.ErrCodeDraftNotStarted, lastErrorCode(t, alice, protocol.MsgDraftError))

	f.send(alice, protocol.MsgReady, ref)
	f.send(alice, protocol.MsgStartDraft, ref)
	assert.Equal(t, protocol.ErrCodeCannotStart, lastErrorCode(t, alice, protocol.MsgSessionError))

	f.send(bob, protocol.MsgReady, ref)
	state := decode[protocol.SessionStatePayload](t, alice.Last(protocol.MsgSessionState))
	assert.True(t, state.CanStart)

	f.send(alice, protocol.MsgStartDraft, ref)
	draftState := decode[protocol.DraftStatePayload](t, bob.Last(protocol.MsgDraftState))
	require.Len(t, draftState.Pack, 2)

	f.send(bob, protocol.MsgPickCard, protocol.PickCardPayload{SessionID: id, CardID: 5})
	assert.Equal(t, protocol.ErrCodeCardNotAvailable, lastErrorCode(t, bob, protocol.MsgDraftError))

	for range 2 {
		f.send(alice, protocol.MsgPickCard, protocol.PickCardPayload{SessionID: id, CardID: decode[protocol.DraftStatePayload](t, alice.Last(protocol.MsgDraftState)).Pack[0].ID})
		f.send(bob, protocol.MsgPickCard, protocol.PickCardPayload{SessionID: id, CardID: decode[protocol.DraftStatePayload](t, bob.Last(protocol.MsgDraftState)).Pack[0].ID})
	}

	final := decode[protocol.DraftStatePayload](t, alice.Last(protocol.MsgDraftState))
	assert.True(t, final.DraftFinished)
	assert.Len(t, final.Picks, 2)

	f.send(alice, protocol.MsgPickCard, protocol.PickCardPayload{SessionID: id, CardID: 0})
	assert.Equal(t, protocol.ErrCodeDraftFinished, lastErrorCode(t, alice, protocol.MsgDraftError))
}

func TestHandleKickAndReorder(t *testing.T) {
	t.Parallel()

	cfg := draft.Config{PackSize: 1, Rounds: 1, MaxPlayers: 3, Seed: 1, Grace: time.Hour, PrefillBots: true}
	f := newFixture(t, false)
	reg := draft.NewRegistry(cfg, testutil.NewStaticCatalog(3), f.notifier, nil)
	t.Cleanup(reg.Close)
	f.registry = reg
	f.handler = NewHandler(HandlerDeps{Server: f.server, Registry: reg, Tokens: f.tokens})

	id := f.createSession(t)
	alice, bob := f.client("c1"), f.client("c2")
	f.send(alice, protocol.MsgJoinSession, protocol.JoinSessionPayload{SessionID: id, PlayerName: "alice"})
	f.send(bob, protocol.MsgJoinSession, protocol.JoinSessionPayload{SessionID: id, PlayerName: "bob"})

	f.send(alice, protocol.MsgReorderPlayer, protocol.ReorderPlayerPayload{SessionID: id, PlayerName: "bob", Direction: "left"})
	assert.Equal(t, protocol.ErrCodeInvalidMsg, lastErrorCode(t, alice, protocol.MsgSessionError))

	f.send(alice, protocol.MsgReorderPlayer, protocol.ReorderPlayerPayload{SessionID: id, PlayerName: "bob", Direction: protocol.DirectionUp})
	state := decode[protocol.SessionStatePayload](t, alice.Last(protocol.MsgSessionState))
	assert.Equal(t, "bob", state.Players[0].Name)
	assert.Equal(t, "alice", state.Players[1].Name)

	f.send(alice, protocol.MsgKickPlayer, protocol.KickPlayerPayload{SessionID: id, PlayerName: "bob"})
	assert.True(t, bob.Closed())
	assert.Equal(t, protocol.ErrCodeKicked, lastErrorCode(t, bob, protocol.MsgSessionError))

	state = decode[protocol.SessionStatePayload](t, alice.Last(protocol.MsgSessionState))
	assert.True(t, state.Players[0].Bot)
}

func TestHandleLeave(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	id := f.createSession(t)
	alice := f.client("c1")

	f.send(alice, protocol.MsgJoinSession, protocol.JoinSessionPayload{SessionID: id, PlayerName: "alice"})
	f.send(alice, protocol.MsgLeaveSession, protocol.SessionRefPayload{SessionID: id})

	assert.Nil(t, f.registry.Get(id))

	f.send(alice, protocol.MsgReady, protocol.SessionRefPayload{SessionID: id})
	assert.Equal(t, protocol.ErrCodeSessionInvalid, lastErrorCode(t, alice, protocol.MsgSessionError))
}

func TestHandleAuthenticate(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	id := f.createSession(t)
	first := f.client("c1")
	f.send(first, protocol.MsgJoinSession, protocol.JoinSessionPayload{SessionID: id, PlayerName: "alice"})
	token := decode[protocol.AuthenticatedPayload](t, first.Last(protocol.MsgAuthenticated)).Token

	f.registry.Disconnect("c1")

	second := f.client("c9")
	f.send(second, protocol.MsgAuthenticate, protocol.AuthenticatePayload{Token: token})

	authed := decode[protocol.AuthenticatedPayload](t, second.Last(protocol.MsgAuthenticated))
	assert.Equal(t, "alice", authed.PlayerName)
	state := decode[protocol.SessionStatePayload](t, second.Last(protocol.MsgSessionState))
	assert.True(t, state.Players[0].Connected)
	assert.Nil(t, state.Players[0].Disconnected)

	third := f.client("c3")
	f.send(third, protocol.MsgAuthenticate, protocol.AuthenticatePayload{Token: "garbage"})
	assert.Equal(t, protocol.ErrCodeUnauthenticated, lastErrorCode(t, third, protocol.MsgSessionError))

	other, err := f.tokens.Issue(id, "mallory")
	require.NoError(t, err)
	f.send(third, protocol.MsgAuthenticate, protocol.AuthenticatePayload{Token: other})
	assert.Equal(t, protocol.ErrCodeSessionInvalid, lastErrorCode(t, third, protocol.MsgSessionError))
}
