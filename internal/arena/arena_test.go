package arena

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-arena/internal/combat"
	"github.com/pixil98/go-arena/internal/driver"
	"github.com/pixil98/go-arena/internal/game"
	"github.com/pixil98/go-arena/internal/loot"
	"github.com/pixil98/go-arena/internal/physics"
	"github.com/pixil98/go-arena/internal/protocol"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type frame struct {
	conn     game.ConnectionID
	volatile bool
	in       protocol.Inbound
}

type recordingTransport struct {
	mu     sync.Mutex
	frames []frame
}

func (r *recordingTransport) Send(conn game.ConnectionID, data []byte) error {
	return r.record(conn, data, false)
}

func (r *recordingTransport) SendVolatile(conn game.ConnectionID, data []byte) error {
	return r.record(conn, data, true)
}

func (r *recordingTransport) record(conn game.ConnectionID, data []byte, volatile bool) error {
	in, err := protocol.JSON{}.Decode(data)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame{conn: conn, volatile: volatile, in: in})
	return nil
}

// types lists the message types a connection received, in order.
func (r *recordingTransport) types(conn game.ConnectionID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, f := range r.frames {
		if f.conn == conn {
			out = append(out, f.in.Type)
		}
	}
	return out
}

func (r *recordingTransport) last(conn game.ConnectionID, t string) (protocol.Inbound, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.frames) - 1; i >= 0; i-- {
		if f := r.frames[i]; f.conn == conn && f.in.Type == t {
			return f.in, true
		}
	}
	return protocol.Inbound{}, false
}

func (r *recordingTransport) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = nil
}

type fixture struct {
	arena *Arena
	tr    *recordingTransport
	clock *fakeClock
}

func newFixture(t *testing.T, mutate func(*Config)) *fixture {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	f := &fixture{
		tr:    &recordingTransport{},
		clock: &fakeClock{now: time.Unix(0, 0)},
	}
	a, err := New(context.Background(), cfg, f.tr,
		WithLoopOpts(driver.WithClock(f.clock)),
		WithLootOpts(loot.WithRand(rand.New(rand.NewPCG(1, 1)))),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.arena = a
	return f
}

func (f *fixture) connect(t *testing.T, conn game.ConnectionID) *game.Entity {
	t.Helper()
	id, err := f.arena.connect(context.Background(), conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e, ok := f.arena.world.Find(id)
	if !ok {
		t.Fatalf("player %d not in play", id)
	}
	return e
}

func (f *fixture) advance(t *testing.T, d time.Duration) {
	t.Helper()
	f.clock.advance(d)
	if err := f.arena.loop.RunDue(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestClassify(t *testing.T) {
	w := game.NewWorld(physics.NewEngine(), game.DefaultShapes())
	mk := func(kind game.Kind) *game.Entity {
		e, err := w.NewEntity(kind, physics.Vector{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return e
	}
	player, other, worm, token, bag := mk(game.KindPlayer), mk(game.KindPlayer), mk(game.KindWorm), mk(game.KindToken), mk(game.KindBag)

	tests := map[string]struct {
		a, b      *game.Entity
		expRoute  Route
		expFirst  *game.Entity
		expSecond *game.Entity
	}{
		"player then loot": {a: player, b: token, expRoute: RoutePickup, expFirst: player, expSecond: token},
		"loot then player": {a: bag, b: player, expRoute: RoutePickup, expFirst: player, expSecond: bag},
		"two players":      {a: player, b: other, expRoute: RouteStab, expFirst: player, expSecond: other},
		"player and npc":   {a: worm, b: player, expRoute: RouteStab, expFirst: worm, expSecond: player},
		"npc and loot":     {a: worm, b: token, expRoute: RouteDiscard},
		"two loot":         {a: token, b: bag, expRoute: RouteDiscard},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			route, first, second := Classify(tt.a, tt.b)
			testutil.AssertEqual(t, "route", route, tt.expRoute)
			testutil.AssertEqual(t, "first", first, tt.expFirst)
			testutil.AssertEqual(t, "second", second, tt.expSecond)
		})
	}
}

func TestArena_New(t *testing.T) {
	f := newFixture(t, nil)

	testutil.AssertEqual(t, "population", len(f.arena.world.Dynamic()), len(loot.DefaultPopulation))
	testutil.AssertEqual(t, "terrain", len(f.arena.world.Terrain()), 3)

	_, err := New(context.Background(), DefaultConfig(), f.tr, WithShapes(game.Shapes{}))
	testutil.AssertErrorContains(t, err, "validating shapes")
}

func TestArena_Connect(t *testing.T) {
	f := newFixture(t, nil)
	pop := len(loot.DefaultPopulation)

	first := f.connect(t, "c1")
	testutil.AssertEqual(t, "first conn", f.tr.types("c1"), append(repeat(protocol.MsgAdd, pop+1), protocol.MsgID))
	testutil.AssertEqual(t, "first nickname", first.Player.Nickname, game.DefaultNickname(first.ID))
	testutil.AssertEqual(t, "first position", first.Body.Position(), DefaultSpawnPoint)

	f.tr.reset()
	second := f.connect(t, "c2")
	testutil.AssertEqual(t, "second conn", f.tr.types("c2"), append(repeat(protocol.MsgAdd, pop+2), protocol.MsgID))
	testutil.AssertEqual(t, "first conn sees join", f.tr.types("c1"), []string{protocol.MsgAdd})

	in, _ := f.tr.last("c2", protocol.MsgID)
	id, err := protocol.DecodePayload[uint32](in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "id", game.EntityID(id), second.ID)

	in, _ = f.tr.last("c1", protocol.MsgAdd)
	add, _ := protocol.DecodePayload[protocol.Add](in)
	testutil.AssertEqual(t, "add", add, protocol.Add{ID: uint32(second.ID), Kind: "player", X: 0, Y: -1000})
}

func TestArena_ApplyControls(t *testing.T) {
	tests := map[string]struct {
		controls  game.Controls
		expTorque float64
		expForce  physics.Vector
	}{
		"idle": {},
		"rotate left": {
			controls:  game.Controls{RotateLeft: true},
			expTorque: -RotateTorque,
		},
		"rotate right wins": {
			controls:  game.Controls{RotateLeft: true, RotateRight: true},
			expTorque: RotateTorque,
		},
		"thrust": {
			controls: game.Controls{Thrust: true},
			expForce: physics.Vector{X: 0, Y: -ThrustForce},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, nil)
			p := f.connect(t, "c1")
			p.Player.Controls = tt.controls

			f.arena.applyControls()

			testutil.AssertEqual(t, "torque", p.Body.Torque(), tt.expTorque)
			testutil.AssertEqual(t, "force", p.Body.Force(), tt.expForce)
		})
	}
}

func TestArena_Input(t *testing.T) {
	f := newFixture(t, nil)
	p := f.connect(t, "c1")

	err := f.arena.Input(context.Background(), p.ID, "x")
	testutil.AssertErrorContains(t, err, "unknown control")

	f.arena.input(p.ID, game.ControlThrust, true)
	f.arena.input(p.ID, game.ControlRotateLeft, true)
	f.arena.input(p.ID, game.ControlRotateLeft, false)
	testutil.AssertEqual(t, "controls", p.Player.Controls, game.Controls{Thrust: true})

	f.arena.setNickname(p.ID, "  alice ")
	f.arena.setNickname(p.ID, "bob")
	testutil.AssertEqual(t, "nickname", p.Player.Nickname, "alice")
}

func TestArena_Disconnect(t *testing.T) {
	tests := map[string]struct {
		mutate  func(*Config)
		expBags int
	}{
		"drops a bag": {
			expBags: 1,
		},
		"drop disabled": {
			mutate:  func(c *Config) { c.DropOnDisconnect = false },
			expBags: 0,
		},
		"reset policy": {
			mutate:  func(c *Config) { c.DeathPolicy = combat.DeathPolicyReset },
			expBags: 0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, tt.mutate)
			stay := f.connect(t, "c1")
			leave := f.connect(t, "c2")
			f.tr.reset()

			f.arena.disconnect(context.Background(), leave.ID)

			_, ok := f.arena.world.Find(leave.ID)
			testutil.AssertEqual(t, "in play", ok, false)
			_, ok = f.arena.sessions.Resolve(leave.ID)
			testutil.AssertEqual(t, "session", ok, false)
			testutil.AssertEqual(t, "leaver frames", len(f.tr.types("c2")), 0)

			bags := 0
			for _, e := range f.arena.world.Dynamic() {
				if e.Kind == game.KindBag {
					bags++
				}
			}
			testutil.AssertEqual(t, "bags", bags, tt.expBags)
			testutil.AssertEqual(t, "stayer frames", f.tr.types("c1"), append([]string{protocol.MsgRemove}, repeat(protocol.MsgAdd, tt.expBags)...))
			players := f.arena.world.Players()
			testutil.AssertEqual(t, "players", len(players), 1)
			testutil.AssertEqual(t, "stayer", players[0] == stay, true)
		})
	}
}

func TestArena_DisconnectWhileDead(t *testing.T) {
	f := newFixture(t, nil)
	killer := f.connect(t, "c1")
	victim := f.connect(t, "c2")
	victim.Player.Health = 1

	out := f.arena.combat.ResolveStab(context.Background(), killer, victim, 2, physics.Vector{})
	testutil.AssertEqual(t, "outcome", out, combat.OutcomeKilled)

	f.arena.disconnect(context.Background(), victim.ID)
	f.tr.reset()

	f.advance(t, combat.DefaultRespawnDelay)
	_, ok := f.arena.world.Lookup(victim.ID)
	testutil.AssertEqual(t, "victim known", ok, false)
	testutil.AssertEqual(t, "adds", slices.Contains(f.tr.types("c1"), protocol.MsgAdd), false)
}

func TestArena_DeathAndRespawn(t *testing.T) {
	f := newFixture(t, nil)
	killer := f.connect(t, "c1")
	victim := f.connect(t, "c2")
	victim.Player.Health = 8
	f.tr.reset()

	f.arena.combat.ResolveStab(context.Background(), killer, victim, 2, physics.Vector{})

	testutil.AssertEqual(t, "killer frames", f.tr.types("c1"), []string{
		protocol.MsgStrike, protocol.MsgRemove, protocol.MsgAdd, protocol.MsgKill,
	})
	testutil.AssertEqual(t, "victim frames", f.tr.types("c2"), []string{
		protocol.MsgRemove, protocol.MsgAdd, protocol.MsgDeath,
	})

	f.tr.reset()
	f.advance(t, combat.DefaultRespawnDelay)

	back, ok := f.arena.world.Find(victim.ID)
	testutil.AssertEqual(t, "respawned", ok, true)
	testutil.AssertEqual(t, "health", back.Player.Health, game.BaselineHealth)
	if !slices.Contains(f.tr.types("c1"), protocol.MsgAdd) {
		t.Errorf("respawn add not broadcast: %v", f.tr.types("c1"))
	}
}

func TestArena_HandleCollisions(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.Population = []game.Kind{game.KindToken} })
	alice := f.connect(t, "c1")
	bob := f.connect(t, "c2")
	token := f.arena.world.Dynamic()[0]
	floor := f.arena.world.Terrain()[0]
	f.tr.reset()

	nose := []physics.Contact{{Vertex: physics.Vertex{Index: 0, Body: alice.Body}}}
	f.arena.handleCollisions(context.Background(), []physics.Pair{
		{BodyA: alice.Body, BodyB: floor},
		{BodyA: token.Body, BodyB: alice.Body},
		{BodyA: bob.Body, BodyB: token.Body},
		{BodyA: alice.Body, BodyB: bob.Body, Contacts: nose, Depth: 2},
	})

	testutil.AssertEqual(t, "alice score", alice.Player.Score, 2)
	testutil.AssertEqual(t, "bob score", bob.Player.Score, 1)
	testutil.AssertEqual(t, "bob health", bob.Player.Health, 90)
	testutil.AssertEqual(t, "alice frames", f.tr.types("c1"), []string{
		protocol.MsgUpgrade, protocol.MsgRemove, protocol.MsgStrike,
	})
	testutil.AssertEqual(t, "bob frames", f.tr.types("c2"), []string{
		protocol.MsgRemove, protocol.MsgInjury,
	})

	in, _ := f.tr.last("c1", protocol.MsgStrike)
	strike, _ := protocol.DecodePayload[protocol.Strike](in)
	testutil.AssertEqual(t, "damage", strike.Damage, 10)
}

func TestArena_BroadcastState(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.Population = []game.Kind{game.KindWorm, game.KindChest} })
	p := f.connect(t, "c1")
	f.arena.world.Dynamic()[1].Body.SetSleeping(true)
	f.tr.reset()

	if err := f.arena.broadcastState(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in, ok := f.tr.last("c1", protocol.MsgUpdate)
	testutil.AssertEqual(t, "sent", ok, true)
	entries, err := protocol.DecodePayload[[]protocol.UpdateEntry](in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var ids []uint32
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	worm := f.arena.world.Dynamic()[0]
	testutil.AssertEqual(t, "ids", ids, []uint32{uint32(worm.ID), uint32(p.ID)})

	f.tr.mu.Lock()
	volatile := f.tr.frames[0].volatile
	f.tr.mu.Unlock()
	testutil.AssertEqual(t, "volatile", volatile, true)
}

func TestArena_BroadcastLeaderboard(t *testing.T) {
	f := newFixture(t, nil)
	var players []*game.Entity
	for i, conn := range []game.ConnectionID{"c1", "c2", "c3", "c4"} {
		p := f.connect(t, conn)
		p.Player.Score = 10 - i
		players = append(players, p)
	}
	players[0].Player.SetNickname("top")
	players[3].Player.SetNickname("last")
	f.tr.reset()

	if err := f.arena.broadcastLeaderboard(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	board := func(conn game.ConnectionID) []protocol.LeaderboardEntry {
		in, ok := f.tr.last(conn, protocol.MsgLeaderboard)
		if !ok {
			t.Fatalf("%s got no leaderboard", conn)
		}
		rows, err := protocol.DecodePayload[[]protocol.LeaderboardEntry](in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return rows
	}

	testutil.AssertEqual(t, "leader rows", len(board("c1")), 3)
	last := board("c4")
	testutil.AssertEqual(t, "last rows", len(last), 4)
	testutil.AssertEqual(t, "first row", last[0], protocol.LeaderboardEntry{Nickname: "top", Score: 10})
	testutil.AssertEqual(t, "own row", last[3], protocol.LeaderboardEntry{Nickname: "last", Score: 7})
}

func TestArena_Step(t *testing.T) {
	f := newFixture(t, nil)
	p := f.connect(t, "c1")
	p.Player.Controls.Thrust = true

	before := p.Body.Position()
	// Thrust gained in one step moves the ship in the next.
	for range 2 {
		if err := f.arena.step(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	testutil.AssertEqual(t, "moved", p.Body.Position() != before, true)
	testutil.AssertEqual(t, "force cleared", p.Body.Force(), physics.Vector{})
}

func TestArena_Run(t *testing.T) {
	tr := &recordingTransport{}
	cfg := DefaultConfig()
	cfg.StepInterval = time.Millisecond
	cfg.StateInterval = 2 * time.Millisecond

	a, err := New(context.Background(), cfg, tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.Start(ctx)
	}()

	id, err := a.Connect(ctx, "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Nickname(ctx, id, "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Input(ctx, id, "l"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for !slices.Contains(tr.types("c1"), protocol.MsgUpdate) {
		select {
		case <-deadline:
			t.Fatal("no state update received")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if err := a.Disconnect(ctx, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cancel()
	select {
	case err := <-done:
		testutil.AssertEqual(t, "start error", err, nil)
	case <-time.After(time.Second):
		t.Fatal("arena did not stop")
	}
}
