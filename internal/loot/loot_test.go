package loot

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-arena/internal/driver"
	"github.com/pixil98/go-arena/internal/game"
	"github.com/pixil98/go-arena/internal/physics"
	"github.com/pixil98/go-arena/internal/protocol"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

type message struct {
	To        game.EntityID
	Broadcast bool
	Type      string
	Payload   any
}

type recordingPublisher struct {
	msgs []message
}

func (p *recordingPublisher) Unicast(_ context.Context, id game.EntityID, t string, payload any) {
	p.msgs = append(p.msgs, message{To: id, Type: t, Payload: payload})
}

func (p *recordingPublisher) Broadcast(_ context.Context, t string, payload any) {
	p.msgs = append(p.msgs, message{Broadcast: true, Type: t, Payload: payload})
}

func (p *recordingPublisher) of(t string) []message {
	var out []message
	for _, m := range p.msgs {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

type fixture struct {
	world *game.World
	pub   *recordingPublisher
	clock *fakeClock
	loop  *driver.Loop
	mgr   *Manager
}

func newFixture(t *testing.T, opts ...ManagerOpt) *fixture {
	t.Helper()
	f := &fixture{
		world: game.NewWorld(physics.NewEngine(), game.DefaultShapes()),
		pub:   &recordingPublisher{},
		clock: &fakeClock{now: time.Unix(0, 0)},
	}
	f.loop = driver.NewLoop(driver.WithClock(f.clock))
	opts = append([]ManagerOpt{WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	f.mgr = NewManager(f.world, f.pub, f.loop, opts...)
	return f
}

func (f *fixture) add(t *testing.T, kind game.Kind) *game.Entity {
	t.Helper()
	e, err := f.world.NewEntity(kind, physics.Vector{X: 10, Y: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.world.Add(e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return e
}

func (f *fixture) advance(t *testing.T, d time.Duration) {
	t.Helper()
	f.clock.now = f.clock.now.Add(d)
	if err := f.loop.RunDue(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestManager_Populate(t *testing.T) {
	f := newFixture(t)

	if err := f.mgr.Populate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var kinds []game.Kind
	for _, e := range f.world.Dynamic() {
		kinds = append(kinds, e.Kind)
		p := e.Body.Position()
		if p.X < DefaultBand.MinX || p.X > DefaultBand.MaxX || p.Y != DefaultBand.Y {
			t.Errorf("%s spawned at %+v, outside the band", e, p)
		}
	}
	testutil.AssertEqual(t, "kinds", kinds, DefaultPopulation)
	testutil.AssertEqual(t, "adds", len(f.pub.of(protocol.MsgAdd)), len(DefaultPopulation))
}

func TestManager_ResolvePickup(t *testing.T) {
	tests := map[string]struct {
		kind       game.Kind
		expUpgrade protocol.Upgrade
	}{
		"token":  {kind: game.KindToken, expUpgrade: protocol.Upgrade{Score: 2}},
		"sword":  {kind: game.KindSword, expUpgrade: protocol.Upgrade{Score: 1, Sword: 1}},
		"shield": {kind: game.KindShield, expUpgrade: protocol.Upgrade{Score: 1, Shield: 1}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			player := f.add(t, game.KindPlayer)
			item := f.add(t, tt.kind)

			ok := f.mgr.ResolvePickup(context.Background(), player, item)
			testutil.AssertEqual(t, "granted", ok, true)
			testutil.AssertEqual(t, "messages", f.pub.msgs, []message{
				{To: player.ID, Type: protocol.MsgUpgrade, Payload: tt.expUpgrade},
				{Broadcast: true, Type: protocol.MsgRemove, Payload: item.ID},
			})
			_, found := f.world.Find(item.ID)
			testutil.AssertEqual(t, "item in play", found, false)
		})
	}
}

func TestManager_PickupAtMostOnce(t *testing.T) {
	f := newFixture(t)
	first := f.add(t, game.KindPlayer)
	second := f.add(t, game.KindPlayer)
	token := f.add(t, game.KindToken)

	testutil.AssertEqual(t, "first", f.mgr.ResolvePickup(context.Background(), first, token), true)
	testutil.AssertEqual(t, "second", f.mgr.ResolvePickup(context.Background(), second, token), false)
	testutil.AssertEqual(t, "first again", f.mgr.ResolvePickup(context.Background(), first, token), false)

	testutil.AssertEqual(t, "first score", first.Player.Score, 2)
	testutil.AssertEqual(t, "second score", second.Player.Score, 1)
	testutil.AssertEqual(t, "removes", len(f.pub.of(protocol.MsgRemove)), 1)
}

func TestManager_UnavailableLoot(t *testing.T) {
	f := newFixture(t)
	player := f.add(t, game.KindPlayer)
	item := f.add(t, game.KindSword)
	item.Loot.Available = false

	ok := f.mgr.ResolvePickup(context.Background(), player, item)
	testutil.AssertEqual(t, "granted", ok, false)
	testutil.AssertEqual(t, "sword", player.Player.Sword, 0)
	testutil.AssertEqual(t, "messages", len(f.pub.msgs), 0)
	_, found := f.world.Find(item.ID)
	testutil.AssertEqual(t, "item in play", found, true)
}

func TestManager_NotLoot(t *testing.T) {
	f := newFixture(t)
	player := f.add(t, game.KindPlayer)
	worm := f.add(t, game.KindWorm)

	testutil.AssertEqual(t, "granted", f.mgr.ResolvePickup(context.Background(), player, worm), false)
}

func TestManager_Replenish(t *testing.T) {
	f := newFixture(t, WithReplenishDelay(time.Second))
	player := f.add(t, game.KindPlayer)
	token := f.add(t, game.KindToken)

	f.mgr.ResolvePickup(context.Background(), player, token)

	f.advance(t, 999*time.Millisecond)
	testutil.AssertEqual(t, "adds before delay", len(f.pub.of(protocol.MsgAdd)), 0)

	f.advance(t, time.Millisecond)
	adds := f.pub.of(protocol.MsgAdd)
	testutil.AssertEqual(t, "adds after delay", len(adds), 1)
	testutil.AssertEqual(t, "kind", adds[0].Payload.(protocol.Add).Kind, "token")
	testutil.AssertEqual(t, "in play", len(f.world.Dynamic()), 2)
}

func TestManager_DropBag(t *testing.T) {
	f := newFixture(t)
	victim := f.add(t, game.KindPlayer)
	victim.Player.Score = 5
	victim.Player.Sword = 3
	victim.Player.Shield = 1
	f.world.Remove(victim.ID)

	bag, err := f.mgr.DropBag(context.Background(), victim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "bag position", bag.Body.Position(), victim.Body.Position())
	testutil.AssertEqual(t, "bag reward", bag.Loot.Reward, game.Reward{Points: 5, Sword: 3, Shield: 1, Mode: game.RewardMerge})
	testutil.AssertEqual(t, "adds", f.pub.of(protocol.MsgAdd), []message{
		{Broadcast: true, Type: protocol.MsgAdd, Payload: protocol.NewAdd(bag)},
	})

	looter := f.add(t, game.KindPlayer)
	looter.Player.Sword = 4

	testutil.AssertEqual(t, "within grace", f.mgr.ResolvePickup(context.Background(), looter, bag), false)
	testutil.AssertEqual(t, "removes within grace", len(f.pub.of(protocol.MsgRemove)), 0)

	f.advance(t, DefaultGrace)
	testutil.AssertEqual(t, "after grace", f.mgr.ResolvePickup(context.Background(), looter, bag), true)
	testutil.AssertEqual(t, "score", looter.Player.Score, 6)
	testutil.AssertEqual(t, "sword", looter.Player.Sword, 4)
	testutil.AssertEqual(t, "shield", looter.Player.Shield, 1)

	f.advance(t, DefaultReplenishDelay)
	testutil.AssertEqual(t, "bags replenished", len(f.pub.of(protocol.MsgAdd)), 1)
}
