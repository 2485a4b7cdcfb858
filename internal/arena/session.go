package arena

import (
	"context"
	"log/slog"

	"github.com/pixil98/go-arena/internal/combat"
	"github.com/pixil98/go-arena/internal/game"
	"github.com/pixil98/go-arena/internal/protocol"
)

// Connect spawns a player for a new connection and returns its id. The
// connection is sent every entity already in play, then its own id.
func (a *Arena) Connect(ctx context.Context, conn game.ConnectionID) (game.EntityID, error) {
	var id game.EntityID
	err := a.loop.Call(ctx, func(ctx context.Context) error {
		var err error
		id, err = a.connect(ctx, conn)
		return err
	})
	return id, err
}

// Nickname sets a player's nickname. Only the first accepted nickname
// sticks.
func (a *Arena) Nickname(ctx context.Context, id game.EntityID, raw string) error {
	return a.loop.Post(ctx, func(context.Context) {
		a.setNickname(id, raw)
	})
}

// Input records a key transition for a player. Unknown codes are rejected
// without touching the loop.
func (a *Arena) Input(ctx context.Context, id game.EntityID, code string) error {
	ctl, active, err := game.ParseControl(code)
	if err != nil {
		return err
	}
	return a.loop.Post(ctx, func(context.Context) {
		a.input(id, ctl, active)
	})
}

// Disconnect removes a player whose connection closed.
func (a *Arena) Disconnect(ctx context.Context, id game.EntityID) error {
	return a.loop.Call(ctx, func(ctx context.Context) error {
		a.disconnect(ctx, id)
		return nil
	})
}

func (a *Arena) connect(ctx context.Context, conn game.ConnectionID) (game.EntityID, error) {
	for _, e := range a.world.Dynamic() {
		a.notify.SendTo(ctx, conn, protocol.MsgAdd, protocol.NewAdd(e))
	}

	p, err := a.world.NewEntity(game.KindPlayer, a.cfg.SpawnPoint)
	if err != nil {
		return 0, err
	}
	if err := a.world.Add(p); err != nil {
		return 0, err
	}
	a.sessions.Register(p.ID, conn)

	a.notify.Broadcast(ctx, protocol.MsgAdd, protocol.NewAdd(p))
	a.notify.SendTo(ctx, conn, protocol.MsgID, p.ID)

	slog.InfoContext(ctx, "player joined", "id", p.ID, "conn", conn, "players", a.sessions.Len())
	a.recorder.SetPlayers(a.sessions.Len())
	return p.ID, nil
}

func (a *Arena) setNickname(id game.EntityID, raw string) {
	e, ok := a.world.Lookup(id)
	if !ok || !e.IsPlayer() {
		return
	}
	e.Player.SetNickname(raw)
}

// input stages a control change. Dead players keep their held controls for
// when they respawn.
func (a *Arena) input(id game.EntityID, ctl game.Control, active bool) {
	e, ok := a.world.Lookup(id)
	if !ok || !e.IsPlayer() {
		return
	}
	e.Player.Controls.Set(ctl, active)
}

func (a *Arena) disconnect(ctx context.Context, id game.EntityID) {
	a.sessions.Unregister(id)

	if e, ok := a.world.Remove(id); ok {
		a.notify.Broadcast(ctx, protocol.MsgRemove, id)
		if a.cfg.DropOnDisconnect && a.combat.Policy() == combat.DeathPolicyDrop {
			a.loot.OnDeath(ctx, e)
		}
	} else {
		// Forget a dead player so the pending respawn finds nothing.
		a.world.Unpark(id)
	}

	slog.InfoContext(ctx, "player left", "id", id, "players", a.sessions.Len())
	a.recorder.SetPlayers(a.sessions.Len())
}
