package arena

import (
	"context"

	"github.com/pixil98/go-arena/internal/game"
	"github.com/pixil98/go-arena/internal/protocol"
)

// broadcastState sends the pose of every awake entity to every player on the
// volatile channel.
func (a *Arena) broadcastState(ctx context.Context) error {
	if a.sessions.Len() == 0 {
		return nil
	}

	dynamic := a.world.Dynamic()
	entries := make([]protocol.UpdateEntry, 0, len(dynamic))
	for _, e := range dynamic {
		if e.Body.IsSleeping() {
			continue
		}
		entries = append(entries, protocol.NewUpdateEntry(e))
	}

	a.notify.BroadcastVolatile(ctx, protocol.MsgUpdate, entries)
	return nil
}

// broadcastLeaderboard sends each player the top of the leaderboard, plus
// their own row when they are not in it.
func (a *Arena) broadcastLeaderboard(ctx context.Context) error {
	ranked := game.Rank(a.world.Players())

	a.sessions.ForEach(func(id game.EntityID, conn game.ConnectionID) {
		rows := game.Leaderboard(ranked, a.cfg.LeaderboardSize, id)
		entries := make([]protocol.LeaderboardEntry, len(rows))
		for i, r := range rows {
			entries[i] = protocol.LeaderboardEntry{Nickname: r.Nickname, Score: r.Score}
		}
		a.notify.SendTo(ctx, conn, protocol.MsgLeaderboard, entries)
	})
	return nil
}
