package game

import (
	"cmp"
	"slices"
)

// Standing is one leaderboard row.
type Standing struct {
	Nickname string
	Score    int
}

// Rank orders players by score, highest first. Ties go to the player who
// joined first; ids only grow, so a respawned player keeps its place.
func Rank(players []*Entity) []*Entity {
	ranked := slices.Clone(players)
	slices.SortFunc(ranked, func(a, b *Entity) int {
		if c := cmp.Compare(b.Player.Score, a.Player.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return ranked
}

// Leaderboard returns the top n of ranked. When the requester is ranked
// below the top it is appended as one extra row.
func Leaderboard(ranked []*Entity, n int, requester EntityID) []Standing {
	top := ranked[:min(n, len(ranked))]

	rows := make([]Standing, 0, len(top)+1)
	for _, e := range top {
		rows = append(rows, standing(e))
	}

	if slices.ContainsFunc(top, func(e *Entity) bool { return e.ID == requester }) {
		return rows
	}
	if i := slices.IndexFunc(ranked, func(e *Entity) bool { return e.ID == requester }); i >= 0 {
		rows = append(rows, standing(ranked[i]))
	}
	return rows
}

func standing(e *Entity) Standing {
	return Standing{Nickname: e.Player.Nickname, Score: e.Player.Score}
}
