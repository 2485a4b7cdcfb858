package protocol

import (
	"math"

	"github.com/pixil98/go-arena/internal/game"
	"github.com/pixil98/go-arena/internal/physics"
)

// Client to server messages.
const (
	MsgNickname = "nickname"
	MsgInput    = "input"
)

// Server to client messages.
const (
	MsgID          = "id"
	MsgAdd         = "add"
	MsgRemove      = "remove"
	MsgUpdate      = "update"
	MsgLeaderboard = "leaderboard"
	MsgStrike      = "strike"
	MsgInjury      = "injury"
	MsgDeath       = "death"
	MsgKill        = "kill"
	MsgUpgrade     = "upgrade"
)

type Point struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// Add announces an entity entering the world.
type Add struct {
	ID   uint32  `json:"id" msgpack:"id"`
	Kind string  `json:"kind" msgpack:"kind"`
	X    int     `json:"x" msgpack:"x"`
	Y    int     `json:"y" msgpack:"y"`
	R    float64 `json:"r" msgpack:"r"`
}

// UpdateEntry is the pose of one entity in a state diff.
type UpdateEntry struct {
	ID uint32  `json:"id" msgpack:"id"`
	X  int     `json:"x" msgpack:"x"`
	Y  int     `json:"y" msgpack:"y"`
	R  float64 `json:"r" msgpack:"r"`
}

type LeaderboardEntry struct {
	Nickname string `json:"nickname" msgpack:"nickname"`
	Score    int    `json:"score" msgpack:"score"`
}

// Strike tells an attacker how much damage landed and where.
type Strike struct {
	Damage    int     `json:"damage" msgpack:"damage"`
	Positions []Point `json:"positions" msgpack:"positions"`
}

// Upgrade carries a player's stats after a pickup.
type Upgrade struct {
	Score  int `json:"score" msgpack:"score"`
	Sword  int `json:"sword" msgpack:"sword"`
	Shield int `json:"shield" msgpack:"shield"`
}

// NewAdd describes an entity at its current pose.
func NewAdd(e *game.Entity) Add {
	x, y, r := pose(e.Body)
	return Add{ID: uint32(e.ID), Kind: string(e.Kind), X: x, Y: y, R: r}
}

// NewUpdateEntry describes the current pose of an entity.
func NewUpdateEntry(e *game.Entity) UpdateEntry {
	x, y, r := pose(e.Body)
	return UpdateEntry{ID: uint32(e.ID), X: x, Y: y, R: r}
}

func NewPoint(v physics.Vector) Point {
	return Point{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))}
}

// pose rounds a position to whole units and an angle to two decimals.
func pose(b *physics.Body) (int, int, float64) {
	p := NewPoint(b.Position())
	return p.X, p.Y, math.Round(b.Angle()*100) / 100
}
