package game

import (
	"fmt"

	"github.com/pixil98/go-arena/internal/physics"
)

// EntityID is the id of the physics body backing an entity. It is stable
// for the lifetime of the entity, across death and respawn.
type EntityID = physics.BodyID

// ConnectionID names one client connection on the transport.
type ConnectionID string

type Kind string

const (
	KindPlayer Kind = "player"
	KindWorm   Kind = "worm"
	KindChest  Kind = "chest"
	KindToken  Kind = "token"
	KindSword  Kind = "sword"
	KindShield Kind = "shield"
	KindBag    Kind = "bag"
)

// Kinds lists every kind the world can hold.
var Kinds = []Kind{KindPlayer, KindWorm, KindChest, KindToken, KindSword, KindShield, KindBag}

// Variant returns which record an entity of this kind carries.
func (k Kind) Variant() Variant {
	switch k {
	case KindPlayer:
		return VariantPlayer
	case KindToken, KindSword, KindShield, KindBag:
		return VariantLoot
	default:
		return VariantNPC
	}
}

type Variant int

const (
	VariantNPC Variant = iota
	VariantPlayer
	VariantLoot
)

func (v Variant) String() string {
	switch v {
	case VariantPlayer:
		return "player"
	case VariantLoot:
		return "loot"
	default:
		return "npc"
	}
}

// Class is the coarse collision category used to route contacts.
type Class string

const (
	ClassEntity Class = "entity"
	ClassLoot   Class = "loot"
)

func (v Variant) Class() Class {
	if v == VariantLoot {
		return ClassLoot
	}
	return ClassEntity
}

// Entity is the game record attached to one dynamic physics body. Exactly
// one of Player and Loot is set for the player and loot variants; NPCs carry
// neither.
type Entity struct {
	ID      EntityID
	Kind    Kind
	Variant Variant
	Body    *physics.Body

	Player *Player
	Loot   *Loot

	epoch uint64
}

func (e *Entity) Class() Class {
	return e.Variant.Class()
}

func (e *Entity) IsPlayer() bool {
	return e.Variant == VariantPlayer && e.Player != nil
}

func (e *Entity) IsLoot() bool {
	return e.Variant == VariantLoot && e.Loot != nil
}

// Epoch changes every time the entity enters the world. Deferred work
// captures it to make sure it still applies to the same life of the entity.
func (e *Entity) Epoch() uint64 {
	return e.epoch
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s#%d", e.Kind, e.ID)
}

const (
	MaxHealth      = 100
	BaselineHealth = 100
	BaselineScore  = 1
)

// Player is the state of a player-controlled entity.
type Player struct {
	Nickname   string
	Controls   Controls
	Health     int
	Score      int
	Sword      int
	Shield     int
	StabImmune bool

	nicknamed bool
}

func NewPlayer(nickname string) *Player {
	p := &Player{Nickname: nickname}
	p.Reset()
	return p
}

// Reset restores the baseline stats a player spawns with. Held controls
// survive.
func (p *Player) Reset() {
	p.Health = BaselineHealth
	p.Score = BaselineScore
	p.Sword = 0
	p.Shield = 0
	p.StabImmune = false
}

// SetNickname sanitizes and applies a client chosen nickname. A player may
// choose once; later attempts and names that sanitize to nothing are
// ignored.
func (p *Player) SetNickname(raw string) bool {
	if p.nicknamed {
		return false
	}
	name := SanitizeNickname(raw)
	if name == "" {
		return false
	}
	p.Nickname = name
	p.nicknamed = true
	return true
}

// Damage subtracts amount from health, clamped at zero, and reports whether
// the player died.
func (p *Player) Damage(amount int) bool {
	p.Health = max(p.Health-amount, 0)
	return p.Health == 0
}

type RewardMode int

const (
	// RewardIncrement adds every stat.
	RewardIncrement RewardMode = iota
	// RewardMerge adds points and keeps the better equipment.
	RewardMerge
)

type Reward struct {
	Points int
	Sword  int
	Shield int
	Mode   RewardMode
}

// RewardFor is what picking up a fresh item of the given kind grants.
func RewardFor(kind Kind) Reward {
	switch kind {
	case KindToken:
		return Reward{Points: 1}
	case KindSword:
		return Reward{Sword: 1}
	case KindShield:
		return Reward{Shield: 1}
	default:
		return Reward{}
	}
}

// StatsOf captures everything a player holds as a reward that can be
// dropped and picked up again.
func StatsOf(p *Player) Reward {
	return Reward{
		Points: p.Score,
		Sword:  p.Sword,
		Shield: p.Shield,
		Mode:   RewardMerge,
	}
}

// Apply grants the reward. Equipment never decreases.
func (r Reward) Apply(p *Player) {
	p.Score += r.Points
	switch r.Mode {
	case RewardMerge:
		p.Sword = max(p.Sword, r.Sword)
		p.Shield = max(p.Shield, r.Shield)
	default:
		p.Sword += max(r.Sword, 0)
		p.Shield += max(r.Shield, 0)
	}
}

// Loot is the state of a collectible entity.
type Loot struct {
	Reward    Reward
	Available bool
}
