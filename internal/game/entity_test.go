package game

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestKind_Class(t *testing.T) {
	tests := map[Kind]struct {
		expVariant Variant
		expClass   Class
	}{
		KindPlayer: {expVariant: VariantPlayer, expClass: ClassEntity},
		KindWorm:   {expVariant: VariantNPC, expClass: ClassEntity},
		KindChest:  {expVariant: VariantNPC, expClass: ClassEntity},
		KindToken:  {expVariant: VariantLoot, expClass: ClassLoot},
		KindSword:  {expVariant: VariantLoot, expClass: ClassLoot},
		KindShield: {expVariant: VariantLoot, expClass: ClassLoot},
		KindBag:    {expVariant: VariantLoot, expClass: ClassLoot},
	}

	for kind, tt := range tests {
		t.Run(string(kind), func(t *testing.T) {
			testutil.AssertEqual(t, "variant", kind.Variant(), tt.expVariant)
			testutil.AssertEqual(t, "class", kind.Variant().Class(), tt.expClass)
		})
	}
}

// playerView is the part of a player the game exposes.
type playerView struct {
	Nickname   string
	Controls   Controls
	Health     int
	Score      int
	Sword      int
	Shield     int
	StabImmune bool
}

func viewOf(p Player) playerView {
	return playerView{
		Nickname:   p.Nickname,
		Controls:   p.Controls,
		Health:     p.Health,
		Score:      p.Score,
		Sword:      p.Sword,
		Shield:     p.Shield,
		StabImmune: p.StabImmune,
	}
}

func TestReward_Apply(t *testing.T) {
	tests := map[string]struct {
		start  Player
		reward Reward
		exp    Player
	}{
		"token": {
			start:  Player{Score: 1},
			reward: RewardFor(KindToken),
			exp:    Player{Score: 2},
		},
		"sword stacks": {
			start:  Player{Score: 1, Sword: 2},
			reward: RewardFor(KindSword),
			exp:    Player{Score: 1, Sword: 3},
		},
		"shield": {
			start:  Player{Score: 1},
			reward: RewardFor(KindShield),
			exp:    Player{Score: 1, Shield: 1},
		},
		"bag keeps better equipment": {
			start:  Player{Score: 3, Sword: 4, Shield: 0},
			reward: Reward{Points: 5, Sword: 2, Shield: 3, Mode: RewardMerge},
			exp:    Player{Score: 8, Sword: 4, Shield: 3},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := tt.start
			tt.reward.Apply(&p)
			testutil.AssertEqual(t, "player", viewOf(p), viewOf(tt.exp))
		})
	}
}

func TestPlayer_Damage(t *testing.T) {
	tests := map[string]struct {
		health    int
		amount    int
		expHealth int
		expDead   bool
	}{
		"survives":     {health: 100, amount: 10, expHealth: 90},
		"exactly zero": {health: 10, amount: 10, expHealth: 0, expDead: true},
		"overkill":     {health: 8, amount: 10, expHealth: 0, expDead: true},
		"zero damage":  {health: 50, amount: 0, expHealth: 50},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := &Player{Health: tt.health}
			dead := p.Damage(tt.amount)
			testutil.AssertEqual(t, "health", p.Health, tt.expHealth)
			testutil.AssertEqual(t, "dead", dead, tt.expDead)
		})
	}
}

func TestPlayer_Reset(t *testing.T) {
	p := &Player{Health: 3, Score: 9, Sword: 2, Shield: 1, StabImmune: true, Controls: Controls{Thrust: true}}
	p.Reset()

	testutil.AssertEqual(t, "player", viewOf(*p), playerView{
		Health:   BaselineHealth,
		Score:    BaselineScore,
		Controls: Controls{Thrust: true},
	})
}

func TestShapes_Validate(t *testing.T) {
	if err := DefaultShapes().Validate(); err != nil {
		t.Fatalf("default shapes invalid: %v", err)
	}

	broken := DefaultShapes().With(Shapes{
		KindToken: {Vertices: DefaultShapes()[KindToken].Vertices, Mass: 0},
	})
	delete(broken, KindWorm)

	err := broken.Validate()
	testutil.AssertErrorContains(t, err, `shape "worm" missing`)
	testutil.AssertErrorContains(t, err, "mass must be positive")
}
