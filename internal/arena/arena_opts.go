package arena

import (
	"github.com/pixil98/go-arena/internal/driver"
	"github.com/pixil98/go-arena/internal/game"
	"github.com/pixil98/go-arena/internal/loot"
	"github.com/pixil98/go-arena/internal/metrics"
	"github.com/pixil98/go-arena/internal/protocol"
)

type ArenaOpt func(*Arena)

// WithShapes replaces the built in hull catalog.
func WithShapes(s game.Shapes) ArenaOpt {
	return func(a *Arena) {
		a.shapes = s
	}
}

func WithCodec(c protocol.Codec) ArenaOpt {
	return func(a *Arena) {
		a.codec = c
	}
}

func WithRecorder(r *metrics.Recorder) ArenaOpt {
	return func(a *Arena) {
		a.recorder = r
	}
}

// WithLoopOpts configures the loop the arena runs on.
func WithLoopOpts(opts ...driver.LoopOpt) ArenaOpt {
	return func(a *Arena) {
		a.loopOpts = append(a.loopOpts, opts...)
	}
}

// WithLootOpts passes extra options to the loot manager.
func WithLootOpts(opts ...loot.ManagerOpt) ArenaOpt {
	return func(a *Arena) {
		a.lootOpts = append(a.lootOpts, opts...)
	}
}
