package driver

import (
	"context"
	"errors"
	"time"
)

const (
	DefaultInboxSize = 256
)

var ErrStopped = errors.New("driver stopped")

// Ticker is work the loop runs on a fixed interval.
type Ticker interface {
	Tick(context.Context) error
}

// TickerFunc adapts a function to a Ticker.
type TickerFunc func(context.Context) error

func (f TickerFunc) Tick(ctx context.Context) error {
	return f(ctx)
}

// Clock tells the loop what time it is.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

type schedule struct {
	name     string
	interval time.Duration
	next     time.Time
	ticker   Ticker
}

// Loop owns a single goroutine that runs scheduled tickers, deferred timers
// and work posted from other goroutines. Everything it runs is serialized, so
// state touched only from inside the loop needs no locking.
//
// Every and After are not safe for concurrent use. Call them before Start or
// from work already running on the loop. Post is safe from any goroutine.
type Loop struct {
	clock     Clock
	schedules []*schedule
	timers    timerQueue
	seq       uint64

	inbox chan func(context.Context)
	done  chan struct{}
}

func NewLoop(opts ...LoopOpt) *Loop {
	l := &Loop{
		clock: systemClock{},
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.inbox == nil {
		l.inbox = make(chan func(context.Context), DefaultInboxSize)
	}
	return l
}

// Now is the loop's notion of the current time.
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// Every runs t once per interval. The first run is one interval from now.
func (l *Loop) Every(name string, interval time.Duration, t Ticker) {
	l.schedules = append(l.schedules, &schedule{
		name:     name,
		interval: interval,
		next:     l.clock.Now().Add(interval),
		ticker:   t,
	})
}

// After runs fn once, d from now.
func (l *Loop) After(d time.Duration, fn func(context.Context)) {
	l.seq++
	l.timers.push(&timer{
		at:  l.clock.Now().Add(d),
		seq: l.seq,
		fn:  fn,
	})
}

// Post hands fn to the loop goroutine. It blocks while the inbox is full.
func (l *Loop) Post(ctx context.Context, fn func(context.Context)) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	case l.inbox <- fn:
		return nil
	}
}

// Call runs fn on the loop and waits for its result.
func (l *Loop) Call(ctx context.Context, fn func(context.Context) error) error {
	result := make(chan error, 1)
	err := l.Post(ctx, func(ctx context.Context) {
		result <- fn(ctx)
	})
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrStopped
		}
	case err := <-result:
		return err
	}
}

func (l *Loop) Start(ctx context.Context) error {
	defer close(l.done)

	wake := time.NewTimer(l.untilNext())
	defer wake.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.inbox:
			fn(ctx)
		case <-wake.C:
			if err := l.RunDue(ctx); err != nil {
				return err
			}
		}

		if !wake.Stop() {
			select {
			case <-wake.C:
			default:
			}
		}
		wake.Reset(l.untilNext())
	}
}

// RunDue runs every ticker and timer that is due. A ticker that fell behind
// by more than one interval skips the missed runs instead of catching up.
func (l *Loop) RunDue(ctx context.Context) error {
	now := l.clock.Now()

	for _, s := range l.schedules {
		if now.Before(s.next) {
			continue
		}
		if err := s.ticker.Tick(ctx); err != nil {
			return err
		}
		s.next = s.next.Add(s.interval)
		if !now.Before(s.next) {
			s.next = now.Add(s.interval)
		}
	}

	for l.timers.Len() > 0 && !now.Before(l.timers.peek().at) {
		t := l.timers.pop()
		t.fn(ctx)
	}

	return nil
}

// untilNext is how long the loop may sleep before something is due.
func (l *Loop) untilNext() time.Duration {
	var next time.Time
	for _, s := range l.schedules {
		if next.IsZero() || s.next.Before(next) {
			next = s.next
		}
	}
	if l.timers.Len() > 0 {
		if at := l.timers.peek().at; next.IsZero() || at.Before(next) {
			next = at
		}
	}
	if next.IsZero() {
		return time.Hour
	}
	return max(next.Sub(l.clock.Now()), 0)
}
