package game

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

type Control rune

const (
	ControlRotateLeft  Control = 'a'
	ControlRotateRight Control = 'd'
	ControlThrust      Control = 'l'
)

func (c Control) String() string {
	return string(c)
}

// Controls is the held state of every control a player can press.
type Controls struct {
	RotateLeft  bool
	RotateRight bool
	Thrust      bool
}

func (c *Controls) Set(ctl Control, active bool) {
	switch ctl {
	case ControlRotateLeft:
		c.RotateLeft = active
	case ControlRotateRight:
		c.RotateRight = active
	case ControlThrust:
		c.Thrust = active
	}
}

// ParseControl decodes a key transition. A lowercase code presses the
// control and an uppercase code releases it.
func ParseControl(code string) (Control, bool, error) {
	r, size := utf8.DecodeRuneInString(code)
	if size == 0 || size != len(code) || !unicode.IsLetter(r) {
		return 0, false, fmt.Errorf("%w: %q", ErrUnknownControl, code)
	}

	ctl := Control(unicode.ToLower(r))
	switch ctl {
	case ControlRotateLeft, ControlRotateRight, ControlThrust:
	default:
		return 0, false, fmt.Errorf("%w: %q", ErrUnknownControl, code)
	}

	return ctl, rune(ctl) == r, nil
}
