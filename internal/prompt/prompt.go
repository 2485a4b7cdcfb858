// Package prompt asks line oriented questions on a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrTooManyTries = errors.New("too many tries")

type Validator func(string) (bool, string)

type config struct {
	tries     int
	validator Validator
}

type Opt func(*config)

func WithValidator(v Validator) Opt {
	return func(cfg *config) {
		cfg.validator = v
	}
}

// WithMaxTries gives up after n rejected answers. Zero asks forever.
func WithMaxTries(n int) Opt {
	return func(cfg *config) {
		cfg.tries = n
	}
}

// Ask writes question to w and returns the first accepted line read from r.
func Ask(r io.Reader, w io.Writer, question string, opts ...Opt) (string, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	sc := bufio.NewScanner(r)
	for tries := 1; ; tries++ {
		if _, err := io.WriteString(w, question); err != nil {
			return "", err
		}

		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		answer := strings.TrimSpace(sc.Text())

		if cfg.validator == nil {
			return answer, nil
		}
		ok, msg := cfg.validator(answer)
		if ok {
			return answer, nil
		}
		if _, err := io.WriteString(w, msg); err != nil {
			return "", err
		}
		if cfg.tries > 0 && tries >= cfg.tries {
			return "", fmt.Errorf("%w after %d answers", ErrTooManyTries, tries)
		}
	}
}

// YesNo asks until the answer is yes or no.
func YesNo(r io.Reader, w io.Writer, question string) (bool, error) {
	answer, err := Ask(r, w, question, WithMaxTries(3), WithValidator(
		func(s string) (bool, string) {
			switch strings.ToLower(s) {
			case "y", "yes", "n", "no":
				return true, ""
			default:
				return false, "enter 'yes' or 'no'\n"
			}
		},
	))
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
