package game

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

const MaxNicknameLength = 16

// SanitizeNickname folds a nickname to a canonical, printable form. Full
// width letters become their ASCII forms, runs of whitespace collapse and
// the result is cut to MaxNicknameLength runes.
func SanitizeNickname(raw string) string {
	s := width.Fold.String(norm.NFC.String(raw))
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")

	if runes := []rune(s); len(runes) > MaxNicknameLength {
		s = strings.TrimSpace(string(runes[:MaxNicknameLength]))
	}
	return s
}

func DefaultNickname(id EntityID) string {
	return fmt.Sprintf("Player %d", id)
}
