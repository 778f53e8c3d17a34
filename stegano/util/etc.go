package util

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FixUnicode brings a message into NFC form so the same text always hides
// as the same bytes.
func FixUnicode(in string) string {
	return norm.NFC.String(in)
}

// NormalizeMessage prepares a typed message for hiding: NFC form and
// unix line endings.
func NormalizeMessage(in string) string {
	in = strings.ReplaceAll(in, "\r\n", "\n")
	return FixUnicode(in)
}
