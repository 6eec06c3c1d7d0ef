package pdf

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// toWinAnsi transcodes UTF-8 to the cp1252 bytes expected by the PDF core
// fonts. Runes outside cp1252 become '?'.
func toWinAnsi(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteByte(byte(r))
			continue
		}
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}
