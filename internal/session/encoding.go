package session

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeText recovers metadata that may have been written under a different
// locale than the one reading it. Attempt order: UTF-8, ISO 8859-1,
// Windows-1252, then lossy replacement of whatever is left.
func decodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	if out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw); err == nil {
		return string(out)
	}
	if out, err := charmap.Windows1252.NewDecoder().Bytes(raw); err == nil {
		return string(out)
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}
