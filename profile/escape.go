package profile

import "bytes"

// EscapePlaceholder stands in for the ESC control byte (0x1B) while text
// passes through the XML parser, which rejects it raw.
const EscapePlaceholder = `\033`

var (
	escByte        = []byte{0x1b}
	escPlaceholder = []byte(EscapePlaceholder)
)

// Escape replaces every ESC byte with EscapePlaceholder.
func Escape(b []byte) []byte {
	if bytes.IndexByte(b, 0x1b) < 0 {
		return b
	}
	return bytes.ReplaceAll(b, escByte, escPlaceholder)
}

// Unescape reverses Escape.
func Unescape(b []byte) []byte {
	if !bytes.Contains(b, escPlaceholder) {
		return b
	}
	return bytes.ReplaceAll(b, escPlaceholder, escByte)
}
