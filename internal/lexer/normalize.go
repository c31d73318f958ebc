package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize performs input normalization at the lexer boundary: stripping
// a UTF-8 BOM if present and applying Unicode NFC normalization, so
// lexically equivalent source produces identical token streams regardless
// of encoding variations. Identifiers in this language are ASCII, but
// string-free source can still carry comments and the lexer's error
// messages quote raw source text, so normalizing once at the boundary
// keeps every downstream byte offset stable.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}
