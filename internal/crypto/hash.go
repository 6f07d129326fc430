package crypto

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"unicode/utf8"

	"golang.org/x/crypto/sha3"
)

// MarshalJSON encodes v the way relay nodes hash it: struct fields in
// declaration order, no HTML escaping, U+2028 and U+2029 written raw, no
// trailing newline.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes encoding/json
// always emits back into raw runes. Escape pairs such as \\ are copied whole
// so an escaped backslash followed by "u2028" is left alone.
func unescapeLineSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' {
			out = append(out, b[i])
			continue
		}
		if i+5 < len(b) && string(b[i+1:i+5]) == "u202" && (b[i+5] == '8' || b[i+5] == '9') {
			out = utf8.AppendRune(out, rune(0x2028+int(b[i+5]-'8')))
			i += 5
			continue
		}
		out = append(out, b[i])
		if i+1 < len(b) {
			out = append(out, b[i+1])
			i++
		}
	}
	return out
}

// SHA3 returns the SHA3-256 digest of b.
func SHA3(b []byte) []byte {
	sum := sha3.Sum256(b)
	return sum[:]
}

// SHA3Hex encodes v with MarshalJSON and returns its SHA3-256 digest in hex.
func SHA3Hex(v any) (string, error) {
	b, err := MarshalJSON(v)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(SHA3(b)), nil
}
