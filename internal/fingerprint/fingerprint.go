// Package fingerprint computes content hashes of entity snapshots.
//
// A snapshot is encoded as compact ASCII JSON with every object key sorted,
// ", " and ": " separators, and non-ASCII characters escaped as \uXXXX. The
// SHA-256 of that text is the fingerprint. The encoding is stable across
// runs and independent of the order attributes were discovered in.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"nathanbeddoewebdev/dirctl/internal/domain"
)

// Of returns the hex fingerprint of s together with the canonical JSON it
// was computed from. The JSON is what gets persisted as the snapshot.
func Of(s domain.EntitySnapshot) (digest string, canonical string) {
	canonical = Canonical(s)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:]), canonical
}

// Canonical encodes s as {"attributes": {...}, "<type>name": name}.
// Scalar attributes become strings and multi-valued attributes arrays.
func Canonical(s domain.EntitySnapshot) string {
	var b strings.Builder
	b.WriteString(`{"attributes": {`)
	for i, key := range s.Attributes.SortedKeys() {
		if i > 0 {
			b.WriteString(", ")
		}
		writeString(&b, key)
		b.WriteString(": ")
		vals := s.Attributes.Values(key)
		if len(vals) == 1 {
			writeString(&b, vals[0])
			continue
		}
		b.WriteByte('[')
		for j, v := range vals {
			if j > 0 {
				b.WriteString(", ")
			}
			writeString(&b, v)
		}
		b.WriteByte(']')
	}
	b.WriteString("}, ")
	writeString(&b, s.Type.NameKey())
	b.WriteString(": ")
	writeString(&b, s.Name)
	b.WriteByte('}')
	return b.String()
}

const hexDigits = "0123456789abcdef"

// writeString writes s as a JSON string literal using only printable ASCII.
func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\b':
			b.WriteString(`\b`)
		case r == '\f':
			b.WriteString(`\f`)
		case r >= 0x20 && r <= 0x7e:
			b.WriteRune(r)
		case r > 0xffff:
			r -= 0x10000
			writeEscape(b, 0xd800+(r>>10))
			writeEscape(b, 0xdc00+(r&0x3ff))
		default:
			writeEscape(b, r)
		}
	}
	b.WriteByte('"')
}

func writeEscape(b *strings.Builder, r rune) {
	b.WriteString(`\u`)
	b.WriteByte(hexDigits[(r>>12)&0xf])
	b.WriteByte(hexDigits[(r>>8)&0xf])
	b.WriteByte(hexDigits[(r>>4)&0xf])
	b.WriteByte(hexDigits[r&0xf])
}
