package parse

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"nathanbeddoewebdev/dirctl/internal/domain"
)

// LDIF parses a block of blank-line separated entries.
//
// Within an entry "key: value" stores the value verbatim (trimmed) and
// "key:: base64" stores the decoded text. Repeated keys fold into an ordered
// list. Every line stands alone: an indented "key: value" is an attribute
// of its own with the indentation dropped, and any other line without a
// colon is ignored. Lines starting with '#' are comments. Entries without
// attributes are never emitted.
func LDIF(block string) []*domain.AttributeRecord {
	var entries []*domain.AttributeRecord
	current := domain.NewAttributeRecord()

	commit := func() {
		if current.Len() > 0 {
			entries = append(entries, current)
			current = domain.NewAttributeRecord()
		}
	}

	for _, line := range splitLines(block) {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			commit()
			continue
		}
		if line[0] == '#' {
			continue
		}
		key, value, ok := parseAttribute(line)
		if !ok {
			continue
		}
		current.Add(key, value)
	}
	commit()
	return entries
}

func parseAttribute(line string) (string, string, bool) {
	idx := strings.IndexByte(line, ':')
	if idx <= 0 {
		return "", "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" {
		return "", "", false
	}
	rest := line[idx+1:]
	if strings.HasPrefix(rest, ":") {
		return key, DecodeBase64(rest[1:]), true
	}
	return key, strings.TrimSpace(rest), true
}

// DecodeBase64 decodes s as UTF-8 text. It never fails: padding may be
// omitted, undecodable input keeps its valid prefix followed by U+FFFD, and
// invalid UTF-8 sequences become U+FFFD.
func DecodeBase64(s string) string {
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return ""
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	}
	if err != nil {
		buf := make([]byte, base64.StdEncoding.DecodedLen(len(s)))
		n, _ := base64.StdEncoding.Decode(buf, []byte(s))
		raw = append(buf[:n], []byte(string(utf8.RuneError))...)
	}
	return toUTF8(raw)
}

func toUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	return string(out)
}
