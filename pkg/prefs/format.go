package prefs

import (
	"fmt"
	"strings"
)

// Format serializes entries back to the preference grammar, one statement
// per line. Parsing the output yields an identical entry sequence.
func Format(entries []Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.Kind.Identifier())
		sb.WriteByte('(')
		sb.WriteString(quoteString(e.Key))
		sb.WriteString(", ")
		sb.WriteString(e.Value.String())
		sb.WriteString(");\n")
	}
	return sb.String()
}

// quoteString renders s as a double-quoted grammar string. Only characters
// the lexer treats specially are escaped; everything else, including
// non-ASCII text, passes through as UTF-8.
func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0x08:
			sb.WriteString(`\b`)
		case 0x0c:
			sb.WriteString(`\f`)
		case 0x00:
			// \0 followed by a zero would read as an octal escape.
			if i+1 < len(s) && s[i+1] == '0' {
				sb.WriteString(`\x00`)
			} else {
				sb.WriteString(`\0`)
			}
		default:
			if c < 0x20 {
				sb.WriteString(fmt.Sprintf(`\x%02x`, c))
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
