package prefs

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type tokenType uint8

const (
	tokEOF tokenType = iota
	tokIdent
	tokString
	tokInt
	tokFloat
	tokBool
	tokNull
	tokLParen
	tokRParen
	tokComma
	tokSemi
)

func (t tokenType) String() string {
	switch t {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokInt:
		return "integer"
	case tokFloat:
		return "float"
	case tokBool:
		return "boolean"
	case tokNull:
		return "null"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokComma:
		return "','"
	case tokSemi:
		return "';'"
	default:
		return "unknown token"
	}
}

type token struct {
	typ  tokenType
	text string // identifier name or processed string payload
	num  float64
	i64  int64
	b    bool
	line int
	col  int
}

// lexer tokenizes preference text. Positions are 1-based.
type lexer struct {
	input string
	pos   int
	line  int
	col   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input, line: 1, col: 1}
}

func (l *lexer) errf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Line: l.line, Column: l.col, Message: fmt.Sprintf(format, args...)}
}

func (l *lexer) peek() (byte, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	return l.input[l.pos], true
}

func (l *lexer) advance() byte {
	c := l.input[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

// skipLine discards input through the end of the current line. Used for
// error recovery when a token cannot be produced.
func (l *lexer) skipLine() {
	for {
		c, ok := l.peek()
		if !ok {
			return
		}
		l.advance()
		if c == '\n' {
			return
		}
	}
}

func (l *lexer) skipSpaceAndComments() {
	for {
		c, ok := l.peek()
		if !ok {
			return
		}
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/':
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == '/' {
				l.skipLine()
			} else if l.pos+1 < len(l.input) && l.input[l.pos+1] == '*' {
				l.advance()
				l.advance()
				for {
					c, ok := l.peek()
					if !ok {
						return // unterminated block comment, recover at EOF
					}
					l.advance()
					if c == '*' {
						if n, ok := l.peek(); ok && n == '/' {
							l.advance()
							break
						}
					}
				}
			} else {
				return // lone slash, surfaces as an unexpected character
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (token, *SyntaxError) {
	l.skipSpaceAndComments()

	line, col := l.line, l.col
	c, ok := l.peek()
	if !ok {
		return token{typ: tokEOF, line: line, col: col}, nil
	}

	switch {
	case c == '(':
		l.advance()
		return token{typ: tokLParen, line: line, col: col}, nil
	case c == ')':
		l.advance()
		return token{typ: tokRParen, line: line, col: col}, nil
	case c == ',':
		l.advance()
		return token{typ: tokComma, line: line, col: col}, nil
	case c == ';':
		l.advance()
		return token{typ: tokSemi, line: line, col: col}, nil
	case c == '"':
		return l.lexString(line, col)
	case c == '-' || (c >= '0' && c <= '9'):
		return l.lexNumber(line, col)
	case isIdentStart(c):
		return l.lexIdentifier(line, col), nil
	default:
		err := l.errf("unexpected character %q", rune(c))
		l.advance()
		return token{}, err
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (l *lexer) lexIdentifier(line, col int) token {
	start := l.pos
	for {
		c, ok := l.peek()
		if !ok || !isIdentPart(c) {
			break
		}
		l.advance()
	}
	ident := l.input[start:l.pos]
	switch ident {
	case "true":
		return token{typ: tokBool, b: true, line: line, col: col}
	case "false":
		return token{typ: tokBool, b: false, line: line, col: col}
	case "null":
		return token{typ: tokNull, line: line, col: col}
	default:
		return token{typ: tokIdent, text: ident, line: line, col: col}
	}
}

// lexString consumes a double-quoted string, processing the JavaScript
// escape set prefs.js files use. Embedded JSON needs no special handling:
// its quotes arrive escaped and decode like any other characters.
func (l *lexer) lexString(line, col int) (token, *SyntaxError) {
	l.advance() // opening quote
	var sb strings.Builder

	for {
		c, ok := l.peek()
		if !ok || c == '\n' {
			// Firefox's own parser rejects raw newlines in strings;
			// stopping here lets lenient recovery resume on the next line.
			return token{}, &SyntaxError{Line: line, Column: col, Message: "unterminated string literal"}
		}
		l.advance()
		switch c {
		case '"':
			return token{typ: tokString, text: sb.String(), line: line, col: col}, nil
		case '\\':
			if err := l.lexEscape(&sb); err != nil {
				return token{}, err
			}
		default:
			sb.WriteByte(c)
		}
	}
}

func (l *lexer) lexEscape(sb *strings.Builder) *SyntaxError {
	c, ok := l.peek()
	if !ok {
		return l.errf("unexpected end of input in escape sequence")
	}
	l.advance()
	switch c {
	case '"':
		sb.WriteByte('"')
	case '\'':
		sb.WriteByte('\'')
	case '\\':
		sb.WriteByte('\\')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'b':
		sb.WriteByte(0x08)
	case 'f':
		sb.WriteByte(0x0c)
	case '0':
		// \0 is NUL; \00 and \000 are octal escapes, which prefs.js
		// never uses and the grammar rejects.
		if n, ok := l.peek(); ok && n == '0' {
			return l.errf("octal escape sequences are not supported")
		}
		sb.WriteByte(0x00)
	case 'x':
		r, err := l.lexHexEscape(2, "\\x")
		if err != nil {
			return err
		}
		sb.WriteRune(r)
	case 'u':
		r, err := l.lexHexEscape(4, "\\u")
		if err != nil {
			return err
		}
		sb.WriteRune(r)
	default:
		return l.errf("invalid escape sequence \\%c", c)
	}
	return nil
}

func (l *lexer) lexHexEscape(digits int, prefix string) (rune, *SyntaxError) {
	start := l.pos
	for i := 0; i < digits; i++ {
		c, ok := l.peek()
		if !ok || !isHexDigit(c) {
			break
		}
		l.advance()
	}
	hex := l.input[start:l.pos]
	if len(hex) != digits {
		return 0, l.errf("incomplete hex escape %s%s", prefix, hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, l.errf("invalid hex escape %s%s", prefix, hex)
	}
	r := rune(v)
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	return r, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (l *lexer) lexNumber(line, col int) (token, *SyntaxError) {
	start := l.pos
	if c, ok := l.peek(); ok && c == '-' {
		l.advance()
	}
	digits := 0
	for {
		c, ok := l.peek()
		if !ok || c < '0' || c > '9' {
			break
		}
		l.advance()
		digits++
	}
	if digits == 0 {
		return token{}, &SyntaxError{Line: line, Column: col, Message: "expected digits after '-'"}
	}

	isFloat := false
	if c, ok := l.peek(); ok && c == '.' {
		isFloat = true
		l.advance()
		for {
			c, ok := l.peek()
			if !ok || c < '0' || c > '9' {
				break
			}
			l.advance()
		}
	}
	if c, ok := l.peek(); ok && (c == 'e' || c == 'E') {
		isFloat = true
		l.advance()
		if c, ok := l.peek(); ok && (c == '+' || c == '-') {
			l.advance()
		}
		expDigits := 0
		for {
			c, ok := l.peek()
			if !ok || c < '0' || c > '9' {
				break
			}
			l.advance()
			expDigits++
		}
		if expDigits == 0 {
			return token{}, l.errf("missing exponent digits")
		}
	}

	raw := l.input[start:l.pos]
	if !isFloat {
		i, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			return token{typ: tokInt, i64: i, line: line, col: col}, nil
		}
		// Out of int64 range; fall through to float like Firefox does.
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return token{}, &SyntaxError{Line: line, Column: col, Message: fmt.Sprintf("invalid number %q", raw)}
	}
	return token{typ: tokFloat, num: f, line: line, col: col}, nil
}
