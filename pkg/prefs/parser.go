package prefs

import (
	"fmt"
	"strings"
)

// Result carries the best-effort entry sequence and the warnings produced
// while parsing it. Callers inspect degradation through Warnings instead of
// a side-channel log.
type Result struct {
	Entries  []Entry
	Warnings []ParseWarning
}

// Parse tokenizes and parses preference text in lenient mode. Malformed
// statements become warnings and the parser resynchronizes at the next
// statement boundary; the returned entries preserve source order.
func Parse(text string) Result {
	p := newParser(text)
	entries, warnings, _ := p.run(false)
	return Result{Entries: entries, Warnings: warnings}
}

// ParseStrict parses preference text, aborting on the first malformed
// statement with a located *SyntaxError. It shares the lenient algorithm;
// only the escalation policy differs.
func ParseStrict(text string) ([]Entry, error) {
	p := newParser(text)
	entries, _, err := p.run(true)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

type parser struct {
	lex    *lexer
	cur    token
	curErr *SyntaxError
	lines  []string
}

func newParser(text string) *parser {
	p := &parser{lex: newLexer(text), lines: strings.Split(text, "\n")}
	p.advance()
	return p
}

func (p *parser) advance() {
	p.cur, p.curErr = p.lex.next()
}

func (p *parser) run(strict bool) ([]Entry, []ParseWarning, error) {
	var entries []Entry
	var warnings []ParseWarning

	for {
		if p.curErr != nil {
			if strict {
				return nil, nil, p.curErr
			}
			warnings = append(warnings, p.warn(p.curErr))
			p.recover()
			continue
		}
		if p.cur.typ == tokEOF {
			return entries, warnings, nil
		}
		entry, err := p.parseStatement()
		if err != nil {
			if strict {
				return nil, nil, err
			}
			warnings = append(warnings, p.warn(err))
			p.recover()
			continue
		}
		entries = append(entries, entry)
	}
}

// recover skips input to the next statement boundary: past the next
// semicolon, or to the next line when the lexer cannot produce a token.
func (p *parser) recover() {
	for {
		if p.curErr != nil {
			p.lex.skipLine()
			p.advance()
			continue
		}
		switch p.cur.typ {
		case tokEOF:
			return
		case tokSemi:
			p.advance()
			return
		default:
			p.advance()
		}
	}
}

func (p *parser) warn(err *SyntaxError) ParseWarning {
	w := ParseWarning{Line: err.Line, Message: err.Message}
	if err.Line >= 1 && err.Line <= len(p.lines) {
		w.Snippet = strings.TrimSpace(p.lines[err.Line-1])
	}
	return w
}

// parseStatement parses one declaration: kind "(" key "," literal ")" ";".
func (p *parser) parseStatement() (Entry, *SyntaxError) {
	if p.cur.typ != tokIdent {
		return Entry{}, p.errAtCur("expected preference function, got %s", p.cur.typ)
	}
	kind, ok := declKindFor(p.cur.text)
	if !ok {
		return Entry{}, p.errAtCur("unknown preference function %q", p.cur.text)
	}
	p.advance()

	if err := p.expect(tokLParen); err != nil {
		return Entry{}, err
	}

	if p.curErr != nil {
		return Entry{}, p.curErr
	}
	if p.cur.typ != tokString {
		return Entry{}, p.errAtCur("expected quoted preference key, got %s", p.cur.typ)
	}
	key := p.cur.text
	if key == "" {
		return Entry{}, p.errAtCur("preference key must not be empty")
	}
	p.advance()

	if err := p.expect(tokComma); err != nil {
		return Entry{}, err
	}

	value, err := p.parseValue()
	if err != nil {
		return Entry{}, err
	}

	if err := p.expect(tokRParen); err != nil {
		return Entry{}, err
	}
	if err := p.expect(tokSemi); err != nil {
		return Entry{}, err
	}

	return Entry{Key: key, Value: value, Kind: kind}, nil
}

func (p *parser) parseValue() (Value, *SyntaxError) {
	if p.curErr != nil {
		return Value{}, p.curErr
	}
	var v Value
	switch p.cur.typ {
	case tokString:
		v = StringValue(p.cur.text)
	case tokInt:
		v = IntValue(p.cur.i64)
	case tokFloat:
		v = FloatValue(p.cur.num)
	case tokBool:
		v = BoolValue(p.cur.b)
	case tokNull:
		v = NullValue()
	default:
		return Value{}, p.errAtCur("expected literal value, got %s", p.cur.typ)
	}
	p.advance()
	return v, nil
}

func (p *parser) expect(typ tokenType) *SyntaxError {
	if p.curErr != nil {
		return p.curErr
	}
	if p.cur.typ != typ {
		return p.errAtCur("expected %s, got %s", typ, p.cur.typ)
	}
	p.advance()
	return nil
}

func (p *parser) errAtCur(format string, args ...any) *SyntaxError {
	line, col := p.cur.line, p.cur.col
	if line == 0 {
		line, col = 1, 1
	}
	return &SyntaxError{Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
}
