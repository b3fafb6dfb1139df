// Package lexer scans filter-expression text into a token stream for the
// parser. It never evaluates or resolves anything against a schema.
package lexer

import (
	"strings"

	"vcffilter/internal/errors"
	"vcffilter/internal/token"
)

// Token is one lexical unit: its Kind per the grammar, the raw Text it
// spans, and the byte Offset it started at (used for error carets).
type Token struct {
	Kind   token.Kind
	Text   string
	Offset int
	Quoted bool
}

const delimiters = "\"'<>=!&|()+-*/"

func isDelim(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || strings.IndexByte(delimiters, c) >= 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlphaNumeric(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// Lexer is a mutating cursor over the expression text.
type Lexer struct {
	src     string
	pos     int
	pending []Token
}

// New returns a lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: src}
}

// Next returns the next token, or a SyntaxError for unterminated quotes.
// At end of input it returns a Token with Kind == token.EOF.
func (l *Lexer) Next() (Token, error) {
	if len(l.pending) > 0 {
		t := l.pending[0]
		l.pending = l.pending[1:]
		return t, nil
	}

	l.skipWhitespace()
	if l.atEnd() {
		return Token{Kind: token.EOF, Offset: l.pos}, nil
	}

	if tok, ok := l.scanFunctionPrefix(); ok {
		return tok, nil
	}

	c := l.src[l.pos]

	if c == '"' || c == '\'' {
		return l.scanString(c)
	}

	if isDigit(c) || c == '.' {
		if tok, ok := l.scanNumber(); ok {
			return tok, nil
		}
		// Not a clean numeric literal (trailing alnum) — fall through and
		// scan it as an identifier instead.
	}

	if tok, ok := l.scanOperator(); ok {
		return tok, nil
	}

	return l.scanIdentifier(), nil
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

// scanFunctionPrefix recognises %MAX(, %MIN(, %AVG( by literal prefix and
// emits the function token immediately followed by a synthetic '(' — a
// cleaner two-token push than re-scanning the paren on the next call.
func (l *Lexer) scanFunctionPrefix() (Token, bool) {
	rest := l.src[l.pos:]
	funcs := [...]struct {
		prefix string
		kind   token.Kind
	}{
		{"%MAX(", token.Max},
		{"%MIN(", token.Min},
		{"%AVG(", token.Avg},
	}
	for _, f := range funcs {
		if strings.HasPrefix(rest, f.prefix) {
			nameLen := len(f.prefix) - 1
			start := l.pos
			tok := Token{Kind: f.kind, Text: l.src[start : start+nameLen], Offset: start}
			l.pending = append(l.pending, Token{Kind: token.LeftParen, Text: "(", Offset: start + nameLen})
			l.pos += len(f.prefix)
			return tok, true
		}
	}
	return Token{}, false
}

// scanNumber consumes d.ddde[+-]dd and reports whether the literal cleanly
// ends at a non-alphanumeric delimiter.
func (l *Lexer) scanNumber() (Token, bool) {
	s := l.src[l.pos:]
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			j++
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	if i == 0 {
		return Token{}, false
	}
	if i < len(s) && isAlphaNumeric(s[i]) {
		return Token{}, false
	}
	start := l.pos
	tok := Token{Kind: token.Value, Text: s[:i], Offset: start}
	l.pos += i
	return tok, true
}

func (l *Lexer) scanString(quote byte) (Token, error) {
	start := l.pos
	l.pos++ // skip opening quote
	contentStart := l.pos
	for !l.atEnd() && l.src[l.pos] != quote {
		l.pos++
	}
	if l.atEnd() {
		return Token{}, errors.NewSyntaxError("missing quotes", l.src, start)
	}
	text := l.src[contentStart:l.pos]
	l.pos++ // skip closing quote
	return Token{Kind: token.Value, Text: text, Offset: start, Quoted: true}, nil
}

// scanOperator recognises composite operators before their single-char
// forms, and treats a lone '=' as Eq.
func (l *Lexer) scanOperator() (Token, bool) {
	s := l.src[l.pos:]
	start := l.pos

	two := map[string]token.Kind{
		"==": token.Eq, "!=": token.Ne, "<=": token.Le, ">=": token.Ge,
		"&&": token.AndVec, "||": token.OrVec,
	}
	if len(s) >= 2 {
		if k, ok := two[s[:2]]; ok {
			l.pos += 2
			return Token{Kind: k, Text: s[:2], Offset: start}, true
		}
	}

	one := map[byte]token.Kind{
		'(': token.LeftParen, ')': token.RightParen,
		'<': token.Lt, '>': token.Gt, '=': token.Eq,
		'&': token.And, '|': token.Or,
		'+': token.Add, '-': token.Sub, '*': token.Mul, '/': token.Div,
	}
	if len(s) == 0 {
		return Token{}, false
	}
	if k, ok := one[s[0]]; ok {
		l.pos++
		return Token{Kind: k, Text: s[:1], Offset: start}, true
	}
	return Token{}, false
}

var namespacePrefixes = [...]string{"INFO/", "FORMAT/", "FMT/"}

// scanIdentifier absorbs an optional namespace prefix, then consumes
// everything up to the next delimiter or whitespace.
func (l *Lexer) scanIdentifier() Token {
	start := l.pos
	for _, p := range namespacePrefixes {
		if strings.HasPrefix(l.src[l.pos:], p) {
			l.pos += len(p)
			break
		}
	}
	for !l.atEnd() && !isDelim(l.src[l.pos]) {
		l.pos++
	}
	return Token{Kind: token.Value, Text: l.src[start:l.pos], Offset: start}
}
