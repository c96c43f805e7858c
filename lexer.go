package glisp

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TokenKind is the lexical class of a token
type TokenKind int

const (
	TokEnd TokenKind = iota
	TokOpenParen
	TokCloseParen
	TokOpenBracket
	TokCloseBracket
	TokOpenBrace
	TokCloseBrace
	TokBool
	TokInt
	TokDouble
	TokString
	TokRegex
	TokQuote
	TokSymbol
	TokKeyword
)

// Token is one lexeme. Value holds the decoded literal for bools, numbers,
// strings and regexes.
type Token struct {
	Kind  TokenKind
	Text  string
	Value Object
	Line  int
	Col   int
}

var keywords = map[string]bool{
	"if":     true,
	"cond":   true,
	"and":    true,
	"or":     true,
	"define": true,
	"lambda": true,
	"else":   true,
	"nil":    true,
}

// Lexer produces tokens lazily from source text. Tokens looked at with Peek
// are cached until consumed.
type Lexer struct {
	src   string
	pos   int
	line  int
	col   int
	cache []Token
}

func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Peek returns the n-th upcoming token without consuming it. ok is false
// when the input has fewer tokens.
func (l *Lexer) Peek(n int) (tok Token, ok bool, err error) {
	for len(l.cache) <= n {
		tok, ok, err := l.scan()
		if err != nil || !ok {
			return Token{}, false, err
		}
		l.cache = append(l.cache, tok)
	}
	return l.cache[n], true, nil
}

// Consume drops the front cached token
func (l *Lexer) Consume() {
	if len(l.cache) > 0 {
		l.cache = l.cache[1:]
	}
}

// Next returns and consumes the next token. Running out of input is not an
// error: ok is simply false.
func (l *Lexer) Next() (Token, bool, error) {
	tok, ok, err := l.Peek(0)
	if ok {
		l.Consume()
	}
	return tok, ok, err
}

// Expect is Next for places where a token is required
func (l *Lexer) Expect() (Token, error) {
	tok, ok, err := l.Next()
	if err != nil {
		return Token{}, err
	}
	if !ok {
		return Token{}, l.errorf("unexpected end of input")
	}
	return tok, nil
}

// Pending returns the tokens scanned but not yet consumed
func (l *Lexer) Pending() []Token {
	return l.cache
}

func (l *Lexer) errorf(format string, args ...any) error {
	return &LexError{Line: l.line, Col: l.col, Msg: fmt.Sprintf(format, args...)}
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peekByte(n int) (byte, bool) {
	if l.pos+n >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos+n], true
}

func (l *Lexer) advance() byte {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isBracket(ch byte) bool {
	switch ch {
	case '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isSymbolStart(ch byte) bool {
	if ch >= utf8.RuneSelf || ch == '_' {
		return true
	}
	if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') {
		return true
	}
	return strings.IndexByte("+-*/<>=!?%&$^~.:@|", ch) >= 0
}

func isSymbolChar(ch byte) bool {
	return !isSpace(ch) && !isBracket(ch) && ch != '"' && ch != '\'' && ch != ';'
}

// atTerminator reports whether the next byte may end a token
func (l *Lexer) atTerminator() bool {
	ch, ok := l.peekByte(0)
	return !ok || isSpace(ch) || isBracket(ch) || ch == ';'
}

func (l *Lexer) requireTerminator(what string) error {
	if !l.atTerminator() {
		return l.errorf("%s must be followed by whitespace, a bracket or a comment, found %q", what, l.src[l.pos])
	}
	return nil
}

func (l *Lexer) skipBlank() error {
	for !l.atEnd() {
		ch := l.src[l.pos]
		switch {
		case isSpace(ch):
			l.advance()
		case ch == ';':
			if next, ok := l.peekByte(1); ok && next == '#' {
				end := strings.Index(l.src[l.pos+2:], "#;")
				if end < 0 {
					return l.errorf("unterminated block comment")
				}
				for n := end + 4; n > 0; n-- {
					l.advance()
				}
				continue
			}
			for !l.atEnd() && l.src[l.pos] != '\n' {
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) scan() (Token, bool, error) {
	if err := l.skipBlank(); err != nil {
		return Token{}, false, err
	}
	if l.atEnd() {
		return Token{}, false, nil
	}

	start, line, col := l.pos, l.line, l.col
	tok := func(kind TokenKind, v Object) (Token, bool, error) {
		return Token{Kind: kind, Text: l.src[start:l.pos], Value: v, Line: line, Col: col}, true, nil
	}

	ch := l.src[l.pos]
	switch ch {
	case '(':
		l.advance()
		return tok(TokOpenParen, nil)
	case ')':
		l.advance()
		return tok(TokCloseParen, nil)
	case '[':
		l.advance()
		return tok(TokOpenBracket, nil)
	case ']':
		l.advance()
		return tok(TokCloseBracket, nil)
	case '{':
		l.advance()
		return tok(TokOpenBrace, nil)
	case '}':
		l.advance()
		return tok(TokCloseBrace, nil)
	case '\'':
		if strings.HasPrefix(l.src[l.pos:], `'"(`) {
			s, err := l.scanRawString()
			if err != nil {
				return Token{}, false, err
			}
			return tok(TokString, String(s))
		}
		l.advance()
		return tok(TokQuote, nil)
	case '"':
		s, err := l.scanString()
		if err != nil {
			return Token{}, false, err
		}
		return tok(TokString, String(s))
	case '#':
		return l.scanBool(tok)
	case '/':
		if next, ok := l.peekByte(1); ok && !isSpace(next) && !isBracket(next) {
			re, err := l.scanRegex()
			if err != nil {
				return Token{}, false, err
			}
			return tok(TokRegex, re)
		}
	}

	if isDigit(ch) || ((ch == '-' || ch == '+') && l.nextIsDigit()) {
		v, kind, err := l.scanNumber()
		if err != nil {
			return Token{}, false, err
		}
		return tok(kind, v)
	}

	if isSymbolStart(ch) {
		for !l.atEnd() && isSymbolChar(l.src[l.pos]) {
			l.advance()
		}
		if err := l.requireTerminator("symbol"); err != nil {
			return Token{}, false, err
		}
		text := l.src[start:l.pos]
		if keywords[text] {
			return tok(TokKeyword, nil)
		}
		return tok(TokSymbol, Symbol(text))
	}

	return Token{}, false, l.errorf("unexpected character %q", ch)
}

func (l *Lexer) nextIsDigit() bool {
	next, ok := l.peekByte(1)
	return ok && isDigit(next)
}

func (l *Lexer) scanBool(tok func(TokenKind, Object) (Token, bool, error)) (Token, bool, error) {
	l.advance()
	ch, ok := l.peekByte(0)
	if !ok || (ch != 't' && ch != 'f') {
		return Token{}, false, l.errorf("expected #t or #f")
	}
	l.advance()
	if err := l.requireTerminator("boolean"); err != nil {
		return Token{}, false, err
	}
	return tok(TokBool, MakeBool(ch == 't'))
}

// scanNumber takes the whole run up to the next terminator and requires it
// to be a well formed literal, so 1. and 1.5abc are errors rather than two
// tokens.
func (l *Lexer) scanNumber() (Object, TokenKind, error) {
	start := l.pos
	for !l.atEnd() && isSymbolChar(l.src[l.pos]) {
		l.advance()
	}
	if err := l.requireTerminator("number"); err != nil {
		return nil, 0, err
	}
	text := l.src[start:l.pos]
	v, kind, ok := parseNumber(text)
	if !ok {
		return nil, 0, l.errorf("malformed number %q", text)
	}
	return v, kind, nil
}

// parseNumber accepts decimal, 0x hex and 0b binary integers and decimal
// floating literals. Partial matches are rejected.
func parseNumber(text string) (Object, TokenKind, bool) {
	digits := text
	neg := false
	if len(digits) > 0 && (digits[0] == '-' || digits[0] == '+') {
		neg = digits[0] == '-'
		digits = digits[1:]
	}
	if len(digits) > 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X' || digits[1] == 'b' || digits[1] == 'B') {
		base := 16
		if digits[1] == 'b' || digits[1] == 'B' {
			base = 2
		}
		body := digits[2:]
		if neg {
			body = "-" + body
		}
		n, err := strconv.ParseInt(body, base, 64)
		if err != nil {
			return nil, 0, false
		}
		return Int(n), TokInt, true
	}
	if isDecimal(digits) {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, 0, false
		}
		return Int(n), TokInt, true
	}
	if isFloatLiteral(digits) {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, 0, false
		}
		return Double(f), TokDouble, true
	}
	return nil, 0, false
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// isFloatLiteral matches d+.d+ with an optional exponent, or d+ with one
func isFloatLiteral(s string) bool {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == 0 {
		return false
	}
	hasFrac := false
	if i < len(s) && s[i] == '.' {
		i++
		j := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == j {
			return false
		}
		hasFrac = true
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		j := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		return i > j && i == len(s)
	}
	return hasFrac && i == len(s)
}

func (l *Lexer) scanString() (string, error) {
	l.advance()
	var b strings.Builder
	for {
		if l.atEnd() {
			return "", l.errorf("unterminated string")
		}
		ch := l.advance()
		if ch == '"' {
			break
		}
		if ch != '\\' {
			b.WriteByte(ch)
			continue
		}
		if l.atEnd() {
			return "", l.errorf("unterminated escape sequence")
		}
		esc := l.advance()
		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'x':
			n, err := l.scanHex(2)
			if err != nil {
				return "", err
			}
			b.WriteByte(byte(n))
		case 'u':
			n, err := l.scanHex(4)
			if err != nil {
				return "", err
			}
			b.WriteRune(rune(n))
		default:
			if esc < '0' || esc > '7' {
				return "", l.errorf("invalid escape sequence \\%c", esc)
			}
			n := int(esc - '0')
			for i := 0; i < 2; i++ {
				d, ok := l.peekByte(0)
				if !ok || d < '0' || d > '7' {
					return "", l.errorf("octal escape needs three digits")
				}
				l.advance()
				n = n*8 + int(d-'0')
			}
			if n > 0xff {
				return "", l.errorf("octal escape \\%o out of range", n)
			}
			b.WriteByte(byte(n))
		}
	}
	if err := l.requireTerminator("string"); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (l *Lexer) scanHex(n int) (int, error) {
	if l.pos+n > len(l.src) {
		return 0, l.errorf("escape needs %d hex digits", n)
	}
	digits := l.src[l.pos : l.pos+n]
	for i := 0; i < n; i++ {
		if !isHexDigit(digits[i]) {
			return 0, l.errorf("escape needs %d hex digits", n)
		}
	}
	v, _ := strconv.ParseUint(digits, 16, 32)
	for i := 0; i < n; i++ {
		l.advance()
	}
	return int(v), nil
}

// scanRawString reads '"( ... )"' and keeps the interior verbatim
func (l *Lexer) scanRawString() (string, error) {
	body := l.src[l.pos+3:]
	end := strings.Index(body, `)"'`)
	if end < 0 {
		return "", l.errorf("unterminated raw string")
	}
	for n := end + 6; n > 0; n-- {
		l.advance()
	}
	if err := l.requireTerminator("raw string"); err != nil {
		return "", err
	}
	return body[:end], nil
}

// scanRegex reads /.../. Only \/ is rewritten; other escapes go to the
// regex engine untouched.
func (l *Lexer) scanRegex() (*Regex, error) {
	l.advance()
	var b strings.Builder
	for {
		if l.atEnd() {
			return nil, l.errorf("unterminated regex")
		}
		ch := l.advance()
		if ch == '/' {
			break
		}
		if ch == '\\' {
			next, ok := l.peekByte(0)
			if !ok {
				return nil, l.errorf("unterminated regex")
			}
			l.advance()
			if next == '/' {
				b.WriteByte('/')
			} else {
				b.WriteByte('\\')
				b.WriteByte(next)
			}
			continue
		}
		b.WriteByte(ch)
	}
	if err := l.requireTerminator("regex"); err != nil {
		return nil, err
	}
	re, err := CompileRegex(b.String())
	if err != nil {
		return nil, l.errorf("%v", err)
	}
	return re, nil
}
