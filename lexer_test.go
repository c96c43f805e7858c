package glisp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(t *testing.T, src string) []TokenKind {
	t.Helper()
	l := NewLexer(src)
	var out []TokenKind
	for {
		tok, ok, err := l.Next()
		require.NoError(t, err, src)
		if !ok {
			return out
		}
		out = append(out, tok.Kind)
	}
}

func TestTokenKinds(t *testing.T) {
	assert.Equal(t, []TokenKind{
		TokOpenParen, TokKeyword, TokSymbol, TokQuote, TokSymbol, TokCloseParen,
		TokOpenBracket, TokDouble, TokString, TokInt, TokCloseBracket,
		TokOpenBrace, TokCloseBrace, TokBool, TokRegex,
	}, kinds(t, `(define x 'y) [1.5 "s" 0x10] {} #f /re/`))

	assert.Equal(t, []TokenKind{TokKeyword, TokKeyword, TokSymbol}, kinds(t, "nil else elsewhere"))
	assert.Equal(t, []TokenKind{TokString, TokQuote, TokOpenParen, TokCloseParen}, kinds(t, `'"(raw)"' '()`))
	assert.Empty(t, kinds(t, "  ; only a comment"))
}

func TestTokenValues(t *testing.T) {
	l := NewLexer(`-12 3.5 "a\tb" foo`)
	want := []Object{Int(-12), Double(3.5), String("a\tb"), Symbol("foo")}
	for _, w := range want {
		tok, err := l.Expect()
		require.NoError(t, err)
		assert.Equal(t, w, tok.Value)
	}
	_, err := l.Expect()
	assert.Error(t, err)
}

func TestTokenPositions(t *testing.T) {
	l := NewLexer("(a\n  bc)")
	expect := []struct {
		text      string
		line, col int
	}{
		{"(", 1, 1},
		{"a", 1, 2},
		{"bc", 2, 3},
		{")", 2, 5},
	}
	for _, e := range expect {
		tok, ok, err := l.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, e.text, tok.Text)
		assert.Equal(t, e.line, tok.Line, e.text)
		assert.Equal(t, e.col, tok.Col, e.text)
	}
}

func TestLexerPeek(t *testing.T) {
	l := NewLexer("a b c")
	tok, ok, err := l.Peek(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", tok.Text)
	assert.Len(t, l.Pending(), 2)

	tok, _, _ = l.Next()
	assert.Equal(t, "a", tok.Text)
	assert.Len(t, l.Pending(), 1)

	_, ok, err = l.Peek(5)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestLexerErrors(t *testing.T) {
	for _, src := range []string{`"open`, "1.5abc", "#q", `"\z"`, "/open", ";# open", "\x01", `"\u12"`, `"\u12zz"`, "0xFFFFFFFFFFFFFFFF", "99999999999999999999"} {
		l := NewLexer(src)
		_, _, err := l.Next()
		var le *LexError
		assert.ErrorAs(t, err, &le, src)
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		text string
		want Object
	}{
		{"10", Int(10)},
		{"-10", Int(-10)},
		{"0xff", Int(255)},
		{"-0x10", Int(-16)},
		{"0b11", Int(3)},
		{"0x7fffffffffffffff", Int(math.MaxInt64)},
		{"-0x8000000000000000", Int(math.MinInt64)},
		{"1.25", Double(1.25)},
		{"2e2", Double(200)},
		{"1.5e-1", Double(0.15)},
	}
	for _, c := range cases {
		v, _, ok := parseNumber(c.text)
		require.True(t, ok, c.text)
		assert.Equal(t, c.want, v, c.text)
	}
	for _, bad := range []string{"", "-", "1.", ".5", "1e", "12a", "0x", "0b2", "1.2.3", "0xFFFFFFFFFFFFFFFF", "0x8000000000000000"} {
		_, _, ok := parseNumber(bad)
		assert.False(t, ok, bad)
	}
}
