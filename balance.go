package glisp

import (
	"fmt"
	"strings"
)

// bracketRun counts consecutive open brackets of one kind
type bracketRun struct {
	open  byte
	count int
}

var closers = map[byte]byte{')': '(', ']': '[', '}': '{'}

// CheckBalance scans text for unmatched brackets without tokenizing it.
// Strings, raw strings, regexes and comments are skipped. Unclosed input is
// Incomplete; a closing bracket that doesn't match is Failed.
func CheckBalance(text string) (Status, error) {
	var stack []bracketRun
	line, col := 1, 0
	tokenStart := true

	for i := 0; i < len(text); i++ {
		ch := text[i]
		col++
		if ch == '\n' {
			line++
			col = 0
		}
		switch {
		case ch == ';':
			if i+1 < len(text) && text[i+1] == '#' {
				end := strings.Index(text[i+2:], "#;")
				if end < 0 {
					return Incomplete, nil
				}
				line, col = advancePos(text[i+1:i+2+end+2], line, col)
				i += 2 + end + 1
			} else {
				for i+1 < len(text) && text[i+1] != '\n' {
					i++
				}
			}
			tokenStart = true
			continue
		case ch == '"':
			end, ok := skipString(text, i)
			if !ok {
				return Incomplete, nil
			}
			line, col = advancePos(text[i+1:end+1], line, col)
			i = end
		case ch == '\'' && strings.HasPrefix(text[i:], `'"(`):
			end := strings.Index(text[i+3:], `)"'`)
			if end < 0 {
				return Incomplete, nil
			}
			line, col = advancePos(text[i+1:i+3+end+3], line, col)
			i += 3 + end + 2
		case ch == '/' && tokenStart && i+1 < len(text) && !isSpace(text[i+1]) && !isBracket(text[i+1]):
			end, ok := skipRegex(text, i)
			if !ok {
				return Incomplete, nil
			}
			line, col = advancePos(text[i+1:end+1], line, col)
			i = end
		case ch == '(' || ch == '[' || ch == '{':
			if n := len(stack); n > 0 && stack[n-1].open == ch {
				stack[n-1].count++
			} else {
				stack = append(stack, bracketRun{open: ch, count: 1})
			}
		case ch == ')' || ch == ']' || ch == '}':
			n := len(stack)
			if n == 0 {
				return Failed, &ParseError{Line: line, Col: col, Msg: fmt.Sprintf("unexpected %q", ch)}
			}
			if stack[n-1].open != closers[ch] {
				return Failed, &ParseError{Line: line, Col: col, Msg: fmt.Sprintf("%q closes %q", ch, stack[n-1].open)}
			}
			stack[n-1].count--
			if stack[n-1].count == 0 {
				stack = stack[:n-1]
			}
		}
		tokenStart = isSpace(ch) || isBracket(ch) || ch == '\''
	}
	if len(stack) > 0 {
		return Incomplete, nil
	}
	return Complete, nil
}

// skipString returns the index of the closing quote of the string at i
func skipString(text string, i int) (int, bool) {
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '"':
			return j, true
		}
	}
	return 0, false
}

func skipRegex(text string, i int) (int, bool) {
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '/':
			return j, true
		}
	}
	return 0, false
}

func advancePos(s string, line, col int) (int, int) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}
