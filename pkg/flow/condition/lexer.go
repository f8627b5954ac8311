package condition

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	input  string
	pos    int
	tokens []token
}

func lex(input string) ([]token, error) {
	l := &lexer{input: input}
	for {
		l.skipSpace()
		if l.pos >= len(l.input) {
			return l.tokens, nil
		}
		if err := l.next(); err != nil {
			return nil, err
		}
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.pos++
	}
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *lexer) emit(kind tokenKind, text string, width int) {
	l.tokens = append(l.tokens, token{kind: kind, text: text, pos: l.pos})
	l.pos += width
}

func (l *lexer) next() error {
	ch := l.peek(0)
	switch ch {
	case '(':
		l.emit(tokenLParen, "(", 1)
	case ')':
		l.emit(tokenRParen, ")", 1)
	case '!':
		if l.peek(1) == '=' {
			l.emit(tokenNeq, "!=", 2)
		} else {
			l.emit(tokenNot, "!", 1)
		}
	case '=':
		if l.peek(1) != '=' {
			return fmt.Errorf("condition: unexpected '=' at %d; use '=='", l.pos)
		}
		l.emit(tokenEq, "==", 2)
	case '<':
		if l.peek(1) == '=' {
			l.emit(tokenLte, "<=", 2)
		} else {
			l.emit(tokenLt, "<", 1)
		}
	case '>':
		if l.peek(1) == '=' {
			l.emit(tokenGte, ">=", 2)
		} else {
			l.emit(tokenGt, ">", 1)
		}
	case '&':
		if l.peek(1) != '&' {
			return fmt.Errorf("condition: unexpected '&' at %d; use '&&'", l.pos)
		}
		l.emit(tokenAnd, "&&", 2)
	case '|':
		if l.peek(1) != '|' {
			return fmt.Errorf("condition: unexpected '|' at %d; use '||'", l.pos)
		}
		l.emit(tokenOr, "||", 2)
	case '"', '\'':
		return l.lexString(ch)
	default:
		l.lexWord()
	}
	return nil
}

func (l *lexer) lexString(quote byte) error {
	start := l.pos
	escaped := false
	for i := start + 1; i < len(l.input); i++ {
		c := l.input[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c != quote {
			continue
		}

		body := l.input[start+1 : i]
		if quote == '\'' {
			body = strings.ReplaceAll(body, `\'`, `'`)
			body = strings.ReplaceAll(body, `"`, `\"`)
		}
		value, err := strconv.Unquote(`"` + body + `"`)
		if err != nil {
			return fmt.Errorf("condition: invalid string literal at %d: %w", start, err)
		}
		l.tokens = append(l.tokens, token{kind: tokenString, text: value, pos: start})
		l.pos = i + 1
		return nil
	}
	return fmt.Errorf("condition: unterminated string literal at %d", start)
}

func (l *lexer) lexWord() {
	start := l.pos
	for l.pos < len(l.input) && !isDelimiter(l.input[l.pos]) {
		l.pos++
	}
	word := l.input[start:l.pos]

	kind := tokenIdent
	switch strings.ToLower(word) {
	case "true", "false":
		kind, word = tokenBool, strings.ToLower(word)
	case "null", "nil":
		kind, word = tokenNull, "null"
	default:
		if _, err := strconv.ParseFloat(word, 64); err == nil {
			kind = tokenNumber
		}
	}
	l.tokens = append(l.tokens, token{kind: kind, text: word, pos: start})
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '!', '=', '<', '>', '&', '|', '"', '\'':
		return true
	}
	return isSpace(c)
}
