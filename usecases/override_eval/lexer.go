package override_eval

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/notebooker/backend/models/pyast"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokFloat
	tokString
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lexer tokenizes one override expression. Keeping it hand-written keeps the
// diagnostics close to what CPython reports for the same input.
type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

// two-character operators, checked before single-character ones
var doublePuncts = []string{"**", "//"}

const singlePuncts = "()[]{},:.+-*/%="

func (l *lexer) peekRune() (rune, int) {
	if l.pos >= len(l.src) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.src[l.pos:])
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) {
		r, w := l.peekRune()
		if r == ' ' || r == '\t' {
			l.pos += w
			continue
		}
		break
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	r, _ := l.peekRune()

	switch {
	case r == '"' || r == '\'':
		return l.lexString(r)
	case unicode.IsDigit(r):
		return l.lexNumber()
	case r == '.':
		// a leading dot starts a float literal, otherwise it is attribute access
		if next, _ := utf8.DecodeRuneInString(l.src[l.pos+1:]); unicode.IsDigit(next) {
			return l.lexNumber()
		}
		l.pos++
		return token{kind: tokPunct, text: ".", pos: start}, nil
	case unicode.IsLetter(r) || r == '_':
		for l.pos < len(l.src) {
			r, w := l.peekRune()
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			l.pos += w
		}
		return token{kind: tokIdent, text: l.src[start:l.pos], pos: start}, nil
	}

	for _, op := range doublePuncts {
		if strings.HasPrefix(l.src[l.pos:], op) {
			l.pos += len(op)
			return token{kind: tokPunct, text: op, pos: start}, nil
		}
	}
	if strings.ContainsRune(singlePuncts, r) {
		l.pos++
		return token{kind: tokPunct, text: string(r), pos: start}, nil
	}

	return token{}, errors.Wrapf(pyast.ErrSyntax, "unexpected character %q", r)
}

func (l *lexer) lexString(quote rune) (token, error) {
	start := l.pos
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.src) {
		r, w := l.peekRune()
		l.pos += w
		switch r {
		case quote:
			return token{kind: tokString, text: sb.String(), pos: start}, nil
		case '\\':
			if l.pos >= len(l.src) {
				return token{}, errors.Wrap(pyast.ErrSyntax, "unterminated string literal")
			}
			esc, ew := l.peekRune()
			l.pos += ew
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '\\', '\'', '"':
				sb.WriteRune(esc)
			default:
				// unknown escapes are kept verbatim, as CPython does
				sb.WriteRune('\\')
				sb.WriteRune(esc)
			}
		default:
			sb.WriteRune(r)
		}
	}
	return token{}, errors.Wrap(pyast.ErrSyntax, "unterminated string literal")
}

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	isFloat := false
	for l.pos < len(l.src) {
		r, w := l.peekRune()
		switch {
		case unicode.IsDigit(r) || r == '_':
			l.pos += w
		case r == '.' && !isFloat:
			isFloat = true
			l.pos += w
		case (r == 'e' || r == 'E') && l.pos > start:
			isFloat = true
			l.pos += w
			if sign, sw := l.peekRune(); sign == '+' || sign == '-' {
				l.pos += sw
			}
		default:
			goto done
		}
	}
done:
	kind := tokInt
	if isFloat {
		kind = tokFloat
	}
	return token{kind: kind, text: l.src[start:l.pos], pos: start}, nil
}
