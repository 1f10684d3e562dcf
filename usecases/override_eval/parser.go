package override_eval

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/notebooker/backend/models/pyast"
)

// parser builds a pyast.Expr from one expression's source text. Operator
// precedence follows Python: +/- bind looser than * / // %, which bind
// looser than unary minus, which binds looser than **.
type parser struct {
	lex *lexer
	tok token
}

// ParseExpression parses a single override expression. The whole input must
// be consumed: trailing tokens are a syntax error.
func ParseExpression(src string) (pyast.Expr, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	expr, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, errors.Wrapf(pyast.ErrSyntax, "unexpected token %q", p.tok.text)
	}
	return expr, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expectPunct(text string) error {
	if p.tok.kind != tokPunct || p.tok.text != text {
		return errors.Wrapf(pyast.ErrSyntax, "expected %q but found %q", text, p.tok.text)
	}
	return p.advance()
}

var binaryPrecedence = map[string]int{
	"+": 10, "-": 10,
	"*": 20, "/": 20, "//": 20, "%": 20,
}

func (p *parser) parseBinary(minPrecedence int) (pyast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPunct {
		prec, ok := binaryPrecedence[p.tok.text]
		if !ok || prec < minPrecedence {
			break
		}
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = pyast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (pyast.Expr, error) {
	if p.tok.kind == tokPunct && (p.tok.text == "-" || p.tok.text == "+") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return pyast.UnaryExpr{Op: op, Operand: operand}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (pyast.Expr, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokPunct && p.tok.text == "**" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		// ** is right-associative and binds tighter than unary minus on its right
		exponent, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return pyast.BinaryExpr{Op: "**", Left: base, Right: exponent}, nil
	}
	return base, nil
}

func (p *parser) parsePostfix() (pyast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPunct {
		switch p.tok.text {
		case ".":
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.kind != tokIdent {
				return nil, errors.Wrapf(pyast.ErrSyntax, "expected attribute name but found %q", p.tok.text)
			}
			expr = pyast.AttributeExpr{Receiver: expr, Name: p.tok.text}
			if err := p.advance(); err != nil {
				return nil, err
			}
		case "(":
			call, err := p.parseCall(expr)
			if err != nil {
				return nil, err
			}
			expr = call
		default:
			return expr, nil
		}
	}
	return expr, nil
}

func (p *parser) parseCall(fn pyast.Expr) (pyast.Expr, error) {
	if err := p.advance(); err != nil { // consume "("
		return nil, err
	}
	call := pyast.CallExpr{Func: fn}
	for !(p.tok.kind == tokPunct && p.tok.text == ")") {
		if p.tok.kind == tokEOF {
			return nil, errors.Wrap(pyast.ErrSyntax, "'(' was never closed")
		}
		arg, kwargName, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		if kwargName != "" {
			call.Kwargs = append(call.Kwargs, pyast.Kwarg{Name: kwargName, Value: arg})
		} else {
			if len(call.Kwargs) > 0 {
				return nil, errors.Wrap(pyast.ErrSyntax, "positional argument follows keyword argument")
			}
			call.Args = append(call.Args, arg)
		}
		if p.tok.kind == tokPunct && p.tok.text == "," {
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else if !(p.tok.kind == tokPunct && p.tok.text == ")") {
			return nil, errors.Wrapf(pyast.ErrSyntax, "expected ',' or ')' but found %q", p.tok.text)
		}
	}
	if err := p.advance(); err != nil { // consume ")"
		return nil, err
	}
	return call, nil
}

// parseArgument parses either "expr" or "name=expr"; a non-empty kwarg name
// is returned in the second position.
func (p *parser) parseArgument() (pyast.Expr, string, error) {
	if p.tok.kind == tokIdent && !isKeywordLiteral(p.tok.text) {
		name := p.tok.text
		save := *p.lex
		saveTok := p.tok
		if err := p.advance(); err != nil {
			return nil, "", err
		}
		if p.tok.kind == tokPunct && p.tok.text == "=" {
			if err := p.advance(); err != nil {
				return nil, "", err
			}
			value, err := p.parseBinary(0)
			if err != nil {
				return nil, "", err
			}
			return value, name, nil
		}
		// not a kwarg: rewind and parse as a plain expression
		*p.lex = save
		p.tok = saveTok
	}
	expr, err := p.parseBinary(0)
	return expr, "", err
}

func (p *parser) parsePrimary() (pyast.Expr, error) {
	switch p.tok.kind {
	case tokIdent:
		name := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch name {
		case "True":
			return pyast.LiteralExpr{Value: true}, nil
		case "False":
			return pyast.LiteralExpr{Value: false}, nil
		case "None":
			return pyast.LiteralExpr{Value: nil}, nil
		}
		return pyast.NameExpr{Name: name}, nil

	case tokInt:
		text := strings.ReplaceAll(p.tok.text, "_", "")
		value, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(pyast.ErrSyntax, "invalid integer literal %q", p.tok.text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return pyast.LiteralExpr{Value: value}, nil

	case tokFloat:
		text := strings.ReplaceAll(p.tok.text, "_", "")
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, errors.Wrapf(pyast.ErrSyntax, "invalid float literal %q", p.tok.text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return pyast.LiteralExpr{Value: value}, nil

	case tokString:
		value := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return pyast.LiteralExpr{Value: value}, nil

	case tokPunct:
		switch p.tok.text {
		case "(":
			if err := p.advance(); err != nil {
				return nil, err
			}
			expr, err := p.parseBinary(0)
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return expr, nil
		case "[":
			return p.parseList()
		case "{":
			return p.parseDict()
		}
	}
	if p.tok.kind == tokEOF {
		return nil, errors.Wrap(pyast.ErrSyntax, "unexpected end of input")
	}
	return nil, errors.Wrapf(pyast.ErrSyntax, "unexpected token %q", p.tok.text)
}

func (p *parser) parseList() (pyast.Expr, error) {
	if err := p.advance(); err != nil { // consume "["
		return nil, err
	}
	list := pyast.ListExpr{}
	for !(p.tok.kind == tokPunct && p.tok.text == "]") {
		if p.tok.kind == tokEOF {
			return nil, errors.Wrap(pyast.ErrSyntax, "'[' was never closed")
		}
		elt, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}
		list.Elts = append(list.Elts, elt)
		if p.tok.kind == tokPunct && p.tok.text == "," {
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else if !(p.tok.kind == tokPunct && p.tok.text == "]") {
			return nil, errors.Wrapf(pyast.ErrSyntax, "expected ',' or ']' but found %q", p.tok.text)
		}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *parser) parseDict() (pyast.Expr, error) {
	if err := p.advance(); err != nil { // consume "{"
		return nil, err
	}
	dict := pyast.DictExpr{}
	for !(p.tok.kind == tokPunct && p.tok.text == "}") {
		if p.tok.kind == tokEOF {
			return nil, errors.Wrap(pyast.ErrSyntax, "'{' was never closed")
		}
		key, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		value, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}
		dict.Keys = append(dict.Keys, key)
		dict.Values = append(dict.Values, value)
		if p.tok.kind == tokPunct && p.tok.text == "," {
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else if !(p.tok.kind == tokPunct && p.tok.text == "}") {
			return nil, errors.Wrapf(pyast.ErrSyntax, "expected ',' or '}' but found %q", p.tok.text)
		}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return dict, nil
}

func isKeywordLiteral(name string) bool {
	return name == "True" || name == "False" || name == "None"
}
