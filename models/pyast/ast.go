package pyast

import (
	"fmt"
	"strings"
)

// Expr is one node of a parsed override expression. The grammar is a small
// Python subset: literals, names, attribute access, calls with positional and
// keyword arguments, unary minus, arithmetic operators, list and dict
// displays.
type Expr interface {
	exprNode()
	String() string
}

type LiteralExpr struct {
	// nil, bool, int64, float64 or string
	Value any
}

func (l LiteralExpr) exprNode() {}
func (l LiteralExpr) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

type NameExpr struct {
	Name string
}

func (n NameExpr) exprNode()      {}
func (n NameExpr) String() string { return n.Name }

type AttributeExpr struct {
	Receiver Expr
	Name     string
}

func (a AttributeExpr) exprNode()      {}
func (a AttributeExpr) String() string { return fmt.Sprintf("%s.%s", a.Receiver, a.Name) }

type Kwarg struct {
	Name  string
	Value Expr
}

type CallExpr struct {
	Func   Expr
	Args   []Expr
	Kwargs []Kwarg
}

func (c CallExpr) exprNode() {}
func (c CallExpr) String() string {
	parts := make([]string, 0, len(c.Args)+len(c.Kwargs))
	for _, arg := range c.Args {
		parts = append(parts, arg.String())
	}
	for _, kwarg := range c.Kwargs {
		parts = append(parts, fmt.Sprintf("%s=%s", kwarg.Name, kwarg.Value))
	}
	return fmt.Sprintf("%s(%s)", c.Func, strings.Join(parts, ", "))
}

type UnaryExpr struct {
	Op      string
	Operand Expr
}

func (u UnaryExpr) exprNode()      {}
func (u UnaryExpr) String() string { return fmt.Sprintf("%s%s", u.Op, u.Operand) }

type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (b BinaryExpr) exprNode()      {}
func (b BinaryExpr) String() string { return fmt.Sprintf("%s %s %s", b.Left, b.Op, b.Right) }

type ListExpr struct {
	Elts []Expr
}

func (l ListExpr) exprNode() {}
func (l ListExpr) String() string {
	parts := make([]string, len(l.Elts))
	for i, elt := range l.Elts {
		parts[i] = elt.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type DictExpr struct {
	Keys   []Expr
	Values []Expr
}

func (d DictExpr) exprNode() {}
func (d DictExpr) String() string {
	parts := make([]string, len(d.Keys))
	for i := range d.Keys {
		parts[i] = fmt.Sprintf("%s: %s", d.Keys[i], d.Values[i])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
