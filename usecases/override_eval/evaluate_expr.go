package override_eval

import (
	"math"

	"github.com/notebooker/backend/models/pyast"
)

func evaluateExpr(env *Environment, expr pyast.Expr) (any, error) {
	switch e := expr.(type) {
	case pyast.LiteralExpr:
		return e.Value, nil

	case pyast.NameExpr:
		value, ok := env.Get(e.Name)
		if !ok {
			return nil, pyast.NewNameError(e.Name)
		}
		return value, nil

	case pyast.AttributeExpr:
		receiver, err := evaluateExpr(env, e.Receiver)
		if err != nil {
			return nil, err
		}
		obj, ok := receiver.(Object)
		if !ok {
			return nil, pyast.NewAttributeError(TypeName(receiver), e.Name)
		}
		return obj.Attr(e.Name)

	case pyast.CallExpr:
		return evaluateCall(env, e)

	case pyast.UnaryExpr:
		operand, err := evaluateExpr(env, e.Operand)
		if err != nil {
			return nil, err
		}
		return evaluateUnary(e.Op, operand)

	case pyast.BinaryExpr:
		left, err := evaluateExpr(env, e.Left)
		if err != nil {
			return nil, err
		}
		right, err := evaluateExpr(env, e.Right)
		if err != nil {
			return nil, err
		}
		return evaluateBinary(e.Op, left, right)

	case pyast.ListExpr:
		elts := make([]any, len(e.Elts))
		for i, elt := range e.Elts {
			value, err := evaluateExpr(env, elt)
			if err != nil {
				return nil, err
			}
			elts[i] = value
		}
		return elts, nil

	case pyast.DictExpr:
		dict := make(map[string]any, len(e.Keys))
		for i := range e.Keys {
			key, err := evaluateExpr(env, e.Keys[i])
			if err != nil {
				return nil, err
			}
			keyStr, ok := key.(string)
			if !ok {
				return nil, pyast.NewTypeError("dict keys must be strings, not '%s'", TypeName(key))
			}
			value, err := evaluateExpr(env, e.Values[i])
			if err != nil {
				return nil, err
			}
			dict[keyStr] = value
		}
		return dict, nil
	}

	return nil, pyast.NewTypeError("unsupported expression %s", expr)
}

func evaluateCall(env *Environment, call pyast.CallExpr) (any, error) {
	fn, err := evaluateExpr(env, call.Func)
	if err != nil {
		return nil, err
	}
	callable, ok := fn.(Callable)
	if !ok {
		return nil, pyast.NewNotCallableError(TypeName(fn))
	}

	args := make([]any, len(call.Args))
	for i, arg := range call.Args {
		value, err := evaluateExpr(env, arg)
		if err != nil {
			return nil, err
		}
		args[i] = value
	}
	var kwargs map[string]any
	if len(call.Kwargs) > 0 {
		kwargs = make(map[string]any, len(call.Kwargs))
		for _, kwarg := range call.Kwargs {
			value, err := evaluateExpr(env, kwarg.Value)
			if err != nil {
				return nil, err
			}
			kwargs[kwarg.Name] = value
		}
	}
	return callable.Call(args, kwargs)
}

func evaluateUnary(op string, operand any) (any, error) {
	switch value := operand.(type) {
	case int64:
		if op == "-" {
			return -value, nil
		}
		return value, nil
	case float64:
		if op == "-" {
			return -value, nil
		}
		return value, nil
	}
	return nil, pyast.NewBadUnaryOperandError(op, TypeName(operand))
}

func evaluateBinary(op string, left, right any) (any, error) {
	// operands with their own operator protocol (datetime arithmetic)
	if result, handled, err := binaryOpOnObjects(op, left, right); handled {
		return result, err
	}

	switch l := left.(type) {
	case int64:
		switch r := right.(type) {
		case int64:
			return intBinaryOp(op, l, r)
		case float64:
			return floatBinaryOp(op, float64(l), r)
		}
	case float64:
		switch r := right.(type) {
		case int64:
			return floatBinaryOp(op, l, float64(r))
		case float64:
			return floatBinaryOp(op, l, r)
		}
	case string:
		if r, ok := right.(string); ok && op == "+" {
			return l + r, nil
		}
		if r, ok := right.(int64); ok && op == "*" {
			return repeatString(l, r), nil
		}
	case []any:
		if r, ok := right.([]any); ok && op == "+" {
			out := make([]any, 0, len(l)+len(r))
			out = append(out, l...)
			return append(out, r...), nil
		}
	}
	return nil, pyast.NewUnsupportedOperandsError(op, TypeName(left), TypeName(right))
}

func intBinaryOp(op string, l, r int64) (any, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, pyast.ErrZeroDivision
		}
		return float64(l) / float64(r), nil
	case "//":
		if r == 0 {
			return nil, pyast.ErrZeroDivision
		}
		return floorDivInt(l, r), nil
	case "%":
		if r == 0 {
			return nil, pyast.ErrZeroDivision
		}
		// Python's modulo takes the sign of the divisor
		return ((l % r) + r) % r, nil
	case "**":
		if r < 0 {
			return math.Pow(float64(l), float64(r)), nil
		}
		result := int64(1)
		for i := int64(0); i < r; i++ {
			result *= l
		}
		return result, nil
	}
	return nil, pyast.NewUnsupportedOperandsError(op, "int", "int")
}

func floatBinaryOp(op string, l, r float64) (any, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, pyast.ErrZeroDivision
		}
		return l / r, nil
	case "//":
		if r == 0 {
			return nil, pyast.ErrZeroDivision
		}
		return math.Floor(l / r), nil
	case "%":
		if r == 0 {
			return nil, pyast.ErrZeroDivision
		}
		m := math.Mod(l, r)
		if m != 0 && (m < 0) != (r < 0) {
			m += r
		}
		return m, nil
	case "**":
		return math.Pow(l, r), nil
	}
	return nil, pyast.NewUnsupportedOperandsError(op, "float", "float")
}

func floorDivInt(l, r int64) int64 {
	q := l / r
	if (l%r != 0) && ((l < 0) != (r < 0)) {
		q--
	}
	return q
}

func repeatString(s string, n int64) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, int(n)*len(s))
	for i := int64(0); i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
