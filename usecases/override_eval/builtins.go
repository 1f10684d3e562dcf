package override_eval

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/notebooker/backend/models/pyast"
)

// The builtin whitelist: functions available without any import. Anything
// else (open, eval, __import__, ...) simply does not exist in the sandbox.
func builtinEnvironment() *Environment {
	env := NewEnvironment()
	for _, builtin := range []Builtin{
		{Name: "str", Fn: builtinStr},
		{Name: "int", Fn: builtinInt},
		{Name: "float", Fn: builtinFloat},
		{Name: "bool", Fn: builtinBool},
		{Name: "len", Fn: builtinLen},
		{Name: "abs", Fn: builtinAbs},
		{Name: "round", Fn: builtinRound},
		{Name: "min", Fn: builtinMin},
		{Name: "max", Fn: builtinMax},
		{Name: "sum", Fn: builtinSum},
		{Name: "sorted", Fn: builtinSorted},
		{Name: "list", Fn: builtinList},
		{Name: "range", Fn: builtinRange},
	} {
		env.Set(builtin.Name, builtin)
	}
	return env
}

func builtinStr(args []any, kwargs map[string]any) (any, error) {
	if len(kwargs) > 0 || len(args) > 1 {
		return nil, pyast.NewTypeError("str() takes at most 1 argument (%d given)", len(args))
	}
	if len(args) == 0 {
		return "", nil
	}
	return Str(args[0]), nil
}

func builtinInt(args []any, kwargs map[string]any) (any, error) {
	if len(kwargs) > 0 || len(args) > 1 {
		return nil, pyast.NewTypeError("int() takes at most 1 argument (%d given)", len(args))
	}
	if len(args) == 0 {
		return int64(0), nil
	}
	switch value := args[0].(type) {
	case bool:
		if value {
			return int64(1), nil
		}
		return int64(0), nil
	case int64:
		return value, nil
	case float64:
		return int64(math.Trunc(value)), nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, pyast.NewValueError("invalid literal for int() with base 10: '%s'", value)
		}
		return parsed, nil
	}
	return nil, pyast.NewTypeError("int() argument must be a string or a number, not '%s'", TypeName(args[0]))
}

func builtinFloat(args []any, kwargs map[string]any) (any, error) {
	if len(kwargs) > 0 || len(args) > 1 {
		return nil, pyast.NewTypeError("float() takes at most 1 argument (%d given)", len(args))
	}
	if len(args) == 0 {
		return float64(0), nil
	}
	switch value := args[0].(type) {
	case bool:
		if value {
			return float64(1), nil
		}
		return float64(0), nil
	case int64:
		return float64(value), nil
	case float64:
		return value, nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, pyast.NewValueError("could not convert string to float: '%s'", value)
		}
		return parsed, nil
	}
	return nil, pyast.NewTypeError("float() argument must be a string or a number, not '%s'", TypeName(args[0]))
}

func builtinBool(args []any, kwargs map[string]any) (any, error) {
	if len(kwargs) > 0 || len(args) > 1 {
		return nil, pyast.NewTypeError("bool() takes at most 1 argument (%d given)", len(args))
	}
	if len(args) == 0 {
		return false, nil
	}
	return truthy(args[0]), nil
}

func builtinLen(args []any, kwargs map[string]any) (any, error) {
	if len(kwargs) > 0 || len(args) != 1 {
		return nil, pyast.NewTypeError("len() takes exactly one argument (%d given)", len(args))
	}
	switch value := args[0].(type) {
	case string:
		return int64(len([]rune(value))), nil
	case []any:
		return int64(len(value)), nil
	case map[string]any:
		return int64(len(value)), nil
	}
	return nil, pyast.NewTypeError("object of type '%s' has no len()", TypeName(args[0]))
}

func builtinAbs(args []any, kwargs map[string]any) (any, error) {
	if len(kwargs) > 0 || len(args) != 1 {
		return nil, pyast.NewTypeError("abs() takes exactly one argument (%d given)", len(args))
	}
	switch value := args[0].(type) {
	case int64:
		if value < 0 {
			return -value, nil
		}
		return value, nil
	case float64:
		return math.Abs(value), nil
	}
	return nil, pyast.NewTypeError("bad operand type for abs(): '%s'", TypeName(args[0]))
}

func builtinRound(args []any, kwargs map[string]any) (any, error) {
	if len(kwargs) > 0 || len(args) < 1 || len(args) > 2 {
		return nil, pyast.NewTypeError("round() takes 1 or 2 arguments (%d given)", len(args))
	}
	x, err := toFloat("round", args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 2 {
		digits, ok := args[1].(int64)
		if !ok {
			return nil, pyast.NewTypeError("'%s' object cannot be interpreted as an integer", TypeName(args[1]))
		}
		shift := math.Pow(10, float64(digits))
		return math.RoundToEven(x*shift) / shift, nil
	}
	// Python rounds half to even
	return int64(math.RoundToEven(x)), nil
}

func builtinMin(args []any, kwargs map[string]any) (any, error) {
	return minMax("min", args, kwargs, -1)
}

func builtinMax(args []any, kwargs map[string]any) (any, error) {
	return minMax("max", args, kwargs, 1)
}

func minMax(callable string, args []any, kwargs map[string]any, want int) (any, error) {
	for name := range kwargs {
		return nil, pyast.NewUnexpectedKwargError(callable, name)
	}
	items := args
	if len(args) == 1 {
		list, ok := args[0].([]any)
		if !ok {
			return nil, pyast.NewTypeError("'%s' object is not iterable", TypeName(args[0]))
		}
		items = list
	}
	if len(items) == 0 {
		return nil, pyast.NewValueError("%s() arg is an empty sequence", callable)
	}
	best := items[0]
	for _, item := range items[1:] {
		cmp, err := compareValues(item, best)
		if err != nil {
			return nil, err
		}
		if cmp == want {
			best = item
		}
	}
	return best, nil
}

func builtinSum(args []any, kwargs map[string]any) (any, error) {
	if len(kwargs) > 0 || len(args) < 1 || len(args) > 2 {
		return nil, pyast.NewTypeError("sum() takes 1 or 2 arguments (%d given)", len(args))
	}
	list, ok := args[0].([]any)
	if !ok {
		return nil, pyast.NewTypeError("'%s' object is not iterable", TypeName(args[0]))
	}
	var total any = int64(0)
	if len(args) == 2 {
		total = args[1]
	}
	for _, item := range list {
		result, err := evaluateBinary("+", total, item)
		if err != nil {
			return nil, err
		}
		total = result
	}
	return total, nil
}

func builtinSorted(args []any, kwargs map[string]any) (any, error) {
	reverse := false
	for name, value := range kwargs {
		if name != "reverse" {
			return nil, pyast.NewUnexpectedKwargError("sorted", name)
		}
		reverse = truthy(value)
	}
	if len(args) != 1 {
		return nil, pyast.NewTypeError("sorted() takes exactly one positional argument (%d given)", len(args))
	}
	list, ok := args[0].([]any)
	if !ok {
		return nil, pyast.NewTypeError("'%s' object is not iterable", TypeName(args[0]))
	}
	out := make([]any, len(list))
	copy(out, list)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		cmp, err := compareValues(out[i], out[j])
		if err != nil && sortErr == nil {
			sortErr = err
		}
		if reverse {
			return cmp > 0
		}
		return cmp < 0
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return out, nil
}

func builtinList(args []any, kwargs map[string]any) (any, error) {
	if len(kwargs) > 0 || len(args) > 1 {
		return nil, pyast.NewTypeError("list() takes at most 1 argument (%d given)", len(args))
	}
	if len(args) == 0 {
		return []any{}, nil
	}
	switch value := args[0].(type) {
	case []any:
		out := make([]any, len(value))
		copy(out, value)
		return out, nil
	case string:
		out := make([]any, 0, len(value))
		for _, r := range value {
			out = append(out, string(r))
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := make([]any, len(keys))
		for i, key := range keys {
			out[i] = key
		}
		return out, nil
	}
	return nil, pyast.NewTypeError("'%s' object is not iterable", TypeName(args[0]))
}

func builtinRange(args []any, kwargs map[string]any) (any, error) {
	if len(kwargs) > 0 || len(args) < 1 || len(args) > 3 {
		return nil, pyast.NewTypeError("range() takes 1 to 3 arguments (%d given)", len(args))
	}
	bounds := make([]int64, len(args))
	for i, arg := range args {
		value, ok := arg.(int64)
		if !ok {
			return nil, pyast.NewTypeError("'%s' object cannot be interpreted as an integer", TypeName(arg))
		}
		bounds[i] = value
	}
	start, stop, step := int64(0), int64(0), int64(1)
	switch len(bounds) {
	case 1:
		stop = bounds[0]
	case 2:
		start, stop = bounds[0], bounds[1]
	case 3:
		start, stop, step = bounds[0], bounds[1], bounds[2]
	}
	if step == 0 {
		return nil, pyast.NewValueError("range() arg 3 must not be zero")
	}
	out := []any{}
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, i)
		}
	}
	return out, nil
}

func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case int64:
		return value != 0
	case float64:
		return value != 0
	case string:
		return value != ""
	case []any:
		return len(value) != 0
	case map[string]any:
		return len(value) != 0
	}
	return true
}

// compareValues orders two values of compatible types, returning -1, 0 or 1.
func compareValues(a, b any) (int, error) {
	af, aIsNum := asFloat(a)
	bf, bIsNum := asFloat(b)
	if aIsNum && bIsNum {
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		}
		return 0, nil
	}
	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)
	if aIsStr && bIsStr {
		return strings.Compare(as, bs), nil
	}
	return 0, pyast.NewTypeError("'<' not supported between instances of '%s' and '%s'", TypeName(b), TypeName(a))
}

func asFloat(v any) (float64, bool) {
	switch value := v.(type) {
	case int64:
		return float64(value), true
	case float64:
		return value, true
	}
	return 0, false
}
