package override_eval

import (
	"math"
	"strings"

	"github.com/notebooker/backend/models/pyast"
)

// The import registry: the fixed, administrator-controlled set of modules an
// override may import. Imports resolve here and nowhere else, so "import os"
// fails the same way "import datetimes" does.
func defaultModules() map[string]*Module {
	return map[string]*Module{
		"datetime": newDatetimeModule(),
		"math":     newMathModule(),
	}
}

func newMathModule() *Module {
	return NewModule("math", map[string]any{
		"pi":    math.Pi,
		"e":     math.E,
		"sqrt":  mathFunc("sqrt", mathDomainChecked(math.Sqrt)),
		"floor": mathIntFunc("floor", math.Floor),
		"ceil":  mathIntFunc("ceil", math.Ceil),
		"fabs":  mathFunc("fabs", mathDomainChecked(math.Abs)),
		"exp":   mathFunc("exp", mathDomainChecked(math.Exp)),
		"log":   mathFunc("log", mathDomainChecked(math.Log)),
		"pow": Builtin{Name: "pow", Fn: func(args []any, kwargs map[string]any) (any, error) {
			if len(kwargs) > 0 || len(args) != 2 {
				return nil, pyast.NewTypeError("pow expected 2 arguments, got %d", len(args))
			}
			x, err := toFloat("pow", args[0])
			if err != nil {
				return nil, err
			}
			y, err := toFloat("pow", args[1])
			if err != nil {
				return nil, err
			}
			return math.Pow(x, y), nil
		}},
	})
}

func mathFunc(name string, fn func(float64) (float64, error)) Builtin {
	return Builtin{Name: name, Fn: func(args []any, kwargs map[string]any) (any, error) {
		x, err := oneNumberArg(name, args, kwargs)
		if err != nil {
			return nil, err
		}
		return fn(x)
	}}
}

// floor and ceil return ints in Python 3
func mathIntFunc(name string, fn func(float64) float64) Builtin {
	return Builtin{Name: name, Fn: func(args []any, kwargs map[string]any) (any, error) {
		x, err := oneNumberArg(name, args, kwargs)
		if err != nil {
			return nil, err
		}
		return int64(fn(x)), nil
	}}
}

func mathDomainChecked(fn func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) {
		result := fn(x)
		if math.IsNaN(result) || math.IsInf(result, 0) {
			return 0, pyast.NewValueError("math domain error")
		}
		return result, nil
	}
}

func oneNumberArg(callable string, args []any, kwargs map[string]any) (float64, error) {
	for name := range kwargs {
		return 0, pyast.NewUnexpectedKwargError(callable, name)
	}
	if len(args) != 1 {
		return 0, pyast.NewTypeError("%s() takes exactly one argument (%d given)", callable, len(args))
	}
	return toFloat(callable, args[0])
}

// resolveDotted walks a dotted module path: the first segment must be a
// registry entry, the rest are attribute lookups. A failure anywhere is
// reported against the full dotted path, matching Python's import machinery.
func resolveDotted(modules map[string]*Module, dotted string) (any, error) {
	parts := strings.Split(dotted, ".")
	module, ok := modules[parts[0]]
	if !ok {
		return nil, pyast.NewModuleNotFoundError(dotted)
	}
	var value any = module
	for _, part := range parts[1:] {
		obj, ok := value.(Object)
		if !ok {
			return nil, pyast.NewModuleNotFoundError(dotted)
		}
		attr, err := obj.Attr(part)
		if err != nil {
			return nil, pyast.NewModuleNotFoundError(dotted)
		}
		value = attr
	}
	return value, nil
}
