package override_eval

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/notebooker/backend/models/pyast"
)

// Runtime values are Go natives (nil, bool, int64, float64, string, []any,
// map[string]any) plus the object types below. Only the natives can survive
// the serializability check; objects exist so that expressions like
// datetime.datetime(2018, 1, 1).isoformat() can be evaluated step by step.

// Object is a value with attributes, looked up on "receiver.name" access.
type Object interface {
	TypeName() string
	Attr(name string) (any, error)
}

// Callable is a value that can appear before "(...)".
type Callable interface {
	TypeName() string
	Call(args []any, kwargs map[string]any) (any, error)
}

// PyStringer overrides the rendition used by Str (diagnostics only).
type PyStringer interface {
	PyStr() string
}

// Module is an entry of the import registry: a named, read-only table of
// values. Imports resolve against these tables, never against the host
// process.
type Module struct {
	Name  string
	attrs map[string]any
}

func NewModule(name string, attrs map[string]any) *Module {
	return &Module{Name: name, attrs: attrs}
}

func (m *Module) TypeName() string { return "module" }

func (m *Module) Attr(name string) (any, error) {
	value, ok := m.attrs[name]
	if !ok {
		return nil, pyast.NewModuleAttributeError(m.Name, name)
	}
	return value, nil
}

func (m *Module) PyStr() string { return fmt.Sprintf("<module '%s'>", m.Name) }

// Builtin is a whitelisted function or a bound method.
type Builtin struct {
	Name string
	Fn   func(args []any, kwargs map[string]any) (any, error)
}

func (b Builtin) TypeName() string { return "builtin_function_or_method" }

func (b Builtin) Call(args []any, kwargs map[string]any) (any, error) {
	return b.Fn(args, kwargs)
}

func (b Builtin) PyStr() string { return fmt.Sprintf("<built-in function %s>", b.Name) }

// TypeName reports the Python-style type name of a value, used in the
// dead-expression warning and in serialization diagnostics.
func TypeName(v any) string {
	switch value := v.(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case []any:
		return "list"
	case map[string]any:
		return "dict"
	case Object:
		return value.TypeName()
	case Callable:
		return value.TypeName()
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Str renders a value the way Python's str() would, for diagnostics.
func Str(v any) string {
	switch value := v.(type) {
	case nil:
		return "None"
	case bool:
		if value {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return formatFloat(value)
	case string:
		return value
	case []any:
		parts := make([]string, len(value))
		for i, elt := range value {
			parts[i] = Repr(elt)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, key := range keys {
			parts[i] = fmt.Sprintf("'%s': %s", key, Repr(value[key]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case PyStringer:
		return value.PyStr()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Repr is Str except that strings are quoted, matching Python's repr() for
// values nested inside containers.
func Repr(v any) string {
	if s, ok := v.(string); ok {
		return "'" + s + "'"
	}
	return Str(v)
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Python always shows a decimal point for floats
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && !strings.Contains(s, "NaN") {
		s += ".0"
	}
	return s
}
