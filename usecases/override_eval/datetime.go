package override_eval

import (
	"fmt"
	"strings"
	"time"

	"github.com/notebooker/backend/models/pyast"
)

// The datetime module. Values constructed here are deliberately NOT
// JSON-serializable: users must convert them (isoformat, strftime, ...)
// before they can be used as overrides, exactly as with the Python original.

func newDatetimeModule() *Module {
	return NewModule("datetime", map[string]any{
		"datetime":  DateTimeType{},
		"date":      DateType{},
		"timedelta": TimeDeltaType{},
	})
}

type DateTime struct {
	t time.Time
}

func (d DateTime) TypeName() string { return "datetime.datetime" }

func (d DateTime) PyStr() string {
	s := d.t.Format("2006-01-02 15:04:05")
	if micro := d.t.Nanosecond() / 1000; micro != 0 {
		s += fmt.Sprintf(".%06d", micro)
	}
	return s
}

func (d DateTime) Attr(name string) (any, error) {
	switch name {
	case "year":
		return int64(d.t.Year()), nil
	case "month":
		return int64(d.t.Month()), nil
	case "day":
		return int64(d.t.Day()), nil
	case "hour":
		return int64(d.t.Hour()), nil
	case "minute":
		return int64(d.t.Minute()), nil
	case "second":
		return int64(d.t.Second()), nil
	case "isoformat":
		return Builtin{Name: "isoformat", Fn: func(args []any, kwargs map[string]any) (any, error) {
			if err := rejectArgs("isoformat", args, kwargs); err != nil {
				return nil, err
			}
			s := d.t.Format("2006-01-02T15:04:05")
			if micro := d.t.Nanosecond() / 1000; micro != 0 {
				s += fmt.Sprintf(".%06d", micro)
			}
			return s, nil
		}}, nil
	case "strftime":
		return Builtin{Name: "strftime", Fn: func(args []any, kwargs map[string]any) (any, error) {
			format, err := oneStringArg("strftime", args, kwargs)
			if err != nil {
				return nil, err
			}
			return strftime(d.t, format), nil
		}}, nil
	case "date":
		return Builtin{Name: "date", Fn: func(args []any, kwargs map[string]any) (any, error) {
			if err := rejectArgs("date", args, kwargs); err != nil {
				return nil, err
			}
			year, month, day := d.t.Date()
			return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}, nil
		}}, nil
	case "timestamp":
		return Builtin{Name: "timestamp", Fn: func(args []any, kwargs map[string]any) (any, error) {
			if err := rejectArgs("timestamp", args, kwargs); err != nil {
				return nil, err
			}
			return float64(d.t.UnixNano()) / float64(time.Second), nil
		}}, nil
	}
	return nil, pyast.NewAttributeError(d.TypeName(), name)
}

type Date struct {
	t time.Time
}

func (d Date) TypeName() string { return "datetime.date" }
func (d Date) PyStr() string    { return d.t.Format("2006-01-02") }

func (d Date) Attr(name string) (any, error) {
	switch name {
	case "year":
		return int64(d.t.Year()), nil
	case "month":
		return int64(d.t.Month()), nil
	case "day":
		return int64(d.t.Day()), nil
	case "isoformat":
		return Builtin{Name: "isoformat", Fn: func(args []any, kwargs map[string]any) (any, error) {
			if err := rejectArgs("isoformat", args, kwargs); err != nil {
				return nil, err
			}
			return d.t.Format("2006-01-02"), nil
		}}, nil
	case "strftime":
		return Builtin{Name: "strftime", Fn: func(args []any, kwargs map[string]any) (any, error) {
			format, err := oneStringArg("strftime", args, kwargs)
			if err != nil {
				return nil, err
			}
			return strftime(d.t, format), nil
		}}, nil
	}
	return nil, pyast.NewAttributeError(d.TypeName(), name)
}

type TimeDelta struct {
	d time.Duration
}

func (td TimeDelta) TypeName() string { return "datetime.timedelta" }

func (td TimeDelta) PyStr() string { return td.d.String() }

func (td TimeDelta) Attr(name string) (any, error) {
	switch name {
	case "days":
		return int64(td.d / (24 * time.Hour)), nil
	case "seconds":
		rem := td.d % (24 * time.Hour)
		return int64(rem / time.Second), nil
	case "total_seconds":
		return Builtin{Name: "total_seconds", Fn: func(args []any, kwargs map[string]any) (any, error) {
			if err := rejectArgs("total_seconds", args, kwargs); err != nil {
				return nil, err
			}
			return td.d.Seconds(), nil
		}}, nil
	}
	return nil, pyast.NewAttributeError(td.TypeName(), name)
}

// DateTimeType is the datetime.datetime class object.
type DateTimeType struct{}

func (DateTimeType) TypeName() string { return "type" }

func (DateTimeType) Call(args []any, kwargs map[string]any) (any, error) {
	parts, err := dateParts("datetime", args, kwargs,
		[]string{"year", "month", "day", "hour", "minute", "second", "microsecond"}, 3)
	if err != nil {
		return nil, err
	}
	return DateTime{t: time.Date(
		int(parts[0]), time.Month(parts[1]), int(parts[2]),
		int(parts[3]), int(parts[4]), int(parts[5]), int(parts[6])*1000,
		time.UTC,
	)}, nil
}

func (DateTimeType) Attr(name string) (any, error) {
	switch name {
	case "now", "utcnow":
		return Builtin{Name: name, Fn: func(args []any, kwargs map[string]any) (any, error) {
			if err := rejectArgs(name, args, kwargs); err != nil {
				return nil, err
			}
			return DateTime{t: time.Now().UTC().Truncate(time.Microsecond)}, nil
		}}, nil
	case "fromisoformat":
		return Builtin{Name: "fromisoformat", Fn: func(args []any, kwargs map[string]any) (any, error) {
			s, err := oneStringArg("fromisoformat", args, kwargs)
			if err != nil {
				return nil, err
			}
			for _, layout := range []string{"2006-01-02T15:04:05.000000", "2006-01-02T15:04:05", "2006-01-02"} {
				if t, err := time.Parse(layout, s); err == nil {
					return DateTime{t: t}, nil
				}
			}
			return nil, pyast.NewValueError("Invalid isoformat string: '%s'", s)
		}}, nil
	}
	return nil, pyast.NewAttributeError("type", name)
}

// DateType is the datetime.date class object.
type DateType struct{}

func (DateType) TypeName() string { return "type" }

func (DateType) Call(args []any, kwargs map[string]any) (any, error) {
	parts, err := dateParts("date", args, kwargs, []string{"year", "month", "day"}, 3)
	if err != nil {
		return nil, err
	}
	return Date{t: time.Date(int(parts[0]), time.Month(parts[1]), int(parts[2]), 0, 0, 0, 0, time.UTC)}, nil
}

func (DateType) Attr(name string) (any, error) {
	if name == "today" {
		return Builtin{Name: "today", Fn: func(args []any, kwargs map[string]any) (any, error) {
			if err := rejectArgs("today", args, kwargs); err != nil {
				return nil, err
			}
			year, month, day := time.Now().UTC().Date()
			return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}, nil
		}}, nil
	}
	return nil, pyast.NewAttributeError("type", name)
}

// TimeDeltaType is the datetime.timedelta class object.
type TimeDeltaType struct{}

func (TimeDeltaType) TypeName() string { return "type" }

func (TimeDeltaType) Call(args []any, kwargs map[string]any) (any, error) {
	names := []string{"days", "seconds", "microseconds", "milliseconds", "minutes", "hours", "weeks"}
	units := []time.Duration{
		24 * time.Hour, time.Second, time.Microsecond,
		time.Millisecond, time.Minute, time.Hour, 7 * 24 * time.Hour,
	}
	if len(args) > 3 {
		return nil, pyast.NewTypeError("timedelta() takes at most 3 positional arguments")
	}
	var total time.Duration
	for i, arg := range args {
		value, err := toFloat("timedelta", arg)
		if err != nil {
			return nil, err
		}
		total += time.Duration(value * float64(units[i]))
	}
	for name, raw := range kwargs {
		idx := indexOf(names, name)
		if idx < 0 {
			return nil, pyast.NewUnexpectedKwargError("timedelta", name)
		}
		value, err := toFloat("timedelta", raw)
		if err != nil {
			return nil, err
		}
		total += time.Duration(value * float64(units[idx]))
	}
	return TimeDelta{d: total}, nil
}

func (TimeDeltaType) Attr(name string) (any, error) {
	return nil, pyast.NewAttributeError("type", name)
}

// binaryOpOnObjects implements the little datetime arithmetic the override
// grammar supports. The boolean reports whether the operand pair was handled.
func binaryOpOnObjects(op string, left, right any) (any, bool, error) {
	switch l := left.(type) {
	case DateTime:
		switch r := right.(type) {
		case DateTime:
			if op == "-" {
				return TimeDelta{d: l.t.Sub(r.t)}, true, nil
			}
		case TimeDelta:
			switch op {
			case "+":
				return DateTime{t: l.t.Add(r.d)}, true, nil
			case "-":
				return DateTime{t: l.t.Add(-r.d)}, true, nil
			}
		}
	case TimeDelta:
		switch r := right.(type) {
		case TimeDelta:
			switch op {
			case "+":
				return TimeDelta{d: l.d + r.d}, true, nil
			case "-":
				return TimeDelta{d: l.d - r.d}, true, nil
			}
		case DateTime:
			if op == "+" {
				return DateTime{t: r.t.Add(l.d)}, true, nil
			}
		}
	}
	_, leftIsObj := left.(Object)
	_, rightIsObj := right.(Object)
	if leftIsObj || rightIsObj {
		return nil, true, pyast.NewUnsupportedOperandsError(op, TypeName(left), TypeName(right))
	}
	return nil, false, nil
}

var strftimeReplacer = strings.NewReplacer(
	"%Y", "2006", "%m", "01", "%d", "02",
	"%H", "15", "%M", "04", "%S", "05",
	"%y", "06", "%b", "Jan", "%B", "January",
	"%a", "Mon", "%A", "Monday", "%f", "000000",
	"%%", "%",
)

func strftime(t time.Time, format string) string {
	return t.Format(strftimeReplacer.Replace(format))
}

func dateParts(callable string, args []any, kwargs map[string]any, names []string, required int) ([]int64, error) {
	if len(args) > len(names) {
		return nil, pyast.NewTypeError("%s() takes at most %d arguments (%d given)", callable, len(names), len(args))
	}
	parts := make([]int64, len(names))
	seen := make([]bool, len(names))
	for i, arg := range args {
		value, ok := arg.(int64)
		if !ok {
			return nil, pyast.NewTypeError("'%s' object cannot be interpreted as an integer", TypeName(arg))
		}
		parts[i] = value
		seen[i] = true
	}
	for name, raw := range kwargs {
		idx := indexOf(names, name)
		if idx < 0 {
			return nil, pyast.NewUnexpectedKwargError(callable, name)
		}
		if seen[idx] {
			return nil, pyast.NewTypeError("%s() got multiple values for argument '%s'", callable, name)
		}
		value, ok := raw.(int64)
		if !ok {
			return nil, pyast.NewTypeError("'%s' object cannot be interpreted as an integer", TypeName(raw))
		}
		parts[idx] = value
		seen[idx] = true
	}
	for i := 0; i < required; i++ {
		if !seen[i] {
			return nil, pyast.NewTypeError("%s() missing required argument: '%s'", callable, names[i])
		}
	}
	return parts, nil
}

func oneStringArg(callable string, args []any, kwargs map[string]any) (string, error) {
	if len(kwargs) > 0 {
		for name := range kwargs {
			return "", pyast.NewUnexpectedKwargError(callable, name)
		}
	}
	if len(args) != 1 {
		return "", pyast.NewTypeError("%s() takes exactly one argument (%d given)", callable, len(args))
	}
	s, ok := args[0].(string)
	if !ok {
		return "", pyast.NewTypeError("%s() argument must be str, not %s", callable, TypeName(args[0]))
	}
	return s, nil
}

func rejectArgs(callable string, args []any, kwargs map[string]any) error {
	if len(args) > 0 {
		return pyast.NewTypeError("%s() takes no arguments (%d given)", callable, len(args))
	}
	for name := range kwargs {
		return pyast.NewUnexpectedKwargError(callable, name)
	}
	return nil
}

func toFloat(callable string, v any) (float64, error) {
	switch value := v.(type) {
	case int64:
		return float64(value), nil
	case float64:
		return value, nil
	}
	return 0, pyast.NewTypeError("%s() argument must be a number, not '%s'", callable, TypeName(v))
}

func indexOf(names []string, name string) int {
	for i, candidate := range names {
		if candidate == name {
			return i
		}
	}
	return -1
}
