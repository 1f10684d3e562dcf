package override_eval

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

// Overrides are persisted as JSON and replayed verbatim on rerun, so every
// value must be proven to survive an encode/decode cycle before the job is
// allowed to start. The value placed in the output is the decoded form: what
// is persisted is exactly what a rerun will see.

// RoundTripValue encodes a value to JSON and decodes it back. The error
// carries Python's json error text so issues read the same as the original
// system's.
func RoundTripValue(value any) (any, error) {
	if err := checkSerializable(value); err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var decoded any
	if err := decoder.Decode(&decoded); err != nil {
		return nil, err
	}
	return normalizeNumbers(decoded), nil
}

func checkSerializable(value any) error {
	switch v := value.(type) {
	case nil, bool, int64, float64, string:
		return nil
	case []any:
		for _, elt := range v {
			if err := checkSerializable(elt); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		for _, elt := range v {
			if err := checkSerializable(elt); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.Newf("Object of type %s is not JSON serializable", classShortName(value))
}

// normalizeNumbers rebuilds decoded JSON with int64 for integral numbers and
// float64 otherwise, so a round-tripped mapping is identical to a mapping
// built directly from evaluation (and re-validating it is a no-op).
func normalizeNumbers(value any) any {
	switch v := value.(type) {
	case json.Number:
		if integer, err := v.Int64(); err == nil && !strings.ContainsAny(v.String(), ".eE") {
			return integer
		}
		f, _ := v.Float64()
		return f
	case []any:
		for i, elt := range v {
			v[i] = normalizeNumbers(elt)
		}
		return v
	case map[string]any:
		for key, elt := range v {
			v[key] = normalizeNumbers(elt)
		}
		return v
	}
	return value
}

// Python's json module names the offending class without its module prefix.
func classShortName(value any) string {
	name := TypeName(value)
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
