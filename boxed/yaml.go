package boxed

import (
	"encoding/base64"

	"gopkg.in/yaml.v3"
)

// MarshalYAML implements yaml.Marshaler by reducing v to the same family
// of plain Go values encoding/json would produce, letting yaml.v3 handle
// the actual node encoding. Bytes are base64-encoded, matching the JSON
// representation's wire shape so scenario files round-trip identically
// across both formats.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.b, nil
	case KindInt:
		return v.i, nil
	case KindFloat:
		return v.f32, nil
	case KindDouble:
		return v.f64, nil
	case KindString:
		return v.s, nil
	case KindBytes:
		return base64.StdEncoding.EncodeToString(v.by), nil
	case KindArray:
		return v.arr, nil
	case KindDict:
		return v.dict, nil
	default:
		return nil, nil
	}
}

// UnmarshalYAML implements yaml.Unmarshaler. Like UnmarshalJSON, a raw
// YAML scalar does not self-describe int vs. float, so whole numbers
// become KindInt and fractional numbers KindDouble.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*v = fromYAMLAny(raw)
	return nil
}

func fromYAMLAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		return Double(t)
	case string:
		return String(t)
	case []any:
		vs := make([]Value, len(t))
		for i, e := range t {
			vs[i] = fromYAMLAny(e)
		}
		return Array(vs...)
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			m[k] = fromYAMLAny(e)
		}
		return Dict(m)
	default:
		return Null()
	}
}
