package sway

import "github.com/mitchellh/mapstructure"

// DecodeConfig decodes a node or animation config map into out, a pointer
// to a struct with mapstructure tags. Numbers convert between int and float
// kinds, and a single tag decodes into a tag list.
func DecodeConfig(cfg map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(cfg)
}

// ToFloat converts a numeric event payload leaf to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
