package pair

import (
	"fmt"
	"math"
	"sort"
)

// KeyStrength is the only recognized parameter key.
const KeyStrength = "strength"

// Params is the per type-pair parameter record of the Lymburn repulsion.
type Params struct {
	Strength float64 `yaml:"strength" json:"strength"`
}

// ParamsFromMap builds a Params from a key-value configuration object.
func ParamsFromMap(v map[string]any) (Params, error) {
	var unknown []string
	for k := range v {
		if k != KeyStrength {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Params{}, fmt.Errorf("%w: %v", ErrUnknownParam, unknown)
	}

	raw, ok := v[KeyStrength]
	if !ok {
		return Params{}, fmt.Errorf("%w: %s", ErrMissingParam, KeyStrength)
	}

	s, err := toFloat(raw)
	if err != nil {
		return Params{}, fmt.Errorf("%s: %w", KeyStrength, err)
	}
	return Params{Strength: s}, nil
}

// AsMap exports the record back into its key-value form.
func (p Params) AsMap() map[string]any {
	return map[string]any{KeyStrength: p.Strength}
}

func toFloat(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	default:
		return 0, fmt.Errorf("%w: %T", ErrInvalidParam, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidParam, f)
	}
	return f, nil
}
