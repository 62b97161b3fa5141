package targets

import (
	"fmt"
	"maps"

	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/zerr"
)

func invalidField(rule domain.Rule, key, reason string) error {
	err := zerr.With(domain.ErrInvalidRule, "target", rule.Name)
	err = zerr.With(err, "field", key)
	return zerr.With(err, "reason", reason)
}

func stringField(rule domain.Rule, key, def string) (string, error) {
	v, ok := rule.Field(key)
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", invalidField(rule, key, fmt.Sprintf("expected a string, got %T", v))
	}
	return s, nil
}

func boolField(rule domain.Rule, key string) (bool, error) {
	v, ok := rule.Field(key)
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, invalidField(rule, key, fmt.Sprintf("expected a boolean, got %T", v))
	}
	return b, nil
}

// stringsField accepts a single string or a sequence of scalars.
func stringsField(rule domain.Rule, key string) ([]string, error) {
	v, ok := rule.Field(key)
	if !ok || v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case string:
		return []string{val}, nil
	case []string:
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			case int, int64, float64, bool:
				out = append(out, fmt.Sprint(s))
			default:
				return nil, invalidField(rule, key, fmt.Sprintf("unexpected %T in list", item))
			}
		}
		return out, nil
	default:
		return nil, invalidField(rule, key, fmt.Sprintf("expected a list, got %T", v))
	}
}

// mapField accepts a mapping with scalar values.
func mapField(rule domain.Rule, key string) (map[string]string, error) {
	v, ok := rule.Field(key)
	if !ok || v == nil {
		return nil, nil
	}
	out := make(map[string]string)
	switch val := v.(type) {
	case map[string]string:
		maps.Copy(out, val)
	case map[string]any:
		for k, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, invalidField(rule, key, fmt.Sprintf("value of %q is %T, not a string", k, item))
			}
			out[k] = s
		}
	default:
		return nil, invalidField(rule, key, fmt.Sprintf("expected a mapping, got %T", v))
	}
	return out, nil
}
