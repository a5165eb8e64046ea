package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Params holds named strategy parameters with typed accessors.
type Params map[string]any

// ParseParams parses "name=value" pairs, inferring bool, int and float values.
func ParseParams(pairs []string) (Params, error) {
	p := Params{}
	for _, pair := range pairs {
		name, raw, found := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected name=value", pair)
		}
		p[name] = inferValue(strings.TrimSpace(raw))
	}
	return p, nil
}

func inferValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return int(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// GetInt returns the named parameter as an int, or def when absent.
func (p Params) GetInt(name string, def int) int {
	switch v := p[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// GetFloat returns the named parameter as a float64, or def when absent.
func (p Params) GetFloat(name string, def float64) float64 {
	switch v := p[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// GetString returns the named parameter as a string, or def when absent.
func (p Params) GetString(name, def string) string {
	if v, ok := p[name].(string); ok {
		return v
	}
	return def
}

// GetBool returns the named parameter as a bool, or def when absent.
func (p Params) GetBool(name string, def bool) bool {
	if v, ok := p[name].(bool); ok {
		return v
	}
	return def
}

// Clone returns an independent copy of the parameter set.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// String renders the parameters as "a=1 b=2" in name order.
func (p Params) String() string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", name, p[name]))
	}
	return strings.Join(parts, " ")
}
