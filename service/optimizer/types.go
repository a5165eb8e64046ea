package optimizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/quantworks/cerebro/model"
)

// Dimension is one named axis of the parameter grid.
type Dimension struct {
	Name   string
	Values []any
}

// FloatRange builds a dimension from start to end inclusive with the
// given step.
func FloatRange(name string, start, end, step float64) Dimension {
	d := Dimension{Name: name}
	if step <= 0 {
		return d
	}
	for v := start; v <= end+1e-9; v += step {
		d.Values = append(d.Values, v)
	}
	return d
}

// IntRange builds an integer dimension from start to end inclusive.
func IntRange(name string, start, end, step int) Dimension {
	d := Dimension{Name: name}
	if step <= 0 {
		return d
	}
	for v := start; v <= end; v += step {
		d.Values = append(d.Values, v)
	}
	return d
}

// Values builds a dimension from explicit values.
func Values(name string, vals ...any) Dimension {
	return Dimension{Name: name, Values: vals}
}

// Grid is an ordered set of dimensions expanded to their cartesian
// product.
type Grid struct {
	dims []Dimension
}

// NewGrid creates an empty grid.
func NewGrid() *Grid { return &Grid{} }

// Add appends a dimension. Empty dimensions are rejected.
func (g *Grid) Add(d Dimension) error {
	if d.Name == "" {
		return fmt.Errorf("dimension needs a name")
	}
	if len(d.Values) == 0 {
		return fmt.Errorf("dimension %q has no values", d.Name)
	}
	g.dims = append(g.dims, d)
	return nil
}

// Dimensions returns the dimensions in insertion order.
func (g *Grid) Dimensions() []Dimension {
	return g.dims
}

// Count is the total number of combinations.
func (g *Grid) Count() int {
	if len(g.dims) == 0 {
		return 0
	}
	n := 1
	for _, d := range g.dims {
		n *= len(d.Values)
	}
	return n
}

// Expand materializes every parameter combination.
func (g *Grid) Expand() []model.Params {
	if len(g.dims) == 0 {
		return nil
	}
	out := []model.Params{{}}
	for _, d := range g.dims {
		next := make([]model.Params, 0, len(out)*len(d.Values))
		for _, p := range out {
			for _, v := range d.Values {
				np := p.Clone()
				np[d.Name] = v
				next = append(next, np)
			}
		}
		out = next
	}
	return out
}

// ParseDimension parses a CLI sweep spec: "name=start:end:step" for a
// numeric range or "name=a,b,c" for explicit values. Ranges with integer
// bounds and step yield ints.
func ParseDimension(spec string) (Dimension, error) {
	name, raw, found := strings.Cut(spec, "=")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return Dimension{}, fmt.Errorf("invalid sweep spec %q: expected name=start:end:step", spec)
	}
	raw = strings.TrimSpace(raw)

	if strings.Contains(raw, ":") {
		parts := strings.Split(raw, ":")
		if len(parts) != 3 {
			return Dimension{}, fmt.Errorf("invalid range in %q: expected start:end:step", spec)
		}
		nums := make([]float64, 3)
		allInt := true
		for i, part := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return Dimension{}, fmt.Errorf("invalid number %q in %q", part, spec)
			}
			nums[i] = f
			if f != math.Trunc(f) {
				allInt = false
			}
		}
		if nums[2] <= 0 {
			return Dimension{}, fmt.Errorf("step must be positive in %q", spec)
		}
		if allInt {
			d := IntRange(name, int(nums[0]), int(nums[1]), int(nums[2]))
			if len(d.Values) == 0 {
				return Dimension{}, fmt.Errorf("empty range in %q", spec)
			}
			return d, nil
		}
		d := FloatRange(name, nums[0], nums[1], nums[2])
		if len(d.Values) == 0 {
			return Dimension{}, fmt.Errorf("empty range in %q", spec)
		}
		return d, nil
	}

	var vals []any
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i, err := strconv.Atoi(part); err == nil {
			vals = append(vals, i)
			continue
		}
		if f, err := strconv.ParseFloat(part, 64); err == nil {
			vals = append(vals, f)
			continue
		}
		vals = append(vals, part)
	}
	if len(vals) == 0 {
		return Dimension{}, fmt.Errorf("no values in %q", spec)
	}
	return Values(name, vals...), nil
}
