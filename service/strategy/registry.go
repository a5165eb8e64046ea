package strategy

import (
	"fmt"
	"sort"

	"github.com/quantworks/cerebro/model"
)

// Factory builds a fresh strategy instance from parameters. The optimizer
// calls it once per parameter combination.
type Factory func(p model.Params) Strategy

var registry = map[string]Factory{}

// Register adds a named strategy factory. Later registrations replace
// earlier ones.
func Register(name string, f Factory) {
	registry[name] = f
}

// Create instantiates a registered strategy.
func Create(name string, p model.Params) (Strategy, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (available: %v)", name, Names())
	}
	return f(p), nil
}

// Names lists the registered strategies in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
