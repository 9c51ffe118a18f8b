package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/lorenzobs/internal/dynamo"
)

// Method is a named fixed-step integrator.
type Method interface {
	dynamo.Integrator
	Name() string
	Order() int
}

// Default is the reference method.
const Default = "rk4"

var methods = map[string]func() Method{
	"euler":  func() Method { return NewEuler() },
	"rk4":    func() Method { return NewRK4() },
	"dopri5": func() Method { return NewDormandPrince() },
}

// New returns a fresh instance of the named method. Each run must use its
// own instance. An empty name selects Default.
func New(name string) (Method, error) {
	if name == "" {
		name = Default
	}
	fn, ok := methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownIntegrator, name, Names())
	}
	return fn(), nil
}

// Names lists the registered methods in sorted order.
func Names() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
