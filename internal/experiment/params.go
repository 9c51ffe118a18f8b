package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/lorenzobs/internal/dynamo"
)

var setters = map[string]func(*dynamo.Params, float64){
	"sigma":     func(p *dynamo.Params, v float64) { p.Sigma = v },
	"rho":       func(p *dynamo.Params, v float64) { p.Rho = v },
	"beta":      func(p *dynamo.Params, v float64) { p.Beta = v },
	"noise_std": func(p *dynamo.Params, v float64) { p.NoiseStd = v },
	"dt":        func(p *dynamo.Params, v float64) { p.Dt = v },
}

// SetParam assigns the named parameter. The result is not validated.
func SetParam(p *dynamo.Params, name string, v float64) error {
	set, ok := setters[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %q (tunable: %v)", dynamo.ErrInvalidParams, name, TunableParams())
	}
	set(p, v)
	return nil
}

func TunableParams() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
