package view

import (
	"errors"
	"fmt"
)

// ErrUnknownControl is returned for a control name outside the dispatch table.
var ErrUnknownControl = errors.New("unknown control")

type dependency struct {
	output Output
	active func(State) bool
}

func always(State) bool { return true }
func inRangeMode(s State) bool { return !s.SingleMode }
func inSingleMode(s State) bool { return s.SingleMode }

var dispatch = map[Control][]dependency{
	ControlCategory:   {{OutputMap, always}, {OutputSeries, always}},
	ControlSingleMode: {{OutputMap, always}, {OutputSeries, always}},
	ControlYearRange:  {{OutputMap, inRangeMode}, {OutputSeries, inRangeMode}},
	ControlSingleYear: {{OutputMap, inSingleMode}},
}

// Dependents returns the outputs to recompute after control changed, given
// the state after the change. Map comes before series.
func Dependents(control Control, s State) ([]Output, error) {
	deps, ok := dispatch[control]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownControl, control)
	}
	var out []Output
	for _, d := range deps {
		if d.active(s) {
			out = append(out, d.output)
		}
	}
	return out, nil
}
