package view

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidValue is returned when a control change carries a value of the
// wrong shape for its control.
var ErrInvalidValue = errors.New("invalid control value")

// Change is one control update sent by a client.
type Change struct {
	Control Control         `json:"control"`
	Value   json.RawMessage `json:"value"`
}

// Update is what a session sends back: the state after the change and the
// panels that were recomputed.
type Update struct {
	SessionID string  `json:"session_id"`
	State     State   `json:"state"`
	Panels    []Panel `json:"panels"`
}

// Session holds one client's control state. It is not safe for concurrent
// use; each connection drives its own session from a single goroutine.
type Session struct {
	id      uuid.UUID
	binding *Binding
	state   State
	started time.Time
}

// NewSession starts a session at the initial state.
func (b *Binding) NewSession() *Session {
	b.metrics.SessionsActive.Inc()
	return &Session{
		id:      uuid.New(),
		binding: b,
		state:   b.InitialState(),
		started: b.clock.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id.String() }

// State returns the current control values.
func (s *Session) State() State { return s.state }

// Initial renders every panel for the current state.
func (s *Session) Initial() Update {
	return Update{
		SessionID: s.ID(),
		State:     s.state,
		Panels:    s.binding.Render(s.state),
	}
}

// Apply updates one control and recomputes the panels that depend on it.
// On error the session state is left unchanged.
func (s *Session) Apply(c Change) (Update, error) {
	next := s.state
	if err := decodeInto(&next, c); err != nil {
		return Update{}, err
	}
	if err := s.binding.Validate(next); err != nil {
		return Update{}, err
	}

	outputs, err := Dependents(c.Control, next)
	if err != nil {
		return Update{}, err
	}

	s.state = next
	s.binding.metrics.ControlChanges.WithLabelValues(string(c.Control)).Inc()
	return Update{
		SessionID: s.ID(),
		State:     s.state,
		Panels:    s.binding.RenderOutputs(outputs, s.state),
	}, nil
}

// Close releases the session.
func (s *Session) Close() {
	s.binding.metrics.SessionsActive.Dec()
	s.binding.logger.Debug("session closed",
		"session_id", s.ID(),
		"duration", s.binding.clock.Since(s.started),
	)
}

func decodeInto(st *State, c Change) error {
	var err error
	switch c.Control {
	case ControlCategory:
		err = json.Unmarshal(c.Value, &st.Category)
	case ControlSingleMode:
		err = json.Unmarshal(c.Value, &st.SingleMode)
	case ControlSingleYear:
		err = json.Unmarshal(c.Value, &st.SingleYear)
	case ControlYearRange:
		var pair []int
		if err = json.Unmarshal(c.Value, &pair); err == nil {
			if len(pair) != 2 {
				return fmt.Errorf("%w: year_range needs [start, end], got %d values", ErrInvalidValue, len(pair))
			}
			st.YearRange.Start, st.YearRange.End = pair[0], pair[1]
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownControl, c.Control)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, c.Control, err)
	}
	return nil
}
