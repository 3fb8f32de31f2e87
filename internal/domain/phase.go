package domain

import (
	"encoding/json"
	"fmt"
)

// PhaseKind identifies the mode of the timer.
type PhaseKind int

const (
	PhaseIdle PhaseKind = iota
	PhaseWorking
	PhaseShortBreak
	PhaseLongBreak
	PhasePaused
)

// String returns the wire tag for the kind.
func (k PhaseKind) String() string {
	switch k {
	case PhaseIdle:
		return "Idle"
	case PhaseWorking:
		return "Working"
	case PhaseShortBreak:
		return "ShortBreak"
	case PhaseLongBreak:
		return "LongBreak"
	case PhasePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Label returns a human-readable label for the kind.
func (k PhaseKind) Label() string {
	switch k {
	case PhaseIdle:
		return "Idle"
	case PhaseWorking:
		return "Work"
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	case PhasePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// ParsePhaseKind converts a wire tag back into a PhaseKind.
func ParsePhaseKind(tag string) (PhaseKind, error) {
	for _, k := range []PhaseKind{PhaseIdle, PhaseWorking, PhaseShortBreak, PhaseLongBreak, PhasePaused} {
		if k.String() == tag {
			return k, nil
		}
	}
	return PhaseIdle, fmt.Errorf("invalid phase %q", tag)
}

// Phase is the current mode of the timer. The zero value is Idle.
// A Paused phase carries the running phase it suspended, so there is
// no separate "resume phase" field that could drift out of sync.
type Phase struct {
	kind      PhaseKind
	suspended PhaseKind
}

// Phase values for every non-paused kind.
var (
	Idle       = Phase{kind: PhaseIdle}
	Working    = Phase{kind: PhaseWorking}
	ShortBreak = Phase{kind: PhaseShortBreak}
	LongBreak  = Phase{kind: PhaseLongBreak}
)

// PhaseOf returns the Phase for a non-paused kind.
func PhaseOf(kind PhaseKind) (Phase, error) {
	switch kind {
	case PhaseIdle, PhaseWorking, PhaseShortBreak, PhaseLongBreak:
		return Phase{kind: kind}, nil
	default:
		return Idle, fmt.Errorf("invalid phase kind %s: paused phases must be built with Suspend", kind)
	}
}

// Kind returns the phase tag.
func (p Phase) Kind() PhaseKind {
	return p.kind
}

// IsRunning reports whether a countdown is active in this phase.
func (p Phase) IsRunning() bool {
	return p.kind == PhaseWorking || p.kind == PhaseShortBreak || p.kind == PhaseLongBreak
}

// IsPaused reports whether the phase is Paused.
func (p Phase) IsPaused() bool {
	return p.kind == PhasePaused
}

// IsIdle reports whether the phase is Idle.
func (p Phase) IsIdle() bool {
	return p.kind == PhaseIdle
}

// Suspend returns Paused(p). Only running phases can be suspended;
// for any other phase it returns p and false.
func (p Phase) Suspend() (Phase, bool) {
	if !p.IsRunning() {
		return p, false
	}
	return Phase{kind: PhasePaused, suspended: p.kind}, true
}

// Suspended returns the phase a Paused phase will resume into.
func (p Phase) Suspended() (Phase, bool) {
	if p.kind != PhasePaused {
		return Phase{}, false
	}
	return Phase{kind: p.suspended}, true
}

// Equal reports whether two phases have the same kind and suspended phase.
func (p Phase) Equal(other Phase) bool {
	return p == other
}

// String returns e.g. "Working" or "Paused(ShortBreak)".
func (p Phase) String() string {
	if inner, ok := p.Suspended(); ok {
		return fmt.Sprintf("%s(%s)", p.kind, inner.kind)
	}
	return p.kind.String()
}

// Label returns a human-readable label, e.g. "Paused (Work)".
func (p Phase) Label() string {
	if inner, ok := p.Suspended(); ok {
		return fmt.Sprintf("%s (%s)", p.kind.Label(), inner.kind.Label())
	}
	return p.kind.Label()
}

type phaseJSON struct {
	Type  string     `json:"type"`
	Value *phaseJSON `json:"value,omitempty"`
}

func (p Phase) toJSON() *phaseJSON {
	out := &phaseJSON{Type: p.kind.String()}
	if inner, ok := p.Suspended(); ok {
		out.Value = inner.toJSON()
	}
	return out
}

// MarshalJSON encodes the phase as {"type": tag} with a "value" holding
// the suspended phase for Paused.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.toJSON())
}

// UnmarshalJSON decodes the tagged form produced by MarshalJSON.
func (p *Phase) UnmarshalJSON(data []byte) error {
	var raw phaseJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind, err := ParsePhaseKind(raw.Type)
	if err != nil {
		return err
	}
	if kind != PhasePaused {
		if raw.Value != nil {
			return fmt.Errorf("phase %s does not carry a value", kind)
		}
		*p = Phase{kind: kind}
		return nil
	}
	if raw.Value == nil {
		return fmt.Errorf("paused phase is missing its suspended phase")
	}
	innerKind, err := ParsePhaseKind(raw.Value.Type)
	if err != nil {
		return err
	}
	inner := Phase{kind: innerKind}
	paused, ok := inner.Suspend()
	if !ok {
		return fmt.Errorf("cannot suspend phase %s", innerKind)
	}
	*p = paused
	return nil
}
