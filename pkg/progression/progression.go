// Package progression holds the one-shot narrative triggers that advance a
// game after each player action.
package progression

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/guining-hotel/pkg/catalog"
	"github.com/jwebster45206/guining-hotel/pkg/state"
)

// ErrNoOffer is returned when accepting an offer that is not pending.
var ErrNoOffer = errors.New("nothing to ask about right now")

// Trigger is a condition that fires its effect once. After firing, Flag is
// set on the game state and the trigger is never evaluated again.
//
// Marker is a line Fire writes to the chat log. When set, a save whose
// guard flag was lost but whose chat still holds the marker is treated as
// already fired by Restore, which then runs Replay instead of Fire. Replay
// must only repeat the effects of Fire that are safe to apply twice.
type Trigger struct {
	Name   string
	Flag   string // Guard flag; Name is used when empty
	When   func(gs *state.GameState) bool
	Fire   func(gs *state.GameState)
	Marker catalog.Line
	Replay func(gs *state.GameState)
}

func (t Trigger) guard() string {
	if t.Flag != "" {
		return t.Flag
	}
	return t.Name
}

// Offer is a follow-up dialogue the player may choose to start.
type Offer struct {
	Name   string
	Script []catalog.Line
}

// AskedFlag is set once an offer has been accepted.
func (o Offer) AskedFlag() string {
	return o.Name + "_asked"
}

// Engine evaluates triggers in order after every state mutation.
type Engine struct {
	triggers []Trigger
	offers   map[string]Offer
}

func NewEngine(triggers []Trigger, offers ...Offer) *Engine {
	e := &Engine{
		triggers: triggers,
		offers:   make(map[string]Offer, len(offers)),
	}
	for _, o := range offers {
		e.offers[o.Name] = o
	}
	return e
}

// Triggers returns the trigger names in evaluation order.
func (e *Engine) Triggers() []string {
	names := make([]string, len(e.triggers))
	for i, t := range e.triggers {
		names[i] = t.Name
	}
	return names
}

// Evaluate fires every unfired trigger whose condition holds and returns the
// names of those that fired. Triggers are re-checked until none fires, so an
// effect that satisfies a later or earlier condition is picked up in the same
// call.
func (e *Engine) Evaluate(gs *state.GameState) []string {
	var fired []string
	for {
		progressed := false
		for _, t := range e.triggers {
			if gs.Flag(t.guard()) {
				continue
			}
			if t.When == nil || !t.When(gs) {
				continue
			}
			gs.SetFlag(t.guard())
			if t.Fire != nil {
				t.Fire(gs)
			}
			fired = append(fired, t.Name)
			progressed = true
		}
		if !progressed {
			return fired
		}
	}
}

// Restore marks as fired every trigger whose guard flag is unset but whose
// marker is already in the chat log, and returns their names. It is meant
// for saves restored from partly unreadable slots.
func (e *Engine) Restore(gs *state.GameState) []string {
	var restored []string
	for _, t := range e.triggers {
		if t.Marker.Text == "" || gs.Flag(t.guard()) {
			continue
		}
		if !gs.Chat.Contains(t.Marker.Sender, t.Marker.Text) {
			continue
		}
		gs.SetFlag(t.guard())
		if t.Replay != nil {
			t.Replay(gs)
		}
		restored = append(restored, t.Name)
	}
	return restored
}

// Accept starts a pending offer: its script is appended, the offer is
// consumed and its asked flag set. It returns the number of lines appended.
func (e *Engine) Accept(gs *state.GameState, name string) (int, error) {
	offer, ok := e.offers[name]
	if !ok || !gs.Offers.Has(name) {
		return 0, fmt.Errorf("%w: %s", ErrNoOffer, name)
	}
	gs.Offers.Remove(name)
	gs.SetFlag(offer.AskedFlag())
	return gs.AppendScript(offer.Script), nil
}
