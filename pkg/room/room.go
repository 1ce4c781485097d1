// Package room holds the per-room interaction state the player sees while
// inside a room: drawers, the pillow, the painting and the locked phone.
// A Controller is built on entry and discarded on exit; nothing here is saved.
package room

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jwebster45206/guining-hotel/pkg/catalog"
	"github.com/jwebster45206/guining-hotel/pkg/state"
)

var (
	ErrUnknownRoom    = errors.New("unknown room")
	ErrUnknownHotspot = errors.New("nothing like that here")
	ErrHotspotLocked  = errors.New("it is locked")
	ErrWrongPassword  = errors.New("wrong password")
	ErrNotVisible     = errors.New("you cannot see that here")
)

// Action is what selecting a visible clue should do.
type Action int

const (
	ActionCollect    Action = iota // Collect it into the inventory
	ActionShowDetail               // Read-only detail view
)

func (a Action) String() string {
	if a == ActionCollect {
		return "collect"
	}
	return "show_detail"
}

// View is the session state a room needs to render.
type View struct {
	Inventory      state.Inventory
	UnlockedHidden state.Set
	Flags          map[string]bool
}

// HotspotState is a hotspot together with its current local state.
type HotspotState struct {
	catalog.Hotspot
	Open     bool
	Unlocked bool
}

type Controller struct {
	room     catalog.Room
	clues    []catalog.Clue
	behind   map[string]string // clue id -> hotspot that reveals it
	open     map[string]bool
	unlocked map[string]bool
	view     View
}

// New builds a fresh controller for roomID with every hotspot closed.
func New(cat *catalog.Catalog, roomID string, view View) (*Controller, error) {
	r, ok := cat.Room(roomID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoom, roomID)
	}
	c := &Controller{
		room:     r,
		clues:    cat.CluesInRoom(roomID),
		behind:   map[string]string{},
		open:     map[string]bool{},
		unlocked: map[string]bool{},
		view:     view,
	}
	for _, h := range r.Hotspots {
		for _, id := range h.Reveals {
			c.behind[id] = h.ID
		}
	}
	return c, nil
}

func (c *Controller) Room() catalog.Room {
	return c.room
}

// Update replaces the session view, e.g. after a clue was collected.
func (c *Controller) Update(view View) {
	c.view = view
}

func (c *Controller) Hotspots() []HotspotState {
	out := make([]HotspotState, len(c.room.Hotspots))
	for i, h := range c.room.Hotspots {
		out[i] = HotspotState{Hotspot: h, Open: c.open[h.ID], Unlocked: c.unlocked[h.ID]}
	}
	return out
}

func (c *Controller) hotspot(id string) (catalog.Hotspot, error) {
	for _, h := range c.room.Hotspots {
		if h.ID == id {
			return h, nil
		}
	}
	return catalog.Hotspot{}, fmt.Errorf("%w: %s", ErrUnknownHotspot, id)
}

// Toggle opens or closes a hotspot and reports whether it is now open.
// Locked hotspots must be unlocked first.
func (c *Controller) Toggle(id string) (bool, error) {
	h, err := c.hotspot(id)
	if err != nil {
		return false, err
	}
	if h.Kind == catalog.HotspotLocked && !c.unlocked[id] {
		return false, ErrHotspotLocked
	}
	c.open[id] = !c.open[id]
	return c.open[id], nil
}

// Unlock tries a password on a locked hotspot. A correct password also
// opens it. Comparison ignores case and surrounding spaces.
func (c *Controller) Unlock(id, password string) error {
	h, err := c.hotspot(id)
	if err != nil {
		return err
	}
	if h.Kind != catalog.HotspotLocked || c.unlocked[id] {
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(password), h.Password) {
		return ErrWrongPassword
	}
	c.unlocked[id] = true
	c.open[id] = true
	return nil
}

func (c *Controller) visible(clue catalog.Clue) bool {
	if clue.Hidden && !c.view.UnlockedHidden.Has(clue.ID) {
		return false
	}
	if clue.UnlockFlag != "" && !c.view.Flags[clue.UnlockFlag] {
		return false
	}
	if h, ok := c.behind[clue.ID]; ok && !c.open[h] {
		return false
	}
	return true
}

// VisibleClues returns the room's clues the player can currently see.
func (c *Controller) VisibleClues() []catalog.Clue {
	var out []catalog.Clue
	for _, clue := range c.clues {
		if c.visible(clue) {
			out = append(out, clue)
		}
	}
	return out
}

// Collected reports whether a clue is already in the inventory.
func (c *Controller) Collected(id string) bool {
	return c.view.Inventory.Has(id)
}

// Select decides what clicking a visible clue does: uncollected
// collectable clues are collected, anything else shows its detail.
func (c *Controller) Select(clueID string) (Action, catalog.Clue, error) {
	for _, clue := range c.clues {
		if clue.ID != clueID {
			continue
		}
		if !c.visible(clue) {
			return ActionShowDetail, catalog.Clue{}, fmt.Errorf("%w: %s", ErrNotVisible, clueID)
		}
		if clue.Collectable && !c.Collected(clue.ID) {
			return ActionCollect, clue, nil
		}
		return ActionShowDetail, clue, nil
	}
	return ActionShowDetail, catalog.Clue{}, fmt.Errorf("%w: %s", ErrNotVisible, clueID)
}
