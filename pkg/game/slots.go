package game

import (
	"encoding/json"
	"fmt"

	"github.com/jwebster45206/guining-hotel/pkg/chat"
	"github.com/jwebster45206/guining-hotel/pkg/state"
)

// Save slot names. Each slot holds one JSON document.
const (
	SlotStatus         = "status"
	SlotRoom           = "room"
	SlotInventory      = "inventory"
	SlotUnlockedRooms  = "unlocked_rooms"
	SlotVisitedRooms   = "visited_rooms"
	SlotUnlockedHidden = "unlocked_hidden"
	SlotFlags          = "flags"
	SlotOffers         = "offers"
	SlotTruths         = "truths"
	SlotSynthesis      = "synthesis"
	SlotChat           = "chat"
	SlotChatCursor     = "chat_cursor"
	SlotEnding         = "ending"
)

type slot struct {
	name   string
	encode func(gs *state.GameState) (string, error)
	decode func(gs *state.GameState, raw string) error
}

// slots lists every save slot in restore order.
var slots = []slot{
	jsonSlot(SlotStatus, func(gs *state.GameState) *state.Status { return &gs.Status }, validStatus),
	jsonSlot(SlotRoom, func(gs *state.GameState) *string { return &gs.Room }, nil),
	jsonSlot(SlotInventory, func(gs *state.GameState) *state.Inventory { return &gs.Inventory }, nil),
	jsonSlot(SlotUnlockedRooms, func(gs *state.GameState) *state.Set { return &gs.UnlockedRooms }, nil),
	jsonSlot(SlotVisitedRooms, func(gs *state.GameState) *state.Set { return &gs.VisitedRooms }, nil),
	jsonSlot(SlotUnlockedHidden, func(gs *state.GameState) *state.Set { return &gs.UnlockedHidden }, nil),
	jsonSlot(SlotFlags, func(gs *state.GameState) *map[string]bool { return &gs.Flags }, nil),
	jsonSlot(SlotOffers, func(gs *state.GameState) *state.Set { return &gs.Offers }, nil),
	jsonSlot(SlotTruths, func(gs *state.GameState) *state.Truths { return &gs.Truths }, nil),
	jsonSlot(SlotSynthesis, func(gs *state.GameState) *state.Slots { return &gs.Slots }, nil),
	jsonSlot(SlotChat, func(gs *state.GameState) *chat.Log { return &gs.Chat }, validChat),
	jsonSlot(SlotChatCursor, func(gs *state.GameState) *state.ChatCursor { return &gs.ChatCursor }, nil),
	jsonSlot(SlotEnding, func(gs *state.GameState) *string { return &gs.Ending }, nil),
}

// SlotNames returns every save slot name.
func SlotNames() []string {
	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = s.name
	}
	return names
}

// jsonSlot binds a slot to one GameState field. A value that fails to
// decode or check leaves the field untouched.
func jsonSlot[T any](name string, field func(gs *state.GameState) *T, check func(T) error) slot {
	return slot{
		name: name,
		encode: func(gs *state.GameState) (string, error) {
			data, err := json.Marshal(field(gs))
			if err != nil {
				return "", fmt.Errorf("failed to encode slot %s: %w", name, err)
			}
			return string(data), nil
		},
		decode: func(gs *state.GameState, raw string) error {
			var v T
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				return err
			}
			if check != nil {
				if err := check(v); err != nil {
					return err
				}
			}
			*field(gs) = v
			return nil
		},
	}
}

func validStatus(s state.Status) error {
	switch s {
	case state.StatusStart, state.StatusHub, state.StatusInRoom, state.StatusEnding:
		return nil
	}
	return fmt.Errorf("invalid status %q", s)
}

func validChat(log chat.Log) error {
	seen := make(map[int]bool, len(log))
	for _, m := range log {
		if seen[m.ID] {
			return fmt.Errorf("duplicate message id %d", m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}

// encodeAll serializes every slot.
func encodeAll(gs *state.GameState) (map[string]string, error) {
	out := make(map[string]string, len(slots))
	for _, s := range slots {
		v, err := s.encode(gs)
		if err != nil {
			return nil, err
		}
		out[s.name] = v
	}
	return out, nil
}
