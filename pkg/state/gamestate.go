package state

import (
	"slices"

	"github.com/google/uuid"
	"github.com/jwebster45206/guining-hotel/pkg/catalog"
	"github.com/jwebster45206/guining-hotel/pkg/chat"
)

// Status is the top-level screen the player is on.
type Status string

const (
	StatusStart  Status = "start"
	StatusHub    Status = "hub"
	StatusInRoom Status = "in_room"
	StatusEnding Status = "ending"
)

// SlotCount is the number of synthesis slots.
const SlotCount = 3

// Slots holds the clue ids placed in the synthesis panel; "" is empty.
type Slots [SlotCount]string

// Filled returns the non-empty slot values in slot order.
func (s Slots) Filled() []string {
	var ids []string
	for _, id := range s {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// IndexOf returns the slot holding id, or -1.
func (s Slots) IndexOf(id string) int {
	for i, v := range s {
		if v != "" && v == id {
			return i
		}
	}
	return -1
}

// Truths records which characters have had each truth synthesized.
type Truths struct {
	Truth1 Set `json:"truth1"`
	Truth2 Set `json:"truth2"`
}

// ChatCursor is how far the chat log has been displayed.
type ChatCursor struct {
	Revealed int  `json:"revealed"`
	Unread   bool `json:"unread"`
}

// GameState is the complete save of one player session.
type GameState struct {
	ID             uuid.UUID       `json:"id"`
	Status         Status          `json:"status"`
	Room           string          `json:"room,omitempty"` // Current room while in_room
	Inventory      Inventory       `json:"inventory"`
	UnlockedRooms  Set             `json:"unlocked_rooms"`
	VisitedRooms   Set             `json:"visited_rooms"`
	UnlockedHidden Set             `json:"unlocked_hidden"`
	Flags          map[string]bool `json:"flags"`
	Offers         Set             `json:"offers"`
	Truths         Truths          `json:"truths"`
	Slots          Slots           `json:"slots"`
	Chat           chat.Log        `json:"chat"`
	ChatCursor     ChatCursor      `json:"chat_cursor"`
	Ending         string          `json:"ending,omitempty"` // Last ending choice made
}

// NewGameState returns a fresh game: only the starting rooms unlocked and
// the opening dialogue in the chat log.
func NewGameState(id uuid.UUID, cat *catalog.Catalog) *GameState {
	return &GameState{
		ID:             id,
		Status:         StatusStart,
		Inventory:      Inventory{},
		UnlockedRooms:  DefaultUnlockedRooms(cat),
		VisitedRooms:   Set{},
		UnlockedHidden: Set{},
		Flags:          map[string]bool{},
		Offers:         Set{},
		Truths:         Truths{Truth1: Set{}, Truth2: Set{}},
		Chat:           DefaultChat(cat),
		ChatCursor:     ChatCursor{Unread: true},
	}
}

// DefaultUnlockedRooms is the unlocked set of a fresh game.
func DefaultUnlockedRooms(cat *catalog.Catalog) Set {
	return Set(slices.Clone(cat.StartingRooms()))
}

// DefaultChat builds the opening chat log.
func DefaultChat(cat *catalog.Catalog) chat.Log {
	log := chat.Log{}
	for _, line := range cat.Opening {
		log, _ = log.Append(line.Sender, line.Text, line.ClueRef)
	}
	return log
}

// Flag reports whether a progress flag is set.
func (gs *GameState) Flag(name string) bool {
	return gs.Flags[name]
}

// SetFlag sets a progress flag. It returns false if it was already set.
func (gs *GameState) SetFlag(name string) bool {
	if gs.Flags == nil {
		gs.Flags = map[string]bool{}
	}
	if gs.Flags[name] {
		return false
	}
	gs.Flags[name] = true
	return true
}

// IsClueVisible reports whether a clue can currently be seen in its room.
func (gs *GameState) IsClueVisible(clue catalog.Clue) bool {
	if clue.Hidden && !gs.UnlockedHidden.Has(clue.ID) {
		return false
	}
	if clue.UnlockFlag != "" && !gs.Flag(clue.UnlockFlag) {
		return false
	}
	return true
}

// AppendScript appends scripted lines to the chat log and marks it unread.
// It returns the number of lines appended.
func (gs *GameState) AppendScript(lines []catalog.Line) int {
	for _, line := range lines {
		gs.Chat, _ = gs.Chat.Append(line.Sender, line.Text, line.ClueRef)
	}
	if len(lines) > 0 {
		gs.ChatCursor.Unread = true
	}
	return len(lines)
}

// Pending is the number of chat messages not yet displayed.
func (gs *GameState) Pending() int {
	if n := len(gs.Chat) - gs.ChatCursor.Revealed; n > 0 {
		return n
	}
	return 0
}

// Normalize repairs a decoded state so that every collection is non-nil
// and the reveal cursor is within the chat log.
func (gs *GameState) Normalize() {
	if gs.Inventory == nil {
		gs.Inventory = Inventory{}
	}
	if gs.UnlockedRooms == nil {
		gs.UnlockedRooms = Set{}
	}
	if gs.VisitedRooms == nil {
		gs.VisitedRooms = Set{}
	}
	if gs.UnlockedHidden == nil {
		gs.UnlockedHidden = Set{}
	}
	if gs.Flags == nil {
		gs.Flags = map[string]bool{}
	}
	if gs.Offers == nil {
		gs.Offers = Set{}
	}
	if gs.Truths.Truth1 == nil {
		gs.Truths.Truth1 = Set{}
	}
	if gs.Truths.Truth2 == nil {
		gs.Truths.Truth2 = Set{}
	}
	if gs.Chat == nil {
		gs.Chat = chat.Log{}
	}
	if gs.ChatCursor.Revealed < 0 {
		gs.ChatCursor.Revealed = 0
	}
	if gs.ChatCursor.Revealed > len(gs.Chat) {
		gs.ChatCursor.Revealed = len(gs.Chat)
	}
}
