package game

import (
	"github.com/google/uuid"
	"github.com/jwebster45206/guining-hotel/pkg/chat"
	"github.com/jwebster45206/guining-hotel/pkg/state"
)

// View is the client-facing snapshot of a session.
type View struct {
	ID              uuid.UUID        `json:"id"`
	Status          state.Status     `json:"status"`
	Room            string           `json:"room,omitempty"`
	Inventory       state.Inventory  `json:"inventory"`
	Groups          []state.Group    `json:"groups"`
	UnlockedRooms   state.Set        `json:"unlocked_rooms"`
	VisitedRooms    state.Set        `json:"visited_rooms"`
	UnlockedHidden  state.Set        `json:"unlocked_hidden"`
	Flags           map[string]bool  `json:"flags"`
	Offers          state.Set        `json:"offers"`
	Truths          state.Truths     `json:"truths"`
	Slots           state.Slots      `json:"slots"`
	Chat            chat.Log         `json:"chat"`
	ChatCursor      state.ChatCursor `json:"chat_cursor"`
	Ending          string           `json:"ending,omitempty"`
	EndingAvailable bool             `json:"ending_available"`
}

func (s *Session) View() View {
	gs := s.gs
	groups := gs.Inventory.GroupByCategory()
	if groups == nil {
		groups = []state.Group{}
	}
	return View{
		ID:              s.id,
		Status:          gs.Status,
		Room:            gs.Room,
		Inventory:       gs.Inventory,
		Groups:          groups,
		UnlockedRooms:   gs.UnlockedRooms,
		VisitedRooms:    gs.VisitedRooms,
		UnlockedHidden:  gs.UnlockedHidden,
		Flags:           gs.Flags,
		Offers:          gs.Offers,
		Truths:          gs.Truths,
		Slots:           gs.Slots,
		Chat:            gs.Chat,
		ChatCursor:      gs.ChatCursor,
		Ending:          gs.Ending,
		EndingAvailable: s.EndingAvailable(),
	}
}

// Revealed returns the chat messages displayed so far.
func (v View) Revealed() chat.Log {
	n := v.ChatCursor.Revealed
	if n > len(v.Chat) {
		n = len(v.Chat)
	}
	return v.Chat[:n]
}
