package game

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/guining-hotel/pkg/catalog"
	"github.com/jwebster45206/guining-hotel/pkg/chat"
	"github.com/jwebster45206/guining-hotel/pkg/progression"
	"github.com/jwebster45206/guining-hotel/pkg/state"
	"github.com/jwebster45206/guining-hotel/pkg/synthesis"
)

// Session is one player's game. It is not safe for concurrent use; callers
// serialize access per session id.
type Session struct {
	svc       *Service
	id        uuid.UUID
	gs        *state.GameState
	persisted map[string]string // Last value written or read per slot
	notes     []Notification
	logger    *slog.Logger
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// State exposes the underlying save. Callers must not mutate it.
func (s *Session) State() *state.GameState {
	return s.gs
}

// Notifications returns and clears the toasts raised since the last call.
func (s *Session) Notifications() []Notification {
	notes := s.notes
	s.notes = nil
	return notes
}

func (s *Session) notify(text string, d time.Duration) {
	s.notes = append(s.notes, newNotification(text, d))
}

// advance runs the progression triggers after a mutation.
func (s *Session) advance() {
	for _, name := range s.svc.engine.Evaluate(s.gs) {
		s.logger.Info("Progression trigger fired", "trigger", name)
	}
}

// Save writes every slot whose serialized value changed.
func (s *Session) Save(ctx context.Context) error {
	encoded, err := encodeAll(s.gs)
	if err != nil {
		return err
	}
	for _, sl := range slots {
		v := encoded[sl.name]
		if prev, ok := s.persisted[sl.name]; ok && prev == v {
			continue
		}
		if err := s.svc.store.Set(ctx, s.id, sl.name, v); err != nil {
			s.logger.Error("Failed to write save slot", "slot", sl.name, "error", err)
			return fmt.Errorf("failed to write slot %s: %w", sl.name, err)
		}
		s.persisted[sl.name] = v
	}
	return nil
}

// ClearSave wipes the stored save and writes a fresh game in its place.
func (s *Session) ClearSave(ctx context.Context) error {
	if err := s.svc.store.Clear(ctx, s.id); err != nil {
		s.logger.Error("Failed to clear save", "error", err)
		return fmt.Errorf("failed to clear save: %w", err)
	}
	s.gs = state.NewGameState(s.id, s.svc.catalog)
	s.persisted = make(map[string]string, len(slots))
	s.notes = nil
	if err := s.Save(ctx); err != nil {
		return err
	}
	s.logger.Info("Save cleared")
	return nil
}

// Start leaves the title screen.
func (s *Session) Start() {
	if s.gs.Status == state.StatusStart {
		s.gs.Status = state.StatusHub
	}
}

// IsUnlocked reports whether a room can be entered.
func (s *Session) IsUnlocked(roomID string) bool {
	return s.gs.UnlockedRooms.Has(roomID)
}

// AttemptUnlock verifies a room owner's name. The trimmed name must match
// exactly; a mismatch changes nothing.
func (s *Session) AttemptUnlock(roomID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	room, ok := s.svc.catalog.Room(roomID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRoom, roomID)
	}
	if name != room.Owner {
		return ErrWrongName
	}
	if s.gs.UnlockedRooms.Add(roomID) {
		s.notify(fmt.Sprintf("Verified! Room %s unlocked", roomID), UnlockDismiss)
		s.logger.Info("Room unlocked", "room", roomID)
	}
	s.advance()
	return nil
}

// EnterRoom moves into an unlocked room and records the visit.
func (s *Session) EnterRoom(roomID string) error {
	if s.gs.Status != state.StatusHub && s.gs.Status != state.StatusInRoom {
		return ErrWrongScreen
	}
	room, ok := s.svc.catalog.Room(roomID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRoom, roomID)
	}
	if !s.IsUnlocked(roomID) {
		return fmt.Errorf("%w: %s", ErrRoomLocked, roomID)
	}
	s.gs.Status = state.StatusInRoom
	s.gs.Room = roomID
	s.gs.VisitedRooms.Add(roomID)
	s.notify(fmt.Sprintf("Entering room %s...", roomID), EnteringDismiss)
	s.notify(corpseHint(room.Corpse), CorpseHintDismiss)
	s.advance()
	return nil
}

// ReturnToHub leaves the current room.
func (s *Session) ReturnToHub() {
	if s.gs.Status == state.StatusInRoom {
		s.gs.Status = state.StatusHub
		s.gs.Room = ""
	}
}

// Collect picks up a clue from the current room. Collecting a clue that is
// already in the inventory is a no-op.
func (s *Session) Collect(clueID string) error {
	clue, ok := s.svc.catalog.Clue(clueID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrClueNotFound, clueID)
	}
	if s.gs.Status != state.StatusInRoom || clue.Room != s.gs.Room {
		return fmt.Errorf("%w: %s", ErrWrongRoom, clue.ID)
	}
	if !s.gs.IsClueVisible(clue) {
		return fmt.Errorf("%w: %s", ErrClueLocked, clue.ID)
	}
	if !clue.Collectable {
		return fmt.Errorf("%w: %s", ErrNotCollectable, clue.ID)
	}
	s.collect(clue, CollectRoomDismiss)
	return nil
}

// CollectFromChat picks up the clue carried by a displayed Death message.
func (s *Session) CollectFromChat(messageID int) error {
	i := s.gs.Chat.IndexOf(messageID)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrMessageNotFound, messageID)
	}
	if i >= s.gs.ChatCursor.Revealed {
		return fmt.Errorf("%w: %d", ErrNotRevealed, messageID)
	}
	msg := s.gs.Chat[i]
	if !msg.IsClue() {
		return fmt.Errorf("%w: %d", ErrNotClueMessage, messageID)
	}
	clue, ok := s.svc.catalog.Clue(msg.ClueRef)
	if !ok {
		return fmt.Errorf("%w: %s", ErrClueNotFound, msg.ClueRef)
	}
	s.collect(clue, CollectChatDismiss)
	return nil
}

func (s *Session) collect(clue catalog.Clue, dismiss time.Duration) {
	if !s.gs.Inventory.Collect(clue) {
		return
	}
	s.notify(collectedText(clue.Name), dismiss)
	s.logger.Debug("Clue collected", "clue", clue.ID)
	s.advance()
}

// PlaceInSlot puts a collected clue into a synthesis slot, replacing
// whatever the slot held.
func (s *Session) PlaceInSlot(index int, clueID string) error {
	if index < 0 || index >= state.SlotCount {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, index)
	}
	id := catalog.NormalizeClueID(clueID)
	if !s.gs.Inventory.Has(id) {
		return fmt.Errorf("%w: %s", ErrNotInInventory, clueID)
	}
	if at := s.gs.Slots.IndexOf(id); at >= 0 {
		if at == index {
			return nil
		}
		s.notify("That clue is already in the synthesis panel", AlreadySlottedDismiss)
		return ErrAlreadySlotted
	}
	s.gs.Slots[index] = id
	return nil
}

// ClearSlot empties one synthesis slot.
func (s *Session) ClearSlot(index int) error {
	if index < 0 || index >= state.SlotCount {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, index)
	}
	s.gs.Slots[index] = ""
	return nil
}

// Synthesize tests the slotted clues against a character's truths. On
// success the truth is recorded and the slots are cleared; on failure
// nothing changes.
func (s *Session) Synthesize(name string) (synthesis.Reveal, error) {
	reveal, err := synthesis.Evaluate(s.svc.catalog, name, s.gs.Slots[:])
	if err != nil {
		return synthesis.Reveal{}, err
	}
	switch reveal.Truth {
	case synthesis.Truth1:
		s.gs.Truths.Truth1.Add(reveal.Character)
	case synthesis.Truth2:
		s.gs.Truths.Truth2.Add(reveal.Character)
	}
	s.gs.Slots = state.Slots{}
	s.logger.Info("Truth synthesized", "character", reveal.Character, "truth", reveal.Truth.String())
	s.advance()
	return reveal, nil
}

// OpenChat marks the dialogue as read.
func (s *Session) OpenChat() {
	s.gs.ChatCursor.Unread = false
}

// RevealNext displays one more chat message. It reports whether more
// messages remain.
func (s *Session) RevealNext() bool {
	if s.gs.ChatCursor.Revealed < len(s.gs.Chat) {
		s.gs.ChatCursor.Revealed++
	}
	return s.gs.Pending() > 0
}

// SendMessage appends a player line. It is shown at once, along with any
// messages that were still pending. Blank input is ignored.
func (s *Session) SendMessage(text string) (chat.ChatMessage, bool, error) {
	if strings.TrimSpace(text) == "" {
		return chat.ChatMessage{}, false, nil
	}
	req := chat.SendMessageRequest{Text: text}
	if err := req.Validate(); err != nil {
		return chat.ChatMessage{}, false, fmt.Errorf("%w: %v", ErrMessageTooLong, err)
	}
	var msg chat.ChatMessage
	s.gs.Chat, msg = s.gs.Chat.Append(chat.SenderUser, text, "")
	s.gs.ChatCursor.Revealed = len(s.gs.Chat)
	return msg, true, nil
}

// AcceptOffer starts a pending follow-up dialogue.
func (s *Session) AcceptOffer(name string) error {
	n, err := s.svc.engine.Accept(s.gs, name)
	if err != nil {
		return err
	}
	s.logger.Info("Offer accepted", "offer", name, "lines", n)
	s.advance()
	return nil
}

// EndingAvailable reports whether the final choice can be made.
func (s *Session) EndingAvailable() bool {
	return s.gs.Flag(progression.Truth2All)
}

// ChooseEnding records the final choice and shows its ending.
func (s *Session) ChooseEnding(choice string) (catalog.Ending, error) {
	if choice != catalog.ChoiceTruth1 && choice != catalog.ChoiceTruth2 {
		return catalog.Ending{}, fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}
	if !s.EndingAvailable() {
		return catalog.Ending{}, ErrEndingUnavailable
	}
	if s.gs.Status != state.StatusHub {
		return catalog.Ending{}, ErrWrongScreen
	}
	s.gs.Status = state.StatusEnding
	s.gs.Ending = choice
	s.logger.Info("Ending chosen", "choice", choice)
	ending, _ := s.svc.catalog.Ending(choice)
	return ending, nil
}

// Ending returns the last chosen ending.
func (s *Session) Ending() (catalog.Ending, bool) {
	if s.gs.Ending == "" {
		return catalog.Ending{}, false
	}
	return s.svc.catalog.Ending(s.gs.Ending)
}

// ReturnFromEnding goes back to the hub. The choice is kept.
func (s *Session) ReturnFromEnding() error {
	if s.gs.Status != state.StatusEnding {
		return ErrWrongScreen
	}
	s.gs.Status = state.StatusHub
	return nil
}
