package chat

import (
	"fmt"
	"strings"
)

const (
	SenderDeath = "death" // Death, the guide
	SenderUser  = "user"  // The player
)

const (
	KindText = "text"
	KindClue = "clue" // Carries a collectible clue reference
)

// MaxMessageLength caps player-typed chat input.
const MaxMessageLength = 500

// ChatMessage is a single entry in the Death dialogue.
type ChatMessage struct {
	ID      int    `json:"id"`
	Sender  string `json:"sender"` // "death", "user"
	Text    string `json:"text"`
	Kind    string `json:"kind"`               // "text", "clue"
	ClueRef string `json:"clue_ref,omitempty"` // Set when Kind is "clue"
}

// IsClue reports whether the message carries a collectible clue.
func (m ChatMessage) IsClue() bool {
	return m.Kind == KindClue && m.ClueRef != ""
}

// Log is the append-only Death dialogue history.
type Log []ChatMessage

// NextID returns the id the next appended message will receive:
// one more than the largest id already present.
func (l Log) NextID() int {
	maxID := 0
	for _, m := range l {
		if m.ID > maxID {
			maxID = m.ID
		}
	}
	return maxID + 1
}

// Append adds a message and returns the log and the stored message.
// A non-empty clueRef turns the message into a clue-bearing one.
func (l Log) Append(sender, text, clueRef string) (Log, ChatMessage) {
	msg := ChatMessage{
		ID:     l.NextID(),
		Sender: sender,
		Text:   text,
		Kind:   KindText,
	}
	if clueRef != "" {
		msg.Kind = KindClue
		msg.ClueRef = clueRef
	}
	return append(l, msg), msg
}

// ContainsText reports whether any message has exactly this text.
func (l Log) ContainsText(text string) bool {
	for _, m := range l {
		if m.Text == text {
			return true
		}
	}
	return false
}

// Contains reports whether sender has sent a message with exactly this text.
func (l Log) Contains(sender, text string) bool {
	for _, m := range l {
		if m.Sender == sender && m.Text == text {
			return true
		}
	}
	return false
}

// Find returns the message with the given id.
func (l Log) Find(id int) (ChatMessage, bool) {
	for _, m := range l {
		if m.ID == id {
			return m, true
		}
	}
	return ChatMessage{}, false
}

// IndexOf returns the position of the message with the given id, or -1.
func (l Log) IndexOf(id int) int {
	for i, m := range l {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// SendMessageRequest is a player-typed line for the Death dialogue.
type SendMessageRequest struct {
	Text string `json:"text"`
}

func (r *SendMessageRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if len(r.Text) > MaxMessageLength {
		return fmt.Errorf("message exceeds maximum length of %d characters", MaxMessageLength)
	}
	return nil
}
