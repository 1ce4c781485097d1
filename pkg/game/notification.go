package game

import (
	"fmt"
	"time"

	"github.com/jwebster45206/guining-hotel/pkg/catalog"
)

// Auto-dismiss delays.
const (
	CollectRoomDismiss    = 3000 * time.Millisecond
	CollectChatDismiss    = 2000 * time.Millisecond
	UnlockDismiss         = 2000 * time.Millisecond
	EnteringDismiss       = 500 * time.Millisecond
	CorpseHintDismiss     = 2000 * time.Millisecond
	AlreadySlottedDismiss = 2000 * time.Millisecond
)

// Notification is a transient toast. Notifications from one action are
// shown in order, each for its own duration.
type Notification struct {
	Text      string `json:"text"`
	DismissMS int64  `json:"dismiss_ms"`
}

func newNotification(text string, d time.Duration) Notification {
	return Notification{Text: text, DismissMS: d.Milliseconds()}
}

// Duration returns how long the notification stays on screen.
func (n Notification) Duration() time.Duration {
	return time.Duration(n.DismissMS) * time.Millisecond
}

func corpseHint(c catalog.Corpse) string {
	switch c {
	case catalog.CorpseMale:
		return "A male body lies in this room"
	case catalog.CorpseFemale:
		return "A female body lies in this room"
	default:
		return "No body in this room"
	}
}

func collectedText(name string) string {
	return fmt.Sprintf("Clue collected: %s", name)
}
