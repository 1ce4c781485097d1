package game

import (
	"errors"

	"github.com/jwebster45206/guining-hotel/pkg/progression"
	"github.com/jwebster45206/guining-hotel/pkg/synthesis"
)

var ErrSessionNotFound = errors.New("session not found")

// Room gate
var (
	ErrEmptyName   = errors.New("enter a name")
	ErrUnknownRoom = errors.New("unknown room")
	ErrWrongName   = errors.New("name verification failed, try again")
	ErrRoomLocked  = errors.New("room is locked")
)

// Collecting
var (
	ErrClueNotFound    = errors.New("clue not found")
	ErrNotCollectable  = errors.New("clue cannot be collected")
	ErrClueLocked      = errors.New("clue is not visible yet")
	ErrWrongRoom       = errors.New("clue is not in this room")
	ErrMessageNotFound = errors.New("message not found")
	ErrNotRevealed     = errors.New("message has not been shown yet")
	ErrNotClueMessage  = errors.New("message carries no clue")
)

// Synthesis panel
var (
	ErrInvalidSlot    = errors.New("invalid synthesis slot")
	ErrNotInInventory = errors.New("clue has not been collected")
	ErrAlreadySlotted = errors.New("that clue is already in the synthesis panel")
)

// Chat and ending
var (
	ErrMessageTooLong    = errors.New("message is too long")
	ErrInvalidChoice     = errors.New("choose truth1 or truth2")
	ErrEndingUnavailable = errors.New("the ending is not available yet")
	ErrWrongScreen       = errors.New("action not available on this screen")
)

var userErrors = []error{
	ErrEmptyName, ErrWrongName, ErrRoomLocked,
	ErrNotCollectable, ErrClueLocked, ErrWrongRoom, ErrNotRevealed, ErrNotClueMessage,
	ErrInvalidSlot, ErrNotInInventory, ErrAlreadySlotted,
	ErrMessageTooLong, ErrInvalidChoice, ErrEndingUnavailable, ErrWrongScreen,
	synthesis.ErrEmptyName, synthesis.ErrUnknownCharacter, synthesis.ErrIncompleteSlots, synthesis.ErrNoMatch,
	progression.ErrNoOffer,
}

var notFoundErrors = []error{
	ErrSessionNotFound, ErrUnknownRoom, ErrClueNotFound, ErrMessageNotFound,
}

// IsUserError reports whether err was caused by invalid player input.
// Such errors leave the game state unchanged and are safe to retry.
func IsUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
