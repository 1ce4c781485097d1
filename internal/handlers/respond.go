package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/guining-hotel/pkg/game"
	"github.com/jwebster45206/guining-hotel/pkg/progression"
	"github.com/jwebster45206/guining-hotel/pkg/synthesis"
)

type ErrorResponse struct {
	Error         string              `json:"error"`
	Code          string              `json:"code,omitempty"`
	Notifications []game.Notification `json:"notifications,omitempty"`
}

// errorCodes gives clients a stable name for each game error.
var errorCodes = []struct {
	err  error
	code string
}{
	{game.ErrSessionNotFound, "session_not_found"},
	{game.ErrEmptyName, "empty_name"},
	{game.ErrUnknownRoom, "unknown_room"},
	{game.ErrWrongName, "wrong_name"},
	{game.ErrRoomLocked, "room_locked"},
	{game.ErrClueNotFound, "clue_not_found"},
	{game.ErrNotCollectable, "not_collectable"},
	{game.ErrClueLocked, "clue_locked"},
	{game.ErrWrongRoom, "wrong_room"},
	{game.ErrMessageNotFound, "message_not_found"},
	{game.ErrNotRevealed, "not_revealed"},
	{game.ErrNotClueMessage, "not_clue_message"},
	{game.ErrInvalidSlot, "invalid_slot"},
	{game.ErrNotInInventory, "not_in_inventory"},
	{game.ErrAlreadySlotted, "already_slotted"},
	{game.ErrMessageTooLong, "message_too_long"},
	{game.ErrInvalidChoice, "invalid_choice"},
	{game.ErrEndingUnavailable, "ending_unavailable"},
	{game.ErrWrongScreen, "wrong_screen"},
	{synthesis.ErrEmptyName, "empty_name"},
	{synthesis.ErrUnknownCharacter, "unknown_character"},
	{synthesis.ErrIncompleteSlots, "incomplete_slots"},
	{synthesis.ErrNoMatch, "no_match"},
	{progression.ErrNoOffer, "no_offer"},
}

func errorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return ""
}

// statusFor maps a game error to its HTTP status.
func statusFor(err error) int {
	switch {
	case game.IsNotFound(err):
		return http.StatusNotFound
	case game.IsUserError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeJSON(w, logger, status, ErrorResponse{Error: message})
}

// writeGameError reports a failed game operation. Internal errors are
// logged and hidden from the client.
func writeGameError(w http.ResponseWriter, logger *slog.Logger, err error, notes []game.Notification) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Game operation failed", "error", err)
		writeError(w, logger, status, "Internal server error")
		return
	}
	writeJSON(w, logger, status, ErrorResponse{
		Error:         err.Error(),
		Code:          errorCode(err),
		Notifications: notes,
	})
}
