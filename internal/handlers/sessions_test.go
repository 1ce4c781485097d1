package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/guining-hotel/data"
	"github.com/jwebster45206/guining-hotel/pkg/catalog"
	"github.com/jwebster45206/guining-hotel/pkg/game"
	"github.com/jwebster45206/guining-hotel/pkg/state"
	"github.com/jwebster45206/guining-hotel/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(data.FS)
	require.NoError(t, err)
	return cat
}

func newTestHandler(t *testing.T) (*SessionHandler, *storage.MockStorage) {
	t.Helper()
	store := storage.NewMockStorage()
	svc, err := game.NewService(loadCatalog(t), store, testLogger())
	require.NoError(t, err)
	return NewSessionHandler(svc, testLogger()), store
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v), rr.Body.String())
	return v
}

func createSession(t *testing.T, h http.Handler) uuid.UUID {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	return decode[ActionResponse](t, rr).View.ID
}

func act(t *testing.T, h http.Handler, id uuid.UUID, req ActionRequest) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, h, http.MethodPost, "/v1/sessions/"+id.String()+"/actions", req)
}

func actOK(t *testing.T, h http.Handler, id uuid.UUID, req ActionRequest) ActionResponse {
	t.Helper()
	rr := act(t, h, id, req)
	require.Equal(t, http.StatusOK, rr.Code, "%s: %s", req.Action, rr.Body.String())
	return decode[ActionResponse](t, rr)
}

func slot(i int) *int { return &i }

func TestSessionHandler_Create(t *testing.T) {
	h, store := newTestHandler(t)

	rr := do(t, h, http.MethodPost, "/v1/sessions", nil)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	resp := decode[ActionResponse](t, rr)
	assert.NotEqual(t, uuid.Nil, resp.View.ID)
	assert.Equal(t, state.StatusStart, resp.View.Status)
	assert.Equal(t, state.Set{"203"}, resp.View.UnlockedRooms)
	assert.True(t, resp.View.ChatCursor.Unread)
	assert.NotEmpty(t, resp.View.Chat)
	assert.NotNil(t, resp.Notifications)
	assert.NotEmpty(t, store.Slots(resp.View.ID))
}

func TestSessionHandler_Playthrough(t *testing.T) {
	h, _ := newTestHandler(t)
	id := createSession(t, h)

	resp := actOK(t, h, id, ActionRequest{Action: ActionStart})
	assert.Equal(t, state.StatusHub, resp.View.Status)

	rr := act(t, h, id, ActionRequest{Action: ActionEnterRoom, Room: "201"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "room_locked", decode[ErrorResponse](t, rr).Code)

	rr = act(t, h, id, ActionRequest{Action: ActionUnlockRoom, Room: "201", Name: "Xu  He"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "wrong_name", decode[ErrorResponse](t, rr).Code)

	resp = actOK(t, h, id, ActionRequest{Action: ActionUnlockRoom, Room: "201", Name: " Xu He "})
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "Verified! Room 201 unlocked", resp.Notifications[0].Text)
	assert.EqualValues(t, 2000, resp.Notifications[0].DismissMS)

	resp = actOK(t, h, id, ActionRequest{Action: ActionEnterRoom, Room: "201"})
	assert.Equal(t, state.StatusInRoom, resp.View.Status)
	assert.Equal(t, "201", resp.View.Room)
	require.Len(t, resp.Notifications, 2)
	assert.Equal(t, "Entering room 201...", resp.Notifications[0].Text)

	for i, clue := range []string{"20101", "20102", "20103"} {
		resp = actOK(t, h, id, ActionRequest{Action: ActionCollect, Clue: clue})
		require.Len(t, resp.Notifications, 1)
		assert.EqualValues(t, 3000, resp.Notifications[0].DismissMS)
		actOK(t, h, id, ActionRequest{Action: ActionPlaceSlot, Slot: slot(i), Clue: clue})
	}

	rr = act(t, h, id, ActionRequest{Action: ActionPlaceSlot, Slot: slot(0), Clue: "20102"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	errResp := decode[ErrorResponse](t, rr)
	assert.Equal(t, "already_slotted", errResp.Code)
	require.Len(t, errResp.Notifications, 1)
	assert.Equal(t, "That clue is already in the synthesis panel", errResp.Notifications[0].Text)

	rr = act(t, h, id, ActionRequest{Action: ActionSynthesize, Name: "Zhao Qing"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "no_match", decode[ErrorResponse](t, rr).Code)

	resp = actOK(t, h, id, ActionRequest{Action: ActionSynthesize, Name: "Xu He"})
	require.NotNil(t, resp.Reveal)
	assert.Equal(t, "[Xu He: Truth of Death]", resp.Reveal.Title)
	assert.Equal(t, state.Slots{}, resp.View.Slots)
	assert.True(t, resp.View.Truths.Truth1.Has("Xu He"))

	rr = do(t, h, http.MethodGet, "/v1/sessions/"+id.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	view := decode[ActionResponse](t, rr).View
	assert.Equal(t, state.StatusInRoom, view.Status)
	assert.Len(t, view.Inventory, 3)
	assert.True(t, view.Truths.Truth1.Has("Xu He"))
	assert.Contains(t, view.VisitedRooms, "201")

	resp = actOK(t, h, id, ActionRequest{Action: ActionReturnToHub})
	assert.Equal(t, state.StatusHub, resp.View.Status)

	rr = act(t, h, id, ActionRequest{Action: ActionChooseEnding, Choice: "truth1"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "ending_unavailable", decode[ErrorResponse](t, rr).Code)

	rr = act(t, h, id, ActionRequest{Action: ActionAcceptOffer, Offer: "newspaper_inquiry"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "no_offer", decode[ErrorResponse](t, rr).Code)

	rr = do(t, h, http.MethodDelete, "/v1/sessions/"+id.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	view = decode[ActionResponse](t, rr).View
	assert.Equal(t, state.StatusStart, view.Status)
	assert.Empty(t, view.Inventory)
	assert.Empty(t, view.Truths.Truth1)
}

func TestSessionHandler_Chat(t *testing.T) {
	h, _ := newTestHandler(t)
	id := createSession(t, h)

	resp := actOK(t, h, id, ActionRequest{Action: ActionOpenChat})
	assert.False(t, resp.View.ChatCursor.Unread)
	assert.Equal(t, 0, resp.View.ChatCursor.Revealed)

	resp = actOK(t, h, id, ActionRequest{Action: ActionRevealNext})
	require.NotNil(t, resp.More)
	assert.Equal(t, 1, resp.View.ChatCursor.Revealed)
	assert.Equal(t, len(resp.View.Chat) > 1, *resp.More)

	resp = actOK(t, h, id, ActionRequest{Action: ActionSendMessage, Text: "   "})
	assert.Nil(t, resp.Message)

	resp = actOK(t, h, id, ActionRequest{Action: ActionSendMessage, Text: "Who are you?"})
	require.NotNil(t, resp.Message)
	assert.Equal(t, "user", resp.Message.Sender)
	assert.Equal(t, len(resp.View.Chat), resp.View.ChatCursor.Revealed)

	rr := act(t, h, id, ActionRequest{Action: ActionSendMessage, Text: strings.Repeat("a", 501)})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "message_too_long", decode[ErrorResponse](t, rr).Code)

	rr = act(t, h, id, ActionRequest{Action: ActionCollectChat, MessageID: 9999})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "message_not_found", decode[ErrorResponse](t, rr).Code)
}

func TestSessionHandler_BadRequests(t *testing.T) {
	h, _ := newTestHandler(t)
	id := createSession(t, h)
	actions := "/v1/sessions/" + id.String() + "/actions"

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"invalid id", http.MethodGet, "/v1/sessions/not-a-uuid", "", http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/v1/sessions/" + uuid.NewString(), "", http.StatusNotFound},
		{"unknown sub-resource", http.MethodGet, "/v1/sessions/" + id.String() + "/nope", "", http.StatusNotFound},
		{"list not allowed", http.MethodGet, "/v1/sessions", "", http.StatusMethodNotAllowed},
		{"patch not allowed", http.MethodPatch, "/v1/sessions/" + id.String(), "", http.StatusMethodNotAllowed},
		{"get actions not allowed", http.MethodGet, actions, "", http.StatusMethodNotAllowed},
		{"malformed json", http.MethodPost, actions, "{", http.StatusBadRequest},
		{"unknown field", http.MethodPost, actions, `{"action":"start","cheat":true}`, http.StatusBadRequest},
		{"unknown action", http.MethodPost, actions, `{"action":"fly"}`, http.StatusBadRequest},
		{"slot missing", http.MethodPost, actions, `{"action":"place_slot","clue":"10101"}`, http.StatusBadRequest},
		{"slot out of range", http.MethodPost, actions, `{"action":"clear_slot","slot":3}`, http.StatusUnprocessableEntity},
		{"unknown room", http.MethodPost, actions, `{"action":"unlock_room","room":"999","name":"x"}`, http.StatusNotFound},
		{"unknown clue", http.MethodPost, actions, `{"action":"collect","clue":"99999"}`, http.StatusNotFound},
		{"actions on unknown session", http.MethodPost, "/v1/sessions/" + uuid.NewString() + "/actions", `{"action":"start"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.NotEmpty(t, decode[ErrorResponse](t, rr).Error)
		})
	}
}

func TestSessionHandler_RejectedActionIsNotSaved(t *testing.T) {
	h, store := newTestHandler(t)
	id := createSession(t, h)
	before := store.SetCount()

	rr := act(t, h, id, ActionRequest{Action: ActionUnlockRoom, Room: "101", Name: "nobody"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, before, store.SetCount())
}

func TestSessionHandler_StorageFailure(t *testing.T) {
	h, store := newTestHandler(t)
	id := createSession(t, h)
	store.SetFailError(errors.New("disk on fire"))

	rr := act(t, h, id, ActionRequest{Action: ActionStart})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := decode[ErrorResponse](t, rr)
	assert.Equal(t, "Internal server error", resp.Error)
	assert.Empty(t, resp.Code)

	rr = do(t, h, http.MethodPost, "/v1/sessions", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(game.ErrSessionNotFound))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(game.ErrWrongName))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
	assert.Equal(t, "wrong_name", errorCode(game.ErrWrongName))
	assert.Empty(t, errorCode(errors.New("boom")))
}
