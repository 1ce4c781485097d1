package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/guining-hotel/pkg/catalog"
	"github.com/jwebster45206/guining-hotel/pkg/chat"
	"github.com/jwebster45206/guining-hotel/pkg/game"
	"github.com/jwebster45206/guining-hotel/pkg/synthesis"
)

const maxActionBody = 64 << 10

// Actions accepted by POST /v1/sessions/{id}/actions.
const (
	ActionStart            = "start"
	ActionEnterRoom        = "enter_room"
	ActionReturnToHub      = "return_to_hub"
	ActionUnlockRoom       = "unlock_room"
	ActionCollect          = "collect"
	ActionCollectChat      = "collect_chat"
	ActionPlaceSlot        = "place_slot"
	ActionClearSlot        = "clear_slot"
	ActionSynthesize       = "synthesize"
	ActionOpenChat         = "open_chat"
	ActionRevealNext       = "reveal_next"
	ActionSendMessage      = "send_message"
	ActionAcceptOffer      = "accept_offer"
	ActionChooseEnding     = "choose_ending"
	ActionReturnFromEnding = "return_from_ending"
)

// errBadRequest marks malformed action bodies.
var errBadRequest = errors.New("bad request")

// ActionRequest is one player action. Only the fields the action needs are
// read.
type ActionRequest struct {
	Action    string `json:"action"`
	Room      string `json:"room,omitempty"`
	Name      string `json:"name,omitempty"`
	Clue      string `json:"clue,omitempty"`
	MessageID int    `json:"message_id,omitempty"`
	Slot      *int   `json:"slot,omitempty"`
	Text      string `json:"text,omitempty"`
	Offer     string `json:"offer,omitempty"`
	Choice    string `json:"choice,omitempty"`
}

// ActionResponse carries the session view after the action, plus the
// action-specific result.
type ActionResponse struct {
	View          game.View           `json:"view"`
	Notifications []game.Notification `json:"notifications"`
	Reveal        *synthesis.Reveal   `json:"reveal,omitempty"`
	Ending        *catalog.Ending     `json:"ending,omitempty"`
	Message       *chat.ChatMessage   `json:"message,omitempty"`
	More          *bool               `json:"more,omitempty"`
}

type SessionHandler struct {
	service *game.Service
	locks   *sessionLocks
	logger  *slog.Logger
}

func NewSessionHandler(service *game.Service, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		locks:   newSessionLocks(),
		logger:  logger,
	}
}

// ServeHTTP handles HTTP requests for game sessions
// Routes:
// POST /v1/sessions                - Create a new session
// GET /v1/sessions/{id}            - Read a session view
// DELETE /v1/sessions/{id}         - Clear the save and start over
// POST /v1/sessions/{id}/actions   - Apply one player action
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			h.methodNotAllowed(w, r, "POST")
			return
		}
		h.handleCreate(w, r)
		return
	}

	idStr, rest, _ := strings.Cut(path, "/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", idStr, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	switch rest {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.handleRead(w, r, id)
		case http.MethodDelete:
			h.handleDelete(w, r, id)
		default:
			h.methodNotAllowed(w, r, "GET, DELETE")
		}
	case "actions":
		if r.Method != http.MethodPost {
			h.methodNotAllowed(w, r, "POST")
			return
		}
		h.handleAction(w, r, id)
	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found")
	}
}

func (h *SessionHandler) methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) {
	h.logger.Warn("Method not allowed for session endpoint", "method", r.Method, "path", r.URL.Path)
	w.Header().Set("Allow", allowed)
	writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: "+allowed)
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Create(r.Context())
	if err != nil {
		writeGameError(w, h.logger, err, nil)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, ActionResponse{
		View:          sess.View(),
		Notifications: notes(sess),
	})
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	unlock := h.locks.lock(id)
	defer unlock()

	sess, err := h.service.Load(r.Context(), id)
	if err != nil {
		writeGameError(w, h.logger, err, nil)
		return
	}
	resp := ActionResponse{View: sess.View(), Notifications: notes(sess)}
	if ending, ok := sess.Ending(); ok {
		resp.Ending = &ending
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	unlock := h.locks.lock(id)
	defer unlock()

	sess, err := h.service.Load(r.Context(), id)
	if err != nil {
		writeGameError(w, h.logger, err, nil)
		return
	}
	if err := sess.ClearSave(r.Context()); err != nil {
		writeGameError(w, h.logger, err, nil)
		return
	}
	h.logger.Info("Save cleared", "session_id", id)
	writeJSON(w, h.logger, http.StatusOK, ActionResponse{View: sess.View(), Notifications: notes(sess)})
}

func (h *SessionHandler) handleAction(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req ActionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActionBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.logger.Warn("Invalid action body", "session_id", id, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with an 'action' field.")
		return
	}

	unlock := h.locks.lock(id)
	defer unlock()

	sess, err := h.service.Load(r.Context(), id)
	if err != nil {
		writeGameError(w, h.logger, err, nil)
		return
	}

	resp, err := apply(sess, req)
	if errors.Is(err, errBadRequest) {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Debug("Action rejected", "session_id", id, "action", req.Action, "error", err)
		writeGameError(w, h.logger, err, sess.Notifications())
		return
	}
	if err := sess.Save(r.Context()); err != nil {
		writeGameError(w, h.logger, err, nil)
		return
	}

	resp.View = sess.View()
	resp.Notifications = notes(sess)
	writeJSON(w, h.logger, http.StatusOK, resp)
}

// apply runs one action against the session.
func apply(sess *game.Session, req ActionRequest) (ActionResponse, error) {
	var resp ActionResponse
	switch req.Action {
	case ActionStart:
		sess.Start()
	case ActionEnterRoom:
		return resp, sess.EnterRoom(req.Room)
	case ActionReturnToHub:
		sess.ReturnToHub()
	case ActionUnlockRoom:
		return resp, sess.AttemptUnlock(req.Room, req.Name)
	case ActionCollect:
		return resp, sess.Collect(req.Clue)
	case ActionCollectChat:
		return resp, sess.CollectFromChat(req.MessageID)
	case ActionPlaceSlot:
		if req.Slot == nil {
			return resp, fmt.Errorf("%w: slot is required", errBadRequest)
		}
		return resp, sess.PlaceInSlot(*req.Slot, req.Clue)
	case ActionClearSlot:
		if req.Slot == nil {
			return resp, fmt.Errorf("%w: slot is required", errBadRequest)
		}
		return resp, sess.ClearSlot(*req.Slot)
	case ActionSynthesize:
		reveal, err := sess.Synthesize(req.Name)
		if err != nil {
			return resp, err
		}
		resp.Reveal = &reveal
	case ActionOpenChat:
		sess.OpenChat()
	case ActionRevealNext:
		more := sess.RevealNext()
		resp.More = &more
	case ActionSendMessage:
		msg, sent, err := sess.SendMessage(req.Text)
		if err != nil {
			return resp, err
		}
		if sent {
			resp.Message = &msg
		}
	case ActionAcceptOffer:
		return resp, sess.AcceptOffer(req.Offer)
	case ActionChooseEnding:
		ending, err := sess.ChooseEnding(req.Choice)
		if err != nil {
			return resp, err
		}
		resp.Ending = &ending
	case ActionReturnFromEnding:
		return resp, sess.ReturnFromEnding()
	default:
		return resp, fmt.Errorf("%w: unknown action %q", errBadRequest, req.Action)
	}
	return resp, nil
}

func notes(sess *game.Session) []game.Notification {
	n := sess.Notifications()
	if n == nil {
		return []game.Notification{}
	}
	return n
}
