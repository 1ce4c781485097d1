package game

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/guining-hotel/data"
	"github.com/jwebster45206/guining-hotel/pkg/catalog"
	"github.com/jwebster45206/guining-hotel/pkg/progression"
	"github.com/jwebster45206/guining-hotel/pkg/state"
	"github.com/jwebster45206/guining-hotel/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_WritesEverySlot(t *testing.T) {
	svc, store := newTestService(t)
	sess, err := svc.Create(context.Background())
	require.NoError(t, err)

	stored := store.Slots(sess.ID())
	assert.Len(t, stored, len(SlotNames()))
	for _, name := range SlotNames() {
		assert.Contains(t, stored, name)
	}
	assert.JSONEq(t, `"start"`, stored[SlotStatus])
	assert.JSONEq(t, `["203"]`, stored[SlotUnlockedRooms])
	assert.JSONEq(t, `[]`, stored[SlotInventory])
}

func TestSave_WritesOnlyChangedSlots(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	sess, err := svc.Create(ctx)
	require.NoError(t, err)
	base := store.SetCount()

	require.NoError(t, sess.Save(ctx))
	assert.Equal(t, base, store.SetCount(), "nothing changed")

	sess.Start()
	require.NoError(t, sess.Save(ctx))
	assert.Equal(t, base+1, store.SetCount())

	require.NoError(t, sess.EnterRoom("203"))
	require.NoError(t, sess.Save(ctx))
	assert.Equal(t, base+1+3, store.SetCount(), "status, room and visited rooms")
}

func TestLoad_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	sess.Start()
	require.NoError(t, sess.AttemptUnlock("101", "Jiang Xiaoli"))
	require.NoError(t, sess.EnterRoom("101"))
	require.NoError(t, sess.Collect("10101"))
	require.NoError(t, sess.PlaceInSlot(1, "10101"))
	sess.OpenChat()
	sess.RevealNext()
	require.NoError(t, sess.Save(ctx))

	loaded, err := svc.Load(ctx, sess.ID())
	require.NoError(t, err)
	assert.Equal(t, sess.State(), loaded.State())
	assert.Equal(t, 1, loaded.State().ChatCursor.Revealed, "reveal resumes from the saved index")
}

func TestLoad_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Load(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.True(t, IsNotFound(err))
}

func TestLoad_UnparseableSlotsFallBack(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	sess, err := svc.Create(ctx)
	require.NoError(t, err)
	sess.Start()
	require.NoError(t, sess.AttemptUnlock("102", "Jiang Yiyi"))
	require.NoError(t, sess.Save(ctx))

	id := sess.ID()
	require.NoError(t, store.Set(ctx, id, SlotInventory, "{not json"))
	require.NoError(t, store.Set(ctx, id, SlotChat, `[{"id":1},{"id":1}]`))
	require.NoError(t, store.Set(ctx, id, SlotStatus, `"flying"`))

	loaded, err := svc.Load(ctx, id)
	require.NoError(t, err)
	gs := loaded.State()
	assert.Empty(t, gs.Inventory)
	assert.Len(t, gs.Chat, 2, "duplicate message ids fall back to the opening dialogue")
	assert.Equal(t, state.StatusStart, gs.Status)
	assert.Equal(t, state.Set{"203", "102"}, gs.UnlockedRooms, "readable slots are kept")

	// Saving repairs the broken slots.
	require.NoError(t, loaded.Save(ctx))
	assert.JSONEq(t, `[]`, store.Slots(id)[SlotInventory])
	assert.JSONEq(t, `"start"`, store.Slots(id)[SlotStatus])
}

// newLoggedService writes JSON logs to buf.
func newLoggedService(t *testing.T, buf *bytes.Buffer) (*Service, *storage.MockStorage) {
	t.Helper()
	cat, err := catalog.Load(data.FS)
	require.NoError(t, err)
	store := storage.NewMockStorage()
	svc, err := NewService(cat, store, slog.New(slog.NewJSONHandler(buf, nil)))
	require.NoError(t, err)
	return svc, store
}

func TestCreate_LogsSessionID(t *testing.T) {
	var buf bytes.Buffer
	svc, _ := newLoggedService(t, &buf)

	sess, err := svc.Create(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"Session created"`)
	assert.Contains(t, buf.String(), `"session_id":"`+sess.ID().String()+`"`)
}

func TestLoad_LostFlagsDoNotReplayScripts(t *testing.T) {
	var buf bytes.Buffer
	svc, store := newLoggedService(t, &buf)
	ctx := context.Background()
	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	sess.Start()
	unlockAll(t, sess)
	for _, r := range svc.Catalog().RoomIDs() {
		require.NoError(t, sess.EnterRoom(r))
	}
	require.True(t, sess.State().Flag(progression.FiveCorpses))
	require.NoError(t, sess.Save(ctx))
	chatLen := len(sess.State().Chat)

	id := sess.ID()
	require.NoError(t, store.Set(ctx, id, SlotFlags, "{not json"))

	loaded, err := svc.Load(ctx, id)
	require.NoError(t, err)
	assert.True(t, loaded.State().Flag(progression.FiveCorpses), "flag recovered from the chat log")
	assert.Contains(t, buf.String(), `"msg":"Recovered lost trigger flags from chat"`)
	assert.Contains(t, buf.String(), `"triggers":["five_corpses"]`)

	require.NoError(t, loaded.EnterRoom("203"))
	assert.Len(t, loaded.State().Chat, chatLen, "the five corpses script is not appended again")

	require.NoError(t, loaded.Save(ctx))
	assert.JSONEq(t, `{"five_corpses":true}`, store.Slots(id)[SlotFlags])
}

func TestLoad_MissingSlotsUseDefaults(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	id := uuid.New()
	require.NoError(t, store.Set(ctx, id, SlotStatus, `"hub"`))

	loaded, err := svc.Load(ctx, id)
	require.NoError(t, err)
	gs := loaded.State()
	assert.Equal(t, state.StatusHub, gs.Status)
	assert.Equal(t, state.Set{"203"}, gs.UnlockedRooms)
	assert.Len(t, gs.Chat, 2)
	assert.True(t, gs.ChatCursor.Unread)
}

func TestLoad_InRoomWithUnknownRoom(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	id := uuid.New()
	require.NoError(t, store.Set(ctx, id, SlotStatus, `"in_room"`))
	require.NoError(t, store.Set(ctx, id, SlotRoom, `"999"`))

	loaded, err := svc.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, state.StatusHub, loaded.State().Status)
	assert.Empty(t, loaded.State().Room)
}

func TestLoad_StoreFailure(t *testing.T) {
	svc, store := newTestService(t)
	store.SetFailError(errors.New("connection refused"))

	_, err := svc.Load(context.Background(), uuid.New())
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.False(t, IsUserError(err))
}

func TestClearSave(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	sess.Start()
	for room, owner := range owners {
		require.NoError(t, sess.AttemptUnlock(room, owner))
	}
	for _, r := range svc.Catalog().RoomIDs() {
		require.NoError(t, sess.EnterRoom(r))
	}
	require.NoError(t, sess.EnterRoom("202"))
	require.NoError(t, sess.Collect("20201"))
	require.NoError(t, sess.Save(ctx))
	require.Len(t, sess.State().Chat, 7)

	require.NoError(t, sess.ClearSave(ctx))

	// Read the defaults back from the store.
	loaded, err := svc.Load(ctx, sess.ID())
	require.NoError(t, err)
	gs := loaded.State()
	assert.Empty(t, gs.Inventory)
	assert.Equal(t, state.Set{"203"}, gs.UnlockedRooms)
	assert.Len(t, gs.Chat, 2)
	assert.Empty(t, gs.Flags)
	assert.Empty(t, gs.VisitedRooms)
	assert.Equal(t, state.StatusStart, gs.Status)
	assert.Len(t, store.Slots(sess.ID()), len(SlotNames()))
}
