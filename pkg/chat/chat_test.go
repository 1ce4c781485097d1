package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_AppendContinuesFromMaxID(t *testing.T) {
	log := Log{
		{ID: 1, Sender: SenderDeath, Text: "first", Kind: KindText},
		{ID: 7, Sender: SenderDeath, Text: "second", Kind: KindText},
		{ID: 3, Sender: SenderUser, Text: "third", Kind: KindText},
	}

	log, msg := log.Append(SenderUser, "hello", "")

	assert.Equal(t, 8, msg.ID)
	assert.Equal(t, KindText, msg.Kind)
	assert.Len(t, log, 4)
	assert.Equal(t, msg, log[3])
}

func TestLog_AppendClueBearing(t *testing.T) {
	var log Log
	log, msg := log.Append(SenderDeath, "a clue", "death-fire")

	require.Len(t, log, 1)
	assert.Equal(t, 1, msg.ID)
	assert.Equal(t, KindClue, msg.Kind)
	assert.Equal(t, "death-fire", msg.ClueRef)
	assert.True(t, msg.IsClue())
}

func TestLog_Lookups(t *testing.T) {
	log := Log{
		{ID: 1, Sender: SenderDeath, Text: "alpha", Kind: KindText},
		{ID: 2, Sender: SenderUser, Text: "beta", Kind: KindText},
	}

	assert.True(t, log.ContainsText("beta"))
	assert.False(t, log.ContainsText("gamma"))
	assert.True(t, log.Contains(SenderDeath, "alpha"))
	assert.False(t, log.Contains(SenderDeath, "beta"), "sender must match")

	msg, ok := log.Find(2)
	require.True(t, ok)
	assert.Equal(t, "beta", msg.Text)

	_, ok = log.Find(9)
	assert.False(t, ok)

	assert.Equal(t, 1, log.IndexOf(2))
	assert.Equal(t, -1, log.IndexOf(9))
}

func TestSendMessageRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SendMessageRequest
		wantErr string
	}{
		{name: "valid", req: SendMessageRequest{Text: "Who started the fire?"}},
		{name: "at max length", req: SendMessageRequest{Text: strings.Repeat("a", MaxMessageLength)}},
		{name: "blank", req: SendMessageRequest{Text: "   "}, wantErr: "cannot be empty"},
		{name: "too long", req: SendMessageRequest{Text: strings.Repeat("a", MaxMessageLength+1)}, wantErr: "exceeds maximum length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
