package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	var gotPath, gotChatID, gotText, gotParseMode string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotChatID = r.FormValue("chat_id")
		gotText = r.FormValue("text")
		gotParseMode = r.FormValue("parse_mode")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient("test-token", "12345")
	client.apiBase = server.URL

	err := client.SendMessage(context.Background(), "hello")
	assert.NoError(t, err)
	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, "12345", gotChatID)
	assert.Equal(t, "hello", gotText)
	assert.Equal(t, "Markdown", gotParseMode)
}

func TestSendMessageAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient("test-token", "12345")
	client.apiBase = server.URL

	err := client.SendMessage(context.Background(), "hello")
	assert.Error(t, err)
}

func TestSendMessageMisconfigured(t *testing.T) {
	client := NewClient("", "")
	err := client.SendMessage(context.Background(), "hello")
	assert.Error(t, err)
}

func TestGetUpdates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("offset"))
		w.Write([]byte(`{"ok":true,"result":[
			{"update_id":7,"message":{"message_id":1,"text":"/search macbook","chat":{"id":42}}},
			{"update_id":8,"message":{"message_id":2,"text":"/help","chat":{"id":42}}}
		]}`))
	}))
	defer server.Close()

	client := NewClient("test-token", "12345")
	client.apiBase = server.URL

	updates, err := client.GetUpdates(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, updates, 2)

	assert.Equal(t, int64(7), updates[0].UpdateID)
	require.NotNil(t, updates[0].Message)
	assert.Equal(t, "/search macbook", updates[0].Message.Text)
	assert.Equal(t, int64(42), updates[0].Message.Chat.ID)
}

func TestGetUpdatesNotOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"result":[]}`))
	}))
	defer server.Close()

	client := NewClient("test-token", "12345")
	client.apiBase = server.URL

	_, err := client.GetUpdates(context.Background(), 0)
	assert.Error(t, err)
}
