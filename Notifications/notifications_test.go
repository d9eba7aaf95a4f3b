package Notifications

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failing struct{ err error }

func (f failing) Notify(context.Context, Notice) error { return f.err }

func TestMultiJoinsErrors(t *testing.T) {
	mem := &Memory{}
	boom := errors.New("boom")
	m := Multi{failing{boom}, mem, Noop{}}

	err := m.Notify(context.Background(), Notice{Title: "t", Body: "b"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, mem.Notices(), 1)

	assert.NoError(t, Multi{mem}.Notify(context.Background(), Notice{}))
}

func TestSlackNotify(t *testing.T) {
	var gotText, gotChannel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotText = r.PostFormValue("text")
		gotChannel = r.PostFormValue("channel")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"channel":"C123","ts":"1700000000.000100"}`))
	}))
	defer server.Close()

	s := NewSlack("xoxb-test", "#mandi", slack.OptionAPIURL(server.URL+"/"))
	err := s.Notify(context.Background(), Notice{Title: "Large transaction", Body: "Rs 150000.00"})
	require.NoError(t, err)

	assert.Equal(t, "#mandi", gotChannel)
	assert.Equal(t, "*Large transaction*\nRs 150000.00", gotText)
}

func TestSlackNotifyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
	}))
	defer server.Close()

	s := NewSlack("xoxb-test", "#missing", slack.OptionAPIURL(server.URL+"/"))
	err := s.Notify(context.Background(), Notice{Body: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel_not_found")
}

func TestEmailNotify(t *testing.T) {
	var gotAddr string
	var gotTo []string
	var gotMsg string
	e := NewEmail(EmailConfig{Host: "smtp.example.com", Port: 587, From: "mandi@example.com"}, []string{"owner@example.com", "munim@example.com"})
	e.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		assert.Nil(t, a)
		return nil
	}

	require.NoError(t, e.Notify(context.Background(), Notice{Title: "Daily summary", Body: "plain", HTML: "<b>html</b>"}))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"owner@example.com", "munim@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Daily summary\r\n")
	assert.Contains(t, gotMsg, "To: owner@example.com, munim@example.com\r\n")
	assert.Contains(t, gotMsg, "text/html")
	assert.True(t, strings.HasSuffix(gotMsg, "<b>html</b>"))
}

func TestEmailWithoutRecipients(t *testing.T) {
	e := NewEmail(EmailConfig{Host: "smtp.example.com", Port: 25}, nil)
	e.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send should not be called")
		return nil
	}
	assert.NoError(t, e.Notify(context.Background(), Notice{Title: "x"}))
}

func TestChunk(t *testing.T) {
	tokens := make([]string, 1001)
	batches := chunk(tokens, multicastLimit)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 500)
	assert.Len(t, batches[2], 1)
	assert.Empty(t, chunk(nil, multicastLimit))
}

func TestMulticastMessage(t *testing.T) {
	msg := multicast(Notice{Title: "T", Body: "B", Data: map[string]string{"transaction_id": "7"}}, []string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, msg.Tokens)
	assert.Equal(t, "T", msg.Notification.Title)
	assert.Equal(t, "7", msg.Data["transaction_id"])
	assert.Equal(t, "high", msg.Android.Priority)
}
