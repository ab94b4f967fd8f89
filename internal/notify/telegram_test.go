package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/zylm/internal/forms"
	"github.com/example/zylm/internal/models"
)

func TestNewTelegramNotifier_Unconfigured(t *testing.T) {
	assert.Nil(t, NewTelegramNotifier("", "123", nil))
	assert.Nil(t, NewTelegramNotifier("token", "", nil))
}

func TestTelegramNotifier_NotifyNewSubmission(t *testing.T) {
	var (
		path string
		msg  telegramMessage
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg := NewTelegramNotifier("bot-token", "42", srv.Client())
	require.NotNil(t, tg)
	tg.baseURL = srv.URL

	phone := "9876543210"
	sub := &models.FormSubmission{Type: "contact", Phone: &phone, OTPVerified: true}
	sub.ID = uuid.New()
	rows := []forms.Row{{Label: "Name", Value: "Asha <Admin>"}, {Label: "Company", Value: ""}}

	require.NoError(t, tg.NotifyNewSubmission(context.Background(), sub, rows))

	assert.Equal(t, "/botbot-token/sendMessage", path)
	assert.Equal(t, "42", msg.ChatID)
	assert.Equal(t, "HTML", msg.ParseMode)
	assert.Contains(t, msg.Text, "Asha &lt;Admin&gt;")
	assert.NotContains(t, msg.Text, "Company")
	assert.Contains(t, msg.Text, "<b>Phone verified:</b> Yes")
}

func TestTelegramNotifier_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	tg := NewTelegramNotifier("t", "1", srv.Client())
	tg.baseURL = srv.URL

	assert.Error(t, tg.SendToAdmin(context.Background(), "hello"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 2))
}
