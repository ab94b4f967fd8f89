package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/example/zylm/internal/forms"
	"github.com/example/zylm/internal/models"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier posts submission alerts to an admin Telegram chat.
type TelegramNotifier struct {
	botToken    string
	adminChatID string
	baseURL     string
	client      *http.Client
}

// NewTelegramNotifier creates a TelegramNotifier. It returns nil when the
// bot token or chat is missing, which disables the channel.
func NewTelegramNotifier(botToken, adminChatID string, client *http.Client) *TelegramNotifier {
	if botToken == "" || adminChatID == "" {
		return nil
	}
	if client == nil {
		client = &http.Client{}
	}
	return &TelegramNotifier{
		botToken:    botToken,
		adminChatID: adminChatID,
		baseURL:     telegramAPIBase,
		client:      client,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends an HTML message to chatID.
func (s *TelegramNotifier) SendMessage(ctx context.Context, chatID, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)

	body, err := json.Marshal(telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramNotifier) SendToAdmin(ctx context.Context, text string) error {
	return s.SendMessage(ctx, s.adminChatID, text)
}

// Recipient is the admin chat ID.
func (s *TelegramNotifier) Recipient() string {
	return s.adminChatID
}

// NotifyNewSubmission alerts the admin chat about a stored submission.
func (s *TelegramNotifier) NotifyNewSubmission(ctx context.Context, sub *models.FormSubmission, rows []forms.Row) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>📨 New %s form submission</b>\n", html.EscapeString(sub.Type))
	fmt.Fprintf(&b, "<b>ID:</b> %s\n", sub.ID)
	for _, row := range rows {
		if row.Value == "" {
			continue
		}
		fmt.Fprintf(&b, "<b>%s:</b> %s\n", html.EscapeString(row.Label), html.EscapeString(truncate(row.Value, 300)))
	}
	verified := "N/A"
	if sub.Phone != nil {
		verified = "No"
		if sub.OTPVerified {
			verified = "Yes"
		}
	}
	fmt.Fprintf(&b, "<b>Phone verified:</b> %s\n━━━━━━━━━━━━━━━━━━", verified)

	return s.SendToAdmin(ctx, strings.TrimSpace(b.String()))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
