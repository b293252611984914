package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MessageSender is the slice of the Telegram API the notifier needs.
// *tgbotapi.BotAPI satisfies it.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram mirrors operational events to the operator chat.
type Telegram struct {
	sender MessageSender
	chatID int64
}

// NewTelegram returns nil when either the sender or the chat is missing,
// so callers can treat the operator channel as optional.
func NewTelegram(sender MessageSender, chatID int64) *Telegram {
	if sender == nil || chatID == 0 {
		return nil
	}
	return &Telegram{sender: sender, chatID: chatID}
}

// Notify sends a plain text message to the operator chat.
func (t *Telegram) Notify(text string) error {
	if _, err := t.sender.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		return fmt.Errorf("operator notify: %w", err)
	}
	return nil
}

// SiteCreated announces a freshly generated page. Fire and forget:
// failures are logged, never surfaced.
func (t *Telegram) SiteCreated(bizName, siteID, url string) {
	if t == nil {
		return
	}
	msg := fmt.Sprintf("Site nou generat pentru %s\nCod: %s\nLink: %s", bizName, siteID, url)
	if err := t.Notify(msg); err != nil {
		log.Printf("notify: site-created message failed err=%v", err)
	}
}
