package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dkazarov/statusbot/internal/moderation"
)

// AuditLog posts action records to the log channel. Implements
// moderation.AuditSink; delivery failures are logged, never propagated.
type AuditLog struct {
	api       *tgbotapi.BotAPI
	log       *slog.Logger
	channelID int64
}

func NewAuditLog(api *tgbotapi.BotAPI, log *slog.Logger, channelID int64) *AuditLog {
	return &AuditLog{api: api, log: log, channelID: channelID}
}

func (a *AuditLog) Record(_ context.Context, actor moderation.Actor, action, details string) {
	if a.channelID == 0 {
		return
	}
	username := actor.Username
	if username == "" {
		username = "N/A"
	}
	text := fmt.Sprintf(
		"🛠️ Действие: %s\n👤 Пользователь: %s (@%s)\n🆔 ID: %d\n⏰ Время: %s\n",
		action, actor.FullName, username, actor.ID,
		time.Now().Format("2006-01-02 15:04:05"))
	if details != "" {
		text += fmt.Sprintf("📝 Детали: %s\n", details)
	}
	if _, err := a.api.Send(tgbotapi.NewMessage(a.channelID, text)); err != nil {
		a.log.Warn("audit post failed", "action", action, "err", err)
	}
}
