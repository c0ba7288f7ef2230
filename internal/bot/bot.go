package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dkazarov/statusbot/internal/broadcast"
	"github.com/dkazarov/statusbot/internal/config"
	"github.com/dkazarov/statusbot/internal/dialog"
	"github.com/dkazarov/statusbot/internal/moderation"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	log    *slog.Logger
	svc    *moderation.Service
	states *dialog.Repo
	bcast  *broadcast.Coordinator

	channels            []config.Channel
	suggestionChannelID int64
}

func New(api *tgbotapi.BotAPI, log *slog.Logger, svc *moderation.Service,
	statesRepo *dialog.Repo, channels []config.Channel, suggestionChannelID int64) *Bot {

	b := &Bot{
		api:                 api,
		log:                 log,
		svc:                 svc,
		states:              statesRepo,
		channels:            channels,
		suggestionChannelID: suggestionChannelID,
	}
	b.bcast = broadcast.New(b, log)
	return b
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd)
			}
		}
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	if _, err := b.api.Request(resp); err != nil {
		b.log.Error("answer callback failed", "err", err)
	}
}

// SendTo delivers one broadcast message to a recipient identity (a chat
// id stored as a string). Implements broadcast.Sender.
func (b *Bot) SendTo(_ context.Context, identity, text string) error {
	chatID, err := strconv.ParseInt(identity, 10, 64)
	if err != nil {
		return fmt.Errorf("bad recipient %q: %w", identity, err)
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send to %d: %w", chatID, err)
	}
	return nil
}

func actorFrom(u *tgbotapi.User) moderation.Actor {
	if u == nil {
		return moderation.Actor{}
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return moderation.Actor{ID: u.ID, Username: u.UserName, FullName: name}
}
