package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// isSubscribed reports whether the user is a member of every required
// channel. A lookup failure counts as not subscribed.
func (b *Bot) isSubscribed(userID int64) bool {
	for _, ch := range b.channels {
		member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
			ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
				ChatID: ch.ChatID,
				UserID: userID,
			},
		})
		if err != nil {
			b.log.Warn("subscription check failed", "channel", ch.ChatID, "err", err)
			return false
		}
		if member.Status == "left" || member.Status == "kicked" {
			return false
		}
	}
	return true
}

func (b *Bot) sendSubscriptionRequest(chatID int64, msgID int) {
	text := "👋 Наш бот является абсолютно бесплатным, поэтому пожалуйста,\n" +
		"📢 Для использования бота необходимо подписаться на наши каналы:"
	kb := subscriptionKeyboard(b.channels)
	if msgID != 0 {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, kb))
		return
	}
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = kb
	b.send(m)
}
