package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dkazarov/statusbot/internal/domain/registry"
	"github.com/dkazarov/statusbot/internal/infra/metrics"
)

const listPageSize = 20

// handleLookup answers a bare-text status check for the given username.
func (b *Bot) handleLookup(ctx context.Context, msg *tgbotapi.Message) {
	username := registry.Key(msg.Text)
	if username == "" {
		return
	}

	status, found, err := b.svc.StatusFor(ctx, username)
	if err != nil {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Произошла ошибка. Попробуйте позже."))
		return
	}
	if !found {
		metrics.LookupsTotal.WithLabelValues("missing").Inc()
		admins := b.svc.Gate().Names()
		contacts := make([]string, 0, len(admins))
		for _, name := range admins {
			contacts = append(contacts, "@"+name)
		}
		b.send(tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
			"🔍 Пользователь @%s не найден в нашей базе данных.\n\n"+
				"Вы можете предложить его внесение нашим администраторам:\n%s",
			username, strings.Join(contacts, ", "))))
		return
	}
	metrics.LookupsTotal.WithLabelValues("found").Inc()

	b.send(tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
		"🔍 Результат проверки: @%s\n\n%s Статус: %s\n📝 Описание: %s",
		username, registry.Emoji(status), registry.DisplayName(status), registry.Description(status))))
}

// showProfile renders the caller's own status card.
func (b *Bot) showProfile(ctx context.Context, chatID int64, msgID int, from *tgbotapi.User) {
	actor := actorFrom(from)
	status, found, err := b.svc.StatusForActor(ctx, actor)
	if err != nil {
		b.send(tgbotapi.NewEditMessageText(chatID, msgID, "❌ Произошла ошибка. Попробуйте позже."))
		return
	}

	emoji, name, description := "❓", "Отсутствует", "Статус не установлен"
	if found {
		emoji = registry.Emoji(status)
		name = registry.DisplayName(status)
		description = registry.Description(status)
	}

	username := from.UserName
	if username == "" {
		username = "Отсутствует"
	}
	text := fmt.Sprintf(
		"👤 Ваш профиль:\n\n🪪 Имя: %s\n%s Статус: %s\n📝 Описание: %s\n🆔 ID: %d\n📃 Username: @%s",
		actor.FullName, emoji, name, description, from.ID, username)

	kb := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Назад", "back_to_main"),
	))
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, kb))
}

// showUserList renders one page of the merged listing, grouped by
// status with a separator between groups.
func (b *Bot) showUserList(ctx context.Context, chatID int64, msgID int, page int) {
	users, err := b.svc.ListUsers(ctx)
	if err != nil {
		b.send(tgbotapi.NewEditMessageText(chatID, msgID, "❌ Произошла ошибка. Попробуйте позже."))
		return
	}
	if len(users) == 0 {
		b.send(tgbotapi.NewEditMessageText(chatID, msgID, "Список пользователей пуст."))
		return
	}

	totalPages := (len(users) + listPageSize - 1) / listPageSize
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * listPageSize
	end := start + listPageSize
	if end > len(users) {
		end = len(users)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Список пользователей (Страница %d/%d):\n\n", page, totalPages)
	var prev registry.Status
	for i, rec := range users[start:end] {
		if i > 0 && rec.Status != prev {
			sb.WriteString("——————————————————\n")
		}
		prev = rec.Status
		fmt.Fprintf(&sb, "%s %s - @%s\n", registry.Emoji(rec.Status), registry.DisplayName(rec.Status), rec.Username)
	}

	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, sb.String(), listNavKeyboard(page, totalPages)))
}
