package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dkazarov/statusbot/internal/dialog"
	"github.com/dkazarov/statusbot/internal/domain/registry"
	"github.com/dkazarov/statusbot/internal/domain/suggestions"
	"github.com/dkazarov/statusbot/internal/moderation"
)

const suggestionFormat = "1. Желаемый статус: \n" +
	"2. Доказательство (фото или ссылка): \n" +
	"3. Причина/Обоснование: \n" +
	"4. Юзернейм (если предлагаете другого пользователя): @username\n\n" +
	"Пример:\n" +
	"1. Желаемый статус: медийка\n" +
	"2. Доказательство (фото или ссылка): https://example.com/proof.jpg\n" +
	"3. Причина/Обоснование: Это известный пользователь\n" +
	"4. Юзернейм (если предлагаете другого пользователя): @username"

var suggestionRe = regexp.MustCompile(`(?is)` +
	`1\.\s*Желаемый статус:\s*(.+?)\s*` +
	`2\.\s*Доказательство \(фото или ссылка\):\s*(.+?)\s*` +
	`3\.\s*Причина/Обоснование:\s*([\s\S]+?)\s*` +
	`4\.\s*Юзернейм \(если предлагаете другого пользователя\):\s*@?(\w+)`)

type suggestionInput struct {
	DesiredStatus string
	Proof         string
	Reason        string
	Username      string
}

// parseSuggestion matches the fixed 4-line submission format.
func parseSuggestion(text string) (suggestionInput, bool) {
	m := suggestionRe.FindStringSubmatch(text)
	if m == nil {
		return suggestionInput{}, false
	}
	return suggestionInput{
		DesiredStatus: strings.TrimSpace(m[1]),
		Proof:         strings.TrimSpace(m[2]),
		Reason:        strings.TrimSpace(m[3]),
		Username:      strings.ToLower(strings.TrimSpace(m[4])),
	}, true
}

func (b *Bot) promptSuggestion(ctx context.Context, chatID int64, msgID int) {
	_ = b.states.Set(ctx, chatID, dialog.StateAwaitSuggestion, dialog.Payload{})
	b.send(tgbotapi.NewEditMessageText(chatID, msgID,
		"📨 Вы можете предложить себя или другого пользователя для внесения в список.\n\n"+
			"Отправьте сообщение в следующем формате:\n\n"+suggestionFormat))
}

func (b *Bot) handleSuggestionInput(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	in, ok := parseSuggestion(msg.Text)
	if !ok {
		// stay in the same state and ask again
		b.send(tgbotapi.NewMessage(chatID,
			"❌ Неверный формат. Пожалуйста, отправьте данные в следующем формате:\n\n"+suggestionFormat))
		return
	}

	actor := actorFrom(msg.From)
	id, status, err := b.svc.Submit(ctx, actor, in.Username, in.DesiredStatus, in.Proof, in.Reason)
	if err != nil {
		if errors.Is(err, moderation.ErrInvalidStatus) {
			codes := make([]string, 0, len(registry.Assignable))
			for _, s := range registry.Assignable {
				codes = append(codes, string(s))
			}
			b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
				"❌ Неверный статус. Доступные варианты: %s.\nПожалуйста, укажите корректный статус:",
				strings.Join(codes, ", "))))
			return
		}
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка при отправке предложки. Попробуйте позже."))
		return
	}
	_ = b.states.Reset(ctx, chatID)

	// the record is already stored, a failed channel post only gets logged
	channelText := fmt.Sprintf(
		"📨 Новая предложка пользователя:\n\n👤 Пользователь: @%s\n⭐ Желаемый статус: %s\n"+
			"📝 Причина: %s\n📎 Доказательство: %s\n🤵 Предложил: @%s\n\n🆔 Предложка #%d",
		in.Username, registry.DisplayName(status), in.Reason, in.Proof, actor.Identity(), id)
	post := tgbotapi.NewMessage(b.suggestionChannelID, channelText)
	post.ReplyMarkup = reviewKeyboard(id)
	if _, err := b.api.Send(post); err != nil {
		b.log.Error("suggestion channel post failed", "id", id, "err", err)
	}

	b.send(tgbotapi.NewMessage(chatID,
		"✅ Ваша предложка успешно отправлена на рассмотрение администраторам.\nСпасибо за участие!"))
}

// showPending sends each pending suggestion to the admin with review
// buttons, newest first.
func (b *Bot) showPending(ctx context.Context, chatID int64, actor moderation.Actor) {
	pending, err := b.svc.Pending(ctx, actor)
	if err != nil {
		if errors.Is(err, moderation.ErrPermissionDenied) {
			b.send(tgbotapi.NewMessage(chatID, msgNoRights))
			return
		}
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте позже."))
		return
	}
	if len(pending) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "Предложек на рассмотрении нет."))
		return
	}
	for _, s := range pending {
		text := fmt.Sprintf(
			"📨 Предложка #%d\n\n👤 Пользователь: @%s\n⭐ Желаемый статус: %s\n"+
				"📝 Причина: %s\n📎 Доказательство: %s\n🤵 Предложил: @%s\n⏰ %s",
			s.ID, s.Username, registry.DisplayName(registry.Status(s.DesiredStatus)),
			s.Reason, s.Proof, s.SuggestedBy, s.CreatedAt.Format("2006-01-02 15:04"))
		m := tgbotapi.NewMessage(chatID, text)
		m.ReplyMarkup = reviewKeyboard(s.ID)
		b.send(m)
	}
}

// handleReview applies an approve/reject callback on a suggestion.
func (b *Bot) handleReview(ctx context.Context, cb *tgbotapi.CallbackQuery, actor moderation.Actor) {
	parts := strings.Split(cb.Data, ":")
	if len(parts) != 3 {
		return
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return
	}
	outcome := suggestions.ReviewRejected
	verdict := "❌ Отклонена"
	if parts[2] == "approve" {
		outcome = suggestions.ReviewApproved
		verdict = "✅ Одобрена"
	}

	if err := b.svc.Decide(ctx, actor, id, outcome); err != nil {
		if errors.Is(err, suggestions.ErrNotFound) {
			b.answerCallback(cb, fmt.Sprintf("Предложка #%d не найдена.", id), true)
			return
		}
		b.answerCallback(cb, "❌ Произошла ошибка. Попробуйте позже.", true)
		return
	}

	text := cb.Message.Text + "\n\n" + verdict + " (@" + actor.Identity() + ")"
	if outcome == suggestions.ReviewApproved {
		// approval does not add the user, that takes an explicit /add
		text += "\nДля внесения: /add @username статус"
	}
	b.send(tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, text))
}
