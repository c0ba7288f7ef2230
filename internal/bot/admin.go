package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dkazarov/statusbot/internal/domain/registry"
	"github.com/dkazarov/statusbot/internal/infra/metrics"
	"github.com/dkazarov/statusbot/internal/moderation"
	"github.com/dkazarov/statusbot/internal/stats"
)

var addInputRe = regexp.MustCompile(`^@?(\w+)\s+([a-zA-Zа-яА-Я]+)$`)

// handleAddInput processes "@username status" from /add or the admin
// panel prompt.
func (b *Bot) handleAddInput(ctx context.Context, msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID
	actor := actorFrom(msg.From)

	m := addInputRe.FindStringSubmatch(strings.TrimSpace(args))
	if m == nil {
		b.send(tgbotapi.NewMessage(chatID,
			"❌ Неверный формат. Используйте:\n/add @username status\n\n"+
				"Доступные статусы: verify, garant, media, fame, scam, beach, new, pdf\n\n"+
				"Пример: /add @username scam"))
		return
	}
	username := m[1]
	status := b.svc.NormalizeStatus(m[2])

	err := b.svc.AddUser(ctx, actor, username, status)
	switch {
	case errors.Is(err, moderation.ErrPermissionDenied):
		b.send(tgbotapi.NewMessage(chatID, msgNoRights))
	case errors.Is(err, moderation.ErrInvalidStatus):
		b.send(tgbotapi.NewMessage(chatID,
			"❌ Неверный статус. Доступные статусы: verify, garant, media, fame, scam, beach, new, pdf"))
	case err != nil:
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте позже."))
	default:
		metrics.RegistryWritesTotal.WithLabelValues("add").Inc()
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"✅ Пользователь @%s успешно добавлен со статусом: %s",
			registry.Key(username), registry.DisplayName(status))))
	}
}

func (b *Bot) handleRemoveInput(ctx context.Context, msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID
	actor := actorFrom(msg.From)

	username := registry.Key(args)
	if username == "" || strings.ContainsAny(username, " \t") {
		b.send(tgbotapi.NewMessage(chatID,
			"❌ Неверный формат. Используйте:\n/remove @username\n\nПример: /remove @username"))
		return
	}

	err := b.svc.RemoveUser(ctx, actor, username)
	switch {
	case errors.Is(err, moderation.ErrPermissionDenied):
		b.send(tgbotapi.NewMessage(chatID, msgNoRights))
	case errors.Is(err, moderation.ErrNotFound):
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"❌ Пользователь @%s не найден в базе данных.", username)))
	case err != nil:
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте позже."))
	default:
		metrics.RegistryWritesTotal.WithLabelValues("remove").Inc()
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"✅ Пользователь @%s успешно удален из базы данных.", username)))
	}
}

func (b *Bot) handleBlockInput(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	actor := actorFrom(msg.From)

	identity := registry.Key(argumentOrText(msg))
	if identity == "" {
		b.send(tgbotapi.NewMessage(chatID,
			"❌ Неверный формат. Используйте:\n/block @username\n\nПример: /block @username"))
		return
	}

	changed, err := b.svc.Block(ctx, actor, identity)
	switch {
	case errors.Is(err, moderation.ErrPermissionDenied):
		b.send(tgbotapi.NewMessage(chatID, msgNoRights))
	case err != nil:
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте позже."))
	case !changed:
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"❌ Пользователь @%s уже заблокирован.", identity)))
	default:
		metrics.RegistryWritesTotal.WithLabelValues("block").Inc()
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"⛔ Пользователь @%s успешно заблокирован.", identity)))
	}
}

func (b *Bot) handleUnblockInput(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	actor := actorFrom(msg.From)

	identity := registry.Key(argumentOrText(msg))
	if identity == "" {
		b.send(tgbotapi.NewMessage(chatID,
			"❌ Неверный формат. Используйте:\n/unblock @username\n\nПример: /unblock @username"))
		return
	}

	changed, err := b.svc.Unblock(ctx, actor, identity)
	switch {
	case errors.Is(err, moderation.ErrPermissionDenied):
		b.send(tgbotapi.NewMessage(chatID, msgNoRights))
	case err != nil:
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте позже."))
	case !changed:
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"❌ Пользователь @%s не найден или не был заблокирован.", identity)))
	default:
		metrics.RegistryWritesTotal.WithLabelValues("unblock").Inc()
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"✅ Пользователь @%s успешно разблокирован.", identity)))
	}
}

// argumentOrText returns command arguments for commands and the whole
// text for prompted (dialog state) input.
func argumentOrText(msg *tgbotapi.Message) string {
	if msg.IsCommand() {
		return msg.CommandArguments()
	}
	return msg.Text
}

const maintenanceAnnouncement = "🔧 Внимание! Бот временно недоступен из-за технических работ. Приносим извинения за неудобства."

// runBroadcast fans text out to the full bot-user set, editing a status
// message as the run progresses. Runs in its own goroutine so the
// update loop keeps serving; the run dies with the bot's context.
func (b *Bot) runBroadcast(ctx context.Context, chatID int64, actor moderation.Actor, text string) {
	audienceIDs, err := b.svc.Audience(ctx, actor)
	if err != nil {
		if errors.Is(err, moderation.ErrPermissionDenied) {
			b.send(tgbotapi.NewMessage(chatID, msgNoRights))
			return
		}
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте позже."))
		return
	}
	total := len(audienceIDs)
	if total == 0 {
		b.send(tgbotapi.NewMessage(chatID, "❌ Нет пользователей для рассылки."))
		return
	}

	statusMsg, err := b.api.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"📢 Начата рассылка на %d пользователей...\n🔄 Отправлено: 0/%d (0%%)", total, total)))
	if err != nil {
		b.log.Error("broadcast status message failed", "err", err)
		return
	}

	go func() {
		progress := func(done, total, sent, failed int) {
			percent := done * 100 / total
			bar := strings.Repeat("🟢", percent/10) + strings.Repeat("⚪", 10-percent/10)
			edit := tgbotapi.NewEditMessageText(chatID, statusMsg.MessageID, fmt.Sprintf(
				"📢 Рассылка на %d пользователей...\n🔄 Отправлено: %d/%d (%d%%)\n%s\n✅ Успешно: %d | ❌ Ошибок: %d",
				total, done, total, percent, bar, sent, failed))
			if _, err := b.api.Send(edit); err != nil {
				b.log.Debug("broadcast progress edit failed", "err", err)
			}
		}

		rep, err := b.bcast.Run(ctx, text, audienceIDs, progress)
		metrics.BroadcastDeliveriesTotal.WithLabelValues("sent").Add(float64(rep.Sent))
		metrics.BroadcastDeliveriesTotal.WithLabelValues("failed").Add(float64(rep.Failed))
		if err != nil {
			b.log.Warn("broadcast aborted", "sent", rep.Sent, "failed", rep.Failed, "err", err)
			return
		}
		b.send(tgbotapi.NewEditMessageText(chatID, statusMsg.MessageID, fmt.Sprintf(
			"📢 Рассылка завершена:\n👤 Всего пользователей: %d\n✅ Успешно: %d\n❌ Неудачно: %d",
			total, rep.Sent, rep.Failed)))
	}()
}

// toggleMaintenance flips the maintenance flag; enabling it announces
// the downtime to every bot user.
func (b *Bot) toggleMaintenance(ctx context.Context, chatID int64, msgID int, actor moderation.Actor) {
	enable := !b.svc.InMaintenance()
	if err := b.svc.SetMaintenance(ctx, actor, enable); err != nil {
		b.send(tgbotapi.NewEditMessageText(chatID, msgID, msgNoRights))
		return
	}
	if !enable {
		b.send(tgbotapi.NewEditMessageText(chatID, msgID, "✅ Режим технических работ выключен."))
		return
	}
	b.send(tgbotapi.NewEditMessageText(chatID, msgID,
		"✅ Режим технических работ включен. Уведомление рассылается всем пользователям."))
	b.runBroadcast(ctx, chatID, actor, maintenanceAnnouncement)
}

// sendStatistics renders the stats report and delivers it as a document.
func (b *Bot) sendStatistics(ctx context.Context, chatID int64, actor moderation.Actor) {
	st, err := b.svc.CollectStats(ctx, actor)
	if err != nil {
		if errors.Is(err, moderation.ErrPermissionDenied) {
			b.send(tgbotapi.NewMessage(chatID, msgNoRights))
			return
		}
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка получения статистики"))
		return
	}
	html, err := stats.RenderHTML(st, time.Now())
	if err != nil {
		b.log.Error("stats render failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка получения статистики"))
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "statistics.html", Bytes: html})
	doc.Caption = "📊 Статистика бота"
	b.send(doc)
}

// sendUserExport delivers the merged user listing as a spreadsheet.
func (b *Bot) sendUserExport(ctx context.Context, chatID int64) {
	users, err := b.svc.ListUsers(ctx)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте позже."))
		return
	}
	data, err := stats.ExportUsersXLSX(users)
	if err != nil {
		b.log.Error("user export failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Произошла ошибка. Попробуйте позже."))
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "users.xlsx", Bytes: data})
	doc.Caption = "📥 Выгрузка базы пользователей"
	b.send(doc)
}
