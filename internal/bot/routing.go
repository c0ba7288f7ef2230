package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dkazarov/statusbot/internal/dialog"
	"github.com/dkazarov/statusbot/internal/infra/metrics"
)

const (
	msgBlocked     = "🚫 Ваш аккаунт заблокирован. Обратитесь к администратору."
	msgMaintenance = "🔧 Бот временно недоступен из-за технических работ. Пожалуйста, попробуйте позже."
	msgNoRights    = "❌ У вас нет прав для выполнения этой команды."
	msgCancelled   = "Действие отменено."
)

// refused reports whether the sender is blocked, by id or by username.
func (b *Bot) refused(ctx context.Context, from *tgbotapi.User) bool {
	if blocked, err := b.svc.IsBlocked(ctx, strconv.FormatInt(from.ID, 10)); err == nil && blocked {
		return true
	}
	if from.UserName == "" {
		return false
	}
	blocked, err := b.svc.IsBlocked(ctx, from.UserName)
	return err == nil && blocked
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	from := msg.From
	if from == nil {
		return
	}
	chatID := msg.Chat.ID

	if b.refused(ctx, from) {
		b.send(tgbotapi.NewMessage(chatID, msgBlocked))
		return
	}
	if b.svc.InMaintenance() && !b.svc.Gate().IsAdmin(from.ID) {
		b.send(tgbotapi.NewMessage(chatID, msgMaintenance))
		return
	}

	if msg.IsCommand() {
		metrics.UpdatesTotal.WithLabelValues("command").Inc()
		b.handleCommand(ctx, msg)
		return
	}
	metrics.UpdatesTotal.WithLabelValues("message").Inc()

	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("dialog state load failed", "chat", chatID, "err", err)
		st = &dialog.Item{State: dialog.StateIdle, Payload: dialog.Payload{}}
	}

	switch st.State {
	case dialog.StateAwaitSuggestion:
		b.handleSuggestionInput(ctx, msg)
	case dialog.StateAwaitBroadcast:
		_ = b.states.Reset(ctx, chatID)
		b.runBroadcast(ctx, chatID, actorFrom(from), msg.Text)
	case dialog.StateAwaitBlock:
		_ = b.states.Reset(ctx, chatID)
		b.handleBlockInput(ctx, msg)
	case dialog.StateAwaitUnblock:
		_ = b.states.Reset(ctx, chatID)
		b.handleUnblockInput(ctx, msg)
	case dialog.StateAwaitAdd:
		_ = b.states.Reset(ctx, chatID)
		b.handleAddInput(ctx, msg, msg.Text)
	case dialog.StateAwaitRemove:
		_ = b.states.Reset(ctx, chatID)
		b.handleRemoveInput(ctx, msg, msg.Text)
	default:
		// any other text is treated as a lookup query
		if !b.svc.Gate().IsAdmin(from.ID) && !b.isSubscribed(from.ID) {
			b.sendSubscriptionRequest(chatID, 0)
			return
		}
		b.handleLookup(ctx, msg)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	from := msg.From
	actor := actorFrom(from)

	switch msg.Command() {
	case "start":
		if !b.svc.Gate().IsAdmin(from.ID) && !b.isSubscribed(from.ID) {
			b.sendSubscriptionRequest(chatID, 0)
			return
		}
		if err := b.svc.NoteStart(ctx, actor); err != nil {
			b.log.Error("note start failed", "chat", chatID, "err", err)
		}
		m := tgbotapi.NewMessage(chatID,
			"👋 Добро пожаловать!\nЗдесь вы можете проверить статус пользователя и узнать, можно ли ему доверять.")
		m.ReplyMarkup = mainMenuKeyboard(b.svc.Gate().IsAdmin(from.ID))
		b.send(m)

	case "help":
		b.send(tgbotapi.NewMessage(chatID,
			"Команды:\n/start — главное меню\n/panel — админ панель\n"+
				"/add @username статус — добавить пользователя\n/remove @username — удалить\n"+
				"/block @username, /unblock @username\n/broadcast текст — рассылка\n"+
				"/pending — предложки на рассмотрении\n/cancel — отменить действие"))

	case "panel":
		if !b.svc.Gate().IsAdmin(from.ID) {
			b.send(tgbotapi.NewMessage(chatID, "❌ У вас нет доступа к админ-панели."))
			return
		}
		m := tgbotapi.NewMessage(chatID, "🛠️ Админ панель:")
		m.ReplyMarkup = adminPanelKeyboard()
		b.send(m)

	case "add":
		b.handleAddInput(ctx, msg, msg.CommandArguments())

	case "remove":
		b.handleRemoveInput(ctx, msg, msg.CommandArguments())

	case "block":
		b.handleBlockInput(ctx, msg)

	case "unblock":
		b.handleUnblockInput(ctx, msg)

	case "broadcast":
		text := strings.TrimSpace(msg.CommandArguments())
		if text == "" {
			if !b.svc.Gate().IsAdmin(from.ID) {
				b.send(tgbotapi.NewMessage(chatID, msgNoRights))
				return
			}
			_ = b.states.Set(ctx, chatID, dialog.StateAwaitBroadcast, dialog.Payload{})
			b.send(tgbotapi.NewMessage(chatID, "📢 Введите сообщение для рассылки всем пользователям:"))
			return
		}
		b.runBroadcast(ctx, chatID, actor, text)

	case "pending":
		b.showPending(ctx, chatID, actor)

	case "cancel":
		_ = b.states.Reset(ctx, chatID)
		b.send(tgbotapi.NewMessage(chatID, msgCancelled))

	default:
		b.send(tgbotapi.NewMessage(chatID, "Не знаю такую команду. Наберите /help"))
	}
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	cb := upd.CallbackQuery
	from := cb.From
	if from == nil || cb.Message == nil {
		return
	}
	metrics.UpdatesTotal.WithLabelValues("callback").Inc()
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	actor := actorFrom(from)
	isAdmin := b.svc.Gate().IsAdmin(from.ID)

	if b.refused(ctx, from) {
		b.answerCallback(cb, msgBlocked, true)
		return
	}
	if b.svc.InMaintenance() && !isAdmin {
		b.answerCallback(cb, msgMaintenance, true)
		return
	}

	if cb.Data == "check_subscription" {
		if b.isSubscribed(from.ID) {
			b.answerCallback(cb, "", false)
			_ = b.svc.NoteStart(ctx, actor)
			b.editMainMenu(chatID, msgID, isAdmin)
		} else {
			b.answerCallback(cb, "Вы не подписаны на все каналы!", true)
		}
		return
	}
	if !isAdmin && !b.isSubscribed(from.ID) {
		b.answerCallback(cb, "", false)
		b.sendSubscriptionRequest(chatID, msgID)
		return
	}
	b.answerCallback(cb, "", false)

	switch {
	case cb.Data == "check_user":
		b.send(tgbotapi.NewEditMessageText(chatID, msgID,
			"Введите username пользователя для проверки (например, @username или просто username):"))

	case strings.HasPrefix(cb.Data, "user_list_"):
		page, _ := strconv.Atoi(strings.TrimPrefix(cb.Data, "user_list_"))
		b.showUserList(ctx, chatID, msgID, page)

	case cb.Data == "my_profile":
		b.showProfile(ctx, chatID, msgID, from)

	case cb.Data == "suggest_user":
		b.promptSuggestion(ctx, chatID, msgID)

	case cb.Data == "back_to_main":
		b.editMainMenu(chatID, msgID, isAdmin)

	case cb.Data == "admin_panel":
		if !isAdmin {
			b.send(tgbotapi.NewEditMessageText(chatID, msgID, "❌ У вас нет доступа к админ-панели."))
			return
		}
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, "🛠️ Админ панель:", adminPanelKeyboard())
		b.send(edit)

	case cb.Data == "statistics":
		b.requireAdmin(cb, isAdmin, func() { b.sendStatistics(ctx, chatID, actor) })

	case cb.Data == "export_users":
		b.requireAdmin(cb, isAdmin, func() { b.sendUserExport(ctx, chatID) })

	case cb.Data == "pending":
		b.requireAdmin(cb, isAdmin, func() { b.showPending(ctx, chatID, actor) })

	case cb.Data == "maintenance":
		b.requireAdmin(cb, isAdmin, func() { b.toggleMaintenance(ctx, chatID, msgID, actor) })

	case cb.Data == "broadcast":
		b.requireAdmin(cb, isAdmin, func() {
			_ = b.states.Set(ctx, chatID, dialog.StateAwaitBroadcast, dialog.Payload{})
			b.send(tgbotapi.NewEditMessageText(chatID, msgID,
				"📢 Введите сообщение для рассылки всем пользователям:"))
		})

	case cb.Data == "block_user":
		b.requireAdmin(cb, isAdmin, func() {
			_ = b.states.Set(ctx, chatID, dialog.StateAwaitBlock, dialog.Payload{})
			b.send(tgbotapi.NewEditMessageText(chatID, msgID,
				"⛔ Введите username пользователя для блокировки:\nПример: @username"))
		})

	case cb.Data == "unblock_user":
		b.requireAdmin(cb, isAdmin, func() {
			_ = b.states.Set(ctx, chatID, dialog.StateAwaitUnblock, dialog.Payload{})
			b.send(tgbotapi.NewEditMessageText(chatID, msgID,
				"✅ Введите username пользователя для разблокировки:\nПример: @username"))
		})

	case cb.Data == "add_user":
		b.requireAdmin(cb, isAdmin, func() {
			_ = b.states.Set(ctx, chatID, dialog.StateAwaitAdd, dialog.Payload{})
			b.send(tgbotapi.NewEditMessageText(chatID, msgID,
				"➕ Введите username и статус пользователя:\nПример: @username status\n\n"+
					"Доступные статусы: verify, garant, media, fame, scam, beach, new, pdf"))
		})

	case cb.Data == "remove_user":
		b.requireAdmin(cb, isAdmin, func() {
			_ = b.states.Set(ctx, chatID, dialog.StateAwaitRemove, dialog.Payload{})
			b.send(tgbotapi.NewEditMessageText(chatID, msgID,
				"➖ Введите username пользователя для удаления:\nПример: @username"))
		})

	case strings.HasPrefix(cb.Data, "review:"):
		b.requireAdmin(cb, isAdmin, func() { b.handleReview(ctx, cb, actor) })
	}
}

func (b *Bot) requireAdmin(cb *tgbotapi.CallbackQuery, isAdmin bool, fn func()) {
	if !isAdmin {
		b.answerCallback(cb, msgNoRights, true)
		return
	}
	fn()
}

func (b *Bot) editMainMenu(chatID int64, msgID int, isAdmin bool) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, "Главное меню:", mainMenuKeyboard(isAdmin))
	b.send(edit)
}
