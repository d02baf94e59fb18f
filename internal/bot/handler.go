package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"budgetbot/internal/dialog"
	"budgetbot/internal/model"
)

func (b *Bot) handleCommand(ctx context.Context, userID int64, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.send(message.Chat.ID, b.dialog.Reset(userID))
	case "cancel":
		b.dispatch(ctx, userID, message.Chat.ID, dialog.Cancel{})
	case "reload":
		b.handleReload(ctx, message.Chat.ID)
	case "report":
		b.handleReport(ctx, message.Chat.ID)
	}
}

func (b *Bot) handleText(ctx context.Context, userID int64, message *tgbotapi.Message) {
	b.dispatch(ctx, userID, message.Chat.ID, dialog.Text{Value: message.Text})
}

func (b *Bot) handleCallback(ctx context.Context, userID int64, callback *tgbotapi.CallbackQuery) {
	// Отвечаем сразу, чтобы у кнопки погас индикатор загрузки.
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.log.WithError(err).Warn("callback не подтвердился")
	}

	ev, err := decodeCallback(callback.Data)
	if err != nil {
		b.log.WithField("data", callback.Data).WithError(err).Warn("нераспознанный callback")
		return
	}
	b.dispatch(ctx, userID, callback.Message.Chat.ID, ev)
}

func (b *Bot) dispatch(ctx context.Context, userID, chatID int64, ev dialog.Event) {
	reply, err := b.dialog.Handle(ctx, userID, ev)
	if err != nil {
		// Нарушение инварианта: ошибка логики, пользователю отдаем
		// нейтральный ответ, подробности уже в логе машины.
		if errors.Is(err, dialog.ErrInvariant) {
			b.sendText(chatID, "❌ Что-то пошло не так, начни заново: /start")
			return
		}
		b.log.WithError(err).Error("диалог вернул ошибку")
		return
	}
	b.send(chatID, reply)
}

func (b *Bot) handleReload(ctx context.Context, chatID int64) {
	if err := b.catalog.Reload(ctx); err != nil {
		b.log.WithError(err).Error("перезагрузка категорий не удалась")
		b.sendText(chatID, "❌ Не удалось перечитать категории, прежний список остался в силе")
		return
	}
	b.sendText(chatID, fmt.Sprintf("✅ Категории обновлены: %d", len(b.catalog.Entries())))
}

// decodeCallback переводит строковые callback-данные в типизированное
// событие диалога. Формат фиксирован: type:<kind>, cat:<index>, skip_desc,
// cancel. Дальше границы транспорта строки не уходят.
func decodeCallback(data string) (dialog.Event, error) {
	switch {
	case strings.HasPrefix(data, "type:"):
		switch strings.TrimPrefix(data, "type:") {
		case "expense":
			return dialog.SelectKind{Kind: model.KindExpense}, nil
		case "income":
			return dialog.SelectKind{Kind: model.KindIncome}, nil
		}
		return nil, fmt.Errorf("unknown kind in callback %q", data)
	case strings.HasPrefix(data, "cat:"):
		i, err := strconv.Atoi(strings.TrimPrefix(data, "cat:"))
		if err != nil {
			return nil, fmt.Errorf("bad category index in callback %q", data)
		}
		return dialog.SelectCategory{Index: i}, nil
	case data == "skip_desc":
		return dialog.SkipDescription{}, nil
	case data == "cancel":
		return dialog.Cancel{}, nil
	}
	return nil, fmt.Errorf("unknown callback %q", data)
}
