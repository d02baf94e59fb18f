package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"budgetbot/internal/dialog"
)

// keyboardFor собирает inline-клавиатуру по вариантам, которые диалог
// разрешил показать. Категории раскладываются по две в ряд.
func keyboardFor(ch dialog.Choices) (tgbotapi.InlineKeyboardMarkup, bool) {
	var rows [][]tgbotapi.InlineKeyboardButton

	if ch.Kinds {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💸 Расход", "type:expense"),
			tgbotapi.NewInlineKeyboardButtonData("💰 Доход", "type:income"),
		))
	}

	if len(ch.Categories) > 0 {
		row := make([]tgbotapi.InlineKeyboardButton, 0, 2)
		for i, e := range ch.Categories {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(e.Name, fmt.Sprintf("cat:%d", i)))
			if len(row) == 2 {
				rows = append(rows, row)
				row = make([]tgbotapi.InlineKeyboardButton, 0, 2)
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	if ch.Skip {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏭ Пропустить", "skip_desc"),
		))
	}
	if ch.Cancel {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", "cancel"),
		))
	}

	if len(rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}
