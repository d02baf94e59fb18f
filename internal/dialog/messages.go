package dialog

import (
	"fmt"

	"budgetbot/internal/model"
)

const (
	msgMenu          = "Выбери тип операции:"
	msgGreeting      = "👋 Привет! Выбери тип операции:"
	msgBadAmount     = "❌ Введи корректную сумму (число больше 0):"
	msgPickCategory  = "🏷 Выбери категорию:"
	msgNoCategories  = "Нет доступных категорий 😕\nДобавь их в справочный лист и выполни /reload, либо отмени операцию."
	msgAskDesc       = "📝 Введи описание или нажми «Пропустить»:"
	msgCancelled     = "❌ Отменено"
	msgSaveFailed    = "❌ Ошибка записи. Операция не сохранена."
	msgEnterAmount   = "Введи сумму:"
	msgAmountThenAsk = "💵 Сумма: %s\n\nЭто расход или доход?"
)

func kindEmoji(k model.Kind) string {
	if k == model.KindIncome {
		return "💰"
	}
	return "💸"
}

func kindName(k model.Kind) string {
	if k == model.KindIncome {
		return "доход"
	}
	return "расход"
}

func kindTitle(k model.Kind) string {
	if k == model.KindIncome {
		return "Доход"
	}
	return "Расход"
}

func successText(d model.Draft) string {
	return fmt.Sprintf(
		"✅ %s записан!\n\n💵 Сумма: %s\n📝 Описание: %s\n🏷 Категория: %s",
		kindTitle(d.Kind), d.Amount, d.Description, d.Category)
}
