package dialog

import "budgetbot/internal/catalog"

// Choices перечисляет, какие варианты выбора транспорт должен показать
// вместе с текстом ответа.
type Choices struct {
	Kinds      bool            // кнопки «расход / доход»
	Categories []catalog.Entry // отфильтрованный список категорий
	Skip       bool            // кнопка пропуска описания
	Cancel     bool            // кнопка отмены
}

func (c Choices) None() bool {
	return !c.Kinds && len(c.Categories) == 0 && !c.Skip && !c.Cancel
}

// Reply — ответ диалога транспорту: текст подсказки, варианты выбора и
// признак терминального перехода (запись состоялась или диалог отменен).
type Reply struct {
	Text     string
	Choices  Choices
	Terminal bool
}
