package dialog

import "budgetbot/internal/model"

// Event — входное событие диалога. Строковые callback-данные транспорта
// разбираются на границе (internal/bot), сюда попадают уже типизированные
// варианты.
type Event interface {
	eventName() string
}

// Text — свободный текст сообщения.
type Text struct {
	Value string
}

// SelectKind — нажатие кнопки типа операции.
type SelectKind struct {
	Kind model.Kind
}

// SelectCategory — нажатие кнопки категории. Index указывает в список,
// который диалог показал на шаге выбора категории.
type SelectCategory struct {
	Index int
}

// SkipDescription — пропуск описания.
type SkipDescription struct{}

// Cancel — отмена диалога; допустима из любого состояния.
type Cancel struct{}

func (Text) eventName() string            { return "text" }
func (SelectKind) eventName() string      { return "select_kind" }
func (SelectCategory) eventName() string  { return "select_category" }
func (SkipDescription) eventName() string { return "skip_description" }
func (Cancel) eventName() string          { return "cancel" }
