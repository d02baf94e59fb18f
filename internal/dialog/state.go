package dialog

// State — шаг диалога. Состояние живет на пользователя: создается при
// первом обращении, сбрасывается в StateIdle после записи или отмены.
type State int

const (
	StateIdle State = iota
	StateAwaitingAmount
	StateAwaitingType
	StateAwaitingCategory
	StateAwaitingDescription
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingAmount:
		return "awaiting_amount"
	case StateAwaitingType:
		return "awaiting_type"
	case StateAwaitingCategory:
		return "awaiting_category"
	case StateAwaitingDescription:
		return "awaiting_description"
	default:
		return "unknown"
	}
}
