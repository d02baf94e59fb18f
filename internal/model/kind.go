package model

// Kind определяет тип операции: расход или доход.
// Тип выбирается один раз за диалог и не меняется.
type Kind int

const (
	KindUnknown Kind = iota
	KindExpense
	KindIncome
)

func (k Kind) String() string {
	switch k {
	case KindExpense:
		return "expense"
	case KindIncome:
		return "income"
	default:
		return "unknown"
	}
}
