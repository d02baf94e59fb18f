package sheets

import (
	"fmt"

	"budgetbot/internal/model"
)

// Лист транзакций держит две параллельные группы колонок: расходы в B–E,
// доходы в G–J. Внутри группы порядок фиксирован: дата, сумма, описание,
// категория. Раскладка — внешняя настройка таблицы, менять ее здесь нельзя.
type layout struct {
	date     int // 1-based номер колонки
	amount   int
	desc     int
	category int
}

var (
	expenseLayout = layout{date: 2, amount: 3, desc: 4, category: 5}
	incomeLayout  = layout{date: 7, amount: 8, desc: 9, category: 10}
)

// startRow — первая строка данных; выше лежит шапка таблицы.
const startRow = 4

func layoutFor(kind model.Kind) (layout, error) {
	switch kind {
	case model.KindExpense:
		return expenseLayout, nil
	case model.KindIncome:
		return incomeLayout, nil
	default:
		return layout{}, fmt.Errorf("no column layout for kind %q", kind)
	}
}

// columnLetter переводит 1-based номер колонки в букву A1-нотации.
// Колонок дальше Z в этой таблице не бывает.
func columnLetter(n int) string {
	return string(rune('A' + n - 1))
}

// nextFreeRow возвращает первую свободную строку колонки дат: сразу за
// последней заполненной, но не раньше startRow. Строки, оставшиеся от
// прошлых запусков, учитываются длиной живой колонки.
func nextFreeRow(populated int) int {
	if populated+1 < startRow {
		return startRow
	}
	return populated + 1
}
