package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout — формат даты в колонке дат таблицы.
const DateLayout = "02.01.2006"

// Record — сохраненная строка таблицы. Используется при обратном чтении
// для отчетов; диалог работает только с Draft.
type Record struct {
	Kind        Kind
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	Category    string
}
