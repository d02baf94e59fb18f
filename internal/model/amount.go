package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount разбирает сумму из пользовательского ввода.
// Запятая принимается как десятичный разделитель, пробелы внутри числа
// игнорируются. Сумма должна быть строго больше нуля, верхней границы нет.
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.ReplaceAll(s, " ", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("not a number: %q", text)
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("amount must be positive, got %s", d)
	}
	return d, nil
}
