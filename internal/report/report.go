// Package report строит месячную сводку по уже записанным транзакциям.
// Сводка читается из таблицы и никак не пересекается с диалогом ввода.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"budgetbot/internal/model"
)

// Source читает строки одной группы колонок за месяц.
type Source interface {
	ListMonth(ctx context.Context, kind model.Kind, year int, month time.Month) ([]model.Record, error)
}

type CategoryTotal struct {
	Name  string
	Total decimal.Decimal
}

type Summary struct {
	Year          int
	Month         time.Month
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Expenses      []CategoryTotal // в порядке первого появления в таблице
	Income        []CategoryTotal
}

func (s Summary) Empty() bool {
	return len(s.Expenses) == 0 && len(s.Income) == 0
}

// Build читает обе группы колонок и сводит их в Summary.
func Build(ctx context.Context, src Source, year int, month time.Month) (Summary, error) {
	expenses, err := src.ListMonth(ctx, model.KindExpense, year, month)
	if err != nil {
		return Summary{}, fmt.Errorf("list expenses: %w", err)
	}
	income, err := src.ListMonth(ctx, model.KindIncome, year, month)
	if err != nil {
		return Summary{}, fmt.Errorf("list income: %w", err)
	}

	s := Summary{Year: year, Month: month}
	s.Expenses, s.TotalExpenses = totalsByCategory(expenses)
	s.Income, s.TotalIncome = totalsByCategory(income)
	return s, nil
}

// totalsByCategory суммирует записи по категориям, сохраняя порядок
// первого появления.
func totalsByCategory(records []model.Record) ([]CategoryTotal, decimal.Decimal) {
	total := decimal.Zero
	index := make(map[string]int)
	var out []CategoryTotal

	for _, r := range records {
		total = total.Add(r.Amount)
		if i, ok := index[r.Category]; ok {
			out[i].Total = out[i].Total.Add(r.Amount)
			continue
		}
		index[r.Category] = len(out)
		out = append(out, CategoryTotal{Name: r.Category, Total: r.Amount})
	}
	return out, total
}
