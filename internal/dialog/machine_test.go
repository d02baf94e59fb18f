package dialog

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetbot/internal/catalog"
	"budgetbot/internal/model"
)

type recordedCall struct {
	kind        model.Kind
	amount      decimal.Decimal
	description string
	category    string
}

type fakeSink struct {
	calls []recordedCall
	err   error
}

func (f *fakeSink) Record(ctx context.Context, kind model.Kind, amount decimal.Decimal, description, category string) error {
	f.calls = append(f.calls, recordedCall{kind: kind, amount: amount, description: description, category: category})
	return f.err
}

type staticSource struct {
	rows []catalog.Row
}

func (s staticSource) Load(ctx context.Context) ([]catalog.Row, error) {
	return s.rows, nil
}

var defaultRows = []catalog.Row{
	{Name: "Продукты", Tag: "expense"},
	{Name: "Транспорт", Tag: "expence"},
	{Name: "Зарплата", Tag: "income"},
	{Name: "Подработка", Tag: "income"},
}

func newTestMachine(t *testing.T, rows []catalog.Row, sink *fakeSink) *Machine {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	cat := catalog.New(staticSource{rows: rows}, log)
	require.NoError(t, cat.Reload(context.Background()))
	return NewMachine(cat, sink, log)
}

func handle(t *testing.T, m *Machine, userID int64, ev Event) Reply {
	t.Helper()
	reply, err := m.Handle(context.Background(), userID, ev)
	require.NoError(t, err)
	return reply
}

const user = int64(42)

func TestAmountFirstFlow(t *testing.T) {
	sink := &fakeSink{}
	m := newTestMachine(t, defaultRows, sink)

	// "500" из Idle: сумма принята, спрашиваем тип.
	reply := handle(t, m, user, Text{Value: "500"})
	assert.Equal(t, StateAwaitingType, m.StateOf(user))
	assert.True(t, reply.Choices.Kinds)

	// Выбран доход: сразу список категорий, отфильтрованный по типу.
	reply = handle(t, m, user, SelectKind{Kind: model.KindIncome})
	assert.Equal(t, StateAwaitingCategory, m.StateOf(user))
	require.Len(t, reply.Choices.Categories, 2)
	for _, e := range reply.Choices.Categories {
		assert.Equal(t, model.KindIncome, e.Kind)
	}
	assert.True(t, reply.Choices.Cancel)

	// Валидная категория: переходим к описанию.
	reply = handle(t, m, user, SelectCategory{Index: 0})
	assert.Equal(t, StateAwaitingDescription, m.StateOf(user))
	assert.True(t, reply.Choices.Skip)

	// Описание: терминальный переход с единственной записью.
	reply = handle(t, m, user, Text{Value: "groceries"})
	assert.True(t, reply.Terminal)
	assert.Equal(t, StateIdle, m.StateOf(user))

	require.Len(t, sink.calls, 1)
	call := sink.calls[0]
	assert.Equal(t, model.KindIncome, call.kind)
	assert.True(t, call.amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "groceries", call.description)
	assert.Equal(t, "Зарплата", call.category)
}

func TestTypeFirstFlow(t *testing.T) {
	sink := &fakeSink{}
	m := newTestMachine(t, defaultRows, sink)

	handle(t, m, user, SelectKind{Kind: model.KindExpense})
	assert.Equal(t, StateAwaitingAmount, m.StateOf(user))

	reply := handle(t, m, user, Text{Value: "12,50"})
	assert.Equal(t, StateAwaitingCategory, m.StateOf(user))
	require.Len(t, reply.Choices.Categories, 2, "только категории расходов")

	handle(t, m, user, SelectCategory{Index: 1})
	reply = handle(t, m, user, SkipDescription{})
	assert.True(t, reply.Terminal)

	require.Len(t, sink.calls, 1)
	call := sink.calls[0]
	assert.Equal(t, model.KindExpense, call.kind)
	assert.True(t, call.amount.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, model.SkippedDescription, call.description)
	assert.Equal(t, "Транспорт", call.category)
}

func TestIdleRejectsNonNumericText(t *testing.T) {
	m := newTestMachine(t, defaultRows, &fakeSink{})

	for _, input := range []string{"abc", "0", "-5"} {
		reply := handle(t, m, user, Text{Value: input})
		assert.Equal(t, StateIdle, m.StateOf(user), "input %q", input)
		assert.True(t, reply.Choices.Kinds, "должно показаться меню на %q", input)
		assert.False(t, reply.Terminal)
	}
}

func TestAwaitingAmountRejectsBadInput(t *testing.T) {
	sink := &fakeSink{}
	m := newTestMachine(t, defaultRows, sink)
	handle(t, m, user, SelectKind{Kind: model.KindExpense})

	for _, input := range []string{"abc", "0", "-5"} {
		handle(t, m, user, Text{Value: input})
		assert.Equal(t, StateAwaitingAmount, m.StateOf(user), "переспрос без сброса на %q", input)
	}
	assert.Empty(t, sink.calls)

	// После отказов корректная сумма все еще принимается.
	handle(t, m, user, Text{Value: " 12.50 "})
	assert.Equal(t, StateAwaitingCategory, m.StateOf(user))
}

func TestCategoryIndexOutsideRenderedSetIsInvariantViolation(t *testing.T) {
	sink := &fakeSink{}
	m := newTestMachine(t, defaultRows, sink)
	handle(t, m, user, SelectKind{Kind: model.KindIncome})
	handle(t, m, user, Text{Value: "100"})

	for _, idx := range []int{-1, 2, 99} {
		_, err := m.Handle(context.Background(), user, SelectCategory{Index: idx})
		require.Error(t, err, "index %d", idx)
		assert.True(t, errors.Is(err, ErrInvariant), "index %d должен быть нарушением инварианта", idx)
	}

	// Нарушение инварианта не доходит до записи и не ломает диалог.
	assert.Empty(t, sink.calls)
	assert.Equal(t, StateAwaitingCategory, m.StateOf(user))
	handle(t, m, user, SelectCategory{Index: 0})
	assert.Equal(t, StateAwaitingDescription, m.StateOf(user))
}

func TestCancelFromEveryState(t *testing.T) {
	sink := &fakeSink{}
	m := newTestMachine(t, defaultRows, sink)

	advance := map[string]func(){
		"awaiting_type":     func() { handle(t, m, user, Text{Value: "500"}) },
		"awaiting_amount":   func() { handle(t, m, user, SelectKind{Kind: model.KindExpense}) },
		"awaiting_category": func() { handle(t, m, user, SelectKind{Kind: model.KindExpense}); handle(t, m, user, Text{Value: "10"}) },
		"awaiting_description": func() {
			handle(t, m, user, SelectKind{Kind: model.KindExpense})
			handle(t, m, user, Text{Value: "10"})
			handle(t, m, user, SelectCategory{Index: 0})
		},
	}

	for name, setup := range advance {
		t.Run(name, func(t *testing.T) {
			setup()
			reply := handle(t, m, user, Cancel{})
			assert.True(t, reply.Terminal)
			assert.Equal(t, StateIdle, m.StateOf(user))
		})
	}
	assert.Empty(t, sink.calls)
}

func TestCancelDiscardsDraftCompletely(t *testing.T) {
	sink := &fakeSink{}
	m := newTestMachine(t, defaultRows, sink)

	// Доводим диалог до описания и отменяем.
	handle(t, m, user, SelectKind{Kind: model.KindIncome})
	handle(t, m, user, Text{Value: "999"})
	handle(t, m, user, SelectCategory{Index: 0})
	handle(t, m, user, Cancel{})

	// Новый диалог с суммы: прежние тип и категория не должны протечь.
	handle(t, m, user, Text{Value: "5"})
	handle(t, m, user, SelectKind{Kind: model.KindExpense})
	handle(t, m, user, SelectCategory{Index: 0})
	handle(t, m, user, SkipDescription{})

	require.Len(t, sink.calls, 1)
	call := sink.calls[0]
	assert.Equal(t, model.KindExpense, call.kind)
	assert.True(t, call.amount.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "Продукты", call.category)
}

func TestDescriptionTrimmedAndCapped(t *testing.T) {
	sink := &fakeSink{}
	m := newTestMachine(t, defaultRows, sink)

	handle(t, m, user, SelectKind{Kind: model.KindExpense})
	handle(t, m, user, Text{Value: "10"})
	handle(t, m, user, SelectCategory{Index: 0})
	handle(t, m, user, Text{Value: "  hello  "})

	require.Len(t, sink.calls, 1)
	assert.Equal(t, "hello", sink.calls[0].description)
}

func TestSinkFailureResetsToIdle(t *testing.T) {
	sink := &fakeSink{err: errors.New("sheet write failed")}
	m := newTestMachine(t, defaultRows, sink)

	handle(t, m, user, SelectKind{Kind: model.KindExpense})
	handle(t, m, user, Text{Value: "10"})
	handle(t, m, user, SelectCategory{Index: 0})
	reply := handle(t, m, user, Text{Value: "milk"})

	assert.True(t, reply.Terminal)
	assert.Equal(t, msgSaveFailed, reply.Text)
	assert.Equal(t, StateIdle, m.StateOf(user))
	assert.Len(t, sink.calls, 1, "повторных попыток записи нет")

	// Следующий диалог начинается с чистого черновика.
	sink.err = nil
	handle(t, m, user, Text{Value: "7"})
	assert.Equal(t, StateAwaitingType, m.StateOf(user))
}

func TestEmptyCatalogOffersOnlyCancel(t *testing.T) {
	// В справочнике нет ни одной категории расходов.
	rows := []catalog.Row{{Name: "Зарплата", Tag: "income"}}
	sink := &fakeSink{}
	m := newTestMachine(t, rows, sink)

	handle(t, m, user, SelectKind{Kind: model.KindExpense})
	reply := handle(t, m, user, Text{Value: "10"})

	assert.Empty(t, reply.Choices.Categories)
	assert.True(t, reply.Choices.Cancel)
	assert.False(t, reply.Choices.Kinds)
	assert.Equal(t, StateAwaitingCategory, m.StateOf(user))

	// Из тупика можно выйти только отменой.
	reply = handle(t, m, user, Cancel{})
	assert.True(t, reply.Terminal)
	assert.Equal(t, StateIdle, m.StateOf(user))
	assert.Empty(t, sink.calls)
}

func TestStaleButtonsFromPastDialogs(t *testing.T) {
	sink := &fakeSink{}
	m := newTestMachine(t, defaultRows, sink)

	// Кнопки, пришедшие не вовремя, не двигают диалог и не пишут в таблицу.
	reply := handle(t, m, user, SkipDescription{})
	assert.Equal(t, StateIdle, m.StateOf(user))
	assert.True(t, reply.Choices.Kinds)

	handle(t, m, user, SelectKind{Kind: model.KindExpense})
	handle(t, m, user, SelectKind{Kind: model.KindIncome})
	assert.Equal(t, StateAwaitingAmount, m.StateOf(user), "повторный выбор типа игнорируется")

	assert.Empty(t, sink.calls)
}

func TestUsersAreIsolated(t *testing.T) {
	sink := &fakeSink{}
	m := newTestMachine(t, defaultRows, sink)

	alice, bob := int64(1), int64(2)
	handle(t, m, alice, SelectKind{Kind: model.KindExpense})
	handle(t, m, bob, Text{Value: "300"})

	assert.Equal(t, StateAwaitingAmount, m.StateOf(alice))
	assert.Equal(t, StateAwaitingType, m.StateOf(bob))

	handle(t, m, alice, Cancel{})
	assert.Equal(t, StateIdle, m.StateOf(alice))
	assert.Equal(t, StateAwaitingType, m.StateOf(bob), "отмена одного не трогает другого")
}

func TestResetShowsMenu(t *testing.T) {
	m := newTestMachine(t, defaultRows, &fakeSink{})

	handle(t, m, user, SelectKind{Kind: model.KindExpense})
	reply := m.Reset(user)

	assert.Equal(t, StateIdle, m.StateOf(user))
	assert.True(t, reply.Choices.Kinds)
}
