package model

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SkippedDescription записывается вместо описания, если пользователь его пропустил.
const SkippedDescription = "-"

// MaxDescriptionLen ограничивает длину описания в символах.
const MaxDescriptionLen = 100

// Draft — черновик транзакции, накапливаемый по ходу диалога.
// Черновик принадлежит ровно одному диалогу: после терминального перехода
// он выбрасывается и не переиспользуется.
type Draft struct {
	ID          string
	Kind        Kind
	Amount      decimal.Decimal
	Category    string
	Description string
}

// NewDraft создает пустой черновик. Идентификатор нужен только для
// сквозной корреляции записей в логе одного диалога.
func NewDraft() Draft {
	return Draft{ID: uuid.New().String()}
}

func (d Draft) HasKind() bool     { return d.Kind != KindUnknown }
func (d Draft) HasAmount() bool   { return d.Amount.IsPositive() }
func (d Draft) HasCategory() bool { return d.Category != "" }

// Ready сообщает, заполнены ли все четыре поля для записи в таблицу.
func (d Draft) Ready() bool {
	return d.HasKind() && d.HasAmount() && d.HasCategory() && d.Description != ""
}

// NormalizeDescription обрезает пробелы по краям и ограничивает длину
// описания MaxDescriptionLen символами. Пустой после обрезки текст
// заменяется на SkippedDescription.
func NormalizeDescription(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return SkippedDescription
	}
	r := []rune(s)
	if len(r) > MaxDescriptionLen {
		s = strings.TrimSpace(string(r[:MaxDescriptionLen]))
	}
	return s
}
