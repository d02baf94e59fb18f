// Package catalog хранит справочник категорий, загружаемый из таблицы.
// Справочник живет как атомарно подменяемый снапшот: значение, загруженное
// на старте, используется до явного Reload, читатели всегда видят либо
// старый, либо новый список целиком.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"budgetbot/internal/model"
)

// Entry — категория: название и тип, выведенный из метки.
type Entry struct {
	Name string
	Kind model.Kind
}

// Row — сырая строка справочного листа: название и свободная метка типа.
type Row struct {
	Name string
	Tag  string
}

// Source загружает сырые строки справочника.
type Source interface {
	Load(ctx context.Context) ([]Row, error)
}

// Маркеры типа в метке категории. "expence" — встречающееся в живых
// таблицах написание, принимается наравне с правильным. Набор фиксирован,
// молча расширять его нельзя.
var (
	expenseMarkers = []string{"expense", "expence"}
	incomeMarkers  = []string{"income"}
)

// KindFromTag определяет тип категории по свободной метке.
// Метка приводится к нижнему регистру и проверяется на вхождение маркеров.
func KindFromTag(tag string) (model.Kind, bool) {
	t := strings.ToLower(strings.TrimSpace(tag))
	for _, m := range expenseMarkers {
		if strings.Contains(t, m) {
			return model.KindExpense, true
		}
	}
	for _, m := range incomeMarkers {
		if strings.Contains(t, m) {
			return model.KindIncome, true
		}
	}
	return model.KindUnknown, false
}

// Catalog — процессный снапшот категорий.
type Catalog struct {
	src  Source
	snap atomic.Pointer[[]Entry]
	sf   singleflight.Group
	log  *logrus.Logger
}

func New(src Source, log *logrus.Logger) *Catalog {
	c := &Catalog{src: src, log: log}
	empty := make([]Entry, 0)
	c.snap.Store(&empty)
	return c
}

// Reload перечитывает справочник и атомарно подменяет снапшот.
// Параллельные вызовы схлопываются в одну загрузку. При ошибке прежний
// снапшот остается в силе.
func (c *Catalog) Reload(ctx context.Context) error {
	_, err, _ := c.sf.Do("reload", func() (interface{}, error) {
		rows, err := c.src.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}

		entries := make([]Entry, 0, len(rows))
		for _, row := range rows {
			name := strings.TrimSpace(row.Name)
			if name == "" || strings.TrimSpace(row.Tag) == "" {
				continue
			}
			kind, ok := KindFromTag(row.Tag)
			if !ok {
				c.log.WithFields(logrus.Fields{
					"name": name,
					"tag":  row.Tag,
				}).Debug("категория с нераспознанной меткой пропущена")
				continue
			}
			entries = append(entries, Entry{Name: name, Kind: kind})
		}

		c.snap.Store(&entries)
		c.log.WithField("count", len(entries)).Info("категории загружены")
		return nil, nil
	})
	return err
}

// Entries возвращает текущий снапшот в исходном порядке листа.
func (c *Catalog) Entries() []Entry {
	return *c.snap.Load()
}

// Filter возвращает категории заданного типа, сохраняя исходный порядок.
func (c *Catalog) Filter(kind model.Kind) []Entry {
	var out []Entry
	for _, e := range c.Entries() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
